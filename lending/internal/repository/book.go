package repository

import (
	"context"
	"database/sql"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var bookColumns = []string{"id", "title", "author", "cover", "inventory", "daily_fee"}

func (r *repository) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	q := withPaging(qb.Select(bookColumns...).From(booksTableName).OrderBy("id"), page, size)

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books := make([]model.Book, 0)
	if err := sqlx.SelectContext(ctx, r.q, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return r.getBook(ctx, id, false)
}

func (r *repository) GetBookForUpdate(ctx context.Context, id int64) (model.Book, error) {
	return r.getBook(ctx, id, true)
}

func (r *repository) getBook(ctx context.Context, id int64, forUpdate bool) (model.Book, error) {
	q := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id})
	if forUpdate {
		q = q.Suffix("for update")
	}
	query, args, err := q.ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := sqlx.GetContext(ctx, r.q, &book, query, args...); err != nil {
		return model.Book{}, mapErr(err)
	}
	return book, nil
}

func (r *repository) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "cover", "inventory", "daily_fee").
		Values(req.Title, req.Author, req.Cover, req.Inventory, req.DailyFee).
		Suffix("returning id, title, author, cover, inventory, daily_fee").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := sqlx.GetContext(ctx, r.q, &book, query, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Book{}, mapErr(err)
	}
	return book, nil
}

func (r *repository) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		SetMap(map[string]interface{}{
			"title":     req.Title,
			"author":    req.Author,
			"cover":     req.Cover,
			"inventory": req.Inventory,
			"daily_fee": req.DailyFee,
		}).
		Where(sq.Eq{"id": id}).
		Suffix("returning id, title, author, cover, inventory, daily_fee").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := sqlx.GetContext(ctx, r.q, &book, query, args...); err != nil {
		return model.Book{}, mapErr(err)
	}
	return book, nil
}

func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(booksTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// AdjustInventory shifts the book inventory by delta and returns the new value.
// The update never takes inventory below zero.
func (r *repository) AdjustInventory(ctx context.Context, bookID int64, delta int) (int, error) {
	q := `
update books
    set inventory = inventory + $2
where id = $1 and inventory + $2 >= 0
returning inventory`

	var inventory int
	err := r.q.QueryRowxContext(ctx, q, bookID, delta).Scan(&inventory)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if delta < 0 {
				return 0, errs.ErrOutOfStock
			}
			return 0, errs.ErrNotFound
		}
		return 0, mapErr(err)
	}
	return inventory, nil
}
