package repository

import (
	"context"
	"fmt"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var borrowingColumns = []string{
	"br.id", "br.book_id", "br.user_id",
	"br.borrowing_date", "br.expected_returning_date", "br.actual_returning_date",
	`b.id as "book.id"`, `b.title as "book.title"`, `b.author as "book.author"`,
	`b.cover as "book.cover"`, `b.inventory as "book.inventory"`, `b.daily_fee as "book.daily_fee"`,
}

func selectBorrowings() sq.SelectBuilder {
	return qb.Select(borrowingColumns...).
		From(borrowingsTableName + " br").
		Join(fmt.Sprintf("%s b on b.id = br.book_id", booksTableName))
}

func (r *repository) CreateBorrowing(ctx context.Context, b model.Borrowing) (model.Borrowing, error) {
	query, args, err := qb.Insert(borrowingsTableName).
		Columns("book_id", "user_id", "borrowing_date", "expected_returning_date").
		Values(b.BookID, b.UserID, b.BorrowingDate, b.ExpectedReturningDate).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Borrowing{}, err
	}

	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&b.ID); err != nil {
		r.log.Error("CreateBorrowing", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Borrowing{}, mapErr(err)
	}
	return b, nil
}

func (r *repository) GetBorrowing(ctx context.Context, id int64) (model.Borrowing, error) {
	return r.getBorrowing(ctx, id, false)
}

func (r *repository) GetBorrowingForUpdate(ctx context.Context, id int64) (model.Borrowing, error) {
	return r.getBorrowing(ctx, id, true)
}

func (r *repository) getBorrowing(ctx context.Context, id int64, forUpdate bool) (model.Borrowing, error) {
	q := selectBorrowings().Where(sq.Eq{"br.id": id})
	if forUpdate {
		q = q.Suffix("for update of br")
	}
	query, args, err := q.ToSql()
	if err != nil {
		return model.Borrowing{}, err
	}

	var b model.Borrowing
	if err := sqlx.GetContext(ctx, r.q, &b, query, args...); err != nil {
		return model.Borrowing{}, mapErr(err)
	}
	return b, nil
}

func (r *repository) ListBorrowings(ctx context.Context, filter model.BorrowingFilter) (model.ListBorrowings, error) {
	q := selectBorrowings()
	if filter.UserID != nil {
		q = q.Where(sq.Eq{"br.user_id": *filter.UserID})
	}
	if filter.IsActive != nil {
		if *filter.IsActive {
			q = q.Where(sq.Eq{"br.actual_returning_date": nil})
		} else {
			q = q.Where(sq.NotEq{"br.actual_returning_date": nil})
		}
	}
	q = withPaging(q.OrderBy("br.id"), filter.Page, filter.Size)

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBorrowings{}, err
	}
	r.log.Debug("ListBorrowings", zap.String("query", query), zap.Any("args", args))

	items := make([]model.Borrowing, 0)
	if err := sqlx.SelectContext(ctx, r.q, &items, query, args...); err != nil {
		return model.ListBorrowings{}, err
	}

	return model.ListBorrowings{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: len(items),
		},
		Items: items,
	}, nil
}

// MarkReturned sets the actual returning date once; a second call fails with ErrAlreadyReturned.
func (r *repository) MarkReturned(ctx context.Context, id int64, date model.Date) error {
	query, args, err := qb.Update(borrowingsTableName).
		Set("actual_returning_date", date).
		Where(sq.Eq{"id": id, "actual_returning_date": nil}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrAlreadyReturned
	}
	return nil
}

func (r *repository) ListDueBorrowings(ctx context.Context, dueBy model.Date) ([]model.DueBorrowing, error) {
	query, args, err := qb.Select(append(append([]string{}, borrowingColumns...), "u.email as user_email")...).
		From(borrowingsTableName+" br").
		Join(fmt.Sprintf("%s b on b.id = br.book_id", booksTableName)).
		Join(fmt.Sprintf("%s u on u.id = br.user_id", usersTableName)).
		Where(sq.Eq{"br.actual_returning_date": nil}).
		Where(sq.LtOrEq{"br.expected_returning_date": dueBy}).
		OrderBy("br.expected_returning_date", "br.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var items []model.DueBorrowing
	if err := sqlx.SelectContext(ctx, r.q, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}
