package repository

import (
	"context"
	"database/sql"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	// Tx runs fn inside a single database transaction. Calls made through
	// the repository passed to fn share that transaction.
	Tx(ctx context.Context, fn func(repo Repository) error) error

	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	GetBookForUpdate(ctx context.Context, id int64) (model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	AdjustInventory(ctx context.Context, bookID int64, delta int) (int, error)

	CreateBorrowing(ctx context.Context, b model.Borrowing) (model.Borrowing, error)
	GetBorrowing(ctx context.Context, id int64) (model.Borrowing, error)
	GetBorrowingForUpdate(ctx context.Context, id int64) (model.Borrowing, error)
	ListBorrowings(ctx context.Context, filter model.BorrowingFilter) (model.ListBorrowings, error)
	MarkReturned(ctx context.Context, id int64, date model.Date) error
	ListDueBorrowings(ctx context.Context, dueBy model.Date) ([]model.DueBorrowing, error)

	CreatePayment(ctx context.Context, p model.Payment) (model.Payment, error)
	GetPayment(ctx context.Context, id int64) (model.Payment, error)
	GetPaymentBySession(ctx context.Context, sessionID string) (model.Payment, error)
	ListPayments(ctx context.Context, userID *int64, page, size int) (model.ListPayments, error)
	ListBorrowingPayments(ctx context.Context, borrowingID int64) ([]model.Payment, error)
	SetPaymentStatus(ctx context.Context, sessionID string, status model.PaymentStatus) (model.Payment, error)

	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	SetStaff(ctx context.Context, id int64, isStaff bool) error
}

type repository struct {
	db  *sqlx.DB
	q   sqlx.ExtContext
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		q:   db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName      = `books`
	borrowingsTableName = `borrowings`
	paymentsTableName   = `payments`
	usersTableName      = `users`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) Tx(ctx context.Context, fn func(repo Repository) error) (err error) {
	if _, ok := r.q.(*sqlx.Tx); ok {
		return fn(r)
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "BeginTxx")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Error("tx.Rollback", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(&repository{db: r.db, q: tx, log: r.log}); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "tx.Commit")
}

func withPaging(q sq.SelectBuilder, page, size int) sq.SelectBuilder {
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	return q
}

// mapErr translates driver errors into the errs taxonomy.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.CheckViolation:
			return errors.Wrap(errs.ErrIntegrity, pgErr.ConstraintName)
		case pgerrcode.UniqueViolation:
			return errors.Wrap(errs.ErrValidation, "already exists")
		case pgerrcode.ForeignKeyViolation:
			return errors.Wrap(errs.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}
