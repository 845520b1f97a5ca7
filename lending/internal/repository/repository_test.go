package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockRepo(t *testing.T) (*repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewRepository(sqlx.NewDb(db, "pgx"), zap.NewNop())
	require.NoError(t, err)
	return repo, mock
}

func TestRepository_AdjustInventory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("decrement", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("update books")).
			WithArgs(int64(1), -1).
			WillReturnRows(sqlmock.NewRows([]string{"inventory"}).AddRow(9))

		inventory, err := repo.AdjustInventory(ctx, 1, -1)
		require.NoError(t, err)
		require.Equal(t, 9, inventory)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("out of stock", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("update books")).
			WithArgs(int64(1), -1).
			WillReturnRows(sqlmock.NewRows([]string{"inventory"}))

		_, err := repo.AdjustInventory(ctx, 1, -1)
		require.ErrorIs(t, err, errs.ErrOutOfStock)
	})

	t.Run("missing book on increment", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("update books")).
			WithArgs(int64(2), 1).
			WillReturnRows(sqlmock.NewRows([]string{"inventory"}))

		_, err := repo.AdjustInventory(ctx, 2, 1)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestRepository_GetBookForUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	columns := []string{"id", "title", "author", "cover", "inventory", "daily_fee"}

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT id, title, author, cover, inventory, daily_fee FROM books WHERE id = \$1 for update$`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "Test Book", "Author Name", "HARD", 1, "2.50"))
	mock.ExpectQuery(`SELECT id, title, author, cover, inventory, daily_fee FROM books WHERE id = \$1$`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "Test Book", "Author Name", "HARD", 1, "2.50"))
	mock.ExpectQuery(`FROM books WHERE id = \$1 for update$`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(columns))

	book, err := repo.GetBookForUpdate(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, book.Inventory)
	require.Equal(t, model.CoverHard, book.Cover)

	book, err = repo.GetBook(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Test Book", book.Title)

	_, err = repo.GetBookForUpdate(ctx, 2)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateBorrowing_CheckViolation(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	today := model.NewDate(time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO borrowings (book_id,user_id,borrowing_date,expected_returning_date)")).
		WithArgs(int64(1), int64(2), today, today.AddDays(-8)).
		WillReturnError(&pgconn.PgError{
			Code:           pgerrcode.CheckViolation,
			ConstraintName: "borrow_date_before_or_equal_expected",
		})

	_, err := repo.CreateBorrowing(context.Background(), model.Borrowing{
		BookID:                1,
		UserID:                2,
		BorrowingDate:         today,
		ExpectedReturningDate: today.AddDays(-8),
	})
	require.ErrorIs(t, err, errs.ErrIntegrity)
	require.Contains(t, err.Error(), "borrow_date_before_or_equal_expected")
}

func TestRepository_GetBorrowingForUpdate(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	borrowed := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "book_id", "user_id", "borrowing_date", "expected_returning_date", "actual_returning_date",
		"book.id", "book.title", "book.author", "book.cover", "book.inventory", "book.daily_fee",
	}).AddRow(5, 1, 2, borrowed, borrowed.AddDate(0, 0, 6), nil, 1, "Test Book", "Author Name", "HARD", 9, "2.50")
	mock.ExpectQuery(`FROM borrowings br JOIN books b on b.id = br.book_id WHERE br.id = \$1 for update of br`).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	b, err := repo.GetBorrowingForUpdate(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), b.ID)
	require.True(t, b.IsActive())
	require.Equal(t, "2024-07-07", b.ExpectedReturningDate.String())
	require.Equal(t, "Test Book", b.Book.Title)
	require.True(t, decimal.RequireFromString("2.50").Equal(b.Book.DailyFee))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkReturned(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	date := model.NewDate(time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))

	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE borrowings SET actual_returning_date = $1 WHERE")).
		WithArgs(date, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE borrowings SET actual_returning_date = $1")).
		WithArgs(date, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.MarkReturned(ctx, 5, date))
	require.ErrorIs(t, repo.MarkReturned(ctx, 5, date), errs.ErrAlreadyReturned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListBorrowings(t *testing.T) {
	t.Parallel()
	userID := int64(2)
	active := true
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE br.user_id = $1 AND br.actual_returning_date IS NULL ORDER BY br.id LIMIT 10 OFFSET 10")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	list, err := repo.ListBorrowings(context.Background(), model.BorrowingFilter{
		UserID:   &userID,
		IsActive: &active,
		Page:     2,
		Size:     10,
	})
	require.NoError(t, err)
	require.Empty(t, list.Items)
	require.Equal(t, 2, list.Page)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetPaymentBySession_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE session_id = $1")).
		WithArgs("cs_unknown").
		WillReturnRows(sqlmock.NewRows(paymentColumns))

	_, err := repo.GetPaymentBySession(context.Background(), "cs_unknown")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRepository_CreateUser_Duplicate(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

	_, err := repo.CreateUser(context.Background(), model.User{Email: "user@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestRepository_Tx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("update books")).
			WillReturnRows(sqlmock.NewRows([]string{"inventory"}).AddRow(1))
		mock.ExpectCommit()

		err := repo.Tx(ctx, func(tx Repository) error {
			// nested Tx reuses the outer transaction
			return tx.Tx(ctx, func(inner Repository) error {
				_, err := inner.AdjustInventory(ctx, 1, 1)
				return err
			})
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := repo.Tx(ctx, func(tx Repository) error { return boom })
		require.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
