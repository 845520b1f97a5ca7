package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/repository"
	"github.com/Astemirdum/lending-service/lending/internal/service"
	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	repo_mocks "github.com/Astemirdum/lending-service/lending/internal/repository/mocks"
	service_mocks "github.com/Astemirdum/lending-service/lending/internal/service/mocks"
)

var today = time.Date(2024, time.May, 1, 10, 30, 0, 0, time.UTC)

type deps struct {
	repo      *repo_mocks.MockRepository
	processor *service_mocks.MockPaymentProcessor
	notifier  *service_mocks.MockNotifier
	tokens    *auth.TokenManager
	svc       *service.Service
}

func newDeps(t *testing.T) deps {
	t.Helper()
	c := gomock.NewController(t)
	d := deps{
		repo:      repo_mocks.NewMockRepository(c),
		processor: service_mocks.NewMockPaymentProcessor(c),
		notifier:  service_mocks.NewMockNotifier(c),
		tokens:    auth.NewTokenManager(auth.Config{Secret: "test", TokenTTL: time.Hour}),
	}
	d.svc = service.NewService(d.repo, d.processor, d.notifier, d.tokens,
		service.Config{
			FineMultiplier: decimal.NewFromInt(2),
			SuccessURL:     "http://localhost/api/v1/payments/success?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:      "http://localhost/api/v1/payments/cancel?session_id={CHECKOUT_SESSION_ID}",
		},
		zap.NewExample().Named("test"),
		service.WithClock(func() time.Time { return today }),
	)
	return d
}

// expectTx runs the transactional closure against the same mock.
func (d deps) expectTx() {
	d.repo.EXPECT().Tx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(repository.Repository) error) error {
			return fn(d.repo)
		})
}

func (d deps) expectSavePayment() {
	d.repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p model.Payment) (model.Payment, error) {
			p.ID = 1
			return p, nil
		})
}

func TestService_CreateBorrowing(t *testing.T) {
	t.Parallel()
	book := model.Book{
		ID:        7,
		Title:     "Dune",
		Author:    "Frank Herbert",
		Cover:     model.CoverHard,
		Inventory: 10,
		DailyFee:  decimal.RequireFromString("2.50"),
	}
	actor := model.Actor{UserID: 3, Email: "reader@example.com"}
	req := model.CreateBorrowingRequest{
		BookID:                book.ID,
		ExpectedReturningDate: model.NewDate(today).AddDays(6),
	}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.expectTx()
		d.repo.EXPECT().GetBookForUpdate(gomock.Any(), book.ID).Return(book, nil)
		d.repo.EXPECT().AdjustInventory(gomock.Any(), book.ID, -1).Return(9, nil)
		d.repo.EXPECT().CreateBorrowing(gomock.Any(), model.Borrowing{
			BookID:                book.ID,
			UserID:                actor.UserID,
			BorrowingDate:         model.NewDate(today),
			ExpectedReturningDate: req.ExpectedReturningDate,
		}).DoAndReturn(func(_ context.Context, b model.Borrowing) (model.Borrowing, error) {
			b.ID = 11
			return b, nil
		})
		d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, text string) error {
				require.Contains(t, text, "New borrowing created")
				require.Contains(t, text, "Book: Dune")
				require.Contains(t, text, "User: reader@example.com")
				return nil
			})
		d.processor.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r model.SessionRequest) (model.Session, error) {
				require.Equal(t, int64(1500), r.AmountMinor)
				require.Equal(t, "11", r.Metadata["borrowing_id"])
				return model.Session{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
			})
		d.expectSavePayment()

		b, err := d.svc.CreateBorrowing(context.Background(), actor, req)
		require.NoError(t, err)
		require.Equal(t, int64(11), b.ID)
		require.Equal(t, 9, b.Book.Inventory)
		require.Len(t, b.Payments, 1)
		p := b.Payments[0]
		require.Equal(t, model.PaymentTypePayment, p.Type)
		require.Equal(t, model.PaymentStatusPending, p.Status)
		require.Equal(t, "cs_test_1", p.SessionID)
		require.True(t, p.MoneyToPay.Equal(decimal.RequireFromString("15.00")), p.MoneyToPay.String())
	})

	t.Run("out of stock", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.expectTx()
		empty := book
		empty.Inventory = 0
		d.repo.EXPECT().GetBookForUpdate(gomock.Any(), book.ID).Return(empty, nil)

		_, err := d.svc.CreateBorrowing(context.Background(), actor, req)
		require.ErrorIs(t, err, errs.ErrOutOfStock)
	})

	t.Run("book not found", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.expectTx()
		d.repo.EXPECT().GetBookForUpdate(gomock.Any(), book.ID).Return(model.Book{}, errs.ErrNotFound)

		_, err := d.svc.CreateBorrowing(context.Background(), actor, req)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("expected date in the past", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		past := req
		past.ExpectedReturningDate = model.NewDate(today).AddDays(-1)

		_, err := d.svc.CreateBorrowing(context.Background(), actor, past)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("period longer than allowed", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		long := req
		long.ExpectedReturningDate = model.NewDate(today).AddDays(service.DefaultMaxBorrowingDays + 1)

		_, err := d.svc.CreateBorrowing(context.Background(), actor, long)
		require.ErrorIs(t, err, errs.ErrValidation)

		long.ExpectedReturningDate, err = model.ParseDate("2500-01-01")
		require.NoError(t, err)
		_, err = d.svc.CreateBorrowing(context.Background(), actor, long)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("same day borrowing opens no session", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		sameDay := req
		sameDay.ExpectedReturningDate = model.NewDate(today)
		d.expectTx()
		d.repo.EXPECT().GetBookForUpdate(gomock.Any(), book.ID).Return(book, nil)
		d.repo.EXPECT().AdjustInventory(gomock.Any(), book.ID, -1).Return(9, nil)
		d.repo.EXPECT().CreateBorrowing(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b model.Borrowing) (model.Borrowing, error) {
				b.ID = 13
				return b, nil
			})
		d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

		b, err := d.svc.CreateBorrowing(context.Background(), actor, sameDay)
		require.NoError(t, err)
		require.Equal(t, int64(13), b.ID)
		require.Empty(t, b.Payments)
	})

	t.Run("processor down keeps the borrowing", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.expectTx()
		d.repo.EXPECT().GetBookForUpdate(gomock.Any(), book.ID).Return(book, nil)
		d.repo.EXPECT().AdjustInventory(gomock.Any(), book.ID, -1).Return(9, nil)
		d.repo.EXPECT().CreateBorrowing(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b model.Borrowing) (model.Borrowing, error) {
				b.ID = 12
				return b, nil
			})
		d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("telegram down"))
		d.processor.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
			Return(model.Session{}, errors.New("gateway timeout"))

		b, err := d.svc.CreateBorrowing(context.Background(), actor, req)
		require.NoError(t, err)
		require.Equal(t, int64(12), b.ID)
		require.Empty(t, b.Payments)
	})
}

func TestService_ReturnBorrowing(t *testing.T) {
	t.Parallel()
	owner := model.Actor{UserID: 3}
	open := func() model.Borrowing {
		return model.Borrowing{
			ID:                    21,
			BookID:                7,
			UserID:                owner.UserID,
			BorrowingDate:         model.NewDate(today).AddDays(-10),
			ExpectedReturningDate: model.NewDate(today).AddDays(-3),
			Book: model.Book{
				ID:        7,
				Title:     "Dune",
				Inventory: 4,
				DailyFee:  decimal.RequireFromString("2.00"),
			},
		}
	}

	t.Run("late return opens a fine", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.expectTx()
		d.repo.EXPECT().GetBorrowingForUpdate(gomock.Any(), int64(21)).Return(open(), nil)
		d.repo.EXPECT().MarkReturned(gomock.Any(), int64(21), model.NewDate(today)).Return(nil)
		d.repo.EXPECT().AdjustInventory(gomock.Any(), int64(7), 1).Return(5, nil)
		d.processor.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r model.SessionRequest) (model.Session, error) {
				require.Equal(t, int64(1200), r.AmountMinor)
				require.Equal(t, string(model.PaymentTypeFine), r.Metadata["payment_type"])
				return model.Session{ID: "cs_fine", URL: "https://checkout.example/cs_fine"}, nil
			})
		d.expectSavePayment()

		b, err := d.svc.ReturnBorrowing(context.Background(), owner, 21)
		require.NoError(t, err)
		require.False(t, b.IsActive())
		require.Equal(t, model.NewDate(today), *b.ActualReturningDate)
		require.Equal(t, 5, b.Book.Inventory)
		require.Len(t, b.Payments, 1)
		require.Equal(t, model.PaymentTypeFine, b.Payments[0].Type)
		require.True(t, b.Payments[0].MoneyToPay.Equal(decimal.RequireFromString("12.00")))
	})

	t.Run("on time return has no fine", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.expectTx()
		b := open()
		b.ExpectedReturningDate = model.NewDate(today).AddDays(2)
		d.repo.EXPECT().GetBorrowingForUpdate(gomock.Any(), int64(21)).Return(b, nil)
		d.repo.EXPECT().MarkReturned(gomock.Any(), int64(21), model.NewDate(today)).Return(nil)
		d.repo.EXPECT().AdjustInventory(gomock.Any(), int64(7), 1).Return(5, nil)

		got, err := d.svc.ReturnBorrowing(context.Background(), owner, 21)
		require.NoError(t, err)
		require.Empty(t, got.Payments)
	})

	t.Run("already returned", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.expectTx()
		b := open()
		returned := model.NewDate(today).AddDays(-1)
		b.ActualReturningDate = &returned
		d.repo.EXPECT().GetBorrowingForUpdate(gomock.Any(), int64(21)).Return(b, nil)

		_, err := d.svc.ReturnBorrowing(context.Background(), owner, 21)
		require.ErrorIs(t, err, errs.ErrAlreadyReturned)
	})

	t.Run("someone else's borrowing", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.expectTx()
		d.repo.EXPECT().GetBorrowingForUpdate(gomock.Any(), int64(21)).Return(open(), nil)

		_, err := d.svc.ReturnBorrowing(context.Background(), model.Actor{UserID: 99}, 21)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("staff may return for a user", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.expectTx()
		b := open()
		b.ExpectedReturningDate = model.NewDate(today)
		d.repo.EXPECT().GetBorrowingForUpdate(gomock.Any(), int64(21)).Return(b, nil)
		d.repo.EXPECT().MarkReturned(gomock.Any(), int64(21), model.NewDate(today)).Return(nil)
		d.repo.EXPECT().AdjustInventory(gomock.Any(), int64(7), 1).Return(5, nil)

		_, err := d.svc.ReturnBorrowing(context.Background(), model.Actor{UserID: 1, IsStaff: true}, 21)
		require.NoError(t, err)
	})
}

func TestService_ListBorrowings(t *testing.T) {
	t.Parallel()
	d := newDeps(t)
	other := int64(42)
	active := true

	d.repo.EXPECT().ListBorrowings(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f model.BorrowingFilter) (model.ListBorrowings, error) {
			require.NotNil(t, f.UserID)
			require.Equal(t, int64(3), *f.UserID)
			require.True(t, *f.IsActive)
			return model.ListBorrowings{}, nil
		})
	_, err := d.svc.ListBorrowings(context.Background(), model.Actor{UserID: 3},
		model.BorrowingFilter{UserID: &other, IsActive: &active, Page: 1, Size: 10})
	require.NoError(t, err)

	d.repo.EXPECT().ListBorrowings(gomock.Any(), model.BorrowingFilter{UserID: &other, Page: 1, Size: 10}).
		Return(model.ListBorrowings{}, nil)
	_, err = d.svc.ListBorrowings(context.Background(), model.Actor{UserID: 1, IsStaff: true},
		model.BorrowingFilter{UserID: &other, Page: 1, Size: 10})
	require.NoError(t, err)
}

func TestService_HandleSuccess(t *testing.T) {
	t.Parallel()

	t.Run("paid twice stays paid", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		paid := model.Payment{ID: 1, Status: model.PaymentStatusPaid, BorrowingID: 21, SessionID: "cs_1"}
		d.repo.EXPECT().SetPaymentStatus(gomock.Any(), "cs_1", model.PaymentStatusPaid).Return(paid, nil).Times(2)
		d.repo.EXPECT().GetBorrowing(gomock.Any(), int64(21)).
			Return(model.Borrowing{ID: 21, Book: model.Book{Title: "Dune"}}, nil).Times(2)
		d.notifier.EXPECT().Notify(gomock.Any(), "Payment successful for borrowing of book Dune").Return(nil).Times(2)

		for i := 0; i < 2; i++ {
			msg, err := d.svc.HandleSuccess(context.Background(), "cs_1")
			require.NoError(t, err)
			require.Equal(t, "Payment successful for borrowing of book Dune", msg)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.repo.EXPECT().SetPaymentStatus(gomock.Any(), "cs_missing", model.PaymentStatusPaid).
			Return(model.Payment{}, errs.ErrNotFound)

		_, err := d.svc.HandleSuccess(context.Background(), "cs_missing")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("empty session", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		_, err := d.svc.HandleSuccess(context.Background(), "")
		require.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestService_HandleCancel(t *testing.T) {
	t.Parallel()

	t.Run("pending stays pending", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		pending := model.Payment{ID: 1, Status: model.PaymentStatusPending, SessionID: "cs_1"}
		d.repo.EXPECT().GetPaymentBySession(gomock.Any(), "cs_1").Return(pending, nil)
		d.repo.EXPECT().SetPaymentStatus(gomock.Any(), "cs_1", model.PaymentStatusPending).Return(pending, nil)

		msg, err := d.svc.HandleCancel(context.Background(), "cs_1")
		require.NoError(t, err)
		require.Contains(t, msg, "same session link")
	})

	t.Run("paid is left alone", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.repo.EXPECT().GetPaymentBySession(gomock.Any(), "cs_1").
			Return(model.Payment{ID: 1, Status: model.PaymentStatusPaid, SessionID: "cs_1"}, nil)

		msg, err := d.svc.HandleCancel(context.Background(), "cs_1")
		require.NoError(t, err)
		require.Equal(t, "Payment has already been completed.", msg)
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.repo.EXPECT().GetPaymentBySession(gomock.Any(), "cs_missing").Return(model.Payment{}, errs.ErrNotFound)

		_, err := d.svc.HandleCancel(context.Background(), "cs_missing")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_CreatePayment(t *testing.T) {
	t.Parallel()
	borrowing := model.Borrowing{
		ID:                    21,
		UserID:                3,
		BorrowingDate:         model.NewDate(today),
		ExpectedReturningDate: model.NewDate(today).AddDays(2),
		Book:                  model.Book{Title: "Dune", DailyFee: decimal.RequireFromString("1.25")},
	}

	t.Run("processor failure surfaces", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.repo.EXPECT().GetBorrowing(gomock.Any(), int64(21)).Return(borrowing, nil)
		d.processor.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(model.Session{}, errors.New("503"))

		_, err := d.svc.CreatePayment(context.Background(), model.Actor{UserID: 3},
			model.CreatePaymentRequest{BorrowingID: 21, Type: model.PaymentTypePayment})
		require.ErrorIs(t, err, errs.ErrExternalService)
	})

	t.Run("fine without overdue", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.repo.EXPECT().GetBorrowing(gomock.Any(), int64(21)).Return(borrowing, nil)

		_, err := d.svc.CreatePayment(context.Background(), model.Actor{UserID: 3},
			model.CreatePaymentRequest{BorrowingID: 21, Type: model.PaymentTypeFine})
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("nothing to pay for same day borrowing", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		sameDay := borrowing
		sameDay.ExpectedReturningDate = sameDay.BorrowingDate
		d.repo.EXPECT().GetBorrowing(gomock.Any(), int64(21)).Return(sameDay, nil)

		_, err := d.svc.CreatePayment(context.Background(), model.Actor{UserID: 3},
			model.CreatePaymentRequest{BorrowingID: 21, Type: model.PaymentTypePayment})
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("forbidden", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.repo.EXPECT().GetBorrowing(gomock.Any(), int64(21)).Return(borrowing, nil)

		_, err := d.svc.CreatePayment(context.Background(), model.Actor{UserID: 4},
			model.CreatePaymentRequest{BorrowingID: 21, Type: model.PaymentTypePayment})
		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.repo.EXPECT().GetBorrowing(gomock.Any(), int64(21)).Return(borrowing, nil)
		d.processor.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
			Return(model.Session{ID: "cs_2", URL: "https://checkout.example/cs_2"}, nil)
		d.expectSavePayment()

		p, err := d.svc.CreatePayment(context.Background(), model.Actor{UserID: 3},
			model.CreatePaymentRequest{BorrowingID: 21, Type: model.PaymentTypePayment})
		require.NoError(t, err)
		require.Equal(t, int64(3), p.UserID)
		require.True(t, p.MoneyToPay.Equal(decimal.RequireFromString("2.50")))
	})
}

func TestService_GetPayment(t *testing.T) {
	t.Parallel()
	d := newDeps(t)
	d.repo.EXPECT().GetPayment(gomock.Any(), int64(5)).Return(model.Payment{ID: 5, UserID: 3}, nil).Times(2)

	_, err := d.svc.GetPayment(context.Background(), model.Actor{UserID: 4}, 5)
	require.ErrorIs(t, err, errs.ErrForbidden)

	p, err := d.svc.GetPayment(context.Background(), model.Actor{UserID: 3}, 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), p.ID)
}

func TestService_CheckOverdue(t *testing.T) {
	t.Parallel()
	tomorrow := model.NewDate(today).AddDays(1)

	t.Run("nothing due", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.repo.EXPECT().ListDueBorrowings(gomock.Any(), tomorrow).Return(nil, nil)
		d.notifier.EXPECT().Notify(gomock.Any(), "No borrowings overdue today!").Return(nil)

		require.NoError(t, d.svc.CheckOverdue(context.Background()))
	})

	t.Run("one alert per borrowing", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		due := []model.DueBorrowing{
			{
				Borrowing: model.Borrowing{ID: 1, ExpectedReturningDate: model.NewDate(today), Book: model.Book{Title: "Dune"}},
				UserEmail: "a@example.com",
			},
			{
				Borrowing: model.Borrowing{ID: 2, ExpectedReturningDate: tomorrow, Book: model.Book{Title: "Solaris"}},
				UserEmail: "b@example.com",
			},
		}
		d.repo.EXPECT().ListDueBorrowings(gomock.Any(), tomorrow).Return(due, nil)

		var (
			mu   sync.Mutex
			sent []string
		)
		d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, text string) error {
				mu.Lock()
				defer mu.Unlock()
				sent = append(sent, text)
				return nil
			}).Times(2)

		require.NoError(t, d.svc.CheckOverdue(context.Background()))
		joined := strings.Join(sent, "\n")
		require.Contains(t, joined, "Book: Dune\nUser: a@example.com")
		require.Contains(t, joined, "Book: Solaris\nUser: b@example.com")
		require.Contains(t, joined, "Status: Overdue")
	})
}

func TestService_CreateBook(t *testing.T) {
	t.Parallel()
	d := newDeps(t)

	_, err := d.svc.CreateBook(context.Background(), model.BookRequest{
		Title: "Dune", Author: "Frank Herbert", Cover: model.CoverSoft,
		DailyFee: decimal.RequireFromString("-1"),
	})
	require.ErrorIs(t, err, errs.ErrValidation)

	req := model.BookRequest{
		Title: "Dune", Author: "Frank Herbert", Cover: model.CoverSoft,
		Inventory: 2, DailyFee: decimal.RequireFromString("0.50"),
	}
	d.repo.EXPECT().CreateBook(gomock.Any(), req).Return(model.Book{ID: 1, Title: "Dune"}, nil)
	b, err := d.svc.CreateBook(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, int64(1), b.ID)
}

func TestService_Login(t *testing.T) {
	t.Parallel()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	user := model.User{ID: 3, Email: "reader@example.com", PasswordHash: string(hash)}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.repo.EXPECT().GetUserByEmail(gomock.Any(), "reader@example.com").Return(user, nil)

		tok, err := d.svc.Login(context.Background(), model.Credentials{Email: " Reader@Example.com", Password: "correct horse"})
		require.NoError(t, err)
		p, err := d.tokens.Parse(tok.Access)
		require.NoError(t, err)
		require.Equal(t, int64(3), p.UserID)
		require.False(t, p.IsStaff)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.repo.EXPECT().GetUserByEmail(gomock.Any(), "reader@example.com").Return(user, nil)

		_, err := d.svc.Login(context.Background(), model.Credentials{Email: "reader@example.com", Password: "wrong password"})
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.repo.EXPECT().GetUserByEmail(gomock.Any(), "nobody@example.com").Return(model.User{}, errs.ErrNotFound)

		_, err := d.svc.Login(context.Background(), model.Credentials{Email: "nobody@example.com", Password: "whatever1"})
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}

func TestService_EnsureStaffUser(t *testing.T) {
	t.Parallel()
	cred := model.Credentials{Email: "admin@example.com", Password: "admin-password"}

	t.Run("creates", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.repo.EXPECT().GetUserByEmail(gomock.Any(), cred.Email).Return(model.User{}, errs.ErrNotFound)
		d.repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u model.User) (model.User, error) {
				require.True(t, u.IsStaff)
				require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(cred.Password)))
				u.ID = 1
				return u, nil
			})
		require.NoError(t, d.svc.EnsureStaffUser(context.Background(), cred))
	})

	t.Run("promotes", func(t *testing.T) {
		t.Parallel()
		d := newDeps(t)
		d.repo.EXPECT().GetUserByEmail(gomock.Any(), cred.Email).Return(model.User{ID: 8, Email: cred.Email}, nil)
		d.repo.EXPECT().SetStaff(gomock.Any(), int64(8), true).Return(nil)
		require.NoError(t, d.svc.EnsureStaffUser(context.Background(), cred))
	})
}
