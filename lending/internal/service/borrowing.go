package service

import (
	"context"
	"fmt"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/repository"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CreateBorrowing takes one copy of the book out of inventory and opens a
// borrowing dated today. The rental payment session and the staff
// notification are requested after commit and never fail the borrowing.
func (s *Service) CreateBorrowing(ctx context.Context, actor model.Actor, req model.CreateBorrowingRequest) (model.Borrowing, error) {
	today := s.today()
	if req.ExpectedReturningDate.IsZero() {
		return model.Borrowing{}, errors.Wrap(errs.ErrValidation, "expectedReturningDate is required")
	}
	if req.ExpectedReturningDate.Before(today) {
		return model.Borrowing{}, errors.Wrap(errs.ErrValidation, "expectedReturningDate must not be in the past")
	}
	if today.DaysUntil(req.ExpectedReturningDate) > s.cfg.MaxBorrowingDays {
		return model.Borrowing{}, errors.Wrapf(errs.ErrValidation, "borrowing period must not exceed %d days", s.cfg.MaxBorrowingDays)
	}

	var borrowing model.Borrowing
	err := s.repo.Tx(ctx, func(repo repository.Repository) error {
		book, err := repo.GetBookForUpdate(ctx, req.BookID)
		if err != nil {
			return err
		}
		if book.Inventory <= 0 {
			return errs.ErrOutOfStock
		}
		if book.Inventory, err = repo.AdjustInventory(ctx, book.ID, -1); err != nil {
			return err
		}
		borrowing, err = repo.CreateBorrowing(ctx, model.Borrowing{
			BookID:                book.ID,
			UserID:                actor.UserID,
			BorrowingDate:         today,
			ExpectedReturningDate: req.ExpectedReturningDate,
		})
		if err != nil {
			return err
		}
		borrowing.Book = book
		return nil
	})
	if err != nil {
		return model.Borrowing{}, err
	}

	s.notify(ctx, borrowingCreatedMessage(borrowing, actor))
	if !RentalFee(borrowing, borrowing.Book.DailyFee).IsPositive() {
		return borrowing, nil
	}
	if p, ok := s.trySession(ctx, borrowing, model.PaymentTypePayment); ok {
		borrowing.Payments = append(borrowing.Payments, p)
	}
	return borrowing, nil
}

// ReturnBorrowing closes an open borrowing and puts the copy back. A fine
// session is opened after commit when the book came back late.
func (s *Service) ReturnBorrowing(ctx context.Context, actor model.Actor, id int64) (model.Borrowing, error) {
	today := s.today()

	var borrowing model.Borrowing
	err := s.repo.Tx(ctx, func(repo repository.Repository) error {
		b, err := repo.GetBorrowingForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanAccess(b.UserID) {
			return errs.ErrForbidden
		}
		if !b.IsActive() {
			return errs.ErrAlreadyReturned
		}
		if err := repo.MarkReturned(ctx, b.ID, today); err != nil {
			return err
		}
		if b.Book.Inventory, err = repo.AdjustInventory(ctx, b.BookID, 1); err != nil {
			return err
		}
		returned := today
		b.ActualReturningDate = &returned
		borrowing = b
		return nil
	})
	if err != nil {
		return model.Borrowing{}, err
	}

	fine := ComputeFine(borrowing, borrowing.Book.DailyFee, s.cfg.FineMultiplier)
	if fine.IsPositive() {
		if p, ok := s.trySession(ctx, borrowing, model.PaymentTypeFine); ok {
			borrowing.Payments = append(borrowing.Payments, p)
		}
	}
	return borrowing, nil
}

func (s *Service) GetBorrowing(ctx context.Context, actor model.Actor, id int64) (model.Borrowing, error) {
	b, err := s.repo.GetBorrowing(ctx, id)
	if err != nil {
		return model.Borrowing{}, err
	}
	if !actor.CanAccess(b.UserID) {
		return model.Borrowing{}, errs.ErrForbidden
	}
	if b.Payments, err = s.repo.ListBorrowingPayments(ctx, b.ID); err != nil {
		return model.Borrowing{}, err
	}
	return b, nil
}

// ListBorrowings pins non-staff callers to their own borrowings; staff may
// narrow by user.
func (s *Service) ListBorrowings(ctx context.Context, actor model.Actor, filter model.BorrowingFilter) (model.ListBorrowings, error) {
	if !actor.IsStaff {
		userID := actor.UserID
		filter.UserID = &userID
	}
	return s.repo.ListBorrowings(ctx, filter)
}

// trySession opens a payment session and reports whether it succeeded.
func (s *Service) trySession(ctx context.Context, b model.Borrowing, kind model.PaymentType) (model.Payment, bool) {
	p, err := s.RequestPaymentSession(ctx, b, kind)
	if err != nil {
		s.log.Error("RequestPaymentSession",
			zap.Int64("borrowing_id", b.ID),
			zap.String("type", string(kind)),
			zap.Error(err))
		return model.Payment{}, false
	}
	return p, true
}

func borrowingCreatedMessage(b model.Borrowing, actor model.Actor) string {
	user := actor.Email
	if user == "" {
		user = fmt.Sprintf("#%d", actor.UserID)
	}
	return fmt.Sprintf("New borrowing created:\nBook: %s\nUser: %s\nBorrowing Date: %s\nExpected Returning Date: %s",
		b.Book.Title, user, b.BorrowingDate, b.ExpectedReturningDate)
}
