package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const cancelMessage = "Payment has been cancelled. " +
	"You can complete the payment within the next 24 hours using the same session link."

const alreadyPaidMessage = "Payment has already been completed."

// RequestPaymentSession opens a checkout session for the borrowing and
// stores it as a PENDING payment. PAYMENT charges the rental fee, FINE the
// overdue fine of a returned borrowing.
func (s *Service) RequestPaymentSession(ctx context.Context, b model.Borrowing, kind model.PaymentType) (model.Payment, error) {
	amount, err := s.amountFor(b, kind)
	if err != nil {
		return model.Payment{}, err
	}

	session, err := s.processor.CreateSession(ctx, model.SessionRequest{
		AmountMinor: MinorUnits(amount),
		Description: sessionDescription(b, kind),
		SuccessURL:  s.cfg.SuccessURL,
		CancelURL:   s.cfg.CancelURL,
		Metadata: map[string]string{
			"borrowing_id": strconv.FormatInt(b.ID, 10),
			"payment_type": string(kind),
		},
	})
	if err != nil {
		return model.Payment{}, errors.Wrap(errs.ErrExternalService, err.Error())
	}

	return s.repo.CreatePayment(ctx, model.Payment{
		Status:      model.PaymentStatusPending,
		Type:        kind,
		BorrowingID: b.ID,
		SessionURL:  session.URL,
		SessionID:   session.ID,
		MoneyToPay:  amount,
		UserID:      b.UserID,
	})
}

func (s *Service) amountFor(b model.Borrowing, kind model.PaymentType) (decimal.Decimal, error) {
	switch kind {
	case model.PaymentTypePayment:
		fee := RentalFee(b, b.Book.DailyFee)
		if !fee.IsPositive() {
			return decimal.Zero, errors.Wrap(errs.ErrValidation, "borrowing has no rental fee to pay")
		}
		return fee, nil
	case model.PaymentTypeFine:
		fine := ComputeFine(b, b.Book.DailyFee, s.cfg.FineMultiplier)
		if !fine.IsPositive() {
			return decimal.Zero, errors.Wrap(errs.ErrValidation, "borrowing has no fine to pay")
		}
		return fine, nil
	default:
		return decimal.Zero, errors.Wrapf(errs.ErrValidation, "unknown payment type %q", kind)
	}
}

func sessionDescription(b model.Borrowing, kind model.PaymentType) string {
	if kind == model.PaymentTypeFine {
		return fmt.Sprintf("Fine for overdue book: %s", b.Book.Title)
	}
	return fmt.Sprintf("Borrowing book: %s", b.Book.Title)
}

// HandleSuccess marks the session's payment PAID. Repeating it is harmless.
func (s *Service) HandleSuccess(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.Wrap(errs.ErrValidation, "session_id not provided")
	}
	p, err := s.repo.SetPaymentStatus(ctx, sessionID, model.PaymentStatusPaid)
	if err != nil {
		return "", err
	}

	var title string
	if b, err := s.repo.GetBorrowing(ctx, p.BorrowingID); err != nil {
		s.log.Warn("GetBorrowing", zap.Int64("borrowing_id", p.BorrowingID), zap.Error(err))
	} else {
		title = b.Book.Title
	}

	msg := fmt.Sprintf("Payment successful for borrowing of book %s", title)
	s.notify(ctx, msg)
	return msg, nil
}

// HandleCancel leaves the payment PENDING so the session link stays usable.
// A PAID payment is never moved back.
func (s *Service) HandleCancel(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.Wrap(errs.ErrValidation, "session_id not provided")
	}
	p, err := s.repo.GetPaymentBySession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if p.Status == model.PaymentStatusPaid {
		return alreadyPaidMessage, nil
	}
	if _, err := s.repo.SetPaymentStatus(ctx, sessionID, model.PaymentStatusPending); err != nil {
		return "", err
	}
	return cancelMessage, nil
}

func (s *Service) ListPayments(ctx context.Context, actor model.Actor, page, size int) (model.ListPayments, error) {
	var userID *int64
	if !actor.IsStaff {
		id := actor.UserID
		userID = &id
	}
	return s.repo.ListPayments(ctx, userID, page, size)
}

func (s *Service) GetPayment(ctx context.Context, actor model.Actor, id int64) (model.Payment, error) {
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return model.Payment{}, err
	}
	if !actor.CanAccess(p.UserID) {
		return model.Payment{}, errs.ErrForbidden
	}
	return p, nil
}

// CreatePayment opens a new session for a borrowing the actor can see.
// Unlike borrow and return, a processor failure is returned to the caller.
func (s *Service) CreatePayment(ctx context.Context, actor model.Actor, req model.CreatePaymentRequest) (model.Payment, error) {
	b, err := s.repo.GetBorrowing(ctx, req.BorrowingID)
	if err != nil {
		return model.Payment{}, err
	}
	if !actor.CanAccess(b.UserID) {
		return model.Payment{}, errs.ErrForbidden
	}
	return s.RequestPaymentSession(ctx, b, req.Type)
}
