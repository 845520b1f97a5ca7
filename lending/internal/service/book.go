package service

import (
	"context"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// numeric(5,2) upper bound for the daily fee column.
var maxDailyFee = decimal.NewFromInt(1000)

func (s *Service) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, page, size)
}

func (s *Service) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	if err := validateBook(req); err != nil {
		return model.Book{}, err
	}
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error) {
	if err := validateBook(req); err != nil {
		return model.Book{}, err
	}
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}

func validateBook(req model.BookRequest) error {
	switch {
	case req.Inventory < 0:
		return errors.Wrap(errs.ErrValidation, "inventory must not be negative")
	case req.DailyFee.IsNegative():
		return errors.Wrap(errs.ErrValidation, "dailyFee must not be negative")
	case req.DailyFee.GreaterThanOrEqual(maxDailyFee):
		return errors.Wrap(errs.ErrValidation, "dailyFee is too large")
	case req.Cover != model.CoverHard && req.Cover != model.CoverSoft:
		return errors.Wrapf(errs.ErrValidation, "unknown cover %q", req.Cover)
	}
	return nil
}
