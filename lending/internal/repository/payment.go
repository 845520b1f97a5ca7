package repository

import (
	"context"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var paymentColumns = []string{
	"id", "status", "type", "borrowing_id", "session_url", "session_id", "money_to_pay", "user_id", "created_at",
}

const paymentReturning = "returning id, status, type, borrowing_id, session_url, session_id, money_to_pay, user_id, created_at"

func (r *repository) CreatePayment(ctx context.Context, p model.Payment) (model.Payment, error) {
	query, args, err := qb.Insert(paymentsTableName).
		Columns("status", "type", "borrowing_id", "session_url", "session_id", "money_to_pay", "user_id").
		Values(p.Status, p.Type, p.BorrowingID, p.SessionURL, p.SessionID, p.MoneyToPay, p.UserID).
		Suffix(paymentReturning).
		ToSql()
	if err != nil {
		return model.Payment{}, err
	}

	var created model.Payment
	if err := sqlx.GetContext(ctx, r.q, &created, query, args...); err != nil {
		r.log.Error("CreatePayment", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Payment{}, mapErr(err)
	}
	return created, nil
}

func (r *repository) GetPayment(ctx context.Context, id int64) (model.Payment, error) {
	return r.getPayment(ctx, sq.Eq{"id": id})
}

func (r *repository) GetPaymentBySession(ctx context.Context, sessionID string) (model.Payment, error) {
	return r.getPayment(ctx, sq.Eq{"session_id": sessionID})
}

func (r *repository) getPayment(ctx context.Context, where sq.Eq) (model.Payment, error) {
	query, args, err := qb.Select(paymentColumns...).
		From(paymentsTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Payment{}, err
	}

	var p model.Payment
	if err := sqlx.GetContext(ctx, r.q, &p, query, args...); err != nil {
		return model.Payment{}, mapErr(err)
	}
	return p, nil
}

func (r *repository) ListPayments(ctx context.Context, userID *int64, page, size int) (model.ListPayments, error) {
	q := qb.Select(paymentColumns...).From(paymentsTableName).OrderBy("id")
	if userID != nil {
		q = q.Where(sq.Eq{"user_id": *userID})
	}
	query, args, err := withPaging(q, page, size).ToSql()
	if err != nil {
		return model.ListPayments{}, err
	}

	items := make([]model.Payment, 0)
	if err := sqlx.SelectContext(ctx, r.q, &items, query, args...); err != nil {
		return model.ListPayments{}, err
	}
	return model.ListPayments{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(items),
		},
		Items: items,
	}, nil
}

func (r *repository) ListBorrowingPayments(ctx context.Context, borrowingID int64) ([]model.Payment, error) {
	query, args, err := qb.Select(paymentColumns...).
		From(paymentsTableName).
		Where(sq.Eq{"borrowing_id": borrowingID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Payment
	if err := sqlx.SelectContext(ctx, r.q, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) SetPaymentStatus(ctx context.Context, sessionID string, status model.PaymentStatus) (model.Payment, error) {
	query, args, err := qb.Update(paymentsTableName).
		Set("status", status).
		Where(sq.Eq{"session_id": sessionID}).
		Suffix(paymentReturning).
		ToSql()
	if err != nil {
		return model.Payment{}, err
	}

	var p model.Payment
	if err := sqlx.GetContext(ctx, r.q, &p, query, args...); err != nil {
		return model.Payment{}, mapErr(err)
	}
	return p, nil
}
