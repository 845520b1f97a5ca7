package service

import (
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeFine returns days_overdue * dailyFee * multiplier for a returned
// borrowing, and zero when it came back on time or is still open.
func ComputeFine(b model.Borrowing, dailyFee, multiplier decimal.Decimal) decimal.Decimal {
	if b.ActualReturningDate == nil {
		return decimal.Zero
	}
	daysOverdue := b.ExpectedReturningDate.DaysUntil(*b.ActualReturningDate)
	if daysOverdue <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(daysOverdue)).Mul(dailyFee).Mul(multiplier)
}

// RentalFee charges the daily fee for every planned day. A same-day
// borrowing costs nothing.
func RentalFee(b model.Borrowing, dailyFee decimal.Decimal) decimal.Decimal {
	days := b.BorrowingDate.DaysUntil(b.ExpectedReturningDate)
	if days < 0 {
		days = 0
	}
	return decimal.NewFromInt(int64(days)).Mul(dailyFee)
}

// MinorUnits converts an amount to cents, dropping fractions of a cent.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).IntPart()
}
