package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type Cover string

const (
	CoverHard Cover = "HARD"
	CoverSoft Cover = "SOFT"
)

type Book struct {
	ID        int64           `json:"id" db:"id"`
	Title     string          `json:"title" db:"title"`
	Author    string          `json:"author" db:"author"`
	Cover     Cover           `json:"cover" db:"cover"`
	Inventory int             `json:"inventory" db:"inventory"`
	DailyFee  decimal.Decimal `json:"dailyFee" db:"daily_fee"`
}

type BookRequest struct {
	Title     string          `json:"title" validate:"required,max=200"`
	Author    string          `json:"author" validate:"required,max=100"`
	Cover     Cover           `json:"cover" validate:"required,oneof=HARD SOFT"`
	Inventory int             `json:"inventory" validate:"gte=0"`
	DailyFee  decimal.Decimal `json:"dailyFee"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type Borrowing struct {
	ID                    int64     `json:"id" db:"id"`
	BookID                int64     `json:"bookId" db:"book_id"`
	UserID                int64     `json:"userId" db:"user_id"`
	BorrowingDate         Date      `json:"borrowingDate" db:"borrowing_date"`
	ExpectedReturningDate Date      `json:"expectedReturningDate" db:"expected_returning_date"`
	ActualReturningDate   *Date     `json:"actualReturningDate" db:"actual_returning_date"`
	Book                  Book      `json:"book" db:"book"`
	Payments              []Payment `json:"payments,omitempty" db:"-"`
}

// IsActive reports whether the book has not been returned yet.
func (b Borrowing) IsActive() bool {
	return b.ActualReturningDate == nil
}

type CreateBorrowingRequest struct {
	BookID                int64 `json:"bookId" validate:"required,gt=0"`
	ExpectedReturningDate Date  `json:"expectedReturningDate"`
}

type BorrowingFilter struct {
	UserID   *int64
	IsActive *bool
	Page     int
	Size     int
}

type ListBorrowings struct {
	Paging `json:",inline"`
	Items  []Borrowing `json:"items"`
}

// DueBorrowing is an active borrowing joined with what the overdue alert prints.
type DueBorrowing struct {
	Borrowing
	UserEmail string `db:"user_email"`
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

type PaymentType string

const (
	PaymentTypePayment PaymentType = "PAYMENT"
	PaymentTypeFine    PaymentType = "FINE"
)

type Payment struct {
	ID          int64           `json:"id" db:"id"`
	Status      PaymentStatus   `json:"status" db:"status"`
	Type        PaymentType     `json:"type" db:"type"`
	BorrowingID int64           `json:"borrowingId" db:"borrowing_id"`
	SessionURL  string          `json:"sessionUrl" db:"session_url"`
	SessionID   string          `json:"sessionId" db:"session_id"`
	MoneyToPay  decimal.Decimal `json:"moneyToPay" db:"money_to_pay"`
	UserID      int64           `json:"userId" db:"user_id"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

type CreatePaymentRequest struct {
	BorrowingID int64       `json:"borrowingId" validate:"required,gt=0"`
	Type        PaymentType `json:"type" validate:"required,oneof=PAYMENT FINE"`
}

type ListPayments struct {
	Paging `json:",inline"`
	Items  []Payment `json:"items"`
}

// SessionRequest is what the payment processor needs to open a checkout session.
type SessionRequest struct {
	AmountMinor int64
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type Session struct {
	ID  string
	URL string
}

type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsStaff      bool      `json:"isStaff" db:"is_staff"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type Token struct {
	Access string `json:"access"`
}

// Actor is the caller an operation runs on behalf of.
type Actor struct {
	UserID  int64
	Email   string
	IsStaff bool
}

// CanAccess reports whether the actor may see records owned by userID.
func (a Actor) CanAccess(userID int64) bool {
	return a.IsStaff || a.UserID == userID
}
