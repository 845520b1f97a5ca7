package handler

import (
	"context"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type BorrowingService interface {
	CreateBorrowing(ctx context.Context, actor model.Actor, req model.CreateBorrowingRequest) (model.Borrowing, error)
	ReturnBorrowing(ctx context.Context, actor model.Actor, id int64) (model.Borrowing, error)
	GetBorrowing(ctx context.Context, actor model.Actor, id int64) (model.Borrowing, error)
	ListBorrowings(ctx context.Context, actor model.Actor, filter model.BorrowingFilter) (model.ListBorrowings, error)
}

type PaymentService interface {
	ListPayments(ctx context.Context, actor model.Actor, page, size int) (model.ListPayments, error)
	GetPayment(ctx context.Context, actor model.Actor, id int64) (model.Payment, error)
	CreatePayment(ctx context.Context, actor model.Actor, req model.CreatePaymentRequest) (model.Payment, error)
	HandleSuccess(ctx context.Context, sessionID string) (string, error)
	HandleCancel(ctx context.Context, sessionID string) (string, error)
}

type UserService interface {
	Register(ctx context.Context, cred model.Credentials) (model.User, error)
	Login(ctx context.Context, cred model.Credentials) (model.Token, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
}

var (
	_ BookService      = (*service.Service)(nil)
	_ BorrowingService = (*service.Service)(nil)
	_ PaymentService   = (*service.Service)(nil)
	_ UserService      = (*service.Service)(nil)
)
