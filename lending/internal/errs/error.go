package errs

import (
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrOutOfStock      = errors.New("this book is out of stock")
	ErrAlreadyReturned = errors.New("borrowing has already been returned")
	ErrForbidden       = errors.New("permission denied")
	ErrUnauthorized    = errors.New("invalid credentials")
	ErrIntegrity       = errors.New("integrity constraint violated")
	ErrExternalService = errors.New("external service unavailable")
)
