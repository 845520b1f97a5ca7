package service

import (
	"context"
	"time"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/repository"
	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

// PaymentProcessor opens hosted checkout sessions.
type PaymentProcessor interface {
	CreateSession(ctx context.Context, req model.SessionRequest) (model.Session, error)
}

// Notifier delivers a text message to library staff.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// DefaultMaxBorrowingDays applies when Config.MaxBorrowingDays is not set.
const DefaultMaxBorrowingDays = 90

type Config struct {
	FineMultiplier   decimal.Decimal
	MaxBorrowingDays int
	SuccessURL       string
	CancelURL        string
}

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	processor PaymentProcessor
	notifier  Notifier
	tokens    *auth.TokenManager
	cfg       Config
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	repo repository.Repository,
	processor PaymentProcessor,
	notifier Notifier,
	tokens *auth.TokenManager,
	cfg Config,
	log *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		log:       log.Named("service"),
		repo:      repo,
		processor: processor,
		notifier:  notifier,
		tokens:    tokens,
		cfg:       cfg,
		now:       time.Now,
	}
	if s.cfg.MaxBorrowingDays <= 0 {
		s.cfg.MaxBorrowingDays = DefaultMaxBorrowingDays
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() model.Date {
	return model.NewDate(s.now().UTC())
}

// notify is best effort: delivery problems are logged and never fail the caller.
func (s *Service) notify(ctx context.Context, text string) {
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.log.Warn("notifier.Notify", zap.Error(err))
	}
}
