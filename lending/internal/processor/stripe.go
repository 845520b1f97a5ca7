package processor

import (
	"context"
	"net/http"
	"time"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/pkg/circuit_breaker"
	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"go.uber.org/zap"
)

type Config struct {
	SecretKey string        `envconfig:"STRIPE_SECRET_KEY" json:"-"`
	Currency  string        `envconfig:"STRIPE_CURRENCY" default:"usd"`
	Timeout   time.Duration `envconfig:"STRIPE_TIMEOUT" default:"10s"`
	// APIURL overrides the Stripe API base, used against stripe-mock.
	APIURL string `envconfig:"STRIPE_API_URL"`
}

func (c Config) Enabled() bool {
	return c.SecretKey != ""
}

var ErrDisabled = errors.New("payment processor is not configured")

// Stripe opens Stripe Checkout sessions. Calls go through a circuit breaker
// so an unreachable gateway fails fast instead of stalling borrow/return.
type Stripe struct {
	client   session.Client
	currency string
	cb       circuit_breaker.CircuitBreaker
	log      *zap.Logger
}

func NewStripe(cfg Config, cb circuit_breaker.CircuitBreaker, log *zap.Logger) *Stripe {
	log = log.Named("stripe")
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     log.Sugar(),
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}
	return &Stripe{
		client: session.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
			Key: cfg.SecretKey,
		},
		currency: cfg.Currency,
		cb:       cb,
		log:      log,
	}
}

func (s *Stripe) CreateSession(ctx context.Context, req model.SessionRequest) (model.Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.AmountMinor),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		Metadata:   req.Metadata,
	}
	params.Context = ctx

	var cs *stripe.CheckoutSession
	err := s.cb.Call(func() error {
		var err error
		cs, err = s.client.New(params)
		return err
	})
	if err != nil {
		return model.Session{}, errors.Wrap(err, "stripe checkout session")
	}
	s.log.Debug("checkout session created", zap.String("session_id", cs.ID), zap.Int64("amount", req.AmountMinor))
	return model.Session{ID: cs.ID, URL: cs.URL}, nil
}

// Disabled refuses every session; used when no Stripe key is configured.
type Disabled struct{}

func (Disabled) CreateSession(context.Context, model.SessionRequest) (model.Session, error) {
	return model.Session{}, ErrDisabled
}
