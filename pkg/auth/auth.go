package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

type Config struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true" json:"-"`
	TokenTTL time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

type Profile struct {
	UserID  int64  `json:"userId"`
	Email   string `json:"email"`
	IsStaff bool   `json:"isStaff"`
}

type Claims struct {
	jwt.RegisteredClaims
	Profile Profile `json:"profile"`
}

var ErrInvalidToken = errors.New("invalid token")

type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenManager(cfg Config) *TokenManager {
	return &TokenManager{
		key: []byte(cfg.Secret),
		ttl: cfg.TokenTTL,
		now: time.Now,
	}
}

func (m *TokenManager) Issue(p Profile) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Profile: p,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

func (m *TokenManager) Parse(tokenStr string) (Profile, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.key, nil
	})
	if err != nil || !token.Valid {
		return Profile{}, ErrInvalidToken
	}
	return claims.Profile, nil
}

type ctxKey struct{}

func SetAuthContext(ctx context.Context, p Profile) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// GetProfile returns the authenticated caller stored by the auth middleware.
func GetProfile(ctx context.Context) (Profile, error) {
	p, ok := ctx.Value(ctxKey{}).(Profile)
	if !ok {
		return Profile{}, errors.New("unauthenticated")
	}
	return p, nil
}
