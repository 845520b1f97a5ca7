package service

import (
	"context"
	"strings"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *Service) Register(ctx context.Context, cred model.Credentials) (model.User, error) {
	return s.createUser(ctx, cred, false)
}

func (s *Service) createUser(ctx context.Context, cred model.Credentials, isStaff bool) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(errs.ErrValidation, err.Error())
	}
	return s.repo.CreateUser(ctx, model.User{
		Email:        normalizeEmail(cred.Email),
		PasswordHash: string(hash),
		IsStaff:      isStaff,
	})
}

// Login checks the password and issues an access token.
func (s *Service) Login(ctx context.Context, cred model.Credentials) (model.Token, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(cred.Email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Token{}, errs.ErrUnauthorized
		}
		return model.Token{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(cred.Password)); err != nil {
		return model.Token{}, errs.ErrUnauthorized
	}
	access, err := s.tokens.Issue(auth.Profile{
		UserID:  u.ID,
		Email:   u.Email,
		IsStaff: u.IsStaff,
	})
	if err != nil {
		return model.Token{}, err
	}
	return model.Token{Access: access}, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

// EnsureStaffUser creates the administrator account, or promotes it when
// the email is already registered.
func (s *Service) EnsureStaffUser(ctx context.Context, cred model.Credentials) error {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(cred.Email))
	switch {
	case errors.Is(err, errs.ErrNotFound):
		if _, err := s.createUser(ctx, cred, true); err != nil {
			return err
		}
		s.log.Info("staff user created", zap.String("email", cred.Email))
		return nil
	case err != nil:
		return err
	case u.IsStaff:
		return nil
	}
	return s.repo.SetStaff(ctx, u.ID, true)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
