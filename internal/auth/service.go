package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/odyssey-users/internal/shared"
	"github.com/odyssey-erp/odyssey-users/internal/users"
)

// AccountFinder loads a user account with its password hash by email.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
}

// Service issues and revokes bearer tokens.
type Service struct {
	creds    ServiceCredentials
	tokens   *TokenStore
	accounts AccountFinder
	logger   *slog.Logger
}

// NewService constructs a new Service. A nil accounts disables password login.
func NewService(creds ServiceCredentials, tokens *TokenStore, accounts AccountFinder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{creds: creds, tokens: tokens, accounts: accounts, logger: logger}
}

// Login validates email/password credentials and issues a token for the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Duration, error) {
	user, err := s.authenticate(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return "", 0, err
	}
	token, err := s.tokens.Issue(ctx, PrincipalForUser(*user))
	if err != nil {
		return "", 0, err
	}
	s.logger.Info("user token issued", slog.Int64("user_id", user.ID))
	return token, s.tokens.TTL(), nil
}

func (s *Service) authenticate(ctx context.Context, email, password string) (*users.User, error) {
	if s.accounts == nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("find account", slog.Any("error", err))
		return nil, fmt.Errorf("%w: could not authenticate", shared.ErrPersistence)
	}
	if !user.IsActive || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueServiceToken exchanges the service credential for a bearer token.
func (s *Service) IssueServiceToken(ctx context.Context, clientID, secret string) (string, time.Duration, error) {
	principal, err := s.creds.Authenticate(clientID, secret)
	if err != nil {
		s.logger.Warn("service token rejected", slog.String("client_id", clientID), slog.Any("error", err))
		return "", 0, err
	}
	token, err := s.tokens.Issue(ctx, principal)
	if err != nil {
		return "", 0, err
	}
	s.logger.Info("service token issued", slog.String("client_id", clientID))
	return token, s.tokens.TTL(), nil
}

// Revoke invalidates token.
func (s *Service) Revoke(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}
