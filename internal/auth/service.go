package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskloom/taskloom/internal/platform/httpx"
)

// Login failures map to the same status code but keep distinct messages,
// matching the upstream API. The resulting user-enumeration surface is a
// known trade-off, recorded in DESIGN.md.
var (
	ErrUnknownUser   = fmt.Errorf("%w: user not found", httpx.ErrInvalidCredentials)
	ErrWrongPassword = fmt.Errorf("%w: incorrect password", httpx.ErrInvalidCredentials)
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	hasher *Hasher
	tokens *TokenManager
}

// NewService constructs a new Service.
func NewService(repo Repository, hasher *Hasher, tokens *TokenManager) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Register hashes the password and persists a new user. The plaintext is
// never stored or logged.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.Create(ctx, username, email, digest)
}

// Login validates email/password credentials and issues a bearer token
// for the matching user.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return "", nil, ErrUnknownUser
		}
		return "", nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, ErrWrongPassword
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
