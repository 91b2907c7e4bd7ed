package credentials

import (
	"context"
	"errors"

	"oauth-backend/internal/user"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates local email/password accounts.
type Service struct {
	users  user.Store
	hasher Hasher
}

func NewService(users user.Store, hasher Hasher) *Service {
	return &Service{users: users, hasher: hasher}
}

// Authenticate returns the local user owning email when password matches.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials;
// storage failures are returned as-is.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.users.FindLocalByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !u.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Verify(*u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
