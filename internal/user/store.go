package user

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("user: not found")
	ErrConflict = errors.New("user: unique constraint violated")
)

// Store is the persistence contract for users. Lookups return ErrNotFound when
// nothing matches; Create returns ErrConflict when a uniqueness rule rejects
// the row. Any other error is a storage failure.
type Store interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByProviderSubject(ctx context.Context, provider Provider, subjectID string) (*User, error)
	// FindByEmail matches case-insensitively across every provider.
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindLocalByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
}
