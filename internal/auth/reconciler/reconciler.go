package reconciler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"oauth-backend/internal/auth"
	"oauth-backend/internal/auth/credentials"
	"oauth-backend/internal/logger"
	"oauth-backend/internal/user"

	"github.com/google/uuid"
)

var (
	ErrDuplicateEmail   = errors.New("reconciler: email already in use")
	ErrStoreUnavailable = errors.New("reconciler: user store unavailable")
	ErrHashingFailure   = errors.New("reconciler: password hashing failed")
	ErrInvalidIdentity  = errors.New("reconciler: identity is missing provider or subject")
)

// LocalSubjectPrefix namespaces synthetic subject ids of local accounts.
const LocalSubjectPrefix = "local:"

// Reconciler maps an authenticated identity to exactly one internal user.
// It is the only place where identity-to-user mapping logic lives.
type Reconciler interface {
	ReconcileExternal(ctx context.Context, identity auth.ExternalIdentity) (*user.User, error)
	RegisterLocal(ctx context.Context, reg auth.LocalRegistration) (*user.User, error)
}

// StoreReconciler reconciles identities against a user.Store.
type StoreReconciler struct {
	users  user.Store
	hasher credentials.Hasher
}

func New(users user.Store, hasher credentials.Hasher) *StoreReconciler {
	return &StoreReconciler{users: users, hasher: hasher}
}

// ReconcileExternal finds the user for (provider, subject) or creates it.
// Existing rows are returned unchanged; name and email are never refreshed.
func (r *StoreReconciler) ReconcileExternal(ctx context.Context, identity auth.ExternalIdentity) (*user.User, error) {
	if identity.Provider == "" || identity.Provider == user.ProviderLocal || identity.SubjectID == "" {
		return nil, ErrInvalidIdentity
	}

	existing, err := r.users.FindByProviderSubject(ctx, identity.Provider, identity.SubjectID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	subject := identity.SubjectID
	u := &user.User{
		ID:                uuid.NewString(),
		Provider:          identity.Provider,
		ProviderSubjectID: &subject,
		Name:              identity.Name(),
		Email:             optional(identity.Email),
		IsVerified:        true,
	}

	err = r.users.Create(ctx, u)
	if errors.Is(err, user.ErrConflict) {
		// A concurrent first login won the insert; resolve to its row.
		winner, lookupErr := r.users.FindByProviderSubject(ctx, identity.Provider, identity.SubjectID)
		if lookupErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, lookupErr)
		}
		return winner, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	logger.Info("user created from external identity", map[string]any{
		"user_id":  u.ID,
		"provider": string(u.Provider),
	})
	return u, nil
}

// RegisterLocal creates a password-based account. Email uniqueness is checked
// across every provider before hashing.
func (r *StoreReconciler) RegisterLocal(ctx context.Context, reg auth.LocalRegistration) (*user.User, error) {
	email := strings.TrimSpace(reg.Email)

	_, err := r.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	hash, err := r.hasher.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHashingFailure, err)
	}

	subject := LocalSubjectPrefix + uuid.NewString()
	u := &user.User{
		ID:                uuid.NewString(),
		Provider:          user.ProviderLocal,
		ProviderSubjectID: &subject,
		Name:              strings.TrimSpace(reg.Name),
		Email:             &email,
		PasswordHash:      &hash,
		IsVerified:        false,
	}

	err = r.users.Create(ctx, u)
	if errors.Is(err, user.ErrConflict) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	logger.Info("local user registered", map[string]any{"user_id": u.ID})
	return u, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
