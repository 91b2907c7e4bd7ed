package credentials_test

import (
	"context"
	"errors"
	"testing"

	"oauth-backend/internal/auth/credentials"
	"oauth-backend/internal/db/dbtest"
	"oauth-backend/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seedLocal(t *testing.T, store user.Store, hasher credentials.Hasher, email, password string) *user.User {
	t.Helper()
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	subject := "local:" + email
	u := &user.User{
		Provider:          user.ProviderLocal,
		ProviderSubjectID: &subject,
		Name:              "Ann",
		Email:             &email,
		PasswordHash:      &hash,
	}
	require.NoError(t, store.Create(context.Background(), u))
	return u
}

func TestAuthenticate(t *testing.T) {
	store := user.NewGormStore(dbtest.Open(t))
	hasher, err := credentials.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	svc := credentials.NewService(store, hasher)

	ann := seedLocal(t, store, hasher, "ann@x.com", "longenough1")

	u, err := svc.Authenticate(context.Background(), "ann@x.com", "longenough1")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, u.ID)

	_, err = svc.Authenticate(context.Background(), "ann@x.com", "wrong-password")
	assert.ErrorIs(t, err, credentials.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@x.com", "longenough1")
	assert.ErrorIs(t, err, credentials.ErrInvalidCredentials)
}

func TestAuthenticateIgnoresOAuthRows(t *testing.T) {
	store := user.NewGormStore(dbtest.Open(t))
	hasher, err := credentials.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	svc := credentials.NewService(store, hasher)

	email := "ann@x.com"
	sub := "g-1"
	require.NoError(t, store.Create(context.Background(), &user.User{
		Provider: user.ProviderGoogle, ProviderSubjectID: &sub, Email: &email, IsVerified: true,
	}))

	_, err = svc.Authenticate(context.Background(), email, "longenough1")
	assert.ErrorIs(t, err, credentials.ErrInvalidCredentials)
}

type failingStore struct{ user.Store }

func (failingStore) FindLocalByEmail(context.Context, string) (*user.User, error) {
	return nil, errors.New("connection refused")
}

func TestAuthenticateStoreFailure(t *testing.T) {
	hasher, err := credentials.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	svc := credentials.NewService(failingStore{}, hasher)

	_, err = svc.Authenticate(context.Background(), "ann@x.com", "longenough1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, credentials.ErrInvalidCredentials)
}
