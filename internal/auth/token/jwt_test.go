package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndParse(t *testing.T) {
	iss, err := NewIssuer(testSecret, "oauth-backend", 0)
	require.NoError(t, err)

	before := time.Now()
	raw, exp, err := iss.Issue("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(DefaultTTL), exp, 2*time.Second)

	claims, err := iss.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "oauth-backend", claims.Issuer)
}

func TestParseRejectsExpired(t *testing.T) {
	iss, err := NewIssuer(testSecret, "oauth-backend", time.Minute)
	require.NoError(t, err)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, _, err := iss.Issue("user-1")
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseRejectsOtherSecretAndIssuer(t *testing.T) {
	iss, err := NewIssuer(testSecret, "oauth-backend", time.Minute)
	require.NoError(t, err)
	raw, _, err := iss.Issue("user-1")
	require.NoError(t, err)

	other, err := NewIssuer("another-secret-another-secret!!", "oauth-backend", time.Minute)
	require.NoError(t, err)
	_, err = other.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := NewIssuer(testSecret, "someone-else", time.Minute)
	require.NoError(t, err)
	_, err = foreign.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	iss, err := NewIssuer(testSecret, "oauth-backend", time.Minute)
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "oauth-backend",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = iss.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("", "x", time.Minute)
	assert.Error(t, err)
}
