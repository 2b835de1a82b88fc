package crypto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobibamidele/ibeere/errors"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	token, err := GenerateAccessToken("user-123", "bob", "admin", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "bob", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestAccessToken_NoRole(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	token, err := GenerateAccessToken("user-123", "bob", "", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, secret)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	token, err := GenerateAccessToken("u1", "bob", "", secret, -time.Second)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, secret)
	assert.ErrorIs(t, err, errors.ErrTokenExpired)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateAccessToken("u2", "bob", "", []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, []byte("wrong-secret"))
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}

func TestParseAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseAccessToken("not.a.jwt", []byte("k"))
	assert.ErrorIs(t, err, errors.ErrInvalidToken)

	_, err = ParseAccessToken("", []byte("k"))
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}
