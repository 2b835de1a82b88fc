package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_SaltsEveryCall(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("Abc123!x", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("Abc123!x", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, "Abc123!x", first)

	assert.True(t, CheckPassword("Abc123!x", first))
	assert.True(t, CheckPassword("Abc123!x", second))
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Abc123!x", bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, CheckPassword("Abc123!y", hash))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	// Never panics or errors out, just fails the comparison
	assert.False(t, CheckPassword("Abc123!x", ""))
	assert.False(t, CheckPassword("Abc123!x", "not-a-bcrypt-hash"))
}

func TestNeedsCostUpdate(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Abc123!x", bcrypt.MinCost)
	require.NoError(t, err)

	needs, err := NeedsCostUpdate(hash, bcrypt.MinCost)
	require.NoError(t, err)
	assert.False(t, needs)

	needs, err = NeedsCostUpdate(hash, bcrypt.MinCost+1)
	require.NoError(t, err)
	assert.True(t, needs)
}
