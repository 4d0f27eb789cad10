package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPasswordWithCost("festa-secreta", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, ValidateHash(hash))

	assert.NoError(t, VerifyPassword("festa-secreta", hash))
	assert.ErrorIs(t, VerifyPassword("errada123", hash), ErrPasswordMismatch)
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("curta")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestValidateHash(t *testing.T) {
	assert.ErrorIs(t, ValidateHash(""), ErrInvalidHash)
	assert.ErrorIs(t, ValidateHash("plaintext"), ErrInvalidHash)
}
