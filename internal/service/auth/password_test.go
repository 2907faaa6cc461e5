package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	t.Parallel()

	hashed, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "correct-horse-battery", hashed)

	verifier := NewBcryptVerifier()
	assert.NoError(t, verifier.Compare(hashed, "correct-horse-battery"))
	assert.Error(t, verifier.Compare(hashed, "wrong-password"))
	assert.Error(t, verifier.Compare("not-a-bcrypt-hash", "correct-horse-battery"))
}
