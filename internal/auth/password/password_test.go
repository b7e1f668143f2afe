package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("password123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotContains(t, hash, "password123")

	assert.True(t, Verify("password123", hash))
	assert.False(t, Verify("password124", hash))
	assert.False(t, Verify("", hash))
}

func TestHashesAreSalted(t *testing.T) {
	first, err := Hash("password123")
	require.NoError(t, err)
	second, err := Hash("password123")
	require.NoError(t, err)

	// Same plaintext, different salt, different hash; both still verify.
	assert.NotEqual(t, first, second)
	assert.True(t, Verify("password123", first))
	assert.True(t, Verify("password123", second))
}

func TestVerifyMalformedHash(t *testing.T) {
	for _, hash := range []string{
		"",
		"not-a-bcrypt-hash",
		"$2a$10$tooshort",
		strings.Repeat("x", 100),
	} {
		assert.False(t, Verify("password123", hash), "hash %q must not verify", hash)
	}
}
