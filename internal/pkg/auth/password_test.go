package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", hashed)
	assert.True(t, CheckPassword(hashed, "secret123"))
	assert.False(t, CheckPassword(hashed, "secret124"))
}

func TestHashToken_LongInput(t *testing.T) {
	// A signed JWT is far longer than bcrypt's 72-byte input limit.
	token := strings.Repeat("a", 512)

	hashed, err := HashToken(token)
	require.NoError(t, err)

	assert.True(t, CheckToken(hashed, token))
	assert.False(t, CheckToken(hashed, token+"x"))
}
