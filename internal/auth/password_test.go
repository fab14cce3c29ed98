package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pw")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NotContains(t, hash, "Str0ng!Pw")
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.True(t, CheckPassword("Str0ng!Pw", hash))
	assert.False(t, CheckPassword("str0ng!pw", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("Str0ng!Pw")
	require.NoError(t, err)
	h2, err := HashPassword("Str0ng!Pw")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
