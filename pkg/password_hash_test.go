package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s0me-pa55word!")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPasswordHash("s0me-pa55word!", hash))
	assert.False(t, CheckPasswordHash("s0me-pa55word", hash))
	assert.False(t, CheckPasswordHash("", hash))
	assert.False(t, CheckPasswordHash("s0me-pa55word!", "not-a-bcrypt-hash"))
}
