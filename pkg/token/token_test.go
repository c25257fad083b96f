package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_LengthAndAlphabet(t *testing.T) {
	tok, err := Generate(DefaultLength)
	require.NoError(t, err)
	assert.Len(t, tok, DefaultLength)
	for _, r := range tok {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
	}
}

func TestGenerate_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := Generate(32)
		require.NoError(t, err)
		assert.False(t, seen[tok], "duplicate token generated")
		seen[tok] = true
	}
}

func TestGenerate_InvalidLength(t *testing.T) {
	_, err := Generate(0)
	assert.Error(t, err)
}
