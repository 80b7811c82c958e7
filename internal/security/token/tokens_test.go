package tokens

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upperAlnumRe = regexp.MustCompile(`^[A-Z0-9]+$`)

func TestNonce(t *testing.T) {
	n, err := Nonce()
	require.NoError(t, err)
	assert.Len(t, n, 16)
	assert.Regexp(t, upperAlnumRe, n)
}

func TestSSOCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		c, err := SSOCode()
		require.NoError(t, err)
		assert.Len(t, c, 8)
		assert.Regexp(t, upperAlnumRe, c)
		seen[c] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestRandomString_Invalid(t *testing.T) {
	_, err := RandomString(0, UpperAlnum)
	assert.Error(t, err)
	_, err = RandomString(4, "")
	assert.Error(t, err)
}

func TestGenerateOpaqueToken(t *testing.T) {
	a, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	b, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
	assert.Len(t, SHA256Base64URL(a), 43)
}
