package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReset_RoundTrip(t *testing.T) {
	c := newTestCodec(t, nil)

	raw, err := c.IssueReset("a@x.com")
	require.NoError(t, err)

	email, err := c.VerifyReset(raw)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestReset_ExpiresAfter48h(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := newTestCodec(t, func() time.Time { return now })

	raw, err := c.IssueReset("a@x.com")
	require.NoError(t, err)

	now = now.Add(47 * time.Hour)
	_, err = c.VerifyReset(raw)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = c.VerifyReset(raw)
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestReset_SchemesDoNotMix(t *testing.T) {
	c := newTestCodec(t, nil)

	access, err := c.Issue("user-1", ContextAccess, WithExpiry(time.Hour))
	require.NoError(t, err)
	_, err = c.VerifyReset(access)
	assert.ErrorIs(t, err, ErrResetTokenInvalid)

	reset, err := c.IssueReset("a@x.com")
	require.NoError(t, err)
	_, err = c.Verify(reset, ContextAccess)
	assert.ErrorIs(t, err, ErrTokenContextMismatch)
}

func TestReset_Garbage(t *testing.T) {
	c := newTestCodec(t, nil)
	_, err := c.VerifyReset("garbage")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}
