package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))

	_, err = HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRandomUsername(t *testing.T) {
	a, err := RandomUsername()
	require.NoError(t, err)
	b, err := RandomUsername()
	require.NoError(t, err)
	assert.Len(t, a, 11)
	assert.Regexp(t, `^[a-z0-9]{11}$`, a)
	assert.NotEqual(t, a, b)
}

func TestJWT_RoundTrip(t *testing.T) {
	tok, err := SignJWT(42, "s3cret", time.Hour)
	require.NoError(t, err)

	uid, err := ParseJWT(tok, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
}

func TestJWT_Rejects(t *testing.T) {
	tok, err := SignJWT(42, "s3cret", time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(tok, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := SignJWT(42, "s3cret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "s3cret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseJWT("not-a-token", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
