package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewWithClient(client, "test:"), mr
}

func TestStore_JSONRoundTripAndTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	require.NoError(t, s.SetJSON(ctx, "k", []string{"a", "b"}, time.Minute))
	assert.True(t, mr.Exists("test:k"))

	var got []string
	found, err := s.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got)

	mr.FastForward(2 * time.Minute)
	found, err = s.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_GetJSONMiss(t *testing.T) {
	s, _ := newTestStore(t)
	var v map[string]int
	found, err := s.GetJSON(context.Background(), "missing", &v)
	require.NoError(t, err)
	assert.False(t, found)
}
