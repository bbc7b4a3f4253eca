package video

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/suPer8Hu/melvis/internal/store/redisstore"
)

type stubSearcher struct {
	calls   atomic.Int32
	results []Result
	err     error
	delay   time.Duration
}

func (s *stubSearcher) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func TestOfflineSearcher_Deterministic(t *testing.T) {
	var s OfflineSearcher
	a, err := s.Search(context.Background(), "anxiety relief", 3)
	require.NoError(t, err)
	b, _ := s.Search(context.Background(), "anxiety relief", 3)

	assert.Equal(t, a, b)
	require.Len(t, a, 3)
	assert.Equal(t, "mock1", a[0].ID)
	assert.Equal(t, "Understanding Anxiety Relief: A Guide to Mental Wellness", a[0].Title)

	two, _ := s.Search(context.Background(), "sleep", 2)
	assert.Len(t, two, 2)
}

func TestFallbackSearcher_NoPrimaryUsesOffline(t *testing.T) {
	s := NewFallbackSearcher(nil, time.Second, nil, nil)
	res, err := s.Search(context.Background(), "stress relief", 3)
	require.NoError(t, err)
	assert.Equal(t, "mock1", res[0].ID)
}

func TestFallbackSearcher_PrimaryErrorUsesOffline(t *testing.T) {
	s := NewFallbackSearcher(&stubSearcher{err: errors.New("quota exceeded")}, time.Second, nil, nil)
	res, err := s.Search(context.Background(), "stress relief", 3)
	require.NoError(t, err)
	assert.Len(t, res, 3)
	assert.Equal(t, "mock2", res[1].ID)
}

func TestFallbackSearcher_SlowPrimaryTimesOut(t *testing.T) {
	slow := &stubSearcher{delay: time.Second, results: []Result{{ID: "live"}}}
	s := NewFallbackSearcher(slow, 20*time.Millisecond, nil, nil)

	start := time.Now()
	res, err := s.Search(context.Background(), "sleep", 3)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, "mock1", res[0].ID)
}

func TestFallbackSearcher_PrimarySuccess(t *testing.T) {
	s := NewFallbackSearcher(&stubSearcher{results: []Result{{ID: "live"}}}, time.Second, nil, nil)
	res, err := s.Search(context.Background(), "sleep", 3)
	require.NoError(t, err)
	assert.Equal(t, []Result{{ID: "live"}}, res)
}

func TestFallbackSearcher_SharedCallIgnoresCallerCancel(t *testing.T) {
	primary := &stubSearcher{delay: 10 * time.Millisecond, results: []Result{{ID: "live"}}}
	s := NewFallbackSearcher(primary, time.Second, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Search(ctx, "sleep", 3)
	require.NoError(t, err)
	assert.Equal(t, []Result{{ID: "live"}}, res)
}

func newTestCache(t *testing.T) *redisstore.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redisstore.NewWithClient(client, "test:")
}

func TestCachedSearcher_SecondQueryServedFromCache(t *testing.T) {
	next := &stubSearcher{results: []Result{{ID: "v1", Title: "t"}}}
	s := NewCachedSearcher(next, newTestCache(t), time.Minute, nil, nil)
	ctx := context.Background()

	first, err := s.Search(ctx, "Sleep Hygiene", 3)
	require.NoError(t, err)
	second, err := s.Search(ctx, "  sleep hygiene ", 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), next.calls.Load())
}

func TestCachedSearcher_ErrorsAreNotCached(t *testing.T) {
	next := &stubSearcher{err: errors.New("boom")}
	s := NewCachedSearcher(next, newTestCache(t), time.Minute, nil, nil)

	_, err := s.Search(context.Background(), "q", 3)
	require.Error(t, err)
	_, err = s.Search(context.Background(), "q", 3)
	require.Error(t, err)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestYouTubeSearcher_MapsItems(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":{"kind":"youtube#video","videoId":"abc"},
			 "snippet":{"title":"Box breathing","description":"` + strings.Repeat("x", 250) + `","channelTitle":"Calm",
			 "thumbnails":{"medium":{"url":"https://img/abc.jpg"}}}},
			{"id":{"kind":"youtube#channel"},"snippet":{"title":"skipped"}}
		]}`))
	}))
	defer srv.Close()

	s, err := NewYouTubeSearcher(context.Background(), "key",
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	res, err := s.Search(context.Background(), "anxiety relief", 3)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "abc", res[0].ID)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", res[0].URL)
	assert.Equal(t, "https://img/abc.jpg", res[0].Thumbnail)
	assert.Equal(t, strings.Repeat("x", 200)+"...", res[0].Description)
	assert.Equal(t, "anxiety relief mental health wellness mindfulness", gotQuery.Load())
}

func TestNewYouTubeSearcher_RequiresKey(t *testing.T) {
	_, err := NewYouTubeSearcher(context.Background(), " ")
	assert.ErrorIs(t, err, ErrYouTubeNotConfigured)
}
