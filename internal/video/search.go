package video

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/suPer8Hu/melvis/internal/logger"
	"github.com/suPer8Hu/melvis/internal/metrics"
)

// Searcher is the external video-search contract.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// JSONCache is the subset of redisstore.Store the cached searcher needs.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// FallbackSearcher never fails: a missing, slow or failing primary yields the
// offline placeholder set. Identical concurrent queries share one call.
type FallbackSearcher struct {
	primary Searcher
	offline OfflineSearcher
	timeout time.Duration
	group   singleflight.Group
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewFallbackSearcher(primary Searcher, timeout time.Duration, log *logger.Logger, m *metrics.Metrics) *FallbackSearcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FallbackSearcher{
		primary: primary,
		timeout: timeout,
		log:     log.With("component", "FallbackSearcher"),
		metrics: m,
	}
}

func (s *FallbackSearcher) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if s.primary == nil {
		s.metrics.ObserveVideoSearch("fallback")
		return s.offline.Search(ctx, query, maxResults)
	}

	key := fmt.Sprintf("%s|%d", strings.ToLower(strings.TrimSpace(query)), maxResults)
	v, err, _ := s.group.Do(key, func() (any, error) {
		// shared by every joiner, so one caller's cancellation must not end it
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.primary.Search(cctx, query, maxResults)
	})
	if err != nil {
		s.log.Warn("video search failed, using offline results", "query", query, "err", err)
		s.metrics.ObserveVideoSearch("fallback")
		return s.offline.Search(ctx, query, maxResults)
	}
	res := v.([]Result)
	return append([]Result(nil), res...), nil
}

// CachedSearcher keeps successful results of next in a JSON cache. Cache
// failures are logged and bypassed.
type CachedSearcher struct {
	next    Searcher
	cache   JSONCache
	ttl     time.Duration
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewCachedSearcher(next Searcher, cache JSONCache, ttl time.Duration, log *logger.Logger, m *metrics.Metrics) *CachedSearcher {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedSearcher{next: next, cache: cache, ttl: ttl, log: log.With("component", "CachedSearcher"), metrics: m}
}

func cacheKey(query string, maxResults int) string {
	return fmt.Sprintf("video:search:%s:%d", strings.ToLower(strings.TrimSpace(query)), maxResults)
}

func (s *CachedSearcher) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	key := cacheKey(query, maxResults)

	var cached []Result
	found, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.log.Warn("video cache read failed", "key", key, "err", err)
	} else if found {
		s.metrics.ObserveVideoSearch("cached")
		return cached, nil
	}

	res, err := s.next.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveVideoSearch("live")
	if err := s.cache.SetJSON(ctx, key, res, s.ttl); err != nil {
		s.log.Warn("video cache write failed", "key", key, "err", err)
	}
	return res, nil
}
