package video

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/suPer8Hu/melvis/internal/logger"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50
	maxSearchResults = 25
)

type Service struct {
	repo     *Repo
	searcher Searcher
	log      *logger.Logger
}

func NewService(repo *Repo, searcher Searcher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, searcher: searcher, log: log.With("service", "VideoService")}
}

// Search runs the external search without storing anything.
func (s *Service) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	if maxResults > maxSearchResults {
		maxResults = maxSearchResults
	}
	return s.searcher.Search(ctx, query, maxResults)
}

// RecommendForIntent searches with the intent's first video keyword and
// upserts every result. Storage failures are logged; the results are still
// returned.
func (s *Service) RecommendForIntent(ctx context.Context, intent string, keywords []string, maxResults int) ([]Result, error) {
	if len(keywords) == 0 {
		return nil, nil
	}
	res, err := s.Search(ctx, keywords[0], maxResults)
	if err != nil {
		return nil, err
	}
	s.store(ctx, intent, keywords[0], res)
	return res, nil
}

// RecommendAll searches every keyword concurrently and merges the results in
// keyword order, dropping duplicate video ids.
func (s *Service) RecommendAll(ctx context.Context, intent string, keywords []string, perKeyword int) ([]Result, error) {
	batches := make([][]Result, len(keywords))
	g, gctx := errgroup.WithContext(ctx)
	for i, kw := range keywords {
		g.Go(func() error {
			res, err := s.Search(gctx, kw, perKeyword)
			if err != nil {
				return err
			}
			batches[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var out []Result
	for i, batch := range batches {
		fresh := make([]Result, 0, len(batch))
		for _, r := range batch {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			fresh = append(fresh, r)
		}
		out = append(out, fresh...)
		s.store(ctx, intent, keywords[i], fresh)
	}
	return out, nil
}

func (s *Service) store(ctx context.Context, intent, keyword string, res []Result) {
	for _, r := range res {
		if _, err := s.repo.Upsert(ctx, r.toRecommendation(intent, keyword)); err != nil {
			s.log.Warn("store video recommendation failed", "video_id", r.ID, "intent", intent, "err", err)
		}
	}
}

func (s *Service) ListByIntent(ctx context.Context, intent string, limit int) ([]Recommendation, error) {
	return s.repo.ListByIntent(ctx, intent, clampLimit(limit))
}

func (s *Service) SearchStored(ctx context.Context, term string, limit int) ([]Recommendation, error) {
	return s.repo.Search(ctx, strings.TrimSpace(term), clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return defaultListLimit
	}
	return limit
}
