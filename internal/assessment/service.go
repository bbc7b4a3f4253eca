package assessment

import (
	"context"

	"github.com/suPer8Hu/melvis/internal/metrics"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

type Service struct {
	repo    *Repo
	metrics *metrics.Metrics
}

func NewService(repo *Repo, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

// Submit validates, scores and stores one questionnaire. Nothing is written
// when validation fails.
func (s *Service) Submit(ctx context.Context, userID uint64, answers map[string]int) (*Assessment, error) {
	if err := ValidateAnswers(answers); err != nil {
		return nil, err
	}
	a := newAssessment(userID, Score(answers))
	if err := s.repo.Insert(ctx, a); err != nil {
		return nil, err
	}
	s.metrics.ObserveAssessment(a.RiskLevel)
	return a, nil
}

func (s *Service) History(ctx context.Context, userID uint64, limit int) ([]Assessment, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *Service) Latest(ctx context.Context, userID uint64) (*Assessment, error) {
	return s.repo.Latest(ctx, userID)
}
