package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suPer8Hu/melvis/internal/common"
	"github.com/suPer8Hu/melvis/internal/intent"
	"github.com/suPer8Hu/melvis/internal/logger"
	"github.com/suPer8Hu/melvis/internal/metrics"
	"github.com/suPer8Hu/melvis/internal/video"
)

const (
	MaxMessageRunes   = 2000
	videosPerMessage  = 3
	defaultHistoryLen = 20
	maxHistoryLen     = 100
)

var (
	ErrEmptyMessage            = errors.New("message is required")
	ErrMessageTooLong          = fmt.Errorf("message exceeds %d characters", MaxMessageRunes)
	ErrSessionOwnedByOtherUser = errors.New("session belongs to another user")
	ErrInvalidSessionID        = errors.New("session_id must be a UUID")
)

// PersistenceError wraps a failed conversation write. The reply it travels
// with was computed and may still be shown.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "store conversation: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

type VideoRecommender interface {
	RecommendForIntent(ctx context.Context, intent string, keywords []string, maxResults int) ([]video.Result, error)
}

type FallbackResponder interface {
	Reply(ctx context.Context, message, intent string) (string, error)
}

type JobPublisher interface {
	PublishJob(ctx context.Context, jobID string) error
}

type SendRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type Reply struct {
	Response       string         `json:"response"`
	Intent         string         `json:"intent"`
	Confidence     float64        `json:"confidence"`
	SessionID      string         `json:"session_id"`
	ResponseSource string         `json:"response_source"`
	Videos         []video.Result `json:"videos"`
	Suggestions    []string       `json:"suggestions"`
	TurnID         uint64         `json:"turn_id,omitempty"`
}

type Service struct {
	repo       *Repo
	classifier *intent.Classifier
	selector   *intent.Selector
	videos     VideoRecommender
	log        *logger.Logger
	metrics    *metrics.Metrics

	fallback          FallbackResponder
	fallbackThreshold float64
	publisher         JobPublisher
}

type Option func(*Service)

// WithFallback routes replies whose confidence is below threshold to r.
func WithFallback(r FallbackResponder, threshold float64) Option {
	return func(s *Service) {
		s.fallback = r
		s.fallbackThreshold = threshold
	}
}

func WithPublisher(p JobPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(repo *Repo, classifier *intent.Classifier, selector *intent.Selector, videos VideoRecommender, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		repo:       repo,
		classifier: classifier,
		selector:   selector,
		videos:     videos,
		log:        log.With("service", "ChatService"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func validateMessage(msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(msg) > MaxMessageRunes {
		return "", ErrMessageTooLong
	}
	return msg, nil
}

// validateSessionID accepts an empty id or any UUID form and returns the
// canonical lowercase form.
func validateSessionID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", nil
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidSessionID
	}
	return u.String(), nil
}

// checkSessionOwner rejects a session id that another user already owns.
func (s *Service) checkSessionOwner(ctx context.Context, userID uint64, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	owner, found, err := s.repo.SessionOwner(ctx, sessionID)
	if err != nil {
		return err
	}
	if found && owner != userID {
		return ErrSessionOwnedByOtherUser
	}
	return nil
}

// Append stores one turn. An empty sessionID starts a new session. The first
// user to store a turn under a session id owns it.
func (s *Service) Append(ctx context.Context, userID uint64, sessionID, userMessage, botResponse, intentName string, confidence float64, source string) (*Turn, error) {
	sessionID, err := validateSessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if sessionID == "" {
		if sessionID, err = NewSessionID(); err != nil {
			return nil, err
		}
	}
	owner, err := s.repo.ClaimSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, ErrSessionOwnedByOtherUser
	}
	if source == "" {
		source = SourceCatalog
	}

	t := &Turn{
		UserID:         userID,
		SessionID:      sessionID,
		UserMessage:    userMessage,
		BotResponse:    botResponse,
		Intent:         intentName,
		Confidence:     confidence,
		ResponseSource: source,
	}
	if err := s.repo.InsertTurn(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Send runs one message through classification, response selection and
// video lookup, then records the turn. When recording fails the reply is
// still returned alongside a *PersistenceError.
func (s *Service) Send(ctx context.Context, userID uint64, req SendRequest) (*Reply, error) {
	msg, err := validateMessage(req.Message)
	if err != nil {
		return nil, err
	}
	sessionID, err := validateSessionID(req.SessionID)
	if err != nil {
		return nil, err
	}

	// reject foreign sessions before doing any work
	if err := s.checkSessionOwner(ctx, userID, sessionID); err != nil {
		if errors.Is(err, ErrSessionOwnedByOtherUser) {
			return nil, err
		}
		return nil, &PersistenceError{Err: err}
	}

	res := s.classifier.Classify(msg)
	reply := &Reply{
		Response:       s.selector.Select(res.Intent),
		Intent:         res.Intent,
		Confidence:     res.Confidence,
		SessionID:      sessionID,
		ResponseSource: SourceCatalog,
		Suggestions:    s.selector.FollowupSuggestions(res.Intent),
		Videos:         []video.Result{},
	}

	if s.fallback != nil && res.Confidence < s.fallbackThreshold {
		out, err := s.fallback.Reply(ctx, msg, res.Intent)
		if err != nil {
			s.log.Warn("fallback reply failed, keeping catalog response", "intent", res.Intent, "err", err)
		} else {
			reply.Response = out
			reply.ResponseSource = SourceFallbackLLM
		}
	}
	s.metrics.ObserveIntent(reply.Intent, reply.ResponseSource)

	if s.videos != nil {
		if kws := s.selector.VideoKeywords(res.Intent); len(kws) > 0 {
			vids, err := s.videos.RecommendForIntent(ctx, res.Intent, kws, videosPerMessage)
			if err != nil {
				s.log.Warn("video recommendation failed", "intent", res.Intent, "err", err)
			} else if vids != nil {
				reply.Videos = vids
			}
		}
	}

	turn, err := s.Append(ctx, userID, sessionID, msg, reply.Response, reply.Intent, reply.Confidence, reply.ResponseSource)
	if err != nil {
		if errors.Is(err, ErrSessionOwnedByOtherUser) {
			return nil, err
		}
		s.log.Error("store conversation turn failed", "user_id", userID, "err", err)
		if reply.SessionID == "" {
			// keep the thread usable even though this turn was not stored
			if sid, idErr := NewSessionID(); idErr == nil {
				reply.SessionID = sid
			}
		}
		return reply, &PersistenceError{Err: err}
	}
	reply.SessionID = turn.SessionID
	reply.TurnID = turn.ID
	return reply, nil
}

func (s *Service) History(ctx context.Context, userID uint64, sessionID string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = defaultHistoryLen
	}
	if limit > maxHistoryLen {
		limit = maxHistoryLen
	}
	sessionID, err := validateSessionID(sessionID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListTurns(ctx, userID, sessionID, limit)
}

func (s *Service) Sessions(ctx context.Context, userID uint64) ([]string, error) {
	return s.repo.DistinctSessions(ctx, userID)
}

// EnqueueSend stores a queued job and publishes its id. A repeated
// idempotency key returns the job created first; created reports which.
func (s *Service) EnqueueSend(ctx context.Context, userID uint64, req SendRequest, idempotencyKey *string) (*Job, bool, error) {
	msg, err := validateMessage(req.Message)
	if err != nil {
		return nil, false, err
	}
	if s.publisher == nil {
		return nil, false, errors.New("chat: job publisher not configured")
	}

	sessionID, err := validateSessionID(req.SessionID)
	if err != nil {
		return nil, false, err
	}
	if sessionID == "" {
		if sessionID, err = NewSessionID(); err != nil {
			return nil, false, err
		}
	} else if err := s.checkSessionOwner(ctx, userID, sessionID); err != nil {
		return nil, false, err
	}

	jobID, err := common.NewULID()
	if err != nil {
		return nil, false, err
	}

	job, created, err := s.repo.CreateJobOrGetExisting(ctx, &Job{
		ID:             jobID,
		UserID:         userID,
		SessionID:      sessionID,
		Message:        msg,
		IdempotencyKey: idempotencyKey,
		Status:         JobQueued,
	})
	if err != nil {
		return nil, false, err
	}
	if !created {
		return job, false, nil
	}

	if err := s.publisher.PublishJob(ctx, job.ID); err != nil {
		_ = s.repo.MarkJobFailed(ctx, job.ID, "enqueue failed: "+err.Error())
		s.metrics.ObserveChatJob(string(JobFailed))
		return nil, false, err
	}
	s.metrics.ObserveChatJob(string(JobQueued))
	return job, true, nil
}

// GetJob returns gorm.ErrRecordNotFound for jobs owned by other users.
func (s *Service) GetJob(ctx context.Context, userID uint64, jobID string) (*Job, error) {
	job, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return job, nil
}

// ProcessJob runs a queued job through Send. Only the delivery that moves the
// job from queued to running does the work, so redelivered messages are
// harmless.
func (s *Service) ProcessJob(ctx context.Context, jobID string) error {
	job, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != JobQueued {
		return nil
	}
	claimed, err := s.repo.ClaimJob(ctx, jobID)
	if err != nil {
		return err
	}
	if !claimed {
		s.log.Info("chat job already claimed, skipping", "job_id", jobID)
		return nil
	}

	reply, err := s.Send(ctx, job.UserID, SendRequest{Message: job.Message, SessionID: job.SessionID})
	if err != nil {
		s.metrics.ObserveChatJob(string(JobFailed))
		if markErr := s.repo.MarkJobFailed(ctx, jobID, err.Error()); markErr != nil {
			return markErr
		}
		return err
	}

	s.metrics.ObserveChatJob(string(JobSucceeded))
	return s.repo.MarkJobSucceeded(ctx, jobID, reply.TurnID)
}
