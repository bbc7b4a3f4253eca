package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/suPer8Hu/melvis/internal/assessment"
	"github.com/suPer8Hu/melvis/internal/chat"
	"github.com/suPer8Hu/melvis/internal/httpapi/handlers"
	"github.com/suPer8Hu/melvis/internal/intent"
	"github.com/suPer8Hu/melvis/internal/metrics"
	"github.com/suPer8Hu/melvis/internal/models"
	"github.com/suPer8Hu/melvis/internal/video"
)

const testSecret = "test-secret"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fakePublisher struct{ ids []string }

func (p *fakePublisher) PublishJob(ctx context.Context, jobID string) error {
	_ = ctx
	p.ids = append(p.ids, jobID)
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &chat.Turn{}, &chat.Session{}, &chat.Job{}, &assessment.Assessment{}, &video.Recommendation{}))

	m := metrics.New("melvis_test")
	catalog := intent.DefaultCatalog()
	clf, err := intent.NewClassifier(catalog)
	require.NoError(t, err)
	sel := intent.NewSelector(catalog)

	videoSvc := video.NewService(video.NewRepo(db), video.NewFallbackSearcher(nil, 0, nil, m), nil)
	chatSvc := chat.NewService(chat.NewRepo(db), clf, sel, videoSvc, nil,
		chat.WithMetrics(m), chat.WithPublisher(&fakePublisher{}))

	h := &handlers.Handler{
		DB:          db,
		JWTSecret:   testSecret,
		ChatSvc:     chatSvc,
		AssessSvc:   assessment.NewService(assessment.NewRepo(db), m),
		VideoSvc:    videoSvc,
		Selector:    sel,
		AsyncChatOn: true,
	}
	return NewRouter(h, Options{JWTSecret: testSecret, Metrics: m}), db
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func register(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/auth/register", "", gin.H{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestPingAndNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := do(t, r, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)

	w, env = do(t, r, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40400, env.Code)
}

func TestAuthFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	register(t, r, "a@example.com")

	w, env := do(t, r, http.MethodPost, "/auth/register", "", gin.H{"email": "A@example.com", "password": "password123"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 40901, env.Code)

	w, _ = do(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "a@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = do(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "a@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))

	w, env = do(t, r, http.MethodGet, "/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"email":"a@example.com"`)

	w, _ = do(t, r, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChatFlow(t *testing.T) {
	r, db := newTestRouter(t)
	tok := register(t, r, "chat@example.com")

	w, env := do(t, r, http.MethodPost, "/chat", tok, gin.H{"message": "I feel anxious and overwhelmed at work"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reply chat.Reply
	require.NoError(t, json.Unmarshal(env.Data, &reply))
	assert.Equal(t, "anxiety", reply.Intent)
	assert.Greater(t, reply.Confidence, 0.1)
	assert.NotEmpty(t, reply.SessionID)
	assert.Len(t, reply.Videos, 3)
	assert.Contains(t, reply.Suggestions, "Tell me about breathing exercises")

	var stored int64
	require.NoError(t, db.Model(&video.Recommendation{}).Count(&stored).Error)
	assert.Equal(t, int64(3), stored)

	w, env = do(t, r, http.MethodPost, "/chat", tok, gin.H{"message": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 10010, env.Code)

	w, env = do(t, r, http.MethodPost, "/chat", tok, gin.H{"message": "hello", "session_id": strings.Repeat("x", 40)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 10012, env.Code)

	w, env = do(t, r, http.MethodGet, "/chat/history?session_id="+reply.SessionID, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hist struct {
		Conversations []chat.Turn `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &hist))
	require.Len(t, hist.Conversations, 1)
	assert.Equal(t, "anxiety", hist.Conversations[0].Intent)

	w, env = do(t, r, http.MethodGet, "/chat/sessions", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), reply.SessionID)

	// another user cannot write into this session
	other := register(t, r, "other@example.com")
	w, env = do(t, r, http.MethodPost, "/chat", other, gin.H{"message": "hello", "session_id": reply.SessionID})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 40301, env.Code)
}

func TestChatAsync_JobVisibleToOwnerOnly(t *testing.T) {
	r, _ := newTestRouter(t)
	tok := register(t, r, "async@example.com")

	w, env := do(t, r, http.MethodPost, "/chat/async", tok, gin.H{"message": "I feel stressed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.JobID)

	w, env = do(t, r, http.MethodGet, "/chat/jobs/"+out.JobID, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"status":"queued"`)

	other := register(t, r, "peek@example.com")
	w, _ = do(t, r, http.MethodGet, "/chat/jobs/"+out.JobID, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssessmentFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	tok := register(t, r, "q@example.com")

	answers := gin.H{}
	for _, k := range assessment.QuestionKeys {
		answers[k] = 3
	}
	w, env := do(t, r, http.MethodPost, "/assessments", tok, gin.H{"answers": answers})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var a assessment.Assessment
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, 24, a.TotalScore)
	assert.Equal(t, assessment.RiskHigh, a.RiskLevel)

	w, env = do(t, r, http.MethodPost, "/assessments", tok, gin.H{"answers": gin.H{"question_1": 7}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 10011, env.Code)

	w, env = do(t, r, http.MethodGet, "/assessments/latest", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"total_score":24`)

	other := register(t, r, "none@example.com")
	w, _ = do(t, r, http.MethodGet, "/assessments/latest", other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVideoEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	tok := register(t, r, "v@example.com")

	w, env := do(t, r, http.MethodPost, "/videos/search", tok, gin.H{"query": "calm breathing", "max_results": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "Calm Breathing")

	w, _ = do(t, r, http.MethodPost, "/videos/search", tok, gin.H{"query": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/videos/recommendations/sleep", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, "/videos/intent/sleep", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var byIntent struct {
		Videos []video.Recommendation `json:"videos"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &byIntent))
	assert.NotEmpty(t, byIntent.Videos)

	w, _ = do(t, r, http.MethodGet, "/videos/recommendations/unknown", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/videos/stored?q=sleep", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
