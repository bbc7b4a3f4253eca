package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/melvis/internal/common"
	"github.com/suPer8Hu/melvis/internal/httpapi/handlers"
	"github.com/suPer8Hu/melvis/internal/httpapi/middleware"
	"github.com/suPer8Hu/melvis/internal/logger"
	"github.com/suPer8Hu/melvis/internal/metrics"
)

type Options struct {
	JWTSecret   string
	CORSOrigins []string
	Log         *logger.Logger
	Metrics     *metrics.Metrics
}

func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if h.Log == nil {
		h.Log = opts.Log
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Recovery(opts.Log))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(opts.Log))
	if len(opts.CORSOrigins) > 0 {
		r.Use(middleware.CORS(opts.CORSOrigins))
	}

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.GET("/ping", h.Ping)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	// auth
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(opts.JWTSecret))
	authGroup.GET("/me", h.Me)

	// chat
	authGroup.POST("/chat", h.SendChat)
	authGroup.POST("/chat/async", h.SendChatAsync)
	authGroup.GET("/chat/jobs/:job_id", h.GetChatJob)
	authGroup.GET("/chat/history", h.ChatHistory)
	authGroup.GET("/chat/sessions", h.ChatSessions)

	// assessments
	authGroup.POST("/assessments", h.SubmitAssessment)
	authGroup.GET("/assessments", h.ListAssessments)
	authGroup.GET("/assessments/latest", h.LatestAssessment)

	// videos
	authGroup.POST("/videos/search", h.SearchVideos)
	authGroup.GET("/videos/intent/:intent", h.VideosByIntent)
	authGroup.GET("/videos/stored", h.StoredVideos)
	authGroup.GET("/videos/recommendations/:intent", h.RecommendVideos)

	return r
}
