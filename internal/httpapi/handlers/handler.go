package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/suPer8Hu/melvis/internal/assessment"
	"github.com/suPer8Hu/melvis/internal/chat"
	"github.com/suPer8Hu/melvis/internal/common"
	"github.com/suPer8Hu/melvis/internal/httpapi/middleware"
	"github.com/suPer8Hu/melvis/internal/intent"
	"github.com/suPer8Hu/melvis/internal/logger"
	"github.com/suPer8Hu/melvis/internal/video"
)

const tokenTTL = 24 * time.Hour

type Handler struct {
	DB          *gorm.DB
	JWTSecret   string
	ChatSvc     *chat.Service
	AssessSvc   *assessment.Service
	VideoSvc    *video.Service
	Selector    *intent.Selector
	Log         *logger.Logger
	AsyncChatOn bool
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

func userIDFromContext(c *gin.Context) (uint64, bool) {
	uid, ok := middleware.UserID(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
	}
	return uid, ok
}
