package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/melvis/internal/apierr"
	"github.com/suPer8Hu/melvis/internal/chat"
	"github.com/suPer8Hu/melvis/internal/common"
)

func (h *Handler) SendChat(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		return
	}
	var req chat.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	reply, err := h.ChatSvc.Send(c.Request.Context(), uid, req)
	if err != nil {
		var perr *chat.PersistenceError
		if errors.As(err, &perr) && reply != nil {
			// the reply is still useful; history just lacks this turn
			h.Log.Error("chat turn not stored", "user_id", uid, "err", err)
			common.OK(c, reply)
			return
		}
		h.logIfInternal("SendChat", uid, err)
		apierr.Write(c, err)
		return
	}
	common.OK(c, reply)
}

func (h *Handler) SendChatAsync(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		return
	}
	if !h.AsyncChatOn {
		common.Fail(c, http.StatusServiceUnavailable, 50301, "async chat disabled")
		return
	}
	var req chat.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	// read idempotency key
	idempoKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if len(idempoKey) > 128 {
		common.Fail(c, http.StatusBadRequest, 10003, "idempotency key too long")
		return
	}
	var idempoKeyPtr *string
	if idempoKey != "" {
		idempoKeyPtr = &idempoKey
	}

	job, _, err := h.ChatSvc.EnqueueSend(c.Request.Context(), uid, req, idempoKeyPtr)
	if err != nil {
		h.logIfInternal("SendChatAsync", uid, err)
		apierr.Write(c, err)
		return
	}
	common.OK(c, gin.H{"job_id": job.ID, "session_id": job.SessionID})
}

func (h *Handler) GetChatJob(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		return
	}
	j, err := h.ChatSvc.GetJob(c.Request.Context(), uid, c.Param("job_id"))
	if err != nil {
		h.logIfInternal("GetChatJob", uid, err)
		apierr.Write(c, err)
		return
	}
	common.OK(c, gin.H{"job": j})
}

func (h *Handler) ChatHistory(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	turns, err := h.ChatSvc.History(c.Request.Context(), uid, c.Query("session_id"), limit)
	if err != nil {
		h.logIfInternal("ChatHistory", uid, err)
		apierr.Write(c, err)
		return
	}
	common.OK(c, gin.H{"conversations": turns})
}

func (h *Handler) ChatSessions(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		return
	}
	ids, err := h.ChatSvc.Sessions(c.Request.Context(), uid)
	if err != nil {
		h.logIfInternal("ChatSessions", uid, err)
		apierr.Write(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	common.OK(c, gin.H{"sessions": ids})
}

func (h *Handler) logIfInternal(op string, uid uint64, err error) {
	if apierr.From(err).Status >= http.StatusInternalServerError {
		h.Log.Error(op+" failed", "user_id", uid, "err", err)
	}
}
