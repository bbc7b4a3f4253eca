package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/melvis/internal/apierr"
	"github.com/suPer8Hu/melvis/internal/common"
)

type submitAssessmentReq struct {
	Answers map[string]int `json:"answers"`
}

func (h *Handler) SubmitAssessment(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		return
	}
	var req submitAssessmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	a, err := h.AssessSvc.Submit(c.Request.Context(), uid, req.Answers)
	if err != nil {
		h.logIfInternal("SubmitAssessment", uid, err)
		apierr.Write(c, err)
		return
	}
	common.OK(c, a)
}

func (h *Handler) ListAssessments(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.AssessSvc.History(c.Request.Context(), uid, limit)
	if err != nil {
		h.logIfInternal("ListAssessments", uid, err)
		apierr.Write(c, err)
		return
	}
	common.OK(c, gin.H{"assessments": list})
}

func (h *Handler) LatestAssessment(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		return
	}
	a, err := h.AssessSvc.Latest(c.Request.Context(), uid)
	if err != nil {
		h.logIfInternal("LatestAssessment", uid, err)
		apierr.Write(c, err)
		return
	}
	common.OK(c, a)
}
