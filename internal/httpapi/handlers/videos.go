package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/melvis/internal/apierr"
	"github.com/suPer8Hu/melvis/internal/common"
)

type searchVideosReq struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

func (h *Handler) SearchVideos(c *gin.Context) {
	var req searchVideosReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "query is required")
		return
	}

	res, err := h.VideoSvc.Search(c.Request.Context(), req.Query, req.MaxResults)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	common.OK(c, gin.H{"videos": res})
}

func (h *Handler) VideosByIntent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	recs, err := h.VideoSvc.ListByIntent(c.Request.Context(), c.Param("intent"), limit)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	common.OK(c, gin.H{"videos": recs})
}

func (h *Handler) StoredVideos(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "q is required")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	recs, err := h.VideoSvc.SearchStored(c.Request.Context(), q, limit)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	common.OK(c, gin.H{"videos": recs})
}

// RecommendVideos searches every video keyword of the intent and stores the results.
func (h *Handler) RecommendVideos(c *gin.Context) {
	name := c.Param("intent")
	kws := h.Selector.VideoKeywords(name)
	if len(kws) == 0 {
		common.Fail(c, http.StatusNotFound, 40403, "unknown intent")
		return
	}
	per, _ := strconv.Atoi(c.Query("per_keyword"))
	if per <= 0 || per > 5 {
		per = 2
	}
	res, err := h.VideoSvc.RecommendAll(c.Request.Context(), name, kws, per)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	common.OK(c, gin.H{"intent": name, "videos": res})
}
