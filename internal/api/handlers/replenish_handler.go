package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/covatech/replengo/internal/domain"
	"github.com/covatech/replengo/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ReplenishHandler struct {
	service *service.ReplenishService
}

func NewReplenishHandler(service *service.ReplenishService) *ReplenishHandler {
	return &ReplenishHandler{service: service}
}

func (h *ReplenishHandler) parseFilter(c *gin.Context) domain.ArticleFilter {
	filter := domain.ArticleFilter{
		Page:     1,
		PageSize: 50,
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}
	if segment := strings.TrimSpace(c.Query("segment")); segment != "" {
		filter.Segment = segment
	}
	if supplier := strings.TrimSpace(c.Query("supplier")); supplier != "" {
		filter.Supplier = supplier
	}

	return filter
}

// ListArticles serves stored computed records for a segment/supplier slice.
func (h *ReplenishHandler) ListArticles(c *gin.Context) {
	filter := h.parseFilter(c)

	if filter.Segment != "" && !domain.Segment(strings.ToUpper(filter.Segment)).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown segment: " + filter.Segment})
		return
	}

	records, total, err := h.service.ListComputed(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list computed articles")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     records,
		"total":     total,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

// GetArticle recomputes one article fresh from its stored inputs.
func (h *ReplenishHandler) GetArticle(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "article code is required"})
		return
	}

	record, err := h.service.GetArticle(c.Request.Context(), code)
	if err != nil {
		if err == service.ErrArticleNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		log.Error().Err(err).Str("code", code).Msg("failed to compute article")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute article"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetSummary serves per-segment counts.
func (h *ReplenishHandler) GetSummary(c *gin.Context) {
	summaries, err := h.service.SegmentSummary(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to build segment summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summaries})
}

// Recompute triggers a full batch run.
func (h *ReplenishHandler) Recompute(c *gin.Context) {
	stats, err := h.service.Recompute(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("recompute failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":     stats.Articles,
		"transactions": stats.Transactions,
		"by_segment":   stats.BySegment,
		"duration_ms":  stats.Duration.Milliseconds(),
	})
}
