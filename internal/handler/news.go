package handler

import (
	"net/http"
	"strings"

	"newsdesk/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetNews godoc
// @Summary      Get the ranked news stream
// @Description  Returns the aggregated stream for a category, filtered and sorted
// @Tags         news
// @Produce      json
// @Param        category     query  string  false  "Category (all, forex, crypto, stocks, gold, commodities, tech, community)"  default(all)
// @Param        range        query  string  false  "Time range (1h, 4h, 24h, 7d, all)"  default(all)
// @Param        sentiment    query  string  false  "Comma-separated sentiments (bullish, bearish, neutral)"
// @Param        impact       query  string  false  "Comma-separated impact levels (critical, high, medium, low)"
// @Param        sources      query  string  false  "Comma-separated source ids"
// @Param        tickers      query  string  false  "Comma-separated tickers (e.g., BTC, EURUSD)"
// @Param        search       query  string  false  "Case-insensitive search over title and description"
// @Param        ai_only      query  bool    false  "Only AI-analyzed items"
// @Param        unread_only  query  bool    false  "Only unread items"
// @Param        sort         query  string  false  "Sort key (time, impact, sentiment, relevance, engagement)"  default(impact)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/news [get]
func (h *Handler) GetNews(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-news")
	defer span.End()

	category := strings.ToLower(strings.TrimSpace(c.DefaultQuery("category", domain.CategoryAll)))
	span.SetAttributes(attribute.String("news.category", category))

	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	sortBy := domain.SortOption(strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort", string(domain.SortImpact)))))
	if !sortBy.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be one of time, impact, sentiment, relevance, engagement"})
		return
	}

	items, err := h.newsService.Stream(ctx, category, filter, sortBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func parseFilter(c *gin.Context) (domain.Filter, bool) {
	var filter domain.Filter

	if raw := strings.TrimSpace(c.Query("range")); raw != "" {
		tr := domain.TimeRange(strings.ToLower(raw))
		if _, ok := tr.Duration(); !ok && tr != domain.RangeAll {
			c.JSON(http.StatusBadRequest, gin.H{"error": "range must be one of 1h, 4h, 24h, 7d, all"})
			return filter, false
		}
		filter.TimeRange = tr
	}

	for _, raw := range splitParam(c.Query("sentiment")) {
		s := domain.Sentiment(raw)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sentiment: " + raw})
			return filter, false
		}
		filter.Sentiments = append(filter.Sentiments, s)
	}

	for _, raw := range splitParam(c.Query("impact")) {
		i := domain.Impact(raw)
		if !i.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown impact: " + raw})
			return filter, false
		}
		filter.Impacts = append(filter.Impacts, i)
	}

	filter.SourceIDs = splitParam(c.Query("sources"))
	for _, t := range splitParam(c.Query("tickers")) {
		filter.Tickers = append(filter.Tickers, strings.ToUpper(t))
	}
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.AIOnly = c.Query("ai_only") == "true"
	filter.UnreadOnly = c.Query("unread_only") == "true"
	return filter, true
}

func splitParam(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetNewsItem godoc
// @Summary      Get a single news item
// @Tags         news
// @Produce      json
// @Param        id  path  string  true  "Item id"
// @Success      200  {object}  domain.Item
// @Failure      404  {object}  map[string]string
// @Router       /api/news/{id} [get]
func (h *Handler) GetNewsItem(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-news-item")
	defer span.End()

	item, err := h.newsService.Item(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// RefreshNews godoc
// @Summary      Force a refresh of the aggregated stream
// @Tags         news
// @Produce      json
// @Param        category  query  string  false  "Category to refresh"  default(all)
// @Success      200  {object}  map[string]interface{}
// @Router       /api/news/refresh [post]
func (h *Handler) RefreshNews(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh-news")
	defer span.End()

	category := strings.ToLower(strings.TrimSpace(c.DefaultQuery("category", domain.CategoryAll)))
	items, err := h.newsService.Refresh(ctx, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.hub != nil {
		h.hub.BroadcastSnapshot(category, items)
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "count": len(items)})
}

// GetStatus godoc
// @Summary      Get enrichment gateway status
// @Tags         news
// @Produce      json
// @Success      200  {object}  service.EnrichStatus
// @Router       /api/news/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.newsService.Status())
}

type flagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

func (h *Handler) setFlag(c *gin.Context, set func(string, bool) error) {
	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"value\": true|false}"})
		return
	}
	if err := set(c.Param("id"), *req.Value); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SetRead godoc
// @Summary      Mark an item read or unread
// @Tags         flags
// @Accept       json
// @Produce      json
// @Param        id    path  string       true  "Item id"
// @Param        body  body  flagRequest  true  "Flag value"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/news/{id}/read [post]
func (h *Handler) SetRead(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.set-read")
	defer span.End()
	h.setFlag(c, func(id string, v bool) error { return h.newsService.SetRead(ctx, id, v) })
}

// SetBookmarked godoc
// @Summary      Bookmark or unbookmark an item
// @Tags         flags
// @Accept       json
// @Produce      json
// @Param        id    path  string       true  "Item id"
// @Param        body  body  flagRequest  true  "Flag value"
// @Success      200  {object}  map[string]string
// @Router       /api/news/{id}/bookmark [post]
func (h *Handler) SetBookmarked(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.set-bookmarked")
	defer span.End()
	h.setFlag(c, func(id string, v bool) error { return h.newsService.SetBookmarked(ctx, id, v) })
}

// SetHidden godoc
// @Summary      Hide or unhide an item
// @Tags         flags
// @Accept       json
// @Produce      json
// @Param        id    path  string       true  "Item id"
// @Param        body  body  flagRequest  true  "Flag value"
// @Success      200  {object}  map[string]string
// @Router       /api/news/{id}/hide [post]
func (h *Handler) SetHidden(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.set-hidden")
	defer span.End()
	h.setFlag(c, func(id string, v bool) error { return h.newsService.SetHidden(ctx, id, v) })
}

// GetBookmarks godoc
// @Summary      List bookmarked items
// @Tags         flags
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/bookmarks [get]
func (h *Handler) GetBookmarks(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-bookmarks")
	defer span.End()

	items, err := h.newsService.Bookmarks(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// GetSources godoc
// @Summary      List source descriptors
// @Tags         sources
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/sources [get]
func (h *Handler) GetSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": h.newsService.Sources()})
}

type enableRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetSourceEnabled godoc
// @Summary      Enable or disable a source
// @Tags         sources
// @Accept       json
// @Produce      json
// @Param        id    path  string         true  "Source id"
// @Param        body  body  enableRequest  true  "Enabled flag"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/sources/{id}/enabled [post]
func (h *Handler) SetSourceEnabled(c *gin.Context) {
	var req enableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"enabled\": true|false}"})
		return
	}
	if !h.newsService.SetSourceEnabled(c.Param("id"), *req.Enabled) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown source: " + c.Param("id")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
