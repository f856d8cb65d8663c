package handler

import (
	"newsdesk/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer      trace.Tracer
	newsService *service.NewsService
	hub         *Hub
}

func New(tracer trace.Tracer, newsService *service.NewsService, hub *Hub) *Handler {
	return &Handler{
		tracer:      tracer,
		newsService: newsService,
		hub:         hub,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/news", h.GetNews)
	r.GET("/api/news/status", h.GetStatus)
	r.POST("/api/news/refresh", h.RefreshNews)
	r.GET("/api/news/:id", h.GetNewsItem)
	r.POST("/api/news/:id/read", h.SetRead)
	r.POST("/api/news/:id/bookmark", h.SetBookmarked)
	r.POST("/api/news/:id/hide", h.SetHidden)
	r.GET("/api/bookmarks", h.GetBookmarks)
	r.GET("/api/sources", h.GetSources)
	r.POST("/api/sources/:id/enabled", h.SetSourceEnabled)
	if h.hub != nil {
		r.GET("/ws/news", h.ServeWS)
	}
}

// Health godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
