package http

import (
	"github.com/gin-gonic/gin"

	"query-gateway/internal/middleware"
)

// RegisterRoutes maps session routes under rg.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	sessions := rg.Group("/sessions", mw.RateLimit())
	{
		sessions.GET("/:session_id/context", h.GetContext)
		sessions.PUT("/:session_id/context", h.UpdateContext)
		sessions.DELETE("/:session_id", h.DeleteSession)
	}
}
