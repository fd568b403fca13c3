package http

import (
	"github.com/gin-gonic/gin"

	"query-gateway/internal/middleware"
)

// RegisterRoutes maps the query endpoint.
func RegisterRoutes(r gin.IRoutes, h *handler, mw middleware.Middleware) {
	r.POST("/query", mw.RateLimit(), h.Query)
}
