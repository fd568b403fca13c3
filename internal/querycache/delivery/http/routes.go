package http

import (
	"github.com/gin-gonic/gin"

	"query-gateway/internal/middleware"
)

// RegisterRoutes maps the feedback ledger routes under rg.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.GET("/feedback/:signature", mw.RateLimit(), h.Feedback)
}
