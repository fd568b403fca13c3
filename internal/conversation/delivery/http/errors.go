package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"query-gateway/internal/conversation"
	"query-gateway/pkg/response"
)

// writeError maps conversation errors onto HTTP statuses.
func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, conversation.ErrSessionNotFound):
		response.NotFound(c, err)
	case errors.Is(err, conversation.ErrContextFormat), errors.Is(err, conversation.ErrSessionIDRequired):
		response.ErrorWithStatus(c, http.StatusBadRequest, err)
	default:
		h.l.Errorf(c.Request.Context(), "internal.conversation.delivery.http: %v", err)
		response.InternalError(c, err)
	}
}
