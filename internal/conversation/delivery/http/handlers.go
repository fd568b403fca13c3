package http

import (
	"io"

	"github.com/gin-gonic/gin"

	"query-gateway/internal/conversation"
	"query-gateway/pkg/response"
)

// maxContextBody bounds the size of an uploaded context document.
const maxContextBody = 1 << 20

// GetContext godoc
// @Summary     Get session context
// @Description Returns the conversation history and last result of a session.
// @Tags        Sessions
// @Produce     json
// @Param       session_id path string true "Session ID"
// @Success     200 {object} response.Resp{data=model.ConversationContext}
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/sessions/{session_id}/context [GET]
func (h *handler) GetContext(c *gin.Context) {
	session, ok := h.sessions.Lookup(c.Param("session_id"))
	if !ok {
		h.writeError(c, conversation.ErrSessionNotFound)
		return
	}
	response.OK(c, session.GetContext())
}

// UpdateContext godoc
// @Summary     Update session context
// @Description Merges conversation_history and/or last_query_result into the session context. A malformed document leaves the context unchanged.
// @Tags        Sessions
// @Accept      json
// @Produce     json
// @Param       session_id path string true "Session ID"
// @Param       body body model.ConversationContext true "Context document"
// @Success     200 {object} response.Resp{data=model.ConversationContext}
// @Failure     400 {object} response.Resp "Bad Request"
// @Router      /api/v1/sessions/{session_id}/context [PUT]
func (h *handler) UpdateContext(c *gin.Context) {
	session, err := h.sessions.Session(c.Param("session_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxContextBody))
	if err != nil {
		h.writeError(c, conversation.ErrContextFormat)
		return
	}
	if err := session.UpdateContext(raw); err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, session.GetContext())
}

// DeleteSession godoc
// @Summary     Reset a session
// @Description Forgets the conversation of a session.
// @Tags        Sessions
// @Produce     json
// @Param       session_id path string true "Session ID"
// @Success     200 {object} response.Resp "OK"
// @Router      /api/v1/sessions/{session_id} [DELETE]
func (h *handler) DeleteSession(c *gin.Context) {
	h.sessions.Drop(c.Param("session_id"))
	response.OK(c, nil)
}
