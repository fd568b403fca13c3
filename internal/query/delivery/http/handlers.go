package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"query-gateway/pkg/response"
)

// Query godoc
// @Summary     Ask a question
// @Description Resolves a natural-language question against the database and streams progress as JSON lines. The last line is a "Final Answer" or an "Error".
// @Tags        Query
// @Accept      json
// @Produce     application/x-ndjson
// @Param       body body queryReq true "Question and optional session id"
// @Success     200 {object} model.StatusEvent "One JSON object per line"
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     429 {object} response.Resp "Too Many Requests"
// @Router      /query [POST]
func (h *handler) Query(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processQueryReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	stream := h.gw.Ask(ctx, req.SessionID, req.Question)

	c.Header("Content-Type", ContentTypeNDJSON)
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	// The stream is drained to the end even once the client is gone, so the
	// request goroutine can always finish.
	enc := json.NewEncoder(c.Writer)
	broken := false
	for ev := range stream.Events() {
		if broken {
			continue
		}
		if err := enc.Encode(ev); err != nil {
			h.l.Warnf(ctx, "internal.query.delivery.http.Query: write event: %v", err)
			broken = true
			continue
		}
		c.Writer.Flush()
	}
}
