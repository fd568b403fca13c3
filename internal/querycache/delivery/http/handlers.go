package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"query-gateway/internal/querycache"
	"query-gateway/pkg/response"
)

var errFeedbackNotFound = errors.New("no feedback recorded for this signature")

type feedbackResp struct {
	Signature    string            `json:"signature"`
	Query        string            `json:"query"`
	SuccessCount int64             `json:"success_count"`
	FailureCount int64             `json:"failure_count"`
	LastUsed     response.DateTime `json:"last_used"`
}

// Feedback godoc
// @Summary     Get query feedback
// @Description Returns the success and failure counters recorded for a query signature. Pass ?query= instead of a signature to have it computed.
// @Tags        Feedback
// @Produce     json
// @Param       signature path  string true  "SHA-256 query signature, or - when query is given"
// @Param       query     query string false "Raw query text"
// @Success     200 {object} response.Resp{data=feedbackResp}
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/feedback/{signature} [GET]
func (h *handler) Feedback(c *gin.Context) {
	ctx := c.Request.Context()

	sig := c.Param("signature")
	if q := strings.TrimSpace(c.Query("query")); q != "" {
		sig = querycache.Signature(q)
	}

	rec, found, err := h.store.Feedback(ctx, sig)
	if err != nil {
		if errors.Is(err, querycache.ErrEmptySignature) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err)
			return
		}
		h.l.Errorf(ctx, "internal.querycache.delivery.http.Feedback: %v", err)
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFound(c, errFeedbackNotFound)
		return
	}

	response.OK(c, feedbackResp{
		Signature:    rec.Signature,
		Query:        rec.Query,
		SuccessCount: rec.SuccessCount,
		FailureCount: rec.FailureCount,
		LastUsed:     response.DateTime(rec.LastUsed),
	})
}
