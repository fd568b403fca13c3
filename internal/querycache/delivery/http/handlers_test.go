package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"query-gateway/internal/middleware"
	"query-gateway/internal/model"
	"query-gateway/internal/querycache"
	"query-gateway/pkg/log"
)

type mockStore struct {
	querycache.Store
	records map[string]model.FeedbackRecord
}

func (m mockStore) Feedback(_ context.Context, sig string) (model.FeedbackRecord, bool, error) {
	if sig == "" {
		return model.FeedbackRecord{}, false, querycache.ErrEmptySignature
	}
	rec, ok := m.records[sig]
	return rec, ok, nil
}

func TestFeedback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const query = "SELECT 1"
	sig := querycache.Signature(query)
	store := mockStore{records: map[string]model.FeedbackRecord{
		sig: {Signature: sig, Query: query, SuccessCount: 3, FailureCount: 1, LastUsed: time.Now()},
	}}
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), New(log.NewNop(), store), middleware.New(log.NewNop(), 0))

	for name, path := range map[string]string{
		"by signature": "/api/v1/feedback/" + sig,
		"by query":     "/api/v1/feedback/-?query=" + url.QueryEscape(query),
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			require.Equal(t, http.StatusOK, w.Code)

			var raw struct {
				Data map[string]any `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
			assert.Equal(t, float64(3), raw.Data["success_count"])
			assert.Equal(t, float64(1), raw.Data["failure_count"])
			assert.Equal(t, sig, raw.Data["signature"])
		})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/feedback/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
