package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"query-gateway/internal/middleware"
	"query-gateway/internal/model"
	"query-gateway/internal/status"
	"query-gateway/pkg/log"
)

type mockGateway struct {
	sessionID string
	question  string
	answer    string
}

func (m *mockGateway) Ask(_ context.Context, sessionID, question string) *status.Stream {
	m.sessionID, m.question = sessionID, question
	s := status.New()
	go func() {
		_ = s.Emit(model.StepInitializing, "Processing your question")
		_ = s.Emit(model.StepProcessing, map[string]any{"cycle": 1})
		_ = s.Emit(model.StepFinalizing, "Preparing the final answer")
		_ = s.Finish(m.answer)
	}()
	return s
}

func newRouter(gw *mockGateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, New(log.NewNop(), gw), middleware.New(log.NewNop(), 0))
	return r
}

func TestQuery_StreamsJSONLines(t *testing.T) {
	gw := &mockGateway{answer: "Ann and Bo work in Singapore."}
	r := newRouter(gw)

	w := httptest.NewRecorder()
	body := `{"question": "Find me people working in Singapore", "session_id": "s1"}`
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentTypeNDJSON, w.Header().Get("Content-Type"))
	assert.Equal(t, "s1", gw.sessionID)
	assert.Equal(t, "Find me people working in Singapore", gw.question)

	var events []map[string]any
	sc := bufio.NewScanner(w.Body)
	for sc.Scan() {
		var ev map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev), sc.Text())
		events = append(events, ev)
	}
	require.Len(t, events, 4)
	assert.Equal(t, "Initializing", events[0]["step"])
	assert.Equal(t, map[string]any{"cycle": float64(1)}, events[1]["message"])
	assert.Equal(t, "Final Answer", events[3]["step"])
	assert.Equal(t, "Ann and Bo work in Singapore.", events[3]["message"])
}

func TestQuery_MissingQuestionIsBadRequest(t *testing.T) {
	for _, body := range []string{`{}`, `{"question": "   "}`, `not json`} {
		w := httptest.NewRecorder()
		newRouter(&mockGateway{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "question is required", resp["message"])
	}
}
