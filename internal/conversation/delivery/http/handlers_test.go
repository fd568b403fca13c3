package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"query-gateway/internal/conversation"
	"query-gateway/internal/middleware"
	"query-gateway/pkg/log"
)

type envelope struct {
	ErrorCode int             `json:"error_code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

func setup(t *testing.T) (*gin.Engine, *conversation.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := conversation.NewRegistry(10, time.Minute, log.NewNop())
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), New(log.NewNop(), sessions), middleware.New(log.NewNop(), 0))
	return r, sessions
}

func do(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestGetContext(t *testing.T) {
	r, sessions := setup(t)

	w, _ := do(r, http.MethodGet, "/api/v1/sessions/s1/context", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	session, err := sessions.Session("s1")
	require.NoError(t, err)
	session.AppendTurn("How many events?", "12")

	w, env := do(r, http.MethodGet, "/api/v1/sessions/s1/context", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "12", got["last_query_result"])
	assert.Len(t, got["conversation_history"], 1)
}

func TestUpdateContext(t *testing.T) {
	r, sessions := setup(t)

	w, _ := do(r, http.MethodPut, "/api/v1/sessions/s1/context", `{"last_query_result": "42 rows"}`)
	require.Equal(t, http.StatusOK, w.Code)
	session, ok := sessions.Lookup("s1")
	require.True(t, ok)
	assert.Equal(t, "42 rows", *session.GetContext().LastResult)

	w, env := do(r, http.MethodPut, "/api/v1/sessions/s1/context", `{"conversation_history": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, conversation.ErrContextFormat.Error())
	assert.Equal(t, "42 rows", *session.GetContext().LastResult, "rejected update leaves the context as it was")
}

func TestDeleteSession(t *testing.T) {
	r, sessions := setup(t)
	_, err := sessions.Session("s1")
	require.NoError(t, err)

	w, _ := do(r, http.MethodDelete, "/api/v1/sessions/s1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	_, ok := sessions.Lookup("s1")
	assert.False(t, ok)
}
