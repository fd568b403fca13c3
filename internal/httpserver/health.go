package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"query-gateway/pkg/response"
)

const (
	HealthMessage = "Query gateway is up"
	HealthVersion = "1.0.0"
	ServiceName   = "query-gateway"
)

func probe(state string) gin.H {
	return gin.H{
		"status":  state,
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	}
}

// healthCheck reports that the process is serving HTTP.
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "API is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, probe("healthy"))
}

// readyCheck also requires the query database to answer a ping, and reports
// how many conversation sessions are live.
// @Summary Readiness Check
// @Description Check if the API can answer queries
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "API is ready"
// @Failure 503 {object} response.Resp "Database unreachable"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()
	if srv.database != nil {
		if err := srv.database.PingContext(ctx); err != nil {
			srv.l.Warnf(ctx, "internal.httpserver.readyCheck: %v", err)
			response.ErrorWithStatus(c, http.StatusServiceUnavailable, err)
			return
		}
	}
	payload := probe("ready")
	payload["sessions"] = srv.sessions.Count()
	response.OK(c, payload)
}

// liveCheck
// @Summary Liveness Check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "API is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, probe("alive"))
}
