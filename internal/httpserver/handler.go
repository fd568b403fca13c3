package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	conversationHTTP "query-gateway/internal/conversation/delivery/http"
	"query-gateway/internal/model"
	querycacheHTTP "query-gateway/internal/querycache/delivery/http"
	queryHTTP "query-gateway/internal/query/delivery/http"
)

func (srv HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery(), srv.mw.RequestID(), srv.mw.Logger())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "CORS mode: production")
	} else {
		srv.l.Infof(ctx, "CORS mode: %s", srv.environment)
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv HTTPServer) registerDomainRoutes() {
	ctx := context.Background()
	api := srv.gin.Group("/api/v1")

	queryHTTP.RegisterRoutes(srv.gin, queryHTTP.New(srv.l, srv.gateway), srv.mw)
	srv.l.Infof(ctx, "Query route registered at POST /query")

	conversationHTTP.RegisterRoutes(api, conversationHTTP.New(srv.l, srv.sessions), srv.mw)
	srv.l.Infof(ctx, "Session routes registered at /api/v1/sessions")

	querycacheHTTP.RegisterRoutes(api, querycacheHTTP.New(srv.l, srv.cache), srv.mw)
	srv.l.Infof(ctx, "Feedback route registered at GET /api/v1/feedback/:signature")
}
