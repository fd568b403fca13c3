package httpserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"query-gateway/internal/conversation"
	"query-gateway/internal/gateway"
	"query-gateway/internal/middleware"
	"query-gateway/internal/querycache"
	"query-gateway/pkg/log"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	mw          middleware.Middleware

	// Query domain
	gateway  gateway.Gateway
	sessions *conversation.Registry
	cache    querycache.Store
	database Pinger
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger          log.Logger
	Port            int
	Mode            string
	Environment     string
	RateLimitPerMin int

	Gateway  gateway.Gateway
	Sessions *conversation.Registry
	Cache    querycache.Store
	// Database is checked by /ready. Optional.
	Database Pinger
}

// New creates a new HTTPServer instance with every route mapped.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:           logger,
		gin:         gin.New(),
		port:        cfg.Port,
		mode:        cfg.Mode,
		environment: cfg.Environment,
		mw:          middleware.New(logger, cfg.RateLimitPerMin),
		gateway:     cfg.Gateway,
		sessions:    cfg.Sessions,
		cache:       cfg.Cache,
		database:    cfg.Database,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	srv.mapHandlers()

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.gateway == nil {
		return errors.New("gateway is required")
	}
	if srv.sessions == nil {
		return errors.New("session registry is required")
	}
	if srv.cache == nil {
		return errors.New("cache store is required")
	}
	return nil
}
