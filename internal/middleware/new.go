package middleware

import (
	"query-gateway/pkg/log"
)

// Middleware holds the gin middlewares shared by every route.
type Middleware struct {
	l       log.Logger
	limiter *clientLimiter
}

// New creates the middleware set. rateLimitPerMin of zero or less disables
// the per-client limit.
func New(l log.Logger, rateLimitPerMin int) Middleware {
	return Middleware{
		l:       l,
		limiter: newClientLimiter(rateLimitPerMin),
	}
}
