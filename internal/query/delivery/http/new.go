package http

import (
	"query-gateway/internal/gateway"
	"query-gateway/pkg/log"
)

type handler struct {
	l  log.Logger
	gw gateway.Gateway
}

// New creates the HTTP handler of the query endpoint.
func New(l log.Logger, gw gateway.Gateway) *handler {
	return &handler{l: l, gw: gw}
}
