package http

import (
	"query-gateway/internal/conversation"
	"query-gateway/pkg/log"
)

type handler struct {
	l        log.Logger
	sessions *conversation.Registry
}

// New creates the HTTP handler for session context introspection.
func New(l log.Logger, sessions *conversation.Registry) *handler {
	return &handler{l: l, sessions: sessions}
}
