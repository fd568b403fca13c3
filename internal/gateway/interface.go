package gateway

import (
	"context"

	"query-gateway/internal/status"
)

// DefaultSessionID is used when a caller does not name a session.
const DefaultSessionID = "default"

// Gateway resolves questions and reports progress on a stream.
type Gateway interface {
	// Ask starts resolving question in sessionID and returns its stream at once.
	// The stream always ends with exactly one Final Answer or Error event.
	Ask(ctx context.Context, sessionID, question string) *status.Stream
}
