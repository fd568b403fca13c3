package anthropic

import "time"

const (
	// DefaultModel is the default Claude model
	DefaultModel = "claude-3-5-sonnet-20240620"

	// DefaultBaseURL is the default Messages API endpoint
	DefaultBaseURL = "https://api.anthropic.com"

	// APIVersion is sent in the anthropic-version header
	APIVersion = "2023-06-01"

	// DefaultMaxTokens is used when a request leaves max_tokens unset
	DefaultMaxTokens = 1000

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 60 * time.Second
)

// Block types
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)
