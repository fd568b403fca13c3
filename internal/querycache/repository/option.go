package repository

import "time"

// UpsertEntryOptions holds parameters for storing a query result.
type UpsertEntryOptions struct {
	Signature string
	RawQuery  string
	Result    string
	StoredAt  time.Time
}

// Outcome selects which feedback counter to increment.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
)

// IncrementFeedbackOptions holds parameters for a ledger update.
type IncrementFeedbackOptions struct {
	Signature string
	RawQuery  string
	Outcome   Outcome
	UsedAt    time.Time
}
