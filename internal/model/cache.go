package model

import "time"

// CacheEntry is a stored result of a previously executed query.
type CacheEntry struct {
	Signature string    `json:"signature"`
	RawQuery  string    `json:"raw_query"`
	Result    string    `json:"result"`
	StoredAt  time.Time `json:"stored_at"`
}

// FeedbackRecord is the reliability ledger row for one query signature.
type FeedbackRecord struct {
	Signature    string    `json:"signature"`
	Query        string    `json:"query"`
	SuccessCount int64     `json:"success_count"`
	FailureCount int64     `json:"failure_count"`
	LastUsed     time.Time `json:"last_used"`
}
