package models

import "time"

// RequestEntry is one audited gateway request. API keys are stored as a
// SHA-256 hash plus a short prefix, never in the clear.
type RequestEntry struct {
	APIKeyHash   string
	APIKeyPrefix string
	Method       string
	Path         string
	StatusCode   int
	CacheAge     int
	LatencyMs    int64
	CreatedAt    time.Time
}

// RequestQueryOpts filters audit queries.
type RequestQueryOpts struct {
	Path         string
	APIKeyPrefix string
	Since        time.Time
	Limit        int
}
