package models

import "encoding/json"

// ServiceInfo is the static description served at the root path.
type ServiceInfo struct {
	Message       string            `json:"message"`
	Status        string            `json:"status"`
	Source        string            `json:"source"`
	CacheDuration string            `json:"cache_duration"`
	Endpoints     map[string]string `json:"endpoints"`
}

// CacheHealth describes the cache inside a health response.
type CacheHealth struct {
	Enabled         bool  `json:"enabled"`
	DurationSeconds int   `json:"duration_seconds"`
	CurrentAge      int   `json:"current_age_seconds"`
	Hits            int64 `json:"hits"`
	Misses          int64 `json:"misses"`
}

// HealthResponse is the /health success envelope.
type HealthResponse struct {
	Status       string      `json:"status"`
	Source       string      `json:"source"`
	Cache        CacheHealth `json:"cache"`
	MatchesCount int         `json:"matches_count"`
	LastUpdated  string      `json:"last_updated"`
	Timestamp    string      `json:"timestamp"`
}

// DegradedResponse is returned with HTTP 503 when neither upstream nor
// cache can produce a document.
type DegradedResponse struct {
	Status    string `json:"status"`
	Source    string `json:"source"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// CacheInfo reports document age relative to the cache duration.
type CacheInfo struct {
	AgeSeconds    int `json:"age_seconds"`
	MaxAgeSeconds int `json:"max_age_seconds"`
}

// MatchesResponse is the /matches success envelope.
type MatchesResponse struct {
	Success      bool              `json:"success"`
	LastUpdated  string            `json:"last_updated"`
	MatchesCount int               `json:"matches_count"`
	CacheInfo    CacheInfo         `json:"cache_info"`
	Data         []json.RawMessage `json:"data"`
}

// EncodedResponse is the /encoded success envelope.
type EncodedResponse struct {
	Success        bool      `json:"success"`
	LastUpdated    string    `json:"last_updated"`
	MatchesCount   int       `json:"matches_count"`
	CacheInfo      CacheInfo `json:"cache_info"`
	EncodedData    string    `json:"encoded_data"`
	OriginalLength int       `json:"original_length"`
	EncodedLength  int       `json:"encoded_length"`
}

// ErrorResponse is the generic failure envelope.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// AuthError is the envelope for 401 responses.
type AuthError struct {
	Error string `json:"error"`
}
