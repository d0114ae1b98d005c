package models

// CacheStats is a snapshot of cache counters for the health endpoint.
type CacheStats struct {
	Hits       int64
	Misses     int64
	AgeSeconds int
	MaxAge     int
	HasData    bool
}
