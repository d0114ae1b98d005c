package models

import "encoding/json"

// MatchDocument is the upstream football-match listing. Beyond the three
// fields below its contents are opaque: match records are carried as raw
// JSON and passed through unmodified.
type MatchDocument struct {
	MatchesCount int               `json:"matches_count"`
	LastUpdated  string            `json:"last_updated"`
	Data         []json.RawMessage `json:"data"`
}
