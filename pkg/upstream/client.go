// Package upstream fetches the match listing from its source URL.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/lyfe05/matchgate/pkg/models"
)

// DefaultTimeout bounds a single upstream GET.
const DefaultTimeout = 10 * time.Second

var (
	// ErrBadStatus marks a non-2xx upstream response.
	ErrBadStatus = errors.New("upstream returned non-2xx status")
	// ErrMalformed marks a body that does not carry the expected document shape.
	ErrMalformed = errors.New("upstream document malformed")
)

// Client retrieves the match document over HTTP. Repeated failures trip a
// circuit breaker so a dead source is not hammered on every cache miss.
type Client struct {
	url     string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// New creates a Client for the given source URL.
func New(url string, logger *zap.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "matches-source",
		Interval: 0,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		url:     url,
		http:    &http.Client{Timeout: DefaultTimeout},
		breaker: cb,
		logger:  logger,
	}
}

// URL returns the configured source URL.
func (c *Client) URL() string {
	return c.url
}

// Fetch GETs the source document and validates its shape. Any transport
// error, non-2xx status, open breaker, or unexpected body is a fetch
// failure; callers decide whether a stale cache can cover for it.
func (c *Client) Fetch(ctx context.Context) (*models.MatchDocument, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("source circuit open: %w", err)
		}
		return nil, err
	}
	return result.(*models.MatchDocument), nil
}

func (c *Client) fetch(ctx context.Context) (*models.MatchDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch matches: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	c.logger.Info("fetched matches from source",
		zap.Int("matches_count", doc.MatchesCount),
		zap.String("last_updated", doc.LastUpdated))
	return doc, nil
}

// parseDocument decodes body into a MatchDocument, requiring all three
// known fields to be present. Match records stay raw.
func parseDocument(body []byte) (*models.MatchDocument, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for _, field := range []string{"matches_count", "last_updated", "data"} {
		if _, ok := raw[field]; !ok {
			return nil, fmt.Errorf("%w: missing field %q", ErrMalformed, field)
		}
	}

	var doc models.MatchDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &doc, nil
}
