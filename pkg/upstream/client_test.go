package upstream

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sourceURL = "https://example.test/matches.json"

const validBody = `{
	"matches_count": 2,
	"last_updated": "2026-08-28T10:00:00Z",
	"data": [{"home": "A", "away": "B"}, {"home": "C", "away": "D"}]
}`

func newTestClient() *Client {
	c := New(sourceURL, zap.NewNop())
	httpmock.ActivateNonDefault(c.http)
	return c
}

func TestFetch(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", sourceURL,
		httpmock.NewStringResponder(http.StatusOK, validBody))

	doc, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, doc.MatchesCount)
	assert.Equal(t, "2026-08-28T10:00:00Z", doc.LastUpdated)
	require.Len(t, doc.Data, 2)
	// records pass through untouched
	assert.JSONEq(t, `{"home": "A", "away": "B"}`, string(doc.Data[0]))
}

func TestFetchBadStatus(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", sourceURL,
		httpmock.NewStringResponder(http.StatusBadGateway, "oops"))

	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestFetchMalformed(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"matches_count": 1, "data": []}`,
		`{"last_updated": "x", "data": []}`,
		`{"matches_count": 1, "last_updated": "x"}`,
		`[{"matches_count": 1, "last_updated": "x", "data": []}]`,
	}
	for _, body := range bodies {
		c := newTestClient()
		httpmock.RegisterResponder("GET", sourceURL,
			httpmock.NewStringResponder(http.StatusOK, body))

		_, err := c.Fetch(context.Background())
		assert.ErrorIs(t, err, ErrMalformed, "body: %s", body)
		httpmock.DeactivateAndReset()
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", sourceURL,
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	for i := 0; i < 5; i++ {
		_, err := c.Fetch(context.Background())
		require.Error(t, err)
	}

	// Breaker is now open: the failure surfaces without another GET.
	calls := httpmock.GetTotalCallCount()
	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, calls, httpmock.GetTotalCallCount())
}
