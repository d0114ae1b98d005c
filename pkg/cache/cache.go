// Package cache holds the single match document with time-bounded reuse
// and a stale fallback when the source is unreachable.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/lyfe05/matchgate/pkg/models"
)

// MaxAge is how long a fetched document is served without consulting the
// source. Fixed at ten minutes; not configurable.
const MaxAge = 600 * time.Second

// ErrNoData is returned when the source fetch fails and no earlier
// document is held to fall back on.
var ErrNoData = errors.New("no cached data and source fetch failed")

// Fetcher retrieves a fresh document from the source.
type Fetcher interface {
	Fetch(ctx context.Context) (*models.MatchDocument, error)
}

// Cache is a process-wide single-slot document cache. The document and its
// fetch time are guarded by an RWMutex; refreshes are coalesced through a
// singleflight group so concurrent misses pay for one upstream call. The
// lock is never held across that call.
type Cache struct {
	fetcher Fetcher
	logger  *zap.Logger
	group   singleflight.Group

	mu        sync.RWMutex
	doc       *models.MatchDocument
	fetchedAt time.Time

	hits   atomic.Int64
	misses atomic.Int64

	now func() time.Time
}

// New creates an empty Cache backed by the given fetcher.
func New(fetcher Fetcher, logger *zap.Logger) *Cache {
	return &Cache{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the match document and its age in seconds. A document
// younger than MaxAge is served directly. Otherwise the source is fetched;
// on failure any previously held document is served with its stale age,
// and ErrNoData is returned only when the cache has never been filled.
func (c *Cache) Get(ctx context.Context) (*models.MatchDocument, int, error) {
	c.mu.RLock()
	doc, fetchedAt := c.doc, c.fetchedAt
	c.mu.RUnlock()

	if doc != nil {
		if age := c.now().Sub(fetchedAt); age < MaxAge {
			hits := c.hits.Add(1)
			c.logger.Debug("serving cached data",
				zap.Int("age_seconds", int(age.Seconds())),
				zap.Int64("hits", hits))
			return doc, int(age.Seconds()), nil
		}
	}

	c.misses.Add(1)
	return c.refresh(ctx)
}

type refreshResult struct {
	doc *models.MatchDocument
	age int
}

// refresh fetches and stores a fresh document, coalescing concurrent
// callers onto a single source request.
func (c *Cache) refresh(ctx context.Context) (*models.MatchDocument, int, error) {
	v, err, _ := c.group.Do("refresh", func() (any, error) {
		// A coalesced caller may arrive after the previous flight already
		// refreshed the slot.
		c.mu.RLock()
		doc, fetchedAt := c.doc, c.fetchedAt
		c.mu.RUnlock()
		if doc != nil {
			if age := c.now().Sub(fetchedAt); age < MaxAge {
				return refreshResult{doc, int(age.Seconds())}, nil
			}
		}

		fresh, err := c.fetcher.Fetch(ctx)
		if err != nil {
			if doc != nil {
				staleAge := int(c.now().Sub(fetchedAt).Seconds())
				c.logger.Warn("source fetch failed, serving expired cache",
					zap.Int("age_seconds", staleAge),
					zap.Error(err))
				return refreshResult{doc, staleAge}, nil
			}
			c.logger.Error("source fetch failed with empty cache", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrNoData, err)
		}

		c.mu.Lock()
		c.doc, c.fetchedAt = fresh, c.now()
		c.mu.Unlock()

		c.logger.Info("cache refreshed",
			zap.Int("matches_count", fresh.MatchesCount),
			zap.Int64("misses", c.misses.Load()))
		return refreshResult{fresh, 0}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	r := v.(refreshResult)
	return r.doc, r.age, nil
}

// Stats snapshots the counters and current document age for /health.
func (c *Cache) Stats() models.CacheStats {
	c.mu.RLock()
	doc, fetchedAt := c.doc, c.fetchedAt
	c.mu.RUnlock()

	age := 0
	if doc != nil {
		age = int(c.now().Sub(fetchedAt).Seconds())
	}
	return models.CacheStats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		AgeSeconds: age,
		MaxAge:     int(MaxAge.Seconds()),
		HasData:    doc != nil,
	}
}
