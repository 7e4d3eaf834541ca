// Package highestbid holds the last known highest bid per product key.
//
// Values only change through Refresh and Invalidate. Concurrent refreshes of a key coalesce into a
// single upstream request, and a response is applied only when its request was issued after the
// one that produced the stored value, so a slow stale response can never overwrite a newer one.
package highestbid

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"auction-bff/internal/biddingerrors"
	"auction-bff/utils"

	"golang.org/x/sync/singleflight"
)

// State is the lifecycle position of a cache entry
type State string

const (
	StateAbsent     State = "absent"
	StateRefreshing State = "refreshing"
	StateFresh      State = "fresh"
	StateStale      State = "stale"
)

// DefaultTimeout bounds a single upstream fetch
const DefaultTimeout = 10 * time.Second

// Fetcher queries the authoritative highest bid for a product
type Fetcher interface {
	FetchHighestBid(ctx context.Context, productKey string) (float64, error)
}

// Clock stamps refresh times
type Clock interface {
	Now() time.Time
}

// Entry is a read-only snapshot of a cached value
type Entry struct {
	ProductKey      string    `json:"product_key"`
	HighestBid      float64   `json:"highest_bid"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
	State           State     `json:"state"`
	Stale           bool      `json:"stale"`
}

type entry struct {
	value       float64
	refreshedAt time.Time
	hasValue    bool
	failed      bool
	state       State

	issued      uint64 // sequence of the most recently issued request
	applied     uint64 // sequence of the request that produced value
	invalidated uint64 // requests issued at or before this sequence predate the last Invalidate
	generation  uint64
	inflight    int
	waiting     int
}

// Cache is safe for concurrent use
type Cache struct {
	fetcher Fetcher
	clock   Clock
	timeout time.Duration

	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

// NewCache creates an empty cache. A non-positive timeout uses DefaultTimeout.
func NewCache(fetcher Fetcher, clock Clock, timeout time.Duration) *Cache {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Cache{
		fetcher: fetcher,
		clock:   clock,
		timeout: timeout,
		entries: make(map[string]*entry),
	}
}

// Get returns the cached entry for productKey. The boolean is false while no value has ever been fetched.
func (c *Cache) Get(productKey string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(productKey)
	return e.snapshot(productKey), e.hasValue
}

// Refresh fetches the highest bid for productKey and returns the value the cache holds afterwards.
// On failure the last known value is returned alongside the error.
func (c *Cache) Refresh(ctx context.Context, productKey string) (float64, error) {
	c.mu.Lock()
	e := c.entryLocked(productKey)
	e.waiting++
	flight := fmt.Sprintf("%s#%d", productKey, e.generation)
	// DoChan never runs fn inline, so joining the flight under the lock is safe
	ch := c.group.DoChan(flight, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), productKey, e)
	})
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		e.waiting--
		c.mu.Unlock()
	}()

	select {
	case res := <-ch:
		if res.Err != nil {
			c.mu.Lock()
			last := e.value
			c.mu.Unlock()
			return last, res.Err
		}
		return res.Val.(float64), nil
	case <-ctx.Done():
		c.mu.Lock()
		last := e.value
		c.mu.Unlock()
		return last, ctx.Err()
	}
}

// Load returns a fresh entry, refreshing first unless the cached value is already fresh.
// When the refresh fails, the last known entry is still returned with the error.
func (c *Cache) Load(ctx context.Context, productKey string) (Entry, error) {
	c.mu.Lock()
	e := c.entryLocked(productKey)
	if e.state == StateFresh {
		snap := e.snapshot(productKey)
		c.mu.Unlock()
		return snap, nil
	}
	c.mu.Unlock()

	_, err := c.Refresh(ctx, productKey)

	c.mu.Lock()
	defer c.mu.Unlock()
	return e.snapshot(productKey), err
}

// Invalidate marks productKey stale so the next read refreshes it. A refresh already in flight
// keeps running, but later refreshes issue a new request instead of joining it.
func (c *Cache) Invalidate(productKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(productKey)
	e.invalidated = e.issued
	e.generation++
	e.settle()

	utils.Debug("highestbid: invalidated", map[string]any{
		"product_key": productKey,
		"state":       e.state,
	})
}

func (c *Cache) fetch(ctx context.Context, productKey string, e *entry) (any, error) {
	c.mu.Lock()
	e.issued++
	seq := e.issued
	e.inflight++
	e.settle()
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	value, err := c.fetcher.FetchHighestBid(ctx, productKey)

	c.mu.Lock()
	defer c.mu.Unlock()
	e.inflight--

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, biddingerrors.ErrAPITimeout) {
			err = fmt.Errorf("%w: %w", biddingerrors.ErrAPITimeout, err)
		}
		e.failed = e.hasValue
		e.settle()
		utils.Warn("highestbid: refresh failed, keeping last known value", map[string]any{
			"product_key": productKey,
			"has_value":   e.hasValue,
			"error":       err.Error(),
		})
		return nil, fmt.Errorf("refresh highest bid for %s: %w", productKey, err)
	}

	if seq > e.applied {
		e.value = value
		e.refreshedAt = c.clock.Now()
		e.hasValue = true
		e.applied = seq
		e.failed = false
	} else {
		utils.Debug("highestbid: discarded superseded response", map[string]any{
			"product_key": productKey,
			"sequence":    seq,
			"applied":     e.applied,
		})
	}
	e.settle()
	return e.value, nil
}

func (c *Cache) entryLocked(productKey string) *entry {
	e, ok := c.entries[productKey]
	if !ok {
		e = &entry{state: StateAbsent}
		c.entries[productKey] = e
	}
	return e
}

// waiters reports how many callers are waiting on a refresh of productKey
func (c *Cache) waiters(productKey string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[productKey]; ok {
		return e.waiting
	}
	return 0
}

// settle derives the state; an entry that once held a value never returns to absent
func (e *entry) settle() {
	switch {
	case e.inflight > 0:
		e.state = StateRefreshing
	case !e.hasValue:
		e.state = StateAbsent
	case e.failed || e.applied <= e.invalidated:
		e.state = StateStale
	default:
		e.state = StateFresh
	}
}

func (e *entry) snapshot(productKey string) Entry {
	return Entry{
		ProductKey:      productKey,
		HighestBid:      e.value,
		LastRefreshedAt: e.refreshedAt,
		State:           e.state,
		Stale:           e.state != StateFresh,
	}
}
