// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/danielhkuo/when-works/models"
)

// resultsEntry caches a computed ranking together with the vote and voter
// counts it was computed from. The counts act as a cheap generation check:
// any new submission changes at least one of them, so a stale entry can
// never be served.
type resultsEntry struct {
	results    []models.UnitResult
	voteCount  int
	voterCount int
}

// ResultsCache is an LRU over computed result rankings, keyed by
// appointment ID. A nil *ResultsCache is valid and never hits.
type ResultsCache struct {
	mu    sync.Mutex
	cache *lru.Cache[string, resultsEntry]
}

func NewResultsCache(size int) (*ResultsCache, error) {
	c, err := lru.New[string, resultsEntry](size)
	if err != nil {
		return nil, err
	}
	return &ResultsCache{cache: c}, nil
}

// Get returns the cached ranking for the appointment if it was computed
// from exactly voteCount votes by voterCount voters.
func (c *ResultsCache) Get(appointmentID string, voteCount, voterCount int) ([]models.UnitResult, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.cache.Get(appointmentID)
	if !ok || entry.voteCount != voteCount || entry.voterCount != voterCount {
		return nil, false
	}
	return entry.results, true
}

// Put stores a freshly computed ranking.
func (c *ResultsCache) Put(appointmentID string, voteCount, voterCount int, results []models.UnitResult) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Add(appointmentID, resultsEntry{
		results:    results,
		voteCount:  voteCount,
		voterCount: voterCount,
	})
}

// Invalidate drops the appointment's entry, used when the appointment
// itself is deleted.
func (c *ResultsCache) Invalidate(appointmentID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Remove(appointmentID)
}
