package server

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/lox/liarsbar/internal/game"
)

// ResultArchive keeps the most recent finished matches. It is a MatchMonitor
// so it can be chained with other monitors.
type ResultArchive struct {
	cache *lru.Cache

	mu  sync.Mutex
	seq uint64
}

// NewResultArchive creates an archive holding up to size results
func NewResultArchive(size int) (*ResultArchive, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("results archive: %w", err)
	}
	return &ResultArchive{cache: cache}, nil
}

func (a *ResultArchive) OnMatchStart(string, []string)                  {}
func (a *ResultArchive) OnRoundResolved(string, int, game.RoundSummary) {}

// OnMatchEnd records the result. Rematches in the same room are kept as
// separate entries.
func (a *ResultArchive) OnMatchEnd(result MatchResult) {
	a.mu.Lock()
	a.seq++
	key := a.seq
	a.mu.Unlock()

	a.cache.Add(key, result)
}

// Results returns the archived results, newest first
func (a *ResultArchive) Results() []MatchResult {
	keys := a.cache.Keys()
	results := make([]MatchResult, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if v, ok := a.cache.Peek(keys[i]); ok {
			results = append(results, v.(MatchResult))
		}
	}
	return results
}

// Len returns the number of archived results
func (a *ResultArchive) Len() int {
	return a.cache.Len()
}
