package route

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/mazeroute/grid"
	"github.com/katalvlaran/mazeroute/pathfind"
)

// legOutcome is a memoized pathfinder answer, failures included.
type legOutcome struct {
	res pathfind.Result
	err error
}

// legCache memoizes legs across orderings. Within one Plan the registry only
// shrinks from a common origin, so the set of cleared hostiles pins down the
// whole grid/registry snapshot and makes a sound key together with the
// endpoints and the carried health.
//
// A singleflight.Group prevents duplicate in-flight searches for the same key.
type legCache struct {
	mu    sync.Mutex
	legs  map[string]legOutcome
	group singleflight.Group

	searches atomic.Int64
	hits     atomic.Int64
}

func newLegCache() *legCache {
	return &legCache{legs: make(map[string]legOutcome)}
}

// legKey formats the cache key of a leg.
func legKey(from, to grid.Cell, health int64, cleared []grid.Cell) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d,%d>%d,%d@%d|", from.X, from.Y, to.X, to.Y, health)
	for _, c := range cleared {
		fmt.Fprintf(&b, "%d,%d;", c.X, c.Y)
	}

	return b.String()
}

// sortedCells returns a sorted copy of cells.
func sortedCells(cells []grid.Cell) []grid.Cell {
	out := append([]grid.Cell(nil), cells...)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })

	return out
}

// get returns the cached outcome for key or computes it once.
// Context errors are returned but never stored.
func (c *legCache) get(key string, compute func() (pathfind.Result, error)) (pathfind.Result, error) {
	c.mu.Lock()
	if o, ok := c.legs[key]; ok {
		c.mu.Unlock()
		c.hits.Add(1)
		return o.res, o.err
	}
	c.mu.Unlock()

	// Only the caller whose closure runs counts a search; callers that wait
	// on an in-flight search for the same key count a hit.
	ran := false
	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		ran = true
		res, err := compute()
		c.searches.Add(1)
		if err == nil || legFailure(err) {
			c.mu.Lock()
			c.legs[key] = legOutcome{res: res, err: err}
			c.mu.Unlock()
		}
		return legOutcome{res: res, err: err}, nil
	})
	if !ran {
		c.hits.Add(1)
	}
	o := v.(legOutcome)

	return o.res, o.err
}

// legFailure reports whether err only discards the current ordering.
func legFailure(err error) bool {
	return errors.Is(err, pathfind.ErrUnreachable) || errors.Is(err, pathfind.ErrExpansionLimit)
}
