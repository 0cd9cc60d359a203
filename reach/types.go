package reach

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/mazeroute/grid"
)

// Sentinel errors for BFS execution.
var (
	// ErrNilGrid is returned if a nil grid pointer is passed.
	ErrNilGrid = errors.New("reach: grid is nil")

	// ErrStartNotFound is returned when the start cell is outside the grid.
	ErrStartNotFound = errors.New("reach: start cell out of bounds")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("reach: invalid option supplied")

	// ErrNotReached is returned by PathTo for cells the search never reached.
	ErrNotReached = errors.New("reach: cell not reached")
)

// Option configures BFS behavior via functional arguments.
// If an Option is invalid (e.g. negative depth), it will be recorded
// internally and surfaced as ErrOptionViolation when BFS is invoked.
type Option func(*Options)

// Options holds parameters and callbacks to customize the search.
type Options struct {
	// Ctx allows cancellation and deadlines.
	Ctx context.Context

	// Bridges restricts moves leaving bridge cells.
	Bridges grid.Bridges

	// Passable decides whether a cell may be entered. The default is
	// "not blocked".
	Passable func(c grid.Cell) bool

	// OnVisit is called when a cell is dequeued, with its depth.
	OnVisit func(c grid.Cell, depth int)

	// MaxDepth, if > 0, stops exploring beyond this depth.
	MaxDepth int

	err error
}

// DefaultOptions returns background context, no bridges, no depth limit and
// a no-op hook. Passable is filled in by BFS from the grid when unset.
func DefaultOptions() Options {
	return Options{
		Ctx:     context.Background(),
		OnVisit: func(grid.Cell, int) {},
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithBridges applies bridge axis restrictions.
func WithBridges(b grid.Bridges) Option {
	return func(o *Options) {
		o.Bridges = b
	}
}

// WithPassable overrides which cells may be entered.
func WithPassable(fn func(c grid.Cell) bool) Option {
	return func(o *Options) {
		if fn != nil {
			o.Passable = fn
		}
	}
}

// WithOnVisit registers a callback run on every dequeued cell.
func WithOnVisit(fn func(c grid.Cell, depth int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithMaxDepth stops the search at the given depth.
//
//	d > 0: limit to depth d
//	d == 0: no depth limit
//	d < 0: invalid option → ErrOptionViolation
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// Result holds the outcome of a traversal:
//   - Order: cells in visit sequence.
//   - Depth: steps from the start for every reached cell.
//   - Parent: predecessor of every reached cell except the start.
type Result struct {
	Order  []grid.Cell
	Depth  map[grid.Cell]int
	Parent map[grid.Cell]grid.Cell
}

// Reached reports whether c was reached.
func (r *Result) Reached(c grid.Cell) bool {
	_, ok := r.Depth[c]

	return ok
}

// PathTo reconstructs the shortest path from the start to dest.
func (r *Result) PathTo(dest grid.Cell) (grid.Path, error) {
	if !r.Reached(dest) {
		return nil, fmt.Errorf("%w: %v", ErrNotReached, dest)
	}
	path := grid.Path{}
	for cur := dest; ; {
		path = append(path, cur)
		prev, ok := r.Parent[cur]
		if !ok {
			break
		}
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}
