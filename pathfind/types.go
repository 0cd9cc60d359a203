package pathfind

import (
	"context"
	"errors"

	"github.com/katalvlaran/mazeroute/grid"
	"github.com/katalvlaran/mazeroute/scoring"
)

// Sentinel errors returned by FindBestPath.
var (
	// ErrNilGrid indicates that a nil *grid.Grid was passed.
	ErrNilGrid = errors.New("pathfind: grid is nil")

	// ErrNonPositiveHealth indicates the traveler starts dead.
	ErrNonPositiveHealth = errors.New("pathfind: starting health must be positive")

	// ErrInvalidEndpoint indicates start or goal is out of bounds or on a
	// blocked cell that no hostile occupies.
	ErrInvalidEndpoint = errors.New("pathfind: invalid endpoint")

	// ErrUnreachable indicates the frontier emptied before the goal was popped.
	ErrUnreachable = errors.New("pathfind: goal unreachable")

	// ErrExpansionLimit indicates the expansion cap was hit first.
	ErrExpansionLimit = errors.New("pathfind: expansion limit reached")

	// ErrBadMaxExpansions indicates WithMaxExpansions got a negative value.
	ErrBadMaxExpansions = errors.New("pathfind: MaxExpansions must be non-negative")
)

// Result is the outcome of a successful search.
type Result struct {
	// Path runs from start to goal inclusive.
	Path grid.Path
	// Health is what the traveler has left on the goal; always > 0.
	Health int64
	// Score is the accumulated move score; 0 for start == goal.
	Score int64
	// Expanded counts the cells popped and finalized.
	Expanded int
}

// Options configures FindBestPath.
//
// Weights       – scoring policy; only Health and Step are used here.
// Ctx           – checked once per frontier pop.
// MaxExpansions – 0 means unlimited.
// OnExpand      – called for each finalized cell with its score and health.
type Options struct {
	Weights       scoring.Weights
	Ctx           context.Context
	MaxExpansions int
	OnExpand      func(c grid.Cell, score, health int64)
}

// Option represents a functional option for configuring FindBestPath.
type Option func(*Options)

// DefaultOptions returns reference weights, a background context, no
// expansion cap and a no-op hook.
func DefaultOptions() Options {
	return Options{
		Weights:       scoring.Reference(),
		Ctx:           context.Background(),
		MaxExpansions: 0,
		OnExpand:      func(grid.Cell, int64, int64) {},
	}
}

// WithWeights overrides the scoring policy.
func WithWeights(w scoring.Weights) Option {
	return func(o *Options) {
		o.Weights = w
	}
}

// WithContext sets a context for cancellation. A nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithMaxExpansions caps the number of finalized cells; 0 means no cap.
// Panics on a negative value.
func WithMaxExpansions(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(ErrBadMaxExpansions.Error())
		}
		o.MaxExpansions = n
	}
}

// WithOnExpand registers a hook run for every finalized cell.
func WithOnExpand(fn func(c grid.Cell, score, health int64)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnExpand = fn
		}
	}
}
