package route

import (
	"errors"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/katalvlaran/mazeroute/grid"
	"github.com/katalvlaran/mazeroute/hostile"
	"github.com/katalvlaran/mazeroute/pathfind"
	"github.com/katalvlaran/mazeroute/scoring"
)

// Sentinel errors returned by Plan.
var (
	// ErrInvalidEndpoint is the pathfinder's endpoint error, surfaced as-is.
	ErrInvalidEndpoint = pathfind.ErrInvalidEndpoint

	// ErrNilGrid indicates a Problem without a grid.
	ErrNilGrid = errors.New("route: grid is nil")

	// ErrDuplicateObjective indicates an objective cell listed more than once.
	ErrDuplicateObjective = errors.New("route: duplicate objective")

	// ErrTooManyObjectives indicates more objectives than MaxObjectives.
	ErrTooManyObjectives = errors.New("route: too many objectives")

	// ErrNoSurvivableRoute indicates every ordering failed on at least one leg.
	ErrNoSurvivableRoute = errors.New("route: no survivable route")

	// ErrNoGeometricPath indicates no ordering is connected even without damage.
	ErrNoGeometricPath = errors.New("route: no path exists")
)

// DefaultMaxObjectives is the largest objective count Plan accepts by default.
const DefaultMaxObjectives = 8

// Problem is one planning request. Plan never mutates it.
type Problem struct {
	Grid       *grid.Grid
	Start      grid.Cell
	Exit       grid.Cell
	Objectives []grid.Cell
	Health     int64
	Bridges    grid.Bridges
	Hostiles   *hostile.Registry
}

// Leg is one start-to-goal segment of the chosen route.
type Leg struct {
	From, To     grid.Cell
	Path         grid.Path
	HealthBefore int64
	HealthAfter  int64
	// Cleared lists hostiles removed after this leg, in path order.
	Cleared []grid.Cell
}

// Result describes the best route found.
type Result struct {
	// Path is the full route, stop-over cells not duplicated.
	Path grid.Path
	// Order is the objective visit order.
	Order []grid.Cell
	// Score is the final composite score.
	Score int64
	// Health left at the exit.
	Health int64
	// Steps is Path.Steps().
	Steps int
	// Legs in travel order.
	Legs []Leg
	// Permutation is the lexicographic ordinal of the winning ordering.
	Permutation int

	// Evaluated and Survived count orderings tried and orderings that
	// reached the exit alive.
	Evaluated, Survived int
	// Truncated is set when WithMaxPermutations stopped enumeration early.
	Truncated bool
	// LegSearches counts pathfinder runs; CacheHits counts legs served from
	// the leg cache.
	LegSearches, CacheHits int64
}

// Options configures Plan.
type Options struct {
	Weights         scoring.Weights
	Workers         int
	LegCache        bool
	MaxObjectives   int
	MaxPermutations int
	PathOptions     []pathfind.Option
	Logger          log.FieldLogger
}

// Option represents a functional option for configuring Plan.
type Option func(*Options)

// DefaultOptions returns reference weights, sequential evaluation, no leg
// cache, MaxObjectives = 8, no permutation cap and a silent logger.
func DefaultOptions() Options {
	return Options{
		Weights:       scoring.Reference(),
		Workers:       1,
		MaxObjectives: DefaultMaxObjectives,
		Logger:        discardLogger(),
	}
}

// WithWeights sets the scoring policy for legs and the final score.
func WithWeights(w scoring.Weights) Option {
	return func(o *Options) {
		o.Weights = w
	}
}

// WithWorkers sets the number of goroutines evaluating orderings.
// Values below 1 mean sequential.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			n = 1
		}
		o.Workers = n
	}
}

// WithLegCache enables or disables leg memoization.
func WithLegCache(on bool) Option {
	return func(o *Options) {
		o.LegCache = on
	}
}

// WithMaxObjectives changes the objective cap. n <= 0 removes it.
func WithMaxObjectives(n int) Option {
	return func(o *Options) {
		o.MaxObjectives = n
	}
}

// WithMaxPermutations evaluates at most n orderings. n <= 0 means all.
func WithMaxPermutations(n int) Option {
	return func(o *Options) {
		o.MaxPermutations = n
	}
}

// WithPathOptions forwards options to every pathfinder call. Weights and
// context are always set by Plan and override any given here.
func WithPathOptions(opts ...pathfind.Option) Option {
	return func(o *Options) {
		o.PathOptions = append(o.PathOptions, opts...)
	}
}

// WithLogger sets the logger for progress messages.
func WithLogger(l log.FieldLogger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func discardLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)

	return l
}
