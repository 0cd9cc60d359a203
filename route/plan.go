package route

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/mazeroute/grid"
	"github.com/katalvlaran/mazeroute/hostile"
	"github.com/katalvlaran/mazeroute/pathfind"
)

// Plan finds the best-scoring survivable route from p.Start through every
// objective to p.Exit.
//
// Steps:
//  1. Validate the problem (grid, health, weights, objective count and
//     uniqueness, enterable stops).
//  2. Evaluate every ordering of the objectives, sequentially or on
//     Options.Workers goroutines, each on private copies of grid and registry.
//  3. Keep the highest final score; ties keep the lower ordinal.
//  4. When nothing survives, tell ErrNoSurvivableRoute from
//     ErrNoGeometricPath with a damage-free reachability check.
//
// On failure the returned Result still carries the evaluation counters.
func Plan(ctx context.Context, p Problem, opts ...Option) (Result, error) {
	// 1) Build options
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// 2) Validate
	if err := validate(p, cfg); err != nil {
		return Result{}, err
	}

	// 3) Enumerate
	pl := newPlanner(p, cfg)
	n := len(p.Objectives)
	cfg.Logger.WithFields(log.Fields{
		"objectives": n,
		"orderings":  Count(n),
		"workers":    cfg.Workers,
		"leg_cache":  cfg.LegCache,
	}).Info("route search started")

	if err := pl.run(ctx); err != nil {
		return pl.stats(), err
	}

	res := pl.stats()
	if pl.best == nil {
		ok, err := pl.connected(ctx)
		if err != nil {
			return res, err
		}
		if !ok {
			return res, ErrNoGeometricPath
		}

		return res, fmt.Errorf("%w: %d orderings evaluated", ErrNoSurvivableRoute, res.Evaluated)
	}

	// 4) Assemble the winner
	b := pl.best
	res.Path = b.path
	res.Order = b.order
	res.Score = b.score
	res.Health = b.health
	res.Steps = b.path.Steps()
	res.Legs = b.legs
	res.Permutation = b.ordinal

	cfg.Logger.WithFields(log.Fields{
		"score":       res.Score,
		"health":      res.Health,
		"steps":       res.Steps,
		"permutation": res.Permutation,
		"evaluated":   res.Evaluated,
		"survived":    res.Survived,
	}).Info("route search finished")

	return res, nil
}

// validate checks everything Plan can reject before searching.
func validate(p Problem, cfg Options) error {
	if p.Grid == nil {
		return ErrNilGrid
	}
	if p.Health <= 0 {
		return fmt.Errorf("%w: %d", pathfind.ErrNonPositiveHealth, p.Health)
	}
	if err := cfg.Weights.Validate(); err != nil {
		return err
	}
	n := len(p.Objectives)
	if cfg.MaxObjectives > 0 && n > cfg.MaxObjectives {
		return fmt.Errorf("%w: %d > %d", ErrTooManyObjectives, n, cfg.MaxObjectives)
	}

	seen := mapset.New[grid.Cell]()
	for _, c := range p.Objectives {
		if seen.Has(c) {
			return fmt.Errorf("%w: %v", ErrDuplicateObjective, c)
		}
		seen.Put(c)
	}

	stops := append([]grid.Cell{p.Start, p.Exit}, p.Objectives...)
	for _, c := range stops {
		if !pathfind.Enterable(p.Grid, p.Hostiles, c) {
			return fmt.Errorf("%w: %v", ErrInvalidEndpoint, c)
		}
	}

	return nil
}

// candidate is one ordering that reached the exit alive.
type candidate struct {
	ordinal int
	order   []grid.Cell
	path    grid.Path
	legs    []Leg
	health  int64
	score   int64
}

// planner holds the shared state of one Plan call.
type planner struct {
	p     Problem
	opts  Options
	cache *legCache

	searches atomic.Int64 // used when cache is nil

	mu        sync.Mutex
	best      *candidate
	evaluated int
	survived  int
	truncated bool
}

func newPlanner(p Problem, cfg Options) *planner {
	pl := &planner{p: p, opts: cfg}
	if cfg.LegCache {
		pl.cache = newLegCache()
	}

	return pl
}

// run drives the enumeration. The producer stops at the permutation cap or
// once ctx is done.
func (pl *planner) run(ctx context.Context) error {
	n := len(pl.p.Objectives)

	// Sequential: evaluate in ordinal order and stop on the first error.
	if pl.opts.Workers <= 1 {
		var err error
		Permutations(n, func(ordinal int, perm []int) bool {
			if pl.capped(ordinal) {
				return false
			}
			if err = ctx.Err(); err != nil {
				return false
			}
			var c *candidate
			if c, err = pl.evaluate(ctx, ordinal, perm); err != nil {
				return false
			}
			pl.record(c)

			return true
		})

		return err
	}

	// Parallel: SetLimit makes eg.Go block once Workers evaluations are in
	// flight, so the producer never runs far ahead of the pool. The first
	// error cancels egctx and stops enumeration.
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(pl.opts.Workers)
	Permutations(n, func(ordinal int, perm []int) bool {
		if pl.capped(ordinal) || egctx.Err() != nil {
			return false
		}
		// Permutations reuses perm between calls.
		order := append([]int(nil), perm...)
		eg.Go(func() error {
			c, err := pl.evaluate(egctx, ordinal, order)
			if err != nil {
				return err
			}
			pl.record(c)

			return nil
		})

		return true
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// capped reports whether ordinal is past the permutation cap. Only the
// producer goroutine calls it.
func (pl *planner) capped(ordinal int) bool {
	if pl.opts.MaxPermutations > 0 && ordinal >= pl.opts.MaxPermutations {
		pl.truncated = true
		return true
	}

	return false
}

// record folds one evaluated ordering into the running best. c is nil for
// orderings that did not survive.
func (pl *planner) record(c *candidate) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	pl.evaluated++
	if c == nil {
		return
	}
	pl.survived++
	// Higher score wins. On a tie the lower ordinal wins, which keeps the
	// parallel result equal to the sequential one whatever the finish order.
	if pl.best != nil {
		if c.score < pl.best.score {
			return
		}
		if c.score == pl.best.score && c.ordinal > pl.best.ordinal {
			return
		}
	}
	pl.best = c
	pl.opts.Logger.WithFields(log.Fields{
		"permutation": c.ordinal,
		"score":       c.score,
		"health":      c.health,
	}).Debug("new best ordering")
}

// stats snapshots the counters into a Result.
func (pl *planner) stats() Result {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	res := Result{
		Evaluated: pl.evaluated,
		Survived:  pl.survived,
		Truncated: pl.truncated,
	}
	if pl.cache != nil {
		res.LegSearches = pl.cache.searches.Load()
		res.CacheHits = pl.cache.hits.Load()
	} else {
		res.LegSearches = pl.searches.Load()
	}

	return res
}

// evaluate walks one ordering leg by leg on private copies of the grid and
// registry. It returns (nil, nil) when a leg cannot be survived.
func (pl *planner) evaluate(ctx context.Context, ordinal int, perm []int) (*candidate, error) {
	// Clearing mutates the grid and registry, so each ordering starts from
	// its own copy of the problem.
	g := pl.p.Grid.Clone()
	h := pl.p.Hostiles.Clone()

	// Visit the objectives in perm order, then the exit.
	order := make([]grid.Cell, len(perm))
	for i, idx := range perm {
		order[i] = pl.p.Objectives[idx]
	}
	stops := append(append([]grid.Cell(nil), order...), pl.p.Exit)

	c := &candidate{ordinal: ordinal, order: order, health: pl.p.Health}
	var cleared []grid.Cell
	from := pl.p.Start
	for _, to := range stops {
		// Each leg starts with the health the previous one ended on.
		res, err := pl.leg(ctx, g, h, from, to, c.health, cleared)
		// An unreachable or fatal leg discards this ordering only.
		if legFailure(err) {
			pl.opts.Logger.WithFields(log.Fields{
				"permutation": ordinal,
				"from":        from.String(),
				"to":          to.String(),
			}).Debug("ordering discarded")

			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		leg := Leg{From: from, To: to, Path: res.Path, HealthBefore: c.health, HealthAfter: res.Health}
		// Hostiles the leg walked through are defeated: later legs neither
		// take their damage nor treat their cells as walls.
		for _, cell := range res.Path {
			if _, ok := h.HostileAt(cell); ok {
				h.Remove(cell)
				g.Open(cell)
				leg.Cleared = append(leg.Cleared, cell)
			}
		}
		cleared = append(cleared, leg.Cleared...)

		// Join drops the stop-over cell shared by consecutive legs.
		c.path = c.path.Join(res.Path)
		c.legs = append(c.legs, leg)
		c.health = res.Health
		from = to
	}
	// Gem bonus plus remaining health, less the step cost of the whole route.
	c.score = pl.opts.Weights.Final(len(order), c.health, c.path.Steps())

	return c, nil
}

// leg runs one pathfinder search, through the cache when enabled.
func (pl *planner) leg(
	ctx context.Context,
	g *grid.Grid,
	h *hostile.Registry,
	from, to grid.Cell,
	health int64,
	cleared []grid.Cell,
) (pathfind.Result, error) {
	search := func() (pathfind.Result, error) {
		opts := make([]pathfind.Option, 0, len(pl.opts.PathOptions)+2)
		opts = append(opts, pl.opts.PathOptions...)
		opts = append(opts, pathfind.WithWeights(pl.opts.Weights), pathfind.WithContext(ctx))

		return pathfind.FindBestPath(g, from, to, health, pl.p.Bridges, h, opts...)
	}
	if pl.cache == nil {
		pl.searches.Add(1)
		return search()
	}

	return pl.cache.get(legKey(from, to, health, sortedCells(cleared)), search)
}
