package pathfind

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/mazeroute/grid"
	"github.com/katalvlaran/mazeroute/hostile"
)

// FindBestPath returns the path from start to goal that maximizes the move
// score while keeping health strictly positive.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGrid).
//  2. health must be > 0 (ErrNonPositiveHealth).
//  3. Weights must validate (scoring.ErrBadWeights).
//  4. start and goal must be enterable (ErrInvalidEndpoint).
//
// start == goal yields a one-cell path with score 0 and unchanged health.
// hostiles may be nil. Neither g nor hostiles is modified.
//
// Complexity:
//
//   - Time:  O(C log C), C = W×H
//   - Space: O(C)
func FindBestPath(
	g *grid.Grid,
	start, goal grid.Cell,
	health int64,
	bridges grid.Bridges,
	hostiles *hostile.Registry,
	opts ...Option,
) (Result, error) {
	// 1) Build options
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate inputs
	if g == nil {
		return Result{}, ErrNilGrid
	}
	if health <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrNonPositiveHealth, health)
	}
	if err := cfg.Weights.Validate(); err != nil {
		return Result{}, err
	}
	for _, c := range []grid.Cell{start, goal} {
		if !Enterable(g, hostiles, c) {
			return Result{}, fmt.Errorf("%w: %v", ErrInvalidEndpoint, c)
		}
	}

	// 3) Trivial leg
	if start == goal {
		return Result{Path: grid.Path{start}, Health: health, Score: 0}, nil
	}

	// 4) Run the search
	r := newRunner(g, bridges, hostiles, cfg)

	return r.run(start, goal, health)
}

// StepDamage returns the damage of entering c with the given hostiles:
// the occupant's BaseDamage × Frequency plus the BaseDamage of every other
// hostile in the 3×3 box centred on c.
func StepDamage(hostiles *hostile.Registry, c grid.Cell) int64 {
	var dmg int64
	if e, ok := hostiles.HostileAt(c); ok {
		dmg += e.Stats.HitDamage()
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if e, ok := hostiles.HostileAt(c.Add(dx, dy)); ok {
				dmg += e.Stats.BaseDamage
			}
		}
	}

	return dmg
}

// Enterable reports whether c is in bounds and either open or hostile-occupied.
func Enterable(g *grid.Grid, hostiles *hostile.Registry, c grid.Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	if !g.IsBlocked(c) {
		return true
	}
	_, ok := hostiles.HostileAt(c)

	return ok
}

// runner holds the mutable state for a single search.
type runner struct {
	g        *grid.Grid
	bridges  grid.Bridges
	hostiles *hostile.Registry
	options  Options

	best    []int64 // best score per cell; math.MinInt64 if unseen
	health  []int64 // health left by the best-score path
	prev    []int   // predecessor index; -1 for start and unseen cells
	visited []bool  // finalized cells
	damage  []int64 // memoized StepDamage; -1 until computed

	pq  entryPQ
	seq uint64
}

func newRunner(g *grid.Grid, bridges grid.Bridges, hostiles *hostile.Registry, cfg Options) *runner {
	n := g.Width * g.Height
	r := &runner{
		g:        g,
		bridges:  bridges,
		hostiles: hostiles,
		options:  cfg,
		best:     make([]int64, n),
		health:   make([]int64, n),
		prev:     make([]int, n),
		visited:  make([]bool, n),
		damage:   make([]int64, n),
		pq:       make(entryPQ, 0, n),
	}
	for i := 0; i < n; i++ {
		r.best[i] = math.MinInt64
		r.prev[i] = -1
		r.damage[i] = -1
	}

	return r
}

func (r *runner) index(c grid.Cell) int {
	return c.Y*r.g.Width + c.X
}

// push records a strictly better state for c and enqueues it.
func (r *runner) push(c grid.Cell, score, health int64, from int) {
	i := r.index(c)
	r.best[i] = score
	r.health[i] = health
	r.prev[i] = from
	r.seq++
	heap.Push(&r.pq, &entry{cell: c, score: score, health: health, seq: r.seq})
}

// run is the main loop: pop the best-scoring cell, stop on the goal,
// otherwise relax its legal moves.
func (r *runner) run(start, goal grid.Cell, health int64) (Result, error) {
	heap.Init(&r.pq)
	// Seed with the start cell: score 0, full health, no predecessor.
	r.push(start, 0, health, -1)

	expanded := 0
	for r.pq.Len() > 0 {
		// cancellation check (once per pop)
		select {
		case <-r.options.Ctx.Done():
			return Result{}, r.options.Ctx.Err()
		default:
		}

		item := heap.Pop(&r.pq).(*entry)
		u := r.index(item.cell)

		// Lazy deletion: push never updates an entry in place, so a cell can
		// sit in the heap several times. The first pop carries its best score;
		// any later pop for the same cell is stale and skipped.
		if r.visited[u] {
			continue
		}
		// Finalize u. Its score, health and predecessor no longer change.
		r.visited[u] = true
		expanded++
		r.options.OnExpand(item.cell, item.score, item.health)

		// Early exit: the goal is finalized, nothing popped later can beat it.
		if item.cell == goal {
			return Result{
				Path:     r.pathTo(u),
				Health:   item.health,
				Score:    item.score,
				Expanded: expanded,
			}, nil
		}

		// Optional safety cap on finalized cells.
		if r.options.MaxExpansions > 0 && expanded >= r.options.MaxExpansions {
			return Result{}, fmt.Errorf("%w: %d cells expanded", ErrExpansionLimit, expanded)
		}

		r.relax(item)
	}

	// Heap drained without finalizing goal: every route is walled off or fatal.
	return Result{}, fmt.Errorf("%w: %v → %v", ErrUnreachable, start, goal)
}

// relax tries every legal move out of item.cell.
func (r *runner) relax(item *entry) {
	u := r.index(item.cell)
	// Moves already restricts a bridge cell to its axis and drops
	// out-of-bounds neighbours.
	for _, n := range r.g.Moves(item.cell, r.bridges) {
		// Walls stop the traveler, except that a hostile's cell can always be
		// entered and fought through.
		_, occupied := r.hostiles.HostileAt(n)
		if r.g.IsBlocked(n) && !occupied {
			continue
		}
		v := r.index(n)
		// Finalized cells already hold their best score.
		if r.visited[v] {
			continue
		}

		// Damage depends only on the cell, not on how it is entered.
		dmg := r.damageAt(v, n)
		newHealth := item.health - dmg
		// A move that leaves health at or below zero is never taken.
		if newHealth <= 0 {
			continue
		}
		newScore := item.score + r.options.Weights.MoveScore(dmg)
		// Push only on strict improvement; equal scores keep the first
		// predecessor found.
		if newScore <= r.best[v] {
			continue
		}
		r.push(n, newScore, newHealth, u)
	}
}

// damageAt memoizes StepDamage; the registry is fixed for one search.
func (r *runner) damageAt(i int, c grid.Cell) int64 {
	if r.damage[i] < 0 {
		r.damage[i] = StepDamage(r.hostiles, c)
	}

	return r.damage[i]
}

// pathTo walks predecessors back from index i and returns start → i.
func (r *runner) pathTo(i int) grid.Path {
	var rev grid.Path
	for at := i; at >= 0; at = r.prev[at] {
		rev = append(rev, r.g.Coordinate(at))
	}
	for a, b := 0, len(rev)-1; a < b; a, b = a+1, b-1 {
		rev[a], rev[b] = rev[b], rev[a]
	}

	return rev
}

// entry is one frontier record. Several entries may exist for the same cell;
// only the first one popped counts.
type entry struct {
	cell   grid.Cell
	score  int64
	health int64
	seq    uint64
}

// entryPQ is a max-heap on score. Ties pop by X, Y, health ascending, then
// by insertion order.
type entryPQ []*entry

func (pq entryPQ) Len() int { return len(pq) }

func (pq entryPQ) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	switch {
	case a.score != b.score:
		return a.score > b.score
	case a.cell != b.cell:
		return a.cell.Less(b.cell)
	case a.health != b.health:
		return a.health < b.health
	}

	return a.seq < b.seq
}

func (pq entryPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *entryPQ) Push(x interface{}) { *pq = append(*pq, x.(*entry)) }

func (pq *entryPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
