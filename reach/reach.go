// Package reach answers "is there any path at all?" for a maze grid,
// ignoring health and damage. It is a plain breadth-first search that honours
// bridge restrictions, used to tell a geometrically impossible route apart
// from one that merely cannot be survived.
package reach

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/katalvlaran/mazeroute/grid"
)

// queueItem pairs a cell with its BFS depth.
type queueItem struct {
	cell  grid.Cell
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	g       *grid.Grid
	opts    Options
	queue   []queueItem
	visited mapset.Set[grid.Cell]
	res     *Result
}

// BFS runs breadth-first search on g from start.
// Returns ErrNilGrid, ErrStartNotFound, ErrOptionViolation for invalid input,
// or the context error on cancellation. The start cell itself is always
// reached, even when Passable rejects it.
func BFS(g *grid.Grid, start grid.Cell, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if !g.InBounds(start) {
		return nil, ErrStartNotFound
	}
	if o.Passable == nil {
		o.Passable = func(c grid.Cell) bool { return !g.IsBlocked(c) }
	}

	n := g.Width * g.Height
	w := &walker{
		g:       g,
		opts:    o,
		queue:   make([]queueItem, 0, n),
		visited: mapset.New[grid.Cell](),
		res: &Result{
			Order:  make([]grid.Cell, 0, n),
			Depth:  make(map[grid.Cell]int, n),
			Parent: make(map[grid.Cell]grid.Cell, n),
		},
	}
	w.enqueue(start, 0, nil)

	return w.res, w.loop()
}

// enqueue marks c visited at depth d and records its parent.
func (w *walker) enqueue(c grid.Cell, d int, parent *grid.Cell) {
	w.visited.Put(c)
	w.res.Depth[c] = d
	if parent != nil {
		w.res.Parent[c] = *parent
	}
	w.queue = append(w.queue, queueItem{cell: c, depth: d})
}

// loop processes the queue until empty or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.opts.Ctx.Done():
			return w.opts.Ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.cell)
		w.opts.OnVisit(item.cell, item.depth)

		next := item.depth + 1
		if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
			continue
		}
		for _, nbr := range w.g.Moves(item.cell, w.opts.Bridges) {
			if w.visited.Has(nbr) || !w.opts.Passable(nbr) {
				continue
			}
			from := item.cell
			w.enqueue(nbr, next, &from)
		}
	}

	return nil
}
