package route

import (
	"context"

	"github.com/katalvlaran/mazeroute/grid"
	"github.com/katalvlaran/mazeroute/pathfind"
	"github.com/katalvlaran/mazeroute/reach"
)

// connected reports whether some ordering links start, objectives and exit
// when damage is ignored. Hostile cells count as passable, bridges apply.
func (pl *planner) connected(ctx context.Context) (bool, error) {
	p := pl.p
	passable := func(c grid.Cell) bool { return pathfind.Enterable(p.Grid, p.Hostiles, c) }

	// sources[0] is the start, sources[i+1] is objective i.
	sources := append([]grid.Cell{p.Start}, p.Objectives...)
	reached := make([]*reach.Result, len(sources))
	for i, s := range sources {
		r, err := reach.BFS(p.Grid, s,
			reach.WithContext(ctx),
			reach.WithBridges(p.Bridges),
			reach.WithPassable(passable),
		)
		if err != nil {
			return false, err
		}
		reached[i] = r
	}

	ok := false
	Permutations(len(p.Objectives), func(_ int, perm []int) bool {
		at := 0
		for _, idx := range perm {
			if !reached[at].Reached(p.Objectives[idx]) {
				return true
			}
			at = idx + 1
		}
		if reached[at].Reached(p.Exit) {
			ok = true
			return false
		}

		return true
	})

	return ok, nil
}
