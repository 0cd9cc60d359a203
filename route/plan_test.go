// Package route_test exercises Plan end to end: validation, ordering choice,
// hostile clearing between legs, isolation between orderings, failure kinds,
// and agreement between the sequential, parallel and cached evaluators.
package route_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mazeroute/grid"
	"github.com/katalvlaran/mazeroute/hostile"
	"github.com/katalvlaran/mazeroute/pathfind"
	"github.com/katalvlaran/mazeroute/route"
)

func mustGrid(t *testing.T, rows [][]int) *grid.Grid {
	t.Helper()
	g, err := grid.New(rows)
	require.NoError(t, err)

	return g
}

func registry(t *testing.T, placements map[grid.Cell]hostile.Kind) *hostile.Registry {
	t.Helper()
	r, err := hostile.NewRegistry(nil, placements)
	require.NoError(t, err)

	return r
}

// courtyard is a 5×5 maze with pillars, two hostiles and four gems.
func courtyard(t *testing.T) route.Problem {
	t.Helper()

	return route.Problem{
		Grid: mustGrid(t, [][]int{
			{0, 0, 0, 0, 0},
			{0, 1, 0, 1, 0},
			{0, 0, 0, 0, 0},
			{0, 1, 0, 1, 0},
			{0, 0, 0, 0, 0},
		}),
		Start: grid.At(0, 0),
		Exit:  grid.At(2, 4),
		Objectives: []grid.Cell{
			grid.At(4, 0), grid.At(0, 4), grid.At(4, 4), grid.At(2, 2),
		},
		Health: 300,
		Hostiles: registry(t, map[grid.Cell]hostile.Kind{
			grid.At(1, 1): hostile.Ghost,
			grid.At(2, 1): hostile.Bat,
		}),
	}
}

// assertRoute checks the structural invariants of a successful plan.
func assertRoute(t *testing.T, p route.Problem, res route.Result) {
	t.Helper()
	require.NotEmpty(t, res.Path)
	assert.Equal(t, p.Start, res.Path[0])
	assert.Equal(t, p.Exit, res.Path[len(res.Path)-1])
	assert.True(t, res.Path.Contiguous(), "route must be contiguous: %v", res.Path)
	assert.Equal(t, res.Path.Steps(), res.Steps)
	assert.Greater(t, res.Health, int64(0))
	assert.ElementsMatch(t, p.Objectives, res.Order)
	for _, c := range p.Objectives {
		assert.True(t, res.Path.Contains(c), "objective %v not visited", c)
	}
	require.Len(t, res.Legs, len(p.Objectives)+1)
	for i := 1; i < len(res.Legs); i++ {
		assert.Equal(t, res.Legs[i-1].HealthAfter, res.Legs[i].HealthBefore)
		assert.Equal(t, res.Legs[i-1].To, res.Legs[i].From)
	}
}

// ------------------------------------------------------------------------
// 1. Validation
// ------------------------------------------------------------------------

func TestPlan_Validation(t *testing.T) {
	ctx := context.Background()
	open := grid.NewOpen(3, 3)
	walled := mustGrid(t, [][]int{{0, 1, 0}})

	tests := []struct {
		name string
		p    route.Problem
		opts []route.Option
		want error
	}{
		{"nil grid", route.Problem{Health: 10}, nil, route.ErrNilGrid},
		{"health", route.Problem{Grid: open, Exit: grid.At(2, 2)}, nil, pathfind.ErrNonPositiveHealth},
		{
			"duplicate",
			route.Problem{Grid: open, Exit: grid.At(2, 2), Health: 10, Objectives: []grid.Cell{grid.At(1, 1), grid.At(1, 1)}},
			nil, route.ErrDuplicateObjective,
		},
		{
			"too many",
			route.Problem{Grid: open, Exit: grid.At(2, 2), Health: 10, Objectives: []grid.Cell{grid.At(1, 0), grid.At(1, 1), grid.At(2, 0)}},
			[]route.Option{route.WithMaxObjectives(2)}, route.ErrTooManyObjectives,
		},
		{
			"objective on wall",
			route.Problem{Grid: walled, Exit: grid.At(2, 0), Health: 10, Objectives: []grid.Cell{grid.At(1, 0)}},
			nil, route.ErrInvalidEndpoint,
		},
		{
			"exit out of bounds",
			route.Problem{Grid: open, Exit: grid.At(3, 0), Health: 10},
			nil, route.ErrInvalidEndpoint,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := route.Plan(ctx, tc.p, tc.opts...)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPlan_DefaultObjectiveCap(t *testing.T) {
	var gems []grid.Cell
	for x := 1; x <= route.DefaultMaxObjectives+1; x++ {
		gems = append(gems, grid.At(x, 0))
	}
	p := route.Problem{Grid: grid.NewOpen(len(gems)+2, 1), Exit: grid.At(len(gems)+1, 0), Health: 300, Objectives: gems}

	_, err := route.Plan(context.Background(), p)
	assert.ErrorIs(t, err, route.ErrTooManyObjectives)
}

// ------------------------------------------------------------------------
// 2. Scoring and ordering
// ------------------------------------------------------------------------

func TestPlan_NoObjectives(t *testing.T) {
	p := route.Problem{Grid: grid.NewOpen(3, 3), Start: grid.At(0, 0), Exit: grid.At(2, 2), Health: 300}

	res, err := route.Plan(context.Background(), p)
	require.NoError(t, err)
	assertRoute(t, p, res)
	assert.Equal(t, 4, res.Steps)
	assert.Equal(t, int64(300*8-4*50), res.Score)
	assert.Equal(t, 1, res.Evaluated)
	assert.Equal(t, 1, res.Survived)
	assert.Empty(t, res.Order)
}

func TestPlan_RoundTripElidesStopOver(t *testing.T) {
	p := route.Problem{
		Grid:       grid.NewOpen(3, 1),
		Start:      grid.At(0, 0),
		Exit:       grid.At(0, 0),
		Objectives: []grid.Cell{grid.At(2, 0)},
		Health:     300,
	}

	res, err := route.Plan(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, grid.Path{grid.At(0, 0), grid.At(1, 0), grid.At(2, 0), grid.At(1, 0), grid.At(0, 0)}, res.Path)
	assert.Equal(t, int64(1000+300*8-4*50), res.Score)
}

func TestPlan_PicksShorterOrdering(t *testing.T) {
	// start at x=1; visiting x=0 first avoids walking the corridor twice.
	p := route.Problem{
		Grid:       grid.NewOpen(6, 1),
		Start:      grid.At(1, 0),
		Exit:       grid.At(5, 0),
		Objectives: []grid.Cell{grid.At(4, 0), grid.At(0, 0)},
		Health:     300,
	}

	res, err := route.Plan(context.Background(), p)
	require.NoError(t, err)
	assertRoute(t, p, res)
	assert.Equal(t, []grid.Cell{grid.At(0, 0), grid.At(4, 0)}, res.Order)
	assert.Equal(t, 1, res.Permutation)
	assert.Equal(t, 6, res.Steps)
	assert.Equal(t, int64(2000+300*8-6*50), res.Score)
	assert.Equal(t, 2, res.Evaluated)
}

func TestPlan_TieKeepsFirstOrdering(t *testing.T) {
	p := route.Problem{
		Grid:       grid.NewOpen(5, 1),
		Start:      grid.At(2, 0),
		Exit:       grid.At(2, 0),
		Objectives: []grid.Cell{grid.At(0, 0), grid.At(4, 0)},
		Health:     300,
	}

	for _, workers := range []int{1, 4} {
		res, err := route.Plan(context.Background(), p, route.WithWorkers(workers))
		require.NoError(t, err)
		assert.Equal(t, 0, res.Permutation, "workers=%d", workers)
		assert.Equal(t, []grid.Cell{grid.At(0, 0), grid.At(4, 0)}, res.Order)
		assert.Equal(t, int64(2000+300*8-8*50), res.Score)
	}
}

// ------------------------------------------------------------------------
// 3. Hostile clearing and isolation
// ------------------------------------------------------------------------

func TestPlan_ClearsHostilesAfterLeg(t *testing.T) {
	// The Ghost guards the only passage. Fighting through costs 40 on entry
	// and 20 of proximity on the next step; the way back is free once it is
	// cleared.
	p := route.Problem{
		Grid:       mustGrid(t, [][]int{{0, 1, 0}}),
		Start:      grid.At(0, 0),
		Exit:       grid.At(0, 0),
		Objectives: []grid.Cell{grid.At(2, 0)},
		Health:     300,
		Hostiles:   registry(t, map[grid.Cell]hostile.Kind{grid.At(1, 0): hostile.Ghost}),
	}

	res, err := route.Plan(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, res.Legs, 2)

	assert.Equal(t, int64(300), res.Legs[0].HealthBefore)
	assert.Equal(t, int64(240), res.Legs[0].HealthAfter)
	assert.Equal(t, []grid.Cell{grid.At(1, 0)}, res.Legs[0].Cleared)

	assert.Equal(t, int64(240), res.Legs[1].HealthAfter)
	assert.Empty(t, res.Legs[1].Cleared)

	assert.Equal(t, int64(240), res.Health)
	assert.Equal(t, int64(1000+240*8-4*50), res.Score)

	// The problem's own state is untouched.
	assert.Equal(t, 1, p.Hostiles.Len())
	assert.True(t, p.Grid.IsBlocked(grid.At(1, 0)))
}

func TestPlan_OrderingsDoNotShareState(t *testing.T) {
	p := courtyard(t)
	p.Objectives = p.Objectives[:2]

	full, err := route.Plan(context.Background(), p)
	require.NoError(t, err)

	// Evaluate each ordering on its own by listing it first and capping
	// enumeration at one.
	var singles []route.Result
	for _, order := range [][]grid.Cell{
		{p.Objectives[0], p.Objectives[1]},
		{p.Objectives[1], p.Objectives[0]},
	} {
		q := p
		q.Objectives = order
		r, err := route.Plan(context.Background(), q, route.WithMaxPermutations(1))
		require.NoError(t, err)
		assert.True(t, r.Truncated)
		singles = append(singles, r)
	}

	want := singles[0]
	if singles[1].Score > singles[0].Score {
		want = singles[1]
	}
	assert.Equal(t, want.Score, full.Score)
	assert.Equal(t, want.Path, full.Path)
	assert.Equal(t, want.Health, full.Health)
}

// ------------------------------------------------------------------------
// 4. Failure kinds
// ------------------------------------------------------------------------

func TestPlan_NoSurvivableRoute(t *testing.T) {
	// Entering the Dragon leaves 40, the proximity hit on the next cell kills.
	p := route.Problem{
		Grid:     mustGrid(t, [][]int{{0, 1, 0}}),
		Start:    grid.At(0, 0),
		Exit:     grid.At(2, 0),
		Health:   100,
		Hostiles: registry(t, map[grid.Cell]hostile.Kind{grid.At(1, 0): hostile.Dragon}),
	}

	res, err := route.Plan(context.Background(), p)
	assert.ErrorIs(t, err, route.ErrNoSurvivableRoute)
	assert.NotErrorIs(t, err, route.ErrNoGeometricPath)
	assert.Equal(t, 1, res.Evaluated)
	assert.Zero(t, res.Survived)
}

func TestPlan_NoGeometricPath(t *testing.T) {
	p := route.Problem{
		Grid:       mustGrid(t, [][]int{{0, 1, 0}, {0, 1, 0}}),
		Start:      grid.At(0, 0),
		Exit:       grid.At(0, 1),
		Objectives: []grid.Cell{grid.At(2, 0)},
		Health:     300,
	}

	_, err := route.Plan(context.Background(), p)
	assert.ErrorIs(t, err, route.ErrNoGeometricPath)
}

func TestPlan_BridgeBlocksOnlyRoute(t *testing.T) {
	// The middle cell is a vertical bridge, so the corridor cannot be crossed
	// east-west.
	p := route.Problem{
		Grid:    grid.NewOpen(3, 1),
		Start:   grid.At(0, 0),
		Exit:    grid.At(2, 0),
		Health:  300,
		Bridges: grid.Bridges{grid.At(1, 0): grid.Vertical},
	}

	_, err := route.Plan(context.Background(), p)
	assert.ErrorIs(t, err, route.ErrNoGeometricPath)
}

func TestPlan_ExpansionLimitDiscardsOrderings(t *testing.T) {
	p := route.Problem{
		Grid:   grid.NewOpen(4, 4),
		Start:  grid.At(0, 0),
		Exit:   grid.At(3, 3),
		Health: 300,
	}

	_, err := route.Plan(context.Background(), p,
		route.WithPathOptions(pathfind.WithMaxExpansions(2)))
	assert.ErrorIs(t, err, route.ErrNoSurvivableRoute)
}

func TestPlan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 3} {
		_, err := route.Plan(ctx, courtyard(t), route.WithWorkers(workers))
		assert.ErrorIs(t, err, context.Canceled, "workers=%d", workers)
	}
}

// ------------------------------------------------------------------------
// 5. Evaluators agree
// ------------------------------------------------------------------------

func TestPlan_SequentialParallelCachedAgree(t *testing.T) {
	p := courtyard(t)
	ctx := context.Background()

	base, err := route.Plan(ctx, p)
	require.NoError(t, err)
	assertRoute(t, p, base)
	assert.Equal(t, route.Count(len(p.Objectives)), base.Evaluated)

	variants := map[string][]route.Option{
		"parallel":        {route.WithWorkers(4)},
		"cached":          {route.WithLegCache(true)},
		"parallel+cached": {route.WithWorkers(4), route.WithLegCache(true)},
	}
	for name, opts := range variants {
		t.Run(name, func(t *testing.T) {
			res, err := route.Plan(ctx, p, opts...)
			require.NoError(t, err)
			assert.Equal(t, base.Path, res.Path)
			assert.Equal(t, base.Order, res.Order)
			assert.Equal(t, base.Score, res.Score)
			assert.Equal(t, base.Health, res.Health)
			assert.Equal(t, base.Permutation, res.Permutation)
			assert.Equal(t, base.Evaluated, res.Evaluated)
			assert.Equal(t, base.Survived, res.Survived)
		})
	}
}

func TestPlan_LegCacheCounters(t *testing.T) {
	p := route.Problem{
		Grid:       grid.NewOpen(3, 3),
		Start:      grid.At(0, 0),
		Exit:       grid.At(1, 1),
		Objectives: []grid.Cell{grid.At(2, 0), grid.At(0, 2), grid.At(2, 2)},
		Health:     300,
	}
	ctx := context.Background()

	plain, err := route.Plan(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(6*4), plain.LegSearches)
	assert.Zero(t, plain.CacheHits)

	cached, err := route.Plan(ctx, p, route.WithLegCache(true))
	require.NoError(t, err)
	assert.Equal(t, plain.Score, cached.Score)
	assert.Positive(t, cached.CacheHits)
	assert.Less(t, cached.LegSearches, plain.LegSearches)
	assert.Equal(t, plain.LegSearches, cached.LegSearches+cached.CacheHits)

	// Waiting on another worker's in-flight search also counts as a hit.
	parallel, err := route.Plan(ctx, p, route.WithLegCache(true), route.WithWorkers(4))
	require.NoError(t, err)
	assert.Equal(t, plain.Score, parallel.Score)
	assert.Equal(t, plain.LegSearches, parallel.LegSearches+parallel.CacheHits)
}

func TestPlan_Truncation(t *testing.T) {
	res, err := route.Plan(context.Background(), courtyard(t), route.WithMaxPermutations(5))
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Equal(t, 5, res.Evaluated)
	assert.Less(t, res.Permutation, 5)
}

func TestPlan_LogsProgress(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, err := route.Plan(context.Background(), courtyard(t), route.WithLogger(logger))
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.NotEmpty(t, entries)
	assert.Equal(t, "route search started", entries[0].Message)
	assert.Equal(t, 24, entries[0].Data["orderings"])
	assert.Equal(t, "route search finished", hook.LastEntry().Message)

	var bests int
	for _, e := range entries {
		if e.Message == "new best ordering" {
			bests++
		}
	}
	assert.Positive(t, bests)
}
