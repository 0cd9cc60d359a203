package store_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mazeroute/grid"
	"github.com/katalvlaran/mazeroute/route"
	"github.com/katalvlaran/mazeroute/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestStore_RunRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC)
	in := store.Run{
		Maze:      "courtyard",
		CreatedAt: created,
		Status:    store.StatusOK,
		Score:     4100,
		Health:    300,
		Steps:     6,
		Evaluated: 2,
		Order:     []grid.Cell{grid.At(0, 0), grid.At(4, 0)},
		Path:      grid.Path{grid.At(1, 0), grid.At(0, 0), grid.At(1, 0)},
	}
	id, err := s.SaveRun(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.Run(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, in.Maze, got.Maze)
	assert.True(t, created.Equal(got.CreatedAt), "created_at %v", got.CreatedAt)
	assert.Equal(t, in.Status, got.Status)
	assert.Equal(t, in.Score, got.Score)
	assert.Equal(t, in.Health, got.Health)
	assert.Equal(t, in.Steps, got.Steps)
	assert.Equal(t, in.Evaluated, got.Evaluated)
	assert.Equal(t, in.Order, got.Order)
	assert.Equal(t, in.Path, got.Path)
}

func TestStore_RunNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Run(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestStore_SaveRunKeepsGivenID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, store.Run{ID: "fixed", Maze: "m", Status: store.StatusNoPath})
	require.NoError(t, err)
	assert.Equal(t, "fixed", id)

	_, err = s.SaveRun(ctx, store.Run{ID: "fixed", Maze: "m", Status: store.StatusNoPath})
	assert.Error(t, err, "ids are unique")

	got, err := s.Run(ctx, "fixed")
	require.NoError(t, err)
	assert.Empty(t, got.Order)
	assert.Empty(t, got.Path)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_Recent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.SaveRun(ctx, store.Run{
			Maze:      fmt.Sprintf("maze-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Status:    store.StatusOK,
		})
		require.NoError(t, err)
	}

	runs, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "maze-4", runs[0].Maze)
	assert.Equal(t, "maze-3", runs[1].Maze)
	assert.Equal(t, "maze-2", runs[2].Maze)

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestStore_ReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	s, err := store.Open(path)
	require.NoError(t, err)
	id, err := s.SaveRun(ctx, store.Run{Maze: "m", Status: store.StatusOK, Score: 7})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = store.Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Run(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Score)
}

func TestNewRun(t *testing.T) {
	res := route.Result{Score: 10, Health: 5, Steps: 2, Evaluated: 1, Path: grid.Path{grid.At(0, 0)}}

	r, ok := store.NewRun("m", res, nil)
	require.True(t, ok)
	assert.Equal(t, store.StatusOK, r.Status)
	assert.Equal(t, int64(10), r.Score)

	r, ok = store.NewRun("m", route.Result{Evaluated: 6}, fmt.Errorf("wrap: %w", route.ErrNoSurvivableRoute))
	require.True(t, ok)
	assert.Equal(t, store.StatusNoSurvivableRoute, r.Status)
	assert.Equal(t, 6, r.Evaluated)
	assert.Zero(t, r.Score)

	r, ok = store.NewRun("m", route.Result{}, route.ErrNoGeometricPath)
	require.True(t, ok)
	assert.Equal(t, store.StatusNoPath, r.Status)

	_, ok = store.NewRun("m", route.Result{}, route.ErrTooManyObjectives)
	assert.False(t, ok)
}
