package route

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mazeroute/grid"
	"github.com/katalvlaran/mazeroute/pathfind"
)

func TestLegKey(t *testing.T) {
	a := legKey(grid.At(0, 0), grid.At(2, 1), 300, nil)
	b := legKey(grid.At(0, 0), grid.At(2, 1), 280, nil)
	c := legKey(grid.At(0, 0), grid.At(2, 1), 300, []grid.Cell{grid.At(1, 1)})
	assert.NotEqual(t, a, b, "health is part of the key")
	assert.NotEqual(t, a, c, "cleared hostiles are part of the key")

	x := legKey(grid.At(0, 0), grid.At(2, 1), 300, sortedCells([]grid.Cell{grid.At(3, 0), grid.At(1, 2)}))
	y := legKey(grid.At(0, 0), grid.At(2, 1), 300, sortedCells([]grid.Cell{grid.At(1, 2), grid.At(3, 0)}))
	assert.Equal(t, x, y, "clearing order does not matter")
}

func TestLegCache_MemoizesSuccessAndFailure(t *testing.T) {
	c := newLegCache()
	calls := 0
	ok := func() (pathfind.Result, error) {
		calls++
		return pathfind.Result{Health: 10}, nil
	}
	for i := 0; i < 3; i++ {
		res, err := c.get("ok", ok)
		require.NoError(t, err)
		assert.Equal(t, int64(10), res.Health)
	}
	assert.Equal(t, 1, calls)

	dead := func() (pathfind.Result, error) {
		calls++
		return pathfind.Result{}, fmt.Errorf("%w: test", pathfind.ErrUnreachable)
	}
	for i := 0; i < 2; i++ {
		_, err := c.get("dead", dead)
		assert.ErrorIs(t, err, pathfind.ErrUnreachable)
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(2), c.searches.Load())
	assert.Equal(t, int64(3), c.hits.Load())
}

func TestLegCache_DoesNotStoreContextErrors(t *testing.T) {
	c := newLegCache()
	calls := 0
	cancelled := func() (pathfind.Result, error) {
		calls++
		return pathfind.Result{}, context.Canceled
	}
	_, err := c.get("k", cancelled)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = c.get("k", cancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}

func TestLegCache_Concurrent(t *testing.T) {
	c := newLegCache()
	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			res, err := c.get(key, func() (pathfind.Result, error) {
				<-release
				return pathfind.Result{Score: int64(i % 4)}, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, int64(i%4), res.Score)
		}(i)
	}
	close(release)
	wg.Wait()
	assert.LessOrEqual(t, c.searches.Load(), int64(16))
	assert.GreaterOrEqual(t, c.searches.Load(), int64(4))
	// Every lookup is either a search or a hit, shared in-flight results included.
	assert.Equal(t, int64(16), c.searches.Load()+c.hits.Load())
}
