package pathfind_test

import (
	"fmt"

	"github.com/katalvlaran/mazeroute/grid"
	"github.com/katalvlaran/mazeroute/hostile"
	"github.com/katalvlaran/mazeroute/pathfind"
)

// ExampleFindBestPath walks a 3×3 room with no hostiles: the shortest path
// wins because every step costs the same.
func ExampleFindBestPath() {
	g := grid.NewOpen(3, 3)

	res, err := pathfind.FindBestPath(g, grid.At(0, 0), grid.At(2, 2), 300, nil, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("steps=%d health=%d score=%d\n", res.Path.Steps(), res.Health, res.Score)
	// Output: steps=4 health=300 score=-200
}

// ExampleFindBestPath_fightThrough enters a wall cell guarded by a Ghost:
// the only way to the goal is through it (20 × 2 on entry, then 20 of
// proximity damage on the next step).
func ExampleFindBestPath_fightThrough() {
	g, _ := grid.New([][]int{{0, 1, 0}})
	h, _ := hostile.NewRegistry(nil, map[grid.Cell]hostile.Kind{
		grid.At(1, 0): hostile.Ghost,
	})

	res, err := pathfind.FindBestPath(g, grid.At(0, 0), grid.At(2, 0), 300, nil, h)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Path, res.Health)
	// Output: [(0,0) (1,0) (2,0)] 240
}
