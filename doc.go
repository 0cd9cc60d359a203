// Package mazeroute plans survivable routes through grid mazes guarded by
// hostiles: the traveler starts at one cell, collects every gem in whatever
// order scores best, and leaves through the exit with health to spare.
//
// What is in the module?
//
//	grid/      cells, raw grid decoding, bridge axes, paths
//	hostile/   hostile kinds, the stat table and per-ordering registries
//	scoring/   move and route score weights (reference 1000 / 8 / 50)
//	pathfind/  max-score Dijkstra for one leg, with contact and proximity damage
//	reach/     damage-free BFS reachability over the same moves
//	route/     exhaustive gem orderings, hostile clearing, parallel evaluation
//	mazefile/  YAML maze descriptions (top-left or Unity bottom-left origin)
//	config/    YAML run configuration over reference defaults
//	store/     SQLite history of planner runs
//	cmd/mazeroute  the command-line front end
//
// Quick ASCII example:
//
//	S . g . #
//	. B # . .
//	. . . . E
//
// S is the start, g a gem, B a Bat and E the exit. Every cell next to B
// costs health, so the planner weighs a detour around it against the
// damage of walking past.
//
//	go install github.com/katalvlaran/mazeroute/cmd/mazeroute@latest
package mazeroute
