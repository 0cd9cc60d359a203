package grid

import (
	"errors"
	"fmt"
)

// Sentinel errors for grid construction.
var (
	// ErrEmptyGrid indicates input grid has no rows or no columns.
	ErrEmptyGrid = errors.New("grid: input grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("grid: all rows must have the same length")
	// ErrUnknownCell indicates a raw cell value outside the known encoding.
	ErrUnknownCell = errors.New("grid: unknown cell value")
)

// Raw cell encoding accepted by New.
const (
	ValueOpen   = 0
	ValueWall   = 1
	ValueBridge = 2
)

// State is the walkability of a single cell.
type State uint8

const (
	// Open cells can be entered freely.
	Open State = iota
	// Blocked cells can only be entered when a hostile stands on them.
	Blocked
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == Blocked {
		return "blocked"
	}

	return "open"
}

// Cell is a (column, row) coordinate. The zero value is the top-left cell.
type Cell struct {
	X, Y int
}

// At is shorthand for Cell{X: x, Y: y}.
func At(x, y int) Cell {
	return Cell{X: x, Y: y}
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Manhattan returns |dx| + |dy| between c and o.
func (c Cell) Manhattan(o Cell) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

// Adjacent reports whether o is exactly one orthogonal step away from c.
func (c Cell) Adjacent(o Cell) bool {
	return c.Manhattan(o) == 1
}

// Less orders cells lexicographically by X, then Y.
func (c Cell) Less(o Cell) bool {
	if c.X != o.X {
		return c.X < o.X
	}

	return c.Y < o.Y
}

// String implements fmt.Stringer as "(x,y)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}

// Axis is the single movement axis allowed on a bridge cell.
type Axis int

const (
	// Horizontal allows only east and west moves.
	Horizontal Axis = iota
	// Vertical allows only north and south moves.
	Vertical
)

// String implements fmt.Stringer.
func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}

	return "horizontal"
}

// Bridges maps a bridge cell to its allowed axis. A nil Bridges is valid and
// restricts nothing.
type Bridges map[Cell]Axis

// AxisAt returns the axis restriction of c, if any.
func (b Bridges) AxisAt(c Cell) (Axis, bool) {
	a, ok := b[c]

	return a, ok
}

// Path is an ordered sequence of cells from a start to a goal.
type Path []Cell

// Steps returns the number of transitions in p (len-1, or 0 for an empty path).
func (p Path) Steps() int {
	if len(p) == 0 {
		return 0
	}

	return len(p) - 1
}

// Contiguous reports whether every consecutive pair is orthogonally adjacent.
func (p Path) Contiguous() bool {
	for i := 1; i < len(p); i++ {
		if !p[i-1].Adjacent(p[i]) {
			return false
		}
	}

	return true
}

// Contains reports whether c appears anywhere in p.
func (p Path) Contains(c Cell) bool {
	for _, v := range p {
		if v == c {
			return true
		}
	}

	return false
}

// Join appends next to p, eliding next[0] when it duplicates the last cell of p.
func (p Path) Join(next Path) Path {
	if len(p) > 0 && len(next) > 0 && p[len(p)-1] == next[0] {
		next = next[1:]
	}
	out := make(Path, 0, len(p)+len(next))
	out = append(out, p...)

	return append(out, next...)
}

// Grid is a rectangular field of cell states stored in row-major order.
type Grid struct {
	Width, Height int
	cells         []State
}

// moveOffsets lists the four orthogonal moves: N, E, S, W.
var moveOffsets = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// axisOffsets lists the two moves allowed on each bridge axis.
var axisOffsets = map[Axis][2][2]int{
	Horizontal: {{1, 0}, {-1, 0}},
	Vertical:   {{0, -1}, {0, 1}},
}
