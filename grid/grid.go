package grid

import "fmt"

// New constructs a Grid from a non-empty, rectangular 2D slice of raw values
// (values[y][x]). ValueOpen and ValueBridge become Open, ValueWall becomes
// Blocked. Returns ErrEmptyGrid, ErrNonRectangular or ErrUnknownCell.
// Complexity: O(W×H) time and memory.
func New(values [][]int) (*Grid, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(values), len(values[0])
	for _, row := range values {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
	}
	g := &Grid{Width: w, Height: h, cells: make([]State, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch values[y][x] {
			case ValueOpen, ValueBridge:
				g.cells[g.index(x, y)] = Open
			case ValueWall:
				g.cells[g.index(x, y)] = Blocked
			default:
				return nil, fmt.Errorf("%w: %d at %v", ErrUnknownCell, values[y][x], At(x, y))
			}
		}
	}

	return g, nil
}

// NewOpen returns a width×height grid with every cell Open.
// Non-positive dimensions yield an empty grid that contains no cells.
func NewOpen(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		return &Grid{}
	}

	return &Grid{Width: width, Height: height, cells: make([]State, width*height)}
}

// InBounds reports whether c lies within the grid boundaries.
// Complexity: O(1).
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// IsBlocked reports whether c is Blocked. Out-of-bounds cells count as blocked.
func (g *Grid) IsBlocked(c Cell) bool {
	if !g.InBounds(c) {
		return true
	}

	return g.cells[g.index(c.X, c.Y)] == Blocked
}

// State returns the state of c. Out-of-bounds cells report Blocked.
func (g *Grid) State(c Cell) State {
	if g.IsBlocked(c) {
		return Blocked
	}

	return Open
}

// Open marks c as walkable. Out-of-bounds cells are ignored.
func (g *Grid) Open(c Cell) {
	if g.InBounds(c) {
		g.cells[g.index(c.X, c.Y)] = Open
	}
}

// Block marks c as a wall. Out-of-bounds cells are ignored.
func (g *Grid) Block(c Cell) {
	if g.InBounds(c) {
		g.cells[g.index(c.X, c.Y)] = Blocked
	}
}

// Clone returns a deep copy of g that can be mutated independently.
// Complexity: O(W×H).
func (g *Grid) Clone() *Grid {
	cells := make([]State, len(g.cells))
	copy(cells, g.cells)

	return &Grid{Width: g.Width, Height: g.Height, cells: cells}
}

// Moves returns the in-bounds orthogonal neighbours that may be reached from c
// in a single step, honouring any bridge restriction on c. Blocked neighbours
// are included; deciding whether a blocked cell can be entered is up to the
// caller. Order: N, E, S, W (bridge cells keep the order of their axis).
func (g *Grid) Moves(c Cell, bridges Bridges) []Cell {
	out := make([]Cell, 0, 4)
	if axis, ok := bridges.AxisAt(c); ok {
		for _, d := range axisOffsets[axis] {
			if n := c.Add(d[0], d[1]); g.InBounds(n) {
				out = append(out, n)
			}
		}

		return out
	}
	for _, d := range moveOffsets {
		if n := c.Add(d[0], d[1]); g.InBounds(n) {
			out = append(out, n)
		}
	}

	return out
}

// Rows renders g back into the raw encoding (ValueOpen / ValueWall).
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.Height)
	for y := 0; y < g.Height; y++ {
		rows[y] = make([]int, g.Width)
		for x := 0; x < g.Width; x++ {
			if g.cells[g.index(x, y)] == Blocked {
				rows[y][x] = ValueWall
			}
		}
	}

	return rows
}

// index maps (x,y) to a row-major index: y*Width + x.
func (g *Grid) index(x, y int) int {
	return y*g.Width + x
}

// Coordinate converts a row-major index back to a Cell.
func (g *Grid) Coordinate(idx int) Cell {
	return Cell{X: idx % g.Width, Y: idx / g.Width}
}
