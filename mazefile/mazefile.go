// Package mazefile reads maze descriptions written in YAML and turns them
// into route.Problem values.
//
// A description lists the raw grid top-down (0 open, 1 wall, 2 bridge
// marker), the start and exit, gem cells, hostiles by kind label and bridge
// axes. Coordinates are [x, y]. With origin "bottom-left" y counts upwards
// from the last row, as maze exports from Unity do; the default "top-left"
// uses row indexes directly.
package mazefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mazeroute/grid"
	"github.com/katalvlaran/mazeroute/hostile"
	"github.com/katalvlaran/mazeroute/route"
)

var (
	// ErrMissingField indicates a required key is absent.
	ErrMissingField = errors.New("mazefile: missing field")

	// ErrBadCoordinate indicates a malformed or out-of-bounds [x, y] pair.
	ErrBadCoordinate = errors.New("mazefile: bad coordinate")

	// ErrBadAxis indicates an unknown bridge axis label.
	ErrBadAxis = errors.New("mazefile: bad bridge axis")

	// ErrBadOrigin indicates an origin other than top-left or bottom-left.
	ErrBadOrigin = errors.New("mazefile: bad origin")
)

// Coordinate origins.
const (
	OriginTopLeft    = "top-left"
	OriginBottomLeft = "bottom-left"
)

// Point is an [x, y] pair as written in the file.
type Point []int

// Hostile places one hostile of the given kind.
type Hostile struct {
	At   Point  `yaml:"at"`
	Kind string `yaml:"kind"`
}

// Bridge restricts movement on one cell. Axis is NS/vertical or EW/horizontal.
type Bridge struct {
	At   Point  `yaml:"at"`
	Axis string `yaml:"axis"`
}

// Maze is a decoded description.
type Maze struct {
	Name     string    `yaml:"name"`
	Origin   string    `yaml:"origin"`
	Grid     [][]int   `yaml:"grid"`
	Start    Point     `yaml:"start"`
	Exit     Point     `yaml:"exit"`
	Gems     []Point   `yaml:"gems"`
	Hostiles []Hostile `yaml:"hostiles"`
	Bridges  []Bridge  `yaml:"bridges"`
}

// Load reads and parses the file at path.
func Load(path string) (*Maze, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read maze: %w", err)
	}

	return Parse(data)
}

// Parse decodes a description held in memory.
func Parse(data []byte) (*Maze, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one description from r. Unknown keys are rejected.
func Decode(r io.Reader) (*Maze, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Maze
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrMissingField)
		}
		return nil, fmt.Errorf("decode maze: %w", err)
	}
	if err := m.check(); err != nil {
		return nil, err
	}

	return &m, nil
}

// check validates what can be validated without building the grid.
func (m *Maze) check() error {
	switch {
	case len(m.Grid) == 0:
		return fmt.Errorf("%w: grid", ErrMissingField)
	case m.Start == nil:
		return fmt.Errorf("%w: start", ErrMissingField)
	case m.Exit == nil:
		return fmt.Errorf("%w: exit", ErrMissingField)
	}
	switch m.Origin {
	case "":
		m.Origin = OriginTopLeft
	case OriginTopLeft, OriginBottomLeft:
	default:
		return fmt.Errorf("%w: %q", ErrBadOrigin, m.Origin)
	}
	for i, h := range m.Hostiles {
		if h.Kind == "" {
			return fmt.Errorf("%w: hostiles[%d].kind", ErrMissingField, i)
		}
	}

	return nil
}

// Problem builds a planning problem. A nil table means hostile.DefaultStats.
func (m *Maze) Problem(table hostile.Table, health int64) (route.Problem, error) {
	g, err := grid.New(m.Grid)
	if err != nil {
		return route.Problem{}, err
	}

	start, err := m.cell(g, m.Start, "start")
	if err != nil {
		return route.Problem{}, err
	}
	exit, err := m.cell(g, m.Exit, "exit")
	if err != nil {
		return route.Problem{}, err
	}

	gems := make([]grid.Cell, 0, len(m.Gems))
	for i, p := range m.Gems {
		c, err := m.cell(g, p, fmt.Sprintf("gems[%d]", i))
		if err != nil {
			return route.Problem{}, err
		}
		gems = append(gems, c)
	}

	placements := make(map[grid.Cell]hostile.Kind, len(m.Hostiles))
	for i, h := range m.Hostiles {
		c, err := m.cell(g, h.At, fmt.Sprintf("hostiles[%d]", i))
		if err != nil {
			return route.Problem{}, err
		}
		if _, dup := placements[c]; dup {
			return route.Problem{}, fmt.Errorf("%w: two hostiles at %v", ErrBadCoordinate, c)
		}
		placements[c] = hostile.Kind(h.Kind)
	}
	reg, err := hostile.NewRegistry(table, placements)
	if err != nil {
		return route.Problem{}, err
	}

	var bridges grid.Bridges
	if len(m.Bridges) > 0 {
		bridges = make(grid.Bridges, len(m.Bridges))
	}
	for i, b := range m.Bridges {
		c, err := m.cell(g, b.At, fmt.Sprintf("bridges[%d]", i))
		if err != nil {
			return route.Problem{}, err
		}
		a, err := ParseAxis(b.Axis)
		if err != nil {
			return route.Problem{}, err
		}
		bridges[c] = a
	}

	return route.Problem{
		Grid:       g,
		Start:      start,
		Exit:       exit,
		Objectives: gems,
		Health:     health,
		Bridges:    bridges,
		Hostiles:   reg,
	}, nil
}

// cell converts a file coordinate to a grid cell, flipping y for
// bottom-left origins.
func (m *Maze) cell(g *grid.Grid, p Point, field string) (grid.Cell, error) {
	if len(p) != 2 {
		return grid.Cell{}, fmt.Errorf("%w: %s has %d components", ErrBadCoordinate, field, len(p))
	}
	c := grid.At(p[0], p[1])
	if m.Origin == OriginBottomLeft {
		c.Y = g.Height - 1 - c.Y
	}
	if !g.InBounds(c) {
		return grid.Cell{}, fmt.Errorf("%w: %s %v outside %dx%d", ErrBadCoordinate, field, []int(p), g.Width, g.Height)
	}

	return c, nil
}

// ParseAxis maps a bridge label to an axis. NS and vertical allow north and
// south moves; EW and horizontal allow east and west.
func ParseAxis(s string) (grid.Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ns", "sn", "vertical", "v":
		return grid.Vertical, nil
	case "ew", "we", "horizontal", "h":
		return grid.Horizontal, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrBadAxis, s)
}
