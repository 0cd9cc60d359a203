// Package hostile describes the entities that occupy maze cells and hurt the
// traveler, and the registry that tracks where they stand.
//
// A Registry maps a grid.Cell to a Kind and resolves each Kind against an
// immutable stat Table. Entries are only ever removed: the route planner owns
// a private copy per permutation and clears hostiles it walks through, the
// pathfinder only reads it.
//
// Complexity:
//
//   - HostileAt, Remove: O(1).
//   - Clone: O(n), Cells: O(n log n) for n hostiles.
package hostile

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/mazeroute/grid"
)

// ErrUnknownKind indicates a placement references a kind missing from the table.
var ErrUnknownKind = errors.New("hostile: unknown kind")

// Kind labels a hostile entity type, e.g. "Bat" or "Dragon".
type Kind string

// Reference kinds.
const (
	Bat            Kind = "Bat"
	Ghost          Kind = "Ghost"
	SkeletonArcher Kind = "SkeletonArcher"
	Skeleton       Kind = "Skeleton"
	SkeletonKnight Kind = "SkeletonKnight"
	Plant          Kind = "Plant"
	DeathKnight    Kind = "DeathKnight"
	Golem          Kind = "Golem"
	Cactus         Kind = "Cactus"
	Dragon         Kind = "Dragon"
)

// Stats are the immutable combat figures of a Kind.
type Stats struct {
	BaseDamage int64 `yaml:"damage" json:"damage"`
	Frequency  int64 `yaml:"freq" json:"freq"`
}

// HitDamage is the damage of fighting through the hostile's own cell.
func (s Stats) HitDamage() int64 {
	return s.BaseDamage * s.Frequency
}

// Table maps each Kind to its Stats.
type Table map[Kind]Stats

// DefaultStats returns a fresh copy of the reference stat table.
func DefaultStats() Table {
	return Table{
		Bat:            {BaseDamage: 20, Frequency: 1},
		Ghost:          {BaseDamage: 20, Frequency: 2},
		SkeletonArcher: {BaseDamage: 20, Frequency: 2},
		Skeleton:       {BaseDamage: 20, Frequency: 2},
		SkeletonKnight: {BaseDamage: 20, Frequency: 2},
		Plant:          {BaseDamage: 30, Frequency: 1},
		DeathKnight:    {BaseDamage: 30, Frequency: 2},
		Golem:          {BaseDamage: 30, Frequency: 2},
		Cactus:         {BaseDamage: 20, Frequency: 3},
		Dragon:         {BaseDamage: 60, Frequency: 1},
	}
}

// Entity is a resolved hostile: its kind and stats.
type Entity struct {
	Kind  Kind
	Stats Stats
}

// Registry maps cells to the hostiles standing on them.
// It is not safe for concurrent mutation; clone it per goroutine.
type Registry struct {
	at map[grid.Cell]Entity
}

// NewRegistry resolves placements against table. A nil table means
// DefaultStats. Returns ErrUnknownKind for a kind the table does not list.
func NewRegistry(table Table, placements map[grid.Cell]Kind) (*Registry, error) {
	if table == nil {
		table = DefaultStats()
	}
	r := &Registry{at: make(map[grid.Cell]Entity, len(placements))}
	for c, k := range placements {
		s, ok := table[k]
		if !ok {
			return nil, fmt.Errorf("%w: %q at %v", ErrUnknownKind, k, c)
		}
		r.at[c] = Entity{Kind: k, Stats: s}
	}

	return r, nil
}

// NewEmpty returns a registry without hostiles.
func NewEmpty() *Registry {
	return &Registry{at: map[grid.Cell]Entity{}}
}

// Place puts an entity on c, replacing whatever stood there.
// Used while building a maze; planners never add hostiles.
func (r *Registry) Place(c grid.Cell, k Kind, s Stats) {
	r.at[c] = Entity{Kind: k, Stats: s}
}

// HostileAt returns the entity on c, if any. A nil registry holds nothing.
func (r *Registry) HostileAt(c grid.Cell) (Entity, bool) {
	if r == nil {
		return Entity{}, false
	}
	e, ok := r.at[c]

	return e, ok
}

// Remove clears the hostile on c. Removing an empty cell is a no-op.
func (r *Registry) Remove(c grid.Cell) {
	delete(r.at, c)
}

// Len returns the number of hostiles.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.at)
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	out := &Registry{at: make(map[grid.Cell]Entity, r.Len())}
	if r == nil {
		return out
	}
	for c, e := range r.at {
		out.at[c] = e
	}

	return out
}

// Cells returns the occupied cells, sorted by (X, Y).
func (r *Registry) Cells() []grid.Cell {
	if r == nil {
		return nil
	}
	cells := make([]grid.Cell, 0, len(r.at))
	for c := range r.at {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })

	return cells
}
