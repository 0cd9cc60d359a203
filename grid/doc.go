// Package grid models a rectangular maze as a set of walkable and blocked
// cells, plus "bridge" cells that restrict movement to a single axis.
//
// What:
//
//   - Cell is a (column, row) value type; (0,0) is the top-left cell.
//   - Grid stores one State (Open or Blocked) per cell in row-major order.
//   - Bridges maps a Cell to an Axis; moves leaving a bridge cell are limited
//     to the two directions along that axis.
//   - Path is an ordered, orthogonally contiguous sequence of cells.
//
// Why:
//
//   - The pathfinder needs O(1) bounds and blocked checks in its hot loop.
//   - The route planner mutates private copies (Clone + Open) between legs
//     when hostiles standing on blocked cells are cleared.
//
// Raw input values (New):
//
//   - 0 (ValueOpen):   walkable cell.
//   - 1 (ValueWall):   blocked cell.
//   - 2 (ValueBridge): walkable cell that carries a bridge marker; the axis
//     itself is supplied separately through Bridges.
//
// Complexity:
//
//   - New, Clone: O(W×H) time and memory.
//   - InBounds, IsBlocked, Open, Block: O(1).
//   - Moves: O(1), at most four candidates.
//
// Errors:
//
//   - ErrEmptyGrid: input has no rows or no columns.
//   - ErrNonRectangular: rows have differing lengths.
//   - ErrUnknownCell: a raw value outside {0,1,2}.
//
// Thread safety:
//
//   - A Grid is safe for concurrent reads. Mutations (Open, Block) must be
//     confined to a private copy obtained through Clone.
package grid
