// Package pathfind implements a resource-constrained variant of Dijkstra's
// algorithm on a maze grid: instead of minimizing distance it maximizes a
// composite score, while tracking the traveler's remaining health.
//
// Overview:
//
//   - Search state per cell: best score, the health that path leaves, and the
//     predecessor cell. Health rides along with the score; it is not part of
//     the frontier key.
//   - The frontier is a max-heap on score. Every move costs at least the step
//     weight, so scores only decrease along a path and the first time a cell is
//     popped its score is final (the Dijkstra argument with score as negated
//     distance).
//   - Moves into blocked cells are allowed only when a hostile stands there
//     ("fighting through"). Bridge cells restrict the moves that leave them to
//     one axis.
//   - Any move that would drop health to zero or below is discarded.
//
// Damage of entering a cell c:
//
//   - hostile on c:                       BaseDamage × Frequency
//   - every other hostile in the 3×3 box
//     centred on c (c excluded):         BaseDamage
//
// Score of a move: −(damage × Weights.Health) − Weights.Step.
//
// Ties:
//
//   - Equal scores pop in (X, Y, health) ascending order, then by insertion.
//     Results are fully deterministic for identical inputs.
//
// Complexity:
//
//   - Time:  O(C log C) for C = W×H cells (each cell has at most 4 edges).
//   - Space: O(C) for the per-cell arrays plus O(C) stale heap entries under
//     the lazy decrease-key strategy.
//
// Errors (sentinel):
//
//   - ErrNilGrid:           nil *grid.Grid.
//   - ErrNonPositiveHealth: starting health ≤ 0.
//   - ErrInvalidEndpoint:   start or goal out of bounds, or blocked without a
//     hostile on it.
//   - ErrUnreachable:       frontier exhausted; the goal is disconnected or
//     every path to it kills the traveler.
//   - ErrExpansionLimit:    WithMaxExpansions cap hit before reaching the goal.
//   - scoring.ErrBadWeights: weights that break monotonicity.
//
// Thread safety:
//
//   - FindBestPath only reads its inputs; concurrent calls over the same grid
//     and registry are safe as long as nobody mutates them.
package pathfind
