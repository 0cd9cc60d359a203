// Package route plans a survivable tour of a maze: start, every objective
// (gem) in some order, then the exit.
//
// What:
//
//   - Plan enumerates every ordering of the objectives in lexicographic index
//     order, chains one pathfind.FindBestPath call per leg, and keeps the
//     ordering with the best final score.
//   - Health carries over from leg to leg. Every hostile on a finished leg's
//     path is cleared: removed from the registry and its cell opened. The
//     cleared state lives only inside the ordering that caused it; each
//     ordering starts from its own deep copy of the grid and registry.
//   - A leg that cannot be survived discards the whole ordering.
//
// Final score:
//
//	objectives × Gem + health × Health − steps × Step   (reference 1000 / 8 / 50)
//
// Ties keep the earlier ordering, so sequential and parallel runs agree.
//
// Scalability:
//
//   - Orderings grow as n!. The default cap is MaxObjectives = 8 (40 320
//     orderings); larger sets fail fast with ErrTooManyObjectives unless the
//     cap is raised explicitly. There is no pruning: results are exactly those
//     of exhaustive enumeration.
//
// Options:
//
//   - WithWorkers(n): evaluate orderings on n goroutines (errgroup); each
//     worker owns private copies of mutable state.
//   - WithLegCache(true): memoize legs keyed by (from, to, health, cleared
//     hostiles); identical in-flight lookups are coalesced (singleflight).
//   - WithMaxPermutations(n): evaluate at most n orderings (Result.Truncated).
//   - WithWeights, WithPathOptions, WithMaxObjectives, WithLogger.
//
// Errors:
//
//   - ErrInvalidEndpoint:    a stop is out of bounds or walled without a hostile.
//   - ErrDuplicateObjective: the same objective cell listed twice.
//   - ErrTooManyObjectives:  more objectives than MaxObjectives.
//   - ErrNoSurvivableRoute:  every ordering dies or dead-ends on some leg,
//     although a route exists when health is ignored.
//   - ErrNoGeometricPath:    no ordering is connected even ignoring health.
//   - context errors on cancellation.
package route
