// Package scoring holds the composite-score policy shared by the pathfinder
// and the route planner.
//
// Two formulas use the same weights:
//
//   - MoveScore: the score change of one move, −(damage × Health) − Step.
//     Always ≤ −Step < 0 for valid weights, which keeps the max-score
//     Dijkstra search monotone.
//   - Final: the route score, objectives × Gem + health × Health − steps × Step.
//
// The reference weights (Gem=1000, Health=8, Step=50) encode how much detour
// is worth avoiding one point of damage. Changing them changes which routes
// win, so callers should treat a non-reference policy as a behaviour change.
package scoring

import (
	"errors"
	"fmt"
)

// ErrBadWeights indicates a negative weight or a non-positive step weight.
var ErrBadWeights = errors.New("scoring: weights must be non-negative and Step must be positive")

// Reference weight values.
const (
	DefaultGemWeight    int64 = 1000
	DefaultHealthWeight int64 = 8
	DefaultStepWeight   int64 = 50
)

// Weights configures the composite score.
type Weights struct {
	Gem    int64 `yaml:"gem" json:"gem"`
	Health int64 `yaml:"health" json:"health"`
	Step   int64 `yaml:"step" json:"step"`
}

// Reference returns the reference weights.
func Reference() Weights {
	return Weights{
		Gem:    DefaultGemWeight,
		Health: DefaultHealthWeight,
		Step:   DefaultStepWeight,
	}
}

// Validate returns ErrBadWeights when w cannot drive a monotone search.
func (w Weights) Validate() error {
	if w.Gem < 0 || w.Health < 0 || w.Step <= 0 {
		return fmt.Errorf("%w: gem=%d health=%d step=%d", ErrBadWeights, w.Gem, w.Health, w.Step)
	}

	return nil
}

// MoveScore returns the score delta of a single move that inflicts damage.
func (w Weights) MoveScore(damage int64) int64 {
	return -(damage * w.Health) - w.Step
}

// Final returns the score of a complete route.
func (w Weights) Final(objectives int, health int64, steps int) int64 {
	return int64(objectives)*w.Gem + health*w.Health - int64(steps)*w.Step
}
