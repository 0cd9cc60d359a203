// Package config holds the run configuration of the planner: starting
// health, score weights, the hostile stat table and search limits.
//
// Config files are YAML. Load overlays a file onto Default, so a file only
// needs the keys it changes. A hostile listed in the file replaces that
// kind's stats entirely; give both damage and freq.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mazeroute/hostile"
	"github.com/katalvlaran/mazeroute/pathfind"
	"github.com/katalvlaran/mazeroute/route"
	"github.com/katalvlaran/mazeroute/scoring"
)

var (
	// ErrBadWeights is scoring.ErrBadWeights, returned for unusable weights.
	ErrBadWeights = scoring.ErrBadWeights

	// ErrInvalid indicates any other out-of-range value.
	ErrInvalid = errors.New("config: invalid value")
)

// DefaultStartHealth is the traveler's health at the start cell.
const DefaultStartHealth int64 = 300

// Config holds run settings.
type Config struct {
	StartHealth int64           `yaml:"start_health"`
	Weights     scoring.Weights `yaml:"weights"`
	Hostiles    hostile.Table   `yaml:"hostiles"`

	// MaxObjectives caps the gem count; 0 removes the cap.
	MaxObjectives int `yaml:"max_objectives"`
	// Workers evaluating orderings; 0 means one per CPU.
	Workers int `yaml:"workers"`
	// LegCache memoizes identical legs across orderings.
	LegCache bool `yaml:"leg_cache"`
	// MaxExpansions caps every leg search; 0 means no cap.
	MaxExpansions int `yaml:"max_expansions"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		StartHealth:   DefaultStartHealth,
		Weights:       scoring.Reference(),
		Hostiles:      hostile.DefaultStats(),
		MaxObjectives: route.DefaultMaxObjectives,
		Workers:       1,
		LegCache:      true,
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Parse is Load for in-memory documents.
func Parse(data []byte) (Config, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one YAML document from r over Default. An empty document
// yields Default.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first unusable value.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.StartHealth <= 0 {
		return fmt.Errorf("%w: start_health=%d", ErrInvalid, c.StartHealth)
	}
	for k, s := range c.Hostiles {
		if s.BaseDamage <= 0 || s.Frequency <= 0 {
			return fmt.Errorf("%w: hostile %s damage=%d freq=%d", ErrInvalid, k, s.BaseDamage, s.Frequency)
		}
	}
	switch {
	case c.MaxObjectives < 0:
		return fmt.Errorf("%w: max_objectives=%d", ErrInvalid, c.MaxObjectives)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers=%d", ErrInvalid, c.Workers)
	case c.MaxExpansions < 0:
		return fmt.Errorf("%w: max_expansions=%d", ErrInvalid, c.MaxExpansions)
	}

	return nil
}

// RouteOptions translates c into planner options.
func (c Config) RouteOptions(logger log.FieldLogger) []route.Option {
	workers := c.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	opts := []route.Option{
		route.WithWeights(c.Weights),
		route.WithWorkers(workers),
		route.WithLegCache(c.LegCache),
		route.WithMaxObjectives(c.MaxObjectives),
		route.WithLogger(logger),
	}
	if c.MaxExpansions > 0 {
		opts = append(opts, route.WithPathOptions(pathfind.WithMaxExpansions(c.MaxExpansions)))
	}

	return opts
}
