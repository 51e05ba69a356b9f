// Package config implements the typed configuration surface of spec.md §6,
// replacing the teacher's ad-hoc dictionary idiom with a validated record
// (spec.md §9 design note "Dynamic typing of configuration"). Validation
// uses struct tags via go-playground/validator, the library the Navigatorx
// and AleutianLocal repositories in the retrieval pack both depend on for
// the same purpose; file loading is a thin gopkg.in/yaml.v3 unmarshal.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/continuum-robotics/ccbs/internal/hvalue"
)

// Config is the spec.md §6 configuration surface, plus StepLimit. The
// branching policy is not a field here: a Scorer is a live implementation,
// not serializable, and is set programmatically on cbs.Config.Scorer.
type Config struct {
	AgentSize                 float64 `yaml:"agent_size" validate:"gt=0,lte=0.5"`
	Precision                 float64 `yaml:"precision" validate:"gt=0"`
	TimeLimitSeconds          float64 `yaml:"timelimit" validate:"gt=0"`
	HLHType                   int     `yaml:"hlh_type" validate:"gte=0,lte=2"`
	UsePrecalculatedHeuristic bool    `yaml:"use_precalculated_heuristic"`
	UseDisjointSplitting      bool    `yaml:"use_disjoint_splitting"`
	UseCardinal               bool    `yaml:"use_cardinal"`
	UseCorridorSymmetry       bool    `yaml:"use_corridor_symmetry"`
	UseTargetSymmetry         bool    `yaml:"use_target_symmetry"`
	StepLimit                 int     `yaml:"step_limit" validate:"gte=0"`
}

// Default returns a Config matching the spec's recommended safe defaults:
// no symmetry breaking, no h-value, a generous wall-clock budget.
func Default() Config {
	return Config{
		AgentSize:        0.3,
		Precision:        1e-6,
		TimeLimitSeconds: 30,
		HLHType:          int(hvalue.TypeNone),
	}
}

var validate = validator.New()

// Validate rejects an out-of-range or unknown-shaped configuration before
// a search starts (spec.md §7 InvalidInput).
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads a YAML file into a Config and validates it. Unknown fields in
// the file are rejected (spec.md §9 "Unknown fields are rejected").
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// HValueType converts the stored int into the hvalue package's enum.
func (c Config) HValueType() hvalue.Type { return hvalue.Type(c.HLHType) }
