package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Rules holds the tunable game rules. Zero values fall back to the defaults.
type Rules struct {
	BaseSize        int           `yaml:"base_size"`        // Grid side before the per-stage increment
	SizeIncrement   int           `yaml:"size_increment"`   // Grid side added per stage
	TorchBase       int           `yaml:"torch_base"`       // Reveal radius while moving
	TorchMax        int           `yaml:"torch_max"`        // Reveal radius cap while idle
	IdleThreshold   int           `yaml:"idle_threshold"`   // Idle ticks before the torch grows
	PursuitInterval time.Duration `yaml:"pursuit_interval"` // Time between monster steps
	IdleInterval    time.Duration `yaml:"idle_interval"`    // Time between idle checks
	Seed            int64         `yaml:"seed"`             // Maze seed, 0 for random
}

// DefaultRules returns the standard rules.
func DefaultRules() Rules {
	return Rules{
		BaseSize:        10,
		SizeIncrement:   2,
		TorchBase:       2,
		TorchMax:        5,
		IdleThreshold:   3,
		PursuitInterval: 500 * time.Millisecond,
		IdleInterval:    time.Second,
	}
}

// LoadRules reads rules from a YAML file. An empty path yields the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("reading rules file: %w", err)
	}

	var loaded Rules
	if err := yaml.Unmarshal(b, &loaded); err != nil {
		return rules, fmt.Errorf("parsing rules file: %w", err)
	}

	return rules.merge(loaded), nil
}

// merge overrides every non-zero field of o onto r.
func (r Rules) merge(o Rules) Rules {
	if o.BaseSize != 0 {
		r.BaseSize = o.BaseSize
	}
	if o.SizeIncrement != 0 {
		r.SizeIncrement = o.SizeIncrement
	}
	if o.TorchBase != 0 {
		r.TorchBase = o.TorchBase
	}
	if o.TorchMax != 0 {
		r.TorchMax = o.TorchMax
	}
	if o.IdleThreshold != 0 {
		r.IdleThreshold = o.IdleThreshold
	}
	if o.PursuitInterval != 0 {
		r.PursuitInterval = o.PursuitInterval
	}
	if o.IdleInterval != 0 {
		r.IdleInterval = o.IdleInterval
	}
	if o.Seed != 0 {
		r.Seed = o.Seed
	}
	return r
}
