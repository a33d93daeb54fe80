// Package config carries the engine's tunable surface: iteration bounds,
// acceptance threshold, and sampling budgets.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Config is the analysis configuration, loadable from YAML.
type Config struct {
	// MaxIterations bounds the controller's re-analysis loop.
	MaxIterations int `yaml:"max_iterations" validate:"min=1,max=100"`

	// AcceptanceThreshold is the plausibility score at or above which the
	// controller stops with reason acceptable_quality.
	AcceptanceThreshold float64 `yaml:"acceptance_threshold" validate:"gte=0,lte=1"`

	// SamplingBudget is the number of initial states the first pass tries;
	// later passes double it.
	SamplingBudget int `yaml:"sampling_budget" validate:"min=1"`

	// ExhaustiveThreshold is the node count at or below which the full
	// 2^n state space is enumerated instead of sampled.
	ExhaustiveThreshold int `yaml:"exhaustive_threshold" validate:"min=0,max=24"`

	// StepLimit bounds a single trajectory; exceeding it is a defect.
	StepLimit int `yaml:"step_limit" validate:"min=1"`

	// Seed fixes the pseudo-random sampler for reproducible runs.
	Seed int64 `yaml:"seed"`

	// Workers caps simulation parallelism; 0 means single-threaded.
	Workers int `yaml:"workers" validate:"min=0,max=1024"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		MaxIterations:       3,
		AcceptanceThreshold: 0.9,
		SamplingBudget:      10,
		ExhaustiveThreshold: 10,
		StepLimit:           2048,
		Seed:                42,
		Workers:             4,
	}
}

// Load reads a YAML config file over the defaults. Missing fields keep their
// default values; zero-valued required fields are then rejected by Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct tags plus cross-field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("config.%s: failed %q constraint (value %v)", e.Field(), e.Tag(), e.Value())
		}
		return fmt.Errorf("config: %w", err)
	}

	// The step limit must leave room for the exhaustive state space,
	// otherwise small-network passes would be reported as defects.
	if c.StepLimit < (1<<uint(c.ExhaustiveThreshold))+1 {
		return fmt.Errorf("config.StepLimit: %d cannot cover 2^%d exhaustive states",
			c.StepLimit, c.ExhaustiveThreshold)
	}
	return nil
}
