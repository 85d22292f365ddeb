// Package config loads tunable defaults for the operators package — the
// condition-number tolerance used to flag an ill-conditioned
// InvertibleOperator solve, the workspace pool's size-class granularity, and
// the default rank cutoff for SVD-based least-squares solves — from YAML,
// mirroring the config/asset loading convention of katalvlaran-lvlath,
// itohio-EasyRobot, and gazed-vu (all built on gopkg.in/yaml.v3).
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds tunable defaults for the operators package.
type Config struct {
	// ConditionTolerance is the condition-number threshold above which an
	// InvertibleOperator solve logs an ill-conditioning warning. The solve
	// still succeeds, and IsSuccess is not affected.
	ConditionTolerance float64 `yaml:"condition_tolerance"`

	// PoolMinClassElems is the smallest size class, in float64 elements,
	// the workspace pool allocates; requests smaller than this still
	// receive a buffer of this size, bounding pool fragmentation.
	PoolMinClassElems int `yaml:"pool_min_class_elems"`

	// DefaultSVDRank is the rank cutoff used by the svd factorization
	// entry point when the caller does not specify one explicitly (0
	// means "full rank").
	DefaultSVDRank int `yaml:"default_svd_rank"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ConditionTolerance: 1e8,
		PoolMinClassElems:  64,
		DefaultSVDRank:     0,
	}
}

// Load reads a YAML file at path and overlays its fields onto Default,
// leaving fields the file omits at their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
