// Package config loads the Engine's bounds from a TOML file, following the
// same toml.NewDecoder().Decode shape the teacher uses in
// model.LoadSpecFromFile.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Config mirrors engine.New's parameters plus the tracestore wiring. An
// absent (nil) PreemptionBound or MaxExecutions means "unbounded", matching
// spec.md §6; an explicit 0 is an actual bound.
type Config struct {
	NumThreads      int     `toml:"num_threads"`
	PreemptionBound *uint32 `toml:"preemption_bound,omitempty"`
	MaxBranches     uint64  `toml:"max_branches,omitempty"`
	MaxExecutions   *uint64 `toml:"max_executions,omitempty"`
	LogLevel        string  `toml:"log_level,omitempty"`
	TraceStorePath  string  `toml:"trace_store_path,omitempty"`
}

// Default returns the zero-value Config with NumThreads set to 1, the
// smallest valid engine.New configuration.
func Default() *Config {
	return &Config{NumThreads: 1}
}

func parse(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

// Load reads and decodes a TOML config file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return parse(f)
}
