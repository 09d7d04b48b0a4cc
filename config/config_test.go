package config

import (
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(strings.NewReader(`num_threads = 2`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.NumThreads != 2 {
		t.Fatalf("NumThreads = %d, want 2", cfg.NumThreads)
	}
	if cfg.PreemptionBound != nil {
		t.Fatalf("PreemptionBound = %v, want nil (unbounded)", cfg.PreemptionBound)
	}
	if cfg.MaxExecutions != nil {
		t.Fatalf("MaxExecutions = %v, want nil (unbounded)", cfg.MaxExecutions)
	}
}

func TestParseBounds(t *testing.T) {
	cfg, err := parse(strings.NewReader(`
num_threads = 3
preemption_bound = 1
max_branches = 500
max_executions = 1000
trace_store_path = "traces.bin"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.NumThreads != 3 {
		t.Fatalf("NumThreads = %d, want 3", cfg.NumThreads)
	}
	if cfg.PreemptionBound == nil || *cfg.PreemptionBound != 1 {
		t.Fatalf("PreemptionBound = %v, want 1", cfg.PreemptionBound)
	}
	if cfg.MaxBranches != 500 {
		t.Fatalf("MaxBranches = %d, want 500", cfg.MaxBranches)
	}
	if cfg.MaxExecutions == nil || *cfg.MaxExecutions != 1000 {
		t.Fatalf("MaxExecutions = %v, want 1000", cfg.MaxExecutions)
	}
	if cfg.TraceStorePath != "traces.bin" {
		t.Fatalf("TraceStorePath = %q, want traces.bin", cfg.TraceStorePath)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.NumThreads != 1 {
		t.Fatalf("Default().NumThreads = %d, want 1", cfg.NumThreads)
	}
}
