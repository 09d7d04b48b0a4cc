package engine

import "github.com/dpor-dev/dpor/vclock"

// threadState is the per-thread state an Execution owns: two vector clocks
// (one tracking semantic happens-before, one tracking scheduling-decision
// causality for DPOR), and the runtime flags that determine schedulability.
type threadState struct {
	causality *vclock.Clock
	dporClock *vclock.Clock
	spawned   bool
	finished  bool
	blocked   bool
}

func newThreadState(n int) *threadState {
	return &threadState{
		causality: vclock.New(n),
		dporClock: vclock.New(n),
	}
}
