// Package scenario loads small Starlark scripts describing a fixed,
// per-thread sequence of accesses and synchronization events, then drives
// them through an engine.Engine exactly like the test harness does, but as
// a reusable reference driver rather than test-only plumbing. This is
// deliberately narrower than the teacher's vm/interp Starlark bytecode
// machine: a scenario script never makes scheduling decisions itself (the
// engine owns that); it only declares what each thread does, in order.
package scenario

import (
	"fmt"

	"github.com/dpor-dev/dpor/access"
	"github.com/dpor-dev/dpor/engine"
)

// AccessStep is a Read or Write against obj.
type AccessStep struct {
	Object engine.ObjectID
	Kind   access.Kind
}

// Step is one event in a thread's fixed program: either a shared-memory
// access or a synchronization event, never both.
type Step struct {
	Access *AccessStep
	Sync   *engine.SyncEvent
}

// Program is a parsed scenario: the thread count declared via THREADS and
// each thread's fixed event sequence, declared via thread(name, body) in
// the order the script's read/write/lock/unlock/spawn/join calls ran.
type Program struct {
	NumThreads int
	Threads    [][]Step
}

func (p *Program) validate() error {
	if p.NumThreads <= 0 {
		return fmt.Errorf("scenario: THREADS must be set to a positive integer")
	}
	if len(p.Threads) != p.NumThreads {
		return fmt.Errorf("scenario: THREADS=%d but %d thread(...) block(s) were declared", p.NumThreads, len(p.Threads))
	}
	return nil
}
