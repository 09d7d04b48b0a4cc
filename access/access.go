// Package access models shared-memory accesses and the per-object history
// the engine consults to decide whether two accesses race in the
// scheduling-causality sense and therefore need a backtrack point.
package access

import "github.com/dpor-dev/dpor/vclock"

// Kind distinguishes a read from a write. Two accesses are dependent when at
// least one is a Write and both target the same object.
type Kind int

const (
	Read Kind = iota
	Write
)

func (k Kind) String() string {
	if k == Write {
		return "write"
	}
	return "read"
}

// Dependent reports whether two accesses to the same object conflict.
func Dependent(a, b Kind) bool {
	return a == Write || b == Write
}

// ThreadID identifies a modeled thread. Valid values are in [0, N).
type ThreadID int

// Record is one shared-memory access, immutable once constructed. DPORClock
// is a snapshot of the accessing thread's scheduling-causality clock at the
// moment of the access, copied by value (vclock.Clock is never shared after
// this point).
type Record struct {
	PathID    int
	ThreadID  ThreadID
	DPORClock *vclock.Clock
	Kind      Kind
}
