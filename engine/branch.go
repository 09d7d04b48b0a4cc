package engine

// Branch is one scheduling decision in the exploration tree: the status of
// every thread at that point, which one was chosen to run, and the
// cumulative preemption count up to and including this decision.
type Branch struct {
	Statuses        map[ThreadID]Status
	ActiveThread    ThreadID
	PreemptionCount uint32

	// prevActive* capture the scheduling context this Branch was created
	// in: the thread that ran immediately before this decision, and
	// whether it was still Pending (runnable) at the time. This is what
	// lets add_backtrack and advance() compute, for any candidate thread,
	// whether choosing it here would count as a preemption, without
	// re-deriving it from the rest of the Path.
	prevActiveThread  ThreadID
	prevActiveValid   bool
	prevActivePending bool
}

// wouldPreempt reports whether choosing tid as the active thread at this
// Branch (in place of whatever is currently active) counts as a preemption
// relative to the thread that ran immediately before it.
func (b *Branch) wouldPreempt(tid ThreadID) bool {
	return b.prevActiveValid && b.prevActivePending && tid != b.prevActiveThread
}

// statusOf returns the recorded status for tid, defaulting to Disabled for
// an id this Branch never saw (should not happen for in-range ids, since
// every Branch records a status for every thread).
func (b *Branch) statusOf(tid ThreadID) Status {
	if s, ok := b.Statuses[tid]; ok {
		return s
	}
	return Disabled
}
