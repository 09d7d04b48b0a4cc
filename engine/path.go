package engine

import "fmt"

// Path is the ordered sequence of Branches representing the engine's
// position in the exploration tree, plus a replay cursor. It is owned
// exclusively by the Engine and persists across Executions: each run either
// deterministically replays a previously recorded prefix or extends the
// Path with new Branches, and advance() rewinds it to the next unexplored
// alternative between runs.
type Path struct {
	branches       []*Branch
	replayPosition int
}

func newPath() *Path {
	return &Path{}
}

// Len reports the number of Branches currently in the Path.
func (p *Path) Len() int {
	return len(p.branches)
}

// ActiveThreadSequence returns the sequence of chosen threads across every
// Branch currently in the Path. At the end of a run this is that run's
// schedule_trace; while a run is still replaying, it also includes the
// recorded Branches not yet replayed.
func (p *Path) ActiveThreadSequence() []ThreadID {
	out := make([]ThreadID, len(p.branches))
	for i, b := range p.branches {
		out[i] = b.ActiveThread
	}
	return out
}

// statusSnapshot computes each thread's status given the Execution's current
// runtime state: Disabled if never spawned or already finished, Blocked if
// blocked, else Pending.
func statusSnapshot(ex *Execution) map[ThreadID]Status {
	out := make(map[ThreadID]Status, ex.numThreads)
	for i := 0; i < ex.numThreads; i++ {
		tid := ThreadID(i)
		t := ex.threads[i]
		switch {
		case !t.spawned || t.finished:
			out[tid] = Disabled
		case t.blocked:
			out[tid] = Blocked
		default:
			out[tid] = Pending
		}
	}
	return out
}

// schedule implements spec.md §4.4: during replay it deterministically
// returns the previously recorded decision; once the replay cursor catches
// up with the Path's length it builds a fresh Branch using the
// prefer-the-running-thread policy. Returns (thread, true, nil) when a
// thread was chosen, (_, false, nil) when no thread is Pending (deadlock or
// completion), and a non-nil error only for ErrInvariantBroken (a replay
// mismatch) or ErrBranchLimitExceeded.
func (p *Path) schedule(ex *Execution, maxBranches uint64) (ThreadID, bool, error) {
	if p.replayPosition < len(p.branches) {
		return p.replayNext(ex)
	}
	return p.exploreNext(ex, maxBranches)
}

func (p *Path) replayNext(ex *Execution) (ThreadID, bool, error) {
	b := p.branches[p.replayPosition]
	live := statusSnapshot(ex)
	if got := live[b.ActiveThread]; got != Pending {
		return 0, false, fmt.Errorf("%w: replay at branch %d expected thread %d to be pending, observed %s",
			ErrInvariantBroken, p.replayPosition, b.ActiveThread, got)
	}
	p.replayPosition++
	return b.ActiveThread, true, nil
}

func (p *Path) exploreNext(ex *Execution, maxBranches uint64) (ThreadID, bool, error) {
	if maxBranches > 0 && uint64(len(p.branches)) >= maxBranches {
		return 0, false, ErrBranchLimitExceeded
	}

	statuses := statusSnapshot(ex)

	var prevThread ThreadID
	prevValid := len(p.branches) > 0
	if prevValid {
		prevThread = p.branches[len(p.branches)-1].ActiveThread
	}
	prevPending := prevValid && statuses[prevThread] == Pending

	chosen, any := pickThread(ex.numThreads, statuses, prevThread, prevPending)
	if !any {
		return 0, false, nil
	}

	var basePreemption uint32
	if len(p.branches) > 0 {
		basePreemption = p.branches[len(p.branches)-1].PreemptionCount
	}

	b := &Branch{
		Statuses:          statuses,
		ActiveThread:      chosen,
		prevActiveThread:  prevThread,
		prevActiveValid:   prevValid,
		prevActivePending: prevPending,
	}
	if b.wouldPreempt(chosen) {
		b.PreemptionCount = basePreemption + 1
	} else {
		b.PreemptionCount = basePreemption
	}
	b.Statuses[chosen] = Active

	p.branches = append(p.branches, b)
	p.replayPosition = len(p.branches)

	return chosen, true, nil
}

// pickThread applies the scheduling policy: prefer the previously active
// thread if it is still Pending, otherwise the lowest-indexed Pending
// thread.
func pickThread(numThreads int, statuses map[ThreadID]Status, prevThread ThreadID, prevPending bool) (ThreadID, bool) {
	if prevPending {
		return prevThread, true
	}
	for i := 0; i < numThreads; i++ {
		tid := ThreadID(i)
		if statuses[tid] == Pending {
			return tid, true
		}
	}
	return 0, false
}

// preemptionBoundAt returns the preemption count that would result from
// choosing tid as the active thread at branch index pathID, without
// mutating anything.
func (p *Path) preemptionBoundAt(pathID int, tid ThreadID) uint32 {
	b := p.branches[pathID]
	var base uint32
	if pathID > 0 {
		base = p.branches[pathID-1].PreemptionCount
	}
	if b.wouldPreempt(tid) {
		return base + 1
	}
	return base
}

// addBacktrack implements spec.md §4.4 add_backtrack: if the thread is
// Pending at the given Branch and promoting it would not exceed the
// preemption bound, mark it Backtrack. Otherwise it delegates to
// addConservativeBacktrack. bound is nil for an unbounded search.
func (p *Path) addBacktrack(pathID int, tid ThreadID, bound *uint32) error {
	if pathID < 0 || pathID >= len(p.branches) {
		return fmt.Errorf("%w: add_backtrack branch index %d out of range", ErrInvariantBroken, pathID)
	}
	b := p.branches[pathID]
	if b.statusOf(tid) != Pending {
		return nil
	}

	if bound == nil || p.preemptionBoundAt(pathID, tid) <= *bound {
		b.Statuses[tid] = Backtrack
		return nil
	}

	return p.addConservativeBacktrack(pathID, tid, *bound)
}

// addConservativeBacktrack walks the Path looking for the earliest Branch
// at which tid can be marked Backtrack without exceeding the preemption
// bound. If none exists, the request is dropped: sound within the bounded
// regime, but not complete (spec.md §9).
func (p *Path) addConservativeBacktrack(pathID int, tid ThreadID, bound uint32) error {
	for j := 0; j < pathID; j++ {
		b := p.branches[j]
		if b.statusOf(tid) != Pending {
			continue
		}
		if p.preemptionBoundAt(j, tid) <= bound {
			b.Statuses[tid] = Backtrack
			return nil
		}
	}
	return nil
}

// advance implements spec.md §4.4: walk backward from the last Branch,
// marking each as Visited, promoting the lowest-indexed Backtrack thread it
// finds to Active and truncating the Path there, or popping the Branch and
// continuing. Returns false once the Path is empty (exploration exhausted).
func (p *Path) advance() bool {
	for len(p.branches) > 0 {
		idx := len(p.branches) - 1
		b := p.branches[idx]
		b.Statuses[b.ActiveThread] = Visited

		next, ok := lowestBacktrack(b)
		if ok {
			b.ActiveThread = next
			b.PreemptionCount = p.preemptionBoundAt(idx, next)
			b.Statuses[next] = Active
			p.branches = p.branches[:idx+1]
			p.replayPosition = 0
			return true
		}

		p.branches = p.branches[:idx]
	}
	return false
}

func lowestBacktrack(b *Branch) (ThreadID, bool) {
	best := ThreadID(-1)
	found := false
	for tid, st := range b.Statuses {
		if st != Backtrack {
			continue
		}
		if !found || tid < best {
			best = tid
			found = true
		}
	}
	return best, found
}
