package engine

import (
	"github.com/dpor-dev/dpor/access"
	"github.com/dpor-dev/dpor/vclock"
)

// Execution is the per-run state container: thread states, per-object
// access histories, lock-release clocks, and a reference to the Engine's
// shared Path. It lives for exactly one run of the modeled program; all
// per-run mutation happens here, never on the Engine itself.
type Execution struct {
	numThreads int
	threads    []*threadState
	objects    map[ObjectID]*access.State
	lockClocks map[LockID]*vclock.Clock
	// lockAcquired records which locks have been through at least one
	// LockAcquire, so a LockRelease with no matching acquire can be
	// flagged as the diagnostic ErrUnknownLock while still recording a
	// clock for it.
	lockAcquired map[LockID]struct{}
	// lockContention tracks, per lock, the access history of acquire
	// attempts: two threads racing to acquire the same lock are a
	// dependent pair exactly like two writes to the same object, so
	// acquisitions are recorded here for conflict detection (spec.md §9:
	// the reference design left lock contention outside the conflict
	// model, which under-explores locked critical sections).
	lockContention map[LockID]*access.State
	path           *Path
	aborted        bool
	abortErr       error
}

func newExecution(numThreads int, path *Path) *Execution {
	ex := &Execution{
		numThreads:     numThreads,
		threads:        make([]*threadState, numThreads),
		objects:        make(map[ObjectID]*access.State),
		lockClocks:     make(map[LockID]*vclock.Clock),
		lockAcquired:   make(map[LockID]struct{}),
		lockContention: make(map[LockID]*access.State),
		path:           path,
	}
	for i := range ex.threads {
		ex.threads[i] = newThreadState(numThreads)
	}
	// Thread 0 is runnable at the start of every execution; its program
	// order position is incremented once to mark the start of its trace.
	ex.threads[0].spawned = true
	ex.threads[0].causality.Increment(0)
	ex.threads[0].dporClock.Increment(0)
	return ex
}

func (ex *Execution) checkRange(tid ThreadID) error {
	if int(tid) < 0 || int(tid) >= ex.numThreads {
		return ErrThreadOutOfRange
	}
	return nil
}

// FinishThread marks a thread as finished; it becomes ineligible for
// scheduling. Returns ErrAlreadyFinished if called twice for the same
// thread.
func (ex *Execution) FinishThread(tid ThreadID) error {
	if err := ex.checkRange(tid); err != nil {
		return err
	}
	t := ex.threads[tid]
	if t.finished {
		return ErrAlreadyFinished
	}
	t.finished = true
	return nil
}

// BlockThread marks a thread as blocked (e.g. waiting on a condition that
// is not yet satisfied); it becomes ineligible for scheduling until
// unblocked.
func (ex *Execution) BlockThread(tid ThreadID) error {
	if err := ex.checkRange(tid); err != nil {
		return err
	}
	ex.threads[tid].blocked = true
	return nil
}

// UnblockThread clears a thread's blocked flag.
func (ex *Execution) UnblockThread(tid ThreadID) error {
	if err := ex.checkRange(tid); err != nil {
		return err
	}
	ex.threads[tid].blocked = false
	return nil
}

// Aborted reports whether this Execution terminated abnormally (branch
// limit, deadlock) and, if so, why.
func (ex *Execution) Aborted() (bool, error) {
	return ex.aborted, ex.abortErr
}

// Deadlocked reports whether the Execution ended with every remaining
// thread blocked but not finished, distinguishing it from ordinary
// termination (spec.md §9: the reference design conflated these two
// cases — this keeps them explicit).
func (ex *Execution) Deadlocked() bool {
	anyUnfinished := false
	for _, t := range ex.threads {
		if t.finished {
			continue
		}
		anyUnfinished = true
		if !t.blocked {
			return false
		}
	}
	return anyUnfinished
}

// ScheduleTrace returns the sequence of thread ids chosen so far in this
// run, derived from the Engine's shared Path.
func (ex *Execution) ScheduleTrace() []ThreadID {
	return ex.path.ActiveThreadSequence()[:ex.path.replayPosition]
}

// NumThreads returns the fixed thread count configured for this Execution.
func (ex *Execution) NumThreads() int {
	return ex.numThreads
}

// PreemptionCount returns the cumulative preemption count recorded at the
// last Branch scheduled so far in this run, or 0 if none has been scheduled
// yet.
func (ex *Execution) PreemptionCount() uint32 {
	if ex.path.replayPosition == 0 {
		return 0
	}
	return ex.path.branches[ex.path.replayPosition-1].PreemptionCount
}
