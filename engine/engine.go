// Package engine implements the systematic interleaving exploration core: a
// scheduler that deterministically replays prior decisions and extends the
// exploration tree in depth-first order, a conflict-detection subsystem that
// inserts backtrack points for concurrent dependent accesses, and a
// happens-before tracker driven by reported synchronization events. It is a
// pure, single-threaded orchestration layer — callers (the driver) supply a
// stream of access and synchronization events and consume scheduling
// decisions; the engine performs no I/O and spawns no goroutines of its own.
package engine

import (
	"fmt"

	"github.com/dpor-dev/dpor/access"
	"github.com/dpor-dev/dpor/vclock"
	"github.com/rs/zerolog/log"
)

// Config holds the Engine's immutable configuration.
type Config struct {
	NumThreads      int
	PreemptionBound *uint32
	MaxBranches     uint64
	MaxExecutions   *uint64
}

// Engine orchestrates begin/schedule/report/next-execution and enforces the
// configured bounds. It holds no per-run state of its own beyond the shared
// Path, which is the exploration tree carried across every Execution it
// produces.
type Engine struct {
	cfg                 Config
	path                *Path
	executionsCompleted uint64
	lastDepth           int
}

const defaultMaxBranches uint64 = 100_000

// New validates the configuration and constructs an Engine with a fresh,
// empty Path. maxBranches of 0 is taken as "use the default of 100,000",
// matching spec.md §6.
func New(numThreads int, preemptionBound *uint32, maxBranches uint64, maxExecutions *uint64) (*Engine, error) {
	if numThreads < 1 {
		return nil, fmt.Errorf("%w: num_threads must be >= 1, got %d", ErrInvalidConfig, numThreads)
	}
	if maxBranches == 0 {
		maxBranches = defaultMaxBranches
	}
	return &Engine{
		cfg: Config{
			NumThreads:      numThreads,
			PreemptionBound: preemptionBound,
			MaxBranches:     maxBranches,
			MaxExecutions:   maxExecutions,
		},
		path: newPath(),
	}, nil
}

// Config returns the Engine's immutable configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ExecutionsCompleted returns the number of executions run so far.
func (e *Engine) ExecutionsCompleted() uint64 {
	return e.executionsCompleted
}

// TreeDepth returns the Path length observed at the end of the last
// completed execution.
func (e *Engine) TreeDepth() int {
	return e.lastDepth
}

// BeginExecution constructs a fresh Execution view over the Engine's shared
// Path. The Path itself is untouched; only per-run state (thread states,
// object histories, lock clocks) is newly allocated.
func (e *Engine) BeginExecution() *Execution {
	return newExecution(e.cfg.NumThreads, e.path)
}

// Schedule asks the Path which thread should run next for this Execution.
// It returns (tid, true) when a thread was chosen and (_, false) when the
// run has ended: no thread is runnable, or the branch limit was reached.
// Reaching the branch limit marks ex aborted with ErrBranchLimitExceeded,
// and ending with every unfinished thread blocked marks ex aborted with a
// deadlock error; neither is returned as an error. The only error returned
// is ErrInvariantBroken (a replay mismatch).
func (e *Engine) Schedule(ex *Execution) (ThreadID, bool, error) {
	tid, ok, err := e.path.schedule(ex, e.cfg.MaxBranches)
	if err != nil {
		if err == ErrBranchLimitExceeded {
			ex.aborted = true
			ex.abortErr = err
			return 0, false, nil
		}
		return 0, false, err
	}
	if !ok && ex.Deadlocked() {
		ex.aborted = true
		ex.abortErr = fmt.Errorf("engine: deadlock: every unfinished thread is blocked")
	}
	return tid, ok, nil
}

// ReportAccess records a shared-memory access and inserts any backtrack
// points the conflict-detection subsystem identifies: for each prior
// dependent access whose DPOR clock is not ordered before the reporting
// thread's current DPOR clock, a backtrack is added at that prior access's
// Branch marking the reporting thread as a candidate to run there instead.
func (e *Engine) ReportAccess(ex *Execution, tid ThreadID, obj ObjectID, kind access.Kind) error {
	if err := ex.checkRange(tid); err != nil {
		return err
	}

	pathID := ex.path.Len() - 1
	if pathID < 0 {
		return fmt.Errorf("%w: report_access before any branch was scheduled", ErrInvariantBroken)
	}

	t := ex.threads[tid]
	rec := access.Record{
		PathID:    pathID,
		ThreadID:  tid,
		DPORClock: t.dporClock.Clone(),
		Kind:      kind,
	}

	obState, ok := ex.objects[obj]
	if !ok {
		obState = access.NewState()
		ex.objects[obj] = obState
	}

	return e.insertBacktracksForConflicts(ex, tid, "object", int(obj), kind, obState.RecordAccess(rec), rec.DPORClock)
}

// insertBacktracksForConflicts adds a backtrack point at every prior access
// whose DPOR clock is not ordered before cur — i.e. every access genuinely
// concurrent with the reporting thread's, as opposed to one already ordered
// by a synchronization event that has since run.
func (e *Engine) insertBacktracksForConflicts(ex *Execution, tid ThreadID, resourceKind string, resourceID int, kind access.Kind, prior []access.Record, cur *vclock.Clock) error {
	for _, p := range prior {
		if p.DPORClock.PartialLE(cur) {
			continue
		}
		log.Debug().
			Str("resource", resourceKind).
			Int("id", resourceID).
			Int("prior_thread", int(p.ThreadID)).
			Int("prior_branch", p.PathID).
			Int("thread", int(tid)).
			Str("kind", kind.String()).
			Msg("engine: concurrent dependent access, adding backtrack")
		if err := ex.path.addBacktrack(p.PathID, tid, e.cfg.PreemptionBound); err != nil {
			return err
		}
	}
	return nil
}

// ReportSync records a synchronization event and updates the reporting
// thread's clocks per the rules in spec.md §4.3.
func (e *Engine) ReportSync(ex *Execution, tid ThreadID, ev SyncEvent) error {
	if err := ex.checkRange(tid); err != nil {
		return err
	}
	t := ex.threads[tid]

	switch ev.Kind {
	case LockAcquire:
		pathID := ex.path.Len() - 1
		if pathID < 0 {
			return fmt.Errorf("%w: report_sync before any branch was scheduled", ErrInvariantBroken)
		}

		// Two threads racing to acquire the same lock are dependent: which
		// one wins determines the schedule, independent of how the lock
		// then orders what follows. Record the race using the clock the
		// thread carried into the acquire, before any join from a prior
		// holder folds that ordering in.
		contention, ok := ex.lockContention[ev.Lock]
		if !ok {
			contention = access.NewState()
			ex.lockContention[ev.Lock] = contention
		}
		rec := access.Record{
			PathID:    pathID,
			ThreadID:  tid,
			DPORClock: t.dporClock.Clone(),
			Kind:      access.Write,
		}
		if err := e.insertBacktracksForConflicts(ex, tid, "lock", int(ev.Lock), access.Write, contention.RecordAccess(rec), rec.DPORClock); err != nil {
			return err
		}

		if clock, ok := ex.lockClocks[ev.Lock]; ok {
			if err := t.causality.Join(clock); err != nil {
				return err
			}
			if err := t.dporClock.Join(clock); err != nil {
				return err
			}
		}
		t.causality.Increment(int(tid))
		t.dporClock.Increment(int(tid))
		ex.lockAcquired[ev.Lock] = struct{}{}
		return nil

	case LockRelease:
		_, seen := ex.lockAcquired[ev.Lock]
		ex.lockClocks[ev.Lock] = t.causality.Clone()
		if !seen {
			return ErrUnknownLock
		}
		return nil

	case ThreadSpawn:
		child := ev.OtherThread
		if err := ex.checkRange(child); err != nil {
			return err
		}
		c := ex.threads[child]
		c.causality = t.causality.Clone()
		c.dporClock = t.dporClock.Clone()
		c.spawned = true
		t.causality.Increment(int(tid))
		t.dporClock.Increment(int(tid))
		return nil

	case ThreadJoin:
		target := ev.OtherThread
		if err := ex.checkRange(target); err != nil {
			return err
		}
		targetState := ex.threads[target]
		if !targetState.finished {
			return fmt.Errorf("%w: thread_join target %d has not finished", ErrInvariantBroken, target)
		}
		if err := t.causality.Join(targetState.causality); err != nil {
			return err
		}
		if err := t.dporClock.Join(targetState.dporClock); err != nil {
			return err
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown sync event kind %d", ErrInvariantBroken, ev.Kind)
	}
}

// NextExecution advances the exploration tree to the next unexplored
// branch. It returns false when the tree is exhausted or when
// executions_completed has reached max_executions.
func (e *Engine) NextExecution() bool {
	e.executionsCompleted++
	e.lastDepth = e.path.Len()

	if e.cfg.MaxExecutions != nil && e.executionsCompleted >= *e.cfg.MaxExecutions {
		return false
	}
	return e.path.advance()
}
