package engine

import (
	"testing"

	"github.com/dpor-dev/dpor/access"
)

// step is one event a test thread program emits when it is scheduled. Each
// scheduling turn consumes exactly one step, matching the driver contract in
// spec.md §6 ("run_thread(tid) until it emits event E").
type step struct {
	access *stepAccess
	sync   *SyncEvent
}

type stepAccess struct {
	obj  ObjectID
	kind access.Kind
}

func stepRead(obj ObjectID) step  { return step{access: &stepAccess{obj: obj, kind: access.Read}} }
func stepWrite(obj ObjectID) step { return step{access: &stepAccess{obj: obj, kind: access.Write}} }
func stepAcquire(lock LockID) step {
	ev := NewLockAcquire(lock)
	return step{sync: &ev}
}
func stepRelease(lock LockID) step {
	ev := NewLockRelease(lock)
	return step{sync: &ev}
}
func stepSpawn(child ThreadID) step {
	ev := NewThreadSpawn(child)
	return step{sync: &ev}
}
func stepJoin(target ThreadID) step {
	ev := NewThreadJoin(target)
	return step{sync: &ev}
}

// runResult is what the test harness records for one completed Execution.
type runResult struct {
	trace           []ThreadID
	preemptionCount uint32
	aborted         bool
	abortErr        error
	deadlocked      bool
}

// driveToExhaustion runs the canonical driver loop from spec.md §6 against
// fixed per-thread programs until the Engine reports the tree exhausted,
// returning one runResult per execution explored.
func driveToExhaustion(t *testing.T, e *Engine, programs [][]step) []runResult {
	t.Helper()
	var results []runResult

	for {
		ex := e.BeginExecution()
		cursor := make([]int, len(programs))

		for {
			tid, ok, err := e.Schedule(ex)
			if err != nil {
				t.Fatalf("Schedule: %v", err)
			}
			if !ok {
				break
			}
			if aborted, _ := ex.Aborted(); aborted {
				break
			}

			idx := cursor[tid]
			if idx >= len(programs[tid]) {
				if err := ex.FinishThread(tid); err != nil {
					t.Fatalf("FinishThread(%d): %v", tid, err)
				}
				continue
			}
			s := programs[tid][idx]
			cursor[tid]++

			switch {
			case s.access != nil:
				if err := e.ReportAccess(ex, tid, s.access.obj, s.access.kind); err != nil {
					t.Fatalf("ReportAccess: %v", err)
				}
			case s.sync != nil:
				if err := e.ReportSync(ex, tid, *s.sync); err != nil && s.sync.Kind != LockRelease {
					t.Fatalf("ReportSync: %v", err)
				}
			}
		}

		aborted, abortErr := ex.Aborted()
		results = append(results, runResult{
			trace:           ex.ScheduleTrace(),
			preemptionCount: ex.PreemptionCount(),
			aborted:         aborted,
			abortErr:        abortErr,
			deadlocked:      ex.Deadlocked(),
		})

		if !e.NextExecution() {
			break
		}
	}

	return results
}

func traceKey(trace []ThreadID) string {
	out := make([]byte, 0, len(trace)*2)
	for _, tid := range trace {
		out = append(out, byte('0'+tid), ',')
	}
	return string(out)
}
