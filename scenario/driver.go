package scenario

import (
	"fmt"

	"github.com/dpor-dev/dpor/engine"
)

// RunResult is what one completed Execution produced when driven by Run.
type RunResult struct {
	Schedule        []engine.ThreadID
	PreemptionCount uint32
	Aborted         bool
	AbortErr        error
	Deadlocked      bool
}

// Run builds an Engine for prog and drives it to exhaustion, implementing
// the canonical driver loop from spec.md §6: schedule, dispatch the
// scheduled thread's next step (or finish it once its program is
// exhausted), repeat until the Engine reports the Execution has ended, then
// advance to the next Execution until the tree is exhausted. progress, if
// non-nil, is called once per completed Execution.
func Run(prog *Program, preemptionBound *uint32, maxBranches uint64, maxExecutions *uint64, progress func(RunResult)) ([]RunResult, error) {
	e, err := engine.New(prog.NumThreads, preemptionBound, maxBranches, maxExecutions)
	if err != nil {
		return nil, err
	}

	var results []RunResult
	for {
		ex := e.BeginExecution()
		cursor := make([]int, len(prog.Threads))

		for {
			tid, ok, err := e.Schedule(ex)
			if err != nil {
				return results, fmt.Errorf("scenario: schedule: %w", err)
			}
			if !ok {
				break
			}
			if aborted, _ := ex.Aborted(); aborted {
				break
			}

			idx := cursor[tid]
			if idx >= len(prog.Threads[tid]) {
				if err := ex.FinishThread(tid); err != nil {
					return results, fmt.Errorf("scenario: finish_thread(%d): %w", tid, err)
				}
				continue
			}
			s := prog.Threads[tid][idx]
			cursor[tid]++

			switch {
			case s.Access != nil:
				if err := e.ReportAccess(ex, tid, s.Access.Object, s.Access.Kind); err != nil {
					return results, fmt.Errorf("scenario: report_access: %w", err)
				}
			case s.Sync != nil:
				if err := e.ReportSync(ex, tid, *s.Sync); err != nil && s.Sync.Kind != engine.LockRelease {
					return results, fmt.Errorf("scenario: report_sync: %w", err)
				}
			}
		}

		aborted, abortErr := ex.Aborted()
		res := RunResult{
			Schedule:        ex.ScheduleTrace(),
			PreemptionCount: ex.PreemptionCount(),
			Aborted:         aborted,
			AbortErr:        abortErr,
			Deadlocked:      ex.Deadlocked(),
		}
		results = append(results, res)
		if progress != nil {
			progress(res)
		}

		if !e.NextExecution() {
			break
		}
	}

	return results, nil
}
