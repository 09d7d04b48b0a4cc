package engine

import "errors"

// Sentinel errors matching the taxonomy in the package's design notes. None
// of these represent a process-level fault; callers are expected to inspect
// them with errors.Is and decide whether to retry, abort, or (in the case of
// ErrInvariantBroken) treat the engine itself as buggy.
var (
	// ErrThreadOutOfRange is returned when a reported thread id is outside
	// [0, num_threads).
	ErrThreadOutOfRange = errors.New("engine: thread id out of range")

	// ErrUnknownLock is a diagnostic returned when a lock is released
	// without a prior acquire recorded against it. The release still
	// records a happens-before clock so exploration continues normally.
	ErrUnknownLock = errors.New("engine: lock released with no prior acquire on record")

	// ErrBranchLimitExceeded means Path length within the current
	// Execution reached max_branches; the Execution is aborted but
	// exploration continues to the next one.
	ErrBranchLimitExceeded = errors.New("engine: branch limit exceeded")

	// ErrExecutionLimitExceeded means executions_completed reached
	// max_executions; NextExecution returns false.
	ErrExecutionLimitExceeded = errors.New("engine: execution limit exceeded")

	// ErrInvariantBroken indicates an internal consistency failure, e.g. a
	// status mismatch discovered during deterministic replay. It signals a
	// bug in the engine itself rather than in the modeled program.
	ErrInvariantBroken = errors.New("engine: internal invariant broken")

	// ErrAlreadyFinished is a usage error: finish_thread called twice for
	// the same thread.
	ErrAlreadyFinished = errors.New("engine: thread already finished")

	// ErrInvalidConfig is returned by New for contradictory or invalid
	// configuration.
	ErrInvalidConfig = errors.New("engine: invalid configuration")
)
