// Package tracestore is a small content-addressed store for completed
// execution traces, grounded in the teacher's cas package: records are
// msgpack-encoded and addressed by the farm hash of their encoding, so
// replaying the same schedule twice is a no-op Put rather than a duplicate
// entry.
package tracestore

// Hash identifies a TraceRecord by the farm hash of its msgpack encoding.
type Hash uint64

// TraceRecord is the persisted summary of one completed Execution: enough
// to tell two executions apart and to audit bound/backtrack behavior
// without reconstructing the full interleaving.
type TraceRecord struct {
	NumThreads      int    `msgpack:"num_threads"`
	Schedule        []int  `msgpack:"schedule"`
	PreemptionCount uint32 `msgpack:"preemption_count"`
	Deadlocked      bool   `msgpack:"deadlocked"`
	Aborted         bool   `msgpack:"aborted"`
	AbortReason     string `msgpack:"abort_reason,omitempty"`
}
