package engine

import "github.com/dpor-dev/dpor/access"

// ThreadID re-exports access.ThreadID so callers of this package don't need
// to import access directly for the common case.
type ThreadID = access.ThreadID

// ObjectID is an opaque identifier for a shared object; only equality
// matters. Drivers typically derive it from a memory address or a
// (container, field) hash.
type ObjectID uint64

// LockID is an opaque identifier for a lock, same rules as ObjectID.
type LockID uint64
