package access

// State is the per-shared-object access history the conflict-detection
// subsystem consults on every reported access.
//
// spec.md §9 documents a known blind spot in the reference design: retaining
// only a single "last access" cell loses earlier reads once a later read
// overwrites it, so with >= 3 threads a write can be compared against only
// the most recent read and miss a conflict with an earlier one. This adopts
// the recommended fix: reads are tracked per-thread (map[ThreadID]*Record)
// until the next write, so a write is checked against every other thread's
// read that happened since the last write, not just the latest.
type State struct {
	lastWrite *Record
	lastReads map[ThreadID]*Record
}

// NewState returns an empty object history.
func NewState() *State {
	return &State{lastReads: make(map[ThreadID]*Record)}
}

// RecordAccess returns the prior dependent accesses to evaluate for the
// incoming access, then updates the history in place. The caller (the
// engine) is responsible for comparing each returned record's DPORClock
// against the new access's thread clock and inserting backtrack points for
// any that are concurrent.
//
// For a Read, only the last write is dependent (reads are mutually
// independent per spec.md §8 property 6). For a Write, every read recorded
// since the last write by a thread other than the writer is dependent, plus
// the last write itself.
func (s *State) RecordAccess(rec Record) []Record {
	var prior []Record

	switch rec.Kind {
	case Read:
		if s.lastWrite != nil {
			prior = append(prior, *s.lastWrite)
		}
		s.lastReads[rec.ThreadID] = &rec
	case Write:
		if s.lastWrite != nil {
			prior = append(prior, *s.lastWrite)
		}
		for tid, r := range s.lastReads {
			if tid == rec.ThreadID {
				continue
			}
			prior = append(prior, *r)
		}
		s.lastWrite = &rec
		s.lastReads = make(map[ThreadID]*Record)
	}

	return prior
}
