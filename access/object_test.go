package access

import (
	"testing"

	"github.com/dpor-dev/dpor/vclock"
)

func rec(path int, tid ThreadID, kind Kind) Record {
	return Record{PathID: path, ThreadID: tid, DPORClock: vclock.New(4), Kind: kind}
}

func TestReadVsReadIndependent(t *testing.T) {
	s := NewState()
	prior := s.RecordAccess(rec(0, 0, Read))
	if len(prior) != 0 {
		t.Fatalf("first access should have no prior dependent accesses")
	}
	prior = s.RecordAccess(rec(1, 1, Read))
	if len(prior) != 0 {
		t.Fatalf("read after read should report no dependent access, got %v", prior)
	}
}

func TestWriteSeesAllReadsSinceLastWrite(t *testing.T) {
	s := NewState()
	s.RecordAccess(rec(0, 0, Read))
	s.RecordAccess(rec(1, 1, Read))
	// A third thread's write must see both prior reads (the documented
	// blind spot this redesign closes).
	prior := s.RecordAccess(rec(2, 2, Write))
	if len(prior) != 2 {
		t.Fatalf("write should see both prior reads, got %d: %v", len(prior), prior)
	}
}

func TestWriteResetsReadSet(t *testing.T) {
	s := NewState()
	s.RecordAccess(rec(0, 0, Read))
	s.RecordAccess(rec(1, 0, Write))
	prior := s.RecordAccess(rec(2, 1, Read))
	if len(prior) != 1 || prior[0].PathID != 1 {
		t.Fatalf("read after write should only see the write, got %v", prior)
	}
}

func TestReadSeesLastWriteOnly(t *testing.T) {
	s := NewState()
	s.RecordAccess(rec(0, 0, Write))
	s.RecordAccess(rec(1, 0, Write))
	prior := s.RecordAccess(rec(2, 1, Read))
	if len(prior) != 1 || prior[0].PathID != 1 {
		t.Fatalf("read should see only the most recent write, got %v", prior)
	}
}

func TestWriteExcludesOwnThreadRead(t *testing.T) {
	s := NewState()
	s.RecordAccess(rec(0, 0, Read))
	prior := s.RecordAccess(rec(1, 0, Write))
	if len(prior) != 0 {
		t.Fatalf("write should not report its own thread's prior read, got %v", prior)
	}
}
