package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

func loadFixture(t *testing.T, name string) *Program {
	t.Helper()
	path := filepath.Join("..", "examples", "scenarios", name)
	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	prog, err := Load(src, path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	return prog
}

func TestLoadS1LostUpdate(t *testing.T) {
	prog := loadFixture(t, "s1_lost_update.star")
	if prog.NumThreads != 2 {
		t.Fatalf("NumThreads = %d, want 2", prog.NumThreads)
	}

	results, err := Run(prog, nil, 0, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 executions, got %d", len(results))
	}
	for _, r := range results {
		if r.Aborted || r.Deadlocked {
			t.Fatalf("unexpected aborted/deadlocked result: %+v", r)
		}
	}
}

func TestLoadS2DisjointObjects(t *testing.T) {
	prog := loadFixture(t, "s2_disjoint_objects.star")

	results, err := Run(prog, nil, 0, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 execution, got %d", len(results))
	}
}

func TestLoadS3LockedCriticalSection(t *testing.T) {
	prog := loadFixture(t, "s3_locked_critical_section.star")

	results, err := Run(prog, nil, 0, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 executions (the two lock-acquisition orders), got %d", len(results))
	}
}

func TestLoadS6ThreeThreadReadReadWrite(t *testing.T) {
	prog := loadFixture(t, "s6_three_thread_read_read_write.star")
	if prog.NumThreads != 3 {
		t.Fatalf("NumThreads = %d, want 3", prog.NumThreads)
	}

	results, err := Run(prog, nil, 0, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) < 2 {
		t.Fatalf("expected the write to race with both reads, got only %d execution(s)", len(results))
	}
}

func TestLoadRejectsThreadCountMismatch(t *testing.T) {
	src := []byte(`
THREADS = 2

def t0():
    read(0)

thread("t0", t0)
`)
	if _, err := Load(src, "bad.star"); err == nil {
		t.Fatalf("expected an error when THREADS does not match the number of thread(...) blocks")
	}
}
