package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatStatistics(t *testing.T) {
	out := FormatStatistics(Statistics{ExecutionsExplored: 2, MaxDepth: 7, DeadlockedRuns: 1})
	if !strings.Contains(out, "executions explored: 2") {
		t.Fatalf("missing executions count: %q", out)
	}
	if !strings.Contains(out, "max tree depth:       7") {
		t.Fatalf("missing max depth: %q", out)
	}
}

func TestSilentReporterDiscardsOutput(t *testing.T) {
	var r Reporter = Silent{}
	r.Printf("should not panic: %d", 1)
}

func TestColorReporterWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	var r Reporter = Color{Writer: &buf}
	r.Printf("execution %d done", 3)
	if !strings.Contains(buf.String(), "execution 3 done") {
		t.Fatalf("Color.Printf did not write expected text: %q", buf.String())
	}
}
