// Package report formats exploration progress and final statistics for a
// terminal, grounded in the teacher's model.Reporter/ColorReporter. It
// deliberately stops at a bare thread-id schedule trace — reconstructing or
// pretty-printing a full counterexample interleaving remains out of scope.
package report

import (
	"fmt"
	"io"

	"github.com/gookit/color"
)

// Reporter receives one line of progress per completed execution.
type Reporter interface {
	Printf(format string, args ...interface{})
}

// Silent discards all progress output.
type Silent struct{}

func (Silent) Printf(string, ...interface{}) {}

// Color writes colorized progress to Writer (typically stderr), following
// the teacher's cmd/timewinder convention of color.Cyan for progress and
// color.Green/color.Red for the final verdict.
type Color struct {
	Writer io.Writer
}

func (c Color) Printf(format string, args ...interface{}) {
	fmt.Fprint(c.Writer, color.Cyan.Sprintf(format, args...))
}

// Statistics summarizes a finished exploration run.
type Statistics struct {
	ExecutionsExplored uint64
	MaxDepth           int
	DeadlockedRuns     int
	AbortedRuns        int
}

// FormatStatistics renders Statistics the way cmd/dpor prints its final
// block, mirroring the teacher's model.FormatStatistics layout.
func FormatStatistics(s Statistics) string {
	return fmt.Sprintf(
		"executions explored: %d\nmax tree depth:       %d\ndeadlocked runs:      %d\naborted runs:         %d\n",
		s.ExecutionsExplored, s.MaxDepth, s.DeadlockedRuns, s.AbortedRuns,
	)
}

// Running prints the teacher's "Running model checker..." banner, adapted
// to this engine's vocabulary.
func Running(w io.Writer) {
	fmt.Fprintln(w, color.Cyan.Sprint("Exploring interleavings..."))
}

// Success prints the teacher's green checkmark line.
func Success(w io.Writer, msg string) {
	fmt.Fprintln(w, color.Green.Sprintf("✓ %s", msg))
}

// Failure prints the teacher's red cross line.
func Failure(w io.Writer, msg string) {
	fmt.Fprintln(w, color.Red.Sprintf("✗ %s", msg))
}
