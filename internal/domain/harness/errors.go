package harness

import (
	"fmt"
	"strings"
)

// BuildError reports a non-zero exit from the external builder.
type BuildError struct {
	ExitCode int
	Stderr   string
}

func (e *BuildError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("build failed with exit code %d: %s", e.ExitCode, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("build failed with exit code %d", e.ExitCode)
}

// ExecutionError reports a non-zero exit from the executable under test.
type ExecutionError struct {
	ExitCode int
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("program exited with code %d", e.ExitCode)
}

// OutputMismatchError reports captured output differing from the case's
// expectation. It carries everything needed to locate the failing case
// without re-running.
type OutputMismatchError struct {
	TestID   int
	Expr     string
	Expected string
	Actual   string
}

func (e *OutputMismatchError) Error() string {
	return fmt.Sprintf("test %d (%s): expected %q, got %q", e.TestID, e.Expr, e.Expected, e.Actual)
}

// InvalidTestKindError reports a case whose output kind is not recognized.
type InvalidTestKindError struct {
	TestID int
	Kind   OutputKind
}

func (e *InvalidTestKindError) Error() string {
	return fmt.Sprintf("test %d: unknown output kind %q", e.TestID, string(e.Kind))
}

// InvalidSinkError reports an attempt to bind the output sink to an
// unusable destination.
type InvalidSinkError struct {
	Reason string
}

func (e *InvalidSinkError) Error() string {
	return "invalid output sink: " + e.Reason
}
