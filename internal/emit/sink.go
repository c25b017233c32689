// Package emit provides the redirectable destination for generated code
// text. Code generators write against a single Sink without knowing whether
// output is headed for the artifact file or for interactive inspection on
// stdout.
package emit

import (
	"fmt"
	"io"
	"os"

	"github.com/kolharsam/inc/internal/domain/harness"
)

// Sink is the current destination for emitted text. It implements io.Writer
// by delegating to whatever destination is bound at the time of the write.
// A Sink is not safe for concurrent use; the pipeline is single-threaded.
type Sink struct {
	stack []io.Writer
}

// New returns a sink bound to w, or to the process's own stdout when w is
// nil.
func New(w io.Writer) *Sink {
	if w == nil {
		w = os.Stdout
	}
	return &Sink{stack: []io.Writer{w}}
}

// Write writes to the currently bound destination.
func (s *Sink) Write(p []byte) (int, error) {
	return s.current().Write(p)
}

// Emitf writes formatted text plus a trailing newline to the currently
// bound destination.
func (s *Sink) Emitf(format string, args ...any) error {
	if _, err := fmt.Fprintf(s.current(), format+"\n", args...); err != nil {
		return err
	}
	return nil
}

// Scoped rebinds the sink to w for the dynamic extent of fn. The previous
// binding is restored on every exit path, including when fn fails, so
// diagnostics printed after a failed compilation still reach the harness's
// normal output.
func (s *Sink) Scoped(w io.Writer, fn func() error) error {
	if w == nil {
		return &harness.InvalidSinkError{Reason: "nil destination"}
	}

	s.stack = append(s.stack, w)
	defer func() {
		s.stack = s.stack[:len(s.stack)-1]
	}()

	return fn()
}

func (s *Sink) current() io.Writer {
	return s.stack[len(s.stack)-1]
}
