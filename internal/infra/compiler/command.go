// Package compiler adapts an external compiler executable to the
// CodeGenerator port. The compiler is expected to write generated
// target-language text on its stdout.
package compiler

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/kolharsam/inc/internal/ports"
)

// CommandGenerator shells out to a compiler command, passing the expression
// as the final argument and streaming stdout into the current sink.
type CommandGenerator struct {
	path string
	args []string
}

var _ ports.CodeGenerator = (*CommandGenerator)(nil)

// NewCommand returns a generator invoking the executable at path.
func NewCommand(path string, args ...string) (*CommandGenerator, error) {
	if path == "" {
		return nil, fmt.Errorf("compiler command must be provided")
	}
	return &CommandGenerator{path: path, args: args}, nil
}

// Emit runs the compiler against expr. The compiler's stderr stays on the
// harness's own stderr; any failure propagates to abort the run.
func (g *CommandGenerator) Emit(ctx context.Context, expr string, out io.Writer) error {
	args := append(append([]string{}, g.args...), expr)
	cmd := exec.CommandContext(ctx, g.path, args...)
	cmd.Stdout = out
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("compiler %s: %w", g.path, err)
	}
	return nil
}
