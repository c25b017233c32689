// Package pipeline implements the per-case compile, build, execute and
// read-captured stages around the fixed artifact files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kolharsam/inc/internal/domain/harness"
	"github.com/kolharsam/inc/internal/emit"
	"github.com/kolharsam/inc/internal/ports"
)

// Paths names the fixed, working-directory-relative files the pipeline
// overwrites on every case. Because the paths are shared rather than
// per-case-unique, overlapping runs against the same directory are unsafe.
type Paths struct {
	Artifact   string
	Executable string
	Capture    string
}

// DefaultPaths returns the conventional artifact names.
func DefaultPaths() Paths {
	return Paths{
		Artifact:   "stst.s",
		Executable: "stst",
		Capture:    "stst.out",
	}
}

// Pipeline wires the code generator, the builder and the built executable
// into the stage operations. A Pipeline is single-threaded; stages block
// until the external process or generator returns.
type Pipeline struct {
	gen     ports.CodeGenerator
	builder ports.Builder
	sink    *emit.Sink
	paths   Paths
}

var _ ports.Pipeline = (*Pipeline)(nil)

// New constructs a Pipeline. A nil sink defaults to one bound to stdout;
// empty path fields fall back to DefaultPaths.
func New(gen ports.CodeGenerator, builder ports.Builder, sink *emit.Sink, paths Paths) *Pipeline {
	if sink == nil {
		sink = emit.New(nil)
	}

	defaults := DefaultPaths()
	if paths.Artifact == "" {
		paths.Artifact = defaults.Artifact
	}
	if paths.Executable == "" {
		paths.Executable = defaults.Executable
	}
	if paths.Capture == "" {
		paths.Capture = defaults.Capture
	}

	return &Pipeline{
		gen:     gen,
		builder: builder,
		sink:    sink,
		paths:   paths,
	}
}

// Sink returns the pipeline's output sink, bound to the artifact file only
// for the extent of CompileProgram.
func (p *Pipeline) Sink() *emit.Sink {
	return p.sink
}

// CompileProgram truncates the artifact file, scopes the sink to it and
// invokes the code generator against expr. Generator failures propagate
// unchanged; the file handle is closed and the sink restored on every path.
func (p *Pipeline) CompileProgram(ctx context.Context, expr string) error {
	file, err := os.Create(p.paths.Artifact)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", p.paths.Artifact, err)
	}

	emitErr := p.sink.Scoped(file, func() error {
		return p.gen.Emit(ctx, expr, p.sink)
	})

	closeErr := file.Close()
	if emitErr != nil {
		return emitErr
	}
	if closeErr != nil {
		return fmt.Errorf("close artifact %s: %w", p.paths.Artifact, closeErr)
	}
	return nil
}

// Build hands the artifact to the external builder.
func (p *Pipeline) Build(ctx context.Context) error {
	return p.builder.Build(ctx)
}

// Execute runs the built executable synchronously with its stdout redirected
// into the truncated capture file. Stderr is neither redirected nor
// inspected.
func (p *Pipeline) Execute(ctx context.Context) error {
	capture, err := os.Create(p.paths.Capture)
	if err != nil {
		return fmt.Errorf("open capture %s: %w", p.paths.Capture, err)
	}
	defer capture.Close()

	cmd := exec.CommandContext(ctx, executablePath(p.paths.Executable))
	cmd.Stdout = capture
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &harness.ExecutionError{ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("run %s: %w", p.paths.Executable, err)
	}
	return nil
}

// ReadCaptured returns the capture file's contents verbatim, embedded
// newlines and control characters included.
func (p *Pipeline) ReadCaptured() (string, error) {
	data, err := os.ReadFile(p.paths.Capture)
	if err != nil {
		return "", fmt.Errorf("read capture %s: %w", p.paths.Capture, err)
	}
	return string(data), nil
}

// executablePath keeps bare names from being resolved against PATH.
func executablePath(name string) string {
	if strings.ContainsRune(name, '/') {
		return name
	}
	return "./" + name
}
