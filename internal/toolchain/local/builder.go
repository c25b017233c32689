// Package local runs the external builder as a plain child process on the
// host.
package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/kolharsam/inc/internal/domain/harness"
	"github.com/kolharsam/inc/internal/ports"
)

const defaultCommand = "make"

// Config describes the builder invocation.
type Config struct {
	Command string
	Args    []string
	// Dir is the working directory for the build. Empty means the harness's
	// own working directory, matching the fixed artifact path convention.
	Dir string
}

// Builder invokes the configured build command with the harness's own stdio.
type Builder struct {
	cfg Config
}

var _ ports.Builder = (*Builder)(nil)

// New returns a Builder. An empty command defaults to make.
func New(cfg Config) *Builder {
	if cfg.Command == "" {
		cfg.Command = defaultCommand
	}
	return &Builder{cfg: cfg}
}

// Build runs the builder to completion. Its output is not captured; only the
// exit status gates progression to execution.
func (b *Builder) Build(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, b.cfg.Command, b.cfg.Args...)
	cmd.Dir = b.cfg.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &harness.BuildError{ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("start builder %s: %w", b.cfg.Command, err)
	}
	return nil
}

// Close is a no-op; the builder holds no resources between builds.
func (b *Builder) Close() error {
	return nil
}
