// Package runner walks a frozen registry, drives the pipeline per case and
// reports progress.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kolharsam/inc/internal/domain/harness"
	"github.com/kolharsam/inc/internal/ports"
)

// Service executes every registered case strictly in order, one at a time,
// stopping the whole run at the first failure. Nothing is caught or retried;
// the first error unwinds to the caller untouched.
type Service struct {
	pipeline ports.Pipeline
	out      io.Writer
}

// NewService constructs a Service reporting to out (stdout when nil).
func NewService(pipeline ports.Pipeline, out io.Writer) *Service {
	if out == nil {
		out = os.Stdout
	}
	return &Service{pipeline: pipeline, out: out}
}

// RunAll drives the full registry in registration order, keeping a single
// running counter across suites. On full success it prints the final
// summary.
func (s *Service) RunAll(ctx context.Context, registry *harness.Registry) error {
	id := 0
	for _, suite := range registry.Suites() {
		fmt.Fprintf(s.out, "Suite %s:\n", suite.Name)
		for _, testCase := range suite.Cases {
			id++
			if err := s.RunOne(ctx, id, testCase); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(s.out, "Passed all %d tests\n", id)
	return nil
}

// RunOne executes a single case under the given id. It doubles as the entry
// point for isolating one failing case.
func (s *Service) RunOne(ctx context.Context, id int, testCase harness.TestCase) error {
	fmt.Fprintf(s.out, "Test %d: %s ...", id, testCase.Expr)

	if err := s.runCase(ctx, id, testCase); err != nil {
		fmt.Fprintln(s.out)
		return err
	}

	fmt.Fprintln(s.out, " ok")
	return nil
}

func (s *Service) runCase(ctx context.Context, id int, testCase harness.TestCase) error {
	// Kind is validated here, not at registration, so an invalid case fails
	// before any compilation happens.
	if testCase.Kind != harness.KindString {
		return &harness.InvalidTestKindError{TestID: id, Kind: testCase.Kind}
	}

	if err := s.pipeline.CompileProgram(ctx, testCase.Expr); err != nil {
		return err
	}
	if err := s.pipeline.Build(ctx); err != nil {
		return err
	}
	if err := s.pipeline.Execute(ctx); err != nil {
		return err
	}

	actual, err := s.pipeline.ReadCaptured()
	if err != nil {
		return err
	}

	return harness.Compare(id, testCase.Expr, testCase.Expected, actual)
}
