// Package intake registers suites arriving from a suite source during the
// setup phase, before the run phase begins.
package intake

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kolharsam/inc/internal/domain/harness"
	"github.com/kolharsam/inc/internal/ports"
)

// Drain pulls suites from source and registers them on builder until the
// source reports io.EOF, the context ends, or maxSuites (when positive) is
// reached. It returns the number of suites registered.
func Drain(ctx context.Context, source ports.SuiteSource, builder *harness.Builder, maxSuites int) (int, error) {
	registered := 0
	for {
		if maxSuites > 0 && registered >= maxSuites {
			return registered, nil
		}

		suite, err := source.NextSuite(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return registered, nil
			}
			return registered, fmt.Errorf("next suite: %w", err)
		}

		if err := builder.RegisterSuite(suite.Name, suite.Cases...); err != nil {
			return registered, err
		}
		registered++
	}
}
