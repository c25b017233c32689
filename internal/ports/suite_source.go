package ports

import (
	"context"

	"github.com/kolharsam/inc/internal/domain/harness"
)

// SuiteSource provides test suites for registration during the setup phase.
// Implementations signal completion by returning io.EOF.
type SuiteSource interface {
	NextSuite(ctx context.Context) (harness.Suite, error)
	Close() error
}
