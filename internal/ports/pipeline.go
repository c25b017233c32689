package ports

import "context"

// Pipeline drives a single test case through its stages. Each case's
// artifacts must be fully consumed before the next case's CompileProgram
// begins; implementations share fixed artifact paths.
type Pipeline interface {
	CompileProgram(ctx context.Context, expr string) error
	Build(ctx context.Context) error
	Execute(ctx context.Context) error
	ReadCaptured() (string, error)
}
