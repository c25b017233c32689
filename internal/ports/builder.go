package ports

import "context"

// Builder turns the generated artifact file into an executable. The builder
// locates the artifact itself via its working-directory convention; success
// means exit code zero.
type Builder interface {
	Build(ctx context.Context) error
	Close() error
}
