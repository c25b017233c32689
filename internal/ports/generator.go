package ports

import (
	"context"
	"io"
)

// CodeGenerator translates a source-level expression into target-language
// text on out. The harness never interprets the generated text; it only
// reads back the built program's runtime output.
type CodeGenerator interface {
	Emit(ctx context.Context, expr string, out io.Writer) error
}
