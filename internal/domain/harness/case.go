// Package harness defines the value types and error taxonomy shared by the
// test pipeline, the registry and the runner.
package harness

// OutputKind selects how a test case's result is captured and checked.
type OutputKind string

// KindString compares the program's captured stdout against the expected
// text verbatim. It is the only kind recognized today; anything else is
// rejected by the runner, not at registration time.
const KindString OutputKind = "string"

// TestCase pairs a source-level expression with the exact output its
// compiled program must produce. A TestCase is immutable once created.
type TestCase struct {
	Expr     string
	Kind     OutputKind
	Expected string
}

// Suite is a named, ordered group of test cases registered together.
// Cases execute in the order given at registration.
type Suite struct {
	Name  string
	Cases []TestCase
}
