package harness

// Compare checks captured output against the expectation for the case with
// the given id. Equality is exact: every character counts, nothing is
// trimmed or normalized.
func Compare(id int, expr, expected, actual string) error {
	if expected == actual {
		return nil
	}
	return &OutputMismatchError{
		TestID:   id,
		Expr:     expr,
		Expected: expected,
		Actual:   actual,
	}
}
