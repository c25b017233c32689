package harness

import (
	"errors"
	"testing"
)

func TestRegistryPreservesRegistrationOrder(t *testing.T) {
	t.Parallel()

	builder := NewBuilder()

	first := []TestCase{
		{Expr: "1", Kind: KindString, Expected: "1\n"},
		{Expr: "2", Kind: KindString, Expected: "2\n"},
	}
	second := []TestCase{
		{Expr: "(add 1 2)", Kind: KindString, Expected: "3\n"},
	}

	if err := builder.RegisterSuite("literals", first...); err != nil {
		t.Fatalf("RegisterSuite returned error: %v", err)
	}
	if err := builder.RegisterSuite("arithmetic", second...); err != nil {
		t.Fatalf("RegisterSuite returned error: %v", err)
	}

	registry := builder.Build()
	suites := registry.Suites()

	if len(suites) != 2 {
		t.Fatalf("expected 2 suites, got %d", len(suites))
	}
	if suites[0].Name != "literals" || suites[1].Name != "arithmetic" {
		t.Fatalf("unexpected suite order: %q, %q", suites[0].Name, suites[1].Name)
	}
	if suites[0].Cases[0].Expr != "1" || suites[0].Cases[1].Expr != "2" {
		t.Fatalf("unexpected case order in first suite: %+v", suites[0].Cases)
	}
	if registry.Len() != 3 {
		t.Fatalf("expected total of 3 cases, got %d", registry.Len())
	}
}

func TestRegisterSuiteAfterBuildIsRejected(t *testing.T) {
	t.Parallel()

	builder := NewBuilder()
	if err := builder.RegisterSuite("literals", TestCase{Expr: "42", Kind: KindString, Expected: "42\n"}); err != nil {
		t.Fatalf("RegisterSuite returned error: %v", err)
	}

	_ = builder.Build()

	err := builder.RegisterSuite("late", TestCase{Expr: "7", Kind: KindString, Expected: "7\n"})
	if !errors.Is(err, ErrRegistryFrozen) {
		t.Fatalf("expected ErrRegistryFrozen, got %v", err)
	}
}

func TestRegisterSuiteCopiesCases(t *testing.T) {
	t.Parallel()

	cases := []TestCase{{Expr: "42", Kind: KindString, Expected: "42\n"}}

	builder := NewBuilder()
	if err := builder.RegisterSuite("literals", cases...); err != nil {
		t.Fatalf("RegisterSuite returned error: %v", err)
	}

	cases[0].Expr = "mutated"

	registry := builder.Build()
	if got := registry.Suites()[0].Cases[0].Expr; got != "42" {
		t.Fatalf("registered case was mutated through the caller's slice: %q", got)
	}
}

func TestRegistrationPerformsNoKindValidation(t *testing.T) {
	t.Parallel()

	builder := NewBuilder()
	if err := builder.RegisterSuite("binary", TestCase{Expr: "42", Kind: OutputKind("binary"), Expected: ""}); err != nil {
		t.Fatalf("expected unknown kind to be accepted at registration, got %v", err)
	}
}
