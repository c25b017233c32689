package intake

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/kolharsam/inc/internal/domain/harness"
)

type sequenceSource struct {
	suites []harness.Suite
	index  int
	err    error
}

func (s *sequenceSource) NextSuite(ctx context.Context) (harness.Suite, error) {
	if s.index >= len(s.suites) {
		if s.err != nil {
			return harness.Suite{}, s.err
		}
		return harness.Suite{}, io.EOF
	}

	suite := s.suites[s.index]
	s.index++
	return suite, nil
}

func (s *sequenceSource) Close() error { return nil }

func sampleSuites() []harness.Suite {
	return []harness.Suite{
		{Name: "literals", Cases: []harness.TestCase{{Expr: "1", Kind: harness.KindString, Expected: "1\n"}}},
		{Name: "arithmetic", Cases: []harness.TestCase{{Expr: "(add 1 2)", Kind: harness.KindString, Expected: "3\n"}}},
	}
}

func TestDrainRegistersUntilEOF(t *testing.T) {
	t.Parallel()

	source := &sequenceSource{suites: sampleSuites()}
	builder := harness.NewBuilder()

	registered, err := Drain(context.Background(), source, builder, 0)
	if err != nil {
		t.Fatalf("Drain returned error: %v", err)
	}
	if registered != 2 {
		t.Fatalf("expected 2 suites registered, got %d", registered)
	}

	suites := builder.Build().Suites()
	if suites[0].Name != "literals" || suites[1].Name != "arithmetic" {
		t.Fatalf("suites registered out of order: %+v", suites)
	}
}

func TestDrainHonorsSuiteCap(t *testing.T) {
	t.Parallel()

	source := &sequenceSource{suites: sampleSuites()}
	builder := harness.NewBuilder()

	registered, err := Drain(context.Background(), source, builder, 1)
	if err != nil {
		t.Fatalf("Drain returned error: %v", err)
	}
	if registered != 1 {
		t.Fatalf("expected 1 suite registered, got %d", registered)
	}
}

func TestDrainPropagatesSourceErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker unreachable")
	source := &sequenceSource{suites: sampleSuites()[:1], err: boom}
	builder := harness.NewBuilder()

	registered, err := Drain(context.Background(), source, builder, 0)
	if !errors.Is(err, boom) {
		t.Fatalf("expected the source error, got %v", err)
	}
	if registered != 1 {
		t.Fatalf("expected 1 suite registered before the error, got %d", registered)
	}
}

func TestDrainStopsCleanlyOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &cancelAwareSource{}
	builder := harness.NewBuilder()

	registered, err := Drain(ctx, source, builder, 0)
	if err != nil {
		t.Fatalf("Drain returned error on cancellation: %v", err)
	}
	if registered != 0 {
		t.Fatalf("expected no suites registered, got %d", registered)
	}
}

func TestDrainFailsOnFrozenBuilder(t *testing.T) {
	t.Parallel()

	source := &sequenceSource{suites: sampleSuites()}
	builder := harness.NewBuilder()
	_ = builder.Build()

	_, err := Drain(context.Background(), source, builder, 0)
	if !errors.Is(err, harness.ErrRegistryFrozen) {
		t.Fatalf("expected ErrRegistryFrozen, got %v", err)
	}
}

type cancelAwareSource struct{}

func (s *cancelAwareSource) NextSuite(ctx context.Context) (harness.Suite, error) {
	return harness.Suite{}, ctx.Err()
}

func (s *cancelAwareSource) Close() error { return nil }
