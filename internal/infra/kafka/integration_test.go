//go:build integration

package kafka

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	kafkatc "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/kolharsam/inc/internal/domain/harness"
	"github.com/kolharsam/inc/internal/testhelpers"
)

func TestSubmitterAndConsumerAgainstKafka(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("skipping Kafka integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	kafkaContainer, err := kafkatc.Run(ctx, "confluentinc/confluent-local:7.7.0")
	if err != nil {
		t.Skipf("skipping Kafka integration test (requires Docker): %v", err)
	}
	t.Cleanup(func() {
		_ = kafkaContainer.Terminate(context.Background())
	})

	brokers, err := kafkaContainer.Brokers(ctx)
	if err != nil {
		t.Fatalf("failed to obtain bootstrap servers: %v", err)
	}
	if len(brokers) == 0 {
		t.Fatal("kafka provided zero bootstrap servers")
	}

	broker := brokers[0]
	topic := "suite-intake"

	if err := testhelpers.WaitForKafkaBroker(ctx, broker); err != nil {
		t.Fatalf("wait for broker: %v", err)
	}
	if err := testhelpers.EnsureKafkaTopic(ctx, broker, topic); err != nil {
		t.Fatalf("ensure topic: %v", err)
	}

	submitter, err := NewSubmitter(SubmitterConfig{
		Brokers: []string{broker},
		Topic:   topic,
	})
	if err != nil {
		t.Fatalf("NewSubmitter failed: %v", err)
	}
	defer submitter.Close()

	suite := harness.Suite{
		Name: "literals",
		Cases: []harness.TestCase{
			{Expr: "42", Kind: harness.KindString, Expected: "42\n"},
		},
	}

	if err := submitter.SubmitSuite(ctx, suite); err != nil {
		t.Fatalf("SubmitSuite returned error: %v", err)
	}
	if err := submitter.SubmitDone(ctx); err != nil {
		t.Fatalf("SubmitDone returned error: %v", err)
	}

	consumer, err := NewConsumer(Config{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: "integration-test",
	})
	if err != nil {
		t.Fatalf("NewConsumer failed: %v", err)
	}
	t.Cleanup(func() {
		_ = consumer.Close()
	})

	msgCtx, cancelRead := context.WithTimeout(ctx, 30*time.Second)
	defer cancelRead()

	got, err := consumer.NextSuite(msgCtx)
	if err != nil {
		t.Fatalf("NextSuite returned error: %v", err)
	}
	if got.Name != suite.Name {
		t.Fatalf("expected suite %q, got %q", suite.Name, got.Name)
	}
	if len(got.Cases) != 1 || got.Cases[0] != suite.Cases[0] {
		t.Fatalf("suite did not round-trip: %+v", got)
	}

	if _, err := consumer.NextSuite(msgCtx); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after the done marker, got %v", err)
	}
}
