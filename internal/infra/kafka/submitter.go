package kafka

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kolharsam/inc/internal/domain/harness"
)

// SubmitterConfig configures the Kafka-based suite submitter.
type SubmitterConfig struct {
	Brokers []string
	Topic   string
}

// Submitter publishes test suites to the intake topic. The harness on the
// consuming side registers them before its run phase begins.
type Submitter struct {
	writer messageWriter
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewSubmitter constructs a Submitter using the supplied configuration.
func NewSubmitter(cfg SubmitterConfig) (*Submitter, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker must be provided")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic must be provided")
	}

	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		AllowAutoTopicCreation: true,
		Balancer:               &kafkago.LeastBytes{},
		RequiredAcks:           kafkago.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
	}

	return newSubmitter(writer), nil
}

func newSubmitter(writer messageWriter) *Submitter {
	return &Submitter{writer: writer}
}

// SubmitSuite serializes and writes the suite, keyed by its name.
func (s *Submitter) SubmitSuite(ctx context.Context, suite harness.Suite) error {
	payload, err := encodeSuite(suite)
	if err != nil {
		return err
	}

	msg := kafkago.Message{
		Key:   []byte(suite.Name),
		Value: payload,
		Time:  time.Now(),
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// SubmitDone writes the done marker that ends intake on the consuming side.
func (s *Submitter) SubmitDone(ctx context.Context) error {
	payload, err := encodeDone()
	if err != nil {
		return err
	}

	if err := s.writer.WriteMessages(ctx, kafkago.Message{Value: payload, Time: time.Now()}); err != nil {
		return fmt.Errorf("write done marker: %w", err)
	}
	return nil
}

// Close releases the underlying Kafka writer.
func (s *Submitter) Close() error {
	return s.writer.Close()
}
