// Command incsubmit reads a suite catalogue file and publishes each suite to
// the intake topic, followed by the done marker that ends registration on
// the consuming harness.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	kafkainfra "github.com/kolharsam/inc/internal/infra/kafka"
	"github.com/kolharsam/inc/internal/infra/suitefile"
)

const defaultKafkaTopic = "suites"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := os.Getenv("SUITES_FILE")
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		log.Fatalf("no suite file given (pass a path or set SUITES_FILE)")
	}

	brokers := parseBrokerList(os.Getenv("KAFKA_BROKERS"))
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = defaultKafkaTopic
	}

	source, err := suitefile.Load(path)
	if err != nil {
		log.Fatalf("failed to load suites: %v", err)
	}

	submitter, err := kafkainfra.NewSubmitter(kafkainfra.SubmitterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	if err != nil {
		log.Fatalf("failed to initialize submitter: %v", err)
	}
	defer func() {
		if cerr := submitter.Close(); cerr != nil {
			log.Printf("warning: failed to close submitter: %v", cerr)
		}
	}()

	submitted := 0
	for {
		suite, err := source.NextSuite(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			log.Fatalf("failed to read next suite: %v", err)
		}

		if err := submitter.SubmitSuite(ctx, suite); err != nil {
			log.Fatalf("failed to submit suite %q: %v", suite.Name, err)
		}
		submitted++
	}

	if err := submitter.SubmitDone(ctx); err != nil {
		log.Fatalf("failed to submit done marker: %v", err)
	}

	log.Printf("submitted %d suite(s) to %s", submitted, topic)
}

func parseBrokerList(raw string) []string {
	fields := strings.Split(raw, ",")
	brokers := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}
