// Command inctest runs every registered test suite against the compiler
// toolchain: generate code for each expression, build it, execute it and
// compare the captured output byte for byte. The run stops at the first
// failure.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kolharsam/inc/internal/app/intake"
	"github.com/kolharsam/inc/internal/app/runner"
	"github.com/kolharsam/inc/internal/domain/harness"
	"github.com/kolharsam/inc/internal/emit"
	"github.com/kolharsam/inc/internal/infra/compiler"
	kafkainfra "github.com/kolharsam/inc/internal/infra/kafka"
	"github.com/kolharsam/inc/internal/infra/suitefile"
	"github.com/kolharsam/inc/internal/pipeline"
	"github.com/kolharsam/inc/internal/ports"
	"github.com/kolharsam/inc/internal/toolchain/dockerbuild"
	"github.com/kolharsam/inc/internal/toolchain/local"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := loadAppConfig()

	generator, err := compiler.NewCommand(cfg.CompilerCommand, cfg.CompilerArgs...)
	if err != nil {
		log.Fatalf("failed to initialize code generator: %v (set COMPILER_CMD)", err)
	}

	builder, err := newBuilder(cfg)
	if err != nil {
		log.Fatalf("failed to initialize builder: %v", err)
	}
	defer func() {
		if cerr := builder.Close(); cerr != nil {
			log.Printf("warning: failed to close builder: %v", cerr)
		}
	}()

	registry, err := loadRegistry(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to register suites: %v", err)
	}
	if registry.Len() == 0 {
		log.Fatalf("no test cases registered (set SUITES_FILE or KAFKA_BROKERS)")
	}

	p := pipeline.New(generator, builder, emit.New(os.Stdout), cfg.Paths)
	service := runner.NewService(p, os.Stdout)

	if err := service.RunAll(ctx, registry); err != nil {
		log.Fatalf("run aborted: %v", err)
	}
}

func newBuilder(cfg appConfig) (ports.Builder, error) {
	if cfg.BuildImage != "" {
		return dockerbuild.New(dockerbuild.Config{
			Image:        cfg.BuildImage,
			Workdir:      cfg.BuildWorkdir,
			BuildCommand: append([]string{cfg.BuilderCommand}, cfg.BuilderArgs...),
			Platform:     cfg.BuildPlatform,
			TimeLimit:    cfg.BuildTimeLimit,
			Artifact:     cfg.Paths.Artifact,
			Executable:   cfg.Paths.Executable,
		})
	}

	return local.New(local.Config{Command: cfg.BuilderCommand, Args: cfg.BuilderArgs}), nil
}

func loadRegistry(ctx context.Context, cfg appConfig) (*harness.Registry, error) {
	source, err := newSuiteSource(cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := source.Close(); cerr != nil {
			log.Printf("warning: failed to close suite source: %v", cerr)
		}
	}()

	builder := harness.NewBuilder()
	registered, err := intake.Drain(ctx, source, builder, cfg.MaxSuites)
	if err != nil {
		return nil, err
	}

	log.Printf("registered %d suite(s)", registered)
	return builder.Build(), nil
}

func newSuiteSource(cfg appConfig) (ports.SuiteSource, error) {
	if len(cfg.KafkaBrokers) > 0 {
		return kafkainfra.NewConsumer(kafkainfra.Config{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			GroupID: cfg.KafkaGroupID,
		})
	}
	if cfg.SuitesFile != "" {
		return suitefile.Load(cfg.SuitesFile)
	}
	return nil, fmt.Errorf("no suite source configured")
}
