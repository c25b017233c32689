package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kolharsam/inc/internal/pipeline"
)

const (
	defaultBuilderCommand = "make"
	defaultBuildWorkdir   = "/build"
	defaultKafkaTopic     = "suites"
	defaultKafkaGroupID   = "inc-harness"
)

type appConfig struct {
	CompilerCommand string
	CompilerArgs    []string

	BuilderCommand string
	BuilderArgs    []string

	BuildImage     string
	BuildWorkdir   string
	BuildPlatform  string
	BuildTimeLimit time.Duration

	Paths pipeline.Paths

	SuitesFile   string
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
	MaxSuites    int
}

func loadAppConfig() appConfig {
	defaults := pipeline.DefaultPaths()

	return appConfig{
		CompilerCommand: os.Getenv("COMPILER_CMD"),
		CompilerArgs:    parseArgList(os.Getenv("COMPILER_ARGS")),
		BuilderCommand:  envOrDefault("BUILDER_CMD", defaultBuilderCommand),
		BuilderArgs:     parseArgList(os.Getenv("BUILDER_ARGS")),
		BuildImage:      os.Getenv("BUILD_IMAGE"),
		BuildWorkdir:    envOrDefault("BUILD_WORKDIR", defaultBuildWorkdir),
		BuildPlatform:   os.Getenv("BUILD_PLATFORM"),
		BuildTimeLimit:  parseDuration(os.Getenv("BUILD_TIME_LIMIT"), 0),
		Paths: pipeline.Paths{
			Artifact:   envOrDefault("ARTIFACT_FILE", defaults.Artifact),
			Executable: envOrDefault("EXECUTABLE_FILE", defaults.Executable),
			Capture:    envOrDefault("CAPTURE_FILE", defaults.Capture),
		},
		SuitesFile:   os.Getenv("SUITES_FILE"),
		KafkaBrokers: parseBrokerList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", defaultKafkaTopic),
		KafkaGroupID: envOrDefault("KAFKA_GROUP_ID", defaultKafkaGroupID),
		MaxSuites:    parseMaxSuites(os.Getenv("SUITES_EXPECTED")),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
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

func parseArgList(raw string) []string {
	return strings.Fields(raw)
}

func parseMaxSuites(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
