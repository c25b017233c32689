// Package dockerbuild runs the external build step inside a container and
// installs the produced executable at the fixed host path. Only the build is
// containerized; the program under test still runs on the host with nothing
// but its stdout redirected.
package dockerbuild

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	specs "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/kolharsam/inc/internal/domain/harness"
	"github.com/kolharsam/inc/internal/ports"
)

// Config describes the containerized build environment.
type Config struct {
	Image        string
	Workdir      string
	BuildCommand []string
	// Platform optionally pins the image platform, e.g. "linux/amd64".
	Platform string
	// TimeLimit caps a single build. Zero means no limit.
	TimeLimit time.Duration

	// Artifact and Executable are the fixed host paths shared with the
	// pipeline: the artifact is copied into the container, the executable is
	// extracted back out.
	Artifact   string
	Executable string
}

// Builder builds the generated artifact in a fresh container per case.
type Builder struct {
	cli      dockerClient
	cfg      Config
	pullOnce sync.Once
	pullErr  error
}

var _ ports.Builder = (*Builder)(nil)

// New constructs a Builder using a Docker client from the environment.
func New(cfg Config) (*Builder, error) {
	builder, err := validate(cfg)
	if err != nil {
		return nil, err
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("dockerbuild: create client: %w", err)
	}

	builder.cli = cli
	return builder, nil
}

func newBuilderWithClient(cli dockerClient, cfg Config) (*Builder, error) {
	builder, err := validate(cfg)
	if err != nil {
		return nil, err
	}
	builder.cli = cli
	return builder, nil
}

func validate(cfg Config) (*Builder, error) {
	if cfg.Image == "" {
		return nil, fmt.Errorf("dockerbuild: image must be configured")
	}
	if len(cfg.BuildCommand) == 0 {
		return nil, fmt.Errorf("dockerbuild: build command must be configured")
	}
	if cfg.Artifact == "" || cfg.Executable == "" {
		return nil, fmt.Errorf("dockerbuild: artifact and executable paths must be configured")
	}
	if cfg.Workdir == "" {
		cfg.Workdir = "/build"
	}
	return &Builder{cfg: cfg}, nil
}

// Build copies the artifact into a fresh container, runs the build command
// to completion and extracts the executable back to the host. A non-zero
// exit surfaces as harness.BuildError carrying the build's stderr.
func (b *Builder) Build(ctx context.Context) error {
	if err := b.ensureImage(ctx); err != nil {
		return err
	}

	artifact, err := os.ReadFile(b.cfg.Artifact)
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", b.cfg.Artifact, err)
	}

	containerID, cleanup, err := b.createContainer(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	archive, err := makeArchive([]fileSpec{{
		Name: filepath.Base(b.cfg.Artifact),
		Mode: 0o644,
		Data: artifact,
	}})
	if err != nil {
		return err
	}
	if err := b.cli.CopyToContainer(ctx, containerID, b.cfg.Workdir, archive, types.CopyToContainerOptions{AllowOverwriteDirWithFile: true}); err != nil {
		return fmt.Errorf("copy artifact: %w", err)
	}

	if err := b.cli.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return fmt.Errorf("start container: %w", err)
	}

	waitCtx := ctx
	if b.cfg.TimeLimit > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, b.cfg.TimeLimit)
		defer cancel()
	}
	status, err := b.waitForExit(waitCtx, containerID)
	if err != nil {
		return err
	}

	if status.StatusCode != 0 {
		_, stderr, logErr := b.fetchLogs(ctx, containerID)
		if logErr != nil {
			stderr = ""
		}
		return &harness.BuildError{ExitCode: int(status.StatusCode), Stderr: stderr}
	}

	binaryPath := path.Join(b.cfg.Workdir, filepath.Base(b.cfg.Executable))
	binary, err := b.copyFileFromContainer(ctx, containerID, binaryPath)
	if err != nil {
		return fmt.Errorf("extract executable: %w", err)
	}

	if err := os.WriteFile(b.cfg.Executable, binary, 0o755); err != nil {
		return fmt.Errorf("install executable %s: %w", b.cfg.Executable, err)
	}
	return nil
}

// Close releases the Docker client.
func (b *Builder) Close() error {
	return b.cli.Close()
}

func (b *Builder) ensureImage(ctx context.Context) error {
	b.pullOnce.Do(func() {
		reader, err := b.cli.ImagePull(ctx, b.cfg.Image, image.PullOptions{})
		if err != nil {
			b.pullErr = fmt.Errorf("pull image %s: %w", b.cfg.Image, err)
			return
		}
		defer reader.Close()
		if _, err := io.Copy(io.Discard, reader); err != nil {
			b.pullErr = fmt.Errorf("consume pull output for %s: %w", b.cfg.Image, err)
		}
	})
	return b.pullErr
}

func (b *Builder) createContainer(ctx context.Context) (string, func(), error) {
	resp, err := b.cli.ContainerCreate(
		ctx,
		&container.Config{
			Image:        b.cfg.Image,
			Cmd:          b.cfg.BuildCommand,
			AttachStdout: true,
			AttachStderr: true,
			WorkingDir:   b.cfg.Workdir,
		},
		&container.HostConfig{},
		nil,
		b.platform(),
		"",
	)
	if err != nil {
		return "", nil, fmt.Errorf("create container: %w", err)
	}

	cleanup := func() {
		_ = b.cli.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true})
	}

	return resp.ID, cleanup, nil
}

func (b *Builder) platform() *specs.Platform {
	if b.cfg.Platform == "" {
		return nil
	}

	parts := strings.SplitN(b.cfg.Platform, "/", 2)
	platform := &specs.Platform{OS: parts[0]}
	if len(parts) == 2 {
		platform.Architecture = parts[1]
	}
	return platform
}

func (b *Builder) waitForExit(ctx context.Context, containerID string) (*container.WaitResponse, error) {
	statusCh, errCh := b.cli.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
	select {
	case status := <-statusCh:
		if status.Error != nil {
			return nil, fmt.Errorf("container error: %s", status.Error.Message)
		}
		return &status, nil
	case err := <-errCh:
		return nil, fmt.Errorf("wait for build container: %w", err)
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for build container: %w", ctx.Err())
	}
}

func (b *Builder) fetchLogs(ctx context.Context, containerID string) (stdout, stderr string, err error) {
	if ctx.Err() != nil {
		ctx = context.Background()
	}

	logs, err := b.cli.ContainerLogs(ctx, containerID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", "", err
	}
	defer logs.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdoutBuf, &stderrBuf, logs); err != nil {
		return "", "", fmt.Errorf("demultiplex logs: %w", err)
	}
	return stdoutBuf.String(), stderrBuf.String(), nil
}

func (b *Builder) copyFileFromContainer(ctx context.Context, containerID, sourcePath string) ([]byte, error) {
	reader, _, err := b.cli.CopyFromContainer(ctx, containerID, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("copy from container: %w", err)
	}
	defer reader.Close()

	return extractFile(reader, sourcePath)
}
