// Package bb drives the Barretenberg command line prover.
package bb

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrCommandFailed = errors.New("bb command failed")

// Runner is the subset of bb the verifier relies on.
type Runner interface {
	// Verify checks the proof against the verification key.
	Verify(ctx context.Context, proofPath, vkPath string) error
	// ProofAsFields writes the proof's public inputs to outputPath as a JSON
	// array of field element strings.
	ProofAsFields(ctx context.Context, proofPath, vkPath, outputPath string) error
}

type CommandRunner struct {
	Binary  string
	Timeout time.Duration
	Logger  zerolog.Logger
}

func NewCommandRunner(binary string, timeout time.Duration) *CommandRunner {
	return &CommandRunner{
		Binary:  binary,
		Timeout: timeout,
		Logger:  log.With().Str("component", "bb").Logger(),
	}
}

// newExecCommand creates an exec.Cmd; replaced in tests.
var newExecCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

func (r *CommandRunner) Verify(ctx context.Context, proofPath, vkPath string) error {
	return r.run(ctx, "verify", "-p", proofPath, "-k", vkPath)
}

func (r *CommandRunner) ProofAsFields(ctx context.Context, proofPath, vkPath, outputPath string) error {
	return r.run(ctx, "proof_as_fields", "-p", proofPath, "-k", vkPath, "-o", outputPath)
}

func (r *CommandRunner) run(ctx context.Context, args ...string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := newExecCommand(ctx, r.Binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to open stderr: %w", err)
	}

	r.Logger.Debug().Strs("args", args).Msg("Running " + r.Binary)
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", r.Binary, err)
	}

	var g errgroup.Group
	g.Go(func() error { return r.pump(stdout, zerolog.InfoLevel) })
	g.Go(func() error { return r.pump(stderr, zerolog.WarnLevel) })
	pumpErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with code %d", ErrCommandFailed, args[0], exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run %s %s: %w", r.Binary, args[0], err)
	}
	if pumpErr != nil {
		return fmt.Errorf("failed to read %s output: %w", r.Binary, pumpErr)
	}
	r.Logger.Debug().Msg("Successfully ran " + args[0] + ", time: " + time.Since(start).String())
	return nil
}

// maxLogLine bounds a single logged line of bb output.
const maxLogLine = 1 << 20

// pump logs rd line by line. The pipe is always drained to EOF, otherwise bb
// blocks on a full pipe and only the timeout ends it.
func (r *CommandRunner) pump(rd io.Reader, level zerolog.Level) error {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLine)
	for scanner.Scan() {
		r.Logger.WithLevel(level).Msg(scanner.Text())
	}
	err := scanner.Err()
	if err == nil {
		return nil
	}
	n, copyErr := io.Copy(io.Discard, rd)
	if errors.Is(err, bufio.ErrTooLong) {
		r.Logger.Warn().Int("limit", maxLogLine).Int64("discarded", n).Msg("bb output line too long, discarding the rest")
		return copyErr
	}
	return err
}
