// Package denoiser invokes the external separation model as opaque
// subprocesses. The executables read everything they need from a config.ini
// owned by the model, not by this repository; the only contract is file
// handoff: the input container must exist before Predict and the output
// container must exist after it.
package denoiser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"seisprep/internal/domain"
)

// ProcessRunner implements domain.Denoiser by spawning the collaborator
// executables and waiting for exit. No IPC beyond the container files.
type ProcessRunner struct {
	predictCmd string
	trainCmd   string
	testCmd    string
	workDir    string // directory holding config.ini
	outputPath string // container Predict must produce
	logger     *slog.Logger
}

// NewProcessRunner creates the subprocess adapter. workDir is where
// config.ini lives and becomes the process working directory; outputPath is
// the separated container Predict is expected to write.
func NewProcessRunner(predictCmd, trainCmd, testCmd, workDir, outputPath string, logger *slog.Logger) *ProcessRunner {
	return &ProcessRunner{
		predictCmd: predictCmd,
		trainCmd:   trainCmd,
		testCmd:    testCmd,
		workDir:    workDir,
		outputPath: outputPath,
		logger:     logger,
	}
}

// Predict runs the inference executable and verifies the output container
// exists afterwards.
func (r *ProcessRunner) Predict(ctx context.Context) error {
	if err := r.run(ctx, r.predictCmd); err != nil {
		return err
	}
	if _, err := os.Stat(r.outputPath); err != nil {
		return fmt.Errorf("%s produced no output container at %s: %w", r.predictCmd, r.outputPath, domain.ErrExternalProcess)
	}
	return nil
}

// Train runs the training executable.
func (r *ProcessRunner) Train(ctx context.Context) error {
	return r.run(ctx, r.trainCmd)
}

// Test runs the evaluation executable.
func (r *ProcessRunner) Test(ctx context.Context) error {
	return r.run(ctx, r.testCmd)
}

func (r *ProcessRunner) run(ctx context.Context, command string) error {
	if command == "" {
		return fmt.Errorf("no command configured: %w", domain.ErrExternalProcess)
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, command)
	cmd.Dir = r.workDir
	out, err := cmd.CombinedOutput()
	elapsed := time.Since(start)

	if err != nil {
		r.logger.Error("denoiser process failed",
			"command", command,
			"elapsed", elapsed,
			"output", strings.TrimSpace(string(out)),
			"error", err,
		)
		return fmt.Errorf("%s: %w: %w", command, err, domain.ErrExternalProcess)
	}

	r.logger.Info("denoiser process finished",
		"command", command,
		"elapsed", elapsed,
	)
	return nil
}
