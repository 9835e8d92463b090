// Command denoise drives the external denoiser over a prepared input
// container. The default action runs prediction and reloads the separated
// tensors; "train" and "test" forward to the corresponding denoiser commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"seisprep/internal/config"
	"seisprep/internal/denoiser"
	"seisprep/internal/hdf5store"
	"seisprep/internal/observability"
	"seisprep/internal/pipeline"
)

func main() {
	action := "predict"
	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	runner := denoiser.NewProcessRunner(
		cfg.DenoiserPredictCmd,
		cfg.DenoiserTrainCmd,
		cfg.DenoiserTestCmd,
		cfg.DenoiserConfigDir,
		cfg.OutputContainer,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, action, cfg, runner, metrics, logger); err != nil {
		logger.Error("denoiser run failed", "action", action, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, action string, cfg *config.Config, runner *denoiser.ProcessRunner, metrics *observability.Metrics, logger *slog.Logger) error {
	switch action {
	case "predict":
		store := hdf5store.New(logger)
		if _, err := os.Stat(cfg.InputContainer); err != nil {
			return fmt.Errorf("input container %s: %w", cfg.InputContainer, err)
		}
		quake, noise, err := pipeline.Separate(ctx, runner, store, metrics, cfg.OutputContainer)
		if err != nil {
			return err
		}
		qs, qn, qc := quake.Shape()
		ns, nn, nc := noise.Shape()
		logger.Info("separation complete",
			"container", cfg.OutputContainer,
			"quake_shape", fmt.Sprintf("(%d,%d,%d)", qs, qn, qc),
			"noise_shape", fmt.Sprintf("(%d,%d,%d)", ns, nn, nc),
		)
		return nil
	case "train":
		return runner.Train(ctx)
	case "test":
		return runner.Test(ctx)
	default:
		return fmt.Errorf("unknown action %q (want predict, train, or test)", action)
	}
}
