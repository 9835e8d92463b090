// Command prepare runs one data-preparation pass: it selects an event from
// the catalog, fetches and conditions waveforms for the configured stations,
// and writes the input container for the external denoiser.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "seisprep/internal/adapter/http"
	kafkaadapter "seisprep/internal/adapter/kafka"
	"seisprep/internal/config"
	"seisprep/internal/domain"
	"seisprep/internal/fdsn"
	"seisprep/internal/hdf5store"
	"seisprep/internal/observability"
	"seisprep/internal/pipeline"
	"seisprep/internal/traveltime"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	catalogStart, catalogEnd, err := cfg.CatalogRange()
	if err != nil {
		logger.Error("invalid catalog range", "error", err)
		os.Exit(1)
	}

	events := fdsn.NewEventClient(cfg.EventServiceURL, cfg.ServiceTimeout, logger)
	stations := fdsn.NewStationClient(cfg.StationServiceURL, cfg.ServiceTimeout, logger)
	waveforms := fdsn.NewWaveformClient(cfg.WaveformServiceURL, cfg.ServiceTimeout,
		cfg.TargetSampleRate, cfg.LowpassCutoff, logger)
	store := hdf5store.New(logger)

	// Report publishing is feature-flagged via KAFKA_BROKERS.
	var reports domain.ReportSink
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		reports = writer
		logger.Info("run report publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("run report publishing disabled")
	}

	p := pipeline.New(
		events,
		stations,
		waveforms,
		traveltime.NewModel(),
		store,
		reports,
		logger,
		metrics,
		pipeline.Settings{
			Stations:       cfg.StationList(),
			LocationCode:   cfg.LocationCode,
			ChannelPattern: cfg.ChannelPattern,
			Criteria: domain.EventCriteria{
				Start:        catalogStart,
				End:          catalogEnd,
				MinMagnitude: cfg.MinMagnitude,
				MaxMagnitude: cfg.MaxMagnitude,
				MinDepthKm:   cfg.MinDepthKm,
				MaxDepthKm:   cfg.MaxDepthKm,
			},
			PreArrivalSeconds:  cfg.PreArrivalSeconds,
			PostArrivalSeconds: cfg.PostArrivalSeconds,
			TargetSamples:      cfg.TargetSamples,
			InputContainer:     cfg.InputContainer,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The metrics server is optional; it only makes sense when the run is
	// driven by an orchestrator that scrapes it.
	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, p, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	report, err := p.Run(ctx)
	if err != nil {
		logger.Error("preparation run failed", "error", err)
		shutdown(srv, logger)
		os.Exit(1)
	}

	logger.Info("container ready",
		"container", report.ContainerPath,
		"stations_kept", report.KeptStations,
		"target_samples", report.TargetSamples,
	)
	shutdown(srv, logger)
}

func shutdown(srv *httpadapter.Server, logger *slog.Logger) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
}
