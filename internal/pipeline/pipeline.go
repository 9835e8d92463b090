// Package pipeline orchestrates one preparation run: select an event, walk
// the station list sequentially, window each station on its predicted
// arrival, and persist the assembled tensor for the external denoiser.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"seisprep/internal/domain"
	"seisprep/internal/observability"
	"seisprep/internal/traveltime"
)

// Settings is the run configuration handed in by the caller. The pipeline
// reads no ambient state.
type Settings struct {
	Stations       []string // NET.STA pairs, processed in order
	LocationCode   string
	ChannelPattern string

	Criteria domain.EventCriteria

	PreArrivalSeconds  float64
	PostArrivalSeconds float64
	TargetSamples      int

	InputContainer string
}

// Pipeline wires the collaborators for a run.
type Pipeline struct {
	events    domain.EventSource
	stations  domain.StationSource
	waveforms domain.WaveformSource
	arrivals  domain.TravelTimeModel
	store     domain.Store
	reports   domain.ReportSink // nil disables publishing

	logger     *slog.Logger
	metrics    *observability.Metrics
	settings   Settings
	ready      atomic.Bool
	lastReport atomic.Pointer[domain.RunReport]
}

// New creates a Pipeline. reports may be nil.
func New(
	events domain.EventSource,
	stations domain.StationSource,
	waveforms domain.WaveformSource,
	arrivals domain.TravelTimeModel,
	store domain.Store,
	reports domain.ReportSink,
	logger *slog.Logger,
	metrics *observability.Metrics,
	settings Settings,
) *Pipeline {
	return &Pipeline{
		events:    events,
		stations:  stations,
		waveforms: waveforms,
		arrivals:  arrivals,
		store:     store,
		reports:   reports,
		logger:    logger,
		metrics:   metrics,
		settings:  settings,
	}
}

// CheckReadiness returns nil once a run has produced a container.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no completed preparation run yet")
	}
	return nil
}

// LastReport returns the report of the most recent successful run.
func (p *Pipeline) LastReport() (domain.RunReport, bool) {
	r := p.lastReport.Load()
	if r == nil {
		return domain.RunReport{}, false
	}
	return *r, true
}

// Run executes one preparation pass.
//
// Setup failures (empty catalog, catalog service down) abort; per-station
// failures are logged, counted, and skipped, so the batch survives any
// single station. The run fails when zero stations survive: an empty tensor
// is useless to the denoiser and writing one would mask the real problem.
func (p *Pipeline) Run(ctx context.Context) (domain.RunReport, error) {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	event, err := p.events.SelectEvent(ctx, p.settings.Criteria)
	if err != nil {
		return domain.RunReport{}, fmt.Errorf("select event: %w", err)
	}

	report := domain.NewRunReport(event, p.settings.TargetSamples)
	p.logger.Info("run started",
		"run_id", report.RunID,
		"event_id", event.ID,
		"magnitude", event.Magnitude,
		"stations_requested", len(p.settings.Stations),
	)

	traces := make([]domain.RawTrace, 0, len(p.settings.Stations))
	for _, pair := range p.settings.Stations {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		trace, result, skipReason := p.processStation(ctx, event, pair)
		if skipReason != "" {
			p.logger.Warn("station skipped",
				"station", pair,
				"reason", skipReason,
			)
			p.metrics.StationsSkipped.WithLabelValues(skipReason).Inc()
			report.Skip(result, skipReason)
			continue
		}

		p.metrics.StationsFetched.Inc()
		report.Keep(result)
		traces = append(traces, trace)
	}

	if len(traces) == 0 {
		report.Finish()
		return report, fmt.Errorf("run %s: all %d stations skipped", report.RunID, len(p.settings.Stations))
	}

	tensor := domain.BuildTensor(traces, p.settings.TargetSamples)
	p.metrics.TensorStations.Set(float64(tensor.Stations))

	if err := p.store.Save(p.settings.InputContainer, map[string]domain.Tensor{
		domain.DatasetQuake: tensor,
	}); err != nil {
		report.Finish()
		return report, fmt.Errorf("persist input container: %w", err)
	}
	p.metrics.ContainersWritten.Inc()

	report.ContainerPath = p.settings.InputContainer
	report.Finish()
	p.lastReport.Store(&report)
	p.ready.Store(true)

	p.logger.Info("run finished",
		"run_id", report.RunID,
		"stations_kept", report.KeptStations,
		"container", report.ContainerPath,
	)

	p.publish(ctx, report)
	return report, nil
}

// processStation runs one station through lookup, arrival estimate, fetch
// and validation.
// Returns a non-empty skip reason instead of an error: per-station failures
// are data, not control flow, at this level.
func (p *Pipeline) processStation(ctx context.Context, event domain.Event, pair string) (domain.RawTrace, domain.StationResult, string) {
	start := time.Now()
	defer func() {
		p.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}()

	network, code, err := splitStationPair(pair)
	result := domain.StationResult{Network: network, Station: code}
	if err != nil {
		return domain.RawTrace{}, result, domain.SkipDataSource
	}

	station, err := p.stations.LookupStation(ctx, network, code)
	if err != nil {
		return domain.RawTrace{}, result, domain.SkipDataSource
	}

	dist := traveltime.Distance(event.Latitude, event.Longitude, station.Latitude, station.Longitude)
	result.DistanceDeg = dist

	arrivalSecs, err := p.arrivals.FirstArrival(event.DepthKm, dist)
	if err != nil {
		return domain.RawTrace{}, result, domain.SkipNoArrival
	}

	window := domain.ArrivalWindow{
		Arrival:     event.OriginTime.Add(time.Duration(arrivalSecs * float64(time.Second))),
		PreSeconds:  p.settings.PreArrivalSeconds,
		PostSeconds: p.settings.PostArrivalSeconds,
	}
	result.Arrival = window.Arrival

	query := domain.StationQuery{
		Network:        network,
		Station:        code,
		Location:       p.settings.LocationCode,
		ChannelPattern: p.settings.ChannelPattern,
	}
	trace, err := p.waveforms.FetchWindow(ctx, query, window.Start(), window.End())
	switch {
	case errors.Is(err, domain.ErrComponentCount):
		return domain.RawTrace{}, result, domain.SkipComponentCount
	case err != nil:
		return domain.RawTrace{}, result, domain.SkipDataSource
	}

	if err := domain.CheckTrace(trace, p.settings.TargetSamples); err != nil {
		reason := domain.SkipShortTrace
		if errors.Is(err, domain.ErrComponentCount) {
			reason = domain.SkipComponentCount
		}
		return domain.RawTrace{}, result, reason
	}

	return trace, result, ""
}

// Separate invokes the external denoiser on the persisted input container
// and reloads the separated tensors from outputPath.
func Separate(ctx context.Context, d domain.Denoiser, store domain.Store, metrics *observability.Metrics, outputPath string) (quake, noise domain.Tensor, err error) {
	start := time.Now()
	if err := d.Predict(ctx); err != nil {
		return domain.Tensor{}, domain.Tensor{}, err
	}
	metrics.DenoiserDuration.Observe(time.Since(start).Seconds())

	datasets, err := store.Load(outputPath, domain.DatasetQuake, domain.DatasetNoise)
	if err != nil {
		return domain.Tensor{}, domain.Tensor{}, fmt.Errorf("reload separated container: %w", err)
	}
	return datasets[domain.DatasetQuake], datasets[domain.DatasetNoise], nil
}

func (p *Pipeline) publish(ctx context.Context, report domain.RunReport) {
	if p.reports == nil {
		return
	}
	if err := p.reports.Publish(ctx, report); err != nil {
		p.logger.Warn("run report publish failed", "run_id", report.RunID, "error", err)
	}
}

func splitStationPair(pair string) (network, station string, err error) {
	parts := strings.SplitN(pair, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return pair, "", fmt.Errorf("station %q is not a NET.STA pair", pair)
	}
	return parts[0], parts[1], nil
}
