package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// preparation pipeline.
type Metrics struct {
	StationsFetched prometheus.Counter
	StationsSkipped *prometheus.CounterVec // label: reason={no_arrival,component_count,short_trace,data_source}
	FetchDuration   prometheus.Histogram
	TensorStations  prometheus.Gauge
	PipelineRunning prometheus.Gauge

	ContainersWritten prometheus.Counter
	DenoiserDuration  prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		StationsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seisprep",
			Name:      "stations_fetched_total",
			Help:      "Stations whose waveforms entered the tensor.",
		}),
		StationsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seisprep",
			Name:      "stations_skipped_total",
			Help:      "Stations dropped from the batch, by reason.",
		}, []string{"reason"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "seisprep",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of one station's metadata and waveform retrieval.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		TensorStations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seisprep",
			Name:      "tensor_stations",
			Help:      "Station count of the most recently built tensor.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seisprep",
			Name:      "pipeline_running",
			Help:      "1 while a preparation run is active, 0 otherwise.",
		}),
		ContainersWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seisprep",
			Name:      "containers_written_total",
			Help:      "Input containers persisted for the denoiser.",
		}),
		DenoiserDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "seisprep",
			Name:      "denoiser_duration_seconds",
			Help:      "Wall time of one external denoiser invocation.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
	}

	prometheus.MustRegister(
		m.StationsFetched,
		m.StationsSkipped,
		m.FetchDuration,
		m.TensorStations,
		m.PipelineRunning,
		m.ContainersWritten,
		m.DenoiserDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		StationsFetched:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "seisprep", Name: "stations_fetched_total"}),
		StationsSkipped:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "seisprep", Name: "stations_skipped_total"}, []string{"reason"}),
		FetchDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "seisprep", Name: "fetch_duration_seconds"}),
		TensorStations:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "seisprep", Name: "tensor_stations"}),
		PipelineRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "seisprep", Name: "pipeline_running"}),
		ContainersWritten: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "seisprep", Name: "containers_written_total"}),
		DenoiserDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "seisprep", Name: "denoiser_duration_seconds"}),
	}
}
