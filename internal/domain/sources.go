package domain

import (
	"context"
	"time"
)

// EventCriteria filters the remote catalog. Both bounds of every pair are
// inclusive; the documented semantics belong to the client implementation,
// not to this package.
type EventCriteria struct {
	Start        time.Time
	End          time.Time
	MinMagnitude float64
	MaxMagnitude float64
	MinDepthKm   float64
	MaxDepthKm   float64
}

// EventSource selects one event from a remote catalog.
type EventSource interface {
	// SelectEvent queries the catalog once and returns the first event in
	// the service's own ordering. Returns ErrNoEvents when the filtered
	// catalog is empty, ErrDataSource on transport or parse failure.
	SelectEvent(ctx context.Context, criteria EventCriteria) (Event, error)
}

// StationSource resolves station coordinates from a metadata service.
type StationSource interface {
	LookupStation(ctx context.Context, network, station string) (Station, error)
}

// StationQuery identifies the channels to fetch for one station.
type StationQuery struct {
	Network        string
	Station        string
	Location       string // SEED location code, often "00" or "--" for blank
	ChannelPattern string // e.g. "HH?" for all three high-rate components
}

// WaveformSource retrieves a filtered, resampled three-component record.
type WaveformSource interface {
	// FetchWindow returns the station's record over [start, end]. Returns
	// ErrComponentCount when the stream does not hold exactly three
	// components, ErrDataSource on service failure.
	FetchWindow(ctx context.Context, q StationQuery, start, end time.Time) (RawTrace, error)
}

// TravelTimeModel predicts first arrivals from a 1-D velocity model.
type TravelTimeModel interface {
	// FirstArrival returns the P-wave travel time in seconds for a source
	// at depthKm observed at distanceDeg epicentral distance. Deterministic
	// and non-negative within the model's domain; ErrNoArrival outside it.
	FirstArrival(depthKm, distanceDeg float64) (float64, error)
}

// Store persists named tensors in a single container file.
type Store interface {
	// Save writes all datasets to path, truncating any existing file.
	Save(path string, datasets map[string]Tensor) error

	// Load reads the named datasets from path. ErrCorruptContainer when the
	// file is not a readable container, ErrMissingDataset when a name is
	// absent.
	Load(path string, names ...string) (map[string]Tensor, error)
}

// Denoiser is the external separation model. The process adapter in
// internal/denoiser spawns the collaborator executables; an in-process
// implementation can satisfy the same interface later without touching the
// pipeline.
type Denoiser interface {
	// Predict consumes the persisted input container and produces the
	// separated output container. Blocking; ErrExternalProcess on non-zero
	// exit or missing output.
	Predict(ctx context.Context) error

	// Train fits the model on a staged training container.
	Train(ctx context.Context) error

	// Test evaluates a trained model.
	Test(ctx context.Context) error
}

// ReportSink receives run reports. Optional; a nil sink disables publishing.
type ReportSink interface {
	Publish(ctx context.Context, report RunReport) error
	Close() error
}
