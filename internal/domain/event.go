package domain

import "time"

// Event is one earthquake selected from the remote catalog.
// Immutable after selection.
type Event struct {
	ID         string    `json:"id"`
	OriginTime time.Time `json:"origin_time"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	DepthKm    float64   `json:"depth_km"`
	Magnitude  float64   `json:"magnitude"`
	Region     string    `json:"region,omitempty"`
}

// Station holds the metadata needed to window a station's record.
type Station struct {
	Network    string  `json:"network"`
	Code       string  `json:"code"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ElevationM float64 `json:"elevation_m,omitempty"`
	SiteName   string  `json:"site_name,omitempty"`
}

// ArrivalWindow is the fetch window for one station, anchored on the
// predicted first arrival.
type ArrivalWindow struct {
	Arrival     time.Time
	PreSeconds  float64
	PostSeconds float64
}

// Start returns the window's opening timestamp.
func (w ArrivalWindow) Start() time.Time {
	return w.Arrival.Add(-secondsToDuration(w.PreSeconds))
}

// End returns the window's closing timestamp.
func (w ArrivalWindow) End() time.Time {
	return w.Arrival.Add(secondsToDuration(w.PostSeconds))
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// RawTrace is one station's fetched record: one slice per ground-motion
// component, already filtered and resampled to the target rate. Transient —
// it exists only between fetch and tensor construction.
type RawTrace struct {
	Network    string
	Station    string
	Channels   []string // SEED channel codes in component order, e.g. HHZ, HHN, HHE
	SampleRate float64
	Start      time.Time
	Components [][]float64
}

// StationResult records the outcome of one station's pass through the
// pipeline loop. Exactly one of Kept or SkipReason is meaningful.
type StationResult struct {
	Network     string    `json:"network"`
	Station     string    `json:"station"`
	DistanceDeg float64   `json:"distance_deg,omitempty"`
	Arrival     time.Time `json:"arrival,omitempty"`
	Kept        bool      `json:"kept"`
	SkipReason  string    `json:"skip_reason,omitempty"`
}

// RunReport summarizes one preparation run for logging and the optional
// report sink.
type RunReport struct {
	RunID         string          `json:"run_id"`
	Event         Event           `json:"event"`
	Stations      []StationResult `json:"stations"`
	KeptStations  int             `json:"kept_stations"`
	TargetSamples int             `json:"target_samples"`
	ContainerPath string          `json:"container_path,omitempty"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    time.Time       `json:"finished_at"`
}
