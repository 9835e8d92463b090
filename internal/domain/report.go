package domain

import "github.com/google/uuid"

// Dataset names shared with the external denoiser.
const (
	DatasetQuake = "quake"
	DatasetNoise = "noise"
)

// Skip reasons recorded per dropped station, also used as metric labels.
const (
	SkipNoArrival      = "no_arrival"
	SkipComponentCount = "component_count"
	SkipShortTrace     = "short_trace"
	SkipDataSource     = "data_source"
)

// NewRunReport starts a report for one preparation run.
func NewRunReport(event Event, targetSamples int) RunReport {
	return RunReport{
		RunID:         uuid.NewString(),
		Event:         event,
		TargetSamples: targetSamples,
		StartedAt:     clock.Now(),
	}
}

// Finish stamps the report's completion time.
func (r *RunReport) Finish() {
	r.FinishedAt = clock.Now()
}

// Keep records a station that made it into the tensor.
func (r *RunReport) Keep(result StationResult) {
	result.Kept = true
	r.Stations = append(r.Stations, result)
	r.KeptStations++
}

// Skip records a dropped station with its reason.
func (r *RunReport) Skip(result StationResult, reason string) {
	result.Kept = false
	result.SkipReason = reason
	r.Stations = append(r.Stations, result)
}
