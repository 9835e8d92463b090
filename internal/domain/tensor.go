package domain

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// NormEpsilon guards the per-trace amplitude division against near-silent
// channels. Added to the standard deviation, so an exactly constant trace
// normalizes to zeros instead of NaN.
const NormEpsilon = 1e-10

// ComponentCount is the number of ground-motion components per station.
const ComponentCount = 3

// Tensor is the fixed-shape array handed to the denoiser: stations × samples
// × components, row-major.
type Tensor struct {
	Stations   int
	Samples    int
	Components int
	Data       []float64
}

// NewTensor allocates a zeroed tensor of the given shape.
func NewTensor(stations, samples, components int) Tensor {
	return Tensor{
		Stations:   stations,
		Samples:    samples,
		Components: components,
		Data:       make([]float64, stations*samples*components),
	}
}

// At returns the value at (station, sample, component).
func (t Tensor) At(station, sample, component int) float64 {
	return t.Data[(station*t.Samples+sample)*t.Components+component]
}

// Set stores a value at (station, sample, component).
func (t *Tensor) Set(station, sample, component int, v float64) {
	t.Data[(station*t.Samples+sample)*t.Components+component] = v
}

// Trace returns a copy of one station's time series for a single component.
func (t Tensor) Trace(station, component int) []float64 {
	out := make([]float64, t.Samples)
	for i := range out {
		out[i] = t.At(station, i, component)
	}
	return out
}

// Shape returns (stations, samples, components).
func (t Tensor) Shape() (int, int, int) {
	return t.Stations, t.Samples, t.Components
}

// CheckTrace reports whether a fetched trace can enter the tensor: exactly
// three non-empty components, each at least targetSamples long. Returns
// ErrComponentCount or ErrShortTrace with station context.
func CheckTrace(trace RawTrace, targetSamples int) error {
	if len(trace.Components) != ComponentCount {
		return fmt.Errorf("%s.%s: got %d components: %w",
			trace.Network, trace.Station, len(trace.Components), ErrComponentCount)
	}
	for i, c := range trace.Components {
		if len(c) < targetSamples {
			return fmt.Errorf("%s.%s component %d: %d of %d samples: %w",
				trace.Network, trace.Station, i, len(c), targetSamples, ErrShortTrace)
		}
	}
	return nil
}

// BuildTensor assembles station traces into a (stations, samples, 3) tensor.
//
// Each component is truncated from the end to exactly targetSamples, then
// normalized to zero mean and unit variance over the time axis (plus
// NormEpsilon on the deviation). Traces failing CheckTrace are excluded;
// survivors keep their input order. Arrival alignment is the fetch window's
// responsibility, not re-derived here.
func BuildTensor(traces []RawTrace, targetSamples int) Tensor {
	kept := make([]RawTrace, 0, len(traces))
	for _, tr := range traces {
		if err := CheckTrace(tr, targetSamples); err == nil {
			kept = append(kept, tr)
		}
	}

	t := NewTensor(len(kept), targetSamples, ComponentCount)
	for s, tr := range kept {
		for c, series := range tr.Components {
			trimmed := normalizeTrace(series[:targetSamples])
			for i, v := range trimmed {
				t.Set(s, i, c, v)
			}
		}
	}
	return t
}

// normalizeTrace returns a zero-mean, unit-variance copy of x.
func normalizeTrace(x []float64) []float64 {
	mean := stat.Mean(x, nil)
	std := stat.PopStdDev(x, nil)

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - mean) / (std + NormEpsilon)
	}
	return out
}
