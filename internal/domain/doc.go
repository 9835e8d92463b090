// Package domain models seismic waveform preparation for an external denoiser.
//
// # Data Sources
//
// Events, station metadata, and waveforms come from FDSN-style web services
// (https://www.fdsn.org/webservices/): an event service for the earthquake
// catalog, a station service for coordinates, and a timeseries service for
// ground-motion records. The clients live in internal/fdsn; this package only
// defines the shapes they return.
//
// # SEED Conventions
//
// Channel codes follow the SEED naming scheme:
//
//	"HHZ" → H (high sample rate) H (high-gain seismometer) Z (vertical)
//	Component letters: Z vertical, N north-south, E east-west.
//	A channel pattern like "HH?" requests all three components at once.
//
// Network and station codes are the FDSN registry identifiers, e.g. network
// "IU", station "ANMO" (Albuquerque, NM).
//
// # Windowing
//
// Each station's fetch window is anchored on the predicted P-wave arrival:
//
//	start = origin_time + first_arrival − pre_seconds
//	end   = origin_time + first_arrival + post_seconds
//
// so the tensor rows of different stations line up on the arrival without any
// per-sample shifting in the builder. The builder trims to a fixed sample
// count from the end and never pads: a short record would otherwise inject
// fabricated signal into the denoiser's input. See [BuildTensor].
//
// # Normalization
//
// Every trace is normalized independently over its time axis: subtract the
// mean, divide by the population standard deviation plus 1e-10. The epsilon
// keeps near-silent channels from blowing up; an exactly constant trace
// normalizes to all zeros rather than NaN.
//
// # Container Layout
//
// Tensors cross the process boundary as HDF5 datasets. The input container
// holds one dataset "quake" of shape (stations, samples, 3); the denoiser
// writes back "quake" and "noise" with the same shape, where
// quake + noise ≈ input (a property of the model, not enforced here).
package domain
