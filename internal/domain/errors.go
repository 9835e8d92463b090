package domain

import "errors"

// Sentinel errors classifying every failure mode in the pipeline. Callers
// match with errors.Is; adapters wrap these with context via fmt.Errorf %w.
//
// Per-station conditions (ErrNoArrival, ErrComponentCount, ErrShortTrace, and
// ErrDataSource inside the fetch loop) are absorbed by the pipeline: the
// station is logged and dropped, the batch continues. Setup conditions
// (ErrNoEvents, ErrDataSource during event or station-list setup) and
// persistence conditions abort the run.
var (
	// ErrNoEvents means the filtered catalog came back empty.
	ErrNoEvents = errors.New("no events match the catalog criteria")

	// ErrDataSource means a remote service was unreachable or returned a
	// malformed response. Never retried here.
	ErrDataSource = errors.New("data source failure")

	// ErrNoArrival means the velocity model has no first arrival for the
	// depth/distance combination (e.g. core shadow zone).
	ErrNoArrival = errors.New("no predicted arrival")

	// ErrComponentCount means the waveform service returned a stream without
	// exactly three components (gapped or multiplexed channels).
	ErrComponentCount = errors.New("unexpected component count")

	// ErrShortTrace means a fetched trace holds fewer samples than the
	// target window. Short traces are dropped, never zero-padded.
	ErrShortTrace = errors.New("trace shorter than target window")

	// ErrMissingDataset means the container opened fine but a requested
	// dataset name is absent.
	ErrMissingDataset = errors.New("dataset missing from container")

	// ErrCorruptContainer means the file is not a readable container at all.
	ErrCorruptContainer = errors.New("unreadable container file")

	// ErrExternalProcess means the denoiser subprocess exited non-zero or
	// produced no output container.
	ErrExternalProcess = errors.New("denoiser process failure")
)
