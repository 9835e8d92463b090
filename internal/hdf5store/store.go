// Package hdf5store persists tensors as named HDF5 datasets, the container
// format the external denoiser consumes and produces.
package hdf5store

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gonum.org/v1/hdf5"

	"seisprep/internal/domain"
)

// Store implements domain.Store over HDF5 files.
type Store struct {
	logger *slog.Logger
}

// New creates an HDF5 store.
func New(logger *slog.Logger) *Store {
	return &Store{logger: logger}
}

// Save writes every dataset to path, truncating any existing file. The write
// is all-or-nothing: on failure the partial file is removed.
func (s *Store) Save(path string, datasets map[string]domain.Tensor) error {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return fmt.Errorf("create container %s: %w", path, err)
	}

	// Deterministic dataset order for reproducible containers.
	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := writeDataset(f, name, datasets[name]); err != nil {
			f.Close()
			os.Remove(path)
			return fmt.Errorf("write dataset %q to %s: %w", name, path, err)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close container %s: %w", path, err)
	}

	s.logger.Info("container written", "path", path, "datasets", names)
	return nil
}

func writeDataset(f *hdf5.File, name string, t domain.Tensor) error {
	dims := []uint{uint(t.Stations), uint(t.Samples), uint(t.Components)}
	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer space.Close()

	dset, err := f.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, space)
	if err != nil {
		return err
	}
	defer dset.Close()

	return dset.Write(&t.Data)
}

// Load reads the named datasets from path. A missing or non-HDF5 file is
// domain.ErrCorruptContainer; an absent dataset name is
// domain.ErrMissingDataset. Each dataset must be rank 3.
func (s *Store) Load(path string, names ...string) (map[string]domain.Tensor, error) {
	if !hdf5.IsHDF5(path) {
		return nil, fmt.Errorf("%s is not an HDF5 container: %w", path, domain.ErrCorruptContainer)
	}

	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("open container %s: %w: %w", path, err, domain.ErrCorruptContainer)
	}
	defer f.Close()

	out := make(map[string]domain.Tensor, len(names))
	for _, name := range names {
		t, err := readDataset(f, name)
		if err != nil {
			return nil, fmt.Errorf("dataset %q in %s: %w", name, path, err)
		}
		out[name] = t
	}
	return out, nil
}

func readDataset(f *hdf5.File, name string) (domain.Tensor, error) {
	dset, err := f.OpenDataset(name)
	if err != nil {
		return domain.Tensor{}, fmt.Errorf("%w: %w", err, domain.ErrMissingDataset)
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()

	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return domain.Tensor{}, fmt.Errorf("%w: %w", err, domain.ErrCorruptContainer)
	}
	if len(dims) != 3 {
		return domain.Tensor{}, fmt.Errorf("rank %d, want 3: %w", len(dims), domain.ErrCorruptContainer)
	}

	t := domain.NewTensor(int(dims[0]), int(dims[1]), int(dims[2]))
	if err := dset.Read(&t.Data); err != nil {
		return domain.Tensor{}, fmt.Errorf("%w: %w", err, domain.ErrCorruptContainer)
	}
	return t, nil
}
