// Command inspect prints the shape and summary statistics of the tensors in
// an HDF5 container and exits non-zero when the contents are unusable: a
// dataset holds non-finite values, or paired quake and noise tensors disagree
// on shape.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"gonum.org/v1/gonum/stat"

	"seisprep/internal/domain"
	"seisprep/internal/hdf5store"
	"seisprep/internal/observability"
)

func main() {
	container := flag.String("container", "data.h5", "HDF5 container to inspect")
	datasets := flag.String("datasets", domain.DatasetQuake, "comma-separated dataset names")
	flag.Parse()

	logger := observability.NewLogger("info", "text")

	names := splitNames(*datasets)
	if len(names) == 0 {
		slog.Error("no dataset names given")
		os.Exit(2)
	}

	store := hdf5store.New(logger)
	loaded, err := store.Load(*container, names...)
	if err != nil {
		logger.Error("cannot read container", "container", *container, "error", err)
		os.Exit(1)
	}

	failed := false
	for _, name := range names {
		t := loaded[name]
		stations, samples, components := t.Shape()
		min, max, mean, std, finite := summarize(t.Data)

		fmt.Printf("%s: shape (%d,%d,%d)\n", name, stations, samples, components)
		fmt.Printf("  min %.4f  max %.4f  mean %.4f  std %.4f\n", min, max, mean, std)
		if !finite {
			fmt.Printf("  FAIL: dataset contains NaN or Inf values\n")
			failed = true
		}
	}

	if q, qok := loaded[domain.DatasetQuake]; qok {
		if n, nok := loaded[domain.DatasetNoise]; nok {
			qs, qn, qc := q.Shape()
			ns, nn, nc := n.Shape()
			if qs != ns || qn != nn || qc != nc {
				fmt.Printf("FAIL: quake shape (%d,%d,%d) does not match noise shape (%d,%d,%d)\n",
					qs, qn, qc, ns, nn, nc)
				failed = true
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}

func splitNames(s string) []string {
	var out []string
	for _, n := range strings.Split(s, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

func summarize(data []float64) (min, max, mean, std float64, finite bool) {
	if len(data) == 0 {
		return 0, 0, 0, 0, true
	}
	finite = true
	min, max = data[0], data[0]
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			finite = false
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean = stat.Mean(data, nil)
	std = stat.PopStdDev(data, nil)
	return min, max, mean, std, finite
}
