// Package traveltime predicts P-wave first arrivals from a tabulated 1-D
// velocity model (IASP91) and computes epicentral distances on a sphere.
package traveltime

import (
	"fmt"
	"math"

	"seisprep/internal/domain"
)

const (
	// kmPerDeg is the surface length of one degree of arc on the reference
	// sphere (mean Earth radius 6371 km).
	kmPerDeg = 111.19

	// earthRadiusKm is the mean Earth radius.
	earthRadiusKm = 6371.0

	maxDistanceDeg = 100.0 // direct P enters the core shadow beyond ~100°
	maxDepthKm     = 700.0 // deepest catalogued seismicity

	// nearFieldDeg bounds the regime where the first arrival is well
	// approximated by a straight ray through crust and uppermost mantle.
	nearFieldDeg = 12.0
	// blendEndDeg closes the linear crossfade into the teleseismic table.
	blendEndDeg = 20.0

	// nearVelocityKmS is the average velocity along near-field ray paths.
	nearVelocityKmS = 7.75
	// depthGainKmS converts source depth into the teleseismic time
	// reduction for a deep focus (the ray skips the slow near-source path).
	depthGainKmS = 8.9
)

// surfaceP tabulates IASP91 P first-arrival times in seconds for a surface
// focus at 5° spacing, 0° through 100°. Values between nodes are linearly
// interpolated.
var surfaceP = []float64{
	0, 77, 145, 212, 277, 326, 373, 417, 458, 498,
	538, 573, 607, 639, 669, 697, 724, 750, 777, 803,
	828,
}

// Model implements domain.TravelTimeModel over the tabulated curve.
// Deterministic and stateless.
type Model struct{}

// NewModel returns the IASP91 table model.
func NewModel() *Model { return &Model{} }

// FirstArrival returns the P travel time in seconds for a source at depthKm
// observed at distanceDeg. Non-negative over the whole domain; outside it
// (negative inputs, depth beyond 700 km, distance beyond 100°) the model has
// no first arrival and returns domain.ErrNoArrival.
func (m *Model) FirstArrival(depthKm, distanceDeg float64) (float64, error) {
	if depthKm < 0 || depthKm > maxDepthKm || distanceDeg < 0 || distanceDeg > maxDistanceDeg {
		return 0, fmt.Errorf("depth %.1f km at %.2f°: %w", depthKm, distanceDeg, domain.ErrNoArrival)
	}

	direct := math.Hypot(distanceDeg*kmPerDeg, depthKm) / nearVelocityKmS
	if distanceDeg <= nearFieldDeg {
		return direct, nil
	}

	tele := interpolate(distanceDeg) - depthKm/depthGainKmS
	if distanceDeg >= blendEndDeg {
		return tele, nil
	}

	w := (distanceDeg - nearFieldDeg) / (blendEndDeg - nearFieldDeg)
	return (1-w)*direct + w*tele, nil
}

// interpolate reads the surface-focus curve at an arbitrary distance.
func interpolate(distanceDeg float64) float64 {
	const step = 5.0
	idx := distanceDeg / step
	lo := int(idx)
	if lo >= len(surfaceP)-1 {
		return surfaceP[len(surfaceP)-1]
	}
	frac := idx - float64(lo)
	return surfaceP[lo] + frac*(surfaceP[lo+1]-surfaceP[lo])
}

// Distance returns the great-circle (epicentral) distance between two
// WGS-84 coordinates in degrees of arc, via the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	dφ := (lat2 - lat1) * math.Pi / 180
	dλ := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dφ/2)*math.Sin(dφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(dλ/2)*math.Sin(dλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return c * 180 / math.Pi
}

// DistanceKm returns the surface distance in kilometres.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	return Distance(lat1, lon1, lat2, lon2) * math.Pi / 180 * earthRadiusKm
}
