package traveltime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seisprep/internal/domain"
	"seisprep/internal/traveltime"
)

func TestFirstArrival_DeterministicAndNonNegative(t *testing.T) {
	m := traveltime.NewModel()

	for depth := 0.0; depth <= 700; depth += 50 {
		for dist := 0.0; dist <= 100; dist += 2.5 {
			first, err := m.FirstArrival(depth, dist)
			require.NoError(t, err, "depth=%v dist=%v", depth, dist)
			assert.GreaterOrEqual(t, first, 0.0, "depth=%v dist=%v", depth, dist)

			again, err := m.FirstArrival(depth, dist)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
}

func TestFirstArrival_KnownValues(t *testing.T) {
	m := traveltime.NewModel()

	tests := []struct {
		name     string
		depthKm  float64
		distDeg  float64
		wantSecs float64
		within   float64
	}{
		{name: "epicentre surface focus", depthKm: 0, distDeg: 0, wantSecs: 0, within: 0.001},
		{name: "directly above 100km focus", depthKm: 100, distDeg: 0, wantSecs: 12.9, within: 0.5},
		{name: "regional", depthKm: 0, distDeg: 10, wantSecs: 144, within: 5},
		{name: "teleseismic 30 degrees", depthKm: 0, distDeg: 30, wantSecs: 373, within: 3},
		{name: "teleseismic 90 degrees", depthKm: 0, distDeg: 90, wantSecs: 777, within: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.FirstArrival(tt.depthKm, tt.distDeg)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantSecs, got, tt.within)
		})
	}
}

func TestFirstArrival_MonotoneInDistance(t *testing.T) {
	m := traveltime.NewModel()

	prev := -1.0
	for dist := 0.0; dist <= 100; dist += 1 {
		got, err := m.FirstArrival(33, dist)
		require.NoError(t, err)
		assert.Greater(t, got, prev, "dist=%v", dist)
		prev = got
	}
}

func TestFirstArrival_DeepFocusArrivesEarlier(t *testing.T) {
	m := traveltime.NewModel()

	shallow, err := m.FirstArrival(10, 60)
	require.NoError(t, err)
	deep, err := m.FirstArrival(600, 60)
	require.NoError(t, err)

	assert.Less(t, deep, shallow)
}

func TestFirstArrival_OutsideModelDomain(t *testing.T) {
	m := traveltime.NewModel()

	tests := []struct {
		name    string
		depthKm float64
		distDeg float64
	}{
		{name: "shadow zone", depthKm: 33, distDeg: 120},
		{name: "below deepest seismicity", depthKm: 900, distDeg: 40},
		{name: "negative depth", depthKm: -1, distDeg: 40},
		{name: "negative distance", depthKm: 33, distDeg: -0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.FirstArrival(tt.depthKm, tt.distDeg)
			assert.ErrorIs(t, err, domain.ErrNoArrival)
		})
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantDeg                float64
		within                 float64
	}{
		{name: "same point", lat1: 35, lon1: -97, lat2: 35, lon2: -97, wantDeg: 0, within: 1e-9},
		{name: "pole to equator", lat1: 90, lon1: 0, lat2: 0, lon2: 0, wantDeg: 90, within: 1e-6},
		{name: "antipodal", lat1: 0, lon1: 0, lat2: 0, lon2: 180, wantDeg: 180, within: 1e-6},
		{name: "quarter turn along equator", lat1: 0, lon1: 10, lat2: 0, lon2: 100, wantDeg: 90, within: 1e-6},
		// Maule 2010 epicentre to IU.ANMO (Albuquerque).
		{name: "chile to new mexico", lat1: -36.12, lon1: -72.90, lat2: 34.95, lon2: -106.46, wantDeg: 77.8, within: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := traveltime.Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.wantDeg, got, tt.within)
		})
	}
}

func TestDistanceKm_MatchesDegrees(t *testing.T) {
	deg := traveltime.Distance(0, 0, 0, 1)
	km := traveltime.DistanceKm(0, 0, 0, 1)
	assert.InDelta(t, 1.0, deg, 1e-9)
	assert.InDelta(t, 111.19, km, 0.2)
}
