package fdsn

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seisprep/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const catalogText = `#EventID|Time|Latitude|Longitude|Depth/km|Author|Catalog|Contributor|ContributorID|MagType|Magnitude|MagAuthor|EventLocationName
usp000h7rf|2010-02-27T06:34:11.53|-36.122|-72.898|22.9|us|us|us|usp000h7rf|mww|8.8|us|offshore Bio-Bio, Chile
usp000h7sg|2010-02-27T08:01:23.00|-37.773|-75.048|35.0|us|us|us|usp000h7sg|mb|6.2|us|offshore Bio-Bio, Chile
`

func TestEventClient_SelectEvent_PicksFirstRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text", r.URL.Query().Get("format"))
		assert.Equal(t, "8.5", r.URL.Query().Get("minmagnitude"))
		assert.Equal(t, "2010-02-26T00:00:00", r.URL.Query().Get("starttime"))
		fmt.Fprint(w, catalogText)
	}))
	defer srv.Close()

	c := NewEventClient(srv.URL, 5*time.Second, testLogger())
	event, err := c.SelectEvent(context.Background(), domain.EventCriteria{
		Start:        time.Date(2010, 2, 26, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2010, 2, 28, 0, 0, 0, 0, time.UTC),
		MinMagnitude: 8.5,
		MaxMagnitude: 9.5,
		MinDepthKm:   0,
		MaxDepthKm:   100,
	})
	require.NoError(t, err)

	assert.Equal(t, "usp000h7rf", event.ID)
	assert.Equal(t, -36.122, event.Latitude)
	assert.Equal(t, -72.898, event.Longitude)
	assert.Equal(t, 22.9, event.DepthKm)
	assert.Equal(t, 8.8, event.Magnitude)
	assert.Equal(t, "offshore Bio-Bio, Chile", event.Region)
	assert.Equal(t, time.Date(2010, 2, 27, 6, 34, 11, 530000000, time.UTC), event.OriginTime)
}

func TestEventClient_SelectEvent_EmptyCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewEventClient(srv.URL, 5*time.Second, testLogger())
	_, err := c.SelectEvent(context.Background(), domain.EventCriteria{MinMagnitude: 9.9, MaxMagnitude: 9.99})
	assert.ErrorIs(t, err, domain.ErrNoEvents)
}

func TestEventClient_SelectEvent_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewEventClient(srv.URL, 5*time.Second, testLogger())
	_, err := c.SelectEvent(context.Background(), domain.EventCriteria{})
	assert.ErrorIs(t, err, domain.ErrDataSource)
}

func TestEventClient_SelectEvent_MalformedRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "garbage|row\n")
	}))
	defer srv.Close()

	c := NewEventClient(srv.URL, 5*time.Second, testLogger())
	_, err := c.SelectEvent(context.Background(), domain.EventCriteria{})
	assert.ErrorIs(t, err, domain.ErrDataSource)
}

func TestStationClient_LookupStation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "IU", r.URL.Query().Get("network"))
		assert.Equal(t, "ANMO", r.URL.Query().Get("station"))
		fmt.Fprint(w, `#Network|Station|Latitude|Longitude|Elevation|SiteName|StartTime|EndTime
IU|ANMO|34.9459|-106.4572|1850.0|Albuquerque, New Mexico, USA|1989-08-29T00:00:00|
`)
	}))
	defer srv.Close()

	c := NewStationClient(srv.URL, 5*time.Second, testLogger())
	st, err := c.LookupStation(context.Background(), "IU", "ANMO")
	require.NoError(t, err)

	assert.Equal(t, "IU", st.Network)
	assert.Equal(t, "ANMO", st.Code)
	assert.Equal(t, 34.9459, st.Latitude)
	assert.Equal(t, -106.4572, st.Longitude)
	assert.Equal(t, 1850.0, st.ElevationM)
	assert.Equal(t, "Albuquerque, New Mexico, USA", st.SiteName)
}

func TestStationClient_LookupStation_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewStationClient(srv.URL, 5*time.Second, testLogger())
	_, err := c.LookupStation(context.Background(), "XX", "NOPE")
	assert.ErrorIs(t, err, domain.ErrDataSource)
}

// slistResponse renders a synthetic SLIST body for the given channels, all
// at 100 sps with n constant-ramp samples.
func slistResponse(n int, channels ...string) string {
	var b []byte
	for _, cha := range channels {
		b = append(b, fmt.Sprintf(
			"TIMESERIES IU_ANMO_00_%s_D, %d samples, 100 sps, 2010-02-27T06:45:00.000000, SLIST, FLOAT, COUNTS\n",
			cha, n)...)
		for i := 0; i < n; i++ {
			b = append(b, fmt.Sprintf("%.4f\n", math.Sin(float64(i)*0.05))...)
		}
	}
	return string(b)
}

func testWaveformClient(baseURL string) *WaveformClient {
	return NewWaveformClient(baseURL, 5*time.Second, 40, 16, testLogger())
}

func testQuery() domain.StationQuery {
	return domain.StationQuery{Network: "IU", Station: "ANMO", Location: "00", ChannelPattern: "BH?"}
}

func TestWaveformClient_FetchWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BH?", r.URL.Query().Get("cha"))
		assert.Equal(t, "2010-02-27T06:45:00", r.URL.Query().Get("start"))
		fmt.Fprint(w, slistResponse(4000, "BHN", "BHE", "BHZ"))
	}))
	defer srv.Close()

	c := testWaveformClient(srv.URL)
	start := time.Date(2010, 2, 27, 6, 45, 0, 0, time.UTC)
	trace, err := c.FetchWindow(context.Background(), testQuery(), start, start.Add(40*time.Second))
	require.NoError(t, err)

	// Components come back in Z, N, E order regardless of service order.
	assert.Equal(t, []string{"BHZ", "BHN", "BHE"}, trace.Channels)
	require.Len(t, trace.Components, 3)
	// 4000 samples at 100 sps resampled to 40 sps.
	assert.Len(t, trace.Components[0], 1600)
	assert.Equal(t, 40.0, trace.SampleRate)
}

func TestWaveformClient_FetchWindow_NumericOrientationCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, slistResponse(400, "BH1", "BH2", "BHZ"))
	}))
	defer srv.Close()

	c := testWaveformClient(srv.URL)
	trace, err := c.FetchWindow(context.Background(), testQuery(), time.Now(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"BHZ", "BH1", "BH2"}, trace.Channels)
}

func TestWaveformClient_FetchWindow_ComponentCount(t *testing.T) {
	tests := []struct {
		name     string
		channels []string
	}{
		{name: "two components", channels: []string{"BHZ", "BHN"}},
		{name: "four blocks from a gapped channel", channels: []string{"BHZ", "BHN", "BHE", "BHE"}},
		{name: "duplicate component", channels: []string{"BHZ", "BHN", "BHN"}},
		{name: "missing vertical", channels: []string{"BHN", "BHE", "BHR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, slistResponse(400, tt.channels...))
			}))
			defer srv.Close()

			c := testWaveformClient(srv.URL)
			_, err := c.FetchWindow(context.Background(), testQuery(), time.Now(), time.Now())
			assert.ErrorIs(t, err, domain.ErrComponentCount)
		})
	}
}

func TestWaveformClient_FetchWindow_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := testWaveformClient(srv.URL)
	_, err := c.FetchWindow(context.Background(), testQuery(), time.Now(), time.Now())
	assert.ErrorIs(t, err, domain.ErrDataSource)
}

func TestParseSLIST_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "samples before header", body: "1.0\n2.0\n"},
		{name: "bad sample value", body: "TIMESERIES IU_ANMO_00_BHZ_D, 2 samples, 40 sps, 2010-02-27T06:45:00.000000, SLIST, FLOAT, COUNTS\n1.0\nnope\n"},
		{name: "bad rate", body: "TIMESERIES IU_ANMO_00_BHZ_D, 2 samples, zero sps, 2010-02-27T06:45:00.000000, SLIST, FLOAT, COUNTS\n1.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSLIST([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestParseSLIST_MultipleBlocks(t *testing.T) {
	blocks, err := parseSLIST([]byte(slistResponse(10, "BHZ", "BHN", "BHE")))
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "BHZ", blocks[0].channel)
	assert.Equal(t, 100.0, blocks[0].sampleRate)
	assert.Len(t, blocks[0].samples, 10)
	assert.Equal(t, time.Date(2010, 2, 27, 6, 45, 0, 0, time.UTC), blocks[0].start)
}
