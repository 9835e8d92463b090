package fdsn

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"seisprep/internal/domain"
)

// StationClient implements domain.StationSource against an FDSN station
// service (level=station, format=text).
type StationClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewStationClient creates a metadata client. baseURL is the service root,
// e.g. "https://service.iris.edu/fdsnws/station/1".
func NewStationClient(baseURL string, timeout time.Duration, logger *slog.Logger) *StationClient {
	return &StationClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// LookupStation resolves one station's coordinates. An unknown station code
// is a data-source failure, not a skip decision; the caller owns that policy.
func (c *StationClient) LookupStation(ctx context.Context, network, station string) (domain.Station, error) {
	params := url.Values{
		"network": {network},
		"station": {station},
		"level":   {"station"},
		"format":  {"text"},
	}

	body, err := get(ctx, c.httpClient, c.baseURL+"/query?"+params.Encode())
	if err == errEmpty {
		return domain.Station{}, fmt.Errorf("station %s.%s not found: %w", network, station, domain.ErrDataSource)
	}
	if err != nil {
		return domain.Station{}, fmt.Errorf("station query %s.%s: %w", network, station, err)
	}

	lines := dataLines(body)
	if len(lines) == 0 {
		return domain.Station{}, fmt.Errorf("station %s.%s not found: %w", network, station, domain.ErrDataSource)
	}

	st, err := parseStationLine(lines[0])
	if err != nil {
		return domain.Station{}, fmt.Errorf("station query %s.%s: %w: %w", network, station, err, domain.ErrDataSource)
	}

	c.logger.Debug("station resolved",
		"network", st.Network,
		"station", st.Code,
		"lat", st.Latitude,
		"lon", st.Longitude,
	)
	return st, nil
}

// parseStationLine decodes one pipe-separated metadata row:
//
//	Network|Station|Latitude|Longitude|Elevation|SiteName|StartTime|EndTime
func parseStationLine(line string) (domain.Station, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 6 {
		return domain.Station{}, fmt.Errorf("station row has %d fields", len(fields))
	}

	lat, err := parseFloat(fields[2])
	if err != nil {
		return domain.Station{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := parseFloat(fields[3])
	if err != nil {
		return domain.Station{}, fmt.Errorf("longitude: %w", err)
	}
	elev, err := parseFloat(fields[4])
	if err != nil {
		return domain.Station{}, fmt.Errorf("elevation: %w", err)
	}

	return domain.Station{
		Network:    strings.TrimSpace(fields[0]),
		Code:       strings.TrimSpace(fields[1]),
		Latitude:   lat,
		Longitude:  lon,
		ElevationM: elev,
		SiteName:   strings.TrimSpace(fields[5]),
	}, nil
}
