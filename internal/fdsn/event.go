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

// EventClient implements domain.EventSource against an FDSN event service
// (format=text).
type EventClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewEventClient creates a catalog client. baseURL is the service root, e.g.
// "https://earthquake.usgs.gov/fdsnws/event/1".
func NewEventClient(baseURL string, timeout time.Duration, logger *slog.Logger) *EventClient {
	return &EventClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// SelectEvent queries the catalog once and returns the first event in the
// service's ordering (descending origin time by default), mirroring the
// interactive workflow's index-0 pick. Returns domain.ErrNoEvents when the
// filtered catalog is empty.
func (c *EventClient) SelectEvent(ctx context.Context, criteria domain.EventCriteria) (domain.Event, error) {
	params := url.Values{
		"starttime":    {formatTime(criteria.Start)},
		"endtime":      {formatTime(criteria.End)},
		"minmagnitude": {fmt.Sprintf("%g", criteria.MinMagnitude)},
		"maxmagnitude": {fmt.Sprintf("%g", criteria.MaxMagnitude)},
		"mindepth":     {fmt.Sprintf("%g", criteria.MinDepthKm)},
		"maxdepth":     {fmt.Sprintf("%g", criteria.MaxDepthKm)},
		"orderby":      {"time"},
		"format":       {"text"},
	}

	body, err := get(ctx, c.httpClient, c.baseURL+"/query?"+params.Encode())
	if err == errEmpty {
		return domain.Event{}, domain.ErrNoEvents
	}
	if err != nil {
		return domain.Event{}, fmt.Errorf("event query: %w", err)
	}

	lines := dataLines(body)
	if len(lines) == 0 {
		return domain.Event{}, domain.ErrNoEvents
	}

	event, err := parseEventLine(lines[0])
	if err != nil {
		return domain.Event{}, fmt.Errorf("event query: %w: %w", err, domain.ErrDataSource)
	}

	c.logger.Info("event selected",
		"event_id", event.ID,
		"origin_time", event.OriginTime,
		"magnitude", event.Magnitude,
		"depth_km", event.DepthKm,
		"region", event.Region,
		"candidates", len(lines),
	)
	return event, nil
}

// parseEventLine decodes one pipe-separated catalog row:
//
//	EventID|Time|Latitude|Longitude|Depth/km|Author|Catalog|Contributor|ContributorID|MagType|Magnitude|MagAuthor|EventLocationName
func parseEventLine(line string) (domain.Event, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 11 {
		return domain.Event{}, fmt.Errorf("event row has %d fields", len(fields))
	}

	originTime, err := parseTime(fields[1])
	if err != nil {
		return domain.Event{}, err
	}
	lat, err := parseFloat(fields[2])
	if err != nil {
		return domain.Event{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := parseFloat(fields[3])
	if err != nil {
		return domain.Event{}, fmt.Errorf("longitude: %w", err)
	}
	depth, err := parseFloat(fields[4])
	if err != nil {
		return domain.Event{}, fmt.Errorf("depth: %w", err)
	}
	mag, err := parseFloat(fields[10])
	if err != nil {
		return domain.Event{}, fmt.Errorf("magnitude: %w", err)
	}

	event := domain.Event{
		ID:         strings.TrimSpace(fields[0]),
		OriginTime: originTime,
		Latitude:   lat,
		Longitude:  lon,
		DepthKm:    depth,
		Magnitude:  mag,
	}
	if len(fields) >= 13 {
		event.Region = strings.TrimSpace(fields[12])
	}
	return event, nil
}
