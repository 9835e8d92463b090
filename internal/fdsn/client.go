// Package fdsn implements the remote data-service clients: event catalog,
// station metadata, and waveform timeseries. All three speak the FDSN web
// service text formats (https://www.fdsn.org/webservices/), which keeps the
// parsers to plain line splitting.
//
// Bound semantics: FDSN filter parameters (minmagnitude/maxmagnitude,
// mindepth/maxdepth, starttime/endtime) are inclusive on both ends; that is
// the reference FDSNWS behavior and is relied on, not re-checked, here.
//
// None of the clients retry. A transient service failure surfaces as
// domain.ErrDataSource and the caller decides whether the run aborts (setup)
// or the station is skipped (fetch loop).
package fdsn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"seisprep/internal/domain"
)

// fdsnTimeLayout is the zoneless UTC timestamp the services emit and accept.
const fdsnTimeLayout = "2006-01-02T15:04:05"

// get issues one GET and returns the body. A 204 maps to errEmpty so callers
// can distinguish "no matching data" from a service failure.
func get(ctx context.Context, client *http.Client, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w: %w", fullURL, err, domain.ErrDataSource)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, errEmpty
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("service status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(body)), domain.ErrDataSource)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w: %w", err, domain.ErrDataSource)
	}
	return body, nil
}

// errEmpty marks a 204 No Content response; each client maps it to its own
// domain error.
var errEmpty = fmt.Errorf("empty result set")

// parseTime accepts the zoneless FDSN layout with optional fractional
// seconds, always UTC.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{fdsnTimeLayout + ".999999", fdsnTimeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q", s)
}

// formatTime renders a timestamp as a service query parameter.
func formatTime(t time.Time) string {
	return t.UTC().Format(fdsnTimeLayout)
}

// dataLines strips comment (#-prefixed) and blank lines from a text response.
func dataLines(body []byte) []string {
	var out []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
