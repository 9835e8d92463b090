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
	"seisprep/internal/dsp"
)

// WaveformClient implements domain.WaveformSource against a timeseries
// service producing SLIST ascii output (the IRIS timeseries service and
// compatible endpoints). Fetched traces are low-passed and resampled to the
// configured target rate before they leave this client.
type WaveformClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	targetRate float64 // Hz
	cutoff     float64 // low-pass corner, Hz
}

// NewWaveformClient creates a waveform client. baseURL is the service root,
// e.g. "https://service.iris.edu/irisws/timeseries/1". cutoff must sit below
// the target Nyquist or aliasing protection degrades to a straight resample.
func NewWaveformClient(baseURL string, timeout time.Duration, targetRate, cutoff float64, logger *slog.Logger) *WaveformClient {
	return &WaveformClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		targetRate: targetRate,
		cutoff:     cutoff,
	}
}

// FetchWindow retrieves all channels matching the query over [start, end],
// conditions each one, and returns them ordered Z, N, E. Streams without
// exactly three components return domain.ErrComponentCount (skip, not
// fatal); transport and service failures return domain.ErrDataSource.
func (c *WaveformClient) FetchWindow(ctx context.Context, q domain.StationQuery, start, end time.Time) (domain.RawTrace, error) {
	params := url.Values{
		"net":    {q.Network},
		"sta":    {q.Station},
		"loc":    {q.Location},
		"cha":    {q.ChannelPattern},
		"start":  {formatTime(start)},
		"end":    {formatTime(end)},
		"format": {"ascii"},
	}

	body, err := get(ctx, c.httpClient, c.baseURL+"/query?"+params.Encode())
	if err == errEmpty {
		return domain.RawTrace{}, fmt.Errorf("%s.%s: no data for window: %w", q.Network, q.Station, domain.ErrDataSource)
	}
	if err != nil {
		return domain.RawTrace{}, fmt.Errorf("waveform query %s.%s: %w", q.Network, q.Station, err)
	}

	blocks, err := parseSLIST(body)
	if err != nil {
		return domain.RawTrace{}, fmt.Errorf("waveform query %s.%s: %w: %w", q.Network, q.Station, err, domain.ErrDataSource)
	}

	ordered, err := orderComponents(blocks)
	if err != nil {
		return domain.RawTrace{}, fmt.Errorf("%s.%s: %w", q.Network, q.Station, err)
	}

	trace := domain.RawTrace{
		Network:    q.Network,
		Station:    q.Station,
		SampleRate: c.targetRate,
		Start:      ordered[0].start,
	}
	for _, b := range ordered {
		conditioned := dsp.Lowpass(b.samples, b.sampleRate, c.cutoff)
		conditioned = dsp.Resample(conditioned, b.sampleRate, c.targetRate)
		trace.Channels = append(trace.Channels, b.channel)
		trace.Components = append(trace.Components, conditioned)
	}

	c.logger.Debug("waveform fetched",
		"network", q.Network,
		"station", q.Station,
		"channels", trace.Channels,
		"samples", len(trace.Components[0]),
	)
	return trace, nil
}

// slistBlock is one channel's decoded TIMESERIES section.
type slistBlock struct {
	channel    string
	sampleRate float64
	start      time.Time
	samples    []float64
}

// parseSLIST decodes the SLIST ascii format: one header line per channel
//
//	TIMESERIES IU_ANMO_00_BHZ_D, 1500 samples, 40 sps, 2010-02-27T06:45:00.000000, SLIST, FLOAT, COUNTS
//
// followed by one sample value per line.
func parseSLIST(body []byte) ([]slistBlock, error) {
	var blocks []slistBlock
	var cur *slistBlock

	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "TIMESERIES") {
			block, err := parseSLISTHeader(line)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, block)
			cur = &blocks[len(blocks)-1]
			continue
		}

		if cur == nil {
			return nil, fmt.Errorf("sample data before TIMESERIES header")
		}
		v, err := parseFloat(line)
		if err != nil {
			return nil, fmt.Errorf("sample value %q: %w", line, err)
		}
		cur.samples = append(cur.samples, v)
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("no TIMESERIES blocks in response")
	}
	return blocks, nil
}

func parseSLISTHeader(line string) (slistBlock, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return slistBlock{}, fmt.Errorf("malformed TIMESERIES header %q", line)
	}

	// "TIMESERIES NET_STA_LOC_CHA_QUALITY"
	sid := strings.TrimSpace(strings.TrimPrefix(parts[0], "TIMESERIES"))
	idFields := strings.Split(sid, "_")
	if len(idFields) < 4 {
		return slistBlock{}, fmt.Errorf("malformed source id %q", sid)
	}
	channel := idFields[3]

	rateField := strings.TrimSpace(parts[2]) // "40 sps"
	rate, err := parseFloat(strings.TrimSuffix(rateField, " sps"))
	if err != nil || rate <= 0 {
		return slistBlock{}, fmt.Errorf("sample rate %q", rateField)
	}

	start, err := parseTime(parts[3])
	if err != nil {
		return slistBlock{}, err
	}

	return slistBlock{channel: channel, sampleRate: rate, start: start}, nil
}

// orderComponents arranges exactly three blocks into Z, N, E order. SEED
// numeric orientations map 1→N and 2→E (borehole sensors). Anything other
// than one block per component is domain.ErrComponentCount.
func orderComponents(blocks []slistBlock) ([]slistBlock, error) {
	if len(blocks) != domain.ComponentCount {
		return nil, fmt.Errorf("got %d channels: %w", len(blocks), domain.ErrComponentCount)
	}

	byComponent := make(map[byte]slistBlock, domain.ComponentCount)
	for _, b := range blocks {
		if b.channel == "" {
			return nil, fmt.Errorf("blank channel code: %w", domain.ErrComponentCount)
		}
		code := b.channel[len(b.channel)-1]
		switch code {
		case '1':
			code = 'N'
		case '2':
			code = 'E'
		}
		if _, dup := byComponent[code]; dup {
			return nil, fmt.Errorf("duplicate %c component: %w", code, domain.ErrComponentCount)
		}
		byComponent[code] = b
	}

	ordered := make([]slistBlock, 0, domain.ComponentCount)
	for _, code := range []byte{'Z', 'N', 'E'} {
		b, ok := byComponent[code]
		if !ok {
			return nil, fmt.Errorf("missing %c component: %w", code, domain.ErrComponentCount)
		}
		ordered = append(ordered, b)
	}
	return ordered, nil
}
