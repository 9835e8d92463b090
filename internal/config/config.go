// Package config loads and validates pipeline settings from env and an
// optional .env file using Viper. The pipeline itself never reads ambient
// state; everything flows through the Config struct built here.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting of a preparation run.
type Config struct {
	// EventServiceURL is the FDSN event service root.
	EventServiceURL string `mapstructure:"EVENT_SERVICE_URL"`
	// StationServiceURL is the FDSN station service root.
	StationServiceURL string `mapstructure:"STATION_SERVICE_URL"`
	// WaveformServiceURL is the timeseries service root (SLIST ascii output).
	WaveformServiceURL string `mapstructure:"WAVEFORM_SERVICE_URL"`
	// ServiceTimeout bounds each remote call (the clients' only timeout).
	ServiceTimeout time.Duration `mapstructure:"SERVICE_TIMEOUT"`

	// Stations is the comma-separated NET.STA request list, e.g. "IU.ANMO,IU.COLA".
	Stations string `mapstructure:"STATIONS"`
	// LocationCode is the SEED location code sent with waveform requests.
	LocationCode string `mapstructure:"LOCATION_CODE"`
	// ChannelPattern selects the three components, e.g. "BH?".
	ChannelPattern string `mapstructure:"CHANNEL_PATTERN"`

	// Catalog selection window and filters (RFC3339 timestamps).
	CatalogStart string  `mapstructure:"CATALOG_START"`
	CatalogEnd   string  `mapstructure:"CATALOG_END"`
	MinMagnitude float64 `mapstructure:"MIN_MAGNITUDE"`
	MaxMagnitude float64 `mapstructure:"MAX_MAGNITUDE"`
	MinDepthKm   float64 `mapstructure:"MIN_DEPTH_KM"`
	MaxDepthKm   float64 `mapstructure:"MAX_DEPTH_KM"`

	// Windowing and conditioning.
	TargetSampleRate   float64 `mapstructure:"TARGET_SAMPLE_RATE"`
	TargetSamples      int     `mapstructure:"TARGET_SAMPLES"`
	PreArrivalSeconds  float64 `mapstructure:"PRE_ARRIVAL_SECONDS"`
	PostArrivalSeconds float64 `mapstructure:"POST_ARRIVAL_SECONDS"`
	LowpassCutoff      float64 `mapstructure:"LOWPASS_CUTOFF"`

	// Container handoff paths.
	InputContainer  string `mapstructure:"INPUT_CONTAINER"`
	OutputContainer string `mapstructure:"OUTPUT_CONTAINER"`

	// External denoiser commands; config.ini in DenoiserConfigDir drives them.
	DenoiserPredictCmd string `mapstructure:"DENOISER_PREDICT_CMD"`
	DenoiserTrainCmd   string `mapstructure:"DENOISER_TRAIN_CMD"`
	DenoiserTestCmd    string `mapstructure:"DENOISER_TEST_CMD"`
	DenoiserConfigDir  string `mapstructure:"DENOISER_CONFIG_DIR"`

	// MetricsAddr serves /healthz and /metrics during a run; empty disables.
	MetricsAddr string `mapstructure:"METRICS_ADDR"`

	// Optional run-report publishing; empty brokers disable it.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment. Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("EVENT_SERVICE_URL", "https://earthquake.usgs.gov/fdsnws/event/1")
	v.SetDefault("STATION_SERVICE_URL", "https://service.iris.edu/fdsnws/station/1")
	v.SetDefault("WAVEFORM_SERVICE_URL", "https://service.iris.edu/irisws/timeseries/1")
	v.SetDefault("SERVICE_TIMEOUT", "30s")

	v.SetDefault("STATIONS", "IU.ANMO,IU.COLA,IU.HRV")
	v.SetDefault("LOCATION_CODE", "00")
	v.SetDefault("CHANNEL_PATTERN", "BH?")

	v.SetDefault("CATALOG_START", "2010-02-26T00:00:00Z")
	v.SetDefault("CATALOG_END", "2010-02-28T00:00:00Z")
	v.SetDefault("MIN_MAGNITUDE", 8.5)
	v.SetDefault("MAX_MAGNITUDE", 9.5)
	v.SetDefault("MIN_DEPTH_KM", 0.0)
	v.SetDefault("MAX_DEPTH_KM", 100.0)

	v.SetDefault("TARGET_SAMPLE_RATE", 40.0)
	v.SetDefault("TARGET_SAMPLES", 1500)
	v.SetDefault("PRE_ARRIVAL_SECONDS", 10.0)
	v.SetDefault("POST_ARRIVAL_SECONDS", 27.5)
	v.SetDefault("LOWPASS_CUTOFF", 16.0)

	v.SetDefault("INPUT_CONTAINER", "data.h5")
	v.SetDefault("OUTPUT_CONTAINER", "separated_quake_and_noise.hdf5")

	v.SetDefault("DENOISER_PREDICT_CMD", "denote_predict")
	v.SetDefault("DENOISER_TRAIN_CMD", "denote_train")
	v.SetDefault("DENOISER_TEST_CMD", "denote_test")
	v.SetDefault("DENOISER_CONFIG_DIR", ".")

	v.SetDefault("METRICS_ADDR", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "seisprep-runs")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.StationList()) == 0 {
		return errors.New("config: STATIONS must list at least one NET.STA pair")
	}
	for _, s := range c.StationList() {
		if len(strings.SplitN(s, ".", 2)) != 2 {
			return fmt.Errorf("config: station %q is not a NET.STA pair", s)
		}
	}

	start, end, err := c.CatalogRange()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return errors.New("config: CATALOG_END must be after CATALOG_START")
	}

	if c.TargetSampleRate <= 0 {
		return errors.New("config: TARGET_SAMPLE_RATE must be positive")
	}
	if c.TargetSamples <= 0 {
		return errors.New("config: TARGET_SAMPLES must be positive")
	}
	if c.PreArrivalSeconds < 0 || c.PostArrivalSeconds <= 0 {
		return errors.New("config: arrival window seconds must be non-negative, POST positive")
	}
	window := c.PreArrivalSeconds + c.PostArrivalSeconds
	if float64(c.TargetSamples) > window*c.TargetSampleRate {
		return fmt.Errorf("config: TARGET_SAMPLES %d exceeds the %gs window at %g Hz",
			c.TargetSamples, window, c.TargetSampleRate)
	}
	if c.LowpassCutoff <= 0 || c.LowpassCutoff >= c.TargetSampleRate/2 {
		return fmt.Errorf("config: LOWPASS_CUTOFF %g must sit below the target Nyquist %g",
			c.LowpassCutoff, c.TargetSampleRate/2)
	}

	if c.InputContainer == "" || c.OutputContainer == "" {
		return errors.New("config: container paths must be set")
	}
	if c.ServiceTimeout <= 0 {
		return errors.New("config: SERVICE_TIMEOUT must be positive")
	}
	return nil
}

// StationList splits the STATIONS setting into NET.STA entries.
func (c *Config) StationList() []string {
	var out []string
	for _, s := range strings.Split(c.Stations, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CatalogRange parses the catalog start and end timestamps.
func (c *Config) CatalogRange() (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, c.CatalogStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("config: CATALOG_START: %w", err)
	}
	end, err := time.Parse(time.RFC3339, c.CatalogEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("config: CATALOG_END: %w", err)
	}
	return start, end, nil
}

// KafkaEnabled reports whether run-report publishing is configured.
func (c *Config) KafkaEnabled() bool {
	return strings.TrimSpace(c.KafkaBrokers) != ""
}

// BrokerList splits KAFKA_BROKERS into addresses.
func (c *Config) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}
