package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Arzazrel/Project-LSMSDB-25/internal/alphavantage"
	"github.com/Arzazrel/Project-LSMSDB-25/internal/history"
)

// Environment variables that override file settings.
const (
	EnvAPIKey = "ALPHAVANTAGE_API_KEY"
	EnvOutDir = "MARKETDATA_OUT_DIR"
)

// Config holds the defaults of every marketdata command. Flags given on
// the command line win over these values.
type Config struct {
	Output       OutputConfig       `json:"output" yaml:"output"`
	Tracker      TrackerConfig      `json:"tracker" yaml:"tracker"`
	AlphaVantage AlphaVantageConfig `json:"alphavantage" yaml:"alphavantage"`
	CoinGecko    CoinGeckoConfig    `json:"coingecko" yaml:"coingecko"`
	Schedule     ScheduleConfig     `json:"schedule" yaml:"schedule"`
}

// OutputConfig controls where files are written
type OutputConfig struct {
	Dir           string `json:"dir" yaml:"dir"`
	HistoryFormat string `json:"history_format" yaml:"history_format"` // csv|json|amibroker|highstock
}

// TrackerConfig contains live tracking parameters
type TrackerConfig struct {
	Minutes        float64 `json:"minutes" yaml:"minutes"`
	RefreshSeconds float64 `json:"refresh_seconds" yaml:"refresh_seconds"`
	SaveCSV        bool    `json:"save_csv" yaml:"save_csv"`
	ShowPlot       bool    `json:"show_plot" yaml:"show_plot"`
	MaxFailures    int     `json:"max_failures" yaml:"max_failures"` // 0 = never give up
	DBPath         string  `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Duration converts Minutes to a time.Duration
func (t TrackerConfig) Duration() time.Duration {
	return time.Duration(t.Minutes * float64(time.Minute))
}

// Refresh converts RefreshSeconds to a time.Duration
func (t TrackerConfig) Refresh() time.Duration {
	return time.Duration(t.RefreshSeconds * float64(time.Second))
}

type AlphaVantageConfig struct {
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Function   string `json:"function" yaml:"function"`
	OutputSize string `json:"output_size" yaml:"output_size"`
	Interval   string `json:"interval,omitempty" yaml:"interval,omitempty"`
	Compress   bool   `json:"compress" yaml:"compress"`
}

type CoinGeckoConfig struct {
	Limit int `json:"limit" yaml:"limit"`
}

type ScheduleConfig struct {
	Cron    string   `json:"cron" yaml:"cron"`
	Symbols []string `json:"symbols,omitempty" yaml:"symbols,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML or JSON based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings from the environment. getenv is os.Getenv
// outside tests.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvAPIKey)); v != "" {
		c.AlphaVantage.APIKey = v
	}
	if v := strings.TrimSpace(getenv(EnvOutDir)); v != "" {
		c.Output.Dir = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if _, err := history.ParseFormat(c.Output.HistoryFormat); err != nil {
		return fmt.Errorf("output.history_format: %w", err)
	}
	if c.Tracker.Minutes < 0 {
		return fmt.Errorf("tracker.minutes must not be negative")
	}
	if c.Tracker.RefreshSeconds <= 0 {
		return fmt.Errorf("tracker.refresh_seconds must be positive")
	}
	if c.Tracker.MaxFailures < 0 {
		return fmt.Errorf("tracker.max_failures must not be negative")
	}
	if alphavantage.SeriesKey(c.AlphaVantage.Function, c.AlphaVantage.Interval) == "" {
		return fmt.Errorf("alphavantage.function %q is not a supported time series", c.AlphaVantage.Function)
	}
	if c.AlphaVantage.OutputSize != "compact" && c.AlphaVantage.OutputSize != "full" {
		return fmt.Errorf("alphavantage.output_size must be 'compact' or 'full'")
	}
	if c.CoinGecko.Limit <= 0 || c.CoinGecko.Limit > 250 {
		return fmt.Errorf("coingecko.limit must be between 1 and 250")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:           ".",
			HistoryFormat: "csv",
		},
		Tracker: TrackerConfig{
			Minutes:        5,
			RefreshSeconds: 1,
			SaveCSV:        true,
			ShowPlot:       true,
		},
		AlphaVantage: AlphaVantageConfig{
			Function:   alphavantage.Daily,
			OutputSize: "full",
		},
		CoinGecko: CoinGeckoConfig{
			Limit: 50,
		},
		Schedule: ScheduleConfig{
			Cron: "0 30 22 * * 1-5",
		},
	}
}
