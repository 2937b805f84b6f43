package config

import (
	"io/ioutil"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/btadapter"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Config is the complete btadapter configuration
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Adapter AdapterConfig `yaml:"adapter"`
}

// LogConfig holds logging settings. An empty File logs to stderr.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// AdapterConfig holds controller settings
type AdapterConfig struct {
	DiscoveryTimeoutMs       int    `yaml:"discoveryTimeoutMs"`
	MaxConnectedAudioDevices int    `yaml:"maxConnectedAudioDevices"`
	A2DPOffloadEnabled       bool   `yaml:"a2dpOffloadEnabled"`
	ScanModeHistory          int    `yaml:"scanModeHistory"`
	PlayerListTrailing       string `yaml:"playerListTrailing"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Adapter: AdapterConfig{
			DiscoveryTimeoutMs:       12800,
			MaxConnectedAudioDevices: 1,
			ScanModeHistory:          10,
			PlayerListTrailing:       "include",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is not empty) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, errors.Wrapf(err, "failed to load config from %s", path)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

func loadFromFile(cfg *Config, filename string) error {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}

	return yaml.UnmarshalStrict(data, cfg)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("BTADAPTER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("BTADAPTER_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	if v := os.Getenv("BTADAPTER_MAX_AUDIO_DEVICES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "BTADAPTER_MAX_AUDIO_DEVICES")
		}
		cfg.Adapter.MaxConnectedAudioDevices = n
	}

	if v := os.Getenv("BTADAPTER_A2DP_OFFLOAD"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "BTADAPTER_A2DP_OFFLOAD")
		}
		cfg.Adapter.A2DPOffloadEnabled = b
	}

	return nil
}

// Validate checks ranges. Out of range audio device limits are clamped by
// the controller, not rejected here.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		return errors.Errorf("log maxSizeMB %d must be positive", c.Log.MaxSizeMB)
	}

	if c.Adapter.DiscoveryTimeoutMs <= 0 || c.Adapter.DiscoveryTimeoutMs > 300000 {
		return errors.Errorf("discovery timeout %dms is outside range [1, 300000]", c.Adapter.DiscoveryTimeoutMs)
	}

	if c.Adapter.ScanModeHistory < 1 {
		return errors.Errorf("scan mode history %d must be at least 1", c.Adapter.ScanModeHistory)
	}

	if _, err := btadapter.ParseTrailingSegment(c.Adapter.PlayerListTrailing); err != nil {
		return err
	}

	return nil
}

// Options converts the adapter section into controller options.
func (c *Config) Options() ([]btadapter.Option, error) {
	trailing, err := btadapter.ParseTrailingSegment(c.Adapter.PlayerListTrailing)
	if err != nil {
		return nil, err
	}

	return []btadapter.Option{
		btadapter.OptDiscoveryTimeout(time.Duration(c.Adapter.DiscoveryTimeoutMs) * time.Millisecond),
		btadapter.OptMaxConnectedAudioDevices(c.Adapter.MaxConnectedAudioDevices),
		btadapter.OptA2DPOffload(c.Adapter.A2DPOffloadEnabled),
		btadapter.OptScanModeHistory(c.Adapter.ScanModeHistory),
		btadapter.OptPlayerListTrailing(trailing),
	}, nil
}
