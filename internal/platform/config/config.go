package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL       = "http://localhost:8000"
	DefaultPollInterval = 30 * time.Second
	DefaultAlertTTL     = 5 * time.Second
	DefaultAlertExit    = 300 * time.Millisecond
)

type Config struct {
	DataDir             string
	DBPath              string
	LogPath             string
	APIURL              string
	PollInterval        time.Duration
	AlertTTL            time.Duration
	AlertExit           time.Duration
	StopPollingOnLogout bool
	LogLevel            string
}

// fileConfig mirrors config.yaml. Pointers distinguish "unset" from zero.
type fileConfig struct {
	APIURL              string `yaml:"api_url"`
	PollInterval        string `yaml:"poll_interval"`
	AlertTTL            string `yaml:"alert_ttl"`
	AlertExit           string `yaml:"alert_exit"`
	StopPollingOnLogout *bool  `yaml:"stop_polling_on_logout"`
	LogLevel            string `yaml:"log_level"`
}

// New returns the defaults rooted at dataDir.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:             dataDir,
		DBPath:              filepath.Join(dataDir, "labsched.db"),
		LogPath:             filepath.Join(dataDir, "labsched.log"),
		APIURL:              DefaultAPIURL,
		PollInterval:        DefaultPollInterval,
		AlertTTL:            DefaultAlertTTL,
		AlertExit:           DefaultAlertExit,
		StopPollingOnLogout: true,
		LogLevel:            "info",
	}, nil
}

// Load layers defaults, the YAML file (configPath, or <dataDir>/config.yaml when
// empty; a missing default file is fine) and LABSCHED_* environment variables.
// A .env file in the working directory is loaded first when present.
func Load(dataDir, configPath string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(dataDir, "config.yaml")
	}
	raw, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := cfg.applyFile(raw); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(raw []byte) error {
	fc := fileConfig{}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	if fc.APIURL != "" {
		c.APIURL = fc.APIURL
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.StopPollingOnLogout != nil {
		c.StopPollingOnLogout = *fc.StopPollingOnLogout
	}
	for _, field := range []struct {
		raw string
		dst *time.Duration
		key string
	}{
		{fc.PollInterval, &c.PollInterval, "poll_interval"},
		{fc.AlertTTL, &c.AlertTTL, "alert_ttl"},
		{fc.AlertExit, &c.AlertExit, "alert_exit"},
	} {
		if field.raw == "" {
			continue
		}
		d, err := time.ParseDuration(field.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.dst = d
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("LABSCHED_API_URL"); ok && v != "" {
		c.APIURL = v
	}
	if v, ok := os.LookupEnv("LABSCHED_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv("LABSCHED_POLL_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LABSCHED_POLL_INTERVAL: %w", err)
		}
		c.PollInterval = d
	}
	return nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api url must be absolute: %q", c.APIURL)
	}
	if c.PollInterval <= 0 || c.AlertTTL <= 0 || c.AlertExit <= 0 {
		return fmt.Errorf("poll interval and alert durations must be positive")
	}
	return nil
}
