package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no explicit config path is given.
const DefaultPath = "configs/config.yaml"

type Config struct {
	Report struct {
		Year  int `yaml:"year"`
		Month int `yaml:"month"`
	} `yaml:"report"`

	Input struct {
		Sentinel       string `yaml:"sentinel"`
		ICSPath        string `yaml:"ics_path"`
		MaxOccurrences int    `yaml:"max_occurrences"`
	} `yaml:"input"`

	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`

	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

// Load reads the YAML config at path. A missing file at the default path
// yields the defaults; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	var cfg Config
	cfg.Logging.Pretty = true

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Support ${ENV_VAR} placeholders in YAML config.
		data = []byte(os.ExpandEnv(string(data)))
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// defaults only
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err = cfg.applyDefaults(time.Now()); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults(now time.Time) error {
	if c.Report.Year == 0 {
		c.Report.Year = now.Year()
	}
	if c.Report.Month == 0 {
		c.Report.Month = int(now.Month())
	}
	if c.Report.Month < 1 || c.Report.Month > 12 {
		return fmt.Errorf("report.month must be between 1 and 12, got %d", c.Report.Month)
	}
	if c.Input.Sentinel == "" {
		c.Input.Sentinel = "done"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	return nil
}

// ReportMonth returns the month the daily tables are rendered for.
func (c *Config) ReportMonth() time.Month {
	return time.Month(c.Report.Month)
}

// ReportWindow returns the first and last instant of the report year.
func (c *Config) ReportWindow() (time.Time, time.Time) {
	from := time.Date(c.Report.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0).Add(-time.Nanosecond)
}
