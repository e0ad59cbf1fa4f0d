// Package config loads application configuration from environment
// variables layered over an optional YAML file, and resolves the
// filesystem paths the pipeline writes to.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Chart   ChartConfig   `yaml:"chart" envconfig:"CHART"`
	Sample  SampleConfig  `yaml:"sample" envconfig:"SAMPLE"`
	Limits  LimitsConfig  `yaml:"limits" envconfig:"LIMITS"`
	License LicenseConfig `yaml:"license" envconfig:"LICENSE"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"120s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"16777216"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	UploadsDir string `yaml:"uploads_dir" envconfig:"UPLOADS_DIR" default:"uploads"`
}

// ChartConfig carries the rendering style passed explicitly into the chart
// renderer. It replaces the process-wide styling state the upstream tooling
// configured at import time.
type ChartConfig struct {
	FontFile              string   `yaml:"font_file" envconfig:"FONT_FILE"`
	Palette               []string `yaml:"palette" envconfig:"PALETTE" default:"#0077B6,#00B4D8,#90E0EF,#CAF0F8,#48CAE4,#03045E"`
	DPI                   float64  `yaml:"dpi" envconfig:"DPI" default:"300"`
	TransparentBackground bool     `yaml:"transparent_background" envconfig:"TRANSPARENT_BACKGROUND" default:"false"`
}

// SampleConfig controls the synthetic demo dataset.
type SampleConfig struct {
	Accounts int   `yaml:"accounts" envconfig:"ACCOUNTS" default:"6"`
	Days     int   `yaml:"days" envconfig:"DAYS" default:"30"`
	Seed     int64 `yaml:"seed" envconfig:"SEED" default:"0"`
}

// LimitsConfig contains rate limiting configuration
type LimitsConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"10"`
}

// LicenseConfig holds third-party license keys.
type LicenseConfig struct {
	UnidocKey string `yaml:"unidoc_key" envconfig:"UNIDOC_KEY"`
}

// Load loads configuration from environment variables layered over the
// YAML file named by DOUYIN_CONFIG_FILE (default config.yaml). Precedence
// is defaults, then file values, then environment variables. envconfig
// applies struct-tag defaults for every unset variable, so the file is
// merged afterwards, taking effect only where no variable was set.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("DOUYIN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	path := os.Getenv("DOUYIN_CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		mergeFile(&cfg, &file)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// fileConfig mirrors Config with pointer fields so values absent from the
// YAML file can be told apart from zero values during the merge.
type fileConfig struct {
	Server struct {
		Port            *int           `yaml:"port"`
		ReadTimeout     *time.Duration `yaml:"read_timeout"`
		WriteTimeout    *time.Duration `yaml:"write_timeout"`
		IdleTimeout     *time.Duration `yaml:"idle_timeout"`
		ShutdownTimeout *time.Duration `yaml:"shutdown_timeout"`
		MaxUploadBytes  *int64         `yaml:"max_upload_bytes"`
	} `yaml:"server"`
	Logging struct {
		Level  *string `yaml:"level"`
		Format *string `yaml:"format"`
	} `yaml:"logging"`
	Paths struct {
		DataDir    *string `yaml:"data_dir"`
		ReportsDir *string `yaml:"reports_dir"`
		UploadsDir *string `yaml:"uploads_dir"`
	} `yaml:"paths"`
	Chart struct {
		FontFile              *string   `yaml:"font_file"`
		Palette               *[]string `yaml:"palette"`
		DPI                   *float64  `yaml:"dpi"`
		TransparentBackground *bool     `yaml:"transparent_background"`
	} `yaml:"chart"`
	Sample struct {
		Accounts *int   `yaml:"accounts"`
		Days     *int   `yaml:"days"`
		Seed     *int64 `yaml:"seed"`
	} `yaml:"sample"`
	Limits struct {
		Enabled *bool    `yaml:"enabled"`
		RPS     *float64 `yaml:"rps"`
		Burst   *int     `yaml:"burst"`
	} `yaml:"limits"`
	License struct {
		UnidocKey *string `yaml:"unidoc_key"`
	} `yaml:"license"`
}

// mergeFile copies file values into cfg for every field whose environment
// variable is unset, keeping the env-over-file precedence.
func mergeFile(cfg *Config, file *fileConfig) {
	useFile := func(envVar string) bool {
		_, set := os.LookupEnv(envVar)
		return !set
	}

	if file.Server.Port != nil && useFile("DOUYIN_SERVER_PORT") {
		cfg.Server.Port = *file.Server.Port
	}
	if file.Server.ReadTimeout != nil && useFile("DOUYIN_SERVER_READ_TIMEOUT") {
		cfg.Server.ReadTimeout = *file.Server.ReadTimeout
	}
	if file.Server.WriteTimeout != nil && useFile("DOUYIN_SERVER_WRITE_TIMEOUT") {
		cfg.Server.WriteTimeout = *file.Server.WriteTimeout
	}
	if file.Server.IdleTimeout != nil && useFile("DOUYIN_SERVER_IDLE_TIMEOUT") {
		cfg.Server.IdleTimeout = *file.Server.IdleTimeout
	}
	if file.Server.ShutdownTimeout != nil && useFile("DOUYIN_SERVER_SHUTDOWN_TIMEOUT") {
		cfg.Server.ShutdownTimeout = *file.Server.ShutdownTimeout
	}
	if file.Server.MaxUploadBytes != nil && useFile("DOUYIN_SERVER_MAX_UPLOAD_BYTES") {
		cfg.Server.MaxUploadBytes = *file.Server.MaxUploadBytes
	}
	if file.Logging.Level != nil && useFile("DOUYIN_LOGGING_LEVEL") {
		cfg.Logging.Level = *file.Logging.Level
	}
	if file.Logging.Format != nil && useFile("DOUYIN_LOGGING_FORMAT") {
		cfg.Logging.Format = *file.Logging.Format
	}
	if file.Paths.DataDir != nil && useFile("DOUYIN_PATHS_DATA_DIR") {
		cfg.Paths.DataDir = *file.Paths.DataDir
	}
	if file.Paths.ReportsDir != nil && useFile("DOUYIN_PATHS_REPORTS_DIR") {
		cfg.Paths.ReportsDir = *file.Paths.ReportsDir
	}
	if file.Paths.UploadsDir != nil && useFile("DOUYIN_PATHS_UPLOADS_DIR") {
		cfg.Paths.UploadsDir = *file.Paths.UploadsDir
	}
	if file.Chart.FontFile != nil && useFile("DOUYIN_CHART_FONT_FILE") {
		cfg.Chart.FontFile = *file.Chart.FontFile
	}
	if file.Chart.Palette != nil && useFile("DOUYIN_CHART_PALETTE") {
		cfg.Chart.Palette = *file.Chart.Palette
	}
	if file.Chart.DPI != nil && useFile("DOUYIN_CHART_DPI") {
		cfg.Chart.DPI = *file.Chart.DPI
	}
	if file.Chart.TransparentBackground != nil && useFile("DOUYIN_CHART_TRANSPARENT_BACKGROUND") {
		cfg.Chart.TransparentBackground = *file.Chart.TransparentBackground
	}
	if file.Sample.Accounts != nil && useFile("DOUYIN_SAMPLE_ACCOUNTS") {
		cfg.Sample.Accounts = *file.Sample.Accounts
	}
	if file.Sample.Days != nil && useFile("DOUYIN_SAMPLE_DAYS") {
		cfg.Sample.Days = *file.Sample.Days
	}
	if file.Sample.Seed != nil && useFile("DOUYIN_SAMPLE_SEED") {
		cfg.Sample.Seed = *file.Sample.Seed
	}
	if file.Limits.Enabled != nil && useFile("DOUYIN_LIMITS_ENABLED") {
		cfg.Limits.Enabled = *file.Limits.Enabled
	}
	if file.Limits.RPS != nil && useFile("DOUYIN_LIMITS_RPS") {
		cfg.Limits.RPS = *file.Limits.RPS
	}
	if file.Limits.Burst != nil && useFile("DOUYIN_LIMITS_BURST") {
		cfg.Limits.Burst = *file.Limits.Burst
	}
	if file.License.UnidocKey != nil && useFile("DOUYIN_LICENSE_UNIDOC_KEY") {
		cfg.License.UnidocKey = *file.License.UnidocKey
	}
}

// Validate checks configuration values that would otherwise fail deep in
// the pipeline.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Chart.DPI <= 0 {
		return fmt.Errorf("invalid chart dpi: %f", c.Chart.DPI)
	}
	if c.Sample.Accounts <= 0 || c.Sample.Days <= 0 {
		return fmt.Errorf("sample accounts and days must be positive")
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}
	return nil
}
