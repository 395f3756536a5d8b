package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// ServerConfig contains HTTP viewer configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/genex.log"`
}

// PathsConfig contains the directory layout configuration.
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	PlotsDir   string `yaml:"plots_dir" envconfig:"PLOTS_DIR" default:"plots"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// PipelineConfig controls the cleaning pipeline.
type PipelineConfig struct {
	// AnnotationSeparator is the literal delimiter packing the annotation
	// fields into the composite NAME column.
	AnnotationSeparator string `yaml:"annotation_separator" envconfig:"ANNOTATION_SEPARATOR" default:"||"`
	// AnnotationFields is the expected field count after splitting NAME.
	AnnotationFields int `yaml:"annotation_fields" envconfig:"ANNOTATION_FIELDS" default:"5" validate:"min=2"`
	// Strict makes malformed rows fail the run instead of being skipped.
	Strict bool `yaml:"strict" envconfig:"STRICT" default:"false"`
}

// RateLimitConfig contains HTTP rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// Load loads configuration from environment variables and, when present,
// the genex.yml config file. Environment values take precedence over file
// values; struct defaults fill the rest.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("GENEX", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration with struct defaults applied and no
// environment or file input considered.
func Default() *Config {
	var cfg Config
	// envconfig fills defaults; unknown env vars for an empty prefix are
	// not consulted because the prefix is unused in practice.
	_ = envconfig.Process("GENEX_UNSET", &cfg)
	return &cfg
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func configFilePath() string {
	if path := os.Getenv("GENEX_CONFIG"); path != "" {
		return path
	}
	return "genex.yml"
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs overlays env-derived values onto file values. A zero value
// in env means "not set there"; the file value survives.
func mergeConfigs(file, env Config) Config {
	out := file

	if env.Server.Port != 0 {
		out.Server.Port = env.Server.Port
	}
	if env.Server.ReadTimeout != 0 {
		out.Server.ReadTimeout = env.Server.ReadTimeout
	}
	if env.Server.WriteTimeout != 0 {
		out.Server.WriteTimeout = env.Server.WriteTimeout
	}
	if env.Server.IdleTimeout != 0 {
		out.Server.IdleTimeout = env.Server.IdleTimeout
	}
	if env.Server.ShutdownTimeout != 0 {
		out.Server.ShutdownTimeout = env.Server.ShutdownTimeout
	}

	if env.Logging.Level != "" {
		out.Logging.Level = env.Logging.Level
	}
	if env.Logging.Format != "" {
		out.Logging.Format = env.Logging.Format
	}
	if env.Logging.Output != "" {
		out.Logging.Output = env.Logging.Output
	}
	if env.Logging.FilePath != "" {
		out.Logging.FilePath = env.Logging.FilePath
	}

	if env.Paths.BaseDir != "" {
		out.Paths.BaseDir = env.Paths.BaseDir
	}
	if env.Paths.DataDir != "" {
		out.Paths.DataDir = env.Paths.DataDir
	}
	if env.Paths.ReportsDir != "" {
		out.Paths.ReportsDir = env.Paths.ReportsDir
	}
	if env.Paths.PlotsDir != "" {
		out.Paths.PlotsDir = env.Paths.PlotsDir
	}
	if env.Paths.LogsDir != "" {
		out.Paths.LogsDir = env.Paths.LogsDir
	}

	if env.Pipeline.AnnotationSeparator != "" {
		out.Pipeline.AnnotationSeparator = env.Pipeline.AnnotationSeparator
	}
	if env.Pipeline.AnnotationFields != 0 {
		out.Pipeline.AnnotationFields = env.Pipeline.AnnotationFields
	}
	if env.Pipeline.Strict {
		out.Pipeline.Strict = true
	}

	if env.RateLimit.RPS != 0 {
		out.RateLimit.RPS = env.RateLimit.RPS
	}
	if env.RateLimit.Burst != 0 {
		out.RateLimit.Burst = env.RateLimit.Burst
	}
	out.RateLimit.Enabled = env.RateLimit.Enabled

	return out
}
