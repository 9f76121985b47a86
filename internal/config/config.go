package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig locates the two source datasets
type InputConfig struct {
	LandingsPath  string `yaml:"landings_path" envconfig:"LANDINGS_PATH" validate:"required"`
	IntervalsPath string `yaml:"intervals_path" envconfig:"INTERVALS_PATH" validate:"required"`
	TimeLayout    string `yaml:"time_layout" envconfig:"TIME_LAYOUT" validate:"required"`
}

// AnalysisConfig controls cleaning and the hypothesis test
type AnalysisConfig struct {
	Alpha     float64 `yaml:"alpha" envconfig:"ALPHA" validate:"gt=0,lt=1"`
	EqualVar  bool    `yaml:"equal_var" envconfig:"EQUAL_VAR"`
	FillHabit string  `yaml:"fill_habit" envconfig:"FILL_HABIT" validate:"required"`
}

// OutputConfig selects which artifacts an analysis run writes
type OutputConfig struct {
	Dir          string  `yaml:"dir" envconfig:"DIR" validate:"required"`
	Plots        bool    `yaml:"plots" envconfig:"PLOTS"`
	Excel        bool    `yaml:"excel" envconfig:"EXCEL"`
	CSV          bool    `yaml:"csv" envconfig:"CSV"`
	JSON         bool    `yaml:"json" envconfig:"JSON"`
	PlotWidthIn  float64 `yaml:"plot_width_in" envconfig:"PLOT_WIDTH_IN" validate:"gt=0"`
	PlotHeightIn float64 `yaml:"plot_height_in" envconfig:"PLOT_HEIGHT_IN" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// TelemetryConfig selects the OpenTelemetry exporters
type TelemetryConfig struct {
	Tracing     string  `yaml:"tracing" envconfig:"TRACING" validate:"oneof=stdout none"`
	Metrics     string  `yaml:"metrics" envconfig:"METRICS" validate:"oneof=prometheus none"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// ErrInvalidConfig is returned when the merged configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Default returns the configuration used when neither a file nor the
// environment says otherwise.
func Default() Config {
	return Config{
		Input: InputConfig{
			LandingsPath:  DefaultLandingsFile,
			IntervalsPath: DefaultIntervalsFile,
			TimeLayout:    DefaultTimeLayout,
		},
		Analysis: AnalysisConfig{
			Alpha:     DefaultAlpha,
			EqualVar:  true,
			FillHabit: DefaultFillHabit,
		},
		Output: OutputConfig{
			Dir:          DefaultOutputDir,
			Plots:        true,
			Excel:        true,
			CSV:          true,
			JSON:         true,
			PlotWidthIn:  10,
			PlotHeightIn: 7,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/batcli.log",
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Telemetry: TelemetryConfig{
			Tracing:     "none",
			Metrics:     "prometheus",
			SampleRatio: 1.0,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file, then
// BAT_* environment variables. An empty path falls back to BAT_CONFIG and
// then to batcli.yaml in the working directory; a missing default file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(ConfigEnvVar)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultConfigFile
	}

	if err := loadFromFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			// no config file, defaults and env only
		} else {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadFromFile overlays the keys present in the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints on the merged configuration
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s fails %q", ErrInvalidConfig, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("%w: logging.file_path is required for output %q", ErrInvalidConfig, c.Logging.Output)
	}
	return nil
}

// ServerAddress returns the listen address for the HTTP server
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
