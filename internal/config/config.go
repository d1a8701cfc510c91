package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"contractflow/pkg/report"
)

// EnvPrefix prefixes every environment override, e.g. CONTRACTFLOW_LOG_LEVEL.
const EnvPrefix = "CONTRACTFLOW"

// Config is the full run configuration.
type Config struct {
	Input  InputConfig  `mapstructure:"input"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
	Engine EngineConfig `mapstructure:"engine"`
}

// InputConfig controls roster parsing.
type InputConfig struct {
	Delimiter string `mapstructure:"delimiter"`
}

// DelimiterRune returns the configured delimiter as a rune.
func (c InputConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// OutputConfig controls the export step.
type OutputConfig struct {
	Dir     string   `mapstructure:"dir"`
	Formats []string `mapstructure:"formats"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig tunes classification.
type EngineConfig struct {
	Workers int `mapstructure:"workers"`
}

// Load reads configuration from defaults, the optional file at path and
// CONTRACTFLOW_* environment variables, in increasing precedence. With an
// empty path, config.yaml is looked up in ./config and the working
// directory; not finding one is fine.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("input.delimiter", ";")
	v.SetDefault("output.dir", "./exported_clean_data")
	v.SetDefault("output.formats", []string{report.FormatCSV, report.FormatXLSX, report.FormatYAML})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("engine.workers", 4)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	formats := make([]string, 0, len(c.Output.Formats))
	for _, f := range c.Output.Formats {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	c.Output.Formats = formats
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Input.Delimiter == "" {
		return fmt.Errorf("invalid config: input.delimiter must not be empty")
	}
	if utf8.RuneCountInString(c.Input.Delimiter) != 1 {
		return fmt.Errorf("invalid config: input.delimiter %q must be a single character", c.Input.Delimiter)
	}
	if r := c.Input.DelimiterRune(); r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return fmt.Errorf("invalid config: input.delimiter %q is not usable", c.Input.Delimiter)
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("invalid config: output.dir must not be empty")
	}
	for _, f := range c.Output.Formats {
		if !slices.Contains(report.SupportedFormats, f) {
			return fmt.Errorf("invalid config: output.formats: unsupported format %q (allowed: %s)",
				f, strings.Join(report.SupportedFormats, ", "))
		}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: log.level %q: %w", c.Log.Level, err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid config: log.format %q must be json or console", c.Log.Format)
	}
	if c.Engine.Workers < 1 {
		return fmt.Errorf("invalid config: engine.workers must be at least 1, got %d", c.Engine.Workers)
	}
	return nil
}
