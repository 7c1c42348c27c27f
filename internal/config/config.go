// Package config loads CLI configuration from a YAML or JSON file, the
// environment and .env files.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-resumetpl/pkg/layout"
)

// EnvPrefix prefixes every environment variable read by FromEnv.
const EnvPrefix = "RESUMETPL_"

// Config is the CLI configuration. All fields are optional; zero values take
// defaults from Default.
type Config struct {
	// Template sources, consulted in this order: directory, HTTP, Postgres,
	// then the embedded templates unless DisableEmbedded is set.
	TemplatesDir    string `json:"templates_dir,omitempty" yaml:"templates_dir,omitempty"`
	TemplatesURL    string `json:"templates_url,omitempty" yaml:"templates_url,omitempty" validate:"omitempty,url"`
	DatabaseURL     string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	DisableEmbedded bool   `json:"disable_embedded,omitempty" yaml:"disable_embedded,omitempty"`

	DefaultTemplate string `json:"default_template,omitempty" yaml:"default_template,omitempty"`
	HTTPTimeout     string `json:"http_timeout,omitempty" yaml:"http_timeout,omitempty"`

	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,oneof=text json"`

	Layout LayoutConfig `json:"layout,omitempty" yaml:"layout,omitempty"`
	Watch  WatchConfig  `json:"watch,omitempty" yaml:"watch,omitempty"`
}

// LayoutConfig mirrors layout.Policy. Zero caps keep the defaults; set
// Unbounded to disable clamping entirely.
type LayoutConfig struct {
	PaddingCapRem   float64 `json:"padding_cap_rem,omitempty" yaml:"padding_cap_rem,omitempty" validate:"gte=0"`
	PaddingCapPx    float64 `json:"padding_cap_px,omitempty" yaml:"padding_cap_px,omitempty" validate:"gte=0"`
	GapCapRem       float64 `json:"gap_cap_rem,omitempty" yaml:"gap_cap_rem,omitempty" validate:"gte=0"`
	GapCapPx        float64 `json:"gap_cap_px,omitempty" yaml:"gap_cap_px,omitempty" validate:"gte=0"`
	DefaultPadding  string  `json:"default_padding,omitempty" yaml:"default_padding,omitempty"`
	DefaultMaxWidth string  `json:"default_max_width,omitempty" yaml:"default_max_width,omitempty"`
	Unbounded       bool    `json:"unbounded,omitempty" yaml:"unbounded,omitempty"`
}

// WatchConfig configures the template directory watcher.
type WatchConfig struct {
	Debounce string `json:"debounce,omitempty" yaml:"debounce,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	policy := layout.DefaultPolicy()
	return Config{
		DefaultTemplate: "modern-two-column",
		HTTPTimeout:     "10s",
		LogLevel:        "info",
		LogFormat:       "text",
		Layout: LayoutConfig{
			PaddingCapRem:   policy.PaddingCapRem,
			PaddingCapPx:    policy.PaddingCapPx,
			GapCapRem:       policy.GapCapRem,
			GapCapPx:        policy.GapCapPx,
			DefaultPadding:  policy.DefaultPadding,
			DefaultMaxWidth: policy.DefaultMaxWidth,
		},
		Watch: WatchConfig{Debounce: "250ms"},
	}
}

// Load reads a YAML or JSON configuration file.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("config: path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	// YAML is a superset of JSON, so one decoder covers both.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are ignored; existing variables are not overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}

// FromEnv overlays environment values onto c. DATABASE_URL is honoured when
// RESUMETPL_DATABASE_URL is unset.
func (c Config) FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(EnvPrefix + key)); v != "" {
			*dst = v
		}
	}
	str("TEMPLATES_DIR", &c.TemplatesDir)
	str("TEMPLATES_URL", &c.TemplatesURL)
	str("DEFAULT_TEMPLATE", &c.DefaultTemplate)
	str("HTTP_TIMEOUT", &c.HTTPTimeout)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("WATCH_DEBOUNCE", &c.Watch.Debounce)
	str("DATABASE_URL", &c.DatabaseURL)
	if c.DatabaseURL == "" {
		c.DatabaseURL = strings.TrimSpace(getenv("DATABASE_URL"))
	}

	if v := strings.TrimSpace(getenv(EnvPrefix + "DISABLE_EMBEDDED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("config: %sDISABLE_EMBEDDED: %w", EnvPrefix, err)
		}
		c.DisableEmbedded = b
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"PADDING_CAP_REM", &c.Layout.PaddingCapRem},
		{"PADDING_CAP_PX", &c.Layout.PaddingCapPx},
		{"GAP_CAP_REM", &c.Layout.GapCapRem},
		{"GAP_CAP_PX", &c.Layout.GapCapPx},
	}
	for _, f := range floats {
		v := strings.TrimSpace(getenv(EnvPrefix + f.key))
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, fmt.Errorf("config: %s%s: %w", EnvPrefix, f.key, err)
		}
		*f.dst = n
	}
	return c, nil
}

var validate = validator.New()

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			first := vErrs[0]
			return fmt.Errorf("config: %s failed %q (value %v)", first.Namespace(), first.Tag(), first.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	for name, value := range map[string]string{
		"http_timeout":   c.HTTPTimeout,
		"watch.debounce": c.Watch.Debounce,
	} {
		if value == "" {
			continue
		}
		if d, err := time.ParseDuration(value); err != nil || d < 0 {
			return fmt.Errorf("config: %s %q is not a valid duration", name, value)
		}
	}
	if c.TemplatesDir != "" {
		info, err := os.Stat(c.TemplatesDir)
		if err != nil {
			return fmt.Errorf("config: templates_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("config: templates_dir %s is not a directory", c.TemplatesDir)
		}
	}
	if c.DisableEmbedded && c.TemplatesDir == "" && c.TemplatesURL == "" && c.DatabaseURL == "" {
		return errors.New("config: embedded templates disabled but no other source configured")
	}
	return nil
}

// MergeWithDefaults returns a copy with zero fields filled from defaults.
// Booleans cannot be told apart from unset and are never merged.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.TemplatesDir, defaults.TemplatesDir)
	fill(&result.TemplatesURL, defaults.TemplatesURL)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.DefaultTemplate, defaults.DefaultTemplate)
	fill(&result.HTTPTimeout, defaults.HTTPTimeout)
	fill(&result.LogLevel, defaults.LogLevel)
	fill(&result.LogFormat, defaults.LogFormat)
	fill(&result.Layout.DefaultPadding, defaults.Layout.DefaultPadding)
	fill(&result.Layout.DefaultMaxWidth, defaults.Layout.DefaultMaxWidth)
	fill(&result.Watch.Debounce, defaults.Watch.Debounce)

	fillFloat := func(dst *float64, def float64) {
		if *dst == 0 {
			*dst = def
		}
	}
	fillFloat(&result.Layout.PaddingCapRem, defaults.Layout.PaddingCapRem)
	fillFloat(&result.Layout.PaddingCapPx, defaults.Layout.PaddingCapPx)
	fillFloat(&result.Layout.GapCapRem, defaults.Layout.GapCapRem)
	fillFloat(&result.Layout.GapCapPx, defaults.Layout.GapCapPx)
	return result
}

// Policy converts the layout section into a clamp policy.
func (c Config) Policy() layout.Policy {
	if c.Layout.Unbounded {
		p := layout.Unbounded()
		if c.Layout.DefaultPadding != "" {
			p.DefaultPadding = c.Layout.DefaultPadding
		}
		if c.Layout.DefaultMaxWidth != "" {
			p.DefaultMaxWidth = c.Layout.DefaultMaxWidth
		}
		return p
	}
	return layout.Policy{
		PaddingCapRem:   c.Layout.PaddingCapRem,
		PaddingCapPx:    c.Layout.PaddingCapPx,
		GapCapRem:       c.Layout.GapCapRem,
		GapCapPx:        c.Layout.GapCapPx,
		DefaultPadding:  c.Layout.DefaultPadding,
		DefaultMaxWidth: c.Layout.DefaultMaxWidth,
	}
}

// Timeout returns the HTTP source timeout, defaulting to 10s.
func (c Config) Timeout() time.Duration {
	return parseDuration(c.HTTPTimeout, 10*time.Second)
}

// Debounce returns the watcher debounce, defaulting to 250ms.
func (c Config) Debounce() time.Duration {
	return parseDuration(c.Watch.Debounce, 250*time.Millisecond)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Level maps LogLevel onto slog.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the configured slog logger writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
