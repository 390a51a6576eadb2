// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/artpar/judegen/core/convention"
	"github.com/artpar/judegen/core/emit"
	"github.com/artpar/judegen/core/formatter"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "judegen.yaml"

// Config is the root configuration structure.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Naming  NamingConfig  `yaml:"naming"`
	Layout  LayoutConfig  `yaml:"layout"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Serve   ServeConfig   `yaml:"serve"`
	Watch   WatchConfig   `yaml:"watch"`
}

// OutputConfig configures where and how descriptors are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // formatter name: json, yaml, table
}

// NamingConfig configures generated identifiers.
type NamingConfig struct {
	StructSuffix string `yaml:"struct_suffix"`
	MemberPrefix string `yaml:"member_prefix"`
	ObjectSuffix string `yaml:"object_suffix"`
	Legacy       bool   `yaml:"legacy"`
}

// Convention returns the naming options as a convention config.
func (n NamingConfig) Convention() convention.Config {
	return convention.Config{
		StructSuffix: n.StructSuffix,
		MemberPrefix: n.MemberPrefix,
		ObjectSuffix: n.ObjectSuffix,
		Legacy:       n.Legacy,
	}
}

// LayoutConfig configures storage layout.
type LayoutConfig struct {
	PointerSize int `yaml:"pointer_size"` // 4 or 8
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`  // Enable /metrics endpoint and textfile export
	Textfile string `yaml:"textfile"` // Optional node_exporter textfile written after each session
}

// ServeConfig configures the descriptor browser.
type ServeConfig struct {
	Addr    string        `yaml:"addr"`
	Timeout time.Duration `yaml:"timeout"`
}

// WatchConfig configures recompilation on schema changes.
type WatchConfig struct {
	Debounce    time.Duration `yaml:"debounce"`     // quiet period after the last change
	MinInterval time.Duration `yaml:"min_interval"` // minimum time between two sessions
}

// Emit returns the emission options the config describes.
func (c *Config) Emit() emit.Config {
	return emit.Config{Naming: c.Naming.Convention(), PointerSize: c.Layout.PointerSize}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return finish(&cfg)
}

// LoadFromEnv creates configuration from defaults and environment variables.
//
// Environment variables:
//
//	JUDEGEN_OUTPUT_DIR          - Output directory (default: out)
//	JUDEGEN_OUTPUT_FORMAT       - Formatter name (default: json)
//	JUDEGEN_NAMING_LEGACY       - Legacy accessor naming (default: false)
//	JUDEGEN_LAYOUT_POINTER_SIZE - Pointer size in bytes (default: 8)
//	JUDEGEN_LOG_LEVEL           - Log level: debug, info, warn, error (default: info)
//	JUDEGEN_LOG_FORMAT          - Log format: json or console (default: console)
//	JUDEGEN_METRICS_ENABLED     - Enable metrics (default: false)
//	JUDEGEN_METRICS_TEXTFILE    - Textfile export path
//	JUDEGEN_SERVE_ADDR          - Browser listen address (default: 127.0.0.1:8080)
//	JUDEGEN_WATCH_DEBOUNCE      - Watch debounce (default: 200ms)
//	JUDEGEN_WATCH_MIN_INTERVAL  - Minimum time between watch sessions (default: 1s)
func LoadFromEnv() (*Config, error) {
	return finish(&Config{})
}

// LoadWithFallback loads path when it exists and falls back to defaults and
// environment variables otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

func finish(cfg *Config) (*Config, error) {
	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies JUDEGEN_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("JUDEGEN_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("JUDEGEN_OUTPUT_FORMAT"); v != "" {
		cfg.Output.Format = v
	}

	if v := os.Getenv("JUDEGEN_NAMING_STRUCT_SUFFIX"); v != "" {
		cfg.Naming.StructSuffix = v
	}
	if v := os.Getenv("JUDEGEN_NAMING_MEMBER_PREFIX"); v != "" {
		cfg.Naming.MemberPrefix = v
	}
	if v := os.Getenv("JUDEGEN_NAMING_OBJECT_SUFFIX"); v != "" {
		cfg.Naming.ObjectSuffix = v
	}
	if v := os.Getenv("JUDEGEN_NAMING_LEGACY"); v != "" {
		cfg.Naming.Legacy = parseBool(v)
	}

	if v := os.Getenv("JUDEGEN_LAYOUT_POINTER_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Layout.PointerSize = n
		}
	}

	if v := os.Getenv("JUDEGEN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("JUDEGEN_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("JUDEGEN_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("JUDEGEN_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}

	if v := os.Getenv("JUDEGEN_SERVE_ADDR"); v != "" {
		cfg.Serve.Addr = v
	}

	if v := os.Getenv("JUDEGEN_WATCH_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	if v := os.Getenv("JUDEGEN_WATCH_MIN_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Watch.MinInterval = d
		}
	}
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "out"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = formatter.DefaultRegistry.Default().Name()
	}

	base := convention.Default()
	if cfg.Naming.Legacy {
		base = convention.LegacyConfig()
	}
	if cfg.Naming.StructSuffix == "" {
		cfg.Naming.StructSuffix = base.StructSuffix
	}
	if cfg.Naming.MemberPrefix == "" {
		cfg.Naming.MemberPrefix = base.MemberPrefix
	}
	if cfg.Naming.ObjectSuffix == "" {
		cfg.Naming.ObjectSuffix = base.ObjectSuffix
	}

	if cfg.Layout.PointerSize == 0 {
		cfg.Layout.PointerSize = emit.DefaultPointerSize
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = "127.0.0.1:8080"
	}
	if cfg.Serve.Timeout == 0 {
		cfg.Serve.Timeout = 30 * time.Second
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 200 * time.Millisecond
	}
	if cfg.Watch.MinInterval == 0 {
		cfg.Watch.MinInterval = time.Second
	}
}

func validate(cfg *Config) error {
	if _, err := formatter.Lookup(cfg.Output.Format); err != nil {
		return fmt.Errorf("output.format must be one of: %s, got %q",
			strings.Join(formatter.List(), ", "), cfg.Output.Format)
	}

	if cfg.Layout.PointerSize != 4 && cfg.Layout.PointerSize != 8 {
		return fmt.Errorf("layout.pointer_size must be 4 or 8, got %d", cfg.Layout.PointerSize)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got %q", cfg.Logging.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if cfg.Watch.Debounce < 0 || cfg.Watch.MinInterval < 0 {
		return fmt.Errorf("watch durations must not be negative")
	}

	return nil
}
