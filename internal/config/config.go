package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/radar-mms/ccl/internal/lib/traverse"
)

// EnvPrefix marks environment overrides, e.g. CCL__SERVER__PORT=9090
const EnvPrefix = "CCL__"

// Config represents the complete server configuration
type Config struct {
	Server  ServerConfig  `koanf:"server" yaml:"server"`
	Planner PlannerConfig `koanf:"planner" yaml:"planner"`
	Logging LoggingConfig `koanf:"logging" yaml:"logging"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port         int           `koanf:"port" yaml:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout" yaml:"write_timeout"`
	CorsOrigins  []string      `koanf:"cors_origins" yaml:"cors_origins"`
}

// PlannerConfig holds request defaults and plan caching
type PlannerConfig struct {
	DefaultSpacing    float64       `koanf:"default_spacing" yaml:"default_spacing"`
	DefaultAngle      float64       `koanf:"default_angle" yaml:"default_angle"`
	DefaultTurnAround float64       `koanf:"default_turn_around" yaml:"default_turn_around"`
	DefaultEntry      string        `koanf:"default_entry" yaml:"default_entry"`
	OrthodromSpacing  float64       `koanf:"orthodrom_spacing_km" yaml:"orthodrom_spacing_km"`
	CacheTTL          time.Duration `koanf:"cache_ttl" yaml:"cache_ttl"`
	CleanupInterval   time.Duration `koanf:"cleanup_interval" yaml:"cleanup_interval"`
	MaxTiles          int           `koanf:"max_tiles" yaml:"max_tiles"`
}

// LoggingConfig selects the slog handler
type LoggingConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	defaults := traverse.DefaultOptions()
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			CorsOrigins:  []string{"*"},
		},
		Planner: PlannerConfig{
			DefaultSpacing:    defaults.Spacing,
			DefaultAngle:      defaults.Angle,
			DefaultTurnAround: defaults.TurnAround,
			DefaultEntry:      defaults.Entry.String(),
			OrthodromSpacing:  10,
			CacheTTL:          15 * time.Minute,
			CleanupInterval:   5 * time.Minute,
			MaxTiles:          10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load layers defaults, the YAML file at path (skipped when path is empty
// or missing) and CCL__ environment variables, then validates the result
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps CCL__PLANNER__CACHE_TTL to planner.cache_ttl
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func defaultMap() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"server.port":                  d.Server.Port,
		"server.read_timeout":          d.Server.ReadTimeout,
		"server.write_timeout":         d.Server.WriteTimeout,
		"server.cors_origins":          d.Server.CorsOrigins,
		"planner.default_spacing":      d.Planner.DefaultSpacing,
		"planner.default_angle":        d.Planner.DefaultAngle,
		"planner.default_turn_around":  d.Planner.DefaultTurnAround,
		"planner.default_entry":        d.Planner.DefaultEntry,
		"planner.orthodrom_spacing_km": d.Planner.OrthodromSpacing,
		"planner.cache_ttl":            d.Planner.CacheTTL,
		"planner.cleanup_interval":     d.Planner.CleanupInterval,
		"planner.max_tiles":            d.Planner.MaxTiles,
		"logging.level":                d.Logging.Level,
		"logging.format":               d.Logging.Format,
	}
}

// Validate checks that the configuration fields are sane
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	if !(c.Planner.DefaultSpacing >= traverse.MinSpacing) {
		errs = append(errs, fmt.Sprintf("planner.default_spacing must be at least %.1f, got %g",
			traverse.MinSpacing, c.Planner.DefaultSpacing))
	}
	if math.IsNaN(c.Planner.DefaultAngle) || math.IsInf(c.Planner.DefaultAngle, 0) {
		errs = append(errs, "planner.default_angle must be finite")
	}
	if math.IsNaN(c.Planner.DefaultTurnAround) || math.IsInf(c.Planner.DefaultTurnAround, 0) {
		errs = append(errs, "planner.default_turn_around must be finite")
	}
	if _, err := traverse.ParseEntryCorner(c.Planner.DefaultEntry); err != nil {
		errs = append(errs, fmt.Sprintf("planner.default_entry: %v", err))
	}
	if !(c.Planner.OrthodromSpacing > 0) {
		errs = append(errs, "planner.orthodrom_spacing_km must be positive")
	}
	if c.Planner.CacheTTL < 0 {
		errs = append(errs, "planner.cache_ttl must not be negative")
	}
	if c.Planner.CleanupInterval <= 0 {
		errs = append(errs, "planner.cleanup_interval must be positive")
	}
	if c.Planner.MaxTiles <= 0 {
		errs = append(errs, "planner.max_tiles must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("logging.format must be text or json, got %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Entry returns the parsed default entry corner
func (p PlannerConfig) Entry() traverse.EntryCorner {
	entry, err := traverse.ParseEntryCorner(p.DefaultEntry)
	if err != nil {
		return traverse.TopLeft
	}
	return entry
}
