package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything phonecat reads at startup.
type Config struct {
	APIURL         string
	PageSize       int
	RequestTimeout time.Duration
	LogFile        string
	LogLevel       slog.Level
	QuickFilters   []QuickFilter
}

// QuickFilter binds a number key to a canned query.
type QuickFilter struct {
	Kind  string `toml:"kind"` // search, brand, type or price
	Value string `toml:"value"`
	Label string `toml:"label"`
}

const (
	defaultConfigPath     = "~/.config/phonecat/config.toml"
	defaultLogFile        = "~/.local/state/phonecat/phonecat.log"
	defaultAPIURL         = "127.0.0.1:8080"
	defaultPageSize       = 20
	defaultRequestTimeout = 10 * time.Second
	maxQuickFilters       = 9

	envPrefix = "PHONECAT_"
)

var quickFilterKinds = map[string]bool{"search": true, "brand": true, "type": true, "price": true}

// DefaultQuickFilters are used when the config file defines none.
func DefaultQuickFilters() []QuickFilter {
	return []QuickFilter{
		{Kind: "brand", Value: "Apple", Label: "Apple"},
		{Kind: "brand", Value: "Samsung", Label: "Samsung"},
		{Kind: "type", Value: "Gaming", Label: "Gaming"},
		{Kind: "type", Value: "Photography", Label: "Photography"},
		{Kind: "price", Value: "0-500", Label: "Under $500"},
	}
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		PageSize:       defaultPageSize,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       slog.LevelInfo,
		QuickFilters:   DefaultQuickFilters(),
	}
}

type rawConfig struct {
	APIURL         string        `toml:"api_url"`
	PageSize       int           `toml:"page_size"`
	RequestTimeout string        `toml:"request_timeout"`
	LogFile        string        `toml:"log_file"`
	LogLevel       string        `toml:"log_level"`
	QuickFilters   []QuickFilter `toml:"quick_filters"`
}

// Load parses the config at path (or the default location), then applies a
// .env file from the working directory and PHONECAT_* environment variables.
// A missing config file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw rawConfig
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&raw, os.Getenv)

	return build(raw)
}

// applyEnv overlays non-empty PHONECAT_* variables onto raw.
func applyEnv(raw *rawConfig, getenv func(string) string) {
	if v := getenv(envPrefix + "API_URL"); v != "" {
		raw.APIURL = v
	}
	if v := getenv(envPrefix + "PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			raw.PageSize = n
		}
	}
	if v := getenv(envPrefix + "REQUEST_TIMEOUT"); v != "" {
		raw.RequestTimeout = v
	}
	if v := getenv(envPrefix + "LOG_FILE"); v != "" {
		raw.LogFile = v
	}
	if v := getenv(envPrefix + "LOG_LEVEL"); v != "" {
		raw.LogLevel = v
	}
}

func build(raw rawConfig) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse request_timeout %q: %w", v, err)
		}
		if d > 0 {
			cfg.RequestTimeout = d
		}
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	if len(raw.QuickFilters) > 0 {
		filters, err := normalizeQuickFilters(raw.QuickFilters)
		if err != nil {
			return Config{}, err
		}
		cfg.QuickFilters = filters
	}
	return cfg, nil
}

func normalizeQuickFilters(in []QuickFilter) ([]QuickFilter, error) {
	if len(in) > maxQuickFilters {
		return nil, fmt.Errorf("quick_filters: at most %d entries, got %d", maxQuickFilters, len(in))
	}
	out := make([]QuickFilter, 0, len(in))
	for i, f := range in {
		f.Kind = strings.ToLower(strings.TrimSpace(f.Kind))
		f.Value = strings.TrimSpace(f.Value)
		f.Label = strings.TrimSpace(f.Label)
		if !quickFilterKinds[f.Kind] {
			return nil, fmt.Errorf("quick_filters[%d]: unknown kind %q", i, f.Kind)
		}
		if f.Value == "" {
			return nil, fmt.Errorf("quick_filters[%d]: value is empty", i)
		}
		if f.Label == "" {
			f.Label = f.Value
		}
		out = append(out, f)
	}
	return out, nil
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log_level %q: %w", value, err)
	}
	return level, nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
