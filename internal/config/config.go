// Package config handles YAML configuration loading, environment variable
// expansion, .env files and validation for loghl.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Feature presets.
const (
	PresetMinimal = "minimal"
	PresetFull    = "full"
)

// Config is the top-level configuration structure.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// DataDir holds the SQLite store and the TUI log file.
	DataDir  string         `yaml:"data_dir"`
	Features Features       `yaml:"features"`
	Profile  ProfileConfig  `yaml:"profile"`
	Server   ServerConfig   `yaml:"server"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// Features picks a capability preset and optionally overrides single
// capabilities. Nil overrides keep the preset's value.
type Features struct {
	Preset      string `yaml:"preset"`
	RoleToggles *bool  `yaml:"role_toggles,omitempty"`
	HideFilter  *bool  `yaml:"hide_filter,omitempty"`
	AdsFilter   *bool  `yaml:"ads_filter,omitempty"`
	Navigation  *bool  `yaml:"navigation,omitempty"`
	LocalTimes  *bool  `yaml:"local_times,omitempty"`
}

// ProfileConfig controls profile page lookups.
type ProfileConfig struct {
	Enabled           bool          `yaml:"enabled"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	Concurrency       int           `yaml:"concurrency"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
}

// ServerConfig controls `loghl serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// MaxBody is a human readable size such as "8MB".
	MaxBody           string        `yaml:"max_body"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

// MaxBodyBytes parses MaxBody.
func (s ServerConfig) MaxBodyBytes() (int64, error) {
	n, err := humanize.ParseBytes(s.MaxBody)
	if err != nil {
		return 0, fmt.Errorf("parsing max_body %q: %w", s.MaxBody, err)
	}
	return int64(n), nil
}

// DefaultsConfig seeds preferences the first time loghl runs.
type DefaultsConfig struct {
	Extras     []string `yaml:"extras"`
	LocalTimes bool     `yaml:"local_times"`
	Compact    bool     `yaml:"compact"`
}

// Defaults returns the configuration used when no file is found.
func Defaults() *Config {
	return &Config{
		LogLevel: "info",
		DataDir:  defaultDataDir(),
		Features: Features{Preset: PresetFull},
		Profile: ProfileConfig{
			Enabled:           true,
			BaseURL:           "https://www.f-list.net",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 2,
			Burst:             1,
			Concurrency:       4,
			CacheTTL:          7 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8080",
			MaxBody:           "8MB",
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func defaultDataDir() string {
	if xdg, ok := os.LookupEnv("XDG_DATA_HOME"); ok && xdg != "" {
		return filepath.Join(xdg, "loghl")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "loghl")
	}
	return ".loghl"
}

// StorePath is the SQLite database location.
func (c *Config) StorePath() string { return filepath.Join(c.DataDir, "loghl.db") }

// LogPath is where commands that own the terminal write their log.
func (c *Config) LogPath() string { return filepath.Join(c.DataDir, "loghl.log") }

// envPattern matches ${VAR} and ${VAR:-default} expressions.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^}\\]|\\.)*))?\}`)

// Load reads a YAML configuration file over the defaults. An empty path
// returns the defaults. A .env file next to the config, or in the working
// directory, is loaded first; it never overrides variables already set.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(path); err != nil {
		return nil, err
	}
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	expanded, err := expandEnv(raw)
	if err != nil {
		return nil, fmt.Errorf("config: expanding variables in %s: %w", path, err)
	}

	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.DataDir = expandHome(cfg.DataDir)
	return cfg, nil
}

func loadDotEnv(configPath string) error {
	candidates := []string{".env"}
	if configPath != "" {
		candidates = append([]string{filepath.Join(filepath.Dir(configPath), ".env")}, candidates...)
	}
	seen := make(map[string]bool)
	for _, p := range candidates {
		abs, err := filepath.Abs(p)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		if err := godotenv.Load(abs); err != nil {
			return fmt.Errorf("config: loading %s: %w", abs, err)
		}
	}
	return nil
}

// expandEnv replaces ${VAR} and ${VAR:-default} patterns in raw YAML bytes.
// Returns an error listing all unresolved variables (no default, no env value).
func expandEnv(raw []byte) ([]byte, error) {
	var errs []error

	result := envPattern.ReplaceAllFunc(raw, func(match []byte) []byte {
		subs := envPattern.FindSubmatch(match)
		name := string(subs[1])
		hasDefault := len(subs) > 2 && subs[2] != nil

		if value, ok := os.LookupEnv(name); ok {
			return []byte(value)
		}
		if hasDefault {
			return subs[2]
		}

		errs = append(errs, fmt.Errorf("unresolved variable: %s", name))
		return match
	})

	return result, errors.Join(errs...)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// ResolvePath returns explicit when set, otherwise the first existing file
// of $XDG_CONFIG_HOME/loghl/loghl.yaml (or ~/.config/loghl/loghl.yaml) and
// ./loghl.yaml. It returns "" when none exists.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	var candidates []string
	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "loghl", "loghl.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "loghl", "loghl.yaml"))
	}
	candidates = append(candidates, "loghl.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var logLevels = map[string]bool{"": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate checks the structural validity of a Config. All problems are
// reported at once, wrapped in ErrInvalid.
func Validate(cfg *Config) error {
	var errs []error

	if !logLevels[strings.ToLower(cfg.LogLevel)] {
		errs = append(errs, fmt.Errorf("config: unknown log_level %q", cfg.LogLevel))
	}
	if cfg.DataDir == "" {
		errs = append(errs, errors.New("config: data_dir is required"))
	}
	switch cfg.Features.Preset {
	case "", PresetMinimal, PresetFull:
	default:
		errs = append(errs, fmt.Errorf("config: features.preset must be %q or %q, got %q", PresetMinimal, PresetFull, cfg.Features.Preset))
	}

	errs = append(errs, validateProfile(cfg.Profile)...)
	errs = append(errs, validateServer(cfg.Server)...)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func validateProfile(p ProfileConfig) []error {
	if !p.Enabled {
		return nil
	}
	var errs []error
	if u, err := url.Parse(p.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("config: profile.base_url must be an http(s) URL, got %q", p.BaseURL))
	}
	if p.Timeout <= 0 {
		errs = append(errs, errors.New("config: profile.timeout must be positive"))
	}
	if p.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("config: profile.requests_per_second must be positive"))
	}
	if p.Burst < 1 {
		errs = append(errs, errors.New("config: profile.burst must be at least 1"))
	}
	if p.Concurrency < 1 {
		errs = append(errs, errors.New("config: profile.concurrency must be at least 1"))
	}
	if p.CacheTTL < 0 {
		errs = append(errs, errors.New("config: profile.cache_ttl must not be negative"))
	}
	return errs
}

func validateServer(s ServerConfig) []error {
	var errs []error
	if s.Addr == "" {
		errs = append(errs, errors.New("config: server.addr is required"))
	}
	if n, err := s.MaxBodyBytes(); err != nil {
		errs = append(errs, fmt.Errorf("config: server.max_body: %w", err))
	} else if n <= 0 {
		errs = append(errs, errors.New("config: server.max_body must be positive"))
	}
	if s.ReadHeaderTimeout <= 0 {
		errs = append(errs, errors.New("config: server.read_header_timeout must be positive"))
	}
	return errs
}
