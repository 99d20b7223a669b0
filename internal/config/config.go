// Package config loads weekplan settings from a YAML file.
//
// Values may reference environment variables as ${VAR_NAME}. A missing
// file is not an error: every field has a default.
//
//	base_url: "https://weekplan.local/"
//	location_file: "~/.config/weekplan/location"
//	preferences:
//	  date_format: "yyyy-MM-dd"
//	  heading_level: "h3"
//	  show_weekends: false
//	export:
//	  markdown: false
//	  preview_style: "dark"
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//	  file: ""        # the TUI only logs when set
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/h0rv/weekplan/internal/domain"
)

// EnvConfigPath overrides the default config path.
const EnvConfigPath = "WEEKPLAN_CONFIG"

// DefaultBaseURL is the planner link used before any location is stored.
const DefaultBaseURL = "https://weekplan.local/"

// Config is the complete weekplan configuration.
type Config struct {
	BaseURL      string            `yaml:"base_url"`
	LocationFile string            `yaml:"location_file"`
	Preferences  PreferencesConfig `yaml:"preferences"`
	Export       ExportConfig      `yaml:"export"`
	Logging      LoggingConfig     `yaml:"logging"`
}

// PreferencesConfig holds the display defaults. Links only carry the
// preferences that differ from these.
type PreferencesConfig struct {
	DateFormat   string `yaml:"date_format"`
	HeadingLevel string `yaml:"heading_level"`
	ShowWeekends bool   `yaml:"show_weekends"`
}

// ExportConfig holds rich-text export settings
type ExportConfig struct {
	Markdown     bool   `yaml:"markdown"`
	PreviewStyle string `yaml:"preview_style"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		LocationFile: filepath.Join(configDir(), "location"),
		Preferences: PreferencesConfig{
			DateFormat:   domain.DefaultDateFormat,
			HeadingLevel: domain.DefaultHeadingLevel,
		},
		Export: ExportConfig{
			PreviewStyle: "dark",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the config path: $WEEKPLAN_CONFIG, else
// <user config dir>/weekplan/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".weekplan"
	}
	return filepath.Join(dir, "weekplan")
}

// Load reads the file at path over the defaults, expands ${VAR} references
// and validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.LocationFile = expandHome(cfg.LocationFile)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} with the variable's value, or "" when unset.
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envPattern.FindStringSubmatch(match)[1])
	})
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL, got %q", c.BaseURL)
	}
	if u.Fragment != "" {
		return fmt.Errorf("base_url must not carry a fragment")
	}
	if c.LocationFile == "" {
		return fmt.Errorf("location_file is required")
	}
	if strings.TrimSpace(c.Preferences.DateFormat) == "" {
		return fmt.Errorf("preferences.date_format is required")
	}
	if !domain.ValidHeadingLevel(c.Preferences.HeadingLevel) {
		return fmt.Errorf("preferences.heading_level must be one of %s, got %q",
			strings.Join(domain.HeadingLevels, ", "), c.Preferences.HeadingLevel)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// DefaultPreferences returns the configured display defaults.
func (c *Config) DefaultPreferences() domain.Preferences {
	return domain.Preferences{
		DateFormat:   c.Preferences.DateFormat,
		HeadingLevel: c.Preferences.HeadingLevel,
		ShowWeekends: c.Preferences.ShowWeekends,
	}
}
