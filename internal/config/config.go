// Package config resolves client settings from defaults, an optional YAML
// file under the user config directory, and BEING_* environment variables,
// in that order of precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appName        = "being"
	configFileName = "config.yaml"
)

// TimerPrefs holds the timer defaults offered in the TUI.
type TimerPrefs struct {
	DefaultCountdownMinutes int
	Chime                   bool
}

// Config holds all client configuration.
type Config struct {
	APIURL     string
	DBPath     string
	TimeoutMs  int
	MaxRetries int
	LogCalls   bool
	LogFile    string
	Timer      TimerPrefs

	// Path is the config file the values were read from, whether or not it
	// existed.
	Path string
}

type yamlConfig struct {
	APIURL     string         `yaml:"api_url,omitempty"`
	DBPath     string         `yaml:"db_path,omitempty"`
	TimeoutMs  int            `yaml:"timeout_ms,omitempty"`
	MaxRetries *int           `yaml:"max_retries,omitempty"`
	LogFile    string         `yaml:"log_file,omitempty"`
	Timer      yamlTimerPrefs `yaml:"timer,omitempty"`
}

type yamlTimerPrefs struct {
	DefaultCountdownMinutes int   `yaml:"default_countdown_minutes,omitempty"`
	Chime                   *bool `yaml:"chime,omitempty"`
}

// DefaultConfig returns the built-in defaults. Data files live under
// ~/.being.
func DefaultConfig() Config {
	dataDir := dataDir()
	return Config{
		APIURL:     "http://localhost:8080",
		DBPath:     filepath.Join(dataDir, "being.db"),
		TimeoutMs:  10000,
		MaxRetries: 1,
		LogCalls:   false,
		LogFile:    filepath.Join(dataDir, "being.log"),
		Timer: TimerPrefs{
			DefaultCountdownMinutes: 5,
			Chime:                   true,
		},
	}
}

// LoadConfig reads the config file at BEING_CONFIG or the default location,
// then applies environment overrides.
func LoadConfig() (Config, error) {
	path := os.Getenv("BEING_CONFIG")
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return DefaultConfig(), err
		}
		path = p
	}
	return Load(path)
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	cfg.Path = path

	fileData, err := readFile(path)
	if err != nil {
		return cfg, err
	}
	applyFile(&cfg, fileData)
	applyEnv(&cfg)
	return cfg, nil
}

// DefaultPath returns <UserConfigDir>/being/config.yaml.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

// SetAPIURL validates u and stores it in the config file at path, keeping
// the file's other settings.
func SetAPIURL(path, u string) error {
	if err := ValidateAPIURL(u); err != nil {
		return err
	}
	fileData, err := readFile(path)
	if err != nil {
		return err
	}
	fileData.APIURL = strings.TrimRight(u, "/")
	return writeFile(path, fileData)
}

// ValidateAPIURL requires an absolute http or https URL.
func ValidateAPIURL(u string) error {
	parsed, err := url.Parse(u)
	if err != nil {
		return fmt.Errorf("invalid api url %q: %w", u, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return fmt.Errorf("invalid api url %q: want http(s)://host[:port]", u)
	}
	return nil
}

func readFile(path string) (yamlConfig, error) {
	var fileData yamlConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileData, nil
		}
		return fileData, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &fileData); err != nil {
		return fileData, fmt.Errorf("parse config yaml: %w", err)
	}
	return fileData, nil
}

func writeFile(path string, fileData yamlConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func applyFile(cfg *Config, fileData yamlConfig) {
	if fileData.APIURL != "" {
		cfg.APIURL = strings.TrimRight(fileData.APIURL, "/")
	}
	if fileData.DBPath != "" {
		cfg.DBPath = expandHome(fileData.DBPath)
	}
	if fileData.TimeoutMs > 0 {
		cfg.TimeoutMs = fileData.TimeoutMs
	}
	if fileData.MaxRetries != nil && *fileData.MaxRetries >= 0 {
		cfg.MaxRetries = *fileData.MaxRetries
	}
	if fileData.LogFile != "" {
		cfg.LogFile = expandHome(fileData.LogFile)
	}
	if fileData.Timer.DefaultCountdownMinutes > 0 {
		cfg.Timer.DefaultCountdownMinutes = fileData.Timer.DefaultCountdownMinutes
	}
	if fileData.Timer.Chime != nil {
		cfg.Timer.Chime = *fileData.Timer.Chime
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BEING_API_URL"); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("BEING_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BEING_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("BEING_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("BEING_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("BEING_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".being"
	}
	return filepath.Join(home, ".being")
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
