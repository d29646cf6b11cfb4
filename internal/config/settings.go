package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvAPIURL overrides Settings.APIURL when set.
const EnvAPIURL = "BOOKSHELF_API_URL"

// Settings holds all configuration options.
type Settings struct {
	// Service settings
	APIURL         string  `json:"api_url" yaml:"api_url"`
	RequestTimeout float64 `json:"request_timeout" yaml:"request_timeout"` // seconds
	UserAgent      string  `json:"user_agent" yaml:"user_agent"`

	// Refresh retry settings
	RefreshMaxRetries    int     `json:"refresh_max_retries" yaml:"refresh_max_retries"`
	RefreshRetryCooldown float64 `json:"refresh_retry_cooldown" yaml:"refresh_retry_cooldown"` // seconds
	RefreshRetryExponent float64 `json:"refresh_retry_exponent" yaml:"refresh_retry_exponent"`

	// Import settings
	MaxConcurrentImports int `json:"max_concurrent_imports" yaml:"max_concurrent_imports"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		APIURL:         "http://localhost:5000/api/books",
		RequestTimeout: 30,
		UserAgent:      "bookshelf",

		RefreshMaxRetries:    3,
		RefreshRetryCooldown: 0.2,
		RefreshRetryExponent: 4.0,

		MaxConcurrentImports: 4,
	}
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/bookshelf/config.json or its platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "bookshelf", "config.json")
}

// Load reads settings from a JSON or YAML file, chosen by extension.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from the environment.
func (s *Settings) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		s.APIURL = v
	}
}

// Validate checks that the settings can be used to build a client.
func (s *Settings) Validate() error {
	var errs []error

	u, err := url.Parse(s.APIURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("api_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("api_url: scheme must be http or https, got %q", s.APIURL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("api_url: missing host in %q", s.APIURL))
	}

	if s.RequestTimeout < 0 {
		errs = append(errs, errors.New("request_timeout: must not be negative"))
	}
	if s.RefreshMaxRetries < 1 {
		errs = append(errs, errors.New("refresh_max_retries: must be at least 1"))
	}
	if s.MaxConcurrentImports < 1 {
		errs = append(errs, errors.New("max_concurrent_imports: must be at least 1"))
	}

	return errors.Join(errs...)
}

// Timeout returns RequestTimeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.RequestTimeout * float64(time.Second))
}

// RetryDelay returns the wait before retry number tries (0-based):
// cooldown * exponent^tries seconds.
func (s *Settings) RetryDelay(tries int) time.Duration {
	cooldown := s.RefreshRetryCooldown
	for i := 0; i < tries; i++ {
		cooldown *= s.RefreshRetryExponent
	}
	return time.Duration(cooldown * float64(time.Second))
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
