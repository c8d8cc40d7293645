// Package config carries bootstrap configuration for the Meridian TUI,
// read from environment variables with sensible local defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultAPIURL      = "http://127.0.0.1:9000"
	DefaultWhisperPort = 8000
	DefaultWhisperHost = "0.0.0.0"
)

// Config captures everything the program needs to start.
type Config struct {
	APIURL      string
	LibraryPath string
	WhisperPort int
	WhisperHost string
}

// Validate applies defaults and rejects out-of-range values.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.WhisperHost == "" {
		c.WhisperHost = DefaultWhisperHost
	}
	if c.WhisperPort == 0 {
		c.WhisperPort = DefaultWhisperPort
	}
	if c.WhisperPort < 1 || c.WhisperPort > 65535 {
		return fmt.Errorf("config: whisper port must be 1-65535, got %d", c.WhisperPort)
	}
	if c.LibraryPath == "" {
		return fmt.Errorf("config: library path is required")
	}
	return nil
}

// Loader loads configuration from environment variables. Tests can
// override Lookup to inject deterministic maps.
type Loader struct {
	Lookup func(string) (string, bool)
}

// Load builds the configuration from the environment on top of the
// given defaults (typically flag values) and validates it.
func (l Loader) Load(defaults Config) (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	cfg := defaults

	overrideString(l.Lookup, "MERIDIAN_API_URL", &cfg.APIURL)
	overrideString(l.Lookup, "MERIDIAN_LIBRARY_PATH", &cfg.LibraryPath)
	overrideString(l.Lookup, "MERIDIAN_WHISPER_HOST", &cfg.WhisperHost)
	if err := overrideInt(l.Lookup, "MERIDIAN_WHISPER_PORT", &cfg.WhisperPort); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideInt(lookup func(string) (string, bool), key string, target *int) error {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("config: %s must be an integer, got %q", key, value)
	}
	*target = parsed
	return nil
}
