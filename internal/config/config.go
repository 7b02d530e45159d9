// Package config loads phrasex settings from a YAML file and PHRASEX_*
// environment variables. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"phrasex/internal/logging"
)

const (
	// EnvPrefix marks environment variables read by Load.
	EnvPrefix = "PHRASEX_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Config is the run configuration shared by the phrasex tools.
type Config struct {
	MaxNgram        int            `koanf:"max_ngram"`
	Threads         int            `koanf:"threads"`
	Output          string         `koanf:"output"`
	Out             string         `koanf:"out"`
	DB              string         `koanf:"db"`
	Header          bool           `koanf:"header"`
	MetricsTextfile string         `koanf:"metrics_textfile"`
	NoMatchExitCode int            `koanf:"no_match_exit_code"`
	Log             logging.Config `koanf:"log"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxNgram: 10,
		Output:   "text",
		Header:   true,
		Log:      logging.DefaultConfig(),
	}
}

// Validate checks values that do not depend on other inputs.
func (c Config) Validate() error {
	if c.MaxNgram < 0 {
		return errors.New("max_ngram must be >= 0")
	}
	if c.Threads < 0 {
		return errors.New("threads must be >= 0")
	}
	if c.NoMatchExitCode < 0 || c.NoMatchExitCode > 255 {
		return errors.New("no_match_exit_code must be between 0 and 255")
	}
	return c.Log.Validate()
}

// envKey maps PHRASEX_MAX_NGRAM -> max_ngram and PHRASEX_LOG_LEVEL -> log.level.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "log_"); ok {
		return "log." + rest
	}
	return key
}

// Load reads path (skipped when empty) over the defaults, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return cfg, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return cfg, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("config file %s is not a regular file", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
