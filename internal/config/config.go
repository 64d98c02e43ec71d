// Package config loads the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

// DefaultPath is where the config file is looked up when no -config flag
// is given.
const DefaultPath = "focuscue.yaml"

// EnvAPIKey overrides speech.api_key.
const EnvAPIKey = "GEMINI_API_KEY"

// Config represents the complete application configuration
type Config struct {
	Speech    SpeechConfig    `yaml:"speech"`
	Export    ExportConfig    `yaml:"export"`
	Presets   PresetsConfig   `yaml:"presets"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SpeechConfig contains synthesis and playback settings
type SpeechConfig struct {
	Enabled    bool   `yaml:"enabled"`
	APIKey     string `yaml:"api_key"`
	Voice      string `yaml:"voice"`
	Style      string `yaml:"style"`
	Model      string `yaml:"model"`
	SampleRate int    `yaml:"sample_rate"`
	CacheDir   string `yaml:"cache_dir"`
	DiskCache  bool   `yaml:"disk_cache"`
}

// ExportConfig contains WAV export settings
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// PresetsConfig contains the preset file location
type PresetsConfig struct {
	Path string `yaml:"path"`
}

// SchedulerConfig contains timer scheduling settings
type SchedulerConfig struct {
	Tick time.Duration `yaml:"tick"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Speech: SpeechConfig{
			Enabled:    true,
			Voice:      domain.DefaultVoice,
			Style:      "normal",
			Model:      "gemini-2.5-flash-preview-tts",
			SampleRate: 24000,
			CacheDir:   ".focuscue-cache",
			DiskCache:  true,
		},
		Export:    ExportConfig{Dir: "exports"},
		Presets:   PresetsConfig{Path: "presets.json"},
		Scheduler: SchedulerConfig{Tick: time.Second},
		Logging: LoggingConfig{
			Level: "normal",
			File:  ".focuscue-logs/focuscue.log",
		},
	}
}

// Load reads and parses the configuration file. Fields the file leaves
// out keep their defaults. The result is not validated: callers overlay
// their flags first and then call Validate once.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	config.ApplyEnv()

	return config, nil
}

// LoadOptional is Load, except a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	config, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		config = Default()
		config.ApplyEnv()
		return config, nil
	}
	return config, err
}

// ApplyEnv overlays environment variables.
func (c *Config) ApplyEnv() {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.Speech.APIKey = key
	}
}

// Validate performs validation of the configuration
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if err := c.Speech.Validate(); err != nil {
		return fmt.Errorf("speech config: %w", err)
	}

	if c.Presets.Path == "" {
		return fmt.Errorf("presets config: path cannot be empty")
	}

	if c.Scheduler.Tick < 10*time.Millisecond || c.Scheduler.Tick > time.Minute {
		return fmt.Errorf("scheduler config: tick must be between 10ms and 1m, got %s", c.Scheduler.Tick)
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates speech configuration
func (s *SpeechConfig) Validate() error {
	if _, err := domain.LookupVoice(s.Voice); err != nil {
		return fmt.Errorf("voice %q: %w", s.Voice, err)
	}

	if _, err := domain.LookupStyle(s.Style); err != nil {
		return fmt.Errorf("style %q: %w", s.Style, err)
	}

	if s.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}

	if s.SampleRate < 8000 || s.SampleRate > 48000 {
		return fmt.Errorf("sample_rate must be between 8000 and 48000 Hz, got %d", s.SampleRate)
	}

	return nil
}

// SpeechReady reports whether speech is enabled and has credentials.
func (c *Config) SpeechReady() bool {
	return c.Speech.Enabled && c.Speech.APIKey != ""
}
