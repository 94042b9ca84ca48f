// Package config provides configuration loading for the atp commands.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cours-de-latin/atp"
)

// Config represents the complete configuration of the CLI and the server
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Learner LearnerConfig `yaml:"learner"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// DataConfig describes the layout of dataset files
type DataConfig struct {
	// Sep separates columns (default: tab)
	Sep string `yaml:"sep"`
	// FeatSep separates feature atoms (default: ";")
	FeatSep string `yaml:"feat_sep"`
	// SkipHeader drops the first line of every dataset file
	SkipHeader bool `yaml:"skip_header"`
	// FoldUmlauts maps ä/ö/ü to a/o/u before training
	FoldUmlauts bool `yaml:"fold_umlauts"`
	// Lexicon is an optional word<TAB>ipa file used to transcribe every form
	Lexicon string `yaml:"lexicon"`
}

// LearnerConfig configures training
type LearnerConfig struct {
	// Phonology selects "none" (plain concatenation) or "english"
	Phonology string `yaml:"phonology"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	// Addr is the listen address (default: ":8080")
	Addr string `yaml:"addr"`
	// AllowedOrigins lists the CORS origins; empty allows all
	AllowedOrigins []string `yaml:"allowed_origins"`
	// Dataset is trained at startup as the "default" model (optional)
	Dataset string `yaml:"dataset"`
	// MaxBodyBytes caps the size of a training request (default: 8 MiB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Sep:     "\t",
			FeatSep: ";",
		},
		Learner: LearnerConfig{
			Phonology: "none",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 8 << 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Data.Sep == "" {
		return fmt.Errorf("data.sep is required")
	}
	if c.Data.FeatSep == "" {
		return fmt.Errorf("data.feat_sep is required")
	}
	if c.Data.Sep == c.Data.FeatSep {
		return fmt.Errorf("data.sep and data.feat_sep must differ")
	}
	if _, err := c.Learner.NewPhonology(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadOptions converts the data section to dataset loading options. The
// lexicon, if any, is read and installed as the preprocessing step.
func (d DataConfig) LoadOptions() (atp.LoadOptions, error) {
	opts := atp.LoadOptions{
		Sep:         d.Sep,
		FeatSep:     d.FeatSep,
		SkipHeader:  d.SkipHeader,
		FoldUmlauts: d.FoldUmlauts,
	}
	if d.Lexicon != "" {
		lex, err := atp.LoadLexiconFile(d.Lexicon)
		if err != nil {
			return opts, err
		}
		opts.Preprocess = lex.Transcribe
	}
	return opts, nil
}

// NewPhonology returns the phonology named by the learner section.
func (l LearnerConfig) NewPhonology() (atp.Phonology, error) {
	switch strings.ToLower(l.Phonology) {
	case "", "none":
		return atp.Concatenation{}, nil
	case "english":
		return atp.EnglishPhonology{}, nil
	default:
		return nil, fmt.Errorf("learner.phonology: unknown phonology %q", l.Phonology)
	}
}

// SlogLevel parses the log level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
