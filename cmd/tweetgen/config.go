package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/CTAG07/tweetgen/pkg/markov"
)

// GenerationConfig holds the settings for building the model and walking it.
type GenerationConfig struct {
	MaxTweetLength int    `json:"max_tweet_length" yaml:"max_tweet_length" validate:"gte=1,lte=20"`
	MaxNodes       int    `json:"max_nodes" yaml:"max_nodes" validate:"gte=0"`
	MaxEdges       int    `json:"max_edges" yaml:"max_edges" validate:"gte=0"`
	CrossLineLinks bool   `json:"cross_line_links" yaml:"cross_line_links"`
	DumpPath       string `json:"dump_path" yaml:"dump_path"`
}

// ArchiveConfig holds the settings for the run archive.
type ArchiveConfig struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	DatabasePath string `json:"database_path" yaml:"database_path" validate:"required_if=Enabled true"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	LogLevel   string           `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	Generation GenerationConfig `json:"generation_config" yaml:"generation_config"`
	Archive    ArchiveConfig    `json:"archive_config" yaml:"archive_config"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "warn",
		Generation: GenerationConfig{
			MaxTweetLength: markov.DefaultMaxLength,
		},
		Archive: ArchiveConfig{
			Enabled:      false,
			DatabasePath: "./data/tweetgen.db",
		},
	}
}

var validate = validator.New()

// Validate checks the configuration against its validation tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// LoadConfig reads the configuration from a JSON or YAML file at the given
// path, chosen by extension. If the file doesn't exist, it creates one with
// default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	isYAML := isYAMLPath(path)

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			if isYAML {
				data, err = yaml.Marshal(config)
			} else {
				data, err = json.MarshalIndent(config, "", "  ")
			}
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Generation can still run with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML {
		err = yaml.Unmarshal(file, config)
	} else {
		err = json.Unmarshal(file, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// parseLogLevel maps a config string to a slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// formatValidationError turns validator errors into one readable line.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}
	return errors.New(strings.Join(messages, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
