// Package config provides configuration structures and defaults for FlintDB.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultFilePrefix      = "store"
	defaultFileExt         = ".log"
	defaultMaxSegmentBytes = 64 * 1024 * 1024
)

// Config holds all tunable parameters for FlintDB.
type Config struct {
	// FilePrefix is the leading part of every segment filename; segment N is
	// stored as "<FilePrefix>_<N><FileExt>".
	FilePrefix string `yaml:"file_prefix"`
	// FileExt is the segment filename extension, dot included.
	FileExt string `yaml:"file_ext"`
	// MaxSegmentBytes is the rotation threshold: a write that would push the
	// active segment past this size goes to a freshly created segment instead.
	MaxSegmentBytes int64 `yaml:"max_segment_bytes"`
	// Logger receives engine events (segment creation, rotation, replay
	// summaries). Defaults to slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns a Config struct populated with default values.
func DefaultConfig() *Config {
	return &Config{
		FilePrefix:      defaultFilePrefix,
		FileExt:         defaultFileExt,
		MaxSegmentBytes: defaultMaxSegmentBytes,
		Logger:          slog.Default(),
	}
}

// FillDefaults sets any zero-value fields in the Config to their default values.
func (c *Config) FillDefaults() {
	def := DefaultConfig()
	if c.FilePrefix == "" {
		c.FilePrefix = def.FilePrefix
	}
	if c.FileExt == "" {
		c.FileExt = def.FileExt
	}
	if c.MaxSegmentBytes == 0 {
		c.MaxSegmentBytes = def.MaxSegmentBytes
	}
	if c.Logger == nil {
		c.Logger = def.Logger
	}
}

// LoadFile reads a yaml config file and returns a Config with any missing
// fields filled with defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.FillDefaults()
	return &cfg, nil
}
