// Package config defines and loads rosterdelta configuration.
package config

import (
	"errors"
	"fmt"

	"github.com/guildtools/rosterdelta/internal/delta"
	"github.com/guildtools/rosterdelta/internal/period"
)

// Storage backend names.
const (
	BackendFS     = "fs"
	BackendBadger = "badger"
)

// Artifact compression names.
const (
	CompressionGzip = "gzip"
	CompressionLZ4  = "lz4"
	CompressionNone = "none"
)

// ErrInvalidConfig is the base error for configuration validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the top-level configuration struct for rosterdelta.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	Rotation    RotationConfig    `mapstructure:"rotation"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// StorageConfig selects where and how artifacts are persisted.
type StorageConfig struct {
	Root        string `mapstructure:"root"`
	Backend     string `mapstructure:"backend"`
	Compression string `mapstructure:"compression"`
}

// RotationConfig holds master baseline rotation policy.
type RotationConfig struct {
	ThresholdDays int `mapstructure:"threshold_days"`
}

// LeaderboardConfig holds leaderboard query settings.
type LeaderboardConfig struct {
	TopN       int `mapstructure:"top_n"`
	MinAALevel int `mapstructure:"min_aa_level"`
}

// MetricsConfig holds batch-run metrics output settings. An empty Textfile
// disables the flush.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Default configuration values.
const (
	DefaultStorageRoot    = "delta_snapshots"
	DefaultLeaderboardTop = 20
)

// Validate rejects configurations that would misbehave at runtime.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFS, BackendBadger:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}

	switch c.Storage.Compression {
	case CompressionGzip, CompressionLZ4, CompressionNone:
	default:
		return fmt.Errorf("%w: unknown compression %q", ErrInvalidConfig, c.Storage.Compression)
	}

	if c.Storage.Root == "" {
		return fmt.Errorf("%w: storage root must not be empty", ErrInvalidConfig)
	}

	if c.Rotation.ThresholdDays <= 0 {
		return fmt.Errorf("%w: rotation threshold must be positive, got %d",
			ErrInvalidConfig, c.Rotation.ThresholdDays)
	}

	if c.Leaderboard.TopN <= 0 {
		return fmt.Errorf("%w: leaderboard top_n must be positive, got %d",
			ErrInvalidConfig, c.Leaderboard.TopN)
	}

	if c.Leaderboard.MinAALevel < 0 {
		return fmt.Errorf("%w: leaderboard min_aa_level must not be negative, got %d",
			ErrInvalidConfig, c.Leaderboard.MinAALevel)
	}

	return nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Root:        DefaultStorageRoot,
			Backend:     BackendFS,
			Compression: CompressionGzip,
		},
		Rotation: RotationConfig{
			ThresholdDays: delta.DefaultRotationThresholdDays,
		},
		Leaderboard: LeaderboardConfig{
			TopN:       DefaultLeaderboardTop,
			MinAALevel: period.DefaultMinAALevel,
		},
	}
}
