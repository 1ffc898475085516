// Package config provides YAML-based configuration loading for flowlink.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flowlink/internal/flow/codec"
)

// Config contains all flowlink settings.
type Config struct {
	LevelsDir  string      `yaml:"levels_dir"`
	DBPath     string      `yaml:"db_path"`
	SaveLayout string      `yaml:"save_layout"`
	Log        LogConfig   `yaml:"log"`
	Watch      WatchConfig `yaml:"watch"`
	Show       ShowConfig  `yaml:"show"`
}

// LogConfig controls the command-line logger.
type LogConfig struct {
	Level      string `yaml:"level"`
	Timestamps bool   `yaml:"timestamps"`
}

// WatchConfig controls the level directory watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// ShowConfig controls board dumps.
type ShowConfig struct {
	// Color is "auto" (only on a terminal), "always" or "never".
	Color string `yaml:"color"`
	Theme string `yaml:"theme"`
}

// Layout returns the configured save layout.
func (c Config) Layout() (codec.Layout, error) {
	return codec.ParseLayout(c.SaveLayout)
}

// LogLevel returns the configured log level.
func (c Config) LogLevel() (log.Level, error) {
	return log.ParseLevel(c.Log.Level)
}

// Validate checks values that cannot be fixed by falling back to defaults.
func (c Config) Validate() error {
	if c.LevelsDir == "" {
		return fmt.Errorf("config: levels_dir is empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("config: db_path is empty")
	}
	if _, err := c.Layout(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("config: watch.debounce is negative")
	}
	switch c.Show.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: show.color must be auto, always or never, got %q", c.Show.Color)
	}
	return nil
}
