package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/flowlink.yaml
var defaultYAML []byte

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LevelsDir:  "levels",
		DBPath:     "~/.flowlink/flowlink.db",
		SaveLayout: "compact",
		Log: LogConfig{
			Level:      "info",
			Timestamps: true,
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Show: ShowConfig{
			Color: "auto",
			Theme: "default",
		},
	}
}
