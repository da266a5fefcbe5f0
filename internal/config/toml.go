// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Selector SelectorConfig `toml:"selector"`
	Timer    TimerConfig    `toml:"timer"`
	Groups   GroupsConfig   `toml:"groups"`
	Log      LogConfig      `toml:"log"`
}

// SelectorConfig maps selection settings.
type SelectorConfig struct {
	Mode          *string `toml:"mode"`
	Animation     *bool   `toml:"animation"`
	Sound         *bool   `toml:"sound"`
	AutoSession   *bool   `toml:"auto-session"`
	RecentWindow  *int    `toml:"recent-window"`
	WeightCeiling *int    `toml:"weight-ceiling"`
	FloorPoints   *bool   `toml:"floor-points"`
}

// TimerConfig maps countdown settings.
type TimerConfig struct {
	Minutes *int  `toml:"minutes"`
	Alarm   *bool `toml:"alarm"`
}

// GroupsConfig maps partition defaults.
type GroupsConfig struct {
	Count *int `toml:"count"`
	Size  *int `toml:"size"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
