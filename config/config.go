package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// NumChannels must match generative.NumChannels; duplicated here so the
// config package stays leaf-level.
const NumChannels = 8

// Config is the main configuration structure
type Config struct {
	// TempoTenths is the startup tempo in tenths of a BPM (1200 = 120.0)
	TempoTenths int `json:"tempoTenths,omitempty"`

	// InputPort is the MIDI input port driving reactive mode ("" = first available)
	InputPort string `json:"inputPort,omitempty"`

	// OutputPort is an optional MIDI output standing in for the solenoid rail
	OutputPort string `json:"outputPort,omitempty"`

	// OutputChannel is the MIDI channel (0-15) for the output driver
	OutputChannel uint8 `json:"outputChannel,omitempty"`

	// Notes maps solenoid channel index to MIDI note on the output driver
	Notes [NumChannels]uint8 `json:"notes,omitempty"`

	// IndicatorNote is the note pulsed with the status indicator (0 = none)
	IndicatorNote uint8 `json:"indicatorNote,omitempty"`

	// Verbose enables per-step trigger logging
	Verbose bool `json:"verbose,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		TempoTenths: 1200,
		// GM drum notes: kick, snare, closed hat, open hat, low tom,
		// mid tom, high tom, crash
		Notes: [NumChannels]uint8{36, 38, 42, 46, 41, 45, 50, 49},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "solenoid-seq"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.TempoTenths <= 0 {
		cfg.TempoTenths = 1200
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
