package config

import (
	"encoding/json"
	"fmt"
	"os"

	"megarng/host/naming"
	"megarng/host/serial"
)

// CollectConfig holds the settings of a collection run
type CollectConfig struct {
	Device   string `json:"device"` // empty means auto-detect
	Baud     int    `json:"baud"`
	Bits     int    `json:"bits"`     // bits per sample
	Interval int    `json:"interval"` // seconds between samples
	Samples  int    `json:"samples"`  // 0 runs until interrupted
	OutDir   string `json:"outdir"`

	// Source is the expected generator; empty accepts whatever the board
	// announces
	Source naming.Source `json:"source,omitempty"`

	Verbose bool `json:"verbose"`
}

// LoadConfig parses a JSON configuration and applies defaults
func LoadConfig(jsonData []byte) (*CollectConfig, error) {
	var config CollectConfig

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadFile reads and parses a configuration file
func LoadFile(path string) (*CollectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *CollectConfig) {
	if config.Baud == 0 {
		config.Baud = serial.DefaultBaud
	}
	if config.Bits == 0 {
		config.Bits = 2048
	}
	if config.Interval == 0 {
		config.Interval = 1
	}
	if config.OutDir == "" {
		config.OutDir = "data"
	}
}

// Validate rejects settings no run can use
func (c *CollectConfig) Validate() error {
	if c.Bits < 0 {
		return fmt.Errorf("bits must be > 0, got %d", c.Bits)
	}
	// reports split the .bin file into whole-byte blocks
	if c.Bits%8 != 0 {
		return fmt.Errorf("bits must be a multiple of 8, got %d", c.Bits)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must be > 0, got %d", c.Interval)
	}
	if c.Samples < 0 {
		return fmt.Errorf("samples must be >= 0, got %d", c.Samples)
	}
	if c.Source != "" {
		return c.Source.Validate()
	}
	return nil
}

// DefaultConfig returns the settings used when no file is given
func DefaultConfig() *CollectConfig {
	config := &CollectConfig{}
	applyDefaults(config)
	return config
}
