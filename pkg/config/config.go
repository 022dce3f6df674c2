// Package config provides configuration loading and management for mriradiomics.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mriradiomics/pkg/features"
	"mriradiomics/pkg/registry"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Feature extraction parameters
	Features struct {
		// BinWidth is the width of the intensity bins used for discretization
		BinWidth float64 `yaml:"binWidth"`

		// SymmetricalGLCM counts each co-occurrence in both directions
		SymmetricalGLCM bool `yaml:"symmetricalGLCM"`

		// Label is the mask value selecting the region of interest
		Label int `yaml:"label"`

		// Verbose raises per-family progress logs to info
		Verbose bool `yaml:"verbose"`
	} `yaml:"features"`

	// Families lists the feature families to compute, in order.
	// The single entries "all" and "none" are expanded.
	Families []string `yaml:"families"`

	// Input parameters
	Input struct {
		// SliceGap is the physical distance between consecutive slices in mm
		// when a volume is read from a directory of 2D images
		SliceGap float64 `yaml:"sliceGap"`
	} `yaml:"input"`

	// Output parameters
	Output struct {
		// CSV is the path of the CSV table, empty to skip
		CSV string `yaml:"csv"`

		// SQLite is the path of the SQLite database, empty to skip
		SQLite string `yaml:"sqlite"`

		// SQLiteTable names the table inside the database
		SQLiteTable string `yaml:"sqliteTable"`

		// MetricsFile receives Prometheus metrics in text format, empty to skip
		MetricsFile string `yaml:"metricsFile"`

		// PrintTable prints the feature table to stdout
		PrintTable bool `yaml:"printTable"`

		// PreviewDir receives PNG slices with the ROI overlaid, empty to skip
		PreviewDir string `yaml:"previewDir"`
	} `yaml:"output"`

	// Logging parameters
	Logging struct {
		Level   string `yaml:"level"`
		Console bool   `yaml:"console"`
	} `yaml:"logging"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	defaults := features.DefaultSettings()
	cfg.Features.BinWidth = defaults.BinWidth()
	cfg.Features.SymmetricalGLCM = defaults.SymmetricalGLCM()
	cfg.Features.Label = defaults.Label()
	cfg.Features.Verbose = defaults.Verbose()

	cfg.Families = []string{"all"}

	cfg.Input.SliceGap = 1.0

	cfg.Output.SQLiteTable = "features"
	cfg.Output.PrintTable = true

	cfg.Logging.Level = "info"
	cfg.Logging.Console = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// Settings converts the feature section into validated extraction settings
func (c *Config) Settings() (features.Settings, error) {
	return features.NewSettings(c.Features.BinWidth, c.Features.SymmetricalGLCM, c.Features.Label, c.Features.Verbose)
}

// FamilyList expands and normalizes the configured families. "all" yields
// every family in canonical order and "none" yields an empty list; either
// must be the only entry. Unknown names are kept so the orchestrator can
// reject them.
func (c *Config) FamilyList() ([]string, error) {
	return ExpandFamilies(c.Families)
}

// ExpandFamilies applies the "all" and "none" keywords to a family list
func ExpandFamilies(names []string) ([]string, error) {
	var out []string
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		out = append(out, n)
	}

	for _, n := range out {
		if n != "all" && n != "none" {
			continue
		}
		if len(out) != 1 {
			return nil, fmt.Errorf("%q cannot be combined with other families", n)
		}
		if n == "none" {
			return []string{}, nil
		}
		all := registry.All()
		expanded := make([]string, len(all))
		for i, f := range all {
			expanded[i] = string(f)
		}
		return expanded, nil
	}
	return out, nil
}

// SplitFamilies splits a comma separated flag value
func SplitFamilies(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return strings.Split(value, ",")
}
