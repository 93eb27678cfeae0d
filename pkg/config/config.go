// Package config loads paradigm settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the settings file looked up in the working directory.
const DefaultPath = "paradigm.yaml"

// Settings represents the application configuration
type Settings struct {
	Database string          `yaml:"database"`
	Language string          `yaml:"language"`
	Output   OutputSettings  `yaml:"output"`
	Derive   DeriveSettings  `yaml:"derive"`
	Harvest  HarvestSettings `yaml:"harvest"`
	Editor   EditorSettings  `yaml:"editor"`
}

// OutputSettings controls command output
type OutputSettings struct {
	Format string `yaml:"format"` // "text", "json" or "yaml"
}

// DeriveSettings controls derived form regeneration
type DeriveSettings struct {
	Workers   int `yaml:"workers"`
	BatchSize int `yaml:"batch_size"`
}

// HarvestSettings controls lemma harvesting
type HarvestSettings struct {
	POS []string `yaml:"pos"`
}

// EditorSettings controls the grid editor
type EditorSettings struct {
	CellWidth int `yaml:"cell_width"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Database: "paradigm.db",
		Language: "ja",
		Output:   OutputSettings{Format: "text"},
		Derive:   DeriveSettings{Workers: 4, BatchSize: 50},
		Harvest:  HarvestSettings{POS: []string{"動詞", "形容詞"}},
		Editor:   EditorSettings{CellWidth: 14},
	}
}

// Load reads settings from path on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (*Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes settings to path.
func Save(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings the commands cannot work with.
func (s *Settings) Validate() error {
	switch s.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format %q", s.Output.Format)
	}
	if s.Database == "" {
		return errors.New("database path must be set")
	}
	if s.Derive.Workers < 1 {
		return fmt.Errorf("derive.workers must be at least 1, got %d", s.Derive.Workers)
	}
	if s.Derive.BatchSize < 1 {
		return fmt.Errorf("derive.batch_size must be at least 1, got %d", s.Derive.BatchSize)
	}
	if s.Editor.CellWidth < 4 {
		return fmt.Errorf("editor.cell_width must be at least 4, got %d", s.Editor.CellWidth)
	}
	return nil
}
