// Package config loads canvasmap options.
//
// Options are layered: built-in defaults, then the YAML file
// (~/.canvasmap.yaml unless --config says otherwise), then CANVASMAP_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"canvasmap/internal/minimap"
)

const envPrefix = "CANVASMAP_"

// Config mirrors minimap.Settings with file-friendly names, plus options of
// the viewer itself.
type Config struct {
	Width              float64       `koanf:"width" yaml:"width"`
	Height             float64       `koanf:"height" yaml:"height"`
	Margin             float64       `koanf:"margin" yaml:"margin"`
	FontSize           float64       `koanf:"font_size" yaml:"font_size"`
	FontColor          string        `koanf:"font_color" yaml:"font_color"`
	Side               string        `koanf:"side" yaml:"side"`
	Enabled            bool          `koanf:"enabled" yaml:"enabled"`
	BackgroundColor    string        `koanf:"background_color" yaml:"background_color"`
	GroupColor         string        `koanf:"group_color" yaml:"group_color"`
	NodeColor          string        `koanf:"node_color" yaml:"node_color"`
	DrawActiveViewport bool          `koanf:"draw_active_viewport" yaml:"draw_active_viewport"`
	PrimaryStrategy    string        `koanf:"primary_strategy" yaml:"primary_strategy"`
	SecondaryStrategy  string        `koanf:"secondary_strategy" yaml:"secondary_strategy"`
	RedrawInterval     time.Duration `koanf:"redraw_interval" yaml:"redraw_interval"`
	SetupDebounce      time.Duration `koanf:"setup_debounce" yaml:"setup_debounce"`

	// SaveDirectory is where exports go when given a bare file name.
	SaveDirectory string `koanf:"save_directory" yaml:"save_directory,omitempty"`
}

// DefaultConfig returns the defaults of minimap.DefaultSettings.
func DefaultConfig() *Config {
	return FromSettings(minimap.DefaultSettings())
}

// FromSettings converts a settings snapshot back to its file form.
func FromSettings(s minimap.Settings) *Config {
	return &Config{
		Width:              s.Width,
		Height:             s.Height,
		Margin:             s.Margin,
		FontSize:           s.FontSize,
		FontColor:          s.FontColor,
		Side:               string(s.Placement),
		Enabled:            s.Enabled,
		BackgroundColor:    s.BackgroundColor,
		GroupColor:         s.GroupColor,
		NodeColor:          s.NodeColor,
		DrawActiveViewport: s.DrawActiveViewport,
		PrimaryStrategy:    string(s.PrimaryStrategy),
		SecondaryStrategy:  string(s.SecondaryStrategy),
		RedrawInterval:     s.RedrawInterval,
		SetupDebounce:      s.SetupDebounce,
	}
}

// DefaultPath is ~/.canvasmap.yaml, or "" when there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".canvasmap.yaml")
}

// Load reads path if it exists and overlays CANVASMAP_* variables. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.SaveDirectory != "" {
		cfg.SaveDirectory = expandHome(cfg.SaveDirectory)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Settings converts and validates.
func (c *Config) Settings() (minimap.Settings, error) {
	primary, err := minimap.ParseStrategy(c.PrimaryStrategy)
	if err != nil {
		return minimap.Settings{}, fmt.Errorf("primary_strategy: %w", err)
	}
	secondary, err := minimap.ParseStrategy(c.SecondaryStrategy)
	if err != nil {
		return minimap.Settings{}, fmt.Errorf("secondary_strategy: %w", err)
	}

	s := minimap.Settings{
		Width:              c.Width,
		Height:             c.Height,
		Margin:             c.Margin,
		FontSize:           c.FontSize,
		FontColor:          c.FontColor,
		Placement:          minimap.Placement(strings.ToLower(c.Side)),
		Enabled:            c.Enabled,
		BackgroundColor:    c.BackgroundColor,
		GroupColor:         c.GroupColor,
		NodeColor:          c.NodeColor,
		DrawActiveViewport: c.DrawActiveViewport,
		PrimaryStrategy:    primary,
		SecondaryStrategy:  secondary,
		RedrawInterval:     c.RedrawInterval,
		SetupDebounce:      c.SetupDebounce,
	}
	if err := s.Validate(); err != nil {
		return minimap.Settings{}, err
	}
	return s, nil
}

// GetSavePath resolves an export file name against SaveDirectory.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}
