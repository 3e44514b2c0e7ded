package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// TileOverrides adjusts one programmatically declared tile from a config
// file. Zero-valued fields leave the declaration untouched.
type TileOverrides struct {
	// Enabled removes the tile entirely when set to false.
	Enabled *bool `toml:"enabled"`

	Width     int         `toml:"width"`
	Height    int         `toml:"height"`
	Frequency Duration    `toml:"frequency"`
	Style     StyleConfig `toml:"style"`
}

// Overrides is the shape of the optional TOML config file. Generators are Go
// functions and cannot come from a file; the file only adjusts styling,
// geometry, cadence, and which tiles are enabled. Tiles are keyed by their
// normalized title (see Key).
type Overrides struct {
	Style StyleConfig              `toml:"style"`
	Tiles map[string]TileOverrides `toml:"tiles"`
}

// Load reads overrides from the standard config path. Search order:
//  1. $XDG_CONFIG_HOME/gridtiles/config.toml
//  2. ~/.config/gridtiles/config.toml
//
// If no file exists, returns empty Overrides.
func Load() (*Overrides, error) {
	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	return &Overrides{}, nil
}

// LoadFromFile reads overrides from a specific file path.
func LoadFromFile(path string) (*Overrides, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Overrides{}, nil
		}
		return nil, err
	}
	defer f.Close()
	o, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// LoadFromReader reads overrides from an io.Reader.
func LoadFromReader(r io.Reader) (*Overrides, error) {
	var o Overrides
	if _, err := toml.NewDecoder(r).Decode(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Apply merges the overrides into cfg. Unknown tile keys are reported as an
// error so typos in the config file do not silently do nothing; the check
// runs before any merge, so on error cfg is left untouched.
func (o *Overrides) Apply(cfg *Config) error {
	known := make(map[string]int, len(cfg.Tiles))
	for i, tile := range cfg.Tiles {
		known[Key(tile.Title)] = i
	}
	for key := range o.Tiles {
		if _, ok := known[key]; !ok {
			return fmt.Errorf("config overrides unknown tile %q", key)
		}
	}

	if !o.Style.IsZero() {
		cfg.Style = mergeStyle(cfg.Style, o.Style)
	}

	kept := cfg.Tiles[:0]
	for i := range cfg.Tiles {
		tile := cfg.Tiles[i]
		ov, ok := o.Tiles[Key(tile.Title)]
		if ok {
			if ov.Enabled != nil && !*ov.Enabled {
				continue
			}
			if ov.Width > 0 {
				tile.Geometry.Width = ov.Width
			}
			if ov.Height > 0 {
				tile.Geometry.Height = ov.Height
			}
			if ov.Frequency.Duration > 0 {
				tile.Frequency = ov.Frequency.Duration
			}
			if !ov.Style.IsZero() {
				tile.Style = mergeStyle(tile.Style, ov.Style)
			}
		}
		kept = append(kept, tile)
	}
	cfg.Tiles = kept
	return nil
}

// mergeStyle lays non-empty fields of override on top of base.
func mergeStyle(base, override StyleConfig) StyleConfig {
	merged := base
	if len(override.Background) > 0 {
		merged.Background = override.Background
	}
	if len(override.Title) > 0 {
		merged.Title = override.Title
	}
	if len(override.Rules) > 0 {
		merged.Rules = append(override.Rules, base.Rules...)
	}
	return merged
}

// searchPaths returns candidate config file locations in priority order.
func searchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "gridtiles", "config.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "gridtiles", "config.toml"))
	}
	return paths
}
