// Package config defines the typed dashboard configuration: the ordered set
// of tiles, their data-source callbacks, geometry, polling cadence, and
// styling. Configuration is validated once, before any tile is constructed;
// every problem is reported in a single error so a bad config never makes it
// into the event loop.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/gridtiles/pkg/style"
)

// Generator produces the lines a tile displays. It is invoked on the tile's
// cadence from the tile's own goroutine and may block; a returned error (or
// a panic, which the scheduler recovers) is rendered in place of content and
// retried on the next tick.
type Generator func() ([]string, error)

// Geometry is a tile's requested size in cells.
type Geometry struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// RuleConfig styles content lines matching a regular expression.
type RuleConfig struct {
	Pattern string     `toml:"pattern"`
	Style   style.Spec `toml:"style"`
}

// StyleConfig is the unresolved style set for a tile or the whole dashboard.
// Empty fields fall back to the global defaults (or terminal defaults).
type StyleConfig struct {
	Background style.Spec   `toml:"background"`
	Title      style.Spec   `toml:"title"`
	Rules      []RuleConfig `toml:"rules"`
}

// IsZero reports whether no styling was configured.
func (c StyleConfig) IsZero() bool {
	return len(c.Background) == 0 && len(c.Title) == 0 && len(c.Rules) == 0
}

// Resolve translates the style specs into a resolved sheet. All problems are
// returned joined, not just the first.
func (c StyleConfig) Resolve() (style.Sheet, error) {
	var sheet style.Sheet
	var errs []error

	if len(c.Background) > 0 {
		attr, err := style.Resolve(c.Background)
		if err != nil {
			errs = append(errs, fmt.Errorf("background: %w", err))
		} else {
			sheet.Background = &attr
		}
	}
	if len(c.Title) > 0 {
		attr, err := style.Resolve(c.Title)
		if err != nil {
			errs = append(errs, fmt.Errorf("title: %w", err))
		}
		sheet.Title = &attr
	}
	for i, rule := range c.Rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
			continue
		}
		attr, err := style.Resolve(rule.Style)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
			continue
		}
		sheet.Rules = append(sheet.Rules, style.Rule{Pattern: re, Attr: attr})
	}

	return sheet, errors.Join(errs...)
}

// ActionConfig reacts to generated content. When a tile's fresh content has
// a line matching Pattern, the dashboard applies the listed effects:
// switching the global background style and/or halting (pausing) updates.
type ActionConfig struct {
	Pattern    string     `toml:"pattern"`
	Background style.Spec `toml:"background"`
	Halt       bool       `toml:"halt"`
}

// TileSpec declares one dashboard tile.
type TileSpec struct {
	// Title, when non-empty, is rendered as the tile's first line. Together
	// with declaration order it identifies the tile for config overrides.
	Title string

	// Generator produces the tile's content. Required.
	Generator Generator

	// Geometry is the requested size; the layout engine may clip it.
	Geometry Geometry

	// Frequency is the minimum interval between generator invocations.
	Frequency time.Duration

	// Style overrides the dashboard style for this tile.
	Style StyleConfig

	// Actions are content-triggered effects.
	Actions []ActionConfig
}

// Config is the immutable dashboard configuration.
type Config struct {
	// Style is the dashboard-wide default style.
	Style StyleConfig

	// Tiles are laid out in declaration order.
	Tiles []TileSpec
}

// Validate checks the whole configuration and returns every problem found,
// joined into one error. A nil return means the config is safe to run.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Tiles) == 0 {
		errs = append(errs, errors.New("config has no tiles"))
	}
	if _, err := c.Style.Resolve(); err != nil {
		errs = append(errs, fmt.Errorf("style: %w", err))
	}

	for i, tile := range c.Tiles {
		name := tile.Title
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if tile.Generator == nil {
			errs = append(errs, fmt.Errorf("tile %s: generator is required", name))
		}
		if tile.Geometry.Width <= 0 || tile.Geometry.Height <= 0 {
			errs = append(errs, fmt.Errorf("tile %s: geometry %dx%d must be positive",
				name, tile.Geometry.Width, tile.Geometry.Height))
		}
		if tile.Frequency <= 0 {
			errs = append(errs, fmt.Errorf("tile %s: frequency %v must be positive",
				name, tile.Frequency))
		}
		if _, err := tile.Style.Resolve(); err != nil {
			errs = append(errs, fmt.Errorf("tile %s: %w", name, err))
		}
		for j, action := range tile.Actions {
			if _, err := regexp.Compile(action.Pattern); err != nil {
				errs = append(errs, fmt.Errorf("tile %s action %d: %w", name, j, err))
			}
			if len(action.Background) > 0 {
				if _, err := style.Resolve(action.Background); err != nil {
					errs = append(errs, fmt.Errorf("tile %s action %d: %w", name, j, err))
				}
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid dashboard config: %w", errors.Join(errs...))
}

// Key returns the override-file key for a tile title: lowercased, spaces
// replaced with dashes ("ACTIVE USERS" -> "active-users").
func Key(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "-")
}
