// Package style maps the small color/attribute vocabulary used in dashboard
// configuration to backend-independent terminal attributes. A style spec is a
// short token list such as ["WHITE", "BLUE"] or ["MAGENTA", "BLACK", "BOLD"]:
// the first two tokens name the foreground and background colors, any further
// tokens name attribute flags.
//
// Resolution is pure and fails fast: unknown tokens are reported as errors at
// config-load time, never at render time.
package style

import (
	"fmt"
	"regexp"
)

// Color is one of the eight classic terminal colors, or the terminal default.
type Color uint8

const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// colorFor maps config color tokens to Color values.
var colorFor = map[string]Color{
	"DEFAULT": ColorDefault,
	"BLACK":   ColorBlack,
	"RED":     ColorRed,
	"GREEN":   ColorGreen,
	"YELLOW":  ColorYellow,
	"BLUE":    ColorBlue,
	"MAGENTA": ColorMagenta,
	"CYAN":    ColorCyan,
	"WHITE":   ColorWhite,
}

// Attr is a resolved terminal attribute: a foreground/background color pair
// plus style flags. The zero value renders with the terminal defaults.
type Attr struct {
	FG        Color
	BG        Color
	Bold      bool
	Underline bool
	Reverse   bool
	Blink     bool
	Dim       bool
}

// attrSetterFor maps attribute tokens to the flag they set. STANDOUT is kept
// for compatibility with older configs and maps to reverse video.
var attrSetterFor = map[string]func(*Attr){
	"NORMAL":    func(*Attr) {},
	"BOLD":      func(a *Attr) { a.Bold = true },
	"UNDERLINE": func(a *Attr) { a.Underline = true },
	"REVERSE":   func(a *Attr) { a.Reverse = true },
	"STANDOUT":  func(a *Attr) { a.Reverse = true },
	"BLINK":     func(a *Attr) { a.Blink = true },
	"DIM":       func(a *Attr) { a.Dim = true },
}

// Spec is an unresolved style: a token list from configuration.
type Spec []string

// IsColor reports whether token is a recognized color name.
func IsColor(token string) bool {
	_, ok := colorFor[token]
	return ok
}

// IsAttr reports whether token is a recognized attribute name.
func IsAttr(token string) bool {
	_, ok := attrSetterFor[token]
	return ok
}

// Resolve translates a token list into an Attr. The spec must hold at least
// two color tokens; any remaining tokens must be attribute names.
func Resolve(spec Spec) (Attr, error) {
	var attr Attr
	if len(spec) < 2 {
		return attr, fmt.Errorf("style %v: need at least foreground and background colors", []string(spec))
	}
	fg, ok := colorFor[spec[0]]
	if !ok {
		return attr, fmt.Errorf("style %v: invalid color %q", []string(spec), spec[0])
	}
	bg, ok := colorFor[spec[1]]
	if !ok {
		return attr, fmt.Errorf("style %v: invalid color %q", []string(spec), spec[1])
	}
	attr.FG = fg
	attr.BG = bg
	for _, token := range spec[2:] {
		set, ok := attrSetterFor[token]
		if !ok {
			return attr, fmt.Errorf("style %v: invalid attribute %q", []string(spec), token)
		}
		set(&attr)
	}
	return attr, nil
}

// Rule styles any rendered line matching Pattern.
type Rule struct {
	Pattern *regexp.Regexp
	Attr    Attr
}

// Sheet is a fully resolved style set for one tile (or the global default).
type Sheet struct {
	// Background styles blank cells and unmatched content lines. Nil means
	// terminal defaults. A pointer so an explicit DEFAULT/DEFAULT override
	// stays distinguishable from "not configured".
	Background *Attr

	// Title styles a tile's title line. Nil means fall back to Background.
	Title *Attr

	// Rules are matched in order against each content line; the first hit
	// supplies that line's attribute.
	Rules []Rule
}

// Merge returns a copy of s with the set fields of override applied on top.
// Override rules are consulted before the base rules.
func (s Sheet) Merge(override Sheet) Sheet {
	merged := s
	if override.Background != nil {
		merged.Background = override.Background
	}
	if override.Title != nil {
		merged.Title = override.Title
	}
	if len(override.Rules) > 0 {
		rules := make([]Rule, 0, len(override.Rules)+len(s.Rules))
		rules = append(rules, override.Rules...)
		rules = append(rules, s.Rules...)
		merged.Rules = rules
	}
	return merged
}

// BackgroundAttr returns the blank-cell attribute, terminal defaults when
// no background is configured.
func (s Sheet) BackgroundAttr() Attr {
	if s.Background != nil {
		return *s.Background
	}
	return Attr{}
}

// TitleAttr returns the attribute for a tile's title line.
func (s Sheet) TitleAttr() Attr {
	if s.Title != nil {
		return *s.Title
	}
	return s.BackgroundAttr()
}

// LineAttr returns the attribute for one content line, consulting the regex
// rules in order and falling back to the sheet background.
func (s Sheet) LineAttr(line string) Attr {
	for _, rule := range s.Rules {
		if rule.Pattern.MatchString(line) {
			return rule.Attr
		}
	}
	return s.BackgroundAttr()
}
