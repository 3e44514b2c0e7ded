package config

import (
	"strings"
	"testing"
	"time"
)

func validTile(title string) TileSpec {
	return TileSpec{
		Title:     title,
		Generator: func() ([]string, error) { return []string{"ok"}, nil },
		Geometry:  Geometry{Width: 10, Height: 5},
		Frequency: time.Second,
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	cfg := &Config{
		Style: StyleConfig{
			Background: []string{"WHITE", "BLUE"},
			Title:      []string{"BLUE", "WHITE"},
		},
		Tiles: []TileSpec{validTile("CLOCK")},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsEmptyConfig(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for config with no tiles")
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	bad := TileSpec{
		Title:     "BROKEN",
		Generator: nil,
		Geometry:  Geometry{Width: 0, Height: -1},
		Frequency: 0,
		Style:     StyleConfig{Background: []string{"WHITE", "LIME"}},
	}
	cfg := &Config{Tiles: []TileSpec{bad}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"generator is required", "geometry", "frequency", "LIME"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should mention %q", msg, want)
		}
	}
}

func TestValidateRejectsBadActionPattern(t *testing.T) {
	tile := validTile("HEADER")
	tile.Actions = []ActionConfig{{Pattern: `[unclosed`}}
	cfg := &Config{Tiles: []TileSpec{tile}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed action pattern")
	}
}

func TestValidateRejectsBadActionStyle(t *testing.T) {
	tile := validTile("HEADER")
	tile.Actions = []ActionConfig{{Pattern: `x`, Background: []string{"WHITE", "NEON"}}}
	cfg := &Config{Tiles: []TileSpec{tile}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown action color")
	}
}

func TestStyleConfigResolve(t *testing.T) {
	sc := StyleConfig{
		Background: []string{"WHITE", "BLUE"},
		Rules: []RuleConfig{
			{Pattern: `err`, Style: []string{"RED", "BLACK", "BOLD"}},
		},
	}
	sheet, err := sc.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(sheet.Rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(sheet.Rules))
	}
	if !sheet.Rules[0].Attr.Bold {
		t.Error("rule attr should be bold")
	}
}

func TestStyleConfigResolveJoinsErrors(t *testing.T) {
	sc := StyleConfig{
		Background: []string{"WHITE", "LIME"},
		Title:      []string{"PINK", "BLACK"},
	}
	_, err := sc.Resolve()
	if err == nil {
		t.Fatal("expected resolve errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "LIME") || !strings.Contains(msg, "PINK") {
		t.Errorf("error %q should report both bad colors", msg)
	}
}

func TestKeyNormalization(t *testing.T) {
	cases := map[string]string{
		"ACTIVE USERS": "active-users",
		"Calendar":     "calendar",
		" padded ":     "padded",
	}
	for title, want := range cases {
		if got := Key(title); got != want {
			t.Errorf("Key(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestDurationUnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("250ms")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if d.Duration != 250*time.Millisecond {
		t.Errorf("got %v, want 250ms", d.Duration)
	}
}

func TestDurationRejectsNegative(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("-5s")); err == nil {
		t.Error("expected error for negative duration")
	}
}

func TestDurationRejectsGarbage(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("fast")); err == nil {
		t.Error("expected error for malformed duration")
	}
}
