package dashboard

import (
	"fmt"
	"regexp"
	"time"

	"gitlab.com/tinyland/lab/gridtiles/pkg/config"
	"gitlab.com/tinyland/lab/gridtiles/pkg/layout"
	"gitlab.com/tinyland/lab/gridtiles/pkg/style"
)

// action is a compiled content-triggered effect.
type action struct {
	pattern    *regexp.Regexp
	background *style.Attr
	halt       bool
}

// tile is the runtime state for one configured tile. Identity (title plus
// declaration order) is fixed for the process lifetime; the rectangle
// changes on relayout, and content history survives relayouts.
type tile struct {
	spec    config.TileSpec
	index   int
	sheet   style.Sheet
	actions []action

	rect         layout.Rect
	content      []string
	err          error
	lastPolled   time.Time
	lastRendered time.Time
}

// newTile resolves a tile's style sheet and actions against the global
// sheet. Resolution errors cannot occur for a validated config.
func newTile(index int, spec config.TileSpec, global style.Sheet) (*tile, error) {
	override, err := spec.Style.Resolve()
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", spec.Title, err)
	}

	t := &tile{
		spec:  spec,
		index: index,
		sheet: global.Merge(override),
	}

	for i, a := range spec.Actions {
		re, err := regexp.Compile(a.Pattern)
		if err != nil {
			return nil, fmt.Errorf("tile %s action %d: %w", spec.Title, i, err)
		}
		compiled := action{pattern: re, halt: a.Halt}
		if len(a.Background) > 0 {
			attr, err := style.Resolve(a.Background)
			if err != nil {
				return nil, fmt.Errorf("tile %s action %d: %w", spec.Title, i, err)
			}
			compiled.background = &attr
		}
		t.actions = append(t.actions, compiled)
	}

	return t, nil
}

// displayLines returns what the tile currently shows: the title line (when
// set) followed by content, or by the failure diagnostic when the last poll
// errored.
func (t *tile) displayLines() []string {
	body := t.content
	if t.err != nil {
		body = []string{"ERR: " + t.err.Error()}
	}
	if t.spec.Title == "" {
		return body
	}
	lines := make([]string, 0, len(body)+1)
	lines = append(lines, t.spec.Title)
	return append(lines, body...)
}

// lineAttr returns the attribute for display line row. Line 0 takes the
// title style when a title is set; other lines consult the sheet rules.
func (t *tile) lineAttr(row int, text string) style.Attr {
	if row == 0 && t.spec.Title != "" {
		return t.sheet.TitleAttr()
	}
	return t.sheet.LineAttr(text)
}

// matchActions returns the actions triggered by fresh content.
func (t *tile) matchActions(lines []string) []action {
	var triggered []action
	for _, a := range t.actions {
		for _, line := range lines {
			if a.pattern.MatchString(line) {
				triggered = append(triggered, a)
				break
			}
		}
	}
	return triggered
}
