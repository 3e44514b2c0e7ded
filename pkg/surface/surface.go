// Package surface implements the double-buffered render target for the
// dashboard. All terminal writes are funneled through Surface.Commit, which
// diffs the freshly painted buffer against what is already on screen and
// emits only the cells that changed. Painting never touches the terminal and
// never writes out of bounds, so the surface is unit-testable against a fake
// cell writer.
package surface

import (
	"github.com/mattn/go-runewidth"

	"gitlab.com/tinyland/lab/gridtiles/pkg/layout"
	"gitlab.com/tinyland/lab/gridtiles/pkg/style"
)

// Cell is one terminal cell: a rune plus its display attribute.
type Cell struct {
	Rune rune
	Attr style.Attr
}

// CellWriter is the terminal-backend surface consumed by Commit.
// terminal.Backend satisfies it.
type CellWriter interface {
	// SetCell stages one cell at column x, row y.
	SetCell(x, y int, r rune, attr style.Attr)

	// Flush makes staged cells visible.
	Flush() error
}

// Surface owns two full grids of cells sized to the terminal: the buffer
// being painted and the buffer last committed to the terminal. It is not
// safe for concurrent use; the event loop is its sole caller.
type Surface struct {
	out        CellWriter
	cur        []Cell
	prev       []Cell
	width      int
	height     int
	background style.Attr
	invalid    bool
}

// New creates a Surface of the given dimensions writing to out. Both
// buffers start blank and the first Commit repaints everything.
func New(out CellWriter, width, height int, background style.Attr) *Surface {
	s := &Surface{out: out, background: background}
	s.Resize(width, height)
	return s
}

// Size returns the surface dimensions in cells.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Resize reallocates both buffers for new terminal dimensions and forces a
// full repaint: the old buffer contents are geometrically meaningless.
func (s *Surface) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.width = width
	s.height = height
	s.cur = make([]Cell, width*height)
	s.prev = make([]Cell, width*height)
	s.Clear()
	s.FullInvalidate()
}

// SetBackground changes the attribute used for blank cells. Callers should
// follow with FullInvalidate and a repaint to make the change visible.
func (s *Surface) SetBackground(attr style.Attr) {
	s.background = attr
}

// Background returns the current blank-cell attribute.
func (s *Surface) Background() style.Attr {
	return s.background
}

// Clear resets the paint buffer to blank cells in the background attribute.
func (s *Surface) Clear() {
	blank := Cell{Rune: ' ', Attr: s.background}
	for i := range s.cur {
		s.cur[i] = blank
	}
}

// FullInvalidate forces the next Commit to treat every cell as changed.
// Used after a resize or when the terminal state is no longer trusted.
func (s *Surface) FullInvalidate() {
	s.invalid = true
}

// Paint writes lines into rect with a uniform attribute. See PaintLine.
func (s *Surface) Paint(rect layout.Rect, lines []string, attr style.Attr) {
	for row := 0; row < rect.Height; row++ {
		text := ""
		if row < len(lines) {
			text = lines[row]
		}
		s.PaintLine(rect, row, text, attr)
	}
}

// PaintLine writes one line of text into row `row` of rect (0-based within
// the rectangle), padding with blanks to the rectangle width. Text that runs
// past the rectangle or the terminal bounds is truncated, never an error.
// Wide runes occupy two cells; a wide rune that would straddle the right
// edge is replaced with a blank.
func (s *Surface) PaintLine(rect layout.Rect, row int, text string, attr style.Attr) {
	clipped := rect.Intersect(layout.Rect{Width: s.width, Height: s.height})
	if clipped.Empty() {
		return
	}
	y := rect.Y + row
	if y < clipped.Y || y >= clipped.Bottom() {
		return
	}

	x := rect.X
	for _, r := range sanitize(text) {
		if x >= clipped.Right() {
			break
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x < clipped.X {
			x += w
			continue
		}
		if w == 2 && x+1 >= clipped.Right() {
			r = ' '
			w = 1
		}
		s.cur[y*s.width+x] = Cell{Rune: r, Attr: attr}
		if w == 2 {
			// The trailing half of a wide rune holds no rune of its own.
			s.cur[y*s.width+x+1] = Cell{Rune: 0, Attr: attr}
		}
		x += w
	}

	// Pad the remainder of the row inside the rectangle.
	blank := Cell{Rune: ' ', Attr: attr}
	for ; x < clipped.Right(); x++ {
		if x < clipped.X {
			continue
		}
		s.cur[y*s.width+x] = blank
	}
}

// Commit diffs the paint buffer against the last committed buffer, writes
// every differing cell to the backend, and flushes. It returns the number of
// cell writes emitted. Two consecutive commits with identical content emit
// zero writes.
func (s *Surface) Commit() (int, error) {
	writes := 0
	for y := 0; y < s.height; y++ {
		rowStart := y * s.width
		for x := 0; x < s.width; x++ {
			idx := rowStart + x
			if !s.invalid && s.cur[idx] == s.prev[idx] {
				continue
			}
			c := s.cur[idx]
			s.out.SetCell(x, y, c.Rune, c.Attr)
			writes++
		}
	}
	copy(s.prev, s.cur)
	s.invalid = false
	if err := s.out.Flush(); err != nil {
		// The terminal state is unknown after a failed flush.
		s.FullInvalidate()
		return writes, err
	}
	return writes, nil
}

// sanitize replaces control characters with spaces so stray tabs or escape
// bytes from a generator cannot corrupt the grid.
func sanitize(text string) []rune {
	runes := []rune(text)
	for i, r := range runes {
		if r < ' ' || r == 0x7f {
			runes[i] = ' '
		}
	}
	return runes
}
