package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"gitlab.com/tinyland/lab/gridtiles/pkg/style"
)

// screenBackend implements Backend on top of a tcell.Screen.
type screenBackend struct {
	screen tcell.Screen
	events chan Event

	mu       sync.Mutex
	finished bool
}

// New returns a Backend for the process's controlling terminal.
func New() Backend {
	return &screenBackend{
		events: make(chan Event, 16),
	}
}

// Init allocates the tcell screen, enters the alternate buffer, and starts
// the event pump.
func (b *screenBackend) Init() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("allocate screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	screen.HideCursor()
	b.screen = screen
	go b.pumpEvents()
	return nil
}

// Fini restores the terminal. Safe to call more than once.
func (b *screenBackend) Fini() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finished || b.screen == nil {
		return
	}
	b.finished = true
	b.screen.Fini()
}

// Size returns the terminal dimensions in columns and rows.
func (b *screenBackend) Size() (cols, rows int) {
	return b.screen.Size()
}

// SetCell stages one cell. A zero rune marks the trailing half of a wide
// rune, which tcell tracks on its own.
func (b *screenBackend) SetCell(x, y int, r rune, attr style.Attr) {
	if r == 0 {
		return
	}
	b.screen.SetContent(x, y, r, nil, tcellStyle(attr))
}

// Flush makes staged cells visible.
func (b *screenBackend) Flush() error {
	b.screen.Show()
	return nil
}

// Events returns the key/resize event stream. The channel closes when the
// screen is finalized.
func (b *screenBackend) Events() <-chan Event {
	return b.events
}

// pumpEvents translates tcell events into backend events until the screen
// is finalized (PollEvent then returns nil).
func (b *screenBackend) pumpEvents() {
	defer close(b.events)
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			var key rune
			switch ev.Key() {
			case tcell.KeyRune:
				key = ev.Rune()
			case tcell.KeyCtrlC:
				key = KeyCtrlC
			case tcell.KeyEscape:
				key = KeyEsc
			default:
				continue
			}
			b.events <- Event{Type: EventKey, Key: key}
		case *tcell.EventResize:
			cols, rows := ev.Size()
			b.events <- Event{Type: EventResize, Cols: cols, Rows: rows}
		}
	}
}

// tcellColorFor maps the style vocabulary onto the standard ANSI palette.
var tcellColorFor = map[style.Color]tcell.Color{
	style.ColorDefault: tcell.ColorDefault,
	style.ColorBlack:   tcell.ColorBlack,
	style.ColorRed:     tcell.ColorMaroon,
	style.ColorGreen:   tcell.ColorGreen,
	style.ColorYellow:  tcell.ColorOlive,
	style.ColorBlue:    tcell.ColorNavy,
	style.ColorMagenta: tcell.ColorPurple,
	style.ColorCyan:    tcell.ColorTeal,
	style.ColorWhite:   tcell.ColorSilver,
}

// tcellStyle converts a resolved attribute into a tcell style.
func tcellStyle(attr style.Attr) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcellColorFor[attr.FG]).
		Background(tcellColorFor[attr.BG]).
		Bold(attr.Bold).
		Underline(attr.Underline).
		Reverse(attr.Reverse).
		Blink(attr.Blink).
		Dim(attr.Dim)
}
