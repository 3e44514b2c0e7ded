// Package terminal defines the backend surface the dashboard core renders
// through, plus the tcell-based implementation used by real terminals and
// ioctl-based size queries for non-interactive callers. The core never talks
// to a terminal library directly: everything flows through the Backend
// interface, so tests substitute an in-memory fake.
package terminal

import "gitlab.com/tinyland/lab/gridtiles/pkg/style"

// EventType discriminates the events a backend can deliver.
type EventType int

const (
	// EventKey is a key press. Event.Key holds the rune.
	EventKey EventType = iota

	// EventResize is a terminal size change. Event.Cols and Event.Rows
	// hold the new dimensions.
	EventResize
)

// Control keys are delivered as their ASCII control runes.
const (
	KeyCtrlC rune = 0x03
	KeyEsc   rune = 0x1b
)

// Event is one input or resize event from the backend.
type Event struct {
	Type EventType
	Key  rune
	Cols int
	Rows int
}

// Backend is the terminal surface consumed by the dashboard core.
//
// SetCell stages a cell write; Flush makes staged writes visible. Size
// reports the current dimensions in columns and rows. Events delivers key
// presses and resize notifications; the channel is closed when the backend
// is finalized.
type Backend interface {
	Init() error
	Fini()
	Size() (cols, rows int)
	SetCell(x, y int, r rune, attr style.Attr)
	Flush() error
	Events() <-chan Event
}
