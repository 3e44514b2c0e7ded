// Package dashboard is the runtime core of gridtiles: it owns the tile set,
// the render surface, and the per-tile polling scheduler, and runs the event
// loop that serializes all mutations of render state.
//
// Concurrency model: every tile polls from its own goroutine; results,
// resize notifications, and input events are message-passed into the single
// event-loop goroutine, which is the only writer of the surface and of tile
// rectangles and content. That single-writer discipline is what lets the
// surface run without locks.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/gridtiles/pkg/config"
	"gitlab.com/tinyland/lab/gridtiles/pkg/layout"
	"gitlab.com/tinyland/lab/gridtiles/pkg/style"
	"gitlab.com/tinyland/lab/gridtiles/pkg/surface"
	"gitlab.com/tinyland/lab/gridtiles/pkg/terminal"
)

const (
	defaultShutdownTimeout = 2 * time.Second
	defaultResizeDebounce  = 75 * time.Millisecond
)

// Options tune dashboard behavior. The zero value uses defaults.
type Options struct {
	// Logger receives lifecycle and failure logs. Defaults to
	// slog.Default(). The dashboard owns the terminal while running, so
	// callers should point this away from the terminal.
	Logger *slog.Logger

	// ShutdownTimeout bounds the wait for in-flight generator calls on
	// quit. Default 2s.
	ShutdownTimeout time.Duration

	// ResizeDebounce is how long the terminal size must hold steady before
	// a relayout. Default 75ms.
	ResizeDebounce time.Duration
}

// Dashboard drives a configured tile set on a terminal backend.
type Dashboard struct {
	backend terminal.Backend
	logger  *slog.Logger
	opts    Options

	tiles       []*tile
	sched       *scheduler
	surf        *surface.Surface
	defaultBG   style.Attr
	cols, rows  int
	paused      bool
	commitFails int
}

// New validates cfg, resolves all styles, and constructs the runtime tile
// set. All configuration problems are reported here, before any tile is
// created or the terminal is touched.
func New(cfg *config.Config, backend terminal.Backend, opts Options) (*Dashboard, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	global, err := cfg.Style.Resolve()
	if err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if opts.ResizeDebounce <= 0 {
		opts.ResizeDebounce = defaultResizeDebounce
	}

	d := &Dashboard{
		backend:   backend,
		logger:    opts.Logger,
		opts:      opts,
		defaultBG: global.BackgroundAttr(),
	}
	for i, spec := range cfg.Tiles {
		t, err := newTile(i, spec, global)
		if err != nil {
			return nil, err
		}
		d.tiles = append(d.tiles, t)
	}
	d.sched = newScheduler(opts.Logger, len(d.tiles))
	return d, nil
}

// Run initializes the backend, starts the per-tile pollers, and processes
// events until a quit key, backend shutdown, or context cancellation. It
// restores the terminal and drains the scheduler before returning.
func (d *Dashboard) Run(ctx context.Context) error {
	if err := d.backend.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	err := d.loop(ctx)
	cancel()
	d.sched.stop(d.opts.ShutdownTimeout)
	d.backend.Fini()
	return err
}

func (d *Dashboard) loop(ctx context.Context) error {
	d.cols, d.rows = d.backend.Size()
	d.surf = surface.New(d.backend, d.cols, d.rows, d.defaultBG)
	d.relayout()
	d.logger.Info("dashboard started", "tiles", len(d.tiles), "cols", d.cols, "rows", d.rows)

	d.sched.start(ctx, d.tiles)

	d.paintAll()
	if err := d.commit(); err != nil {
		return err
	}

	resize := newResizeMonitor(d.opts.ResizeDebounce)
	for {
		select {
		case <-ctx.Done():
			return nil

		case u := <-d.sched.updates:
			if err := d.applyUpdate(u); err != nil {
				return err
			}

		case ev, ok := <-d.backend.Events():
			if !ok {
				return nil
			}
			switch ev.Type {
			case terminal.EventResize:
				resize.observe(ev.Cols, ev.Rows)
			case terminal.EventKey:
				quit, err := d.handleKey(ev.Key)
				if quit || err != nil {
					return err
				}
			}

		case <-resize.fired():
			if err := d.applyResize(resize.take()); err != nil {
				return err
			}
		}
	}
}

// handleKey processes one key press. Returns quit=true for the quit keys.
func (d *Dashboard) handleKey(key rune) (quit bool, err error) {
	switch key {
	case 'q', 'Q', terminal.KeyCtrlC:
		d.logger.Info("quit requested")
		return true, nil
	case ' ':
		return false, d.togglePause()
	}
	return false, nil
}

// togglePause flips the paused state. While paused, poll results are still
// recorded but nothing is painted; unpausing restores the configured
// background and repaints every tile from its recorded state.
func (d *Dashboard) togglePause() error {
	d.paused = !d.paused
	d.logger.Info("pause toggled", "paused", d.paused)
	if d.paused {
		return nil
	}
	d.surf.SetBackground(d.defaultBG)
	d.surf.FullInvalidate()
	d.paintAll()
	return d.commit()
}

// applyUpdate records a poll result on its tile, evaluates action rules,
// and repaints the tile. While paused nothing is painted: results (and any
// action-triggered background switch) are recorded and become visible on
// resume. An update whose own halt action pauses the dashboard still paints,
// so the content that triggered the halt is on screen.
func (d *Dashboard) applyUpdate(u update) error {
	t := d.tiles[u.index]
	t.lastPolled = u.at
	if u.err != nil {
		t.err = u.err
	} else {
		t.content = u.lines
		t.err = nil
	}

	wasPaused := d.paused
	repaintAll := false
	if u.err == nil {
		for _, a := range t.matchActions(u.lines) {
			if a.background != nil {
				d.surf.SetBackground(*a.background)
				d.surf.FullInvalidate()
				repaintAll = true
			}
			if a.halt && !d.paused {
				d.paused = true
				d.logger.Info("halt action triggered", "tile", t.spec.Title)
			}
		}
	}

	if wasPaused {
		return nil
	}
	if repaintAll {
		d.paintAll()
	} else {
		d.paintTile(t)
	}
	return d.commit()
}

// applyResize recomputes the layout for a new terminal size and repaints
// every tile from its existing content. No generator is re-invoked.
func (d *Dashboard) applyResize(cols, rows int) error {
	if cols == d.cols && rows == d.rows {
		return nil
	}
	d.logger.Info("terminal resized", "cols", cols, "rows", rows)
	d.cols, d.rows = cols, rows
	d.surf.Resize(cols, rows)
	d.relayout()
	d.paintAll()
	return d.commit()
}

// relayout assigns every tile its rectangle for the current terminal size.
func (d *Dashboard) relayout() {
	requests := make([]layout.Request, len(d.tiles))
	for i, t := range d.tiles {
		requests[i] = layout.Request{
			Width:  t.spec.Geometry.Width,
			Height: t.spec.Geometry.Height,
		}
	}
	rects := layout.Compute(d.cols, d.rows, requests)
	for i, t := range d.tiles {
		t.rect = rects[i]
	}
}

// paintAll clears the paint buffer and repaints every tile.
func (d *Dashboard) paintAll() {
	d.surf.Clear()
	for _, t := range d.tiles {
		d.paintTile(t)
	}
}

// paintTile paints one tile's rectangle: title line, content or error
// diagnostic, and blank padding, each line styled by the tile's sheet.
// Zero-size tiles (no room at the current terminal size) are skipped; they
// keep polling and reappear on relayout.
func (d *Dashboard) paintTile(t *tile) {
	if t.rect.Empty() {
		return
	}
	lines := t.displayLines()
	for row := 0; row < t.rect.Height; row++ {
		text := ""
		if row < len(lines) {
			text = lines[row]
		}
		d.surf.PaintLine(t.rect, row, text, t.lineAttr(row, text))
	}
	t.lastRendered = time.Now()
}

// commit flushes the diff to the terminal. A failed flush gets one
// reinvalidate-and-redraw retry; a second consecutive failure is fatal.
func (d *Dashboard) commit() error {
	_, err := d.surf.Commit()
	if err == nil {
		d.commitFails = 0
		return nil
	}
	d.commitFails++
	d.logger.Warn("terminal write failed", "error", err, "consecutive", d.commitFails)
	if d.commitFails > 1 {
		return fmt.Errorf("terminal backend failure: %w", err)
	}
	d.paintAll()
	if _, err := d.surf.Commit(); err != nil {
		return fmt.Errorf("terminal backend failure: %w", err)
	}
	d.commitFails = 0
	return nil
}
