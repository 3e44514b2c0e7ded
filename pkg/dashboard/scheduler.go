package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/gridtiles/pkg/config"
)

// update carries one poll result from a tile goroutine into the event loop.
type update struct {
	index int
	lines []string
	err   error
	at    time.Time
}

// scheduler runs one goroutine per tile, invoking the tile's generator on
// its cadence. Because each generator runs inline in its tile's goroutine,
// a poll for a tile can never start while the previous poll of the same
// tile is outstanding; ticks that elapse during a slow call coalesce, so at
// most one deferred poll follows it. Tiles never block each other.
type scheduler struct {
	logger  *slog.Logger
	updates chan update

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newScheduler(logger *slog.Logger, tileCount int) *scheduler {
	return &scheduler{
		logger:  logger,
		updates: make(chan update, 2*tileCount+1),
	}
}

// start launches the per-tile poll goroutines.
func (s *scheduler) start(ctx context.Context, tiles []*tile) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, t := range tiles {
		s.wg.Add(1)
		go s.poll(ctx, t.index, t.spec)
	}
}

// stop cancels all poll timers and waits for in-flight generator calls to
// finish, bounded by timeout. A generator that never returns is abandoned;
// its goroutine ends when the call eventually does. Returns false if the
// timeout elapsed before all goroutines drained.
func (s *scheduler) stop(timeout time.Duration) bool {
	if s.cancel != nil {
		s.cancel()
	}
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		s.logger.Warn("shutdown timeout; abandoning in-flight polls", "timeout", timeout)
		return false
	}
}

// poll is the per-tile loop: one immediate poll, then one per cadence tick.
func (s *scheduler) poll(ctx context.Context, index int, spec config.TileSpec) {
	defer s.wg.Done()

	s.deliver(ctx, s.runGenerator(index, spec))

	ticker := time.NewTicker(spec.Frequency)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.deliver(ctx, s.runGenerator(index, spec))
		}
	}
}

// runGenerator invokes the tile's generator, converting panics into errors.
// A failing generator is never fatal: the error renders in the tile and the
// next tick retries.
func (s *scheduler) runGenerator(index int, spec config.TileSpec) (u update) {
	defer func() {
		if r := recover(); r != nil {
			u = update{index: index, err: fmt.Errorf("generator panic: %v", r), at: time.Now()}
			s.logger.Error("generator panicked", "tile", spec.Title, "panic", r)
		}
	}()

	lines, err := spec.Generator()
	if err != nil {
		s.logger.Warn("generator failed", "tile", spec.Title, "error", err)
		return update{index: index, err: err, at: time.Now()}
	}
	return update{index: index, lines: lines, at: time.Now()}
}

// deliver publishes a poll result, giving up if the scheduler is stopping.
func (s *scheduler) deliver(ctx context.Context, u update) {
	select {
	case s.updates <- u:
	case <-ctx.Done():
	}
}
