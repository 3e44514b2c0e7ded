// gridtiles is a configuration-driven terminal tile dashboard framework.
//
// This demo program arranges a handful of system-utility tiles (runtime
// header, calendar, platform info, process table, active users, system load,
// fortune) into a grid, polling each on its own cadence. Press 'q' to quit
// and space to pause.
//
// Usage:
//
//	gridtiles [flags]
//
// Flags:
//
//	-config string   Path to a TOML overrides file (default: XDG search)
//	-log string      Write logs to this file (default: discard)
//	-print-layout    Print computed tile rectangles and exit
//	-verbose         Enable debug logging
//	-version         Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/gridtiles/pkg/config"
	"gitlab.com/tinyland/lab/gridtiles/pkg/dashboard"
	"gitlab.com/tinyland/lab/gridtiles/pkg/layout"
	"gitlab.com/tinyland/lab/gridtiles/pkg/sources"
	"gitlab.com/tinyland/lab/gridtiles/pkg/terminal"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to a TOML overrides file")
		logPath     = flag.String("log", "", "Write logs to this file")
		printLayout = flag.Bool("print-layout", false, "Print computed tile rectangles and exit")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("gridtiles %s (%s)\n", version, commit)
		os.Exit(0)
	}

	cfg := demoConfig()

	// Apply file overrides (geometry, cadence, styling, enabled tiles).
	overrides, err := loadOverrides(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := overrides.Apply(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	if *printLayout {
		printComputedLayout(cfg)
		os.Exit(0)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "gridtiles requires an interactive terminal (try -print-layout)")
		os.Exit(1)
	}

	// The dashboard owns the terminal while running, so logs go to a file
	// or nowhere, never to the screen.
	logger, closeLog, err := setupLogger(*logPath, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	dash, err := dashboard.New(cfg, terminal.New(), dashboard.Options{Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	if err := dash.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "gridtiles: %v\n", err)
		os.Exit(1)
	}
}

// demoConfig builds the demo tile set. The runtime tile carries a style
// rule highlighting young runtimes and a halt action that freezes the
// dashboard ten seconds in, demonstrating content-triggered actions.
func demoConfig() *config.Config {
	start := time.Now()
	return &config.Config{
		Style: config.StyleConfig{
			Background: []string{"WHITE", "BLUE"},
			Title:      []string{"BLUE", "WHITE"},
		},
		Tiles: []config.TileSpec{
			{
				Title:     "",
				Generator: sources.Runtime(start),
				Geometry:  config.Geometry{Width: 45, Height: 2},
				Frequency: 250 * time.Millisecond,
				Style: config.StyleConfig{
					Rules: []config.RuleConfig{
						{Pattern: `[:]0[0-9][.]`, Style: []string{"MAGENTA", "BLACK", "BOLD"}},
					},
				},
				Actions: []config.ActionConfig{
					{Pattern: `[:]10[.]`, Background: []string{"WHITE", "GREEN"}, Halt: true},
				},
			},
			{
				Title:     "CALENDAR",
				Generator: sources.Calendar,
				Geometry:  config.Geometry{Width: 24, Height: 10},
				Frequency: time.Second,
				Style: config.StyleConfig{
					Title: []string{"WHITE", "RED", "BOLD"},
				},
			},
			{
				Title:     "PLATFORM",
				Generator: sources.Platform,
				Geometry:  config.Geometry{Width: 30, Height: 7},
				Frequency: 60 * time.Second,
			},
			{
				Title:     "SYSTEM LOAD",
				Generator: sources.SysLoad,
				Geometry:  config.Geometry{Width: 34, Height: 6},
				Frequency: 2 * time.Second,
			},
			{
				Title:     "PROCESSES",
				Generator: sources.Processes(18),
				Geometry:  config.Geometry{Width: 36, Height: 20},
				Frequency: 2 * time.Second,
				Style: config.StyleConfig{
					Rules: []config.RuleConfig{
						{Pattern: `\bPID\b`, Style: []string{"BLACK", "YELLOW", "BOLD"}},
					},
				},
			},
			{
				Title:     "ACTIVE USERS",
				Generator: sources.ActiveUsers,
				Geometry:  config.Geometry{Width: 44, Height: 8},
				Frequency: 5 * time.Second,
				Style: config.StyleConfig{
					Title: []string{"WHITE", "MAGENTA"},
				},
			},
			{
				Title:     "FORTUNE",
				Generator: sources.Fortune(55),
				Geometry:  config.Geometry{Width: 58, Height: 6},
				Frequency: 60 * time.Second,
			},
		},
	}
}

// loadOverrides reads the overrides file from path, or from the XDG search
// paths when no path is given.
func loadOverrides(path string) (*config.Overrides, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// printComputedLayout shows where each tile lands at the current terminal
// size, without entering the UI.
func printComputedLayout(cfg *config.Config) {
	size := terminal.GetSize()
	requests := make([]layout.Request, len(cfg.Tiles))
	for i, tile := range cfg.Tiles {
		requests[i] = layout.Request{Width: tile.Geometry.Width, Height: tile.Geometry.Height}
	}
	rects := layout.Compute(size.Cols, size.Rows, requests)

	fmt.Printf("terminal %dx%d\n", size.Cols, size.Rows)
	for i, tile := range cfg.Tiles {
		name := tile.Title
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		r := rects[i]
		if r.Empty() {
			fmt.Printf("%-14s (no room; still polled)\n", name)
			continue
		}
		fmt.Printf("%-14s x=%-3d y=%-3d %dx%d\n", name, r.X, r.Y, r.Width, r.Height)
	}
}

// setupLogger routes slog away from the terminal: to a file when requested,
// otherwise discarded.
func setupLogger(path string, verbose bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	closeLog := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeLog = func() { f.Close() }
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeLog, nil
}
