package terminal

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// Size holds terminal dimensions in character cells.
type Size struct {
	Cols int
	Rows int
}

// GetSize returns the current terminal dimensions without initializing a
// screen, for callers that only need geometry (layout previews, size
// overrides). It tries, in order:
//  1. TIOCGWINSZ ioctl on stdout
//  2. TIOCGWINSZ ioctl on stderr (in case stdout is redirected)
//  3. COLUMNS/LINES environment variables
//  4. Fallback to 80x24
func GetSize() Size {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd()} {
		if s, ok := sizeFromIoctl(fd); ok {
			return s
		}
	}
	return sizeFromEnv()
}

// sizeFromIoctl queries the terminal size via TIOCGWINSZ.
func sizeFromIoctl(fd uintptr) (Size, bool) {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return Size{}, false
	}
	return Size{Cols: int(ws.Col), Rows: int(ws.Row)}, true
}

// sizeFromEnv reads dimensions from COLUMNS/LINES, defaulting to 80x24.
func sizeFromEnv() Size {
	return Size{
		Cols: envInt("COLUMNS", 80),
		Rows: envInt("LINES", 24),
	}
}

// envInt reads a positive integer from the named environment variable,
// returning fallback if it is unset or malformed.
func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
