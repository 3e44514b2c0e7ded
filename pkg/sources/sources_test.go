package sources

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestRuntimeFormat(t *testing.T) {
	gen := Runtime(time.Now().Add(-90 * time.Second))
	lines, err := gen()
	if err != nil {
		t.Fatalf("Runtime: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	want := regexp.MustCompile(`^Runtime: \d+:\d{2}:\d{2}\.\d{2}$`)
	if !want.MatchString(lines[0]) {
		t.Errorf("line %q does not match %v", lines[0], want)
	}
	if !strings.HasPrefix(lines[0], "Runtime: 0:01:3") {
		t.Errorf("line %q, want about a minute and a half", lines[0])
	}
}

func TestMonthLinesFixedMonth(t *testing.T) {
	// August 2026 starts on a Saturday and has 31 days.
	lines := monthLines(time.Date(2026, time.August, 26, 0, 0, 0, 0, time.UTC))

	want := []string{
		"    August 2026",
		"Su Mo Tu We Th Fr Sa",
		"                   1",
		" 2  3  4  5  6  7  8",
		" 9 10 11 12 13 14 15",
		"16 17 18 19 20 21 22",
		"23 24 25 26 27 28 29",
		"30 31",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestMonthLinesFebruaryLeapYear(t *testing.T) {
	lines := monthLines(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	last := lines[len(lines)-1]
	if !strings.HasSuffix(last, "29") {
		t.Errorf("last week %q, want it to end on the 29th", last)
	}
}

func TestWrapBreaksAtWidth(t *testing.T) {
	lines := wrap("the quick brown fox jumps over the lazy dog", 15)
	for i, line := range lines {
		if len(line) > 15 {
			t.Errorf("line %d %q exceeds width 15", i, line)
		}
	}
	if got := strings.Join(lines, " "); got != "the quick brown fox jumps over the lazy dog" {
		t.Errorf("wrap lost words: %q", got)
	}
}

func TestWrapKeepsSignatureLines(t *testing.T) {
	lines := wrap("Brevity is the soul of wit.\n-- William Shakespeare", 40)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), lines)
	}
	if lines[1] != "-- William Shakespeare" {
		t.Errorf("signature line = %q", lines[1])
	}
}

func TestWrapCollapsesBlankLines(t *testing.T) {
	lines := wrap("one\n\n\ntwo", 40)
	if len(lines) != 1 || lines[0] != "one two" {
		t.Errorf("got %q, want a single joined line", lines)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{512, "512B"},
		{2048, "2.0KiB"},
		{3 * 1024 * 1024, "3.0MiB"},
		{uint64(1.5 * float64(1<<30)), "1.5GiB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatUptime(t *testing.T) {
	if got := formatUptime(3*86400 + 4*3600 + 5*60); got != "3d 4h 05m" {
		t.Errorf("got %q, want 3d 4h 05m", got)
	}
	if got := formatUptime(2*3600 + 7*60); got != "2h 07m" {
		t.Errorf("got %q, want 2h 07m", got)
	}
}

func TestCenter(t *testing.T) {
	if got := center("abc", 9); got != "   abc" {
		t.Errorf("center = %q", got)
	}
	if got := center("longer than width", 5); got != "longer than width" {
		t.Errorf("center should not truncate: %q", got)
	}
}
