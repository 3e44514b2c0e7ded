package sources

import (
	"fmt"
	"strings"
	"time"
)

// calendarWidth is the width of the rendered month grid: seven two-digit
// day columns separated by single spaces.
const calendarWidth = 20

// monthLines renders a cal(1)-style month view for the month containing t:
// a centered "Month Year" header, a weekday row, and the day grid with weeks
// starting on Sunday.
func monthLines(t time.Time) []string {
	year, month, _ := t.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	lines := []string{
		center(fmt.Sprintf("%s %d", month, year), calendarWidth),
		"Su Mo Tu We Th Fr Sa",
	}

	var week [7]string
	weekday := int(first.Weekday())
	for day := 1; day <= daysInMonth; day++ {
		week[weekday] = fmt.Sprintf("%2d", day)
		if weekday == 6 || day == daysInMonth {
			lines = append(lines, strings.TrimRight(weekRow(week), " "))
			week = [7]string{}
			weekday = 0
		} else {
			weekday++
		}
	}
	return lines
}

// weekRow joins seven day cells, padding empty cells to keep columns.
func weekRow(week [7]string) string {
	cells := make([]string, 7)
	for i, cell := range week {
		if cell == "" {
			cell = "  "
		}
		cells[i] = cell
	}
	return strings.Join(cells, " ")
}

// center pads s with spaces to width, splitting the slack evenly.
func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s
}
