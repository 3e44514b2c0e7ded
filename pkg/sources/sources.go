// Package sources provides the tile generators used by the demo dashboard:
// system information gathered through gopsutil, a month calendar, a process
// table, logged-in users, and a fortune pipe. Each generator is a plain
// config.Generator; failures are returned as errors and rendered in-tile by
// the framework.
package sources

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"

	"gitlab.com/tinyland/lab/gridtiles/pkg/config"
)

// Runtime returns a generator reporting elapsed time since start as
// "Runtime: H:MM:SS.cc".
func Runtime(start time.Time) config.Generator {
	return func() ([]string, error) {
		elapsed := time.Since(start)
		hours := int(elapsed.Hours())
		minutes := int(elapsed.Minutes()) % 60
		seconds := elapsed.Seconds() - float64(hours*3600+minutes*60)
		return []string{fmt.Sprintf("Runtime: %d:%02d:%05.2f", hours, minutes, seconds)}, nil
	}
}

// Calendar generates a timestamp line followed by the current month grid.
func Calendar() ([]string, error) {
	now := time.Now()
	lines := []string{" " + now.Format("2006-01-02 15:04:05") + " "}
	return append(lines, monthLines(now)...), nil
}

// Platform generates host identification lines: hostname, OS and kernel
// versions, architecture, and boot time.
func Platform() ([]string, error) {
	info, err := host.Info()
	if err != nil {
		return nil, fmt.Errorf("host info: %w", err)
	}
	boot := time.Unix(int64(info.BootTime), 0)
	return []string{
		info.Hostname,
		fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion),
		fmt.Sprintf("%s %s", info.OS, info.KernelVersion),
		info.KernelArch,
		"up since " + boot.Format("Jan 2 15:04"),
	}, nil
}

// Processes returns a generator listing up to max running processes,
// ordered by PID.
func Processes(max int) config.Generator {
	return func() ([]string, error) {
		procs, err := process.Processes()
		if err != nil {
			return nil, fmt.Errorf("process list: %w", err)
		}
		sort.Slice(procs, func(i, j int) bool { return procs[i].Pid < procs[j].Pid })

		lines := []string{fmt.Sprintf("%7s %s", "PID", "COMMAND")}
		for _, p := range procs {
			if len(lines) > max {
				break
			}
			name, err := p.Name()
			if err != nil {
				continue
			}
			lines = append(lines, fmt.Sprintf("%7d %s", p.Pid, name))
		}
		return lines, nil
	}
}

// ActiveUsers generates one line per logged-in user session.
func ActiveUsers() ([]string, error) {
	users, err := host.Users()
	if err != nil {
		return nil, fmt.Errorf("user sessions: %w", err)
	}
	if len(users) == 0 {
		return []string{"no active sessions"}, nil
	}
	lines := make([]string, 0, len(users))
	for _, u := range users {
		started := time.Unix(int64(u.Started), 0).Format("Jan 2 15:04")
		lines = append(lines, fmt.Sprintf("%-12s %-8s %s %s", u.User, u.Terminal, started, u.Host))
	}
	return lines, nil
}

// SysLoad generates a CPU, memory, and load-average snapshot.
func SysLoad() ([]string, error) {
	lines := make([]string, 0, 4)

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		lines = append(lines, fmt.Sprintf("CPU  %5.1f%%", percents[0]))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		lines = append(lines, fmt.Sprintf("MEM  %5.1f%%  %s / %s",
			vm.UsedPercent, formatBytes(vm.Used), formatBytes(vm.Total)))
	}
	if avg, err := load.Avg(); err == nil {
		lines = append(lines, fmt.Sprintf("LOAD %.2f %.2f %.2f", avg.Load1, avg.Load5, avg.Load15))
	}
	if info, err := host.Info(); err == nil {
		lines = append(lines, "UP   "+formatUptime(info.Uptime))
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("no system metrics available")
	}
	return lines, nil
}

// Fortune runs the fortune(6) program and word-wraps its output to width.
// On systems without fortune installed the tile shows the error, which
// doubles as a demonstration of per-tile failure isolation.
func Fortune(width int) config.Generator {
	return func() ([]string, error) {
		out, err := exec.Command("fortune").Output()
		if err != nil {
			return nil, fmt.Errorf("fortune: %w", err)
		}
		return wrap(strings.TrimSpace(string(out)), width), nil
	}
}

// wrap joins text into words and re-breaks them into lines of at most width
// runes. Signature lines starting with a dash keep their own line.
func wrap(text string, width int) []string {
	if width <= 0 {
		width = 55
	}
	var lines []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
	}
	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			flush()
			lines = append(lines, trimmed)
			continue
		}
		for _, word := range strings.Fields(trimmed) {
			if current.Len() > 0 && current.Len()+1+len(word) > width {
				flush()
			}
			if current.Len() > 0 {
				current.WriteByte(' ')
			}
			current.WriteString(word)
		}
	}
	flush()
	return lines
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatUptime renders seconds of uptime as "3d 4h 05m".
func formatUptime(seconds uint64) string {
	d := time.Duration(seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %02dm", days, hours, minutes)
	}
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}
