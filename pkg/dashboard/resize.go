package dashboard

import "time"

// resizeMonitor debounces terminal resize events: rapid repeated size
// changes collapse to the latest observed size, published once the terminal
// has been stable for the debounce window. Used only from the event loop
// goroutine.
type resizeMonitor struct {
	delay time.Duration
	timer *time.Timer
	cols  int
	rows  int
}

func newResizeMonitor(delay time.Duration) *resizeMonitor {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	return &resizeMonitor{delay: delay, timer: t}
}

// observe records a size change and (re)arms the debounce timer.
func (m *resizeMonitor) observe(cols, rows int) {
	m.cols, m.rows = cols, rows
	if !m.timer.Stop() {
		select {
		case <-m.timer.C:
		default:
		}
	}
	m.timer.Reset(m.delay)
}

// fired returns the channel that delivers the debounced notification.
func (m *resizeMonitor) fired() <-chan time.Time {
	return m.timer.C
}

// take returns the latest observed size.
func (m *resizeMonitor) take() (cols, rows int) {
	return m.cols, m.rows
}
