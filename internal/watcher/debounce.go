package watcher

import "time"

// debounceTable records the last delivery time per path. It is owned by the
// notifier's event goroutine and is not safe for concurrent use.
type debounceTable struct {
	window time.Duration
	last   map[string]time.Time
}

func newDebounceTable(window time.Duration) *debounceTable {
	if window <= 0 {
		window = DebounceWindow
	}
	return &debounceTable{
		window: window,
		last:   make(map[string]time.Time),
	}
}

// allow reports whether path may be delivered at now and records the
// delivery when it may. A path is allowed when it has no prior delivery or the
// prior delivery is strictly older than the window.
func (table *debounceTable) allow(path string, now time.Time) bool {
	last, seen := table.last[path]
	if seen && now.Sub(last) <= table.window {
		return false
	}
	table.last[path] = now
	return true
}
