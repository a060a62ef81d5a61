package watcher

import (
	"time"

	"devserve/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// DebounceWindow is the minimum spacing between two deliveries for one path.
const DebounceWindow = time.Second

// WatchedExtensions lists the file suffixes that produce notifications.
var WatchedExtensions = []string{".html", ".css", ".js"}

// Event represents a single delivered file modification.
type Event struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// Handle releases watcher resources.
type Handle interface {
	Close() error
}

// Options controls notifier behavior.
type Options struct {
	Logger *logging.Logger
	// Debounce overrides DebounceWindow when positive.
	Debounce time.Duration
	// Now overrides the wall clock.
	Now func() time.Time
}
