package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"devserve/internal/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
)

var ErrNilCallback = errors.New("watcher callback is nil")

// Notifier delivers debounced modification events for one directory.
type Notifier struct {
	watcher  *fsnotify.Watcher
	dir      string
	callback func(Event)
	debounce *debounceTable
	now      func() time.Time
	logger   *logging.Logger

	done      chan struct{}
	finished  chan struct{}
	closeOnce sync.Once
	closeErr  error
}

var _ Handle = (*Notifier)(nil)

// Start begins watching dir and returns the handle used to stop it.
func Start(dir string, callback func(Event), options Options) (*Notifier, error) {
	if callback == nil {
		return nil, ErrNilCallback
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve watch dir: %w", err)
	}

	source, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := source.Add(absDir); err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("watch %s: %w", absDir, err)
	}

	notifier := newNotifier(absDir, callback, options)
	notifier.watcher = source
	go notifier.run()

	notifier.logDebug("watching directory", map[string]string{"path": absDir})
	return notifier, nil
}

func newNotifier(dir string, callback func(Event), options Options) *Notifier {
	now := options.Now
	if now == nil {
		now = time.Now
	}
	return &Notifier{
		dir:      dir,
		callback: callback,
		debounce: newDebounceTable(options.Debounce),
		now:      now,
		logger:   options.Logger,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Dir returns the absolute watched directory.
func (notifier *Notifier) Dir() string {
	if notifier == nil {
		return ""
	}
	return notifier.dir
}

// Close stops watching and waits for the event goroutine to exit.
func (notifier *Notifier) Close() error {
	if notifier == nil {
		return nil
	}
	notifier.closeOnce.Do(func() {
		close(notifier.done)
		if notifier.watcher != nil {
			notifier.closeErr = notifier.watcher.Close()
			<-notifier.finished
		}
	})
	return notifier.closeErr
}

func (notifier *Notifier) run() {
	defer close(notifier.finished)
	for {
		select {
		case event, ok := <-notifier.watcher.Events:
			if !ok {
				return
			}
			notifier.handle(event)
		case err, ok := <-notifier.watcher.Errors:
			if !ok {
				return
			}
			notifier.logWarn("watch error", map[string]string{"error": err.Error()})
		case <-notifier.done:
			return
		}
	}
}

// handle filters one raw fsnotify event and delivers it when it passes the
// extension filter and the debounce table.
func (notifier *Notifier) handle(raw fsnotify.Event) bool {
	if !raw.Has(fsnotify.Write) {
		return false
	}
	if !IsWatchedFile(raw.Name) {
		return false
	}
	if info, err := os.Stat(raw.Name); err == nil && info.IsDir() {
		return false
	}

	now := notifier.now()
	if !notifier.debounce.allow(raw.Name, now) {
		notifier.logDebug("change suppressed", map[string]string{"path": raw.Name})
		return false
	}
	notifier.callback(Event{
		Path:      raw.Name,
		Op:        raw.Op,
		Timestamp: now,
	})
	return true
}

// IsWatchedFile reports whether path ends in one of WatchedExtensions.
func IsWatchedFile(path string) bool {
	return lo.SomeBy(WatchedExtensions, func(extension string) bool {
		return strings.HasSuffix(path, extension)
	})
}

func (notifier *Notifier) logWarn(message string, fields map[string]string) {
	if notifier == nil || notifier.logger == nil {
		return
	}
	notifier.logger.Warn(message, withWatcherFields(fields))
}

func (notifier *Notifier) logDebug(message string, fields map[string]string) {
	if notifier == nil || notifier.logger == nil {
		return
	}
	notifier.logger.Debug(message, withWatcherFields(fields))
}

func withWatcherFields(fields map[string]string) map[string]string {
	return lo.Assign(map[string]string{"devserve.category": "watcher"}, fields)
}
