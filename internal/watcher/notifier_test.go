package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

type fakeClock struct {
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.now = clock.now.Add(d)
}

func newTestNotifier(callback func(Event)) (*Notifier, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)}
	notifier := newNotifier(os.TempDir(), callback, Options{Now: clock.Now})
	return notifier, clock
}

func TestNotifierDeliversOnceForRapidWrites(t *testing.T) {
	for _, name := range []string{"index.html", "style.css", "app.js"} {
		t.Run(name, func(t *testing.T) {
			calls := 0
			notifier, clock := newTestNotifier(func(Event) { calls++ })

			notifier.handle(fsnotify.Event{Name: name, Op: fsnotify.Write})
			clock.Advance(200 * time.Millisecond)
			notifier.handle(fsnotify.Event{Name: name, Op: fsnotify.Write})

			if calls != 1 {
				t.Fatalf("expected 1 delivery, got %d", calls)
			}
		})
	}
}

func TestNotifierDeliversTwiceWhenSpacedBeyondWindow(t *testing.T) {
	var delivered []Event
	notifier, clock := newTestNotifier(func(event Event) { delivered = append(delivered, event) })

	notifier.handle(fsnotify.Event{Name: "index.html", Op: fsnotify.Write})
	clock.Advance(DebounceWindow + 10*time.Millisecond)
	notifier.handle(fsnotify.Event{Name: "index.html", Op: fsnotify.Write})

	if len(delivered) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(delivered))
	}
	if delivered[0].Path != "index.html" {
		t.Fatalf("expected path index.html, got %q", delivered[0].Path)
	}
	if !delivered[1].Timestamp.After(delivered[0].Timestamp) {
		t.Fatalf("expected increasing timestamps")
	}
}

func TestNotifierIgnoresUnwatchedExtensions(t *testing.T) {
	calls := 0
	notifier, clock := newTestNotifier(func(Event) { calls++ })

	for i := 0; i < 5; i++ {
		for _, name := range []string{"notes.md", "data.json", "image.png", "index.htm", "js"} {
			notifier.handle(fsnotify.Event{Name: name, Op: fsnotify.Write})
		}
		clock.Advance(2 * time.Second)
	}

	if calls != 0 {
		t.Fatalf("expected no deliveries, got %d", calls)
	}
}

func TestNotifierIgnoresNonWriteOps(t *testing.T) {
	calls := 0
	notifier, _ := newTestNotifier(func(Event) { calls++ })

	for _, op := range []fsnotify.Op{fsnotify.Create, fsnotify.Remove, fsnotify.Rename, fsnotify.Chmod} {
		notifier.handle(fsnotify.Event{Name: "index.html", Op: op})
	}

	if calls != 0 {
		t.Fatalf("expected no deliveries, got %d", calls)
	}
}

func TestNotifierIgnoresDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bundle.js")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	calls := 0
	notifier, _ := newTestNotifier(func(Event) { calls++ })

	notifier.handle(fsnotify.Event{Name: dir, Op: fsnotify.Write})

	if calls != 0 {
		t.Fatalf("expected directory event to be ignored")
	}
}

func TestIsWatchedFile(t *testing.T) {
	cases := map[string]bool{
		"index.html":        true,
		"/srv/app/site.css": true,
		"main.js":           true,
		"main.jsx":          false,
		"README":            false,
		"style.css.map":     false,
	}
	for path, want := range cases {
		if got := IsWatchedFile(path); got != want {
			t.Fatalf("IsWatchedFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestStartRejectsNilCallback(t *testing.T) {
	if _, err := Start(t.TempDir(), nil, Options{}); !errors.Is(err, ErrNilCallback) {
		t.Fatalf("expected ErrNilCallback, got %v", err)
	}
}

func TestStartFailsForMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	if _, err := Start(missing, func(Event) {}, Options{}); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestNotifierDispatchesWriteEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte("<html></html>"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	events := make(chan Event, 4)
	notifier, err := Start(dir, func(event Event) {
		select {
		case events <- event:
		default:
		}
	}, Options{})
	if err != nil {
		t.Fatalf("start notifier: %v", err)
	}
	defer notifier.Close()

	if err := os.WriteFile(path, []byte("<html>updated</html>"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	event, ok := waitForEvent(events)
	if !ok {
		t.Fatal("timed out waiting for write event")
	}
	if filepath.Base(event.Path) != "index.html" {
		t.Fatalf("expected index.html, got %q", event.Path)
	}
}

func TestNotifierIgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	if err := os.Mkdir(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(nested, "app.js")
	if err := os.WriteFile(path, []byte("1"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var calls atomic.Int32
	notifier, err := Start(dir, func(event Event) {
		if filepath.Base(event.Path) == "app.js" {
			calls.Add(1)
		}
	}, Options{})
	if err != nil {
		t.Fatalf("start notifier: %v", err)
	}

	if err := os.WriteFile(path, []byte("2"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if err := notifier.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if calls.Load() != 0 {
		t.Fatalf("expected nested file to be ignored")
	}
}

func TestNotifierCloseJoinsAndIsIdempotent(t *testing.T) {
	notifier, err := Start(t.TempDir(), func(Event) {}, Options{})
	if err != nil {
		t.Fatalf("start notifier: %v", err)
	}

	if err := notifier.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case <-notifier.finished:
	default:
		t.Fatalf("expected event goroutine to have exited")
	}
	if err := notifier.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func waitForEvent(events <-chan Event) (Event, bool) {
	select {
	case event := <-events:
		return event, true
	case <-time.After(2 * time.Second):
		return Event{}, false
	}
}
