// Package watcher reports edits to front-end source files in one directory.
//
// A Notifier watches a single directory (not its subdirectories) and invokes a
// callback for write events on .html, .css and .js files. Deliveries for the
// same path are debounced: editors that issue several writes per save produce
// one notification.
package watcher
