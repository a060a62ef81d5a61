package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"devserve/internal/logging"
)

const browserLaunchDelay = time.Second

// scheduleBrowser opens url after delay. The returned stop func cancels the
// launch when it has not fired yet.
func scheduleBrowser(out io.Writer, logger *logging.Logger, open func(string) error, url string, delay time.Duration) func(context.Context) error {
	if open == nil {
		return func(context.Context) error { return nil }
	}
	if out != nil {
		fmt.Fprintf(out, "Opening browser: %s\n", url)
	}
	timer := time.AfterFunc(delay, func() {
		if err := open(url); err != nil && logger != nil {
			logger.Warn("browser launch failed", map[string]string{
				"url":   url,
				"error": err.Error(),
			})
		}
	})
	return func(context.Context) error {
		timer.Stop()
		return nil
	}
}
