package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"devserve/internal/logging"
)

func TestPrintBannerLoopback(t *testing.T) {
	var out bytes.Buffer
	printBanner(&out, bannerInfo{Root: "/srv/app", Host: "127.0.0.1", Port: 8000, Watch: true, NetworkIP: "192.0.2.1"})

	text := out.String()
	for _, want := range []string{
		"Serving:  /srv/app",
		"Local:    http://127.0.0.1:8000",
		"Main:     /srv/app/index.html",
		"Changes to .html, .css and .js files are reported here",
		"Server running on http://127.0.0.1:8000",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in banner, got %q", want, text)
		}
	}
	if strings.Contains(text, "Network:") {
		t.Fatalf("expected no network line for loopback host")
	}
}

func TestPrintBannerWithoutWatchTip(t *testing.T) {
	var out bytes.Buffer
	printBanner(&out, bannerInfo{Root: "/srv/app", Host: "0.0.0.0", Port: 8000, NetworkIP: "192.0.2.1"})

	text := out.String()
	if strings.Contains(text, "reported here") {
		t.Fatalf("expected no watch tip")
	}
	if !strings.Contains(text, "Network:  http://192.0.2.1:8000") {
		t.Fatalf("expected network line, got %q", text)
	}
	if !strings.Contains(text, "Server running on http://192.0.2.1:8000") {
		t.Fatalf("expected network address in running line, got %q", text)
	}
}

func TestDisplayHost(t *testing.T) {
	cases := []struct {
		host      string
		networkIP string
		want      string
	}{
		{host: "127.0.0.1", networkIP: "192.0.2.1", want: "127.0.0.1"},
		{host: "0.0.0.0", networkIP: "192.0.2.1", want: "192.0.2.1"},
		{host: "::", networkIP: "192.0.2.1", want: "192.0.2.1"},
		{host: "0.0.0.0", want: "0.0.0.0"},
		{host: "", want: "0.0.0.0"},
	}
	for _, tc := range cases {
		if got := displayHost(tc.host, tc.networkIP); got != tc.want {
			t.Fatalf("displayHost(%q, %q) = %q, want %q", tc.host, tc.networkIP, got, tc.want)
		}
	}
}

func TestPrintPortInUse(t *testing.T) {
	var out bytes.Buffer
	printPortInUse(&out, 65535)
	if !strings.Contains(out.String(), "devserve -p 65534") {
		t.Fatalf("expected downward suggestion at max port, got %q", out.String())
	}
}

func TestServerURLBracketsIPv6(t *testing.T) {
	if got := serverURL("::1", 8000); got != "http://[::1]:8000" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestScheduleBrowserStopPreventsLaunch(t *testing.T) {
	opened := make(chan string, 1)
	stop := scheduleBrowser(nil, nil, func(url string) error {
		opened <- url
		return nil
	}, "http://127.0.0.1:8000", 50*time.Millisecond)

	if err := stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	select {
	case url := <-opened:
		t.Fatalf("expected no launch, got %q", url)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestScheduleBrowserFailureIsWarning(t *testing.T) {
	logger := logging.NewLoggerWithOutput(nil, logging.LevelInfo, nil)
	done := make(chan struct{})
	scheduleBrowser(nil, logger, func(string) error {
		defer close(done)
		return errors.New("no display")
	}, "http://127.0.0.1:8000", time.Millisecond)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected launch attempt")
	}
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if entry, ok := logger.Buffer().Find("browser launch failed"); ok {
			if entry.Level != logging.LevelWarning {
				t.Fatalf("expected warning, got %q", entry.Level)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected browser failure warning")
}
