package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"devserve/internal/api"
	"devserve/internal/fsutil"
	"devserve/internal/logging"
	"devserve/internal/ports"
	"devserve/internal/version"
	"devserve/internal/watcher"

	"github.com/pkg/browser"
)

const httpReadHeaderTimeout = 5 * time.Second

// serverDeps holds the process boundaries runServer touches.
type serverDeps struct {
	Stdout       io.Writer
	Stderr       io.Writer
	Listen       func(network, address string) (net.Listener, error)
	OpenBrowser  func(url string) error
	Signals      func() (<-chan os.Signal, func())
	BrowserDelay time.Duration
	OutboundIP   func() string
}

func defaultServerDeps() serverDeps {
	return serverDeps{
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Listen:       net.Listen,
		OpenBrowser:  browser.OpenURL,
		Signals:      notifyShutdownSignals,
		BrowserDelay: browserLaunchDelay,
		OutboundIP:   ports.OutboundIP,
	}
}

func notifyShutdownSignals() (<-chan os.Signal, func()) {
	signalCh := make(chan os.Signal, 2)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	return signalCh, func() { signal.Stop(signalCh) }
}

func runServer(args []string, deps serverDeps) int {
	stdout := deps.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := deps.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	cfg, err := loadConfig(args, stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		printFatal(stderr, "%v", err)
		return 1
	}
	if cfg.ShowVersion {
		fmt.Fprintln(stdout, version.GetVersionInfo().String())
		return 0
	}

	logger := logging.NewLoggerWithOutput(nil, cfg.LogLevel, stdout)
	if cfg.Verbose {
		logStartupFlags(logger, cfg)
	}
	logVersionInfo(logger)
	if len(cfg.UnknownKeys) > 0 {
		logger.Warn("unknown config keys ignored", map[string]string{
			"path": cfg.ConfigPath,
			"keys": strings.Join(cfg.UnknownKeys, ","),
		})
	}

	root, err := fsutil.ResolveRoot(cfg.Dir)
	if err != nil {
		printFatal(stderr, "%v", err)
		return 1
	}
	if err := fsutil.RequireFiles(os.DirFS(root), fsutil.EntryFile); err != nil {
		var missing *fsutil.MissingFilesError
		if errors.As(err, &missing) {
			printFatal(stderr, "Missing required files: %s", strings.Join(missing.Files, ", "))
			fmt.Fprintf(stderr, "Make sure you're running devserve from the directory containing %s, or pass --dir\n", fsutil.EntryFile)
		} else {
			printFatal(stderr, "%v", err)
		}
		return 1
	}

	stopContext, stopCancel := context.WithCancel(context.Background())
	defer stopCancel()
	if deps.Signals != nil {
		signalCh, stopNotify := deps.Signals()
		defer stopNotify()
		stopWatching := watchShutdownSignals(logger, stopCancel, signalCh)
		defer stopWatching()
	}

	coordinator := newShutdownCoordinator(logger)
	defer func() {
		_ = coordinator.Run(context.Background())
	}()

	var closeWatcher func(context.Context) error
	if cfg.Watch {
		notifier, err := watcher.Start(root, announceChange(stdout), watcher.Options{Logger: logger})
		if err != nil {
			logger.Warn("file watching unavailable", map[string]string{
				"path":  root,
				"error": err.Error(),
			})
		} else {
			fmt.Fprintln(stdout, "File watcher started")
			var handle watcher.Handle = notifier
			closeWatcher = func(context.Context) error {
				return handle.Close()
			}
		}
	}

	listener, port, err := listenOn(deps.Listen, cfg.Host, cfg.Port)
	if err != nil {
		coordinator.Add("watcher", closeWatcher)
		if ports.IsAddrInUse(err) {
			printPortInUse(stderr, cfg.Port)
			return 1
		}
		logger.Error("server error", map[string]string{
			"address": net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			"error":   err.Error(),
		})
		printFatal(stderr, "%v", err)
		return 1
	}

	server := &http.Server{
		Handler:           api.NewStaticHandler(root, logger),
		ReadHeaderTimeout: httpReadHeaderTimeout,
	}

	networkIP := ""
	if ports.IsWildcardHost(cfg.Host) && deps.OutboundIP != nil {
		networkIP = deps.OutboundIP()
	}
	printBanner(stdout, bannerInfo{
		Root:      root,
		Host:      cfg.Host,
		Port:      port,
		Watch:     cfg.Watch,
		NetworkIP: networkIP,
	})
	logger.Info("server listening", map[string]string{
		"address": listener.Addr().String(),
		"root":    root,
	})

	if cfg.OpenBrowser {
		delay := deps.BrowserDelay
		if delay <= 0 {
			delay = browserLaunchDelay
		}
		stopBrowser := scheduleBrowser(stdout, logger, deps.OpenBrowser, serverURL(ports.LoopbackIP, port), delay)
		coordinator.Add("browser", stopBrowser)
	}
	coordinator.Add("http", server.Shutdown)
	coordinator.Add("watcher", closeWatcher)

	runner := &ServerRunner{
		Logger:          logger,
		ShutdownTimeout: httpServerShutdownTimeout,
	}
	serveErr := runner.Run(stopContext, ManagedServer{
		Name: "http",
		Serve: func() error {
			return server.Serve(listener)
		},
		Shutdown: coordinator.Run,
	})
	if serveErr != nil {
		printFatal(stderr, "%v", serveErr)
		return 1
	}
	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Server stopped by user")
	return 0
}

// announceChange reports a delivered change on the console.
func announceChange(out io.Writer) func(watcher.Event) {
	return func(event watcher.Event) {
		noticeColor.Fprintf(out, "File changed: %s\n", filepath.Base(event.Path))
		fmt.Fprintln(out, "Refresh your browser to see changes")
	}
}
