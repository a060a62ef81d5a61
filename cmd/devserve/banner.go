package main

import (
	"fmt"
	"io"
	"path/filepath"

	"devserve/internal/fsutil"
	"devserve/internal/ports"

	"github.com/fatih/color"
)

type bannerInfo struct {
	Root      string
	Host      string
	Port      int
	Watch     bool
	NetworkIP string
}

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	urlColor     = color.New(color.FgGreen)
	dimColor     = color.New(color.Faint)
	errorColor   = color.New(color.FgRed, color.Bold)
	noticeColor  = color.New(color.FgYellow)
)

func printBanner(out io.Writer, info bannerInfo) {
	if out == nil {
		return
	}
	headingColor.Fprintln(out, "devserve")
	fmt.Fprintf(out, "  Serving:  %s\n", info.Root)
	fmt.Fprintf(out, "  Local:    %s\n", urlColor.Sprint(serverURL(ports.LoopbackIP, info.Port)))
	if ports.IsWildcardHost(info.Host) && info.NetworkIP != "" {
		fmt.Fprintf(out, "  Network:  %s\n", urlColor.Sprint(serverURL(info.NetworkIP, info.Port)))
	}
	fmt.Fprintf(out, "  Main:     %s\n", filepath.Join(info.Root, fsutil.EntryFile))
	fmt.Fprintln(out, "")
	dimColor.Fprintln(out, "Tips:")
	dimColor.Fprintln(out, "  - Press Ctrl+C to stop the server")
	dimColor.Fprintln(out, "  - Refresh the browser to load changes")
	if info.Watch {
		dimColor.Fprintln(out, "  - Changes to .html, .css and .js files are reported here")
	}
	fmt.Fprintln(out, "")
	fmt.Fprintf(out, "Server running on %s\n", urlColor.Sprint(serverURL(displayHost(info.Host, info.NetworkIP), info.Port)))
	fmt.Fprintln(out, "Press Ctrl+C to stop")
}

func printFatal(out io.Writer, format string, args ...any) {
	if out == nil {
		return
	}
	errorColor.Fprint(out, "Error: ")
	fmt.Fprintf(out, format+"\n", args...)
}

func printPortInUse(out io.Writer, port int) {
	if out == nil {
		return
	}
	printFatal(out, "Port %d is already in use. Try a different port:", port)
	fmt.Fprintf(out, "   devserve -p %d\n", ports.SuggestPort(port))
}
