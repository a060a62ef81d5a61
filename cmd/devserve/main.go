package main

import (
	"io"
	"os"

	"github.com/pkg/browser"
)

func main() {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	os.Exit(runServer(os.Args[1:], defaultServerDeps()))
}
