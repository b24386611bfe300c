package main

import (
	"flag"
	"io"
	"log"
	"os"
)

// CLIOpts mirrors the flag set a window manager binary needs at startup:
// which display to open, where to place the IPC socket, and whether to
// log to stdout.
type CLIOpts struct {
	verbose bool
	display string
	socket  string
	replace bool
}

func parseCLIOpts() CLIOpts {
	var opt CLIOpts
	flag.BoolVar(&opt.verbose, "v", false, "Verbose output (print logs to stdout)")
	flag.StringVar(&opt.display, "display", "", "X display to connect to (defaults to $DISPLAY)")
	flag.StringVar(&opt.socket, "socket", defaultSocketPath(), "IPC socket path")
	flag.BoolVar(&opt.replace, "replace", false, "accepted for compatibility; currently ignored")
	flag.Parse()
	return opt
}

func defaultSocketPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return dir + "/i3-sub000-ipc.sock"
}

func configureLogging(opt CLIOpts) {
	if opt.verbose {
		log.SetOutput(os.Stdout)
	} else {
		log.SetOutput(io.Discard)
	}
}
