// Package main is the entry point for beamspring.
package main

import (
	"context"
	"os"
	"runtime"

	"github.com/dshills/beamspring/internal/cli"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(cli.Main(context.Background(), cli.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: date,
		GoVersion: runtime.Version(),
	}))
}
