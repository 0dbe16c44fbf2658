package main

import (
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version    kong.VersionFlag `short:"V" help:"Show version"`
	Verbose    bool             `short:"v" help:"Verbose logging"`
	Simulate   SimulateCmd      `cmd:"" help:"Run one simulation batch and report metrics"`
	Balance    BalanceCmd       `cmd:"" help:"Run the balancing loop until the edge is in band"`
	Montecarlo MontecarloCmd    `cmd:"" help:"Estimate run-to-run edge variance over repeated batches"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tubedraw"),
		kong.Description("Deterministic five-card-draw economy simulator with tube payouts"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	logger := newLogger(cli.Verbose)
	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}

func newLogger(verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{Level: level})
}

// resolveSeed fills a zero seed from the wall clock so runs differ unless
// pinned explicitly.
func resolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}
