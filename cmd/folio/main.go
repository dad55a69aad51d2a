// Package main is the entry point for the folio layout previewer.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/folio/internal/app"
	"github.com/dshills/folio/internal/config"
	"github.com/dshills/folio/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cliOptions holds the parsed command line.
type cliOptions struct {
	configPath string
	outPath    string
	logLevel   string
	logFile    string
	snapshot   string
	scale      float64
	watch      bool
	layoutPath string
}

func main() {
	os.Exit(run())
}

func run() int {
	cli := parseFlags()

	cfg, err := config.Load(cli.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if cli.logLevel != "" {
		cfg.Logging.Level = cli.logLevel
	}

	logOut, closeLog, err := logOutput(cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel()
	logCfg.Output = logOut
	logger := logging.New(logCfg)

	application, err := app.New(app.Options{
		LayoutPath:   cli.layoutPath,
		Config:       cfg,
		Scale:        cli.scale,
		Watch:        cli.watch,
		SnapshotPath: cli.snapshot,
		Logger:       logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	if cli.outPath != "" {
		if err := application.ExportFile(cli.outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// logOutput picks where logs go. Export mode logs to stderr; the
// interactive preview owns the terminal, so it only logs to -log-file.
func logOutput(cli cliOptions) (io.Writer, func(), error) {
	if cli.logFile != "" {
		f, err := os.OpenFile(cli.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file %s: %w", cli.logFile, err)
		}
		return f, func() { _ = f.Close() }, nil
	}
	if cli.outPath != "" {
		return os.Stderr, func() {}, nil
	}
	return io.Discard, func() {}, nil
}

func parseFlags() cliOptions {
	var cli cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&cli.configPath, "config", "", "Path to TOML or YAML configuration file")
	flag.StringVar(&cli.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.Float64Var(&cli.scale, "scale", 1, "Initial zoom factor")
	flag.StringVar(&cli.outPath, "out", "", "Write a PNG snapshot to this path and exit")
	flag.StringVar(&cli.outPath, "o", "", "Write a PNG snapshot (shorthand)")
	flag.StringVar(&cli.snapshot, "snapshot", "", "Path written by the 's' key (default: layout path with .png)")
	flag.BoolVar(&cli.watch, "watch", false, "Reload when the layout file changes")
	flag.BoolVar(&cli.watch, "w", false, "Reload when the layout file changes (shorthand)")
	flag.StringVar(&cli.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&cli.logFile, "log-file", "", "Append logs to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Folio - resume layout previewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: folio [options] layout.json\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  + =    zoom in        -      zoom out\n")
		fmt.Fprintf(os.Stderr, "  0      reset zoom     r      reload\n")
		fmt.Fprintf(os.Stderr, "  s      snapshot       q Esc  quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  folio layout.json                 Preview in the terminal\n")
		fmt.Fprintf(os.Stderr, "  folio -w layout.json              Preview and follow rebuilds\n")
		fmt.Fprintf(os.Stderr, "  folio -scale 2 -o cv.png layout.json\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Folio %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if cli.logLevel != "" && !logging.ValidLevel(cli.logLevel) {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", cli.logLevel)
		os.Exit(1)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	cli.layoutPath = flag.Arg(0)

	return cli
}
