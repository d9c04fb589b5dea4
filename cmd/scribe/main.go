// Package main is the entry point for the Scribe editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/scribe-editor/scribe/internal/config"
	"github.com/scribe-editor/scribe/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, logPath, logLevel := parseFlags()

	logger, closeLog, err := newLogger(logPath, logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
		return 1
	}
	defer closeLog()

	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = defaultConfigPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		return 1
	}

	app, err := tui.New(opts, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Live-reload the configuration while the editor runs.
	if cfgPath != "" {
		watcher, err := config.Watch(cfgPath,
			func(cfg config.Config) { app.ReloadConfig(cfg) },
			func(err error) { logger.Warn().Err(err).Msg("config reload failed") },
		)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfgPath).Msg("config watch unavailable")
		} else {
			defer watcher.Close()
		}
	}

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (tui.Options, string, string) {
	var opts tui.Options
	var logPath, logLevel string
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Open the file in read-only mode")
	flag.BoolVar(&opts.ReadOnly, "R", false, "Open the file in read-only mode (shorthand)")
	flag.StringVar(&logPath, "log", "", "Write logs to this file")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Scribe - a multi-cursor text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scribe [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Scribe %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	if flag.NArg() > 0 {
		opts.FilePath = flag.Arg(0)
	}
	return opts, logPath, logLevel
}

// newLogger builds the application logger. Without a log file all output
// is discarded so it cannot corrupt the terminal UI.
func newLogger(path, level string) (zerolog.Logger, func(), error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}
	logger := zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "scribe", "config.toml")
}
