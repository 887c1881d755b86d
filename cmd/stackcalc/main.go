// Package main is the entry point for the stackcalc RPN calculator.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/stackcalc/internal/app"
	"github.com/dshills/stackcalc/internal/cli"
	"github.com/dshills/stackcalc/internal/config"
	"github.com/dshills/stackcalc/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	configPath string
	batchIn    string
	batchOut   string
	logLevel   string
	strategy   string
	manifest   string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg.Logging())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	in, out, closeIO, err := batchIO(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer closeIO()

	display, clicfg := cfg.Display(), cfg.CLI()
	ui := cli.New(in, out,
		cli.WithPrecision(display.Precision),
		cli.WithRows(display.Rows),
		cli.WithPrompt(clicfg.Prompt),
		cli.WithHistoryFile(clicfg.HistoryFile),
		cli.WithEcho(opts.batchIn != ""),
		cli.WithLogger(logger),
	)

	session, err := app.NewSession(cfg, ui, app.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	go func() {
		// Returns when the session closes or a signal arrives
		_ = session.Run(ctx)
	}()

	var runErr error
	if opts.batchIn != "" {
		runErr = ui.Batch()
	} else {
		ui.Startup(version)
		runErr = ui.Interactive()
	}

	code := 0
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		code = 1
	}
	if err := session.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: shutdown: %v\n", err)
		code = 1
	}
	return code
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.batchIn, "batch", "", "Read commands from `file` instead of the terminal, echoing each")
	flag.StringVar(&opts.batchOut, "out", "", "Write batch output to `file` instead of stdout")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.strategy, "strategy", "", "Undo history strategy (stack, list, vector)")
	flag.StringVar(&opts.manifest, "manifest", "", "Plugin manifest `file`")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "stackcalc - an extensible RPN calculator\n\n")
		fmt.Fprintf(os.Stderr, "Usage: stackcalc [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  stackcalc                          Interactive calculator\n")
		fmt.Fprintf(os.Stderr, "  stackcalc -batch in.txt -out r.txt Run commands from a file\n")
		fmt.Fprintf(os.Stderr, "  stackcalc -manifest ~/plugins.pdp  Load plugins from a manifest\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("stackcalc %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.New(config.WithFile(opts.configPath))
	if err := cfg.Load(context.Background()); err != nil {
		return nil, err
	}

	overrides := map[string]string{
		"logging.level":    opts.logLevel,
		"history.strategy": opts.strategy,
		"plugins.manifest": opts.manifest,
	}
	for path, value := range overrides {
		if value == "" {
			continue
		}
		if err := cfg.Set(path, value); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the logger. It writes to stderr unless a log file is
// configured.
func newLogger(lc config.LoggingConfig) (*logging.Logger, func(), error) {
	lcfg := logging.DefaultConfig()
	lcfg.Level = logging.ParseLevel(lc.Level)

	if lc.File == "" {
		return logging.New(lcfg), func() {}, nil
	}

	f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	lcfg.Output = f
	return logging.New(lcfg), func() { _ = f.Close() }, nil
}

// batchIO opens the batch input and output. An output file that cannot
// be created falls back to stdout.
func batchIO(opts options) (io.Reader, io.Writer, func(), error) {
	if opts.batchIn == "" {
		return os.Stdin, os.Stdout, func() {}, nil
	}

	in, err := os.Open(opts.batchIn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not open %s for reading: %w", opts.batchIn, err)
	}
	closers := []io.Closer{in}

	var out io.Writer = os.Stdout
	if opts.batchOut != "" {
		f, err := os.Create(opts.batchOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open %s for writing. Reverting to stdout.\n", opts.batchOut)
		} else {
			out = f
			closers = append(closers, f)
		}
	}

	return in, out, func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}, nil
}
