// Package main is the entry point for the touch-settings application.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dtg01100/touch-settings/internal/app"
	"github.com/dtg01100/touch-settings/internal/cli"
	"github.com/dtg01100/touch-settings/internal/config"
	"github.com/dtg01100/touch-settings/internal/logging"
	"github.com/dtg01100/touch-settings/internal/tui"
)

var version = "dev"

type Config struct {
	ShowVersion bool
	SkipChecks  bool
	ConfigPath  string
}

type TUIRunner interface {
	Run(opts tui.Options) error
}

type defaultTUIRunner struct{}

func (d *defaultTUIRunner) Run(opts tui.Options) error {
	return tui.Run(opts)
}

func parseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("touch-settings", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Print version and exit")
	skipChecks := fs.Bool("skip-checks", false, "Skip pre-flight validation checks")
	configPath := fs.String("config", "", "Config file or directory")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &Config{
		ShowVersion: *showVersion,
		SkipChecks:  *skipChecks,
		ConfigPath:  *configPath,
	}, nil
}

func printVersion(w io.Writer, v string) {
	fmt.Fprintln(w, v)
}

func runPreflightChecksTo(ctx context.Context, w io.Writer, a *app.App) error {
	fmt.Fprintln(w, "Running pre-flight checks...")
	fmt.Fprintln(w)

	results := a.PreflightChecks(ctx)

	fmt.Fprint(w, app.FormatResults(results))
	fmt.Fprintln(w)

	if app.HasCriticalFailure(results) {
		fmt.Fprintln(w, "╔══════════════════════════════════════════════════════════════════╗")
		fmt.Fprintln(w, "║  Critical pre-flight check(s) failed. Cannot start application.  ║")
		fmt.Fprintln(w, "╚══════════════════════════════════════════════════════════════════╝")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Please fix the issues above and try again.")
		fmt.Fprintln(w, "You can skip these checks with --skip-checks (not recommended).")
		return fmt.Errorf("critical pre-flight checks failed")
	}

	if !app.AllPassed(results) {
		fmt.Fprintln(w, "⚠ Some optional checks failed. The application will start, but some")
		fmt.Fprintln(w, "  settings pages may show defaults instead of the stored values.")
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Pre-flight checks completed. Starting application...")
	fmt.Fprintln(w)
	return nil
}

type AppDeps struct {
	Stdout       io.Writer
	Stderr       io.Writer
	LoadConfig   func(path string) (*config.Config, error)
	SetupLogging func(opts logging.Options) (*slog.Logger, func() error, error)
	NewTUIRunner func() TUIRunner
	ParseFlags   func(args []string) (*Config, error)
}

func DefaultAppDeps(stdout, stderr io.Writer) *AppDeps {
	return &AppDeps{
		Stdout:       stdout,
		Stderr:       stderr,
		LoadConfig:   config.LoadFile,
		SetupLogging: logging.Setup,
		NewTUIRunner: func() TUIRunner {
			return &defaultTUIRunner{}
		},
		ParseFlags: parseFlags,
	}
}

func runMainWithDeps(args []string, deps *AppDeps) int {
	flags, err := deps.ParseFlags(args)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Error parsing flags: %v\n", err)
		return 2
	}

	if flags.ShowVersion {
		printVersion(deps.Stdout, version)
		return 0
	}

	cfg, err := deps.LoadConfig(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	logger, closeLog, err := deps.SetupLogging(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
		JSON:  cfg.Log.JSON,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Error setting up logging: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx := context.Background()

	if !flags.SkipChecks {
		a, err := app.New(cfg, app.Devices{}, logger)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
			return 1
		}
		if err := runPreflightChecksTo(ctx, deps.Stdout, a); err != nil {
			return 1
		}
	}

	tui.Version = version

	runner := deps.NewTUIRunner()
	if err := runner.Run(tui.Options{Config: cfg, Logger: logger, Context: ctx}); err != nil {
		logger.Error("terminal interface failed", "error", err)
		fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func runMain(args []string, stdout, stderr io.Writer) int {
	return runMainWithDeps(args, DefaultAppDeps(stdout, stderr))
}

// isCLI reports whether args select the command line instead of the TUI.
// Subcommands and the help and json flags select it. TUI flags like
// --config and --skip-checks keep the TUI.
func isCLI(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch first := args[0]; first {
	case "-h", "--help", "-j", "--json":
		return true
	default:
		return !strings.HasPrefix(first, "-")
	}
}

func main() {
	args := os.Args[1:]

	for _, arg := range args {
		if arg == "--version" || arg == "-v" {
			printVersion(os.Stdout, version)
			os.Exit(0)
		}
	}

	if isCLI(args) {
		cli.SetVersion(version)
		if err := cli.Execute(); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}

	os.Exit(runMain(args, os.Stdout, os.Stderr))
}
