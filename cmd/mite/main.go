package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/jwtly10/mite"
	"github.com/jwtly10/mite/internal/cli"
	"github.com/jwtly10/mite/internal/config"
	"github.com/jwtly10/mite/internal/errors"
	"github.com/jwtly10/mite/internal/transformer"
	"github.com/jwtly10/mite/internal/watch"
)

var CLI struct {
	Dir     string `short:"d" help:"Site root directory" default:"." type:"existingdir"`
	Config  string `short:"c" help:"Configuration file path (default: mite.yaml in the site root)"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve bool   `help:"Serve the site after building"`
	Addr  string `help:"Preview server listen address (default: from configuration, :8080)"`
	Watch bool   `short:"w" help:"Rebuild when sources change"`

	Incremental  bool   `short:"i" help:"Skip the build when every page is newer than its sources"`
	AssembleOnly bool   `help:"Write the generated program and stop"`
	Keep         bool   `help:"Keep the generated program after building"`
	Generated    string `help:"Path of the generated program (default: from configuration, site.gen.go)"`

	RequireFrontMatter bool `help:"Fail on pages without front matter"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("mite"),
		kong.Description("Build a static site from markdown pages and templates with embedded Go."),
	)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	adapter := errors.NewCLIErrorAdapter(CLI.Verbose, logger)
	os.Exit(adapter.HandleError(err))
}

func run(ctx context.Context) error {
	root := mite.MustAbs(CLI.Dir)
	configPath := CLI.Config
	if configPath == "" {
		configPath = filepath.Join(root, config.FileName)
	}

	opts := cli.Options{
		Root:         root,
		ConfigPath:   configPath,
		Incremental:  CLI.Incremental,
		AssembleOnly: CLI.AssembleOnly,
		Keep:         CLI.Keep,
		Generated:    CLI.Generated,
		Transform: transformer.TransformOptions{
			RequireFrontMatter: CLI.RequireFrontMatter,
		},
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.ConfigInvalid(configPath, err)
	}

	build := func(ctx context.Context) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return errors.ConfigInvalid(configPath, err)
		}
		result, err := cli.NewProcessor(opts, cfg).Build(ctx)
		if err != nil {
			return err
		}
		report(result)
		return nil
	}

	longRunning := (CLI.Watch || CLI.Serve) && !CLI.AssembleOnly
	if err := build(ctx); err != nil {
		if !longRunning {
			return err
		}
		slog.Error("initial build failed", "error", err)
	}
	if !longRunning {
		return nil
	}

	addr := CLI.Addr
	if addr == "" {
		addr = cfg.Addr
	}
	return watch.Run(ctx, watch.Options{
		Root:     root,
		Watch:    CLI.Watch,
		Serve:    CLI.Serve,
		Addr:     addr,
		Debounce: cfg.DebounceDuration(),
		Build:    build,
	})
}

func report(result *cli.BuildResult) {
	switch {
	case result.Skipped:
		fmt.Fprintf(os.Stderr, "Up to date, nothing to build\n")
	case CLI.AssembleOnly:
		fmt.Fprintf(os.Stderr, "Wrote program for %d pages and %d templates to %s\n",
			len(result.Pages), result.Templates, result.GeneratedPath)
	default:
		fmt.Fprintf(os.Stderr, "Built %d pages with %d templates in %s\n",
			len(result.Pages), result.Templates, result.Duration.Round(time.Millisecond))
	}
}
