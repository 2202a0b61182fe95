// Package main provides the entry point for the surgery simulation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"surgery-sim/internal/actuator"
	"surgery-sim/internal/config"
	"surgery-sim/internal/display"
	simimage "surgery-sim/internal/image"
	"surgery-sim/internal/logging"
	"surgery-sim/internal/render"
	"surgery-sim/internal/segment"
	"surgery-sim/internal/surgery"
	"surgery-sim/internal/target"
	"surgery-sim/internal/version"
)

const (
	appTitle    = "surgery-sim"
	windowTitle = "Surgical Camera View"
)

func main() {
	app := &cli.App{
		Name:      appTitle,
		Usage:     "simulate robot-assisted tumor removal on a single scan",
		ArgsUsage: "[image]",
		Version:   version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file"},
			&cli.StringFlag{Name: "image", Aliases: []string{"i"}, Usage: "input scan (png, jpeg, tiff, bmp)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "path of the before/after composite"},
			&cli.BoolFlag{Name: "headless", Usage: "do not open a window; exit without waiting for a key"},
			&cli.DurationFlag{Name: "pace", Usage: "delay between observable stages (0 disables)"},
			&cli.StringFlag{Name: "log-mode", Usage: "development or production"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("configuration error: %v", err), 1)
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("configuration error: %v", err), 1)
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer logger.Sync()

	logger.Info("starting", zap.String("app", appTitle), zap.String("version", version.Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var viewer display.Viewer
	if cfg.Headless {
		viewer = display.NewHeadless(nil, logger)
	} else {
		viewer = display.NewWindow(windowTitle)
	}

	arm := actuator.NewArm(cfg.Arm.Damping, logger)
	sim := surgery.New(cfg, arm, viewer, logger)

	res, err := sim.Run(ctx, cfg.InputPath)
	if err != nil {
		return cli.Exit(describe(err), 1)
	}
	if res.NoTarget() {
		fmt.Println("No tumor detected; nothing to remove.")
	}
	return nil
}

// applyFlags overlays explicitly set command-line flags onto cfg.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.Args().Present() {
		cfg.InputPath = c.Args().First()
	}
	if c.IsSet("image") {
		cfg.InputPath = c.String("image")
	}
	if c.IsSet("output") {
		cfg.OutputPath = c.String("output")
	}
	if c.IsSet("headless") {
		cfg.Headless = c.Bool("headless")
	}
	if c.IsSet("pace") {
		cfg.PaceDelay = c.Duration("pace")
	}
	if c.IsSet("log-mode") {
		cfg.LogMode = c.String("log-mode")
	}
}

// describe prefixes err with its category.
func describe(err error) string {
	var category string
	switch {
	case errors.Is(err, simimage.ErrFileNotFound):
		category = "file not found"
	case errors.Is(err, simimage.ErrUnreadable):
		category = "unreadable image"
	case errors.Is(err, segment.ErrInvalidInput):
		category = "invalid input"
	case errors.Is(err, target.ErrDegenerateGeometry):
		category = "degenerate geometry"
	case errors.Is(err, render.ErrDimensionMismatch):
		category = "dimension mismatch"
	case errors.Is(err, context.Canceled):
		category = "interrupted"
	default:
		category = "simulation failed"
	}
	return fmt.Sprintf("%s: %v", category, err)
}
