package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"libdb.so/rgbwave"
	"libdb.so/rgbwave/clock"
	"libdb.so/rgbwave/playback"
)

var (
	config  = "rgbwave.toml"
	verbose = false
	passes  = 0
	devName = ""
	loop    = false
	dryRun  = false
	check   = false
)

func init() {
	pflag.StringVarP(&config, "config", "c", config, "configuration file (.toml, .yaml or .yml)")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
	pflag.IntVarP(&passes, "passes", "n", passes, "number of passes, overrides the config")
	pflag.StringVarP(&devName, "device", "d", devName, "output device (sim, serial, pwm, pixel), overrides the config")
	pflag.BoolVar(&loop, "loop", loop, "play the table forever")
	pflag.BoolVar(&dryRun, "dry-run", dryRun, "play on the simulated device without sleeping")
	pflag.BoolVar(&check, "check", check, "validate the configuration, print the table summary and exit")
}

func main() {
	pflag.Parse()

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := readConfig()
	if err != nil {
		return err
	}

	if passes > 0 {
		cfg.Passes = passes
	}
	if devName != "" {
		cfg.Device = rgbwave.DeviceKind(devName)
	}
	if loop {
		cfg.Loop = true
	}
	if dryRun {
		cfg.Device = rgbwave.SimDevice
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if check {
		return printSummary(cfg)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dev, err := rgbwave.OpenDevice(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}

	var delay playback.Delayer
	var virtual *clock.Virtual
	if dryRun {
		virtual = clock.NewVirtual(time.Duration(cfg.Tick))
		delay = virtual
	} else {
		delay = rgbwave.NewDelayer(cfg)
	}

	r, err := rgbwave.NewRunner(cfg, dev, delay, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}

	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("playback failed: %w", err)
	}

	if virtual != nil {
		slog.Info(
			"dry run complete",
			"passes", r.Passes(),
			"ticks", virtual.Ticks(),
			"elapsed", virtual.Elapsed())
	}

	return nil
}

func readConfig() (*rgbwave.Config, error) {
	cfg, err := rgbwave.ReadConfigFile(config)
	if err != nil {
		// Only the default path may be missing.
		if errors.Is(err, fs.ErrNotExist) && !pflag.CommandLine.Changed("config") {
			slog.Debug("no config file, using defaults", "path", config)
			return rgbwave.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func printSummary(cfg *rgbwave.Config) error {
	table, err := cfg.Table()
	if err != nil {
		return err
	}

	fmt.Printf("device:     %s\n", cfg.Device)
	fmt.Printf("keyframes:  %d\n", table.Len())
	fmt.Printf("fade ticks: %d\n", table.FadeTicks())
	fmt.Printf("hold ticks: %d\n", table.HoldTicks())
	fmt.Printf("pass ticks: %d\n", table.TotalTicks())

	ticks := []struct {
		name string
		tick time.Duration
	}{
		{"configured", time.Duration(cfg.Tick)},
		{"measured", clock.MeasuredTick},
		{"nominal", clock.NominalTick},
	}
	for _, t := range ticks {
		fmt.Printf("pass at %s tick (%s): %s\n", t.name, t.tick, table.Duration(t.tick))
	}

	tick := time.Duration(cfg.Tick)
	if cfg.Loop {
		fmt.Println("passes:     forever")
	} else {
		fmt.Printf("passes:     %d, %s total\n",
			cfg.Passes, time.Duration(cfg.Passes)*table.Duration(tick))
	}
	return nil
}
