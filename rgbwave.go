// Package rgbwave plays a tri-colour LED light table on a configurable
// output device.
package rgbwave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"libdb.so/rgbwave/clock"
	"libdb.so/rgbwave/internal/device"
	"libdb.so/rgbwave/playback"
	"libdb.so/rgbwave/sequence"
)

// Device is an output that a Runner drives. Setup is called once before the
// first pass and Teardown once after the last.
type Device interface {
	playback.Sink
	// Setup prepares the device and shows black.
	Setup() error
	// Teardown turns the LED off and releases the device.
	Teardown() error
}

var (
	_ Device = (*device.Sim)(nil)
	_ Device = (*device.Serial)(nil)
	_ Device = (*device.PWM)(nil)
	_ Device = (*device.Pixel)(nil)
)

// OpenDevice creates the device described by the configuration. The device
// is not set up yet.
func OpenDevice(cfg *Config, logger *slog.Logger) (Device, error) {
	logger = logger.With("device", cfg.Device)

	switch cfg.Device {
	case SimDevice:
		return device.NewSim(logger), nil

	case SerialDevice:
		return device.NewSerial(device.SerialPort(cfg.Serial.Device, cfg.Serial.Baud), logger), nil

	case PWMDevice:
		if _, err := host.Init(); err != nil {
			return nil, errors.Wrap(err, "failed to initialize periph host")
		}

		var pins [3]gpio.PinIO
		for i, name := range []string{cfg.PWM.Red, cfg.PWM.Green, cfg.PWM.Blue} {
			pins[i] = gpioreg.ByName(name)
			if pins[i] == nil {
				return nil, fmt.Errorf("unknown gpio pin %q", name)
			}
		}

		freq := device.DefaultPWMFrequency
		if cfg.PWM.Frequency > 0 {
			freq = physic.Frequency(cfg.PWM.Frequency) * physic.Hertz
		}

		return device.NewPWM(pins, freq, logger), nil

	case PixelDevice:
		if _, err := host.Init(); err != nil {
			return nil, errors.Wrap(err, "failed to initialize periph host")
		}

		port, err := spireg.Open(cfg.Pixel.Port)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open spi port")
		}

		freq := device.DefaultPixelFrequency
		if cfg.Pixel.Frequency > 0 {
			freq = physic.Frequency(cfg.Pixel.Frequency) * physic.Hertz
		}

		return device.NewPixel(port, freq, logger), nil

	default:
		return nil, fmt.Errorf("unknown device %q", cfg.Device)
	}
}

// NewDelayer returns the real-time delayer for the configured tick.
func NewDelayer(cfg *Config) playback.Delayer {
	return clock.NewSleeper(time.Duration(cfg.Tick))
}

// Runner plays the configured light table on a device for a number of
// passes.
type Runner struct {
	cfg    *Config
	table  *sequence.Table
	dev    Device
	delay  playback.Delayer
	logger *slog.Logger
	passes int
}

// NewRunner creates a new runner. The configuration is validated first.
func NewRunner(cfg *Config, dev Device, delay playback.Delayer, logger *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	table, err := cfg.Table()
	if err != nil {
		return nil, errors.Wrap(err, "invalid light table")
	}

	return &Runner{
		cfg:    cfg,
		table:  table,
		dev:    dev,
		delay:  delay,
		logger: logger,
	}, nil
}

// Table returns the light table the runner plays.
func (r *Runner) Table() *sequence.Table { return r.table }

// Passes returns the number of passes completed by the last Run.
func (r *Runner) Passes() int { return r.passes }

// Run sets up the device and plays the table until all passes are done or
// the context is canceled. The device is always torn down once Setup has
// succeeded, and a teardown error is returned if nothing else failed.
func (r *Runner) Run(ctx context.Context) (err error) {
	r.passes = 0

	if err := r.dev.Setup(); err != nil {
		return errors.Wrap(err, "failed to set up device")
	}

	defer func() {
		r.logger.Debug("tearing down device")
		if terr := r.dev.Teardown(); terr != nil {
			terr = errors.Wrap(terr, "failed to tear down device")
			if err == nil {
				err = terr
			} else {
				r.logger.Error("teardown failed", "err", terr)
			}
		}
	}()

	var sink playback.Sink = r.dev
	if r.cfg.Invert {
		sink = device.Invert(sink)
	}

	player := playback.NewPlayer(r.table, sink, r.delay, playback.Hooks{
		OnKeyframe: func(i int, kf sequence.Keyframe) {
			r.logger.Debug(
				"playing keyframe",
				"index", i,
				"fade", kf.Fade,
				"hold", kf.Hold,
				"color", kf.Color)
		},
	})

	r.logger.Info(
		"starting playback",
		"keyframes", r.table.Len(),
		"pass_duration", r.table.Duration(time.Duration(r.cfg.Tick)),
		"passes", r.passLimit())

	for r.cfg.Loop || r.passes < r.cfg.Passes {
		if err := player.RunPass(ctx); err != nil {
			return err
		}
		r.passes++
		r.logger.Info("pass complete", "pass", r.passes)
	}

	r.logger.Debug("settling before shutdown", "settle", r.cfg.Settle)
	r.delay.WaitTicks(r.cfg.SettleTicks())

	return nil
}

func (r *Runner) passLimit() any {
	if r.cfg.Loop {
		return "forever"
	}
	return r.cfg.Passes
}
