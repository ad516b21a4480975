package rgbwave

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libdb.so/rgbwave/clock"
	"libdb.so/rgbwave/internal/device"
	"libdb.so/rgbwave/led"
	"libdb.so/rgbwave/playback"
	"libdb.so/rgbwave/playback/playbacktest"
	"libdb.so/rgbwave/sequence"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeDevice struct {
	*playbacktest.Recorder
	setups      int
	teardowns   int
	setupErr    error
	teardownErr error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{Recorder: playbacktest.NewRecorder()}
}

func (d *fakeDevice) Setup() error {
	d.setups++
	return d.setupErr
}

func (d *fakeDevice) Teardown() error {
	d.teardowns++
	return d.teardownErr
}

// cancelingDelayer cancels a context once a number of ticks have been waited.
type cancelingDelayer struct {
	playback.Delayer
	after  int
	ticks  int
	cancel context.CancelFunc
}

func (d *cancelingDelayer) WaitTicks(n int) {
	d.Delayer.WaitTicks(n)
	d.ticks += n
	if d.ticks >= d.after {
		d.cancel()
	}
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Passes = 2
	cfg.Tick = Duration(time.Millisecond)
	cfg.Settle = Duration(10 * time.Millisecond)
	cfg.Keyframes = []KeyframeConfig{
		{Fade: 0, Hold: 3, Color: led.RGB(255, 0, 0)},
	}
	return cfg
}

func TestRunnerRun(t *testing.T) {
	dev := newFakeDevice()

	r, err := NewRunner(testConfig(), dev, dev, discardLogger())
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, 1, dev.setups)
	assert.Equal(t, 1, dev.teardowns)
	assert.Equal(t, 2, r.Passes())

	assert.Equal(t, []playbacktest.Frame{
		{Tick: 0, Color: led.RGB(255, 0, 0)},
		{Tick: 3, Color: led.RGB(255, 0, 0)},
	}, dev.Frames())
	// Two holds of 3 ticks then the 10 tick settle.
	assert.Equal(t, []int{3, 3, 10}, dev.Waits())
}

func TestRunnerInvert(t *testing.T) {
	cfg := testConfig()
	cfg.Passes = 1
	cfg.Invert = true

	dev := newFakeDevice()

	r, err := NewRunner(cfg, dev, dev, discardLogger())
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))

	frames := dev.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, led.RGB(0, 255, 255), frames[0].Color)
}

func TestRunnerCanceled(t *testing.T) {
	dev := newFakeDevice()

	r, err := NewRunner(testConfig(), dev, dev, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, dev.teardowns)
	assert.Equal(t, 0, r.Passes())
	assert.Empty(t, dev.Frames())
	// No settle on cancellation.
	assert.Empty(t, dev.Waits())
}

func TestRunnerLoop(t *testing.T) {
	cfg := testConfig()
	cfg.Loop = true
	cfg.Passes = 1

	dev := newFakeDevice()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delay := &cancelingDelayer{Delayer: dev, after: 3 * 5, cancel: cancel}

	r, err := NewRunner(cfg, dev, delay, discardLogger())
	require.NoError(t, err)

	err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 5, r.Passes())
	assert.Equal(t, 1, dev.teardowns)
}

func TestRunnerSetupError(t *testing.T) {
	dev := newFakeDevice()
	dev.setupErr = errors.New("no port")

	r, err := NewRunner(testConfig(), dev, dev, discardLogger())
	require.NoError(t, err)

	err = r.Run(context.Background())
	assert.ErrorContains(t, err, "no port")
	assert.Equal(t, 0, dev.teardowns)
	assert.Empty(t, dev.Calls())
}

func TestRunnerTeardownError(t *testing.T) {
	dev := newFakeDevice()
	dev.teardownErr = errors.New("stuck")

	r, err := NewRunner(testConfig(), dev, dev, discardLogger())
	require.NoError(t, err)

	err = r.Run(context.Background())
	assert.ErrorContains(t, err, "failed to tear down device: stuck")
	assert.Equal(t, 2, r.Passes())
}

func TestRunnerTeardownErrorAfterCancel(t *testing.T) {
	dev := newFakeDevice()
	dev.teardownErr = errors.New("stuck")

	r, err := NewRunner(testConfig(), dev, dev, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The playback error wins over the teardown error.
	err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunnerInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Device = "laser"

	_, err := NewRunner(cfg, newFakeDevice(), nil, discardLogger())
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestRunnerReferenceOnSim(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Passes = 1

	sim := device.NewSim(discardLogger())
	delay := clock.NewVirtual(time.Duration(cfg.Tick))

	r, err := NewRunner(cfg, sim, delay, discardLogger())
	require.NoError(t, err)
	assert.Same(t, sequence.Reference, r.Table())

	require.NoError(t, r.Run(context.Background()))

	ref := sequence.Reference
	assert.Equal(t, ref.FadeTicks()+ref.Len(), sim.Frames())
	assert.Equal(t, led.Black, sim.Color())
	assert.Equal(t,
		ref.Duration(clock.MeasuredTick)+time.Duration(cfg.SettleTicks())*clock.MeasuredTick,
		delay.Elapsed())
}

func TestOpenDevice(t *testing.T) {
	cfg := DefaultConfig()

	dev, err := OpenDevice(cfg, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, (*device.Sim)(nil), dev)

	cfg.Device = SerialDevice
	cfg.Serial.Device = "/dev/ttyACM0"

	// Opening the port is deferred to Setup.
	dev, err = OpenDevice(cfg, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, (*device.Serial)(nil), dev)

	cfg.Device = "laser"
	_, err = OpenDevice(cfg, discardLogger())
	assert.Error(t, err)
}
