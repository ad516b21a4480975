package device

import (
	"log/slog"

	"libdb.so/rgbwave/led"
	"libdb.so/rgbwave/playback"
)

// Sim is a device without hardware. It logs every color change at debug
// level.
type Sim struct {
	logger *slog.Logger
	frame  frame

	frames  int
	changes int
}

var _ playback.Presenter = (*Sim)(nil)

// NewSim creates a simulated device.
func NewSim(logger *slog.Logger) *Sim {
	return &Sim{logger: logger}
}

// Setup implements rgbwave.Device.
func (s *Sim) Setup() error {
	s.frame = frame{}
	s.frame.invalidate()
	s.logger.Info("simulated LED ready")
	return nil
}

// SetChannelIntensity implements playback.Sink.
func (s *Sim) SetChannelIntensity(ch led.Channel, v uint8) {
	s.frame.set(ch, v)
}

// Present implements playback.Presenter.
func (s *Sim) Present() {
	s.frames++
	if !s.frame.pending() {
		return
	}
	s.changes++
	s.frame.markSent()
	s.logger.Debug("color", "color", s.frame.color)
}

// Teardown implements rgbwave.Device.
func (s *Sim) Teardown() error {
	s.logger.Info(
		"simulated LED off",
		"frames", s.frames,
		"changes", s.changes)
	return nil
}

// Color returns the last presented color.
func (s *Sim) Color() led.RGBColor { return s.frame.sent }

// Frames returns the number of frames presented.
func (s *Sim) Frames() int { return s.frames }

// Changes returns the number of presented frames that changed the color.
func (s *Sim) Changes() int { return s.changes }
