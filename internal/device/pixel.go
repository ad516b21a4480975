package device

import (
	"log/slog"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/nrzled"

	"libdb.so/rgbwave/led"
	"libdb.so/rgbwave/playback"
)

// DefaultPixelFrequency is the SPI clock used to emulate the NRZ protocol.
const DefaultPixelFrequency = 2500 * physic.KiloHertz

// Pixel drives a single WS2812 style addressable LED over SPI.
type Pixel struct {
	port   spi.PortCloser
	freq   physic.Frequency
	logger *slog.Logger

	dev      *nrzled.Dev
	frame    frame
	failures int
}

var _ playback.Presenter = (*Pixel)(nil)

// NewPixel creates a pixel device on the given port. The port is closed by
// Teardown.
func NewPixel(port spi.PortCloser, freq physic.Frequency, logger *slog.Logger) *Pixel {
	if freq == 0 {
		freq = DefaultPixelFrequency
	}
	return &Pixel{
		port:   port,
		freq:   freq,
		logger: logger,
	}
}

// Setup connects to the pixel and turns it off.
func (p *Pixel) Setup() error {
	dev, err := nrzled.NewSPI(p.port, &nrzled.Opts{
		NumPixels: 1,
		Channels:  3,
		Freq:      p.freq,
	})
	if err != nil {
		return errors.Wrap(err, "failed to connect to pixel")
	}
	p.dev = dev

	p.frame = frame{}
	p.frame.invalidate()
	p.Present()

	p.logger.Info("pixel ready", "device", dev, "frequency", p.freq)
	return nil
}

// SetChannelIntensity implements playback.Sink.
func (p *Pixel) SetChannelIntensity(ch led.Channel, v uint8) {
	p.frame.set(ch, v)
}

// Present writes the color if it changed.
func (p *Pixel) Present() {
	if !p.frame.pending() {
		return
	}

	c := p.frame.color
	if _, err := p.dev.Write(c[:]); err != nil {
		p.failures++
		p.logger.Warn(
			"failed to write pixel",
			"failures", p.failures,
			"error", err)
		return
	}

	p.frame.markSent()
}

// Failures returns the number of frames that could not be written.
func (p *Pixel) Failures() int { return p.failures }

// Teardown turns the pixel off and closes the port.
func (p *Pixel) Teardown() error {
	if p.dev != nil {
		if err := p.dev.Halt(); err != nil {
			p.port.Close()
			return errors.Wrap(err, "failed to turn off pixel")
		}
		p.dev = nil
	}
	return errors.Wrap(p.port.Close(), "failed to close SPI port")
}
