package device

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"

	"libdb.so/rgbwave/led"
	"libdb.so/rgbwave/ledserial"
	"libdb.so/rgbwave/playback"
)

// PortOpener opens the connection to the firmware.
type PortOpener func() (io.ReadWriteCloser, error)

// SerialPort returns a PortOpener for the serial device at path.
func SerialPort(path string, baud int) PortOpener {
	return func() (io.ReadWriteCloser, error) {
		port, err := serial.Open(path, &serial.Mode{BaudRate: baud})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open serial port %s", path)
		}
		if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
			port.Close()
			return nil, errors.Wrap(err, "failed to reset read timeout")
		}
		return port, nil
	}
}

// Serial drives the LED of a microcontroller running the ledserial firmware.
// A frame is only sent when its color changed.
type Serial struct {
	open   PortOpener
	logger *slog.Logger

	port   io.ReadWriteCloser
	errg   *errgroup.Group
	cancel context.CancelFunc

	frame    frame
	failures int
}

var _ playback.Presenter = (*Serial)(nil)

// NewSerial creates a serial device. The port is opened by Setup.
func NewSerial(open PortOpener, logger *slog.Logger) *Serial {
	return &Serial{
		open:   open,
		logger: logger,
	}
}

// Setup opens the port, starts reading packets from the firmware and
// initializes a single LED.
func (s *Serial) Setup() error {
	port, err := s.open()
	if err != nil {
		return err
	}
	s.port = port

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error { return s.readPackets(ctx) })
	s.errg = errg

	if err := s.writePacket(ledserial.InitializePacket{NumLEDs: 1}); err != nil {
		s.stop()
		return errors.Wrap(err, "failed to initialize LED")
	}

	s.frame = frame{}
	s.frame.invalidate()
	return nil
}

// SetChannelIntensity implements playback.Sink.
func (s *Serial) SetChannelIntensity(ch led.Channel, v uint8) {
	s.frame.set(ch, v)
}

// Present sends the current color if it changed.
func (s *Serial) Present() {
	if !s.frame.pending() {
		return
	}

	if err := s.writePacket(ledserial.NewSetPacket(s.frame.color)); err != nil {
		s.failures++
		s.logger.Warn(
			"failed to write packet",
			"packet", ledserial.TypeSetPacket,
			"failures", s.failures,
			"error", err)
		return
	}

	s.frame.markSent()
}

// Failures returns the number of frames that could not be sent.
func (s *Serial) Failures() int { return s.failures }

// Teardown clears the LED and closes the port.
func (s *Serial) Teardown() error {
	if s.port == nil {
		return nil
	}

	if err := s.writePacket(ledserial.ClearPacket{}); err != nil {
		s.logger.Warn(
			"failed to write packet",
			"packet", ledserial.TypeClearPacket,
			"error", err)
	}

	return s.stop()
}

func (s *Serial) stop() error {
	s.cancel()
	s.logger.Debug("closing serial port")

	closeErr := s.port.Close()
	readErr := s.errg.Wait()
	s.port = nil

	if readErr != nil {
		return readErr
	}
	return errors.Wrap(closeErr, "failed to close serial port")
}

func (s *Serial) writePacket(p ledserial.IncomingPacket) error {
	return ledserial.WriteIncomingPacket(s.port, p)
}

func (s *Serial) readPackets(ctx context.Context) error {
	for {
		p, err := ledserial.ReadOutgoingPacket(s.port)
		if err != nil {
			if ctx.Err() != nil {
				// The port was closed under us by Teardown.
				return nil
			}
			return errors.Wrap(err, "failed to read packet")
		}

		switch p := p.(type) {
		case ledserial.AckPacket:
			s.logger.Debug(
				"received ack packet from controller",
				"acked_for", p.IncomingPacketType)

		case ledserial.LogPacket:
			s.logger.Info(
				"received log packet from controller",
				"message", p.Message)

		case ledserial.ErrorPacket:
			s.logger.Warn(
				"received error packet from controller",
				"message", p.Message)

		case ledserial.PanicPacket:
			s.logger.Error("controller unrecoverably panicked")
			return errors.New("controller panicked")
		}
	}
}
