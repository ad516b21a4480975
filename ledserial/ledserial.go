// Package ledserial implements the LED serial protocol spoken between the
// host and the rgbwave firmware.
//
// Every packet is a type byte, a type-specific payload and the little-endian
// CRC32 (IEEE) of the type byte and payload. Incoming packets travel from the
// host to the device; outgoing packets travel from the device to the host.
package ledserial

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"libdb.so/rgbwave/led"
)

// Endianness defines the endianness of the protocol.
var Endianness = binary.LittleEndian

// MaxMessageLength is the longest message an error or log packet may carry.
const MaxMessageLength = 1024

// IncomingPacketType is a type of packet sent to the device.
type IncomingPacketType uint8

const (
	TypeInitializePacket IncomingPacketType = iota
	TypeClearPacket
	TypeSetPacket
)

// String returns a string representation of the packet type.
func (t IncomingPacketType) String() string {
	switch t {
	case TypeInitializePacket:
		return "initialize"
	case TypeClearPacket:
		return "clear"
	case TypeSetPacket:
		return "set"
	default:
		return fmt.Sprintf("IncomingPacketType(%d)", t)
	}
}

// IncomingPacket is a packet sent to the device.
type IncomingPacket interface {
	// Type returns the type of packet.
	Type() IncomingPacketType
}

// InitializePacket tells the device how many LEDs it drives.
type InitializePacket struct {
	NumLEDs uint16
}

// ClearPacket turns every LED off.
type ClearPacket struct{}

// SetPacket sets every LED. Pix holds 3 bytes per LED in red, green, blue
// order.
type SetPacket struct {
	Pix []uint8
}

// NewSetPacket creates a SetPacket from colors.
func NewSetPacket(colors ...led.RGBColor) SetPacket {
	pix := make([]uint8, 0, 3*len(colors))
	for _, c := range colors {
		pix = append(pix, c[:]...)
	}
	return SetPacket{Pix: pix}
}

// Color returns the color of LED i.
func (p SetPacket) Color(i int) led.RGBColor {
	var c led.RGBColor
	copy(c[:], p.Pix[3*i:])
	return c
}

func (p InitializePacket) Type() IncomingPacketType { return TypeInitializePacket }
func (p ClearPacket) Type() IncomingPacketType      { return TypeClearPacket }
func (p SetPacket) Type() IncomingPacketType        { return TypeSetPacket }

// OutgoingPacketType is a type of packet sent by the device.
type OutgoingPacketType uint8

const (
	TypeErrorPacket OutgoingPacketType = iota
	TypePanicPacket
	TypeLogPacket
	TypeAckPacket
)

// String returns a string representation of the packet type.
func (t OutgoingPacketType) String() string {
	switch t {
	case TypeErrorPacket:
		return "error"
	case TypePanicPacket:
		return "panic"
	case TypeLogPacket:
		return "log"
	case TypeAckPacket:
		return "ack"
	default:
		return fmt.Sprintf("OutgoingPacketType(%d)", t)
	}
}

// OutgoingPacket is a packet sent by the device.
type OutgoingPacket interface {
	// Type returns the type of packet.
	Type() OutgoingPacketType
}

// ErrorPacket is a packet that indicates an error occurred.
type ErrorPacket struct {
	Message string
}

// PanicPacket is a packet that indicates the device cannot recover.
type PanicPacket struct{}

// LogPacket is a packet that contains a log message.
type LogPacket struct {
	Message string
}

// AckPacket acknowledges that an incoming packet was handled.
type AckPacket struct {
	IncomingPacketType IncomingPacketType
}

func (p ErrorPacket) Type() OutgoingPacketType { return TypeErrorPacket }
func (p PanicPacket) Type() OutgoingPacketType { return TypePanicPacket }
func (p LogPacket) Type() OutgoingPacketType   { return TypeLogPacket }
func (p AckPacket) Type() OutgoingPacketType   { return TypeAckPacket }

// ReadContext is the state of the device required to read incoming packets.
type ReadContext struct {
	// NumLEDs is the number of LEDs set by the last InitializePacket.
	NumLEDs uint16
}

// ReadIncomingPacket reads an incoming packet from the given reader.
func ReadIncomingPacket(r io.Reader, context ReadContext) (IncomingPacket, error) {
	hash := crc32.NewIEEE()
	r = io.TeeReader(r, hash)

	var ptypeBuf [1]byte
	if _, err := io.ReadFull(r, ptypeBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read incoming packet type: %w", err)
	}

	var packet IncomingPacket
	switch ptype := IncomingPacketType(ptypeBuf[0]); ptype {
	case TypeInitializePacket:
		var p InitializePacket
		if err := binary.Read(r, Endianness, &p.NumLEDs); err != nil {
			return nil, fmt.Errorf("failed to read number of LEDs: %w", err)
		}
		packet = p

	case TypeClearPacket:
		packet = ClearPacket{}

	case TypeSetPacket:
		p := SetPacket{Pix: make([]uint8, 3*int(context.NumLEDs))}
		if _, err := io.ReadFull(r, p.Pix); err != nil {
			return nil, fmt.Errorf("failed to read pixel data: %w", err)
		}
		packet = p

	default:
		return nil, fmt.Errorf("unknown packet type: %s", ptype)
	}

	if err := verifyChecksum(r, hash.Sum32()); err != nil {
		return nil, err
	}
	return packet, nil
}

// WriteIncomingPacket writes an incoming packet to the given writer. The
// packet is written with a single Write call.
func WriteIncomingPacket(w io.Writer, p IncomingPacket) error {
	var buf bytes.Buffer
	buf.WriteByte(byte(p.Type()))

	switch p := p.(type) {
	case InitializePacket:
		binary.Write(&buf, Endianness, p.NumLEDs)
	case ClearPacket:
	case SetPacket:
		buf.Write(p.Pix)
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	return writeWithChecksum(w, &buf)
}

// ReadOutgoingPacket reads an outgoing packet from the given reader.
func ReadOutgoingPacket(r io.Reader) (OutgoingPacket, error) {
	hash := crc32.NewIEEE()
	r = io.TeeReader(r, hash)

	var ptypeBuf [1]byte
	if _, err := io.ReadFull(r, ptypeBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read outgoing packet type: %w", err)
	}

	var packet OutgoingPacket
	switch ptype := OutgoingPacketType(ptypeBuf[0]); ptype {
	case TypeErrorPacket:
		msg, err := readMessage(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read error message: %w", err)
		}
		packet = ErrorPacket{Message: msg}

	case TypePanicPacket:
		packet = PanicPacket{}

	case TypeLogPacket:
		msg, err := readMessage(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read log message: %w", err)
		}
		packet = LogPacket{Message: msg}

	case TypeAckPacket:
		var acked [1]byte
		if _, err := io.ReadFull(r, acked[:]); err != nil {
			return nil, fmt.Errorf("failed to read acked packet type: %w", err)
		}
		packet = AckPacket{IncomingPacketType: IncomingPacketType(acked[0])}

	default:
		return nil, fmt.Errorf("unknown packet type: %s", ptype)
	}

	if err := verifyChecksum(r, hash.Sum32()); err != nil {
		return nil, err
	}
	return packet, nil
}

// WriteOutgoingPacket writes an outgoing packet to the given writer. The
// packet is written with a single Write call.
func WriteOutgoingPacket(w io.Writer, p OutgoingPacket) error {
	var buf bytes.Buffer
	buf.WriteByte(byte(p.Type()))

	switch p := p.(type) {
	case ErrorPacket:
		writeMessage(&buf, p.Message)
	case PanicPacket:
	case LogPacket:
		writeMessage(&buf, p.Message)
	case AckPacket:
		buf.WriteByte(byte(p.IncomingPacketType))
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	return writeWithChecksum(w, &buf)
}

func readMessage(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, Endianness, &length); err != nil {
		return "", fmt.Errorf("failed to read length: %w", err)
	}
	if length > MaxMessageLength {
		return "", fmt.Errorf("message length %d exceeds %d", length, MaxMessageLength)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeMessage(buf *bytes.Buffer, msg string) {
	if len(msg) > MaxMessageLength {
		msg = msg[:MaxMessageLength]
	}
	binary.Write(buf, Endianness, uint16(len(msg)))
	buf.WriteString(msg)
}

// verifyChecksum reads the trailing checksum. want must be computed before the
// checksum itself passes through the hashing reader.
func verifyChecksum(r io.Reader, want uint32) error {
	var checksum uint32
	if err := binary.Read(r, Endianness, &checksum); err != nil {
		return fmt.Errorf("failed to read packet checksum: %w", err)
	}
	if checksum != want {
		return fmt.Errorf("packet checksum mismatch")
	}
	return nil
}

func writeWithChecksum(w io.Writer, buf *bytes.Buffer) error {
	binary.Write(buf, Endianness, crc32.ChecksumIEEE(buf.Bytes()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write packet: %w", err)
	}
	return nil
}
