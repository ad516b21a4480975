// Package led describes the colour of a single tri-colour LED.
package led

import (
	"encoding"
	"encoding/hex"
	"fmt"
	"strings"
)

// Channel is one of the three colour components of an LED.
type Channel uint8

const (
	Red Channel = iota
	Green
	Blue
)

// Channels lists every channel in output order.
var Channels = [3]Channel{Red, Green, Blue}

// String returns the lowercase name of the channel.
func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("Channel(%d)", c)
	}
}

// RGBColor is the intensity of each channel, indexed by Channel.
type RGBColor [3]uint8

var (
	_ encoding.TextUnmarshaler = (*RGBColor)(nil)
	_ encoding.TextMarshaler   = RGBColor{}
)

// RGB creates a color from its components.
func RGB(r, g, b uint8) RGBColor {
	return RGBColor{r, g, b}
}

// Black is every channel off.
var Black = RGBColor{}

// Get returns the intensity of the given channel.
func (c RGBColor) Get(ch Channel) uint8 { return c[ch] }

// R returns the red intensity.
func (c RGBColor) R() uint8 { return c[Red] }

// G returns the green intensity.
func (c RGBColor) G() uint8 { return c[Green] }

// B returns the blue intensity.
func (c RGBColor) B() uint8 { return c[Blue] }

// Invert returns the color with every channel mirrored around 255. Common
// anode LEDs light up when their pin is driven low, so their duty cycle is the
// inverse of the intended brightness.
func (c RGBColor) Invert() RGBColor {
	return RGBColor{255 - c[0], 255 - c[1], 255 - c[2]}
}

// String formats the color as #rrggbb.
func (c RGBColor) String() string {
	return "#" + hex.EncodeToString(c[:])
}

// MarshalText implements encoding.TextMarshaler.
func (c RGBColor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseRGBColor.
func (c *RGBColor) UnmarshalText(text []byte) error {
	v, err := ParseRGBColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseRGBColor parses a color written as "#rrggbb" or "rrggbb".
func ParseRGBColor(s string) (RGBColor, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGBColor{}, fmt.Errorf("invalid color %q: want 6 hex digits", s)
	}

	var c RGBColor
	if _, err := hex.Decode(c[:], []byte(s)); err != nil {
		return RGBColor{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}
