package rgbwave

import (
	"encoding"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"libdb.so/rgbwave/clock"
	"libdb.so/rgbwave/led"
	"libdb.so/rgbwave/sequence"
)

// DeviceKind selects the output an rgbwave runner drives.
type DeviceKind string

const (
	// SimDevice logs colors instead of driving hardware.
	SimDevice DeviceKind = "sim"
	// SerialDevice drives a microcontroller running the ledserial firmware.
	SerialDevice DeviceKind = "serial"
	// PWMDevice drives a tri-colour LED from three PWM pins of the host.
	PWMDevice DeviceKind = "pwm"
	// PixelDevice drives a single addressable LED over SPI.
	PixelDevice DeviceKind = "pixel"
)

const (
	// DefaultPasses is the number of times the table is played before the
	// device is shut down.
	DefaultPasses = 360
	// DefaultSettle is how long the last color is kept before shutdown.
	DefaultSettle = 100 * time.Millisecond
	// DefaultBaud is the default serial baud rate.
	DefaultBaud = 115200
)

// Config is the configuration for rgbwave.
type Config struct {
	// Device is the output to drive. It defaults to sim.
	Device DeviceKind `toml:"device" yaml:"device"`
	// Passes is the number of passes over the table. It defaults to 360.
	Passes int `toml:"passes" yaml:"passes"`
	// Loop plays the table forever, ignoring Passes.
	Loop bool `toml:"loop" yaml:"loop"`
	// Tick is the length of one tick. It defaults to clock.MeasuredTick.
	Tick Duration `toml:"tick" yaml:"tick"`
	// Settle is how long the LED is left on its last color before teardown.
	// Zero means DefaultSettle.
	Settle Duration `toml:"settle" yaml:"settle"`
	// Invert mirrors every intensity for common anode LEDs.
	Invert bool `toml:"invert" yaml:"invert"`

	Serial SerialConfig `toml:"serial" yaml:"serial"`
	PWM    PWMConfig    `toml:"pwm" yaml:"pwm"`
	Pixel  PixelConfig  `toml:"pixel" yaml:"pixel"`

	// Keyframes replaces the built-in reference table when set. The sentinel
	// is appended automatically.
	Keyframes []KeyframeConfig `toml:"keyframe" yaml:"keyframes"`
}

// SerialConfig configures the serial device.
type SerialConfig struct {
	// Device is the path to the serial port, usually /dev/ttyACM0.
	Device string `toml:"device" yaml:"device"`
	// Baud is the baud rate of the port.
	Baud int `toml:"baud" yaml:"baud"`
}

// PWMConfig configures the PWM device. Pins are periph pin names such as
// GPIO12.
type PWMConfig struct {
	Red   string `toml:"red" yaml:"red"`
	Green string `toml:"green" yaml:"green"`
	Blue  string `toml:"blue" yaml:"blue"`
	// Frequency is the PWM frequency in Hz. It defaults to 122.
	Frequency int `toml:"frequency" yaml:"frequency"`
}

// PixelConfig configures the pixel device.
type PixelConfig struct {
	// Port is the SPI port name. Empty selects the first port.
	Port string `toml:"port" yaml:"port"`
	// Frequency is the SPI clock in Hz. It defaults to 2.5 MHz.
	Frequency int `toml:"frequency" yaml:"frequency"`
}

// KeyframeConfig is one keyframe of a configured table.
type KeyframeConfig struct {
	Fade  int          `toml:"fade" yaml:"fade"`
	Hold  int          `toml:"hold" yaml:"hold"`
	Color led.RGBColor `toml:"color" yaml:"color"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func (c *Config) setDefaults() {
	if c.Device == "" {
		c.Device = SimDevice
	}
	if c.Passes == 0 {
		c.Passes = DefaultPasses
	}
	if c.Tick == 0 {
		c.Tick = Duration(clock.MeasuredTick)
	}
	if c.Settle == 0 {
		c.Settle = Duration(DefaultSettle)
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = DefaultBaud
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Passes < 0 {
		return fmt.Errorf("invalid number of passes %d", c.Passes)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("invalid tick %s", c.Tick)
	}
	if c.Settle < 0 {
		return fmt.Errorf("invalid settle delay %s", c.Settle)
	}

	switch c.Device {
	case SimDevice:
	case SerialDevice:
		if c.Serial.Device == "" {
			return errors.New("serial device path is not configured")
		}
		if c.Serial.Baud <= 0 {
			return fmt.Errorf("invalid baud rate %d", c.Serial.Baud)
		}
	case PWMDevice:
		pins := map[string]bool{}
		for _, pin := range []string{c.PWM.Red, c.PWM.Green, c.PWM.Blue} {
			if pin == "" {
				return errors.New("pwm needs a red, green and blue pin")
			}
			if pins[pin] {
				return fmt.Errorf("pwm pin %s is used twice", pin)
			}
			pins[pin] = true
		}
		if c.PWM.Frequency < 0 {
			return fmt.Errorf("invalid pwm frequency %d", c.PWM.Frequency)
		}
	case PixelDevice:
		if c.Pixel.Frequency < 0 {
			return fmt.Errorf("invalid pixel frequency %d", c.Pixel.Frequency)
		}
	default:
		return fmt.Errorf("unknown device %q", c.Device)
	}

	if _, err := c.Table(); err != nil {
		return errors.Wrap(err, "invalid light table")
	}
	return nil
}

// Table returns the light table to play.
func (c *Config) Table() (*sequence.Table, error) {
	if len(c.Keyframes) == 0 {
		return sequence.Reference, nil
	}

	frames := make([]sequence.Keyframe, 0, len(c.Keyframes)+1)
	for _, k := range c.Keyframes {
		frames = append(frames, sequence.Keyframe{
			Fade:  k.Fade,
			Hold:  k.Hold,
			Color: k.Color,
		})
	}
	frames = append(frames, sequence.Keyframe{})

	return sequence.New(frames...)
}

// SettleTicks returns the settle delay in whole ticks.
func (c *Config) SettleTicks() int {
	return int(time.Duration(c.Settle) / time.Duration(c.Tick))
}

// Duration is a duration that can be parsed from TOML and YAML as a string
// such as "550us".
type Duration time.Duration

var (
	_ encoding.TextUnmarshaler = (*Duration)(nil)
	_ encoding.TextMarshaler   = Duration(0)
)

func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) String() string { return time.Duration(d).String() }

// ParseConfig parses a TOML configuration from a reader and fills in
// defaults.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, err
	}
	config.setDefaults()
	return &config, nil
}

// ParseYAMLConfig parses a YAML configuration from a reader and fills in
// defaults.
func ParseYAMLConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := yaml.NewDecoder(r).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	config.setDefaults()
	return &config, nil
}

// ReadConfigFile reads a configuration file. Files ending in .yaml or .yml
// are parsed as YAML, everything else as TOML.
func ReadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config file")
	}
	defer f.Close()

	parse := ParseConfig
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		parse = ParseYAMLConfig
	}

	cfg, err := parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return cfg, nil
}
