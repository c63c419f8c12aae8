package main

import (
	"fmt"
	"github.com/callebjorkell/multibutton/internal/button"
	"github.com/callebjorkell/multibutton/internal/neopixel"
	"github.com/callebjorkell/multibutton/internal/pin"
	"github.com/callebjorkell/multibutton/internal/publish"
	"gopkg.in/yaml.v3"
	"os"
	"strings"
	"time"
)

const defaultColor = 0x00ff00

type ButtonConfig struct {
	Name        string          `yaml:"name"`
	Inverted    bool            `yaml:"inverted"`
	Pull        pin.Pull        `yaml:"pull"`
	Debounce    time.Duration   `yaml:"debounce"`
	SequenceGap time.Duration   `yaml:"sequenceGap"`
	Sequences   []int           `yaml:"sequences"`
	LongPresses []time.Duration `yaml:"longPresses"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"clientId"`
	Format   string `yaml:"format"`
}

type SerialConfig struct {
	Port   string `yaml:"port"`
	Baud   int    `yaml:"baud"`
	Format string `yaml:"format"`
}

type Config struct {
	Backend   string         `yaml:"backend"`
	Chip      string         `yaml:"chip"`
	Buttons   []ButtonConfig `yaml:"buttons"`
	MQTT      *MQTTConfig    `yaml:"mqtt"`
	Serial    *SerialConfig  `yaml:"serial"`
	Indicator struct {
		LED        bool   `yaml:"led"`
		LedCount   int    `yaml:"ledCount"`
		Brightness int    `yaml:"brightness"`
		LCD        bool   `yaml:"lcd"`
		Color      uint32 `yaml:"color"`
	} `yaml:"indicator"`
	QueueSize int `yaml:"queueSize"`
}

func readConfig(file string) (*Config, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parseConfig(content)
}

func parseConfig(content []byte) (*Config, error) {
	c := &Config{}
	err := yaml.Unmarshal(content, c)
	if err != nil {
		return nil, err
	}

	switch c.Backend {
	case "":
		c.Backend = pin.BackendSim
	case pin.BackendSim, pin.BackendPeriph, pin.BackendCdev:
	default:
		return nil, fmt.Errorf("%w: %q", pin.ErrUnknownBackend, c.Backend)
	}

	if len(c.Buttons) == 0 {
		return nil, fmt.Errorf("at least one button must be configured")
	}
	names := make(map[string]bool)
	for i := range c.Buttons {
		if err := c.Buttons[i].validate(i); err != nil {
			return nil, err
		}
		if names[c.Buttons[i].Name] {
			return nil, fmt.Errorf("button %v is configured more than once", c.Buttons[i].Name)
		}
		names[c.Buttons[i].Name] = true
	}

	if c.MQTT != nil {
		if c.MQTT.Broker == "" {
			return nil, fmt.Errorf("mqtt broker is missing")
		}
		if _, err := publish.ParseFormat(c.MQTT.Format); err != nil {
			return nil, fmt.Errorf("mqtt: %w", err)
		}
	}
	if c.Serial != nil {
		if c.Serial.Port == "" {
			return nil, fmt.Errorf("serial port is missing")
		}
		if _, err := publish.ParseFormat(c.Serial.Format); err != nil {
			return nil, fmt.Errorf("serial: %w", err)
		}
	}

	if c.Indicator.Color == 0 {
		c.Indicator.Color = defaultColor
	}
	if c.QueueSize <= 0 {
		c.QueueSize = publish.DefaultQueueSize
	}

	return c, nil
}

func (b *ButtonConfig) validate(i int) error {
	if len(b.Name) < 1 {
		return fmt.Errorf("name of button must be specified for entry %d", i)
	}
	switch b.Pull {
	case "":
		b.Pull = pin.PullUp
	case pin.PullUp, pin.PullDown, pin.PullNone:
	default:
		return fmt.Errorf("button %v: unknown pull %q", b.Name, b.Pull)
	}
	if b.Debounce < 0 || b.SequenceGap < 0 {
		return fmt.Errorf("button %v: debounce and sequence gap cannot be negative", b.Name)
	}
	if b.Debounce == 0 {
		b.Debounce = button.DefaultDebounce
	}
	if b.SequenceGap == 0 {
		b.SequenceGap = button.DefaultSequenceGap
	}
	if len(b.Sequences) == 0 {
		b.Sequences = []int{1}
	}
	for _, n := range b.Sequences {
		if n < 1 {
			return fmt.Errorf("button %v: sequences need at least one click, got %d", b.Name, n)
		}
	}
	for _, d := range b.LongPresses {
		if d <= 0 {
			return fmt.Errorf("button %v: long press duration must be positive, got %v", b.Name, d)
		}
	}
	return nil
}

func (c Config) PinConfig(b ButtonConfig) pin.Config {
	return pin.Config{
		Backend: c.Backend,
		Chip:    c.Chip,
		Name:    b.Name,
		Pull:    b.Pull,
	}
}

func (c Config) LedConfig() neopixel.Config {
	return neopixel.Config{
		LedCount:   c.Indicator.LedCount,
		Brightness: c.Indicator.Brightness,
	}
}

func (b ButtonConfig) RegistryConfig() button.Config {
	return button.Config{
		Inverted:    b.Inverted,
		Debounce:    b.Debounce,
		SequenceGap: b.SequenceGap,
	}
}

func (c Config) Summary() string {
	s := &strings.Builder{}
	fmt.Fprintf(s, "backend: %v\n", c.Backend)
	for _, b := range c.Buttons {
		fmt.Fprintf(s, "button %v: pull %v, inverted %v, debounce %v, gap %v, sequences %v, long presses %v\n",
			b.Name, b.Pull, b.Inverted, b.Debounce, b.SequenceGap, b.Sequences, b.LongPresses)
	}
	if c.MQTT != nil {
		fmt.Fprintf(s, "mqtt: %v\n", c.MQTT.Broker)
	}
	if c.Serial != nil {
		fmt.Fprintf(s, "serial: %v\n", c.Serial.Port)
	}
	fmt.Fprintf(s, "led: %v, lcd: %v\n", c.Indicator.LED, c.Indicator.LCD)
	return s.String()
}
