// Package neopixel drives a WS281x strip that mirrors button events.
package neopixel

import (
	log "github.com/sirupsen/logrus"
	"time"
)

const (
	DefaultBrightness = 90
	DefaultLedCount   = 8
)

type Config struct {
	LedCount   int
	Brightness int
}

func (c Config) withDefaults() Config {
	if c.LedCount <= 0 {
		c.LedCount = DefaultLedCount
	}
	if c.Brightness <= 0 || c.Brightness > 255 {
		c.Brightness = DefaultBrightness
	}
	return c
}

type wsEngine interface {
	Init() error
	Render() error
	Wait() error
	Fini()
	Leds(channel int) []uint32
}

type LedController struct {
	ws          wsEngine
	interruptor Queue

	// blink timing
	on  time.Duration
	off time.Duration
}

func newController(ws wsEngine) *LedController {
	return &LedController{
		ws:  ws,
		on:  150 * time.Millisecond,
		off: 100 * time.Millisecond,
	}
}

func (l *LedController) setColor(color uint32) error {
	leds := l.ws.Leds(0)
	for i := range leds {
		leds[i] = color
	}
	return l.ws.Render()
}

func (l *LedController) clear() error {
	return l.setColor(0)
}

// Close interrupts any running animation, turns the strip off and releases it.
func (l *LedController) Close() {
	done := l.interruptor.Queue()
	defer done()

	if err := l.clear(); err != nil {
		log.Warn("Unable to clear LEDs: ", err)
	}
	l.ws.Fini()
}

// Get the same color, but with a lower or equal brightness, on a scale from 0-100, where 100 is the same as the input.
func withBrightness(color, light uint32) uint32 {
	if light >= 100 {
		return color
	}
	if light == 0 {
		return 0
	}

	r, g, b := (color>>16)&0xff, (color>>8)&0xff, color&0xff

	red := r * light / 100
	green := g * light / 100
	blue := b * light / 100

	return (red << 16) | (green << 8) | blue
}
