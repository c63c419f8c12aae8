//go:build !pi

package neopixel

import (
	log "github.com/sirupsen/logrus"
)

type mockEngine struct {
	colors []uint32
}

func (d *mockEngine) Init() error {
	return nil
}

func (d *mockEngine) Render() error {
	log.Tracef("neopixel: render %06x", d.colors)
	return nil
}

func (d *mockEngine) Wait() error {
	return nil
}

func (d *mockEngine) Fini() {
	log.Debug("neopixel: fini")
}

func (d *mockEngine) Leds(_ int) []uint32 {
	return d.colors
}

func NewLedController(c Config) (*LedController, error) {
	c = c.withDefaults()
	log.Infof("Using mock LED strip with %d LEDs", c.LedCount)
	return newController(&mockEngine{
		colors: make([]uint32, c.LedCount),
	}), nil
}
