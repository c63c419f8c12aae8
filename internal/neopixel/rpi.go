//go:build pi

package neopixel

import (
	"fmt"
	ws "github.com/rpi-ws281x/rpi-ws281x-go"
	log "github.com/sirupsen/logrus"
)

func NewLedController(c Config) (*LedController, error) {
	c = c.withDefaults()
	opt := ws.DefaultOptions
	opt.Channels[0].Brightness = c.Brightness
	opt.Channels[0].LedCount = c.LedCount

	dev, err := ws.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("create led strip: %w", err)
	}
	err = dev.Init()
	if err != nil {
		return nil, fmt.Errorf("init led strip: %w", err)
	}

	log.Infof("Initialized LED strip with %d LEDs", c.LedCount)
	return newController(dev), nil
}
