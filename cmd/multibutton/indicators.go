package main

import (
	"errors"
	"fmt"
	"github.com/callebjorkell/multibutton/internal/lcd"
	"github.com/callebjorkell/multibutton/internal/neopixel"
	"github.com/callebjorkell/multibutton/internal/publish"
	log "github.com/sirupsen/logrus"
)

const longPressColor = 0xff8000

type ledIndicator interface {
	Blink(color uint32, n int) error
	Flash(color uint32) error
	Fade(color uint32) error
}

// animate runs an LED animation, logging failures other than being cut short
// by a newer animation.
func animate(name string, fn func() error) {
	if err := fn(); err != nil && !errors.Is(err, neopixel.ErrInterrupted) {
		log.Warnf("LED %v failed: %v", name, err)
	}
}

// ledSink blinks once per click of a sequence and flashes on long presses.
// Animations run in the background, a newer one interrupts the older.
func ledSink(led ledIndicator, color uint32) publish.Sink {
	return publish.FuncSink{
		SinkName: "led",
		Fn: func(m publish.Message) error {
			switch m.Event {
			case "sequence":
				go animate("blink", func() error {
					return led.Blink(color, m.Clicks)
				})
			case "long-press":
				go animate("flash", func() error {
					return led.Flash(longPressColor)
				})
			}
			return nil
		},
	}
}

func lcdSink() publish.Sink {
	return publish.FuncSink{
		SinkName: "lcd",
		Fn: func(m publish.Message) error {
			switch m.Event {
			case "press":
				lcd.Clear()
			case "sequence":
				lcd.Print(m.Button, fmt.Sprintf("%d click", m.Clicks))
			case "long-press":
				lcd.Print(m.Button, fmt.Sprintf("held %dms", m.DurationMs))
			}
			return nil
		},
	}
}

// openSinks opens the configured outputs. The returned function turns the
// indicators off again.
func openSinks(conf *Config) ([]publish.Sink, func(), error) {
	var sinks []publish.Sink
	closers := []func(){}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) ([]publish.Sink, func(), error) {
		for _, s := range sinks {
			if err := s.Close(); err != nil {
				log.Warnf("Unable to close %v: %v", s.Name(), err)
			}
		}
		closeAll()
		return nil, nil, err
	}

	if conf.MQTT != nil {
		format, _ := publish.ParseFormat(conf.MQTT.Format)
		s, err := publish.NewMQTTSink(publish.MQTTConfig{
			Broker:   conf.MQTT.Broker,
			Topic:    conf.MQTT.Topic,
			ClientID: conf.MQTT.ClientID,
			Format:   format,
		})
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}

	if conf.Serial != nil {
		format, _ := publish.ParseFormat(conf.Serial.Format)
		s, err := publish.NewSerialSink(publish.SerialConfig{
			Port:   conf.Serial.Port,
			Baud:   conf.Serial.Baud,
			Format: format,
		})
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}

	if len(sinks) == 0 {
		log.Info("No broker or serial port configured, logging events")
		sinks = append(sinks, publish.LogSink{Format: publish.FormatJSON})
	}

	if conf.Indicator.LED {
		led, err := neopixel.NewLedController(conf.LedConfig())
		if err != nil {
			return fail(err)
		}
		closers = append(closers, led.Close)
		sinks = append(sinks, ledSink(led, conf.Indicator.Color))

		// fade in and out once to show the strip is up
		go animate("fade", func() error {
			return led.Fade(conf.Indicator.Color)
		})
	}

	if conf.Indicator.LCD {
		if err := lcd.InitLCD(); err != nil {
			return fail(err)
		}
		lcd.Reset()
		closers = append(closers, func() {
			lcd.Print("  Sleeping...", "")
		})
		sinks = append(sinks, lcdSink())
	}

	return sinks, closeAll, nil
}
