package neopixel

import (
	"errors"
	log "github.com/sirupsen/logrus"
	"time"
)

var ErrInterrupted = errors.New("animation was interrupted")

// Flash shows the color in one long and two short pulses.
func (l *LedController) Flash(color uint32) error {
	done := l.interruptor.Queue()
	defer done()
	defer l.clear()

	log.Debugf("Flashing color %06x", color)
	pulses := []time.Duration{2 * l.on, l.on / 2, l.on / 2}
	for _, d := range pulses {
		if l.interruptor.IsInterrupted() {
			return ErrInterrupted
		}
		if err := l.setColor(color); err != nil {
			return err
		}
		<-time.After(d)
		if err := l.clear(); err != nil {
			return err
		}
		<-time.After(l.off / 2)
	}
	return nil
}

// Blink shows the color n times. A newer animation stops it between blinks.
func (l *LedController) Blink(color uint32, n int) error {
	done := l.interruptor.Queue()
	defer done()
	defer l.clear()

	log.Debugf("Blinking color %06x %d times", color, n)
	for i := 0; i < n; i++ {
		if l.interruptor.IsInterrupted() {
			return ErrInterrupted
		}
		if err := l.setColor(color); err != nil {
			return err
		}
		<-time.After(l.on)
		if err := l.clear(); err != nil {
			return err
		}
		<-time.After(l.off)
	}
	return nil
}

// Fade ramps the color up and back down again.
func (l *LedController) Fade(color uint32) error {
	done := l.interruptor.Queue()
	defer done()
	defer l.clear()

	step := l.on / 50
	if step <= 0 {
		step = time.Microsecond
	}
	tick := time.NewTicker(step)
	defer tick.Stop()

	light := uint32(0)
	increase := true
	for {
		if l.interruptor.IsInterrupted() {
			return ErrInterrupted
		}
		if err := l.setColor(withBrightness(color, light)); err != nil {
			return err
		}

		if increase {
			light += 2
			if light >= 100 {
				increase = false
			}
		} else {
			if light == 0 {
				return nil
			}
			light -= 2
		}

		<-tick.C
	}
}
