package pin

import (
	"context"
	"fmt"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
	"sync"
	"time"
)

var (
	hostInit    sync.Once
	hostInitErr error
)

type periphLine struct {
	pin   gpio.PinIO
	edges bool
}

func openPeriph(c Config) (Line, error) {
	hostInit.Do(func() {
		_, hostInitErr = host.Init()
	})
	if hostInitErr != nil {
		return nil, fmt.Errorf("initialize periph: %w", hostInitErr)
	}

	p := gpioreg.ByName(c.Name)
	if p == nil {
		return nil, fmt.Errorf("no such pin %q", c.Name)
	}

	pull := periphPull(c.Pull)
	l := &periphLine{pin: p, edges: true}
	if err := p.In(pull, gpio.BothEdges); err != nil {
		log.Warnf("Pin %v cannot detect edges: %v", c.Name, err)
		l.edges = false
		if err := p.In(pull, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("configure %v as input: %w", c.Name, err)
		}
	}
	return l, nil
}

func periphPull(p Pull) gpio.Pull {
	switch p {
	case PullUp:
		return gpio.PullUp
	case PullDown:
		return gpio.PullDown
	}
	return gpio.Float
}

func (l *periphLine) Name() string {
	return l.pin.Name()
}

func (l *periphLine) Read() bool {
	return l.pin.Read() == gpio.High
}

func (l *periphLine) SupportsInterrupt() bool {
	return l.edges
}

func (l *periphLine) Watch(ctx context.Context, fn EdgeFunc) error {
	if !l.edges {
		return fmt.Errorf("pin %v has no edge detection", l.Name())
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// wait for the edge, waking up regularly to notice ctx
		if !l.pin.WaitForEdge(time.Second) {
			continue
		}
		fn(time.Now())
	}
}

func (l *periphLine) Close() error {
	return l.pin.Halt()
}
