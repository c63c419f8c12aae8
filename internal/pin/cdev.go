//go:build linux

package pin

import (
	"context"
	"fmt"
	log "github.com/sirupsen/logrus"
	"github.com/warthog618/go-gpiocdev"
	"strconv"
	"sync"
	"time"
)

const defaultChip = "gpiochip0"

type cdevLine struct {
	name string
	line *gpiocdev.Line

	mu sync.Mutex
	fn EdgeFunc
}

func openCdev(c Config) (Line, error) {
	offset, err := strconv.Atoi(c.Name)
	if err != nil {
		return nil, fmt.Errorf("cdev line %q is not an offset: %w", c.Name, err)
	}
	chip := c.Chip
	if chip == "" {
		chip = defaultChip
	}

	l := &cdevLine{name: fmt.Sprintf("%s:%d", chip, offset)}
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		cdevPull(c.Pull),
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(l.handle),
	)
	if err != nil {
		return nil, fmt.Errorf("request line %v: %w", l.name, err)
	}
	l.line = line
	return l, nil
}

func cdevPull(p Pull) gpiocdev.LineReqOption {
	switch p {
	case PullUp:
		return gpiocdev.WithPullUp
	case PullDown:
		return gpiocdev.WithPullDown
	}
	return gpiocdev.WithBiasDisabled
}

// handle runs on the gpiocdev event goroutine.
func (l *cdevLine) handle(evt gpiocdev.LineEvent) {
	l.mu.Lock()
	fn := l.fn
	l.mu.Unlock()

	if fn == nil {
		log.Debugf("Dropping edge on %v, nobody is watching", l.name)
		return
	}
	fn(time.Now())
}

func (l *cdevLine) Name() string {
	return l.name
}

func (l *cdevLine) Read() bool {
	v, err := l.line.Value()
	if err != nil {
		log.Warnf("Unable to read %v: %v", l.name, err)
		return false
	}
	return v != 0
}

func (l *cdevLine) SupportsInterrupt() bool {
	return true
}

func (l *cdevLine) Watch(ctx context.Context, fn EdgeFunc) error {
	l.mu.Lock()
	l.fn = fn
	l.mu.Unlock()

	<-ctx.Done()

	l.mu.Lock()
	l.fn = nil
	l.mu.Unlock()
	return nil
}

func (l *cdevLine) Close() error {
	return l.line.Close()
}
