// Package pin connects physical inputs to the button registry. A Line reads the
// raw level of an input and reports every edge it sees, leaving debouncing to
// the registry.
package pin

import (
	"context"
	"errors"
	"fmt"
	"github.com/callebjorkell/multibutton/internal/button"
	"time"
)

var ErrUnknownBackend = errors.New("unknown gpio backend")

const (
	BackendPeriph = "periph"
	BackendCdev   = "cdev"
	BackendSim    = "sim"
)

type Pull string

const (
	PullNone Pull = "none"
	PullUp   Pull = "up"
	PullDown Pull = "down"
)

// EdgeFunc receives the time of an edge. It runs on the line's watcher goroutine
// or, for cdev, on the kernel event goroutine.
type EdgeFunc func(now time.Time)

type Line interface {
	button.Pin
	// Watch delivers edges to fn until ctx is done.
	Watch(ctx context.Context, fn EdgeFunc) error
	Close() error
}

type Config struct {
	Backend string
	// Chip is the gpio character device, only used by the cdev backend.
	Chip string
	// Name is the periph pin name (GPIO20) or the cdev line offset (20).
	Name string
	Pull Pull
}

func Open(c Config) (Line, error) {
	if c.Pull == "" {
		c.Pull = PullUp
	}
	switch c.Backend {
	case BackendPeriph:
		return openPeriph(c)
	case BackendCdev:
		return openCdev(c)
	case BackendSim, "":
		return openSim(c), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
}
