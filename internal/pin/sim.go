package pin

import (
	"context"
	log "github.com/sirupsen/logrus"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
)

// simLine is a button without hardware: every SIGHUP flips its level.
type simLine struct {
	name  string
	level atomic.Bool
}

func openSim(c Config) Line {
	l := &simLine{name: c.Name}
	if c.Pull == PullUp {
		// pulled up, released reads high
		l.level.Store(true)
	}
	return l
}

func (l *simLine) Name() string {
	return l.name
}

func (l *simLine) Read() bool {
	return l.level.Load()
}

func (l *simLine) SupportsInterrupt() bool {
	return true
}

func (l *simLine) Watch(ctx context.Context, fn EdgeFunc) error {
	hupChan := make(chan os.Signal, 1)
	signal.Notify(hupChan, syscall.SIGHUP)
	defer signal.Stop(hupChan)

	log.Infof("Simulating %v, send SIGHUP to toggle it", l.name)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hupChan:
			level := !l.level.Load()
			l.level.Store(level)
			log.Debugf("Simulated %v level: %v", l.name, level)
			fn(time.Now())
		}
	}
}

func (l *simLine) Close() error {
	return nil
}
