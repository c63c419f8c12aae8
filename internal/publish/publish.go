// Package publish moves button events out of the registry's critical section
// and hands them to the configured sinks.
package publish

import (
	"context"
	"errors"
	"github.com/callebjorkell/multibutton/internal/button"
	log "github.com/sirupsen/logrus"
	"sync"
	"sync/atomic"
)

const DefaultQueueSize = 32

type Sink interface {
	Name() string
	Publish(m Message) error
	Close() error
}

// Publisher buffers events between the button handlers and the sinks. Notify
// never blocks; when the buffer is full the event is dropped.
type Publisher struct {
	events  chan button.Event
	sinks   []Sink
	dropped atomic.Uint64

	closer  sync.Once
	closeMu sync.RWMutex
	closed  bool
	running sync.WaitGroup
}

func NewPublisher(queueSize int, sinks ...Sink) *Publisher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Publisher{
		events: make(chan button.Event, queueSize),
		sinks:  sinks,
	}
}

// Notify is a button.Handler.
func (p *Publisher) Notify(e button.Event) {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return
	}

	// non-blocking, the handler runs inside the registry's critical section
	select {
	case p.events <- e:
	default:
		n := p.dropped.Add(1)
		log.Warnf("Event queue full, dropped %v (%d dropped so far)", e, n)
	}
}

func (p *Publisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Run forwards events to every sink until ctx is done or the publisher is
// closed.
func (p *Publisher) Run(ctx context.Context) {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.running.Add(1)
	p.closeMu.Unlock()
	defer p.running.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case e, open := <-p.events:
			if !open {
				return
			}
			p.publish(e)
		}
	}
}

func (p *Publisher) publish(e button.Event) {
	log.Debugf("Event: %v", e)
	m := NewMessage(e)
	for _, s := range p.sinks {
		if err := s.Publish(m); err != nil {
			log.Warnf("Unable to publish to %v: %v", s.Name(), err)
		}
	}
}

// Close stops accepting events, waits for Run to hand the remaining events to
// the sinks and closes them.
func (p *Publisher) Close() error {
	var errs []error
	p.closer.Do(func() {
		p.closeMu.Lock()
		p.closed = true
		close(p.events)
		p.closeMu.Unlock()

		p.running.Wait()

		for _, s := range p.sinks {
			if err := s.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
