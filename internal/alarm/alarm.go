// Package alarm provides the single-shot timer the button registry schedules
// its deadlines with.
package alarm

import (
	log "github.com/sirupsen/logrus"
	"sync"
	"time"
)

// Alarm calls fire once per Arm. Re-arming replaces the pending request, and a
// request that was replaced after its timer already started firing is dropped.
type Alarm struct {
	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	stopped    bool

	fire func(now time.Time)
	now  func() time.Time
}

func New(fire func(now time.Time)) *Alarm {
	return NewWithClock(fire, time.Now)
}

func NewWithClock(fire func(now time.Time), now func() time.Time) *Alarm {
	return &Alarm{
		fire: fire,
		now:  now,
	}
}

// Arm schedules fire after delay. It never blocks, so it is safe to call from
// inside fire.
func (a *Alarm) Arm(delay time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.generation++
	gen := a.generation
	log.Tracef("Alarm armed in %v", delay)
	a.timer = time.AfterFunc(delay, func() {
		a.expire(gen)
	})
}

func (a *Alarm) expire(gen uint64) {
	a.mu.Lock()
	if a.stopped || gen != a.generation {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.mu.Unlock()

	a.fire(a.now())
}

// Pending reports whether a request is outstanding.
func (a *Alarm) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

// Stop cancels the pending request and ignores any later Arm.
func (a *Alarm) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
