package button

import (
	"errors"
	"fmt"
	log "github.com/sirupsen/logrus"
	"sync"
	"time"
)

var ErrInterruptUnsupported = errors.New("pin cannot deliver edge interrupts")

// Registry owns a set of buttons and the timer queue they share. The edge and
// timer entry points, as well as handler registration, run inside the
// registry's critical section.
type Registry struct {
	lock    sync.Locker
	arm     ArmFunc
	buttons []*Button
	active  []*Button
	timers  timerQueue

	draining bool
}

type Option func(*Registry)

// WithLocker replaces the default mutex. On targets where the entry points run
// in interrupt context this should mask the competing interrupt instead.
func WithLocker(l sync.Locker) Option {
	return func(r *Registry) {
		r.lock = l
	}
}

// WithTimer binds the alarm at construction time.
func WithTimer(arm ArmFunc) Option {
	return func(r *Registry) {
		r.arm = arm
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		lock: &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetTimer binds the single-shot alarm used for sequence and long press
// deadlines. It must be called before the first Activate.
func (r *Registry) SetTimer(arm ArmFunc) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.arm = arm
}

// RegisterButton creates a button for pin. The button does not receive edges
// until it is activated.
func (r *Registry) RegisterButton(pin Pin, c Config) *Button {
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.SequenceGap <= 0 {
		c.SequenceGap = DefaultSequenceGap
	}

	b := &Button{
		registry:    r,
		pin:         pin,
		inverted:    c.Inverted,
		debounce:    c.Debounce,
		sequenceGap: c.SequenceGap,
	}

	r.lock.Lock()
	r.buttons = append(r.buttons, b)
	r.lock.Unlock()

	log.Infof("Registered button %v (debounce %v, sequence gap %v)", pin.Name(), c.Debounce, c.SequenceGap)
	return b
}

// Activate enables edge delivery for b. It panics if no timer has been bound,
// since neither sequences nor long presses can work without one.
func (r *Registry) Activate(b *Button) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.arm == nil {
		panic("button: Activate called before a timer was bound")
	}
	if b.registry != r {
		return fmt.Errorf("button %v belongs to another registry", b.Name())
	}
	if !b.pin.SupportsInterrupt() {
		return fmt.Errorf("activate %v: %w", b.Name(), ErrInterruptUnsupported)
	}
	if b.active {
		return nil
	}

	b.lastLevel = b.level()
	b.active = true
	r.active = append(r.active, b)

	log.Infof("Activated button %v (pressed: %v)", b.Name(), b.lastLevel)
	return nil
}

// Buttons returns every registered button in registration order.
func (r *Registry) Buttons() []*Button {
	r.lock.Lock()
	defer r.lock.Unlock()

	buttons := make([]*Button, len(r.buttons))
	copy(buttons, r.buttons)
	return buttons
}

// Pending returns the number of queued deadlines, including superseded ones
// that have not expired yet.
func (r *Registry) Pending() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.timers.len()
}

// NextDeadline returns the earliest queued deadline.
func (r *Registry) NextDeadline() (time.Time, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	head := r.timers.peek()
	if head == nil {
		return time.Time{}, false
	}
	return head.at, true
}

// schedule queues e and moves the alarm if e is the new earliest deadline.
// While the queue is being drained the alarm is left to the dispatcher.
func (r *Registry) schedule(e *timerEntry, now time.Time) {
	log.Debugf("Button %v: %v deadline in %v", e.button.Name(), e.kind, e.at.Sub(now))
	if r.timers.push(e) && !r.draining {
		r.arm(nonNegative(e.at.Sub(now)))
	}
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
