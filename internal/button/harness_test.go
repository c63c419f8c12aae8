package button

import (
	"fmt"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type fakePin struct {
	name  string
	high  bool
	noIRQ bool
}

func (p *fakePin) Name() string            { return p.name }
func (p *fakePin) Read() bool              { return p.high }
func (p *fakePin) SupportsInterrupt() bool { return !p.noIRQ }

// harness drives a registry with a manual clock. The alarm it binds fires when
// time is advanced past the requested deadline.
type harness struct {
	t        *testing.T
	r        *Registry
	now      time.Time
	armed    bool
	deadline time.Time
	arms     []time.Duration
	events   []string
}

func newHarness(t *testing.T) *harness {
	h := &harness{t: t, now: epoch}
	h.r = NewRegistry(WithTimer(h.arm))
	return h
}

func (h *harness) arm(d time.Duration) {
	h.arms = append(h.arms, d)
	h.armed = true
	h.deadline = h.now.Add(d)
}

func (h *harness) ms(n int) time.Time {
	return epoch.Add(time.Duration(n) * time.Millisecond)
}

// button registers and activates a button on a released pin and records all
// press and release events.
func (h *harness) button(name string, c Config) (*Button, *fakePin) {
	p := &fakePin{name: name, high: c.Inverted}
	b := h.r.RegisterButton(p, c)
	b.OnPress(h.record)
	b.OnRelease(h.record)
	if err := h.r.Activate(b); err != nil {
		h.t.Fatalf("activate %v: %v", name, err)
	}
	return b, p
}

func (h *harness) record(e Event) {
	switch e.Kind {
	case Sequence:
		h.events = append(h.events, fmt.Sprintf("%v:seq%d", e.Button.Name(), e.Clicks))
	case LongPress:
		h.events = append(h.events, fmt.Sprintf("%v:long%v", e.Button.Name(), e.Duration))
	default:
		h.events = append(h.events, fmt.Sprintf("%v:%v", e.Button.Name(), e.Kind))
	}
}

// advance moves the clock to ms, firing the alarm on the way as often as it
// is re-armed.
func (h *harness) advance(ms int) {
	to := h.ms(ms)
	for h.armed && !h.deadline.After(to) {
		h.armed = false
		h.now = h.deadline
		h.r.OnTimerExpiry(h.now)
	}
	h.now = to
}

// set changes the logical level of the pin at ms and delivers the edge.
func (h *harness) set(b *Button, p *fakePin, ms int, pressed bool) {
	h.advance(ms)
	p.high = pressed != b.Inverted()
	h.r.OnPinEdge(b, h.now)
}

func (h *harness) click(b *Button, p *fakePin, at, hold int) {
	h.set(b, p, at, true)
	h.set(b, p, at+hold, false)
}
