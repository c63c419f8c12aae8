package button

import (
	log "github.com/sirupsen/logrus"
	"time"
)

// OnTimerExpiry is the alarm entry point. It resolves every deadline that is
// due at now, oldest first, and re-arms the alarm for whatever remains.
func (r *Registry) OnTimerExpiry(now time.Time) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.draining = true
	for e := r.timers.popDue(now); e != nil; e = r.timers.popDue(now) {
		switch e.kind {
		case sequenceCompletion:
			r.completeSequence(e, now)
		case longPressEscalation:
			r.escalate(e)
		}
	}
	r.draining = false

	if head := r.timers.peek(); head != nil {
		r.arm(nonNegative(head.at.Sub(now)))
	}
}

func (r *Registry) completeSequence(e *timerEntry, now time.Time) {
	b := e.button
	if b.lastPress.After(e.release) {
		// Pressed again since this was armed; a later deadline owns the count.
		return
	}
	r.dispatchSequence(b, now)
}

func (r *Registry) escalate(e *timerEntry) {
	b := e.button
	if !b.lastRelease.Before(b.lastPress) || !b.lastPress.Equal(e.pressedAt) {
		log.Debugf("Button %v: released before %v", b.Name(), e.longPress.duration)
		return
	}

	lp := e.longPress
	log.Debugf("Button %v: held for %v", b.Name(), lp.duration)
	if lp.handler != nil {
		lp.handler(Event{Kind: LongPress, Button: b, Time: e.at, Duration: lp.duration})
	}
	// A long press is never part of a click sequence.
	b.clicks = 0

	if next := b.nextLongPress(lp); next != nil {
		r.schedule(&timerEntry{
			at:        e.at.Add(next.duration - lp.duration),
			kind:      longPressEscalation,
			button:    b,
			longPress: next,
			pressedAt: e.pressedAt,
		}, e.at)
	}
}
