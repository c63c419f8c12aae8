package button

import (
	log "github.com/sirupsen/logrus"
	"time"
)

// OnPinEdge is the edge entry point for a single button. now is the time of
// the edge as seen by the platform.
func (r *Registry) OnPinEdge(b *Button, now time.Time) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if !b.active || b.registry != r {
		return
	}
	r.edge(b, now)
}

// OnEdge checks every active button, for platforms where several inputs share
// one interrupt line.
func (r *Registry) OnEdge(now time.Time) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, b := range r.active {
		r.edge(b, now)
	}
}

func (r *Registry) edge(b *Button, now time.Time) {
	// A bounce inside the window is dropped as a whole, even if the pin has
	// settled on the other level by now. lastLevel catches up on the next
	// accepted edge.
	if now.Sub(b.lastPress) < b.debounce || now.Sub(b.lastRelease) < b.debounce {
		return
	}

	level := b.level()
	if level == b.lastLevel {
		return
	}

	if level {
		r.pressed(b, now)
	} else {
		r.released(b, now)
	}
	b.lastLevel = level
}

func (r *Registry) pressed(b *Button, now time.Time) {
	b.lastPress = now
	if b.onPress != nil {
		b.onPress(Event{Kind: Press, Button: b, Time: now})
	}

	if lp := b.shortestLongPress(); lp != nil {
		r.schedule(&timerEntry{
			at:        now.Add(lp.duration),
			kind:      longPressEscalation,
			button:    b,
			longPress: lp,
			pressedAt: now,
		}, now)
	}
	b.clicks++
}

func (r *Registry) released(b *Button, now time.Time) {
	b.lastRelease = now
	if b.onRelease != nil {
		b.onRelease(Event{Kind: Release, Button: b, Time: now})
	}

	if !b.isClick(now) {
		// The escalation timer owns this press. Normally it has already reset
		// the count, but it may not have run yet.
		log.Debugf("Button %v: released after a long press", b.Name())
		b.clicks = 0
		return
	}

	if b.clicks == b.longestSequence {
		// Nothing longer is registered, no point in waiting.
		r.dispatchSequence(b, now)
		return
	}

	r.schedule(&timerEntry{
		at:      now.Add(b.sequenceGap),
		kind:    sequenceCompletion,
		button:  b,
		release: now,
	}, now)
}

// isClick decides whether the press that ended at now was a click.
func (b *Button) isClick(now time.Time) bool {
	if b.clicks > 1 {
		// Already in a sequence, a long hold does not turn it into a long press.
		return true
	}
	lp := b.shortestLongPress()
	if lp == nil {
		return true
	}
	return now.Sub(b.lastPress) < lp.duration
}

func (r *Registry) dispatchSequence(b *Button, now time.Time) {
	clicks := b.clicks
	b.clicks = 0

	h := b.sequenceHandler(clicks)
	if h == nil {
		log.Debugf("Button %v: no handler for %d clicks", b.Name(), clicks)
		return
	}
	log.Debugf("Button %v: %d click sequence", b.Name(), clicks)
	h(Event{Kind: Sequence, Button: b, Time: now, Clicks: clicks})
}
