package button

import (
	log "github.com/sirupsen/logrus"
	"sort"
	"time"
)

// Config holds the per-button timing. Zero values fall back to the defaults.
type Config struct {
	Inverted    bool
	Debounce    time.Duration
	SequenceGap time.Duration
}

type sequenceHandler struct {
	clicks  int
	handler Handler
}

type longPressHandler struct {
	duration time.Duration
	handler  Handler
}

// Button is the state of a single input. It is created by Registry.RegisterButton
// and stays valid for the lifetime of the registry.
type Button struct {
	registry *Registry
	pin      Pin
	inverted bool
	active   bool

	debounce    time.Duration
	sequenceGap time.Duration

	lastLevel   bool
	lastPress   time.Time
	lastRelease time.Time
	clicks      int

	longestSequence  int
	longestLongPress time.Duration

	onPress     Handler
	onRelease   Handler
	sequences   []*sequenceHandler
	longPresses []*longPressHandler
}

func (b *Button) Name() string {
	return b.pin.Name()
}

func (b *Button) Inverted() bool {
	return b.inverted
}

func (b *Button) Debounce() time.Duration {
	return b.debounce
}

func (b *Button) SequenceGap() time.Duration {
	return b.sequenceGap
}

// Pressed returns the last accepted logical level. It can lag behind the pin
// when edges were swallowed by the debounce window.
func (b *Button) Pressed() bool {
	b.registry.lock.Lock()
	defer b.registry.lock.Unlock()
	return b.lastLevel
}

// Clicks returns the number of clicks in the sequence currently being collected.
func (b *Button) Clicks() int {
	b.registry.lock.Lock()
	defer b.registry.lock.Unlock()
	return b.clicks
}

func (b *Button) LongestSequence() int {
	b.registry.lock.Lock()
	defer b.registry.lock.Unlock()
	return b.longestSequence
}

func (b *Button) LongestLongPress() time.Duration {
	b.registry.lock.Lock()
	defer b.registry.lock.Unlock()
	return b.longestLongPress
}

func (b *Button) SequenceCount() int {
	b.registry.lock.Lock()
	defer b.registry.lock.Unlock()
	return len(b.sequences)
}

func (b *Button) LongPressCount() int {
	b.registry.lock.Lock()
	defer b.registry.lock.Unlock()
	return len(b.longPresses)
}

func (b *Button) OnPress(h Handler) {
	b.registry.lock.Lock()
	defer b.registry.lock.Unlock()
	b.onPress = h
}

func (b *Button) OnRelease(h Handler) {
	b.registry.lock.Lock()
	defer b.registry.lock.Unlock()
	b.onRelease = h
}

func (b *Button) OnClick(h Handler) {
	b.OnSequence(1, h)
}

func (b *Button) OnDoubleClick(h Handler) {
	b.OnSequence(2, h)
}

// OnSequence registers h for a run of exactly clicks clicks. Registering the
// same count again replaces the handler.
func (b *Button) OnSequence(clicks int, h Handler) {
	if clicks < 1 {
		log.Warnf("Ignoring sequence handler for %d clicks on %v", clicks, b.Name())
		return
	}
	b.registry.lock.Lock()
	defer b.registry.lock.Unlock()

	i := sort.Search(len(b.sequences), func(i int) bool {
		return b.sequences[i].clicks >= clicks
	})
	if i < len(b.sequences) && b.sequences[i].clicks == clicks {
		b.sequences[i].handler = h
		return
	}
	b.sequences = append(b.sequences, nil)
	copy(b.sequences[i+1:], b.sequences[i:])
	b.sequences[i] = &sequenceHandler{clicks: clicks, handler: h}

	// Only raise the limit once the handler is in the table.
	if b.longestSequence < clicks {
		b.longestSequence = clicks
	}
	log.Debugf("Button %v: sequence handler for %d clicks", b.Name(), clicks)
}

// OnLongPress registers h to fire once the button has been held for d.
// Registering the same duration again replaces the handler.
func (b *Button) OnLongPress(d time.Duration, h Handler) {
	if d <= 0 {
		log.Warnf("Ignoring long press handler for %v on %v", d, b.Name())
		return
	}
	b.registry.lock.Lock()
	defer b.registry.lock.Unlock()

	i := sort.Search(len(b.longPresses), func(i int) bool {
		return b.longPresses[i].duration >= d
	})
	if i < len(b.longPresses) && b.longPresses[i].duration == d {
		b.longPresses[i].handler = h
		return
	}
	b.longPresses = append(b.longPresses, nil)
	copy(b.longPresses[i+1:], b.longPresses[i:])
	b.longPresses[i] = &longPressHandler{duration: d, handler: h}

	if b.longestLongPress < d {
		b.longestLongPress = d
	}
	log.Debugf("Button %v: long press handler for %v", b.Name(), d)
}

// level reads the pin and applies the polarity.
func (b *Button) level() bool {
	return b.pin.Read() != b.inverted
}

func (b *Button) shortestLongPress() *longPressHandler {
	if len(b.longPresses) == 0 {
		return nil
	}
	return b.longPresses[0]
}

// nextLongPress returns the handler following lp, or nil if lp is the longest.
func (b *Button) nextLongPress(lp *longPressHandler) *longPressHandler {
	i := sort.Search(len(b.longPresses), func(i int) bool {
		return b.longPresses[i].duration > lp.duration
	})
	if i < len(b.longPresses) {
		return b.longPresses[i]
	}
	return nil
}

func (b *Button) sequenceHandler(clicks int) Handler {
	i := sort.Search(len(b.sequences), func(i int) bool {
		return b.sequences[i].clicks >= clicks
	})
	if i < len(b.sequences) && b.sequences[i].clicks == clicks {
		return b.sequences[i].handler
	}
	return nil
}
