package button

import (
	"fmt"
	"time"
)

const (
	DefaultDebounce    = 35 * time.Millisecond
	DefaultSequenceGap = 250 * time.Millisecond
)

type Kind int

const (
	Press Kind = iota
	Release
	Sequence
	LongPress
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	case Sequence:
		return "sequence"
	case LongPress:
		return "long-press"
	}
	return "unknown"
}

// Event is handed to every callback. Clicks is only set for Sequence events and
// Duration only for LongPress events.
type Event struct {
	Kind     Kind
	Button   *Button
	Time     time.Time
	Clicks   int
	Duration time.Duration
}

func (e Event) String() string {
	name := "?"
	if e.Button != nil {
		name = e.Button.Name()
	}
	switch e.Kind {
	case Sequence:
		return fmt.Sprintf("Button %v: %d click sequence", name, e.Clicks)
	case LongPress:
		return fmt.Sprintf("Button %v: held for %v", name, e.Duration)
	case Press:
		return fmt.Sprintf("Button %v was pressed", name)
	case Release:
		return fmt.Sprintf("Button %v was released", name)
	}
	return fmt.Sprintf("Button %v: %v event", name, e.Kind)
}

// Handler is called from inside the edge and timer entry points while the
// registry's critical section is held. It must return quickly, must not block
// and must not register handlers on any button of the same registry.
type Handler func(Event)

// Func adapts a callback that does not care about the event.
func Func(f func()) Handler {
	return func(Event) {
		f()
	}
}

// Pin is the platform side of a button.
type Pin interface {
	Name() string
	// Read returns the raw level, true being high.
	Read() bool
	SupportsInterrupt() bool
}

// ArmFunc requests a single call to Registry.OnTimerExpiry after delay. Only the
// latest request is outstanding.
type ArmFunc func(delay time.Duration)
