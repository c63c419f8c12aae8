package pin

import (
	"context"
	"sync"
	"time"
)

// FakeLine is a test double whose level is set by the test.
type FakeLine struct {
	LineName string
	NoIRQ    bool

	mu      sync.Mutex
	level   bool
	fn      EdgeFunc
	closed  bool
	watched chan struct{}
}

func NewFakeLine(name string) *FakeLine {
	return &FakeLine{
		LineName: name,
		watched:  make(chan struct{}),
	}
}

func (f *FakeLine) Name() string {
	return f.LineName
}

func (f *FakeLine) Read() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level
}

func (f *FakeLine) SupportsInterrupt() bool {
	return !f.NoIRQ
}

// Set changes the level and, if the line is being watched, delivers an edge
// at now on the calling goroutine.
func (f *FakeLine) Set(level bool, now time.Time) {
	f.mu.Lock()
	f.level = level
	fn := f.fn
	f.mu.Unlock()

	if fn != nil {
		fn(now)
	}
}

// Watching is closed once Watch has been called.
func (f *FakeLine) Watching() <-chan struct{} {
	return f.watched
}

func (f *FakeLine) Watch(ctx context.Context, fn EdgeFunc) error {
	f.mu.Lock()
	f.fn = fn
	close(f.watched)
	f.mu.Unlock()

	<-ctx.Done()

	f.mu.Lock()
	f.fn = nil
	f.mu.Unlock()
	return nil
}

func (f *FakeLine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *FakeLine) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
