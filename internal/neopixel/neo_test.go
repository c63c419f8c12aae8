package neopixel

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

func TestColor(t *testing.T) {
	tt := []struct {
		name   string
		input  uint32
		light  uint32
		output uint32
	}{
		{"full brightness red", 0xff0000, 100, 0xff0000},
		{"full brightness green", 0x00ff00, 100, 0x00ff00},
		{"full brightness blue", 0x0000ff, 100, 0x0000ff},
		{"zero brightness red", 0xff0000, 0, 0x000000},
		{"zero brightness blue", 0x0000ff, 0, 0x000000},
		{"50 percent", 0x806040, 50, 0x403020},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			o := withBrightness(tc.input, tc.light)
			assert.Equal(t, tc.output, o)
		})
	}
}

type frameEngine struct {
	mu     sync.Mutex
	leds   []uint32
	frames []uint32
	fini   bool
}

func (e *frameEngine) Init() error { return nil }
func (e *frameEngine) Wait() error { return nil }
func (e *frameEngine) Fini()       { e.fini = true }

func (e *frameEngine) Render() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames = append(e.frames, e.leds[0])
	return nil
}

func (e *frameEngine) Leds(_ int) []uint32 {
	return e.leds
}

func (e *frameEngine) Frames() []uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]uint32(nil), e.frames...)
}

func fastController(e *frameEngine) *LedController {
	l := newController(e)
	l.on = time.Millisecond
	l.off = time.Millisecond
	return l
}

func TestBlink(t *testing.T) {
	e := &frameEngine{leds: make([]uint32, 3)}
	l := fastController(e)

	require.NoError(t, l.Blink(0x00ff00, 2))
	assert.Equal(t, []uint32{0x00ff00, 0, 0x00ff00, 0, 0}, e.Frames())
	assert.Equal(t, []uint32{0, 0, 0}, e.leds)
}

func TestFlash(t *testing.T) {
	e := &frameEngine{leds: make([]uint32, 1)}
	l := fastController(e)

	require.NoError(t, l.Flash(0xff0000))
	assert.Equal(t, []uint32{0xff0000, 0, 0xff0000, 0, 0xff0000, 0, 0}, e.Frames())
}

func TestFadePeaksAtColor(t *testing.T) {
	e := &frameEngine{leds: make([]uint32, 1)}
	l := fastController(e)

	require.NoError(t, l.Fade(0x0000ff))
	frames := e.Frames()
	assert.Equal(t, uint32(0), frames[0])
	assert.Contains(t, frames, uint32(0x0000ff))
	assert.Equal(t, uint32(0), frames[len(frames)-1])
}

func TestBlinkInterrupted(t *testing.T) {
	e := &frameEngine{leds: make([]uint32, 1)}
	l := newController(e)
	l.on = 20 * time.Millisecond
	l.off = 20 * time.Millisecond

	result := make(chan error)
	go func() {
		result <- l.Blink(0x00ff00, 1000)
	}()
	// let the first blink start
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, l.Blink(0xff0000, 1))

	select {
	case err := <-result:
		assert.ErrorIs(t, err, ErrInterrupted)
	case <-time.After(time.Second):
		t.Fatal("long blink was not interrupted")
	}
}

func TestClose(t *testing.T) {
	e := &frameEngine{leds: []uint32{0xffffff}}
	l := fastController(e)
	l.Close()
	assert.True(t, e.fini)
	assert.Equal(t, []uint32{0}, e.leds)
}
