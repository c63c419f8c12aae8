package publish

import (
	"bytes"
	"context"
	"errors"
	"github.com/callebjorkell/multibutton/internal/button"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

type namedPin string

func (p namedPin) Name() string            { return string(p) }
func (p namedPin) Read() bool              { return false }
func (p namedPin) SupportsInterrupt() bool { return true }

var stamp = time.Date(2026, 1, 1, 12, 0, 0, 500000000, time.UTC)

func testButton() *button.Button {
	return button.NewRegistry().RegisterButton(namedPin("GPIO20"), button.Config{})
}

func TestNewMessage(t *testing.T) {
	b := testButton()
	tt := []struct {
		name  string
		event button.Event
		want  Message
	}{
		{
			"press",
			button.Event{Kind: button.Press, Button: b, Time: stamp},
			Message{Button: "GPIO20", Event: "press", Timestamp: "2026-01-01T12:00:00.5Z"},
		},
		{
			"sequence",
			button.Event{Kind: button.Sequence, Button: b, Time: stamp, Clicks: 3},
			Message{Button: "GPIO20", Event: "sequence", Clicks: 3, Timestamp: "2026-01-01T12:00:00.5Z"},
		},
		{
			"long press",
			button.Event{Kind: button.LongPress, Button: b, Time: stamp, Duration: 1500 * time.Millisecond},
			Message{Button: "GPIO20", Event: "long-press", DurationMs: 1500, Timestamp: "2026-01-01T12:00:00.5Z"},
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewMessage(tc.event))
		})
	}
}

func TestEncodeJSON(t *testing.T) {
	m := Message{Button: "GPIO20", Event: "sequence", Clicks: 2, Timestamp: "2026-01-01T12:00:00Z"}
	payload, err := Encode(FormatJSON, m)
	require.NoError(t, err)
	assert.Equal(t, `{"button":"GPIO20","event":"sequence","clicks":2,"timestamp":"2026-01-01T12:00:00Z"}`, string(payload))
}

func TestEncodeCBOR(t *testing.T) {
	m := Message{Button: "GPIO20", Event: "long-press", DurationMs: 1000, Timestamp: "2026-01-01T12:00:00Z"}
	payload, err := Encode(FormatCBOR, m)
	require.NoError(t, err)

	// integer keys, clicks omitted
	raw := map[int]any{}
	require.NoError(t, cbor.Unmarshal(payload, &raw))
	assert.Len(t, raw, 4)
	assert.Equal(t, "GPIO20", raw[1])

	decoded, err := Decode(FormatCBOR, payload)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("cbor")
	require.NoError(t, err)
	assert.Equal(t, FormatCBOR, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Encode("xml", Message{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestStreamSink(t *testing.T) {
	w := &bufferCloser{}
	s := NewStreamSink("serial", w, FormatJSON)
	require.NoError(t, s.Publish(Message{Button: "a", Event: "press", Timestamp: "t"}))
	require.NoError(t, s.Publish(Message{Button: "a", Event: "release", Timestamp: "t"}))
	assert.Equal(t, "{\"button\":\"a\",\"event\":\"press\",\"timestamp\":\"t\"}\n"+
		"{\"button\":\"a\",\"event\":\"release\",\"timestamp\":\"t\"}\n", w.String())

	require.NoError(t, s.Close())
	assert.True(t, w.closed)
	assert.Equal(t, "serial", s.Name())
}

func TestStreamSinkCBORFrames(t *testing.T) {
	w := &bufferCloser{}
	s := NewStreamSink("serial", w, FormatCBOR)
	require.NoError(t, s.Publish(Message{Button: "a", Event: "press", Timestamp: "t"}))
	require.NoError(t, s.Publish(Message{Button: "b", Event: "release", Timestamp: "t"}))

	dec := cbor.NewDecoder(&w.Buffer)
	var first, second Message
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "a", first.Button)
	assert.Equal(t, "b", second.Button)
}

type recordingSink struct {
	mu       sync.Mutex
	messages []Message
	err      error
	closed   bool
	got      chan struct{}
}

func newRecordingSink(err error) *recordingSink {
	return &recordingSink{err: err, got: make(chan struct{}, 100)}
}

func (r *recordingSink) Name() string { return "recording" }

func (r *recordingSink) Publish(m Message) error {
	r.mu.Lock()
	r.messages = append(r.messages, m)
	r.mu.Unlock()
	r.got <- struct{}{}
	return r.err
}

func (r *recordingSink) Close() error {
	r.closed = true
	return nil
}

func (r *recordingSink) WaitForMessages(n int, timeout time.Duration) bool {
	for i := 0; i < n; i++ {
		select {
		case <-r.got:
		case <-time.After(timeout):
			return false
		}
	}
	return true
}

func TestPublisherFanOut(t *testing.T) {
	good := newRecordingSink(nil)
	failing := newRecordingSink(errors.New("broker gone"))
	p := NewPublisher(0, failing, good)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	b := testButton()
	p.Notify(button.Event{Kind: button.Press, Button: b, Time: stamp})
	p.Notify(button.Event{Kind: button.Sequence, Button: b, Time: stamp, Clicks: 2})

	require.True(t, good.WaitForMessages(2, time.Second))
	require.True(t, failing.WaitForMessages(2, time.Second))
	good.mu.Lock()
	assert.Equal(t, "press", good.messages[0].Event)
	assert.Equal(t, 2, good.messages[1].Clicks)
	good.mu.Unlock()

	require.NoError(t, p.Close())
	assert.True(t, good.closed)
	assert.True(t, failing.closed)

	// closed publishers ignore events, closing twice is fine
	p.Notify(button.Event{Kind: button.Press, Button: b})
	assert.NoError(t, p.Close())
}

func TestPublisherDropsWhenFull(t *testing.T) {
	p := NewPublisher(2)
	b := testButton()
	for i := 0; i < 5; i++ {
		p.Notify(button.Event{Kind: button.Press, Button: b})
	}
	assert.Equal(t, uint64(3), p.Dropped())
}

func TestPublisherFromRegistry(t *testing.T) {
	sink := newRecordingSink(nil)
	p := NewPublisher(8, sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	pin := &levelPin{}
	r := button.NewRegistry(button.WithTimer(func(time.Duration) {}))
	b := r.RegisterButton(pin, button.Config{})
	b.OnPress(p.Notify)
	b.OnRelease(p.Notify)
	b.OnClick(p.Notify)
	require.NoError(t, r.Activate(b))

	pin.high = true
	r.OnPinEdge(b, stamp)
	pin.high = false
	r.OnPinEdge(b, stamp.Add(100*time.Millisecond))

	require.True(t, sink.WaitForMessages(3, time.Second))
	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, "press", sink.messages[0].Event)
	assert.Equal(t, "release", sink.messages[1].Event)
	assert.Equal(t, "sequence", sink.messages[2].Event)
	assert.Equal(t, 1, sink.messages[2].Clicks)
}

type levelPin struct {
	high bool
}

func (p *levelPin) Name() string            { return "level" }
func (p *levelPin) Read() bool              { return p.high }
func (p *levelPin) SupportsInterrupt() bool { return true }

func TestFuncSink(t *testing.T) {
	var got Message
	s := FuncSink{SinkName: "func", Fn: func(m Message) error {
		got = m
		return nil
	}}
	require.NoError(t, s.Publish(Message{Event: "press"}))
	assert.Equal(t, "press", got.Event)
	assert.Equal(t, "func", s.Name())
	assert.NoError(t, s.Close())
}

func TestLogSink(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatCBOR} {
		s := LogSink{Format: f}
		assert.NoError(t, s.Publish(Message{Button: "a", Event: "press", Timestamp: "t"}))
		assert.NoError(t, s.Close())
	}
	assert.Error(t, LogSink{Format: "xml"}.Publish(Message{}))
}

func TestReadStream(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatCBOR} {
		t.Run(string(f), func(t *testing.T) {
			w := &bufferCloser{}
			s := NewStreamSink("serial", w, f)
			sent := []Message{
				{Button: "a", Event: "press", Timestamp: "t1"},
				{Button: "a", Event: "sequence", Clicks: 2, Timestamp: "t2"},
				{Button: "b", Event: "long-press", DurationMs: 1500, Timestamp: "t3"},
			}
			for _, m := range sent {
				require.NoError(t, s.Publish(m))
			}

			var got []Message
			require.NoError(t, ReadStream(&w.Buffer, f, func(m Message) {
				got = append(got, m)
			}))
			assert.Equal(t, sent, got)
		})
	}

	err := ReadStream(&bytes.Buffer{}, "xml", func(Message) {})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	err = ReadStream(bytes.NewBufferString("{not json\n"), FormatJSON, func(Message) {})
	assert.Error(t, err)
}

type slowSink struct {
	started chan struct{}
	release chan struct{}

	mu        sync.Mutex
	published bool
	closed    bool
	closedMid bool
}

func (s *slowSink) Name() string { return "slow" }

func (s *slowSink) Publish(Message) error {
	s.started <- struct{}{}
	<-s.release
	s.mu.Lock()
	s.published = true
	s.mu.Unlock()
	return nil
}

func (s *slowSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closedMid = !s.published
	s.closed = true
	return nil
}

func TestPublisherCloseWaitsForRun(t *testing.T) {
	sink := &slowSink{started: make(chan struct{}, 1), release: make(chan struct{})}
	p := NewPublisher(4, sink)

	ran := make(chan struct{})
	go func() {
		defer close(ran)
		p.Run(context.Background())
	}()

	p.Notify(button.Event{Kind: button.Press, Button: testButton(), Time: stamp})
	select {
	case <-sink.started:
	case <-time.After(time.Second):
		t.Fatal("event never reached the sink")
	}

	closed := make(chan error)
	go func() {
		closed <- p.Close()
	}()

	select {
	case <-closed:
		t.Fatal("close returned while the sink was still publishing")
	case <-time.After(50 * time.Millisecond):
	}

	close(sink.release)
	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("close did not return")
	}
	<-ran

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.True(t, sink.closed)
	assert.False(t, sink.closedMid)
}

func TestPublisherRunAfterClose(t *testing.T) {
	p := NewPublisher(1)
	require.NoError(t, p.Close())

	done := make(chan struct{})
	go func() {
		p.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not return on a closed publisher")
	}
}
