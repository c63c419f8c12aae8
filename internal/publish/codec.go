package publish

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/callebjorkell/multibutton/internal/button"
	"github.com/fxamacker/cbor/v2"
	"io"
	"time"
)

var ErrUnknownFormat = errors.New("unknown payload format")

type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// Message is the wire form of a button event.
type Message struct {
	Button     string `json:"button" cbor:"1,keyasint"`
	Event      string `json:"event" cbor:"2,keyasint"`
	Clicks     int    `json:"clicks,omitempty" cbor:"3,keyasint,omitempty"`
	DurationMs int64  `json:"durationMs,omitempty" cbor:"4,keyasint,omitempty"`
	Timestamp  string `json:"timestamp" cbor:"5,keyasint"`
}

func NewMessage(e button.Event) Message {
	m := Message{
		Event:     e.Kind.String(),
		Clicks:    e.Clicks,
		Timestamp: e.Time.UTC().Format(time.RFC3339Nano),
	}
	if e.Button != nil {
		m.Button = e.Button.Name()
	}
	if e.Kind == button.LongPress {
		m.DurationMs = e.Duration.Milliseconds()
	}
	return m
}

var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatCBOR:
		return FormatCBOR, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func Encode(f Format, m Message) ([]byte, error) {
	switch f {
	case FormatJSON, "":
		return json.Marshal(m)
	case FormatCBOR:
		return cborMode.Marshal(m)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

func Decode(f Format, payload []byte) (Message, error) {
	m := Message{}
	var err error
	switch f {
	case FormatJSON, "":
		err = json.Unmarshal(payload, &m)
	case FormatCBOR:
		err = cbor.Unmarshal(payload, &m)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return m, err
}

// ReadStream decodes the messages a StreamSink wrote, calling fn for each, until
// r is exhausted.
func ReadStream(r io.Reader, f Format, fn func(Message)) error {
	switch f {
	case FormatJSON, "":
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if len(scanner.Bytes()) == 0 {
				continue
			}
			m, err := Decode(FormatJSON, scanner.Bytes())
			if err != nil {
				return err
			}
			fn(m)
		}
		return scanner.Err()
	case FormatCBOR:
		dec := cbor.NewDecoder(r)
		for {
			m := Message{}
			if err := dec.Decode(&m); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
			fn(m)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
