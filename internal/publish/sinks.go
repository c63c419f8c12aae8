package publish

import (
	"fmt"
	paho "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/tarm/serial"
	"io"
	"time"
)

const (
	DefaultTopic    = "multibutton/events"
	DefaultClientID = "multibutton"
	DefaultBaud     = 115200
)

type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
	Format   Format
}

type MQTTSink struct {
	client paho.Client
	topic  string
	format Format
}

func NewMQTTSink(c MQTTConfig) (*MQTTSink, error) {
	if c.Topic == "" {
		c.Topic = DefaultTopic
	}
	if c.ClientID == "" {
		c.ClientID = DefaultClientID
	}

	opts := paho.NewClientOptions().
		AddBroker(c.Broker).
		SetClientID(c.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect to %v: timeout", c.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %v: %w", c.Broker, err)
	}

	log.Infof("Publishing events to %v on %v", c.Broker, c.Topic)
	return &MQTTSink{
		client: client,
		topic:  c.Topic,
		format: c.Format,
	}, nil
}

func (s *MQTTSink) Name() string {
	return "mqtt"
}

func (s *MQTTSink) Publish(m Message) error {
	payload, err := Encode(s.format, m)
	if err != nil {
		return err
	}

	// QoS 0, not retained
	token := s.client.Publish(s.topic, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	return token.Error()
}

func (s *MQTTSink) Close() error {
	s.client.Disconnect(1000)
	return nil
}

type SerialConfig struct {
	Port   string
	Baud   int
	Format Format
}

// StreamSink writes one encoded message per event. JSON messages are newline
// terminated, CBOR items delimit themselves.
type StreamSink struct {
	name   string
	w      io.WriteCloser
	format Format
}

func NewStreamSink(name string, w io.WriteCloser, f Format) *StreamSink {
	return &StreamSink{name: name, w: w, format: f}
}

func NewSerialSink(c SerialConfig) (*StreamSink, error) {
	if c.Baud <= 0 {
		c.Baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{Name: c.Port, Baud: c.Baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %v: %w", c.Port, err)
	}
	log.Infof("Writing events to %v at %d baud", c.Port, c.Baud)
	return NewStreamSink("serial", port, c.Format), nil
}

func (s *StreamSink) Name() string {
	return s.name
}

func (s *StreamSink) Publish(m Message) error {
	payload, err := Encode(s.format, m)
	if err != nil {
		return err
	}
	if s.format != FormatCBOR {
		payload = append(payload, '\n')
	}
	_, err = s.w.Write(payload)
	return err
}

func (s *StreamSink) Close() error {
	return s.w.Close()
}

// FuncSink calls a function for every message, for indicators and tests.
type FuncSink struct {
	SinkName string
	Fn       func(Message) error
}

func (s FuncSink) Name() string {
	return s.SinkName
}

func (s FuncSink) Publish(m Message) error {
	return s.Fn(m)
}

func (s FuncSink) Close() error {
	return nil
}

// LogSink logs the encoded payload, for running without a broker.
type LogSink struct {
	Format Format
}

func (s LogSink) Name() string {
	return "log"
}

func (s LogSink) Publish(m Message) error {
	payload, err := Encode(s.Format, m)
	if err != nil {
		return err
	}
	if s.Format == FormatCBOR {
		log.Infof("Published %x", payload)
	} else {
		log.Infof("Published %s", payload)
	}
	return nil
}

func (s LogSink) Close() error {
	return nil
}
