// buttonmon prints the events multibutton publishes, read from an MQTT topic or
// a serial port.
package main

import (
	"fmt"
	"github.com/callebjorkell/multibutton/internal/publish"
	paho "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/tarm/serial"
	"gopkg.in/alecthomas/kingpin.v2"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	app    = kingpin.New("buttonmon", "Print multibutton events")
	debug  = app.Flag("debug", "Turn on debug logging.").Bool()
	format = app.Flag("format", "Payload format, json or cbor.").Default("json").Enum("json", "cbor")

	mqttCmd  = app.Command("mqtt", "Subscribe to a broker.")
	broker   = mqttCmd.Arg("broker", "Broker URL, for example tcp://localhost:1883.").Required().String()
	topic    = mqttCmd.Flag("topic", "Topic to subscribe to.").Default(publish.DefaultTopic).String()
	clientID = mqttCmd.Flag("client-id", "MQTT client id.").Default("buttonmon").String()

	serialCmd = app.Command("serial", "Read from a serial port.")
	port      = serialCmd.Arg("port", "Serial device.").Required().String()
	baud      = serialCmd.Flag("baud", "Baud rate.").Default("115200").Int()
)

func main() {
	cmd, err := app.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("%v: Try --help\n", err.Error())
		os.Exit(1)
	}

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if *debug {
		log.Info("Enabling debug output...")
		log.SetLevel(log.DebugLevel)
	}

	f := publish.Format(*format)
	switch cmd {
	case mqttCmd.FullCommand():
		err = subscribe(f)
	case serialCmd.FullCommand():
		err = readSerial(f)
	default:
		kingpin.FatalUsage("Unrecognized command")
	}
	if err != nil {
		log.Fatal(err)
	}
}

func printMessage(m publish.Message) {
	switch m.Event {
	case "sequence":
		fmt.Printf("%s %s: %d click sequence\n", m.Timestamp, m.Button, m.Clicks)
	case "long-press":
		fmt.Printf("%s %s: held for %dms\n", m.Timestamp, m.Button, m.DurationMs)
	default:
		fmt.Printf("%s %s: %s\n", m.Timestamp, m.Button, m.Event)
	}
}

func subscribe(f publish.Format) error {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	opts := paho.NewClientOptions().
		AddBroker(*broker).
		SetClientID(*clientID).
		SetAutoReconnect(true)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("connect to %v: timeout", *broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to %v: %w", *broker, err)
	}
	defer client.Disconnect(1000)

	token = client.Subscribe(*topic, 0, func(_ paho.Client, msg paho.Message) {
		m, err := publish.Decode(f, msg.Payload())
		if err != nil {
			log.Warnf("Unable to decode message on %v: %v", msg.Topic(), err)
			return
		}
		printMessage(m)
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe to %v: timeout", *topic)
	}
	if err := token.Error(); err != nil {
		return err
	}

	log.Infof("Listening on %v", *topic)
	<-signalChan
	return nil
}

func readSerial(f publish.Format) error {
	p, err := serial.OpenPort(&serial.Config{Name: *port, Baud: *baud})
	if err != nil {
		return fmt.Errorf("open serial port %v: %w", *port, err)
	}
	defer p.Close()

	log.Infof("Reading events from %v", *port)
	return publish.ReadStream(p, f, printMessage)
}
