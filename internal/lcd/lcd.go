//go:build pi

package lcd

import (
	"fmt"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
	"sync"
	"time"
)

var (
	registerSelection gpio.PinIO
	clockEdge         gpio.PinIO
	dataPins          [4]gpio.PinIO

	// one writer at a time, a line is many pulses
	writeLock sync.Mutex
)

// InitLCD initializes all the LCD pins
func InitLCD() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("initialize periph: %w", err)
	}

	log.Infoln("Initializing LCD")
	registerSelection = gpioreg.ByName(registerSelectionPin)
	clockEdge = gpioreg.ByName(clockEdgePin)
	dataPins[0] = gpioreg.ByName(data4Pin)
	dataPins[1] = gpioreg.ByName(data5Pin)
	dataPins[2] = gpioreg.ByName(data6Pin)
	dataPins[3] = gpioreg.ByName(data7Pin)
	if registerSelection == nil || clockEdge == nil {
		return fmt.Errorf("lcd control pins not found")
	}
	for i, p := range dataPins {
		if p == nil {
			return fmt.Errorf("lcd data pin %d not found", i+4)
		}
	}

	writeLock.Lock()
	defer writeLock.Unlock()
	sendByte(0x33, command)
	sendByte(0x32, command)
	sendByte(0x28, command)
	sendByte(0x0C, command)
	sendByte(0x06, command)
	sendByte(0x01, command)
	return nil
}

func sendByte(bits byte, mode gpio.Level) {
	registerSelection.Out(mode)
	pulseByte(bits, 0x10)
	pulseByte(bits, 0x01)
}

func pulseByte(bits, mask byte) {
	for i, pin := range dataPins {
		pin.Out(gpio.Low)
		if bits&(mask<<uint(i)) != 0 {
			pin.Out(gpio.High)
		}
	}
	time.Sleep(signalDelay)
	clockEdge.Out(gpio.High)
	time.Sleep(signalPulse)
	clockEdge.Out(gpio.Low)
	time.Sleep(signalDelay)
}

func PrintLine(l Line, msg string) {
	if registerSelection == nil {
		return
	}

	writeLock.Lock()
	defer writeLock.Unlock()
	sendByte(byte(l), command)
	m := fit(msg)
	for i := 0; i < lineWidth; i++ {
		sendByte(m[i], character)
	}
}
