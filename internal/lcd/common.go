// Package lcd prints the last button event on a 16x2 HD44780 display.
package lcd

import (
	"fmt"
	"periph.io/x/conn/v3/gpio"
	"time"
)

type Line byte

func (l Line) String() string {
	switch l {
	case Line1:
		return "L1"
	case Line2:
		return "L2"
	}
	return "N/A"
}

const (
	registerSelectionPin = "GPIO4"
	clockEdgePin         = "GPIO17"
	data4Pin             = "GPIO25"
	data5Pin             = "GPIO22"
	data6Pin             = "GPIO23"
	data7Pin             = "GPIO24"

	Line1 Line = 0x80
	Line2 Line = 0xC0

	lineWidth   = 16
	character   = gpio.High
	command     = gpio.Low
	signalPulse = 500000 * time.Nanosecond
	signalDelay = 500000 * time.Nanosecond

	idleText = "multibutton"
)

// fit pads or cuts msg to exactly one display line.
func fit(msg string) string {
	m := fmt.Sprintf("%-*s", lineWidth, msg)
	return m[:lineWidth]
}

// Print shows two lines of text.
func Print(line1, line2 string) {
	PrintLine(Line1, line1)
	PrintLine(Line2, line2)
}

// Clear blanks both lines.
func Clear() {
	Print("", "")
}

// Reset shows the idle text.
func Reset() {
	Print(idleText, "")
}
