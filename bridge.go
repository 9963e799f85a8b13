package main

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/chase3718/ts10/engine"
)

// Port is a MIDI endpoint that can be polled for input.
type Port interface {
	engine.Sender
	// Receive returns the next input message; ok is false when there is
	// none. It must not block.
	Receive() (msg midi.Message, ok bool)
}

// maxPumpPerPort caps how many messages one Pump forwards per direction
// so a flooded input cannot stall touch handling.
const maxPumpPerPort = 32

// Bridge passes MIDI through between two ports, verbatim, in both
// directions.
type Bridge struct {
	usb, din Port
}

func NewBridge(usb, din Port) *Bridge {
	return &Bridge{usb: usb, din: din}
}

// Pump forwards what each side has received to the other and returns the
// number of messages forwarded.
func (b *Bridge) Pump() int {
	return forward("usb", b.usb, "din", b.din) + forward("din", b.din, "usb", b.usb)
}

func forward(fromName string, from Port, toName string, to Port) int {
	n := 0
	for ; n < maxPumpPerPort; n++ {
		msg, ok := from.Receive()
		if !ok {
			break
		}
		logger.Debug("bridge: forward", "from", fromName, "to", toName, "msg", msg.String())
		if err := to.Send(msg); err != nil {
			logger.Warn("bridge: forward failed", "from", fromName, "to", toName, "err", err)
		}
	}
	return n
}

// nullPort stands in for a side that is not configured.
type nullPort struct{}

func (nullPort) Send(midi.Message) error       { return nil }
func (nullPort) Receive() (midi.Message, bool) { return nil, false }
