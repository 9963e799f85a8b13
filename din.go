package main

import (
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2"
)

// DINBaud is the MIDI serial bit rate.
const DINBaud = 31250

// DINPort speaks MIDI over a serial line.
type DINPort struct {
	rw      io.ReadWriter
	parser  streamParser
	pending []midi.Message
	buf     []byte
}

func NewDINPort(rw io.ReadWriter) *DINPort {
	return &DINPort{rw: rw, buf: make([]byte, 128)}
}

func (d *DINPort) Send(msg midi.Message) error {
	if len(msg) == 0 {
		return nil
	}
	if _, err := d.rw.Write(msg); err != nil {
		return fmt.Errorf("din: send %s: %w", msg, err)
	}
	return nil
}

// Receive returns the next complete message read from the line. ok is
// false when nothing is waiting; it never blocks longer than the port's
// read timeout.
func (d *DINPort) Receive() (msg midi.Message, ok bool) {
	if len(d.pending) == 0 {
		d.fill()
	}
	if len(d.pending) == 0 {
		return nil, false
	}
	msg = d.pending[0]
	d.pending = d.pending[1:]
	return msg, true
}

func (d *DINPort) fill() {
	n, err := d.rw.Read(d.buf)
	if err != nil && err != io.EOF {
		logger.Warn("din: read failed", "err", err)
	}
	dropped := d.parser.dropped
	for _, b := range d.buf[:n] {
		if msg, ok := d.parser.feed(b); ok {
			d.pending = append(d.pending, msg)
		}
	}
	if d.parser.dropped > dropped {
		logger.Debug("din: malformed bytes dropped", "count", d.parser.dropped-dropped)
	}
}

// streamParser splits a raw MIDI byte stream into messages. It follows
// running status, passes realtime bytes straight through and collects
// SysEx until its terminator.
type streamParser struct {
	status  byte
	data    []byte
	sysex   []byte
	dropped int
}

// maxSysex bounds a buffered SysEx message. Longer ones are dropped.
const maxSysex = 4096

func (p *streamParser) feed(b byte) (midi.Message, bool) {
	switch {
	case b >= 0xF8:
		return midi.Message{b}, true

	case b == 0xF0:
		p.abortSysex()
		p.status, p.data = 0, nil
		p.sysex = []byte{b}
		return nil, false

	case b == 0xF7:
		if p.sysex == nil {
			p.dropped++
			return nil, false
		}
		msg := midi.Message(append(p.sysex, b))
		p.sysex = nil
		return msg, true

	case b >= 0x80:
		p.abortSysex()
		p.status, p.data = b, nil
		if dataLen(b) == 0 {
			p.status = 0
			if b == 0xF6 {
				return midi.Message{b}, true
			}
			p.dropped++
		}
		return nil, false
	}

	if p.sysex != nil {
		if len(p.sysex) >= maxSysex {
			p.abortSysex()
			p.dropped++
			return nil, false
		}
		p.sysex = append(p.sysex, b)
		return nil, false
	}
	if p.status == 0 {
		p.dropped++
		return nil, false
	}
	p.data = append(p.data, b)
	if len(p.data) < dataLen(p.status) {
		return nil, false
	}
	msg := append(midi.Message{p.status}, p.data...)
	p.data = nil
	if p.status >= 0xF0 {
		// system common messages do not set running status
		p.status = 0
	}
	return msg, true
}

func (p *streamParser) abortSysex() {
	if p.sysex != nil {
		p.dropped += len(p.sysex)
		p.sysex = nil
	}
}

// dataLen is the number of data bytes following status.
func dataLen(status byte) int {
	switch {
	case status >= 0x80 && status < 0xC0, status >= 0xE0 && status < 0xF0:
		return 2
	case status >= 0xC0 && status < 0xE0:
		return 1
	case status == 0xF1, status == 0xF3:
		return 1
	case status == 0xF2:
		return 2
	}
	return 0
}
