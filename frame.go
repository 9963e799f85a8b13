package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/chase3718/ts10/engine"
)

const (
	CmdTouchState = 0x20
	SOF0          = 0xAA
	SOF1          = 0x55

	touchPayloadLen = engine.NumModules*2 + 1
	touchFrameLen   = 4 + touchPayloadLen + 1

	flagSetLine = 1 << 0
)

var (
	ErrBadChecksum    = errors.New("frame: bad checksum")
	ErrFrameLength    = errors.New("frame: bad length")
	ErrUnknownCommand = errors.New("frame: unknown command")
)

// TouchFrame is a full-state snapshot of every sensor module sent by the
// sensor bridge once per scan.
type TouchFrame struct {
	Touched [engine.NumModules]uint16 // bit N set = pad N touched
	Flags   byte
}

// SetLine reports whether the Set control line is asserted.
func (f TouchFrame) SetLine() bool { return f.Flags&flagSetLine != 0 }

// Encode builds the on-wire representation:
//
//	[SOF0][SOF1][LEN][CMD][mask0 lo][mask0 hi]..[mask5 lo][mask5 hi][FLAGS][CKS]
func (f *TouchFrame) Encode() []byte {
	payload := make([]byte, 0, touchPayloadLen)
	for _, m := range f.Touched {
		payload = append(payload, byte(m), byte(m>>8))
	}
	payload = append(payload, f.Flags)

	length := byte(len(payload) + 1) // +1 for CMD byte
	out := []byte{SOF0, SOF1, length, CmdTouchState}
	out = append(out, payload...)
	return append(out, checksum(length, CmdTouchState, payload))
}

func checksum(length, cmd byte, payload []byte) byte {
	cks := length ^ cmd
	for _, b := range payload {
		cks ^= b
	}
	return cks
}

// FrameDecoder reassembles TouchFrames from a serial byte stream. Garbage
// between frames is skipped; a corrupt frame is reported and dropped.
type FrameDecoder struct {
	buf []byte
}

// Feed appends data and returns every complete frame it finishes, plus an
// error for each frame that had to be dropped.
func (d *FrameDecoder) Feed(data []byte) ([]TouchFrame, []error) {
	d.buf = append(d.buf, data...)
	var (
		frames []TouchFrame
		errs   []error
	)
	for {
		i := bytes.Index(d.buf, []byte{SOF0, SOF1})
		if i < 0 {
			// keep a trailing SOF0, it may start the next frame
			if n := len(d.buf); n > 0 && d.buf[n-1] == SOF0 {
				d.buf = d.buf[n-1:]
			} else {
				d.buf = d.buf[:0]
			}
			return frames, errs
		}
		d.buf = d.buf[i:]
		if len(d.buf) < 3 {
			return frames, errs
		}
		if int(d.buf[2]) != touchPayloadLen+1 {
			errs = append(errs, fmt.Errorf("%w: %d", ErrFrameLength, d.buf[2]))
			d.buf = d.buf[2:]
			continue
		}
		if len(d.buf) < touchFrameLen {
			return frames, errs
		}
		raw := d.buf[:touchFrameLen]
		payload := raw[4 : 4+touchPayloadLen]
		if cks := checksum(raw[2], raw[3], payload); cks != raw[touchFrameLen-1] {
			errs = append(errs, fmt.Errorf("%w: got %#02x want %#02x", ErrBadChecksum, raw[touchFrameLen-1], cks))
			d.buf = d.buf[2:]
			continue
		}
		if raw[3] != CmdTouchState {
			errs = append(errs, fmt.Errorf("%w: %#02x", ErrUnknownCommand, raw[3]))
			d.buf = d.buf[touchFrameLen:]
			continue
		}
		var f TouchFrame
		for m := range f.Touched {
			f.Touched[m] = uint16(payload[2*m]) | uint16(payload[2*m+1])<<8
		}
		f.Flags = payload[touchPayloadLen-1]
		frames = append(frames, f)
		d.buf = d.buf[touchFrameLen:]
	}
}
