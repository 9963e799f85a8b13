package main

import (
	"io"

	"github.com/chase3718/ts10/engine"
)

const padMask = 1<<engine.PadsPerModule - 1

// TouchScanner turns successive full-state frames into press/release edges.
type TouchScanner struct {
	prev   [engine.NumModules]uint16
	primed bool
}

// Diff returns one event per pad whose state changed since the previous
// frame, module by module, pad by pad. The first frame only sets the
// baseline.
func (s *TouchScanner) Diff(f TouchFrame) []engine.TouchEvent {
	var out []engine.TouchEvent
	for m, cur := range f.Touched {
		cur &= padMask
		if s.primed {
			changed := cur ^ s.prev[m]
			for pad := 0; pad < engine.PadsPerModule; pad++ {
				if changed&(1<<pad) != 0 {
					out = append(out, engine.TouchEvent{Module: m, Pad: pad, Pressed: cur&(1<<pad) != 0})
				}
			}
		}
		s.prev[m] = cur
	}
	s.primed = true
	return out
}

// Scan is the outcome of one sensor frame.
type Scan struct {
	SetLine bool
	Events  []engine.TouchEvent
}

// SensorBridge reads touch frames from the sensor bridge link.
type SensorBridge struct {
	r       io.Reader
	dec     FrameDecoder
	scanner TouchScanner
	buf     []byte
}

func NewSensorBridge(r io.Reader) *SensorBridge {
	return &SensorBridge{r: r, buf: make([]byte, 256)}
}

// Poll reads whatever the bridge has sent since the last call. Corrupt
// frames and read errors are logged and skipped.
func (b *SensorBridge) Poll() []Scan {
	n, err := b.r.Read(b.buf)
	if err != nil && err != io.EOF {
		logger.Warn("sensors: read failed", "err", err)
	}
	if n == 0 {
		return nil
	}
	frames, errs := b.dec.Feed(b.buf[:n])
	for _, e := range errs {
		logger.Warn("sensors: frame dropped", "err", e)
	}
	scans := make([]Scan, 0, len(frames))
	for _, f := range frames {
		scans = append(scans, Scan{SetLine: f.SetLine(), Events: b.scanner.Diff(f)})
	}
	return scans
}
