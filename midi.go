package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// -------------------- Hot-swap config --------------------

// EXCLUDED_PATTERNS: virtual/system ports that are never auto-connected.
var EXCLUDED_PATTERNS = []string{"Midi Through", "Through Port", "Dummy"}

const midiRescanInterval = 1000 * time.Millisecond

// incomingBuffer bounds the messages queued between listener and loop.
const incomingBuffer = 64

// -------------------- USBPort --------------------

// USBPort is the USB side of the controller: a MIDI input and output pair
// that follows the preferred device across hot-plug and hot-unplug.
//
// Received messages are queued by the rtmidi listener goroutine and handed
// to the poll loop by Receive; sends while no device is connected are
// dropped.
type USBPort struct {
	mu           sync.Mutex
	drv          *rtmididrv.Driver
	inPort       drivers.In
	outPort      drivers.Out
	send         func(midi.Message) error
	stopFn       func()
	connected    bool
	selectedName string
	lastRescanAt time.Time
	preferred    []string

	incoming chan midi.Message
}

// NewUSBPort initialises the rtmidi driver. preferred lists name patterns
// tried in order; with none matching, a lone port is used. Call Close()
// when done.
func NewUSBPort(preferred []string) (*USBPort, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	return &USBPort{
		drv:       drv,
		preferred: preferred,
		incoming:  make(chan midi.Message, incomingBuffer),
	}, nil
}

// Close shuts down the active MIDI connection and the rtmidi driver.
func (m *USBPort) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeConn()
	m.drv.Close()
}

// Send writes msg to the connected output.
func (m *USBPort) Send(msg midi.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.send == nil {
		return nil
	}
	if err := m.send(msg); err != nil {
		return fmt.Errorf("midi: send %s: %w", msg, err)
	}
	return nil
}

// Receive returns the next queued input message without blocking.
func (m *USBPort) Receive() (midi.Message, bool) {
	select {
	case msg := <-m.incoming:
		return msg, true
	default:
		return nil, false
	}
}

// Tick should be called from the poll loop. At most once per rescan
// interval it scans for devices, auto-connects to a preferred one, and
// detects disappearances.
func (m *USBPort) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if !m.lastRescanAt.IsZero() && now.Sub(m.lastRescanAt) < midiRescanInterval {
		return
	}
	m.lastRescanAt = now

	inputs := m.listInputs()

	if m.connected {
		for _, n := range inputs {
			if n == m.selectedName {
				return
			}
		}
		logger.Warn("midi: device disappeared", "device", m.selectedName)
		m.closeConn()
		m.lastRescanAt = time.Time{} // rescan immediately next tick
		return
	}

	if len(inputs) == 0 {
		return
	}
	cand, ok := pickPreferred(m.preferred, inputs)
	if !ok {
		return
	}
	if err := m.openByName(cand); err != nil {
		logger.Error("midi: connect failed", "device", cand, "err", err)
	}
}

// -------------------- internal --------------------

func (m *USBPort) listInputs() []string {
	ins, err := m.drv.Ins()
	if err != nil {
		logger.Error("midi: list inputs failed", "err", err)
		return nil
	}
	var names []string
	for _, in := range ins {
		names = append(names, in.String())
	}
	names = excludeVirtual(names)
	logger.Debug("midi: inputs found", "count", len(names), "devices", strings.Join(names, ", "))
	return names
}

func excludeVirtual(names []string) []string {
	var out []string
	for _, name := range names {
		excluded := false
		for _, pat := range EXCLUDED_PATTERNS {
			if containsCI(name, pat) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, name)
		}
	}
	return out
}

func pickPreferred(patterns, names []string) (string, bool) {
	for _, pat := range patterns {
		for _, name := range names {
			if containsCI(name, pat) {
				return name, true
			}
		}
	}
	if len(names) == 1 {
		return names[0], true
	}
	return "", false
}

func (m *USBPort) closeConn() {
	if m.stopFn != nil {
		m.stopFn()
		m.stopFn = nil
	}
	if m.inPort != nil {
		_ = m.inPort.Close()
		m.inPort = nil
	}
	if m.outPort != nil {
		_ = m.outPort.Close()
		m.outPort = nil
	}
	m.send = nil
	m.connected = false
	m.selectedName = ""
}

// findOut picks the output belonging to the input called name. Drivers
// often name the two halves slightly differently, so an exact match is
// tried first and then the preferred patterns.
func (m *USBPort) findOut(name string) drivers.Out {
	outs, err := m.drv.Outs()
	if err != nil {
		logger.Error("midi: list outputs failed", "err", err)
		return nil
	}
	var names []string
	for _, out := range outs {
		if out.String() == name {
			return out
		}
		names = append(names, out.String())
	}
	cand, ok := pickPreferred(m.preferred, excludeVirtual(names))
	if !ok {
		return nil
	}
	for _, out := range outs {
		if out.String() == cand {
			return out
		}
	}
	return nil
}

func (m *USBPort) openByName(name string) error {
	ins, err := m.drv.Ins()
	if err != nil {
		return err
	}
	var found drivers.In
	for _, in := range ins {
		if in.String() == name {
			found = in
			break
		}
	}
	if found == nil {
		return fmt.Errorf("input %q not found", name)
	}
	if err := found.Open(); err != nil {
		return fmt.Errorf("open %q: %w", name, err)
	}

	stop, err := midi.ListenTo(found, func(msg midi.Message, _ int32) {
		msg = append(midi.Message(nil), msg...)
		select {
		case m.incoming <- msg:
		default:
			logger.Warn("midi: input queue full, message dropped", "msg", msg.String())
		}
	}, midi.UseSysEx(), midi.HandleError(func(listenErr error) {
		logger.Warn("midi: listener error", "device", name, "err", listenErr)
		// Must not call closeConn from within the listener goroutine, so
		// we dispatch to a new goroutine and re-acquire the mutex.
		go func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if m.connected && m.selectedName == name {
				m.closeConn()
				m.lastRescanAt = time.Time{} // trigger immediate rescan
			}
		}()
	}))
	if err != nil {
		_ = found.Close()
		return fmt.Errorf("listen %q: %w", name, err)
	}
	m.inPort = found
	m.stopFn = stop

	if out := m.findOut(name); out != nil {
		send, err := midi.SendTo(out)
		if err != nil {
			logger.Error("midi: output open failed", "device", out.String(), "err", err)
		} else {
			m.outPort = out
			m.send = send
		}
	} else {
		logger.Warn("midi: no output for device, sends dropped", "device", name)
	}

	m.connected = true
	m.selectedName = name
	logger.Info("midi: connected", "device", name, "output", m.outPort != nil)
	return nil
}

// -------------------- utility --------------------

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
