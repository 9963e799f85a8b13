package main

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"gitlab.com/gomidi/midi/v2"

	"github.com/chase3718/ts10/engine"
)

// chunks hands out one queued chunk per Read, then nothing.
type chunks struct {
	queue [][]byte
}

func (c *chunks) push(frames ...TouchFrame) {
	var b []byte
	for _, f := range frames {
		b = append(b, f.Encode()...)
	}
	c.queue = append(c.queue, b)
}

func (c *chunks) Read(p []byte) (int, error) {
	if len(c.queue) == 0 {
		return 0, nil
	}
	n := copy(p, c.queue[0])
	c.queue[0] = c.queue[0][n:]
	if len(c.queue[0]) == 0 {
		c.queue = c.queue[1:]
	}
	return n, nil
}

// fakePort records sends and replays queued input.
type fakePort struct {
	sent  []midi.Message
	input []midi.Message
	ticks int
}

func (f *fakePort) Send(msg midi.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakePort) Receive() (midi.Message, bool) {
	if len(f.input) == 0 {
		return nil, false
	}
	msg := f.input[0]
	f.input = f.input[1:]
	return msg, true
}

func (f *fakePort) Tick() { f.ticks++ }

func (f *fakePort) noteOns() []uint8 {
	var out []uint8
	for _, m := range f.sent {
		var ch, key, vel uint8
		if m.GetNoteOn(&ch, &key, &vel) {
			out = append(out, key)
		}
	}
	return out
}

type harness struct {
	c        *Controller
	src      *chunks
	usb, din *fakePort
	eng      *engine.Engine
	out      *bytes.Buffer
}

func newHarness() *harness {
	h := &harness{src: &chunks{}, usb: &fakePort{}, din: &fakePort{}, out: &bytes.Buffer{}}
	panel := NewLEDPanel(h.out)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.eng = engine.New(engine.NewState(), []engine.Sender{h.usb, h.din}, panel, quiet)
	h.c = &Controller{
		engine:  h.eng,
		sensors: NewSensorBridge(h.src),
		hotplug: h.usb,
		bridge:  NewBridge(h.usb, h.din),
		panel:   panel,
	}
	return h
}

func touched(module int, pads ...int) TouchFrame {
	var f TouchFrame
	for _, p := range pads {
		f.Touched[module] |= 1 << p
	}
	return f
}

func TestControllerFreeplay(t *testing.T) {
	h := newHarness()
	h.src.push(TouchFrame{}) // baseline
	h.c.Step()
	h.src.push(touched(0, 0))
	h.c.Step()

	if got := h.usb.noteOns(); len(got) != 1 || got[0] != 55 {
		t.Fatalf("usb note ons = %v, want [55]", got)
	}
	if got := h.din.noteOns(); len(got) != 1 || got[0] != 55 {
		t.Fatalf("din note ons = %v, want [55]", got)
	}
	if h.out.Len() == 0 {
		t.Error("indicator panel not flushed")
	}

	h.src.push(TouchFrame{})
	h.c.Step()
	var ch, key, vel uint8
	last := h.usb.sent[len(h.usb.sent)-1]
	if !last.GetNoteOff(&ch, &key, &vel) || key != 55 || vel != 127 {
		t.Errorf("last message = %v, want note off 55", last)
	}
	if h.usb.ticks != 3 {
		t.Errorf("hot-plug ticked %d times, want 3", h.usb.ticks)
	}
}

func TestControllerBaselineFrameIsSilent(t *testing.T) {
	h := newHarness()
	h.src.push(touched(0, 0, 1, 2))
	h.c.Step()
	if len(h.usb.sent) != 0 {
		t.Errorf("sent %v on the first frame", h.usb.sent)
	}
}

func TestControllerSetLine(t *testing.T) {
	h := newHarness()
	h.src.push(TouchFrame{})
	h.c.Step()

	set := touched(1, 1) // mode row, fret 1: pluck
	set.Flags = flagSetLine
	h.src.push(set)
	h.c.Step()
	if h.eng.State().Mode != engine.ModeSet || h.eng.State().Selected != engine.ModePluck {
		t.Fatalf("state = %+v", *h.eng.State())
	}

	h.src.push(TouchFrame{})
	h.c.Step()
	if h.eng.State().Mode != engine.ModePluck {
		t.Errorf("mode = %v after release, want pluck", h.eng.State().Mode)
	}
	if len(h.usb.sent) != 0 {
		t.Errorf("set mode sent %v", h.usb.sent)
	}
}

func TestControllerStrumViaTriggerModule(t *testing.T) {
	h := newHarness()
	h.eng.State().Mode = engine.ModePluck
	h.eng.State().Selected = engine.ModePluck
	h.src.push(TouchFrame{})
	h.c.Step()

	f := touched(0, 5)
	h.src.push(f)
	f.Touched[5] = 1 << 0
	h.src.push(f)
	h.c.Step()
	h.c.Step()

	if got := h.usb.noteOns(); len(got) != 1 || got[0] != 60 {
		t.Fatalf("note ons = %v, want [60]", got)
	}
}

func TestBridgePassThrough(t *testing.T) {
	usb := &fakePort{input: []midi.Message{midi.ControlChange(0, 1, 64), midi.NoteOn(3, 40, 90)}}
	din := &fakePort{input: []midi.Message{midi.Message{0xF8}}}
	n := NewBridge(usb, din).Pump()
	if n != 3 {
		t.Errorf("forwarded %d, want 3", n)
	}
	if len(din.sent) != 2 || !bytes.Equal(din.sent[1], midi.NoteOn(3, 40, 90)) {
		t.Errorf("din got %v", din.sent)
	}
	if len(usb.sent) != 1 || !bytes.Equal(usb.sent[0], []byte{0xF8}) {
		t.Errorf("usb got %v", usb.sent)
	}
}

func TestTouchScannerOrder(t *testing.T) {
	var s TouchScanner
	s.Diff(touched(2, 3))
	next := touched(0, 11)
	next.Touched[2] = 1<<1 | 1<<15 // bit 15 is not a pad
	got := s.Diff(next)
	want := []engine.TouchEvent{
		{Module: 0, Pad: 11, Pressed: true},
		{Module: 2, Pad: 1, Pressed: true},
		{Module: 2, Pad: 3, Pressed: false},
	}
	if len(got) != len(want) {
		t.Fatalf("events = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSplitPatterns(t *testing.T) {
	got := splitPatterns(" Launchkey, ,TS10 ")
	if len(got) != 2 || got[0] != "Launchkey" || got[1] != "TS10" {
		t.Errorf("splitPatterns = %q", got)
	}
	if got := splitPatterns(""); len(got) != 0 {
		t.Errorf("splitPatterns(\"\") = %q", got)
	}
}
