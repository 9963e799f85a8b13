// Package engine turns touch edges from the fretboard into MIDI notes.
//
// An Engine is not safe for concurrent use: State, the registry of
// sounding notes and the most recent fret per string are mutated by every
// call, so a single goroutine must drive it.
package engine

import (
	"log/slog"

	"gitlab.com/gomidi/midi/v2"
)

// Sender is a MIDI output. Sends are fire and forget.
type Sender interface {
	Send(msg midi.Message) error
}

// ccAllNotesOff is the channel mode message silencing a receiver.
const ccAllNotesOff = 123

type Engine struct {
	state  *State
	recent [NumStrings]int
	active *Registry
	sinks  []Sender
	lights Lights
	logger *slog.Logger
}

// New returns an engine driving state. Every note goes to all sinks.
// lights may be nil.
func New(state *State, sinks []Sender, lights Lights, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		state:  state,
		active: NewRegistry(),
		sinks:  sinks,
		lights: lights,
		logger: logger,
	}
}

func (e *Engine) State() *State { return e.state }

// Registry exposes the notes currently sounding per position.
func (e *Engine) Registry() *Registry { return e.active }

// RecentFret is the last fret pressed on string s.
func (e *Engine) RecentFret(s int) int { return e.recent[s] }

// SetControl applies the level of the Set control line. While asserted the
// engine handles events in Set mode; on release it returns to the selected
// mode.
func (e *Engine) SetControl(asserted bool) {
	next := e.state.Selected
	if asserted {
		next = ModeSet
	}
	if next != e.state.Mode {
		e.logger.Info("engine: mode", "from", e.state.Mode, "to", next)
		e.state.Mode = next
	}
}

// HandleTouch maps a physical pad edge onto the fretboard and handles it.
func (e *Engine) HandleTouch(ev TouchEvent) {
	if ev.Module < 0 || ev.Module >= NumModules || ev.Pad < 0 || ev.Pad >= PadsPerModule {
		e.logger.Warn("engine: unknown pad", "module", ev.Module, "pad", ev.Pad)
		return
	}
	e.OnEvent(MapPad(ev.Module, ev.Pad), ev.Pressed)
}

// OnEvent handles one press or release at pos in the current mode.
func (e *Engine) OnEvent(pos Position, pressed bool) {
	if pos.String < 0 || pos.String > StrumRow || pos.Fret < 0 || pos.Fret >= NumFrets {
		e.logger.Warn("engine: position off the board", "pos", pos)
		return
	}
	e.logger.Debug("engine: event", "mode", e.state.Mode, "pos", pos, "pressed", pressed)
	handlerFor(e.state.Mode).handle(e, pos, pressed)
}

// Panic turns off every registered note and sends All Notes Off.
func (e *Engine) Panic() {
	notes := e.active.DrainAll()
	for _, n := range notes {
		e.noteOff(n)
	}
	e.send(midi.ControlChange(e.state.OutChannel(), ccAllNotesOff, 0))
	e.logger.Info("engine: panic release", "notes", len(notes))
}

// noteOn sends a Note On for note and reports whether it was sent. Notes
// outside 0-127 are dropped.
func (e *Engine) noteOn(note int) bool {
	if note < 0 || note > 127 {
		e.logger.Warn("engine: note out of range", "note", note)
		return false
	}
	e.logger.Debug("engine: note on", "note", note, "ch", e.state.Channel)
	e.send(midi.NoteOn(e.state.OutChannel(), uint8(note), e.state.Velocity))
	return true
}

func (e *Engine) noteOff(note int) {
	if note < 0 || note > 127 {
		e.logger.Warn("engine: note out of range", "note", note)
		return
	}
	e.logger.Debug("engine: note off", "note", note, "ch", e.state.Channel)
	e.send(midi.NoteOffVelocity(e.state.OutChannel(), uint8(note), e.state.Velocity))
}

func (e *Engine) send(msg midi.Message) {
	for _, s := range e.sinks {
		if err := s.Send(msg); err != nil {
			e.logger.Warn("engine: send failed", "msg", msg.String(), "err", err)
		}
	}
}

func (e *Engine) setPixel(i int, c RGB) {
	if e.lights != nil {
		e.lights.SetPixel(i, c)
	}
}
