package engine

// Rows of the fretboard used in Set mode.
const (
	rowMode      = 1
	rowTuning    = 2
	rowTranspose = 3
)

// Frets with a fixed meaning in Set mode.
const (
	fretDown = 13
	fretUp   = 14
)

type handler interface {
	handle(e *Engine, pos Position, pressed bool)
}

var handlers = [numModes]handler{
	ModeSet:           setMode{},
	ModeFreeplay:      directMode{},
	ModePluck:         strumMode{},
	ModeExtendedStrum: strumMode{extended: true},
	ModeChord:         chordMode{},
	ModeOrgan:         directMode{},
}

func handlerFor(m Mode) handler {
	if m < 0 || m >= numModes {
		return chordMode{}
	}
	return handlers[m]
}

// directMode plays the note under the finger for as long as it is held.
// Freeplay and Organ differ only in how State.Resolve picks the note.
// Releases turn off the notes recorded at press time, so a transpose
// change while a fret is held cannot leave a note hanging.
type directMode struct{}

func (directMode) handle(e *Engine, pos Position, pressed bool) {
	if pos.IsStrum() {
		return
	}
	if !pressed {
		for _, n := range e.active.Drain(pos) {
			e.noteOff(n)
		}
		return
	}
	note, ok := e.state.Resolve(pos)
	if !ok {
		return
	}
	if e.noteOn(note) {
		e.active.Record(pos, note)
		e.setPixel(pos.String, FretColor(pos.Fret))
	}
}

// strumMode holds frets on the strings and sounds them from the trigger
// row. The extended variant turns every trigger pad into a strum.
type strumMode struct {
	extended bool
}

func (m strumMode) handle(e *Engine, pos Position, pressed bool) {
	if !pos.IsStrum() {
		if pressed {
			e.recent[pos.String] = pos.Fret
			return
		}
		for _, n := range e.active.Drain(pos) {
			e.noteOff(n)
		}
		return
	}

	sp := StrumPadFor(pos.Fret, m.extended)
	if !sp.Active {
		return
	}
	if !pressed {
		// Releasing a trigger silences everything its string is sounding,
		// whichever fret or trigger started it.
		for _, n := range e.active.DrainGroup(StringPositions(sp.String)) {
			e.noteOff(n)
		}
		return
	}
	target := Position{String: sp.String, Fret: e.recent[sp.String]}
	base, ok := e.state.Resolve(target)
	if !ok {
		return
	}
	note := base + sp.Offset
	if !e.noteOn(note) {
		return
	}
	e.active.Record(target, note)
	e.setPixel(sp.String, FretColor(pos.Fret))
}

// chordMode is reserved; it discards every event.
type chordMode struct{}

func (chordMode) handle(*Engine, Position, bool) {}

// setMode edits the performance state on press. The strum row and all
// releases are ignored.
type setMode struct{}

func (setMode) handle(e *Engine, pos Position, pressed bool) {
	if pos.IsStrum() || !pressed {
		return
	}
	s := e.state
	switch pos.String {
	case rowMode:
		switch {
		case pos.Fret < len(Modes)-1:
			s.Selected = Modes[pos.Fret+1]
			e.logger.Info("engine: mode selected", "mode", s.Selected)
		case pos.Fret == fretDown:
			e.changeChannel(-1)
		case pos.Fret == fretUp:
			e.changeChannel(1)
		}
	case rowTuning:
		if pos.Fret < selectablePresets {
			s.Tuning = Presets[pos.Fret]
			e.logger.Info("engine: tuning", "tuning", s.Tuning.Name, "offsets", s.Tuning.Offsets)
		}
	case rowTranspose:
		switch {
		case pos.Fret < fretDown:
			s.SetPitchClass(pos.Fret)
		case pos.Fret == fretDown:
			s.ShiftOctave(-1)
		case pos.Fret == fretUp:
			s.ShiftOctave(1)
		}
		e.logger.Info("engine: transpose", "transpose", s.Transpose)
	}
}

func (e *Engine) changeChannel(delta int) {
	e.state.SetChannel(e.state.Channel + delta)
	e.logger.Info("engine: midi channel", "channel", e.state.Channel)
	for i, c := range ChannelPattern(e.state.Channel) {
		e.setPixel(i, c)
	}
}
