package engine

// Resolve computes the MIDI note for a fretted position under the current
// mode, tuning and transpose. ok is false for organ keys that do not exist
// and for positions off the fretboard (the trigger row included).
//
// The result is not clamped to 0-127.
func (s *State) Resolve(pos Position) (note int, ok bool) {
	if pos.String < 0 || pos.String >= NumStrings || pos.Fret < 0 || pos.Fret >= NumFrets {
		return 0, false
	}
	if s.Mode == ModeOrgan {
		k := s.Organ[pos.String][pos.Fret]
		if !k.Sounding {
			return 0, false
		}
		return s.Transpose + k.Note, true
	}
	return s.Transpose + s.Tuning.Offsets[pos.String] + pos.Fret, true
}

// StrumPad describes a trigger-row pad: the string whose most recent fret
// it sounds and the interval added on top of that note.
type StrumPad struct {
	String int
	Offset int
	Active bool
}

func strum(str, offset int) StrumPad { return StrumPad{String: str, Offset: offset, Active: true} }

// strumPads covers the trigger row. Pads 0, 3, 6 and 9 sound each string
// as fretted; the pads between them add an octave or a fifth.
var strumPads = [PadsPerModule]StrumPad{
	strum(0, 0),
	strum(1, 12), strum(1, 7), strum(1, 0),
	strum(2, 12), strum(2, 7), strum(2, 0),
	strum(3, 12), strum(3, 7), strum(3, 0),
}

// pluckPads marks the four trigger pads used in Pluck mode.
var pluckPads = [PadsPerModule]bool{0: true, 3: true, 6: true, 9: true}

// StrumPadFor returns the trigger description of a trigger-row pad. In
// Pluck mode only the four base pads are triggers.
func StrumPadFor(pad int, extended bool) StrumPad {
	if pad < 0 || pad >= PadsPerModule {
		return StrumPad{}
	}
	if !extended && !pluckPads[pad] {
		return StrumPad{}
	}
	return strumPads[pad]
}
