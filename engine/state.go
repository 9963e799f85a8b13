package engine

import "fmt"

// Mode is the playing mode of the controller.
type Mode int

const (
	ModeSet Mode = iota
	ModeFreeplay
	ModePluck
	ModeExtendedStrum
	ModeChord
	ModeOrgan

	numModes
)

// Modes lists every mode in selection order. Set mode picks Modes[fret+1].
var Modes = [numModes]Mode{ModeSet, ModeFreeplay, ModePluck, ModeExtendedStrum, ModeChord, ModeOrgan}

var modeNames = [numModes]string{"set", "freeplay", "pluck", "extended-strum", "chord", "organ"}

func (m Mode) String() string {
	if m < 0 || m >= numModes {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Tuning assigns a base pitch to each playable string.
type Tuning struct {
	Name    string
	Offsets [NumStrings]int
}

// Tuning presets. BASS is EADG, GUITAR the top four guitar strings, VIOLIN
// fifths from G, OCTAVE stacks strings an octave apart and FULL gives every
// pad its own note.
var (
	TuningBass   = Tuning{"bass", [NumStrings]int{19, 14, 9, 4}}
	TuningGuitar = Tuning{"guitar", [NumStrings]int{28, 23, 19, 14}}
	TuningViolin = Tuning{"violin", [NumStrings]int{40, 33, 26, 19}}
	TuningOctave = Tuning{"octave", [NumStrings]int{36, 24, 12, 0}}
	TuningFull   = Tuning{"full", [NumStrings]int{45, 30, 15, 0}}

	Presets = [...]Tuning{TuningBass, TuningGuitar, TuningViolin, TuningOctave, TuningFull}
)

// selectablePresets is how many presets the tuning row can reach.
const selectablePresets = 3

// OrganKey is one key of an organ manual. Keys that do not exist on the
// manual are not Sounding and carry no note.
type OrganKey struct {
	Note     int
	Sounding bool
}

// OrganTable maps every fretted position to an organ key.
type OrganTable [NumStrings][NumFrets]OrganKey

func key(n int) OrganKey { return OrganKey{Note: n, Sounding: true} }

var silent = OrganKey{}

// Bimanual lays the strings out as two keyboard manuals: strings 1 and 3
// are white keys, strings 0 and 2 the black keys above them.
var Bimanual = OrganTable{
	{key(13), key(15), silent, key(18), key(20), key(22), silent, key(25), key(27), silent, key(30), key(32), key(34), silent, key(37)},
	{key(12), key(14), key(16), key(17), key(19), key(21), key(23), key(24), key(26), key(28), key(29), key(31), key(33), key(35), key(36)},
	{key(1), key(3), silent, key(6), key(8), key(10), silent, key(13), key(15), silent, key(18), key(20), key(22), silent, key(25)},
	{key(0), key(2), key(4), key(5), key(7), key(9), key(11), key(12), key(14), key(16), key(17), key(19), key(21), key(23), key(24)},
}

const (
	DefaultTranspose = 36
	DefaultVelocity  = 127
	DefaultChannel   = 1

	MinChannel = 1
	MaxChannel = 16
)

// State is the mutable session configuration. It is owned by a single
// Engine and must only be mutated from the goroutine driving it.
type State struct {
	// Mode is the mode events are currently handled in.
	Mode Mode
	// Selected is the mode restored when the Set line is released.
	Selected  Mode
	Tuning    Tuning
	Transpose int
	Velocity  uint8
	Channel   int
	Organ     *OrganTable
}

// NewState returns the power-on defaults.
func NewState() *State {
	return &State{
		Mode:      ModeFreeplay,
		Selected:  ModeFreeplay,
		Tuning:    TuningBass,
		Transpose: DefaultTranspose,
		Velocity:  DefaultVelocity,
		Channel:   DefaultChannel,
		Organ:     &Bimanual,
	}
}

// SetChannel stores c clamped to [MinChannel, MaxChannel].
func (s *State) SetChannel(c int) {
	s.Channel = min(max(c, MinChannel), MaxChannel)
}

// OutChannel is the zero-based channel used on the wire.
func (s *State) OutChannel() uint8 {
	return uint8(s.Channel - 1)
}

// SetPitchClass moves transpose to pitch class pc of its current octave.
func (s *State) SetPitchClass(pc int) {
	s.Transpose = octaveBase(s.Transpose) + pc
}

// ShiftOctave nudges transpose by whole octaves.
func (s *State) ShiftOctave(octaves int) {
	s.Transpose += 12 * octaves
}

// octaveBase rounds t down to a multiple of 12, towards negative infinity.
func octaveBase(t int) int {
	q := t / 12
	if t%12 < 0 {
		q--
	}
	return q * 12
}
