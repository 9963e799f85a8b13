package engine

import (
	"fmt"
	"log/slog"
)

const (
	NumStrings    = 4  // playable strings
	StrumRow      = 4  // logical string index of the trigger row
	NumFrets      = 15 // frets 0-14 per string
	NumModules    = 6
	PadsPerModule = 12

	extensionModule = 4 // frets 12-14 of every string, wired in triples
)

// Position is a logical (string, fret) coordinate. String 0-3 are the
// playable strings; String == StrumRow is the trigger row.
type Position struct {
	String int
	Fret   int
}

// LogValue renders the position as s<string>/f<fret> in log lines.
func (p Position) LogValue() slog.Value {
	return slog.StringValue(fmt.Sprintf("s%d/f%d", p.String, p.Fret))
}

// IsStrum reports whether the position lies on the trigger row.
func (p Position) IsStrum() bool { return p.String == StrumRow }

// TouchEvent is a single press/release edge of one physical pad.
type TouchEvent struct {
	Module  int
	Pad     int
	Pressed bool
}

// extensionMap lays out the extension module: pads 0-2 are frets 12-14 of
// string 0, pads 3-5 of string 1, and so on.
var extensionMap = [PadsPerModule]Position{
	{0, 12}, {0, 13}, {0, 14},
	{1, 12}, {1, 13}, {1, 14},
	{2, 12}, {2, 13}, {2, 14},
	{3, 12}, {3, 13}, {3, 14},
}

// MapPad resolves a physical (module, pad) pair to its logical position.
// Modules 0-3 map one to one onto strings 0-3, the extension module is
// looked up in extensionMap and the trigger module becomes the strum row.
// pad must be in [0, PadsPerModule).
func MapPad(module, pad int) Position {
	switch {
	case module < extensionModule:
		return Position{String: module, Fret: pad}
	case module == extensionModule:
		return extensionMap[pad]
	default:
		return Position{String: StrumRow, Fret: pad}
	}
}
