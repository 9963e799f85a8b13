package engine

// Registry tracks which notes are sounding because of which position, so
// a release can turn off exactly the notes it started. Entries are created
// on first use and removed when drained.
type Registry struct {
	notes map[Position][]int
}

func NewRegistry() *Registry {
	return &Registry{notes: make(map[Position][]int)}
}

// Record appends note to the notes sounding for pos.
func (r *Registry) Record(pos Position, note int) {
	r.notes[pos] = append(r.notes[pos], note)
}

// Drain removes and returns the notes of pos in the order they were
// recorded.
func (r *Registry) Drain(pos Position) []int {
	notes := r.notes[pos]
	delete(r.notes, pos)
	return notes
}

// DrainGroup drains every position in order and concatenates the result.
func (r *Registry) DrainGroup(positions []Position) []int {
	var out []int
	for _, p := range positions {
		out = append(out, r.Drain(p)...)
	}
	return out
}

// DrainAll empties the registry. Notes come back string by string, fret
// by fret.
func (r *Registry) DrainAll() []int {
	var out []int
	for s := 0; s < NumStrings; s++ {
		out = append(out, r.DrainGroup(StringPositions(s))...)
	}
	for pos := range r.notes {
		out = append(out, r.Drain(pos)...)
	}
	return out
}

// Notes returns a copy of the notes recorded for pos.
func (r *Registry) Notes(pos Position) []int {
	return append([]int(nil), r.notes[pos]...)
}

// Len is the total number of sounding notes.
func (r *Registry) Len() int {
	n := 0
	for _, notes := range r.notes {
		n += len(notes)
	}
	return n
}

// StringPositions lists every fret of string s.
func StringPositions(s int) []Position {
	out := make([]Position, NumFrets)
	for f := range out {
		out[f] = Position{String: s, Fret: f}
	}
	return out
}
