// Package note implements pitch classes and octave-qualified notes.
package note

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNote is returned when a note name cannot be parsed.
var ErrInvalidNote = errors.New("invalid note")

// PitchClass is a pitch's identity modulo octave, as an ordinal 0-11 with C = 0.
type PitchClass int

// Pitch classes, spelled with sharps.
const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

// PitchClassCount is the number of pitch classes in an octave.
const PitchClassCount = 12

var pitchClassNames = [PitchClassCount]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

var letterOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// Valid reports whether pc is within 0-11.
func (pc PitchClass) Valid() bool {
	return pc >= C && pc <= B
}

func (pc PitchClass) String() string {
	if !pc.Valid() {
		return "PitchClass(" + strconv.Itoa(int(pc)) + ")"
	}
	return pitchClassNames[pc]
}

// Distance is anything measured in semitones.
type Distance interface {
	Semitones() int
}

// PitchClassFromInterval returns the pitch class reached by moving up from pc
// by the distance, wrapping at the octave.
func PitchClassFromInterval(pc PitchClass, d Distance) PitchClass {
	return PitchClass(mod(int(pc)+d.Semitones(), PitchClassCount))
}

// Note is a pitch class qualified by an octave number. Middle C is C4.
type Note struct {
	PitchClass PitchClass
	Octave     int
}

// New creates a note from a pitch class ordinal and an octave.
func New(pc PitchClass, octave int) Note {
	return Note{PitchClass: pc, Octave: octave}
}

// FromMIDI converts a MIDI note number (C4 = 60) to a Note.
func FromMIDI(n int) Note {
	return Note{
		PitchClass: PitchClass(mod(n, PitchClassCount)),
		Octave:     floorDiv(n, PitchClassCount) - 1,
	}
}

// MIDI returns the MIDI note number, with C-1 = 0 and C4 = 60.
// The result is not clamped to 0-127.
func (n Note) MIDI() int {
	return (n.Octave+1)*PitchClassCount + int(n.PitchClass)
}

func (n Note) String() string {
	return n.PitchClass.String() + strconv.Itoa(n.Octave)
}

// Parse reads a note name of the form <letter><accidental?><octave>, e.g.
// "C4", "F#3", "Bb2", "C-1". Letters are case-insensitive; the accidental is
// '#' for sharp or 'b' for flat. Accidentals that cross a B/C boundary move
// the octave, so "Cb4" parses as B3.
func Parse(s string) (Note, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Note{}, fmt.Errorf("%w: %q is too short", ErrInvalidNote, s)
	}

	semitone, ok := letterOffsets[strings.ToUpper(s[:1])[0]]
	if !ok {
		return Note{}, fmt.Errorf("%w: invalid letter in %q", ErrInvalidNote, s)
	}

	idx := 1
	switch s[idx] {
	case '#':
		semitone++
		idx++
	case 'b':
		semitone--
		idx++
	}

	if idx >= len(s) {
		return Note{}, fmt.Errorf("%w: missing octave in %q", ErrInvalidNote, s)
	}
	octave, err := strconv.Atoi(s[idx:])
	if err != nil {
		return Note{}, fmt.Errorf("%w: invalid octave in %q", ErrInvalidNote, s)
	}

	return FromMIDI((octave+1)*PitchClassCount + semitone), nil
}

// MustParse is like Parse but panics on error. Intended for tests and tables.
func MustParse(s string) Note {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// MarshalText encodes the note as its name, e.g. "C#4".
func (n Note) MarshalText() ([]byte, error) {
	if !n.PitchClass.Valid() {
		return nil, fmt.Errorf("%w: pitch class %d out of range", ErrInvalidNote, int(n.PitchClass))
	}
	return []byte(n.String()), nil
}

// UnmarshalText decodes a note name.
func (n *Note) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func floorDiv(a, m int) int {
	q := a / m
	if a%m != 0 && a < 0 {
		q--
	}
	return q
}
