// Package voicing builds note sequences from a root and stacked semitone
// steps, and manages the saved voicing library.
package voicing

import (
	"fmt"
	"strconv"
	"time"

	"github.com/starford/tonic/internal/apperr"
	"github.com/starford/tonic/internal/checksum"
	"github.com/starford/tonic/internal/interval"
	"github.com/starford/tonic/internal/note"
)

// Voicing is a root with its classified steps and the resulting notes.
type Voicing struct {
	ID        string              `json:"id,omitempty"`
	Name      string              `json:"name,omitempty"`
	Formula   string              `json:"formula,omitempty"`
	Root      note.Note           `json:"root"`
	Steps     []int               `json:"steps"`
	Intervals []interval.Interval `json:"intervals"`
	Notes     []note.Note         `json:"notes"`
	Checksum  string              `json:"checksum"`
	CreatedAt *time.Time          `json:"created_at,omitempty"`
}

// Build classifies steps and chains them from root. Invalid steps wrap both
// apperr.ErrInvalidInput and interval.ErrInvalidInterval.
func Build(root note.Note, steps []int) (Voicing, error) {
	if !root.PitchClass.Valid() {
		return Voicing{}, fmt.Errorf("%w: %w: %d", apperr.ErrInvalidInput, note.ErrInvalidNote, int(root.PitchClass))
	}
	ivs, err := interval.FromSemitones(steps)
	if err != nil {
		return Voicing{}, fmt.Errorf("%w: %w", apperr.ErrInvalidInput, err)
	}
	return Voicing{
		Root:      root,
		Steps:     append([]int(nil), steps...),
		Intervals: ivs,
		Notes:     interval.ToNotes(root, ivs),
		Checksum:  Checksum(root, steps),
	}, nil
}

// Checksum identifies a root and step list.
func Checksum(root note.Note, steps []int) string {
	parts := make([]string, 0, len(steps)+1)
	parts = append(parts, root.String())
	for _, s := range steps {
		parts = append(parts, strconv.Itoa(s))
	}
	return checksum.Combine(parts...)
}
