// Package interval classifies semitone distances into music-theory intervals
// and transposes notes by them.
package interval

import (
	"errors"
	"fmt"
)

// ErrInvalidInterval is returned for semitone counts outside 0-12 and for
// empty semitone lists.
var ErrInvalidInterval = errors.New("invalid interval")

// MaxSemitones is the largest classifiable distance: one octave.
const MaxSemitones = 12

// Interval is a classified distance between two pitches.
//
// The zero value (0 semitones, Major, Unison, no step) is a placeholder only.
// It is not the musical unison, which is Perfect; use FromSemitone(0) for that.
type Interval struct {
	SemitoneCount int     `json:"semitone_count" yaml:"semitone_count"`
	Quality       Quality `json:"quality" yaml:"quality"`
	Number        Number  `json:"number" yaml:"number"`
	Step          Step    `json:"step,omitempty" yaml:"step,omitempty"`
}

type classification struct {
	number  Number
	quality Quality
	step    Step
}

// table is indexed by semitone count.
var table = [MaxSemitones + 1]classification{
	{Unison, Perfect, NoStep},
	{Second, Minor, Half},
	{Second, Major, Whole},
	{Third, Minor, NoStep},
	{Third, Major, NoStep},
	{Fourth, Perfect, NoStep},
	{Fifth, Diminished, Tritone},
	{Fifth, Perfect, NoStep},
	{Sixth, Minor, NoStep},
	{Sixth, Major, NoStep},
	{Seventh, Minor, NoStep},
	{Seventh, Major, NoStep},
	{Octave, Perfect, NoStep},
}

// New builds an Interval from raw fields without checking them against the
// classification table. Callers are responsible for consistency; see
// Consistent.
func New(semitones int, q Quality, n Number, s Step) Interval {
	return Interval{
		SemitoneCount: semitones,
		Quality:       q,
		Number:        n,
		Step:          s,
	}
}

// FromSemitone classifies a semitone count in 0-12.
func FromSemitone(semitones int) (Interval, error) {
	if semitones < 0 || semitones > MaxSemitones {
		return Interval{}, ErrInvalidInterval
	}
	c := table[semitones]
	return Interval{
		SemitoneCount: semitones,
		Quality:       c.quality,
		Number:        c.number,
		Step:          c.step,
	}, nil
}

// FromSemitones classifies each count in order. An empty list is invalid.
// The first invalid element aborts the whole call.
func FromSemitones(semitones []int) ([]Interval, error) {
	if len(semitones) == 0 {
		return nil, fmt.Errorf("%w: no semitones given", ErrInvalidInterval)
	}

	intervals := make([]Interval, 0, len(semitones))
	for i, s := range semitones {
		iv, err := FromSemitone(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %d at position %d", err, s, i)
		}
		intervals = append(intervals, iv)
	}
	return intervals, nil
}

// Semitones returns the semitone count.
func (iv Interval) Semitones() int {
	return iv.SemitoneCount
}

// HasStep reports whether the interval carries a step label.
func (iv Interval) HasStep() bool {
	return iv.Step.Valid()
}

// Consistent reports whether the fields agree with the classification table.
func (iv Interval) Consistent() bool {
	want, err := FromSemitone(iv.SemitoneCount)
	if err != nil {
		return false
	}
	return want == iv
}

// Name returns the long name, e.g. "Major Third".
func (iv Interval) Name() string {
	return iv.Quality.String() + " " + iv.Number.String()
}

// ShortName returns the conventional abbreviation, e.g. "M3", "P5", "d5".
func (iv Interval) ShortName() string {
	return qualityAbbrev[iv.Quality] + fmt.Sprint(iv.Number.Ordinal())
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s (%d)", iv.Name(), iv.SemitoneCount)
}
