package interval

import (
	"fmt"
	"strconv"
	"strings"
)

// Quality describes an interval's character independent of its size.
//
// Major is the zero value so that Interval{} matches the documented default
// placeholder.
type Quality int

// Interval qualities.
const (
	Major Quality = iota
	Minor
	Perfect
	Augmented
	Diminished
)

var qualityNames = map[Quality]string{
	Perfect:    "Perfect",
	Major:      "Major",
	Minor:      "Minor",
	Augmented:  "Augmented",
	Diminished: "Diminished",
}

var qualityAbbrev = map[Quality]string{
	Perfect:    "P",
	Major:      "M",
	Minor:      "m",
	Augmented:  "A",
	Diminished: "d",
}

func (q Quality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return "Quality(" + strconv.Itoa(int(q)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (q Quality) MarshalText() ([]byte, error) {
	if _, ok := qualityNames[q]; !ok {
		return nil, fmt.Errorf("interval: unknown quality %d", int(q))
	}
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Matching is case-insensitive.
func (q *Quality) UnmarshalText(text []byte) error {
	for k, name := range qualityNames {
		if strings.EqualFold(name, string(text)) {
			*q = k
			return nil
		}
	}
	return fmt.Errorf("interval: unknown quality %q", text)
}

// Number is the diatonic size class of an interval.
type Number int

// Interval numbers.
const (
	Unison Number = iota
	Second
	Third
	Fourth
	Fifth
	Sixth
	Seventh
	Octave
)

var numberNames = [...]string{
	"Unison", "Second", "Third", "Fourth", "Fifth", "Sixth", "Seventh", "Octave",
}

func (n Number) valid() bool {
	return n >= Unison && n <= Octave
}

func (n Number) String() string {
	if !n.valid() {
		return "Number(" + strconv.Itoa(int(n)) + ")"
	}
	return numberNames[n]
}

// Ordinal returns the 1-based diatonic ordinal: 1 for Unison, 8 for Octave.
func (n Number) Ordinal() int {
	return int(n) + 1
}

// MarshalText implements encoding.TextMarshaler.
func (n Number) MarshalText() ([]byte, error) {
	if !n.valid() {
		return nil, fmt.Errorf("interval: unknown number %d", int(n))
	}
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Matching is case-insensitive.
func (n *Number) UnmarshalText(text []byte) error {
	for i, name := range numberNames {
		if strings.EqualFold(name, string(text)) {
			*n = Number(i)
			return nil
		}
	}
	return fmt.Errorf("interval: unknown number %q", text)
}

// Step labels the three smallest-distance intervals. NoStep means absent.
type Step int

// Steps.
const (
	NoStep Step = iota
	Half
	Whole
	Tritone
)

var stepNames = [...]string{"", "Half", "Whole", "Tritone"}

// Valid reports whether s carries a step label.
func (s Step) Valid() bool {
	return s >= Half && s <= Tritone
}

func (s Step) String() string {
	if s == NoStep || s.Valid() {
		return stepNames[s]
	}
	return "Step(" + strconv.Itoa(int(s)) + ")"
}

// MarshalText implements encoding.TextMarshaler. NoStep encodes as "".
func (s Step) MarshalText() ([]byte, error) {
	if s != NoStep && !s.Valid() {
		return nil, fmt.Errorf("interval: unknown step %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. "" decodes to NoStep.
func (s *Step) UnmarshalText(text []byte) error {
	for i, name := range stepNames {
		if strings.EqualFold(name, string(text)) {
			*s = Step(i)
			return nil
		}
	}
	return fmt.Errorf("interval: unknown step %q", text)
}
