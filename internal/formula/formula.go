// Package formula defines named chord and scale formulas and a catalog that
// can be loaded from YAML files and reloaded on change.
package formula

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/tonic/internal/interval"
	"github.com/starford/tonic/internal/note"
)

// Kind separates chord formulas from scale formulas.
type Kind string

// Formula kinds.
const (
	KindChord Kind = "chord"
	KindScale Kind = "scale"
)

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidName reports whether name can be used as a formula name.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}

// Formula is a named list of stacked semitone steps. Each step is applied to
// the note produced by the previous one, so a major triad is [4, 3].
type Formula struct {
	Name        string   `yaml:"name" json:"name"`
	Kind        Kind     `yaml:"kind" json:"kind"`
	Aliases     []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Steps       []int    `yaml:"steps" json:"steps"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
}

// Validate checks the formula definition.
func (f Formula) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Match(nameRe)),
		validation.Field(&f.Kind, validation.Required, validation.In(KindChord, KindScale)),
		validation.Field(&f.Steps, validation.Required,
			validation.Each(validation.Min(0), validation.Max(interval.MaxSemitones))),
		validation.Field(&f.Aliases, validation.Each(validation.Required)),
	)
}

// Intervals classifies the formula's steps.
func (f Formula) Intervals() ([]interval.Interval, error) {
	ivs, err := interval.FromSemitones(f.Steps)
	if err != nil {
		return nil, fmt.Errorf("formula %q: %w", f.Name, err)
	}
	return ivs, nil
}

// Notes builds the formula's notes from root.
func (f Formula) Notes(root note.Note) ([]note.Note, error) {
	ivs, err := f.Intervals()
	if err != nil {
		return nil, err
	}
	return interval.ToNotes(root, ivs), nil
}

type document struct {
	Formulas []Formula `yaml:"formulas"`
}

// Parse decodes a YAML document of the form
//
//	formulas:
//	  - name: power
//	    kind: chord
//	    steps: [7]
//
// and validates every entry. An empty document yields no formulas.
func Parse(data []byte) ([]Formula, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("formula: decode: %w", err)
	}
	for i, f := range doc.Formulas {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("formula: entry %d (%q): %w", i, f.Name, err)
		}
	}
	return doc.Formulas, nil
}

// Marshal encodes formulas in the format Parse reads.
func Marshal(formulas ...Formula) ([]byte, error) {
	return yaml.Marshal(document{Formulas: formulas})
}
