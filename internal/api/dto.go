package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tonic/internal/formula"
	"github.com/starford/tonic/internal/interval"
	"github.com/starford/tonic/internal/note"
	"github.com/starford/tonic/internal/voicing"
)

// IntervalDTO is an interval with its display names.
type IntervalDTO struct {
	interval.Interval
	Name      string `json:"name" example:"Major Third"`
	ShortName string `json:"short_name" example:"M3"`
}

func newIntervalDTO(iv interval.Interval) IntervalDTO {
	return IntervalDTO{Interval: iv, Name: iv.Name(), ShortName: iv.ShortName()}
}

func newIntervalDTOs(ivs []interval.Interval) []IntervalDTO {
	out := make([]IntervalDTO, len(ivs))
	for i, iv := range ivs {
		out[i] = newIntervalDTO(iv)
	}
	return out
}

// ClassifyRequest is the request body for classifying a list of semitone counts.
type ClassifyRequest struct {
	Semitones []int `json:"semitones" example:"0,4,7" validate:"required"`
}

// Validate checks the request shape.
func (r ClassifyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Semitones, validation.Required),
	)
}

// ClassifyResponse wraps classified intervals.
type ClassifyResponse struct {
	Intervals []IntervalDTO `json:"intervals" validate:"required"`
}

// TransposeRequest is the request body for moving a note up by an interval.
type TransposeRequest struct {
	Root      string `json:"root" example:"C4" validate:"required"`
	Semitones *int   `json:"semitones" example:"7" validate:"required"`
}

// Validate checks the request shape.
func (r TransposeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Root, validation.Required),
		validation.Field(&r.Semitones, validation.NotNil),
	)
}

// TransposeResponse is the result of a single transposition.
type TransposeResponse struct {
	Root     note.Note   `json:"root"`
	Interval IntervalDTO `json:"interval"`
	Note     note.Note   `json:"note"`
	MIDI     int         `json:"midi" example:"67"`
}

// ChainRequest is the request body for stacking intervals on a root.
type ChainRequest struct {
	Root      string `json:"root" example:"C4" validate:"required"`
	Semitones []int  `json:"semitones" example:"4,3" validate:"required"`
}

// Validate checks the request shape.
func (r ChainRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Root, validation.Required),
		validation.Field(&r.Semitones, validation.Required),
	)
}

// SaveVoicingRequest is the request body for storing a voicing.
type SaveVoicingRequest struct {
	Name    string `json:"name" example:"C major" validate:"required"`
	Root    string `json:"root" example:"C4" validate:"required"`
	Steps   []int  `json:"steps,omitempty" example:"4,3"`
	Formula string `json:"formula,omitempty" example:"major"`
}

// Validate checks the request shape.
func (r SaveVoicingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Root, validation.Required),
		validation.Field(&r.Steps, validation.When(r.Formula == "", validation.Required.Error("steps or formula is required"))),
	)
}

// VoicingListResponse wraps paginated voicing listings.
type VoicingListResponse struct {
	Voicings []voicing.Voicing `json:"voicings" validate:"required"`
	Total    int               `json:"total" example:"42" validate:"required"`
}

// FormulaBody is the request body for PUT /formulas/{name}. The name comes
// from the path; the full formula is validated by the service.
type FormulaBody struct {
	Kind        formula.Kind `json:"kind" example:"chord" validate:"required"`
	Aliases     []string     `json:"aliases,omitempty"`
	Steps       []int        `json:"steps" example:"7,5" validate:"required"`
	Description string       `json:"description,omitempty"`
}

// FormulaListResponse wraps formula listings.
type FormulaListResponse struct {
	Formulas []formula.Formula `json:"formulas" validate:"required"`
}
