package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tonic/internal/interval"
	"github.com/starford/tonic/internal/note"
	"github.com/starford/tonic/internal/voicing"
)

// Handler holds API route handlers.
type Handler struct {
	svc *voicing.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *voicing.Service) *Handler {
	return &Handler{svc: svc}
}

// IntervalTable handles GET /api/intervals.
//
//	@Summary		List every classifiable interval
//	@Tags			intervals
//	@Produce		json
//	@Success		200	{object}	ClassifyResponse
//	@Router			/intervals [get]
func (h *Handler) IntervalTable(w http.ResponseWriter, _ *http.Request) {
	ivs := make([]interval.Interval, 0, interval.MaxSemitones+1)
	for s := 0; s <= interval.MaxSemitones; s++ {
		iv, _ := interval.FromSemitone(s)
		ivs = append(ivs, iv)
	}
	writeJSON(w, http.StatusOK, ClassifyResponse{Intervals: newIntervalDTOs(ivs)})
}

// GetInterval handles GET /api/intervals/{semitones}.
//
//	@Summary		Classify a single semitone count
//	@Tags			intervals
//	@Produce		json
//	@Param			semitones	path		int	true	"Semitone count (0-12)"
//	@Success		200			{object}	IntervalDTO
//	@Failure		400			{object}	errResponse
//	@Router			/intervals/{semitones} [get]
func (h *Handler) GetInterval(w http.ResponseWriter, r *http.Request) {
	s, err := strconv.Atoi(chi.URLParam(r, "semitones"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("semitones must be an integer"))
		return
	}
	iv, err := interval.FromSemitone(s)
	if err != nil {
		writeError(w, err, "classify interval")
		return
	}
	writeJSON(w, http.StatusOK, newIntervalDTO(iv))
}

// ClassifyIntervals handles POST /api/intervals/classify.
func (h *Handler) ClassifyIntervals(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ivs, err := interval.FromSemitones(req.Semitones)
	if err != nil {
		writeError(w, err, "classify intervals")
		return
	}
	writeJSON(w, http.StatusOK, ClassifyResponse{Intervals: newIntervalDTOs(ivs)})
}

// Transpose handles POST /api/transpose.
//
//	@Summary		Move a note up by a classified interval
//	@Tags			intervals
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TransposeRequest	true	"Root and semitone count"
//	@Success		200		{object}	TransposeResponse
//	@Failure		400		{object}	errResponse
//	@Router			/transpose [post]
func (h *Handler) Transpose(w http.ResponseWriter, r *http.Request) {
	var req TransposeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	root, err := note.Parse(req.Root)
	if err != nil {
		writeError(w, err, "transpose")
		return
	}
	iv, err := interval.FromSemitone(*req.Semitones)
	if err != nil {
		writeError(w, err, "transpose")
		return
	}
	to := iv.SecondNoteFrom(root)
	writeJSON(w, http.StatusOK, TransposeResponse{
		Root:     root,
		Interval: newIntervalDTO(iv),
		Note:     to,
		MIDI:     to.MIDI(),
	})
}

// BuildChain handles POST /api/chains.
func (h *Handler) BuildChain(w http.ResponseWriter, r *http.Request) {
	var req ChainRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	root, err := note.Parse(req.Root)
	if err != nil {
		writeError(w, err, "build chain")
		return
	}
	v, err := voicing.Build(root, req.Semitones)
	if err != nil {
		writeError(w, err, "build chain")
		return
	}
	writeJSON(w, http.StatusOK, v)
}
