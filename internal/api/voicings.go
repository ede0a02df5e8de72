package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tonic/internal/apperr"
	"github.com/starford/tonic/internal/note"
	"github.com/starford/tonic/internal/voicing"
)

// ListVoicings handles GET /api/voicings.
//
//	@Summary		List saved voicings with optional pagination and filtering
//	@Tags			voicings
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			formula	query		string	false	"Filter by formula name"
//	@Param			name	query		string	false	"Exact voicing name"
//	@Success		200		{object}	VoicingListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/voicings [get]
func (h *Handler) ListVoicings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if name := q.Get("name"); name != "" {
		h.voicingByName(w, r, name)
		return
	}
	limit, err := queryInt(q, "limit")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	offset, err := queryInt(q, "offset")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	items, total, err := h.svc.List(r.Context(), limit, offset, q.Get("formula"))
	if err != nil {
		writeError(w, err, "list voicings")
		return
	}
	if items == nil {
		items = []voicing.Voicing{}
	}
	writeJSON(w, http.StatusOK, VoicingListResponse{Voicings: items, Total: total})
}

// voicingByName answers a name lookup in list form; no match is an empty list.
func (h *Handler) voicingByName(w http.ResponseWriter, r *http.Request, name string) {
	v, err := h.svc.GetByName(r.Context(), name)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusOK, VoicingListResponse{Voicings: []voicing.Voicing{}})
	case err != nil:
		writeError(w, err, "get voicing by name")
	default:
		writeJSON(w, http.StatusOK, VoicingListResponse{Voicings: []voicing.Voicing{v}, Total: 1})
	}
}

// queryInt reads an optional non-negative integer parameter; absent is 0.
func queryInt(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return n, nil
}

// SaveVoicing handles POST /api/voicings.
func (h *Handler) SaveVoicing(w http.ResponseWriter, r *http.Request) {
	var req SaveVoicingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	root, err := note.Parse(req.Root)
	if err != nil {
		writeError(w, err, "save voicing")
		return
	}
	v, err := h.svc.Save(r.Context(), voicing.SaveRequest{
		Name:    req.Name,
		Root:    root,
		Steps:   req.Steps,
		Formula: req.Formula,
	})
	if err != nil {
		writeError(w, err, "save voicing")
		return
	}
	w.Header().Set("ETag", `"`+v.Checksum+`"`)
	writeJSON(w, http.StatusCreated, v)
}

// GetVoicing handles GET /api/voicings/{id}. A matching If-None-Match
// yields 304.
func (h *Handler) GetVoicing(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, "get voicing")
		return
	}
	etag := `"` + v.Checksum + `"`
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// DeleteVoicing handles DELETE /api/voicings/{id}.
func (h *Handler) DeleteVoicing(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err, "delete voicing")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// etagMatches applies the weak comparison used for If-None-Match: "*"
// matches anything, a list matches if any member does, and W/ prefixes are
// ignored.
func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
