package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tonic/internal/formula"
	"github.com/starford/tonic/internal/note"
)

const defaultRoot = "C4"

// ListFormulas handles GET /api/formulas.
//
//	@Summary		List chord and scale formulas
//	@Tags			formulas
//	@Produce		json
//	@Param			kind	query		string	false	"Filter by kind"	Enums(chord, scale)
//	@Success		200		{object}	FormulaListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/formulas [get]
func (h *Handler) ListFormulas(w http.ResponseWriter, r *http.Request) {
	kind := formula.Kind(r.URL.Query().Get("kind"))
	if kind != "" && kind != formula.KindChord && kind != formula.KindScale {
		writeJSON(w, http.StatusBadRequest, errorBody("kind must be chord or scale"))
		return
	}
	writeJSON(w, http.StatusOK, FormulaListResponse{Formulas: h.svc.Formulas(kind)})
}

// GetFormula handles GET /api/formulas/{name}.
func (h *Handler) GetFormula(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Formula(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err, "get formula")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// PutFormula handles PUT /api/formulas/{name}. The formula is written to
// its own file in the formula directory.
func (h *Handler) PutFormula(w http.ResponseWriter, r *http.Request) {
	var body FormulaBody
	if !decodeJSON(w, r, &body) {
		return
	}
	f := formula.Formula{
		Name:        chi.URLParam(r, "name"),
		Kind:        body.Kind,
		Aliases:     body.Aliases,
		Steps:       body.Steps,
		Description: body.Description,
	}

	created, err := h.svc.PutFormula(r.Context(), f)
	if err != nil {
		writeError(w, err, "put formula")
		return
	}
	saved, err := h.svc.Formula(f.Name)
	if err != nil {
		writeError(w, err, "put formula")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

// DeleteFormula handles DELETE /api/formulas/{name}.
func (h *Handler) DeleteFormula(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFormula(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err, "delete formula")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BuildFormula handles GET /api/formulas/{name}/build?root=C4.
//
//	@Summary		Build a formula's notes from a root
//	@Tags			formulas
//	@Produce		json
//	@Param			name	path		string	true	"Formula name or alias"
//	@Param			root	query		string	false	"Root note"	default(C4)
//	@Success		200		{object}	voicing.Voicing
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/formulas/{name}/build [get]
func (h *Handler) BuildFormula(w http.ResponseWriter, r *http.Request) {
	rootParam := r.URL.Query().Get("root")
	if rootParam == "" {
		rootParam = defaultRoot
	}
	root, err := note.Parse(rootParam)
	if err != nil {
		writeError(w, err, "build formula")
		return
	}
	v, err := h.svc.BuildFormula(root, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err, "build formula")
		return
	}
	writeJSON(w, http.StatusOK, v)
}
