package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tonic/internal/voicing"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *voicing.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Intervals and transposition.
	r.Get("/intervals", h.IntervalTable)
	r.Get("/intervals/{semitones}", h.GetInterval)
	r.Post("/intervals/classify", h.ClassifyIntervals)
	r.Post("/transpose", h.Transpose)
	r.Post("/chains", h.BuildChain)

	// Formula catalog.
	r.Get("/formulas", h.ListFormulas)
	r.Get("/formulas/{name}", h.GetFormula)
	r.Put("/formulas/{name}", h.PutFormula)
	r.Delete("/formulas/{name}", h.DeleteFormula)
	r.Get("/formulas/{name}/build", h.BuildFormula)

	// Voicing library.
	r.Get("/voicings", h.ListVoicings)
	r.Post("/voicings", h.SaveVoicing)
	r.Get("/voicings/{id}", h.GetVoicing)
	r.Delete("/voicings/{id}", h.DeleteVoicing)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
