package rest

import (
	"net/http"

	"github.com/heartmarshall/langcorrect-backend/internal/transport/middleware"
)

// Handlers groups the REST handlers mounted by NewRouter.
type Handlers struct {
	Health      *HealthHandler
	Entries     *EntryHandler
	Corrections *CorrectionHandler
}

// NewRouter registers all routes. Health probes are public; every other
// route goes through requireUser. writeLimit, when non-nil, throttles the
// correction batch endpoint per corrector after authentication.
func NewRouter(h Handlers, requireUser, writeLimit middleware.Middleware) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	private := func(fn http.HandlerFunc) http.Handler {
		return requireUser(fn)
	}

	mux.Handle("POST /entries", private(h.Entries.Create))
	mux.Handle("GET /entries", private(h.Entries.List))
	mux.Handle("GET /entries/{id}", private(h.Entries.Get))
	mux.Handle("POST /entries/{id}", private(h.Entries.Update))
	mux.Handle("DELETE /entries/{id}", private(h.Entries.Delete))

	mux.Handle("POST /entries/{id}/corrections",
		middleware.Chain(requireUser, writeLimit)(http.HandlerFunc(h.Corrections.Apply)))
	mux.Handle("GET /entries/{id}/corrections", private(h.Corrections.List))
	mux.Handle("GET /entries/{id}/export", private(h.Corrections.Export))

	return mux
}
