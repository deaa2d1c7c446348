package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func newRouter(h *handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors(allowedOrigins))

	r.Get("/healthz", h.health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/interpret", h.interpret)
		r.Post("/render", h.render)
		r.Get("/interpretations", h.listInterpretations)
		r.Get("/interpretations/{id}", h.getInterpretation)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFoundRoute(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("METHOD_NOT_ALLOWED", r.Method+" is not allowed on "+r.URL.Path))
	})
	return r
}
