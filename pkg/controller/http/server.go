package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/async"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
	"github.com/secmon-lab/themis/pkg/utils/safe"
)

type Server struct {
	router     *chi.Mux
	uc         *usecase.UseCases
	dispatcher *async.Dispatcher
	topK       int
}

type Options func(*Server)

// WithDispatcher sets the dispatcher running background assessments. The
// caller waits on it at shutdown.
func WithDispatcher(d *async.Dispatcher) Options {
	return func(s *Server) {
		s.dispatcher = d
	}
}

// WithTopK sets the number of regulation chunks retrieved per area
func WithTopK(k int) Options {
	return func(s *Server) {
		s.topK = k
	}
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	if uc == nil {
		return nil, goerr.New("use cases are required")
	}

	r := chi.NewRouter()
	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dispatcher == nil {
		s.dispatcher = async.NewDispatcher()
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/classify", s.classifyHandler)
		r.Route("/assessments", func(r chi.Router) {
			r.Get("/", s.listAssessmentsHandler)
			r.Post("/", s.createAssessmentHandler)
			r.Get("/{id}", s.getAssessmentHandler)
		})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}
