// Package server exposes the content services, quiz-building sessions, the
// question bank and PDF export over a JSON HTTP API.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edugen/edugen/internal/config"
	"github.com/edugen/edugen/internal/content"
	"github.com/edugen/edugen/internal/export"
	"github.com/edugen/edugen/internal/metrics"
	"github.com/edugen/edugen/internal/session"
	"github.com/edugen/edugen/internal/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Deps are the services the API serves. Content may be nil when no LLM
// provider is configured; its routes then answer 503.
type Deps struct {
	Content  *content.Service
	Sessions *session.Manager
	Bank     *store.Bank
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Export   export.Options
	CORS     config.CORS
	Quota    int
	Logger   zerolog.Logger
}

// Server is the HTTP API.
type Server struct {
	content  *content.Service
	sessions *session.Manager
	bank     *store.Bank
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	export   export.Options
	cors     config.CORS
	quota    int
	logger   zerolog.Logger
}

// New creates a Server.
func New(d Deps) *Server {
	if d.Quota <= 0 {
		d.Quota = 15
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		content:  d.Content,
		sessions: d.Sessions,
		bank:     d.Bank,
		metrics:  d.Metrics,
		gatherer: d.Gatherer,
		export:   d.Export,
		cors:     d.CORS,
		quota:    d.Quota,
		logger:   d.Logger.With().Str("component", "http").Logger(),
	}
}

// HTTPServer wraps Handler in an http.Server listening on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cors.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           s.cors.MaxAge,
	}))
	r.Use(securityHeaders)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/summarize", s.handleSummarize)
		r.Post("/topics", s.handleTopics)
		r.Post("/qa", s.handleAnswer)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Put("/source", s.handleSetSource)
				r.Put("/topics", s.handleSetTopics)
				r.Post("/collect", s.handleCollect)
				r.Post("/reset", s.handleResetSession)
				r.Delete("/questions/{index}", s.handleRemoveSessionQuestion)
				r.Post("/save", s.handleSaveSession)
			})
		})

		r.Route("/bank", func(r chi.Router) {
			r.Get("/questions", s.handleListQuestions)
			r.Post("/questions", s.handleAddQuestions)
			r.Get("/questions/{questionID}", s.handleGetQuestion)
			r.Put("/questions/{questionID}", s.handleUpdateQuestion)
			r.Delete("/questions/{questionID}", s.handleDeleteQuestion)

			r.Get("/quizzes", s.handleListQuizzes)
			r.Post("/quizzes", s.handleCreateQuiz)
			r.Post("/quizzes/merge", s.handleMergeQuizzes)
			r.Get("/quizzes/{quizID}", s.handleGetQuiz)
			r.Put("/quizzes/{quizID}", s.handleUpdateQuiz)
			r.Delete("/quizzes/{quizID}", s.handleDeleteQuiz)
			r.Post("/quizzes/{quizID}/append", s.handleAppendQuestions)
			r.Post("/quizzes/{quizID}/remove", s.handleRemoveQuestions)
			r.Get("/quizzes/{quizID}/attempts", s.handleListAttempts)
			r.Post("/quizzes/{quizID}/attempts", s.handleRecordAttempt)
		})

		r.Post("/export/quizzes/{quizID}", s.handleExportQuiz)
	})

	return r
}
