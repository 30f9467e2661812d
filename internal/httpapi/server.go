// Package httpapi exposes the assistant over HTTP: résumé analysis, job
// search, recommendations and the end-to-end pipeline.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/aggregator"
	"github.com/tlegrand/emploi-assistant/internal/cv"
	"github.com/tlegrand/emploi-assistant/internal/recommend"
)

type Server struct {
	router      *chi.Mux
	analyzer    *cv.Analyzer
	searcher    *aggregator.Aggregator
	enricher    *aggregator.Enricher
	recommender *recommend.Recommender
	logger      *zap.Logger
}

type Deps struct {
	Analyzer    *cv.Analyzer
	Searcher    *aggregator.Aggregator
	Enricher    *aggregator.Enricher
	Recommender *recommend.Recommender
	Logger      *zap.Logger
}

func NewServer(deps Deps) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		analyzer:    deps.Analyzer,
		searcher:    deps.Searcher,
		enricher:    deps.Enricher,
		recommender: deps.Recommender,
		logger:      deps.Logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/analyze-cv", s.handleAnalyzeCV)
		r.Post("/upload-cv", s.handleUploadCV)
		r.Post("/search-jobs", s.handleSearchJobs)
		r.Post("/recommend", s.handleRecommend)
		r.Post("/pipeline", s.handlePipeline)
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}
