package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/terra-clan/robolearn/internal/config"
	"github.com/terra-clan/robolearn/internal/content"
	"github.com/terra-clan/robolearn/internal/gallery"
	"github.com/terra-clan/robolearn/internal/gateway"
	"github.com/terra-clan/robolearn/internal/health"
	"github.com/terra-clan/robolearn/internal/progress"
	"github.com/terra-clan/robolearn/internal/quiz"
	"github.com/terra-clan/robolearn/internal/session"
)

// Deps are the components the API serves
type Deps struct {
	Content  *content.Store
	Catalog  *gallery.Catalog
	Tracker  progress.Tracker
	Quiz     *quiz.Engine
	Gateway  *gateway.Gateway
	Sessions session.Store
}

// Server represents the HTTP API server
type Server struct {
	config   config.ServerConfig
	router   *chi.Mux
	deps     Deps
	sessions *SessionMiddleware
	checks   *health.Registry
	validate *validator.Validate
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	s := &Server{
		config:   cfg,
		deps:     deps,
		sessions: NewSessionMiddleware(deps.Sessions),
		checks:   health.NewRegistry(),
		validate: newValidator(),
	}
	s.checks.Register("sessions", deps.Sessions.Ping)
	s.checks.RegisterOptional("ai", deps.Gateway.Check)
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	timeout := s.config.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", SessionHeader},
		ExposedHeaders:   []string{"X-Request-ID", SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (outside versioned API)
	r.Get("/health", render(s.handleHealth))
	r.Get("/ready", render(s.handleReady))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.sessions.Attach)

		r.Get("/nav", render(s.handleNav))
		r.Get("/home", render(s.handleHome))
		r.Get("/leaderboard", render(s.handleLeaderboard))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", render(s.handleLogin))
			r.Post("/logout", render(s.handleLogout))
			r.Get("/me", render(s.handleMe))
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", render(s.handleListProjects))
			r.Get("/featured", render(s.handleFeaturedProjects))
			r.Get("/options", render(s.handleProjectOptions))
			r.With(RequireUser).Post("/", render(s.handlePublishProject))
		})

		r.Route("/learn", func(r chi.Router) {
			r.Get("/stages", render(s.handleListStages))
			r.Get("/progress", render(s.handleProgress))
			r.Post("/topics/{id}/toggle", render(s.handleToggleTopic))
			r.Post("/stages/{id}/expand", render(s.handleExpandStage))
			r.Get("/stages/{id}/progress", render(s.handleStageProgress))
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/", render(s.handleQuiz))
			r.Post("/select", render(s.handleQuizSelect))
			r.Post("/submit", render(s.handleQuizSubmit))
			r.Post("/next", render(s.handleQuizNext))
			r.Post("/restart", render(s.handleQuizRestart))
		})

		r.Route("/design", func(r chi.Router) {
			r.Get("/examples", render(s.handleDesignExamples))
			r.Post("/generate", render(s.handleGenerateDesign))
		})

		r.Route("/code", func(r chi.Router) {
			r.Get("/languages", render(s.handleCodeLanguages))
			r.Post("/review", render(s.handleReviewCode))
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
