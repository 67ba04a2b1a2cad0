package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/terra-clan/robolearn/internal/api"
	"github.com/terra-clan/robolearn/internal/cleanup"
	"github.com/terra-clan/robolearn/internal/config"
	"github.com/terra-clan/robolearn/internal/content"
	"github.com/terra-clan/robolearn/internal/gallery"
	"github.com/terra-clan/robolearn/internal/gateway"
	"github.com/terra-clan/robolearn/internal/progress"
	"github.com/terra-clan/robolearn/internal/quiz"
	"github.com/terra-clan/robolearn/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting robolearn",
		"env", cfg.Env,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	if err := run(cfg); err != nil {
		slog.Error("robolearn stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("robolearn stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(ctx, 30*time.Second)
	defer initCancel()

	// Load content catalogs
	store, err := loadContent(cfg.Content.Dir)
	if err != nil {
		return err
	}

	// Session store
	sessions, err := newSessionStore(initCtx, cfg.Session)
	if err != nil {
		return err
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			slog.Error("session store close error", "error", err)
		}
	}()

	// AI gateway; a missing key only disables the AI features
	var gen gateway.Generator
	if cfg.Gemini.APIKey == "" {
		slog.Warn("GEMINI_API_KEY is not set. AI features will not work.")
	} else {
		gemini, err := gateway.NewGemini(initCtx, cfg.Gemini.APIKey, cfg.Gemini.Timeout)
		if err != nil {
			return err
		}
		gen = gemini
	}

	server := api.NewServer(cfg.Server, api.Deps{
		Content: store,
		Catalog: gallery.NewCatalog(store.Projects()),
		Tracker: progress.Tracker{EmptyStageComplete: cfg.Progress.EmptyStageComplete},
		Quiz:    quiz.NewEngine(store.Questions()),
		Gateway: gateway.New(gen, gateway.Config{
			DesignModel: cfg.Gemini.DesignModel,
			ReviewModel: cfg.Gemini.ReviewModel,
			Temperature: &cfg.Gemini.Temperature,
		}),
		Sessions: sessions,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// design generation waits on the model
		WriteTimeout: cfg.Server.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	cleaner := cleanup.NewCleaner(sessions, cfg.Session.TTL, cfg.Cleanup.Interval)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return cleaner.Run(gctx)
	})

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down gracefully...")

		// Shutdown HTTP server with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func loadContent(dir string) (*content.Store, error) {
	if dir == "" {
		return content.LoadDefaults()
	}
	return content.LoadFromDir(dir)
}

func newSessionStore(ctx context.Context, cfg config.SessionConfig) (session.Store, error) {
	if cfg.Redis.Address == "" {
		slog.Info("using in-memory session store", "ttl", cfg.TTL)
		return session.NewMemoryStore(), nil
	}

	return session.NewRedisStore(ctx, session.RedisOptions{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.TTL,
	})
}
