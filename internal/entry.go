// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/tonic/internal/api"
	"github.com/starford/tonic/internal/formula"
	"github.com/starford/tonic/internal/library"
	"github.com/starford/tonic/internal/mcpserver"
	"github.com/starford/tonic/internal/sse"
	"github.com/starford/tonic/internal/storage"
	"github.com/starford/tonic/internal/voicing"
)

// components holds the components shared by the HTTP and MCP runners.
type components struct {
	cfg     *Config
	logger  *slog.Logger
	store   *storage.FS
	catalog *formula.Catalog
	db      *library.DB
	svc     *voicing.Service
}

func (rt *components) Close() error {
	return rt.db.Close()
}

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// setup initialises logging, the formula catalog, and the voicing library.
func setup(app *application) (*components, error) {
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("formulas_dir", cfg.Formulas.Dir),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure formula directory exists.
	if err := os.MkdirAll(cfg.Formulas.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create formulas dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Formulas.Dir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	catalog, err := formula.NewCatalog(formula.Builtins()...)
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}
	if _, err := formula.Reload(catalog, store, logger); err != nil {
		logger.Warn("initial formula load failed, using builtins", slog.String("error", err.Error()))
	}

	db, err := library.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init library: %w", err)
	}

	return &components{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		catalog: catalog,
		db:      db,
		svc:     voicing.NewService(catalog, store, db, logger),
	}, nil
}

// Run starts the HTTP server, the formula watcher and the SSE broker.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	rt, err := setup(app)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.cfg
	logger := rt.logger

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	rt.svc.OnEvent(func(ev voicing.Event) {
		switch ev.Kind {
		case voicing.EventSaved:
			broker.PublishVoicingChange(sse.VoicingChange{Kind: sse.ChangeSaved, ID: ev.ID, Name: ev.Name, Root: ev.Root, Notes: ev.Notes})
		case voicing.EventDeleted:
			broker.PublishVoicingChange(sse.VoicingChange{Kind: sse.ChangeDeleted, ID: ev.ID, Name: ev.Name})
		case voicing.EventFormulasChanged:
			broker.PublishFormulasReloaded(rt.catalog.Len())
		}
	})

	apiRouter := api.NewRouter(rt.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.CORSMiddleware(cfg.App.HTTP.CORSOrigins))

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if rt.catalog.Len() == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"empty catalog"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start formula watcher with SSE callback.
	if cfg.Formulas.Watch {
		g.Go(func() error {
			err := formula.Watch(gCtx, rt.catalog, rt.store, rt.store.Root(), formula.DefaultDebounce, logger, func(count int) {
				broker.PublishFormulasReloaded(count)
			})
			if err != nil {
				logger.Error("formula watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Close SSE streams first so Shutdown does not wait on them.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools on stdio until the client disconnects. Logs
// go to stderr unless WithLogOutput says otherwise.
func RunMCP(ctx context.Context, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	rt, err := setup(app)
	if err != nil {
		return err
	}
	defer rt.Close()

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(gCtx)

	if rt.cfg.Formulas.Watch {
		g.Go(func() error {
			err := formula.Watch(watchCtx, rt.catalog, rt.store, rt.store.Root(), formula.DefaultDebounce, rt.logger, nil)
			if err != nil {
				rt.logger.Error("formula watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		defer stopWatch()
		rt.logger.Info("Starting MCP server on stdio")
		return mcpserver.New(rt.svc).ServeStdio()
	})

	return g.Wait()
}
