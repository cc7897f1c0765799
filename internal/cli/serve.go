package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/config"
	httpAdapter "github.com/aretw0/lectern/pkg/adapters/http"
	"github.com/aretw0/lectern/pkg/observability"
)

// ServeOptions contains the configuration for the serve command.
// Zero values fall back to the LECTERN_* environment settings.
type ServeOptions struct {
	DeckPath string
	Port     int
	Store    string
	Watch    bool
	Debug    bool
	LogFile  string
}

// server bundles what Serve and ServeMCP need to host sessions.
type server struct {
	engine   *lectern.Engine
	backend  *config.Backend
	metrics  *observability.Metrics
	settings config.Server
	logger   *slog.Logger
	shutdown func(context.Context) error
}

// newServer loads env settings, opens the store, sets up tracing and metrics
// and builds the engine.
func newServer(ctx context.Context, deckPath, store string, debug bool, logger *slog.Logger) (*server, error) {
	settings, err := config.LoadServer()
	if err != nil {
		return nil, err
	}
	if store != "" {
		settings.Store = store
	}

	backend, err := config.OpenStore(ctx, settings)
	if err != nil {
		return nil, err
	}

	shutdown, err := observability.SetupTracing(ctx, "lectern", settings.OTelEndpoint)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	metrics := observability.NewMetrics(nil)
	engineOpts := []lectern.Option{
		lectern.WithLogger(logger),
		lectern.WithStore(backend.Store),
		lectern.WithLifecycleHooks(metrics.Hooks()),
	}
	if backend.Locker != nil {
		engineOpts = append(engineOpts, lectern.WithLocker(backend.Locker))
	}
	if debug {
		engineOpts = append(engineOpts, lectern.WithLifecycleHooks(createDebugHooks(logger)))
	}

	eng, err := lectern.New(deckPath, engineOpts...)
	if err != nil {
		_ = backend.Close()
		_ = shutdown(ctx)
		return nil, fmt.Errorf("error initializing lectern: %w", err)
	}

	sessions := eng.Sessions()
	if err := metrics.TrackActiveSessions(func() int { return len(sessions.Live()) }); err != nil {
		_ = backend.Close()
		_ = shutdown(ctx)
		return nil, err
	}

	logger.Info("Session store ready", "store", settings.Store)
	return &server{
		engine:   eng,
		backend:  backend,
		metrics:  metrics,
		settings: settings,
		logger:   logger,
		shutdown: shutdown,
	}, nil
}

// close flushes traces and closes the store.
func (s *server) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.shutdown(ctx); err != nil {
		s.logger.Warn("Tracer shutdown failed", "err", err)
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Warn("Store close failed", "err", err)
	}
}

// handler returns the HTTP API with metrics mounted and dispatches instrumented.
func (s *server) handler() http.Handler {
	host := observability.Instrument(s.engine.Sessions(), s.metrics)
	return httpAdapter.NewHandler(host,
		httpAdapter.WithLogger(s.logger),
		httpAdapter.WithMetrics(s.metrics.Handler()),
	)
}

// watch reloads the deck on every change until ctx is done.
func (s *server) watch(ctx context.Context) error {
	changes, err := s.engine.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch deck: %w", err)
	}
	go func() {
		for range changes {
			if err := s.engine.Reload(ctx); err != nil {
				s.logger.Warn("Reload failed", "err", err)
			}
		}
	}()
	return nil
}

// Serve starts the HTTP API and blocks until ctx is done.
func Serve(ctx context.Context, opts ServeOptions) error {
	logger, closeLog, err := serverLogger(opts.Debug, opts.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	srv, err := newServer(ctx, opts.DeckPath, opts.Store, opts.Debug, logger)
	if err != nil {
		return err
	}
	defer srv.close()

	if opts.Watch {
		if err := srv.watch(ctx); err != nil {
			return err
		}
	}

	port := srv.settings.Port
	if opts.Port > 0 {
		port = opts.Port
	}
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           srv.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting Lectern Server", "address", httpServer.Addr, "deck", opts.DeckPath)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Start shutdown")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "err", err)
			return httpServer.Close()
		}
		logger.Info("Lectern Server stopped gracefully")
		return nil
	}
}
