package lectern

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel/trace"

	"github.com/aretw0/lectern/internal/config"
	"github.com/aretw0/lectern/internal/logging"
	loamAdapter "github.com/aretw0/lectern/pkg/adapters/loam"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/session"
)

// ErrWatchUnsupported is returned by Watch when the loader cannot notify changes.
var ErrWatchUnsupported = errors.New("loader does not support watching")

// Engine is the high-level entry point for the Lectern library.
// It loads a deck, keeps it live across reloads and hosts presentation sessions over it.
type Engine struct {
	loader  ports.DeckLoader
	source  *memory.Source
	manager *session.Manager

	store    ports.StateStore
	locker   ports.DistributedLocker
	hooks    domain.LifecycleHooks
	initial  *domain.Position
	tracer   trace.TracerProvider
	logger   *slog.Logger
	settings config.Deck

	Name string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = domain.Merge(e.hooks, hooks)
	}
}

// WithLoader injects a custom DeckLoader, bypassing the default Loam initialization.
func WithLoader(l ports.DeckLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithInitialPosition overrides the initial_position of lectern.yaml.
func WithInitialPosition(pos domain.Position) Option {
	return func(e *Engine) {
		e.initial = &pos
	}
}

// WithStore sets where session locations are persisted (default: in memory).
func WithStore(store ports.StateStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed locking of sessions across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithTracerProvider sets the tracer used for session spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		e.tracer = tp
	}
}

// New initializes a new Lectern Engine.
// By default, it reads the deck and its lectern.yaml from deckPath using Loam.
// If WithLoader option is provided, deckPath can be empty and Loam is skipped.
func New(deckPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		logger:   logging.NewNop(),
		settings: config.DefaultDeck(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if deckPath != "" {
		absPath, err := filepath.Abs(deckPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		if eng.settings, err = config.LoadDeck(absPath); err != nil {
			return nil, err
		}
		if eng.loader == nil {
			l, err := loamAdapter.Open(absPath)
			if err != nil {
				return nil, err
			}
			eng.loader = l
		}
	}
	if eng.loader == nil {
		return nil, fmt.Errorf("deckPath is required when no custom loader is provided")
	}

	deck, err := eng.load(context.Background())
	if err != nil {
		return nil, err
	}
	eng.source = memory.NewSource(deck)

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	initial := eng.settings.InitialPosition
	if eng.initial != nil {
		initial = *eng.initial
	}

	managerOpts := []session.Option{
		session.WithLogger(eng.logger),
		session.WithInitialPosition(initial),
		session.WithHooks(eng.hooks),
	}
	if eng.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(eng.locker))
	}
	if eng.tracer != nil {
		managerOpts = append(managerOpts, session.WithTracerProvider(eng.tracer))
	}
	eng.manager = session.NewManager(eng.source, eng.store, managerOpts...)

	return eng, nil
}

func (e *Engine) load(ctx context.Context) (*domain.Deck, error) {
	deck, err := e.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}
	if deck.RowCount() == 0 {
		return nil, domain.ErrEmptyDeck
	}
	if e.settings.Title != "" {
		deck.Title = e.settings.Title
	}
	return deck, nil
}

// Sessions returns the session host shared by every surface.
func (e *Engine) Sessions() *session.Manager {
	return e.manager
}

// Deck returns the deck currently presented.
func (e *Engine) Deck() *domain.Deck {
	return e.source.Deck()
}

// Settings returns the deck configuration read from lectern.yaml.
func (e *Engine) Settings() config.Deck {
	return e.settings
}

// Store returns the state store sessions persist to.
func (e *Engine) Store() ports.StateStore {
	return e.store
}

// Reload reads the deck again and re-clamps every live session.
// On failure the previous deck stays in place.
func (e *Engine) Reload(ctx context.Context) error {
	deck, err := e.load(ctx)
	if err != nil {
		e.logger.Warn("Deck reload failed, keeping previous deck", "err", err)
		return err
	}
	e.source.Replace(deck)
	e.logger.Info("Deck reloaded", "rows", deck.RowCount())
	return e.manager.Refresh(ctx)
}

// Watch signals whenever the loader reports a change to the deck.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, ok := e.loader.(ports.Watchable)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx)
}
