package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
)

const tracerName = "github.com/aretw0/lectern/pkg/session"

// DeckSource is a SlideSource that also exposes the full deck.
type DeckSource interface {
	ports.SlideSource
	Deck() *domain.Deck
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager hosts many presentation sessions over one deck, ensuring safe
// concurrent operations. Live sessions are kept in memory; only their
// location is persisted, after every change.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store  ports.StateStore
	source DeckSource

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	liveMu sync.Mutex
	live   map[string]*Controller

	streams *streams

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	initial domain.Position
	hooks   domain.LifecycleHooks
	tracer  trace.Tracer
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiration of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithInitialPosition sets where new sessions start.
func WithInitialPosition(pos domain.Position) Option {
	return func(m *Manager) {
		m.initial = pos
	}
}

// WithHooks registers lifecycle hooks for every session.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = domain.Merge(m.hooks, hooks)
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(m *Manager) {
		m.tracer = tp.Tracer(tracerName)
	}
}

// NewManager creates a new Session Manager presenting source and persisting to store.
func NewManager(source DeckSource, store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		source:  source,
		locks:   make(map[string]*lockEntry),
		live:    make(map[string]*Controller),
		lockTTL: 30 * time.Second,
		tracer:  otel.Tracer(tracerName),
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	m.streams = newStreams(m.logger)
	return m
}

var _ ports.SessionHost = (*Manager)(nil)

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Enter activates a session. An empty location resumes the stored one, or
// starts at the initial position for a new session.
func (m *Manager) Enter(ctx context.Context, sessionID, loc string) (domain.Frame, error) {
	ctx, span := m.startSpan(ctx, "session.Enter", sessionID)
	defer span.End()

	var frame domain.Frame
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if c, ok := m.lookup(sessionID); ok {
			var err error
			frame, err = c.Enter(ctx, loc)
			return err
		}

		if loc == "" {
			record, err := m.store.Load(ctx, sessionID)
			switch {
			case err == nil:
				loc = record.Location
			case !errors.Is(err, domain.ErrSessionNotFound):
				return fmt.Errorf("failed to check session existence: %w", err)
			}
		}

		c := m.newController(sessionID)
		var err error
		if frame, err = c.Enter(ctx, loc); err != nil {
			return err
		}
		m.track(sessionID, c)

		// Persist immediately to reserve the ID
		if err := m.save(ctx, sessionID, frame.Location); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	m.finish(span, sessionID, frame, err)
	return frame, err
}

// Dispatch applies a command to a session, rehydrating it from the store if
// it is not live. Rehydrated sessions start with every fragment hidden.
func (m *Manager) Dispatch(ctx context.Context, sessionID string, cmd domain.Command) (domain.Frame, error) {
	ctx, span := m.startSpan(ctx, "session.Dispatch", sessionID, attribute.String("lectern.intent", string(cmd.Intent)))
	defer span.End()

	var frame domain.Frame
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		c, err := m.controller(ctx, sessionID)
		if err != nil {
			return err
		}
		frame, err = c.Dispatch(ctx, cmd)
		return err
	})
	m.finish(span, sessionID, frame, err)
	return frame, err
}

// Observe applies an externally changed location to a session.
func (m *Manager) Observe(ctx context.Context, sessionID, loc string) (domain.Frame, error) {
	return m.Dispatch(ctx, sessionID, domain.Command{Intent: domain.IntentLocation, Location: loc})
}

// Frame returns the current frame of a session.
func (m *Manager) Frame(ctx context.Context, sessionID string) (domain.Frame, error) {
	var frame domain.Frame
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		c, err := m.controller(ctx, sessionID)
		if err != nil {
			return err
		}
		frame = c.Frame()
		return nil
	})
	return frame, err
}

// Exit deactivates a live session. Its stored location is kept for resuming.
func (m *Manager) Exit(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if c, ok := m.untrack(sessionID); ok {
			c.Exit(ctx)
			return nil
		}
		if _, err := m.store.Load(ctx, sessionID); err != nil {
			return err
		}
		return nil
	})
}

// Delete exits the session and removes it from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if c, ok := m.untrack(sessionID); ok {
			c.Exit(ctx)
		}
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Live returns the IDs of sessions currently held in memory.
func (m *Manager) Live() []string {
	m.liveMu.Lock()
	defer m.liveMu.Unlock()
	ids := make([]string, 0, len(m.live))
	for id := range m.live {
		ids = append(ids, id)
	}
	return ids
}

// Refresh re-clamps every live session after the deck changed.
func (m *Manager) Refresh(ctx context.Context) error {
	var errs []error
	for _, id := range m.Live() {
		err := m.WithLock(ctx, id, func(ctx context.Context) error {
			c, ok := m.lookup(id)
			if !ok {
				return nil
			}
			_, err := c.Refresh(ctx)
			return err
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Subscribe streams the frames of a session until cancel is called.
func (m *Manager) Subscribe(sessionID string) (<-chan domain.Frame, func()) {
	return m.streams.subscribe(sessionID)
}

// Deck returns the deck being presented.
func (m *Manager) Deck() *domain.Deck {
	return m.source.Deck()
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

func (m *Manager) newController(sessionID string) *Controller {
	return NewController(m.source, Config{
		SessionID: sessionID,
		Initial:   m.initial,
		Hooks:     m.hooks,
		Logger:    m.logger,
		Surface: ports.SurfaceFunc(func(_ context.Context, frame domain.Frame) error {
			m.streams.broadcast(sessionID, frame)
			return nil
		}),
		Publisher: ports.PublisherFunc(func(ctx context.Context, loc string) error {
			return m.save(ctx, sessionID, loc)
		}),
	})
}

// controller returns the live controller or rehydrates it from the store.
// The caller holds the session lock.
func (m *Manager) controller(ctx context.Context, sessionID string) (*Controller, error) {
	if c, ok := m.lookup(sessionID); ok {
		return c, nil
	}

	record, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c := m.newController(sessionID)
	if _, err := c.Enter(ctx, record.Location); err != nil {
		return nil, err
	}
	m.track(sessionID, c)
	m.logger.Debug("session rehydrated", "session_id", sessionID, "location", record.Location)
	return c, nil
}

func (m *Manager) save(ctx context.Context, sessionID, loc string) error {
	return m.store.Save(ctx, sessionID, domain.NewRecord(sessionID, loc))
}

func (m *Manager) lookup(sessionID string) (*Controller, bool) {
	m.liveMu.Lock()
	defer m.liveMu.Unlock()
	c, ok := m.live[sessionID]
	return c, ok
}

func (m *Manager) track(sessionID string, c *Controller) {
	m.liveMu.Lock()
	defer m.liveMu.Unlock()
	m.live[sessionID] = c
}

func (m *Manager) untrack(sessionID string) (*Controller, bool) {
	m.liveMu.Lock()
	defer m.liveMu.Unlock()
	c, ok := m.live[sessionID]
	delete(m.live, sessionID)
	return c, ok
}

func (m *Manager) startSpan(ctx context.Context, name, sessionID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("lectern.session_id", sessionID))
	return m.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (m *Manager) finish(span trace.Span, sessionID string, frame domain.Frame, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.logger.Warn("session operation failed", "session_id", sessionID, "err", err)
		return
	}
	span.SetAttributes(attribute.String("lectern.location", frame.Location))
}
