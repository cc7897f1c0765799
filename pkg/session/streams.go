package session

import (
	"log/slog"
	"sync"

	"github.com/aretw0/lectern/pkg/domain"
)

// streams fans frames out to per-session subscribers.
type streams struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan domain.Frame]struct{}
	logger      *slog.Logger
}

func newStreams(logger *slog.Logger) *streams {
	return &streams{
		subscribers: make(map[string]map[chan domain.Frame]struct{}),
		logger:      logger,
	}
}

func (s *streams) subscribe(sessionID string) (<-chan domain.Frame, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan domain.Frame, 10)
	if _, ok := s.subscribers[sessionID]; !ok {
		s.subscribers[sessionID] = make(map[chan domain.Frame]struct{})
	}
	s.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if subs, ok := s.subscribers[sessionID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(s.subscribers, sessionID)
				}
			}
		})
	}
}

func (s *streams) broadcast(sessionID string, frame domain.Frame) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.subscribers[sessionID] {
		select {
		case ch <- frame:
		default:
			// Slow subscriber; it will catch up on the next frame.
			s.logger.Warn("Frame stream buffer full, dropping frame", "session_id", sessionID)
		}
	}
}
