package http

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SubscribeEvents handles GET /sessions/{id}/events (SSE).
// Every frame the session produces is sent as one data line.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, sessionID SessionID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to session frames", "session_id", sessionID)
	frames, cancel := s.host.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			payload, err := json.Marshal(s.frameResponse(frame))
			if err != nil {
				s.logger.Error("SSE: frame encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
