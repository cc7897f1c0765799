package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/runner"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server -o api.gen.go openapi.yaml

// Server exposes a ports.SessionHost over HTTP by implementing the generated ServerInterface.
type Server struct {
	host    ports.SessionHost
	logger  *slog.Logger
	metrics http.Handler
}

var _ ServerInterface = (*Server)(nil)

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the session host.
func NewHandler(host ports.SessionHost, opts ...Option) http.Handler {
	s := &Server{
		host:   host,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	handler := HandlerWithOptions(s, ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: s.paramError,
	})
	return enableCORS(handler)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "lectern-http",
		"version":     strings.TrimSpace(lectern.Version),
		"api_version": apiVersion,
	})
}

// GetDeck handles the GET /deck request.
func (s *Server) GetDeck(w http.ResponseWriter, r *http.Request) {
	deck := s.host.Deck()
	out := Outline{Rows: []OutlineRow{}}
	if deck != nil {
		out.Title = optional(deck.Title)
		for _, top := range deck.Slides {
			row := OutlineRow{
				Id:        top.ID,
				Title:     optional(top.Title),
				Fragments: len(top.Fragments),
			}
			if len(top.Nested) > 0 {
				nested := make([]SlideSummary, 0, len(top.Nested))
				for i := range top.Nested {
					nested = append(nested, summarize(&top.Nested[i]))
				}
				row.Nested = &nested
			}
			out.Rows = append(out.Rows, row)
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.host.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// EnterSession handles POST /sessions/{id}. The body is optional.
func (s *Server) EnterSession(w http.ResponseWriter, r *http.Request, id SessionID) {
	var body EnterSessionJSONRequestBody
	if err := decodeOptional(r, &body); err != nil {
		s.writeStatus(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	loc, err := sanitize(body.Location)
	if err != nil {
		s.writeError(w, err)
		return
	}

	frame, err := s.host.Enter(r.Context(), id, loc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.frameResponse(frame))
}

// GetFrame handles GET /sessions/{id}.
func (s *Server) GetFrame(w http.ResponseWriter, r *http.Request, id SessionID) {
	frame, err := s.host.Frame(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.frameResponse(frame))
}

// ExitSession handles DELETE /sessions/{id}. With ?purge=true the stored record is removed too.
func (s *Server) ExitSession(w http.ResponseWriter, r *http.Request, id SessionID, params ExitSessionParams) {
	var err error
	if params.Purge != nil && *params.Purge {
		err = s.host.Delete(r.Context(), id)
	} else {
		err = s.host.Exit(r.Context(), id)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Navigate handles POST /sessions/{id}/navigate.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request, id SessionID) {
	var body NavigateJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeStatus(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("Navigate: Invalid request body", "err", err)
		return
	}
	cmd, err := mapCommandToDomain(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.dispatch(w, r, id, cmd)
}

// SyncLocation handles PUT /sessions/{id}/location: the host reports a
// location change it made itself (address bar, back button).
func (s *Server) SyncLocation(w http.ResponseWriter, r *http.Request, id SessionID) {
	var body SyncLocationJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeStatus(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	loc, err := sanitize(body.Location)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.dispatch(w, r, id, domain.Command{Intent: domain.IntentLocation, Location: loc})
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, id SessionID, cmd domain.Command) {
	frame, err := s.host.Dispatch(r.Context(), id, cmd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Debug("navigated", "session_id", id, "intent", cmd.Intent, "location", frame.Location)
	s.writeJSON(w, http.StatusOK, s.frameResponse(frame))
}

// paramError reports a path or query parameter the generated wrapper could not bind.
func (s *Server) paramError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("request parameter rejected", "path", r.URL.Path, "err", err)
	s.writeStatus(w, http.StatusBadRequest, err.Error())
}

// Mappers

func mapCommandToDomain(c Command) (domain.Command, error) {
	intent, err := domain.ParseIntent(string(c.Intent))
	if err != nil {
		return domain.Command{}, err
	}
	loc, err := sanitize(c.Location)
	if err != nil {
		return domain.Command{}, err
	}
	return domain.Command{Intent: intent, Row: c.Row, Column: c.Column, Location: loc}, nil
}

func (s *Server) frameResponse(f domain.Frame) Frame {
	out := Frame{
		Location: f.Location,
		Position: Position{Row: f.Position.Row, Column: f.Position.Column},
		Routes: Routes{
			Left:  f.Routes.Left,
			Right: f.Routes.Right,
			Up:    f.Routes.Up,
			Down:  f.Routes.Down,
		},
		Rows:       mapVisibility(f.Rows),
		FirstSlide: f.FirstSlide,
	}
	if len(f.Columns) > 0 {
		columns := mapVisibility(f.Columns)
		out.Columns = &columns
	}
	if len(f.Fragments) > 0 {
		fragments := slices.Clone(f.Fragments)
		out.Fragments = &fragments
	}
	if slide, ok := s.host.Deck().SlideAt(f.Position); ok {
		summary := summarize(slide)
		out.Slide = &summary
	}
	return out
}

func mapVisibility(in []domain.Visibility) []Visibility {
	out := make([]Visibility, len(in))
	for i, v := range in {
		out[i] = Visibility(v)
	}
	return out
}

func summarize(s *domain.Slide) SlideSummary {
	return SlideSummary{Id: s.ID, Title: optional(s.Title), Fragments: len(s.Fragments)}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sanitize(loc *string) (string, error) {
	if loc == nil || *loc == "" {
		return "", nil
	}
	return runner.SanitizeLocation(*loc)
}

// decodeOptional decodes a JSON body, accepting an empty one.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownIntent),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeStatus(w, status, err.Error())
}

func (s *Server) writeStatus(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
