package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/runner"
)

// DeckURI is the resource exposing the deck outline.
const DeckURI = "lectern://deck"

// FrameResult is returned by every navigation tool. It carries the slide
// content so an assistant can follow along without a second call.
type FrameResult struct {
	SessionID string                  `json:"session_id" jsonschema_description:"The session the frame belongs to"`
	Frame     domain.Frame            `json:"frame" jsonschema_description:"Position, location, routes and fragment visibility"`
	SlideID   string                  `json:"slide_id,omitempty" jsonschema_description:"ID of the slide on screen"`
	Title     string                  `json:"title,omitempty" jsonschema_description:"Title of the slide on screen"`
	Content   string                  `json:"content,omitempty" jsonschema_description:"Markdown content of the slide on screen"`
	Visible   []domain.FragmentHandle `json:"visible_fragments,omitempty" jsonschema_description:"Fragments currently shown"`
}

// GoToInput is the go_to tool input.
type GoToInput struct {
	SessionID string `json:"session_id"`
	Row       int    `json:"row"`
	Column    *int   `json:"column"`
}

// Server wraps a session host and exposes it as an MCP Server.
type Server struct {
	host      ports.SessionHost
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(host ports.SessionHost, opts ...Option) *Server {
	s := &Server{
		host:      host,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("lectern-mcp", strings.TrimSpace(lectern.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and blocks until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sessionArg := mcp.WithString("session_id", mcp.Required(), mcp.Description("Presentation session ID"))

	s.mcpServer.AddTool(mcp.NewTool("enter_session",
		mcp.WithDescription("Start or resume a presentation session. Without a location the stored one is used."),
		sessionArg,
		mcp.WithString("location", mcp.Description("Location to open at, e.g. /2/1 (optional)")),
		mcp.WithOutputSchema[FrameResult](),
	), mcp.NewStructuredToolHandler(s.handleEnter))

	s.mcpServer.AddTool(mcp.NewTool("navigate",
		mcp.WithDescription("Move one step. Left/right reveal or hide fragments before changing slide."),
		sessionArg,
		mcp.WithString("intent", mcp.Required(), mcp.Description("One of left, right, up, down"),
			mcp.Enum("left", "right", "up", "down")),
		mcp.WithOutputSchema[FrameResult](),
	), mcp.NewStructuredToolHandler(s.handleNavigate))

	s.mcpServer.AddTool(mcp.NewTool("go_to",
		mcp.WithDescription("Jump to a slide. Out-of-range coordinates are clamped."),
		sessionArg,
		mcp.WithNumber("row", mcp.Required(), mcp.Description("Top-level slide index"), mcp.Min(0)),
		mcp.WithNumber("column", mcp.Description("Nested slide index (optional, keeps the current one)"), mcp.Min(0)),
		mcp.WithInputSchema[GoToInput](),
		mcp.WithOutputSchema[FrameResult](),
	), s.handleGoTo)

	s.mcpServer.AddTool(mcp.NewTool("sync_location",
		mcp.WithDescription("Apply a location changed outside the session (address bar, history)."),
		sessionArg,
		mcp.WithString("location", mcp.Required(), mcp.Description("Location string, e.g. /2/1")),
		mcp.WithOutputSchema[FrameResult](),
	), mcp.NewStructuredToolHandler(s.handleSyncLocation))

	s.mcpServer.AddTool(mcp.NewTool("get_frame",
		mcp.WithDescription("Return the current frame of a session without moving."),
		sessionArg,
		mcp.WithOutputSchema[FrameResult](),
	), mcp.NewStructuredToolHandler(s.handleGetFrame))

	s.mcpServer.AddTool(mcp.NewTool("exit_session",
		mcp.WithDescription("Leave a session. With purge the stored location is deleted too."),
		sessionArg,
		mcp.WithBoolean("purge", mcp.Description("Delete the stored record (optional)")),
	), s.handleExit)
}

func (s *Server) handleEnter(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FrameResult, error) {
	id, err := sessionID(args)
	if err != nil {
		return FrameResult{}, err
	}
	loc, _ := args["location"].(string)
	if loc, err = sanitize(loc); err != nil {
		return FrameResult{}, err
	}
	frame, err := s.host.Enter(ctx, id, loc)
	if err != nil {
		return FrameResult{}, fmt.Errorf("enter failed: %w", err)
	}
	return s.result(id, frame), nil
}

func (s *Server) handleNavigate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FrameResult, error) {
	raw, _ := args["intent"].(string)
	intent, err := domain.ParseIntent(raw)
	if err != nil {
		return FrameResult{}, err
	}
	return s.dispatch(ctx, args, domain.Command{Intent: intent})
}

func (s *Server) handleGoTo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GoToInput
	if err := request.BindArguments(&input); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid go_to arguments", err), nil
	}
	if strings.TrimSpace(input.SessionID) == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	frame, err := s.host.Dispatch(ctx, input.SessionID, domain.GoTo(&input.Row, input.Column))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("go_to failed", err), nil
	}
	return mcp.NewToolResultStructuredOnly(s.result(input.SessionID, frame)), nil
}

func (s *Server) handleSyncLocation(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FrameResult, error) {
	loc, _ := args["location"].(string)
	loc, err := sanitize(loc)
	if err != nil {
		return FrameResult{}, err
	}
	return s.dispatch(ctx, args, domain.Command{Intent: domain.IntentLocation, Location: loc})
}

func (s *Server) handleGetFrame(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FrameResult, error) {
	id, err := sessionID(args)
	if err != nil {
		return FrameResult{}, err
	}
	frame, err := s.host.Frame(ctx, id)
	if err != nil {
		return FrameResult{}, fmt.Errorf("get frame failed: %w", err)
	}
	return s.result(id, frame), nil
}

func (s *Server) handleExit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, err := sessionID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	purge, _ := args["purge"].(bool)
	if purge {
		err = s.host.Delete(ctx, id)
	} else {
		err = s.host.Exit(ctx, id)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("exit failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("session %s closed", id)), nil
}

func (s *Server) dispatch(ctx context.Context, args map[string]interface{}, cmd domain.Command) (FrameResult, error) {
	id, err := sessionID(args)
	if err != nil {
		return FrameResult{}, err
	}
	frame, err := s.host.Dispatch(ctx, id, cmd)
	if err != nil {
		s.logger.Warn("MCP dispatch failed", "session_id", id, "intent", cmd.Intent, "err", err)
		return FrameResult{}, fmt.Errorf("%s failed: %w", cmd.Intent, err)
	}
	return s.result(id, frame), nil
}

func (s *Server) result(id string, frame domain.Frame) FrameResult {
	res := FrameResult{SessionID: id, Frame: frame}
	if slide, ok := s.host.Deck().SlideAt(frame.Position); ok {
		res.SlideID = slide.ID
		res.Title = slide.Title
		res.Content = slide.Content
		for i, shown := range frame.Fragments {
			if shown && i < len(slide.Fragments) {
				res.Visible = append(res.Visible, slide.Fragments[i])
			}
		}
	}
	return res
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(DeckURI, "Deck Outline",
		mcp.WithMIMEType("application/json"),
	), s.readDeck)
}

func (s *Server) readDeck(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.host.Deck())
	if err != nil {
		return nil, fmt.Errorf("failed to encode deck: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DeckURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func sessionID(args map[string]interface{}) (string, error) {
	id, _ := args["session_id"].(string)
	if strings.TrimSpace(id) == "" {
		return "", errors.New("session_id is required")
	}
	return id, nil
}

func sanitize(loc string) (string, error) {
	if loc == "" {
		return "", nil
	}
	clean, err := runner.SanitizeLocation(loc)
	if err != nil {
		return "", fmt.Errorf("input rejected: %w", err)
	}
	return clean, nil
}
