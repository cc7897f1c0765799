package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/lectern/pkg/adapters/mcp"
)

// MCPOptions contains the configuration for the mcp command.
type MCPOptions struct {
	DeckPath  string
	Transport string
	Port      int
	Store     string
	Watch     bool
	Debug     bool
	LogFile   string
}

// ServeMCP exposes the deck to AI agents as an MCP server.
// Logs go to Stderr so they never corrupt the stdio JSON-RPC stream.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
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

	mcpServer := mcp.NewServer(srv.engine.Sessions(), mcp.WithLogger(logger))

	switch opts.Transport {
	case "", "stdio":
		logger.Info("Starting Lectern MCP Server (Stdio)")
		return mcpServer.ServeStdio()
	case "sse":
		port := srv.settings.Port
		if opts.Port > 0 {
			port = opts.Port
		}
		logger.Info("Starting Lectern MCP Server (SSE)", "port", port)
		if err := mcpServer.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
	}
}
