package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/draft"
	"pagebuilder/internal/history"
	"pagebuilder/internal/manifest"
	"pagebuilder/internal/site"
	"pagebuilder/internal/storage"
	"pagebuilder/internal/toolcall"
)

// Checkpoints is the slice of storage.CheckpointStore the server uses.
type Checkpoints interface {
	Push(ctx context.Context, label string, page *domain.Page) (*storage.Checkpoint, error)
	List(ctx context.Context, pageID string) ([]storage.Checkpoint, error)
	Load(ctx context.Context, id string) (*domain.Page, error)
}

// Server is the MCP server of the page builder. Every mutating tool is
// turned into a completed tool-call part and applied through the bridge,
// so agents edit the document exactly like the in-app assistant does.
type Server struct {
	mcp    *server.MCPServer
	logger *slog.Logger

	store       *draft.Store
	site        *site.Store
	history     *history.Manager
	bridge      *toolcall.Bridge
	checkpoints Checkpoints
	manifests   *manifest.Registry
}

// Deps holds everything the app layer hands to the MCP server.
type Deps struct {
	Store       *draft.Store
	Site        *site.Store
	History     *history.Manager
	Bridge      *toolcall.Bridge
	Checkpoints Checkpoints        // optional
	Manifests   *manifest.Registry // optional, lists brick types in prompts
	Logger      *slog.Logger
}

// New creates and configures the MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		logger:      deps.Logger,
		store:       deps.Store,
		site:        deps.Site,
		history:     deps.History,
		bridge:      deps.Bridge,
		checkpoints: deps.Checkpoints,
		manifests:   deps.Manifests,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s.mcp = server.NewMCPServer(
		"pagebuilder-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerPageTools()
	s.registerSectionTools()
	s.registerBrickTools()
	if s.site != nil {
		s.registerSiteTools()
	}
	if s.checkpoints != nil {
		s.registerCheckpointTools()
	}
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// MCPServer exposes the underlying server, e.g. for an HTTP transport.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ── Helpers ────────────────────────────────────────────────

type resultKind int

const (
	pageResult resultKind = iota
	siteResult
)

// toolHandler returns a handler that forwards the call arguments to the
// bridge as the output of a completed tool call.
func (s *Server) toolHandler(name toolcall.ToolName, kind resultKind) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := s.apply(name, req.GetArguments()); err != nil {
			return nil, err
		}
		if kind == siteResult {
			return jsonResult(s.site.Site())
		}
		return jsonResult(s.store.Page())
	}
}

func (s *Server) apply(name toolcall.ToolName, args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	part := toolcall.NewPart(name, uuid.New().String(), args)
	if err := s.bridge.Run(part); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }
