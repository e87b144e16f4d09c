package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/toolcall"
)

func (s *Server) registerPageTools() {
	// ── get_page ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_page",
		mcp.WithDescription("Return the current page document: sections in order with their brick trees"),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleGetPage)

	// ── edit_page ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("edit_page",
		mcp.WithDescription("Change the page label, path or attributes. Attributes are merged; null removes a key."),
		mcp.WithString("label", mcp.Description("New page label")),
		mcp.WithString("path", mcp.Description("New page path, starting with /")),
		mcp.WithObject("attributes", mcp.Description("Attribute patch")),
	), s.toolHandler(toolcall.ToolEditPage, pageResult))

	// ── undo / redo ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last change to the page"),
	), s.toolHandler(toolcall.ToolUndo, pageResult))

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone change"),
	), s.toolHandler(toolcall.ToolRedo, pageResult))
}

func (s *Server) handleGetPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.store.Page())
}
