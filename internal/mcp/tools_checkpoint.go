package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerCheckpointTools() {
	s.mcp.AddTool(mcp.NewTool("save_checkpoint",
		mcp.WithDescription("Store a named snapshot of the current page"),
		mcp.WithString("label", mcp.Description("Checkpoint label"), mcp.Required()),
	), s.handleSaveCheckpoint)

	s.mcp.AddTool(mcp.NewTool("list_checkpoints",
		mcp.WithDescription("List stored snapshots of the current page, newest first"),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleListCheckpoints)

	s.mcp.AddTool(mcp.NewTool("restore_checkpoint",
		mcp.WithDescription("Replace the page with a stored snapshot. Undo brings the current page back."),
		mcp.WithString("checkpointId", mcp.Description("Checkpoint ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRestoreCheckpoint)
}

func (s *Server) handleSaveCheckpoint(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, _ := req.GetArguments()["label"].(string)
	if label == "" {
		return nil, fmt.Errorf("label is required")
	}
	cp, err := s.checkpoints.Push(ctx, label, s.store.Page())
	if err != nil {
		return nil, err
	}
	return jsonResult(cp)
}

func (s *Server) handleListCheckpoints(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.checkpoints.List(ctx, s.store.Page().ID)
	if err != nil {
		return nil, err
	}
	return jsonResult(list)
}

func (s *Server) handleRestoreCheckpoint(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := req.GetArguments()["checkpointId"].(string)
	if id == "" {
		return nil, fmt.Errorf("checkpointId is required")
	}
	page, err := s.checkpoints.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if current := s.store.Page().ID; page.ID != current {
		return nil, fmt.Errorf("checkpoint %s belongs to page %s, not %s", id, page.ID, current)
	}
	if err := s.store.Replace(page); err != nil {
		return nil, fmt.Errorf("restore checkpoint: %w", err)
	}
	s.logger.Info("checkpoint restored", "checkpointId", id, "pageId", page.ID)
	return jsonResult(s.store.Page())
}
