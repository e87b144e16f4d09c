package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/toolcall"
)

func (s *Server) registerBrickTools() {
	// ── create_brick ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_brick",
		mcp.WithDescription("Insert a brick into a section, or into a container brick when parentId is set. Missing ids are generated."),
		mcp.WithObject("brick",
			mcp.Description("Brick object: {id?, type, props, mobileProps?}. Containers carry children under props.$children."),
			mcp.Required(),
		),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithString("parentId", mcp.Description("Container brick ID (optional)")),
		mcp.WithNumber("index", mcp.Description("Position in the target list; appended when omitted")),
	), s.toolHandler(toolcall.ToolCreateBrick, pageResult))

	// ── edit_brick ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("edit_brick",
		mcp.WithDescription("Change a brick's type and merge patches into its desktop or mobile props. One undo step."),
		mcp.WithString("brickId", mcp.Description("Brick ID"), mcp.Required()),
		mcp.WithString("type", mcp.Description("New brick type (optional)")),
		mcp.WithObject("props", mcp.Description("Desktop props patch; null removes a key")),
		mcp.WithObject("mobileProps", mcp.Description("Mobile override patch; null removes a key")),
	), s.toolHandler(toolcall.ToolEditBrick, pageResult))

	// ── delete_brick (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_brick",
		mcp.WithDescription("Delete a brick and its descendants. Undo restores it."),
		mcp.WithString("brickId", mcp.Description("Brick ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.toolHandler(toolcall.ToolDeleteBrick, pageResult))

	// ── move_brick ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_brick",
		mcp.WithDescription("Swap a brick with a sibling (direction), or move it into a container (parentId) or a section's top level (sectionId)"),
		mcp.WithString("brickId", mcp.Description("Brick ID"), mcp.Required()),
		mcp.WithString("direction", mcp.Description("previous or next"), mcp.Enum("previous", "next")),
		mcp.WithString("parentId", mcp.Description("Destination container brick")),
		mcp.WithString("sectionId", mcp.Description("Destination section")),
		mcp.WithNumber("index", mcp.Description("Position in the destination list; appended when omitted")),
	), s.toolHandler(toolcall.ToolMoveBrick, pageResult))

	// ── duplicate_brick ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_brick",
		mcp.WithDescription("Copy a brick with fresh ids and insert it right after the original"),
		mcp.WithString("brickId", mcp.Description("Brick ID"), mcp.Required()),
	), s.toolHandler(toolcall.ToolDuplicateBrick, pageResult))
}
