package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/toolcall"
)

func (s *Server) registerSectionTools() {
	// ── create_section ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_section",
		mcp.WithDescription("Insert a section. It goes right after afterSectionId, or last when omitted. Missing ids are generated."),
		mcp.WithObject("section",
			mcp.Description("Section object: {id?, label, props, bricks: [brick...]}"),
			mcp.Required(),
		),
		mcp.WithString("afterSectionId", mcp.Description("Section to insert after (optional)")),
	), s.toolHandler(toolcall.ToolCreateSection, pageResult))

	// ── edit_section ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("edit_section",
		mcp.WithDescription("Rename a section or merge a patch into its props"),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithString("label", mcp.Description("New label")),
		mcp.WithObject("props", mcp.Description("Props patch; null removes a key")),
	), s.toolHandler(toolcall.ToolEditSection, pageResult))

	// ── delete_section (destructive) ───────────────────
	s.mcp.AddTool(mcp.NewTool("delete_section",
		mcp.WithDescription("Delete a section and every brick inside it. Undo restores it."),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.toolHandler(toolcall.ToolDeleteSection, pageResult))

	// ── move_section ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_section",
		mcp.WithDescription("Swap a section with its neighbour above or below"),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithString("direction",
			mcp.Description("up or down"),
			mcp.Enum("up", "down"),
			mcp.Required(),
		),
	), s.toolHandler(toolcall.ToolMoveSection, pageResult))

	// ── reorder_sections ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_sections",
		mcp.WithDescription("Put sections in the given order. Sections not listed keep their relative order after the listed ones."),
		mcp.WithArray("sectionIds",
			mcp.Description("Section IDs in the desired order"),
			mcp.WithStringItems(),
			mcp.Required(),
		),
	), s.toolHandler(toolcall.ToolReorderSections, pageResult))
}
