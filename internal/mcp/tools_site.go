package mcpserver

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/toolcall"
)

func (s *Server) registerSiteTools() {
	// ── create_theme ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_theme",
		mcp.WithDescription("Add a theme to the site library, optionally selecting it"),
		mcp.WithObject("theme",
			mcp.Description("Theme: {id?, name, description?, tags?, colors, typography, browserColorScheme?}"),
			mcp.Required(),
		),
		mcp.WithBoolean("select", mcp.Description("Make it the active theme")),
	), s.toolHandler(toolcall.ToolCreateTheme, siteResult))

	// ── edit_theme ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("edit_theme",
		mcp.WithDescription("Patch a library theme. Colors and typography are merged per key."),
		mcp.WithObject("theme", mcp.Description("Theme patch, id required"), mcp.Required()),
	), s.toolHandler(toolcall.ToolEditTheme, siteResult))

	// ── set_preview_theme ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_preview_theme",
		mcp.WithDescription("Stage a theme for preview without committing it"),
		mcp.WithObject("theme", mcp.Description("Theme to preview"), mcp.Required()),
	), s.toolHandler(toolcall.ToolSetPreviewTheme, siteResult))

	s.mcp.AddTool(mcp.NewTool("accept_preview_theme",
		mcp.WithDescription("Commit the staged preview theme as the active theme"),
	), s.handleAcceptPreviewTheme)

	s.mcp.AddTool(mcp.NewTool("discard_preview_theme",
		mcp.WithDescription("Drop the staged preview theme"),
	), s.handleDiscardPreviewTheme)

	// ── create_datasource / create_datarecord ──────────
	s.mcp.AddTool(mcp.NewTool("create_datasource",
		mcp.WithDescription("Add or replace a datasource that bricks can bind to"),
		mcp.WithObject("datasource",
			mcp.Description("Datasource: {id?, label, provider, description?, schema?, sample?}"),
			mcp.Required(),
		),
	), s.toolHandler(toolcall.ToolCreateDatasource, siteResult))

	s.mcp.AddTool(mcp.NewTool("create_datarecord",
		mcp.WithDescription("Add or replace a datarecord that forms can submit to"),
		mcp.WithObject("datarecord",
			mcp.Description("Datarecord: {id?, label, provider, schema?}"),
			mcp.Required(),
		),
	), s.toolHandler(toolcall.ToolCreateDatarecord, siteResult))

	// ── edit_site_attributes ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("edit_site_attributes",
		mcp.WithDescription("Merge a patch into site attributes and/or replace the site prompt"),
		mcp.WithObject("attributes", mcp.Description("Attribute patch; null removes a key")),
		mcp.WithString("sitePrompt", mcp.Description("Free-text brief describing the site")),
	), s.toolHandler(toolcall.ToolEditSiteAttributes, siteResult))
}

func (s *Server) handleAcceptPreviewTheme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.site.AcceptPreviewTheme() {
		return nil, errors.New("no preview theme staged")
	}
	return jsonResult(s.site.Site())
}

func (s *Server) handleDiscardPreviewTheme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.site.DiscardPreviewTheme() {
		return nil, errors.New("no preview theme staged")
	}
	return jsonResult(s.site.Site())
}
