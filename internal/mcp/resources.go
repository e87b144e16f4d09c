package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	pageURI = "pagebuilder://page"
	siteURI = "pagebuilder://site"
)

func (s *Server) registerResources() {
	// ── pagebuilder://page ─────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		pageURI,
		"Current Page",
		mcp.WithResourceDescription("The page being edited, with its section and brick tree"),
		mcp.WithMIMEType("application/json"),
	), s.handlePageResource)

	// ── pagebuilder://site ─────────────────────────────
	if s.site != nil {
		s.mcp.AddResource(mcp.NewResource(
			siteURI,
			"Site",
			mcp.WithResourceDescription("Sitemap, themes, datasources and attributes shared by all pages"),
			mcp.WithMIMEType("application/json"),
		), s.handleSiteResource)
	}
}

func (s *Server) handlePageResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(pageURI, s.store.Page())
}

func (s *Server) handleSiteResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(siteURI, s.site.Site())
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
