package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("landing_page",
		mcp.WithPromptDescription("Guide through building a landing page section by section"),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("What the page is about"),
			mcp.RequiredArgument(),
		),
	), s.handleLandingPagePrompt)

	if s.site != nil {
		s.mcp.AddPrompt(mcp.NewPrompt("restyle_site",
			mcp.WithPromptDescription("Propose a new theme, preview it, and commit it once approved"),
			mcp.WithArgument("mood",
				mcp.ArgumentDescription("Desired look and feel, e.g. warm, minimal, playful"),
				mcp.RequiredArgument(),
			),
		), s.handleRestyleSitePrompt)
	}
}

// brickTypes lists the registered brick types, or a fallback sentence when
// no registry was wired.
func (s *Server) brickTypes() string {
	if s.manifests == nil {
		return "text, heading, image, button and container"
	}
	return strings.Join(s.manifests.Types(), ", ")
}

func (s *Server) handleLandingPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a landing page about: %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a landing page about "%s". Follow these steps:

1. Read get_page to see what already exists
2. Use create_section for a hero, a features section and a call-to-action, in that order
3. Fill each section with create_brick. Available brick types: %s
4. Group related bricks in container bricks and pass parentId to nest them
5. Use edit_brick with mobileProps where the mobile layout needs different sizes

Every step can be reverted with undo.`, topic, s.brickTypes()),
				},
			},
		},
	}, nil
}

func (s *Server) handleRestyleSitePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	mood := req.Params.Arguments["mood"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Restyle the site: %s", mood),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Restyle the site with a "%s" look. Follow these steps:

1. Read the pagebuilder://site resource for the current theme and site prompt
2. Stage a candidate with set_preview_theme, giving colors (primary, secondary, background, text) and typography (heading, body)
3. Ask for approval, then call accept_preview_theme, or discard_preview_theme and try again
4. Use create_theme with select=true if the theme should also be kept in the library`, mood),
				},
			},
		},
	}, nil
}
