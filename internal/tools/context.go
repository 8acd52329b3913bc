package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/planforge/planforge/internal/compose"
	"github.com/planforge/planforge/internal/store"
)

// ContextTool handles the plan_get_context MCP tool.
// It returns an inheritance-composed context package: the requested node
// bundled with all of its ancestors' data, so an agent with no memory can
// work from the one response alone.
type ContextTool struct {
	composer *compose.Composer
}

// NewContextTool creates a ContextTool over the given store.
func NewContextTool(s store.Store) *ContextTool {
	return &ContextTool{composer: compose.New(s)}
}

// Definition returns the MCP tool definition for registration.
func (t *ContextTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_get_context",
		mcp.WithDescription(
			"Compose a read-only context package for a node of the planning tree. "+
				"Each level embeds its parent's complete context: a story context "+
				"carries its epic, milestone, and project data inline. "+
				"Statuses in the response are derived fresh from children, never cached.",
		),
		mcp.WithString("level",
			mcp.Required(),
			mcp.Description(
				"Context level: 'project' (root data + discovery/constraints/config), "+
					"'milestone' (adds milestone record, derived status, sibling epics), "+
					"'epic' (adds epic record, derived status, dependency summaries), "+
					"'story' (adds PRD/architecture text and the parsed requirement list "+
					"— both artifacts must exist).",
			),
			mcp.Enum("project", "milestone", "epic", "story"),
		),
		mcp.WithString("id",
			mcp.Description(
				"Milestone id (M1) for level=milestone, epic id (E2) for "+
					"level=epic or level=story. Ignored for level=project.",
			),
		),
	)
}

// Handle processes the plan_get_context tool call.
func (t *ContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level := req.GetString("level", "")
	id := req.GetString("id", "")

	var (
		view any
		err  error
	)
	switch level {
	case "project":
		view, err = t.composer.Project()
	case "milestone":
		if id == "" {
			return mcp.NewToolResultError("'id' is required for level=milestone"), nil
		}
		view, err = t.composer.Milestone(id)
	case "epic":
		if id == "" {
			return mcp.NewToolResultError("'id' is required for level=epic"), nil
		}
		view, err = t.composer.Epic(id)
	case "story":
		if id == "" {
			return mcp.NewToolResultError("'id' is required for level=story"), nil
		}
		view, err = t.composer.Story(id)
	default:
		return mcp.NewToolResultError("'level' must be one of: project, milestone, epic, story"), nil
	}

	if err != nil {
		return resultOrError(err)
	}
	return jsonResult(view)
}
