package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/store"
)

// InitTool handles the plan_init MCP tool.
// It bootstraps the planning tree: project record, directory skeleton,
// empty milestone index, and a default configuration.
type InitTool struct {
	store store.Store
}

// NewInitTool creates an InitTool with the given store.
func NewInitTool(s store.Store) *InitTool {
	return &InitTool{store: s}
}

// Definition returns the MCP tool definition for registration.
func (t *InitTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_init",
		mcp.WithDescription(
			"Initialize a new planning tree for this workspace. "+
				"Creates the project record, the milestone/epic/validation directory "+
				"skeleton, and a default configuration. "+
				"This is always the first step — every other tool requires it.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Project name"),
		),
		mcp.WithString("description",
			mcp.Description("Brief description of what the project delivers"),
		),
	)
}

// Handle processes the plan_init tool call.
func (t *InitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	description := req.GetString("description", "")

	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	if t.store.IsInitialized() {
		err := plan.Errorf(plan.ErrAlreadyInitialized,
			"a planning tree already exists here — use plan_get_context to see its state")
		return mcp.NewToolResultError(err.Error()), nil
	}

	now := timeNow().UTC().Format(time.RFC3339)
	project := plan.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Status:      plan.ProjectActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.store.WriteJSON(store.KeyProject, project); err != nil {
		return nil, fmt.Errorf("writing project: %w", err)
	}

	for _, dir := range []string{store.DirDiscovery, store.DirMilestones, store.DirEpics, store.DirValidation} {
		if err := t.store.EnsureDirectory(dir); err != nil {
			return nil, err
		}
	}

	if err := t.store.WriteJSON(store.KeyMilestoneIndex, plan.MilestoneIndex{Milestones: []plan.Milestone{}}); err != nil {
		return nil, fmt.Errorf("writing milestone index: %w", err)
	}
	if err := t.store.WriteYAML(store.KeyConfig, plan.Config{Version: "1"}); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Planning tree initialized: %s\n\n"+
			"Project id: %s\n\n"+
			"Next steps:\n"+
			"1. Capture project-level discovery (vision, values, constraints)\n"+
			"2. Create milestones and epics with your planning commands\n"+
			"3. Use plan_get_context to compose context for any level\n"+
			"4. Run plan_validate after structural edits\n",
		project.Name, project.ID,
	)), nil
}
