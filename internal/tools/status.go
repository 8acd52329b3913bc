package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/status"
	"github.com/planforge/planforge/internal/store"
)

// StatusTool handles the plan_status MCP tool.
// Statuses are derived on every call — nothing here reads a stored status
// field for epics or milestones, because none exists.
type StatusTool struct {
	store    store.Store
	resolver *status.Resolver
}

// NewStatusTool creates a StatusTool over the given store.
func NewStatusTool(s store.Store) *StatusTool {
	return &StatusTool{store: s, resolver: status.NewResolver(s)}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_status",
		mcp.WithDescription(
			"Derive the current status of the planning tree. "+
				"With no id, returns an overview of every milestone and epic. "+
				"With a milestone id (M1) or epic id (E2), returns that element's "+
				"derived status. Statuses are computed from children on each call.",
		),
		mcp.WithString("id",
			mcp.Description("Milestone (M1) or epic (E2) id. Empty for the whole tree."),
		),
	)
}

// Handle processes the plan_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")

	if !t.store.IsInitialized() {
		err := plan.Errorf(plan.ErrNotInitialized, "no planning tree found — run plan_init first")
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch {
	case id == "":
		return t.overview()
	case plan.ValidMilestoneID(id):
		return t.milestoneStatus(id)
	case plan.ValidEpicID(id):
		return t.epicStatus(id)
	default:
		err := plan.Errorf(plan.ErrInvalidID, "%q is not a milestone (M<n>) or epic (E<n>) id", id)
		return mcp.NewToolResultError(err.Error()), nil
	}
}

// overview renders a derived-status table for the whole tree.
func (t *StatusTool) overview() (*mcp.CallToolResult, error) {
	project, err := store.LoadProject(t.store)
	if err != nil {
		return nil, err
	}
	idx, err := store.LoadMilestoneIndex(t.store)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Project: %s (%s)\n\n", project.Name, project.Status)

	if len(idx.Milestones) == 0 {
		sb.WriteString("_No milestones yet._\n")
		return mcp.NewToolResultText(sb.String()), nil
	}

	for _, m := range idx.Milestones {
		derived, err := t.resolver.Milestone(&m)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&sb, "## %s: %s — %s\n\n", m.ID, m.Name, derived)

		if len(m.Epics) == 0 {
			sb.WriteString("_No epics._\n\n")
			continue
		}

		sb.WriteString("| Epic | Status |\n")
		sb.WriteString("|------|--------|\n")
		for _, epicID := range m.Epics {
			es, found, err := t.resolver.Epic(epicID)
			if err != nil {
				return nil, err
			}
			if !found {
				fmt.Fprintf(&sb, "| %s | (not created yet) |\n", epicID)
				continue
			}
			fmt.Fprintf(&sb, "| %s | %s |\n", epicID, es)
		}
		sb.WriteString("\n")
	}

	if err := t.appendQueues(&sb); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// appendQueues adds a work-queue footer to the overview when either
// queue has entries. Queues are written by outside flows; here they are
// read-only signal.
func (t *StatusTool) appendQueues(sb *strings.Builder) error {
	tasks, err := store.LoadTaskQueue(t.store, store.KeyTaskQueue)
	if err != nil {
		return err
	}
	stuck, err := store.LoadTaskQueue(t.store, store.KeyStuckQueue)
	if err != nil {
		return err
	}

	if len(tasks.Tasks) == 0 && len(stuck.Tasks) == 0 {
		return nil
	}

	fmt.Fprintf(sb, "**Queues:** %d pending task(s), %d stuck\n", len(tasks.Tasks), len(stuck.Tasks))
	for _, item := range stuck.Tasks {
		fmt.Fprintf(sb, "- stuck: %s", item.ID)
		if item.StoryID != "" {
			fmt.Fprintf(sb, " (story %s)", item.StoryID)
		}
		if item.Note != "" {
			fmt.Fprintf(sb, " — %s", item.Note)
		}
		sb.WriteString("\n")
	}
	return nil
}

func (t *StatusTool) milestoneStatus(id string) (*mcp.CallToolResult, error) {
	idx, err := store.LoadMilestoneIndex(t.store)
	if err != nil {
		return nil, err
	}
	m := idx.Find(id)
	if m == nil {
		return resultOrError(plan.Errorf(plan.ErrNotFound, "milestone %q not found", id))
	}

	derived, err := t.resolver.Milestone(m)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s (%s): %s", m.ID, m.Name, derived)), nil
}

func (t *StatusTool) epicStatus(id string) (*mcp.CallToolResult, error) {
	derived, found, err := t.resolver.Epic(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return resultOrError(plan.Errorf(plan.ErrNotFound, "epic %q not found", id))
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s: %s", id, derived)), nil
}
