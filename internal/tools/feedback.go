package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/store"
)

// FeedbackTool handles the plan_feedback MCP tool.
// The feedback queue is written by out-of-band review flows; this tool
// only lists entries and marks them resolved.
type FeedbackTool struct {
	store store.Store
}

// NewFeedbackTool creates a FeedbackTool over the given store.
func NewFeedbackTool(s store.Store) *FeedbackTool {
	return &FeedbackTool{store: s}
}

// Definition returns the MCP tool definition for registration.
func (t *FeedbackTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_feedback",
		mcp.WithDescription(
			"List the feedback queue, or mark one entry resolved. "+
				"Feedback entries are produced by review flows outside this server.",
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("'list' or 'resolve'."),
			mcp.Enum("list", "resolve"),
		),
		mcp.WithString("id",
			mcp.Description("Feedback entry id. Required for resolve."),
		),
	)
}

// Handle processes the plan_feedback tool call.
func (t *FeedbackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action := req.GetString("action", "")

	queue, err := store.LoadFeedbackQueue(t.store)
	if err != nil {
		return nil, err
	}

	switch action {
	case "list":
		if len(queue.Items) == 0 {
			return mcp.NewToolResultText("feedback queue is empty"), nil
		}
		var sb strings.Builder
		sb.WriteString("# Feedback Queue\n\n")
		for _, item := range queue.Items {
			marker := " "
			if item.Resolved {
				marker = "x"
			}
			fmt.Fprintf(&sb, "- [%s] %s: %s\n", marker, item.ID, item.Message)
		}
		return mcp.NewToolResultText(sb.String()), nil

	case "resolve":
		id := req.GetString("id", "")
		if id == "" {
			return mcp.NewToolResultError("'id' is required for resolve"), nil
		}
		for i := range queue.Items {
			if queue.Items[i].ID != id {
				continue
			}
			queue.Items[i].Resolved = true
			if err := t.store.WriteJSON(store.KeyFeedbackQueue, queue); err != nil {
				return nil, fmt.Errorf("writing feedback queue: %w", err)
			}
			return mcp.NewToolResultText(fmt.Sprintf("feedback %s resolved", id)), nil
		}
		return resultOrError(plan.Errorf(plan.ErrNotFound, "feedback %q not found", id))

	default:
		return mcp.NewToolResultError("'action' must be 'list' or 'resolve'"), nil
	}
}
