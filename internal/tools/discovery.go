package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/store"
)

// DiscoveryTool handles the plan_discovery MCP tool.
// Discovery documents are free-form scoping notes attached to a milestone
// or epic; they never influence status derivation.
type DiscoveryTool struct {
	store store.Store
}

// NewDiscoveryTool creates a DiscoveryTool over the given store.
func NewDiscoveryTool(s store.Store) *DiscoveryTool {
	return &DiscoveryTool{store: s}
}

// Definition returns the MCP tool definition for registration.
func (t *DiscoveryTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_discovery",
		mcp.WithDescription(
			"Start or complete a discovery document for a milestone or epic. "+
				"Discovery captures the problem, scope boundaries, and success "+
				"criteria before planning work begins. Completing discovery that "+
				"was never started is an error.",
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("'start' or 'complete'."),
			mcp.Enum("start", "complete"),
		),
		mcp.WithString("element",
			mcp.Required(),
			mcp.Description("Milestone (M1) or epic (E2) id the discovery belongs to."),
		),
		mcp.WithString("problem",
			mcp.Description("Problem statement. Used on start; ignored on complete."),
		),
	)
}

// Handle processes the plan_discovery tool call.
func (t *DiscoveryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action := req.GetString("action", "")
	element := req.GetString("element", "")

	key, err := store.DiscoveryKeyFor(t.store, element)
	if err != nil {
		return resultOrError(err)
	}

	switch action {
	case "start":
		return t.start(key, element, req.GetString("problem", ""))
	case "complete":
		return t.complete(key, element)
	default:
		return mcp.NewToolResultError("'action' must be 'start' or 'complete'"), nil
	}
}

func (t *DiscoveryTool) start(key, element, problem string) (*mcp.CallToolResult, error) {
	existing, err := store.LoadElementDiscovery(t.store, key)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == plan.DiscoveryStarted {
		return mcp.NewToolResultError(fmt.Sprintf(
			"discovery for %s is already in progress (started %s)", element, existing.StartedAt)), nil
	}

	d := plan.ElementDiscovery{
		Element:   element,
		Status:    plan.DiscoveryStarted,
		Problem:   problem,
		StartedAt: timeNow().UTC().Format(time.RFC3339),
	}
	if err := t.store.WriteJSON(key, d); err != nil {
		return nil, fmt.Errorf("writing discovery: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("discovery started for %s", element)), nil
}

func (t *DiscoveryTool) complete(key, element string) (*mcp.CallToolResult, error) {
	d, err := store.LoadElementDiscovery(t.store, key)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return resultOrError(plan.Errorf(plan.ErrNoDiscovery,
			"no discovery was started for %s — start one before completing it", element))
	}

	d.Status = plan.DiscoveryComplete
	d.CompletedAt = timeNow().UTC().Format(time.RFC3339)
	if err := t.store.WriteJSON(key, d); err != nil {
		return nil, fmt.Errorf("writing discovery: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("discovery completed for %s", element)), nil
}
