// Package resources implements MCP resource handlers for the planning tree.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (plan://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/status"
	"github.com/planforge/planforge/internal/store"
)

// Handler manages the planning resource endpoints.
type Handler struct {
	store    store.Store
	resolver *status.Resolver
}

// NewHandler creates a resource Handler over the given store.
func NewHandler(s store.Store) *Handler {
	return &Handler{store: s, resolver: status.NewResolver(s)}
}

// StatusResource returns the MCP resource definition for tree status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		"plan://project/status",
		"Planning Tree Status",
		mcp.WithResourceDescription("Project record plus derived milestone statuses"),
		mcp.WithMIMEType("application/json"),
	)
}

// statusView is the JSON shape served at plan://project/status.
type statusView struct {
	Project    plan.Project                      `json:"project"`
	Milestones map[string]status.MilestoneStatus `json:"milestones"`
}

// HandleStatus returns the project record with derived milestone statuses.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	project, err := store.LoadProject(h.store)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if project == nil {
		return errorResource(req.Params.URI, "planning tree is not initialized"), nil
	}

	view := statusView{Project: *project, Milestones: map[string]status.MilestoneStatus{}}

	idx, err := store.LoadMilestoneIndex(h.store)
	if err != nil {
		return nil, fmt.Errorf("loading milestone index: %w", err)
	}
	for _, m := range idx.Milestones {
		derived, err := h.resolver.Milestone(&m)
		if err != nil {
			return nil, err
		}
		view.Milestones[m.ID] = derived
	}

	return jsonResource(req.Params.URI, view)
}

// IssuesResource returns the MCP resource definition for the issues report.
func (h *Handler) IssuesResource() mcp.Resource {
	return mcp.NewResource(
		"plan://validation/issues",
		"Validation Issues",
		mcp.WithResourceDescription("Issues report from the most recent validation run"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleIssues serves the persisted issues snapshot.
func (h *Handler) HandleIssues(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return h.serveReport(req, store.KeyIssues, &plan.IssuesReport{})
}

// CoverageResource returns the MCP resource definition for coverage.
func (h *Handler) CoverageResource() mcp.Resource {
	return mcp.NewResource(
		"plan://validation/coverage",
		"Requirement Coverage",
		mcp.WithResourceDescription("Coverage report from the most recent validation run"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleCoverage serves the persisted coverage snapshot.
func (h *Handler) HandleCoverage(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return h.serveReport(req, store.KeyCoverage, &plan.CoverageReport{})
}

// LinksResource returns the MCP resource definition for links.
func (h *Handler) LinksResource() mcp.Resource {
	return mcp.NewResource(
		"plan://validation/links",
		"Cross-Reference Links",
		mcp.WithResourceDescription("Links report from the most recent validation run"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleLinks serves the persisted links snapshot.
func (h *Handler) HandleLinks(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return h.serveReport(req, store.KeyLinks, &plan.LinksReport{})
}

// serveReport reads a persisted validation snapshot into out and serves it.
func (h *Handler) serveReport(req mcp.ReadResourceRequest, key string, out any) ([]mcp.ResourceContents, error) {
	found, err := h.store.ReadJSON(key, out)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	if !found {
		return errorResource(req.Params.URI, "no validation run has been persisted yet — run plan_validate"), nil
	}
	return jsonResource(req.Params.URI, out)
}

// jsonResource wraps a value as a JSON resource.
func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
