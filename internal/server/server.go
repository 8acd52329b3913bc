// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it receives the one entity store handle
// for the session and injects it into every tool, prompt, and resource.
// No business logic lives here — only wiring.
package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/planforge/planforge/internal/prompts"
	"github.com/planforge/planforge/internal/resources"
	"github.com/planforge/planforge/internal/store"
	"github.com/planforge/planforge/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts, and
// resources registered against the given store. The store is constructed
// by the caller (and closed by the caller, for backends that need it) —
// there is no process-wide store handle.
func New(st store.Store) *server.MCPServer {
	s := server.NewMCPServer(
		"planforge",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register planning tools ---

	initTool := tools.NewInitTool(st)
	s.AddTool(initTool.Definition(), initTool.Handle)

	contextTool := tools.NewContextTool(st)
	s.AddTool(contextTool.Definition(), contextTool.Handle)

	statusTool := tools.NewStatusTool(st)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	validateTool := tools.NewValidateTool(st)
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	lockTool := tools.NewLockTool(st)
	s.AddTool(lockTool.Definition(), lockTool.Handle)

	discoveryTool := tools.NewDiscoveryTool(st)
	s.AddTool(discoveryTool.Definition(), discoveryTool.Handle)

	feedbackTool := tools.NewFeedbackTool(st)
	s.AddTool(feedbackTool.Definition(), feedbackTool.Handle)

	// --- Register prompts ---

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	reviewPrompt := prompts.NewReviewPrompt()
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(st)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)
	s.AddResource(resourceHandler.IssuesResource(), resourceHandler.HandleIssues)
	s.AddResource(resourceHandler.CoverageResource(), resourceHandler.HandleCoverage)
	s.AddResource(resourceHandler.LinksResource(), resourceHandler.HandleLinks)

	return s
}

// serverInstructions returns the guidance text sent to MCP hosts.
func serverInstructions() string {
	return `Planforge maintains a hierarchical planning tree:
project → milestone → epic → story → requirement.

Key rules:
- Epic and milestone statuses are never stored. They are derived from
  children on every read; trust plan_status over any status you remember.
- Requirements are not records. They are '### R<n>: Title' headings in an
  epic's prd.md, parsed fresh each time. To add a requirement, edit the PRD.
- Context packages are self-contained: plan_get_context at story level
  includes the epic, milestone, and project data inline. You never need a
  second lookup for ancestry.
- plan_validate never fails on bad data. Broken references, orphan stories,
  and coverage gaps come back as report entries — read them and fix the
  tree, then re-run.
- Acquire the advisory lock (plan_lock) before mutating the tree; reads
  do not need it.`
}
