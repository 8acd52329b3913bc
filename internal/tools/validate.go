package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/planforge/planforge/internal/store"
	"github.com/planforge/planforge/internal/validate"
)

// ValidateTool handles the plan_validate MCP tool.
// It runs the full integrity scan and reports the findings. Broken links,
// orphans, and coverage gaps are report entries here, never tool failures
// — a validation run always completes with a full (possibly empty) report.
type ValidateTool struct {
	validator *validate.Validator
}

// NewValidateTool creates a ValidateTool over the given store.
func NewValidateTool(s store.Store) *ValidateTool {
	return &ValidateTool{validator: validate.New(s)}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_validate",
		mcp.WithDescription(
			"Run the full integrity validation over the planning tree: "+
				"cross-reference links (story→requirement, story→story), requirement "+
				"coverage, and schema presence. Persists the links, coverage, and "+
				"issues reports under validation/ and returns a summary. "+
				"Requirement ids are re-parsed from each epic's PRD on every run.",
		),
	)
}

// Handle processes the plan_validate tool call.
func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.validator.Run()
	if err != nil {
		return resultOrError(err)
	}

	var sb strings.Builder
	sb.WriteString("# Validation Report\n\n")
	fmt.Fprintf(&sb, "Run: %s\n\n", result.Issues.RunID)

	fmt.Fprintf(&sb, "**Links:** %d total, %d valid, %d broken, %d orphan stories\n",
		result.Links.Summary.Total, result.Links.Summary.Valid,
		result.Links.Summary.Broken, result.Links.Summary.Orphans)
	fmt.Fprintf(&sb, "**Coverage:** %d/%d requirements implemented (%.0f%%), %d gaps\n\n",
		result.Coverage.Summary.Covered, result.Coverage.Summary.TotalRequirements,
		result.Coverage.Summary.CoveragePercent, result.Coverage.Summary.Gaps)

	if len(result.Issues.Issues) == 0 {
		sb.WriteString("No issues found.\n")
		return mcp.NewToolResultText(sb.String()), nil
	}

	fmt.Fprintf(&sb, "## Issues (%d errors, %d warnings)\n\n",
		result.Issues.Summary.Errors, result.Issues.Summary.Warnings)
	for _, issue := range result.Issues.Issues {
		fmt.Fprintf(&sb, "- %s [%s] %s\n", severityIndicator(issue.Severity), issue.Category, issue.Message)
		if issue.Suggestion != "" {
			fmt.Fprintf(&sb, "  - suggestion: %s\n", issue.Suggestion)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}
