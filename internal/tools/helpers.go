// Package tools implements the MCP tool handlers for the planning tree.
//
// Each tool is a struct that receives its dependencies (the entity store,
// never a global handle) and exposes a Definition for registration plus a
// Handle compatible with mcp-go's CallToolRequest signature.
//
// Error convention: expected-path failures (uninitialized tree, unknown
// ids, missing artifacts) become tool error results the agent can read and
// act on; only store I/O failures propagate as Go errors.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/planforge/planforge/internal/plan"
)

// resultOrError converts a typed plan.Error into a readable tool error
// result and lets infrastructure errors propagate.
func resultOrError(err error) (*mcp.CallToolResult, error) {
	if plan.KindOf(err) != "" {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

// jsonResult marshals a value as an indented JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// severityIndicator maps an issue severity to a compact marker for
// markdown summaries.
func severityIndicator(s plan.Severity) string {
	switch s {
	case plan.SeverityError:
		return "✗"
	case plan.SeverityWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}
