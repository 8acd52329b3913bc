// Package prompts implements the MCP prompt handlers. Prompts are canned
// instructions that steer the agent toward the right tool sequence; they
// hold no logic of their own.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the plan-status MCP prompt.
// It instructs the agent to derive and present the current tree state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("plan-status",
		mcp.WithPromptDescription(
			"Check the current state of the planning tree: derived milestone "+
				"and epic statuses, plus anything blocking progress.",
		),
	)
}

// Handle processes the plan-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Planning Tree Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `plan_status` to check the planning tree.\n\n" +
						"Then:\n" +
						"1. Present each milestone with its derived status and its epics\n" +
						"2. Call out epics that are blocked, deferred, or still drafting\n" +
						"3. Tell me which epic to work on next and why",
				),
			},
		},
	}, nil
}
