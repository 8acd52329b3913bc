package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReviewPrompt handles the plan-review MCP prompt.
// It instructs the agent to run a validation pass and triage the findings.
type ReviewPrompt struct{}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt() *ReviewPrompt {
	return &ReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("plan-review",
		mcp.WithPromptDescription(
			"Validate the planning tree's integrity and walk through the "+
				"findings: broken references, orphan stories, and requirement "+
				"coverage gaps.",
		),
	)
}

// Handle processes the plan-review prompt request.
func (p *ReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Planning Tree Integrity Review",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `plan_validate` on the planning tree.\n\n" +
						"Then:\n" +
						"1. Group the issues: broken links, orphan stories, coverage gaps\n" +
						"2. For each broken link, say whether the reference or its target looks wrong\n" +
						"3. For each coverage gap, apply the report's suggestion or explain why not\n" +
						"4. Summarize what must change before the next milestone can be called done",
				),
			},
		},
	}, nil
}
