package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/store"
)

// LockTool handles the plan_lock MCP tool.
// The lock is advisory and cooperative: holders are role labels, there is
// exactly one lock for the whole tree, and an unreleased lock self-expires
// after its timeout. Reads (context, status, validation) never take it.
type LockTool struct {
	store store.Store
}

// NewLockTool creates a LockTool over the given store.
func NewLockTool(s store.Store) *LockTool {
	return &LockTool{store: s}
}

// Definition returns the MCP tool definition for registration.
func (t *LockTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_lock",
		mcp.WithDescription(
			"Manage the single advisory lock over the planning tree. "+
				"Acquire it before mutating the tree; release it when done. "+
				"Acquisition fails (without blocking) while another holder's lock "+
				"is unexpired. A crashed holder's lock expires on its own.",
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("'acquire', 'release', or 'status'."),
			mcp.Enum("acquire", "release", "status"),
		),
		mcp.WithString("holder",
			mcp.Description("Role taking the lock: 'worker', 'user', or 'system'. Required for acquire."),
			mcp.Enum("worker", "user", "system"),
		),
		mcp.WithString("task",
			mcp.Description("Optional short label of what the holder is doing."),
		),
	)
}

// Handle processes the plan_lock tool call.
func (t *LockTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action := req.GetString("action", "")

	switch action {
	case "acquire":
		holder := plan.LockHolder(req.GetString("holder", ""))
		if holder == "" {
			return mcp.NewToolResultError("'holder' is required for acquire"), nil
		}
		ok, err := t.store.AcquireLock(holder, req.GetString("task", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !ok {
			current, err := t.store.ReadLock()
			if err != nil {
				return nil, err
			}
			// The lock can vanish between the refused acquire and this
			// read if another holder releases it in the window.
			if current == nil {
				return mcp.NewToolResultError("lock is held — try again later"), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf(
				"lock is held by %q (task %q) until %s — try again later",
				current.Holder, current.Task, current.Timeout)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("lock acquired by %s", holder)), nil

	case "release":
		if err := t.store.ReleaseLock(); err != nil {
			return nil, err
		}
		return mcp.NewToolResultText("lock released"), nil

	case "status":
		lock, err := t.store.ReadLock()
		if err != nil {
			return nil, err
		}
		if lock == nil {
			return mcp.NewToolResultText("no lock held"), nil
		}
		return jsonResult(lock)

	default:
		return mcp.NewToolResultError("'action' must be one of: acquire, release, status"), nil
	}
}
