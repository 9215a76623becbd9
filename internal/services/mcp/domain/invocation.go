package domain

import "context"

// toolCall bundles the per-call context shared by tool handlers.
type toolCall struct {
	RunCtx     context.Context
	Cancel     context.CancelFunc
	MCPContext Context
}

func newToolCall(ctx context.Context, getContext func() Context) toolCall {
	runCtx, cancel := context.WithTimeout(ctx, toolCallTimeout)
	mcpCtx := Context{}
	if getContext != nil {
		mcpCtx = getContext()
	}
	return toolCall{RunCtx: runCtx, Cancel: cancel, MCPContext: mcpCtx}
}

func (c toolCall) fail(err error) error {
	return localizeError(err, c.MCPContext.Locale)
}
