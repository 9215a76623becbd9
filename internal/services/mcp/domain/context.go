package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/phaseline/internal/services/combat/app"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Context is the caller state shared by every tool call on one server.
type Context struct {
	SessionID     string
	ParticipantID string
	Role          roster.Role
	Locale        string
}

// Caller returns the tracker caller for the context. An unset role is a
// player.
func (c Context) Caller() app.Caller {
	role := c.Role
	if role == "" {
		role = roster.RolePlayer
	}
	return app.Caller{ParticipantID: c.ParticipantID, Role: role}
}

// SetContextInput represents the MCP tool input for setting context.
type SetContextInput struct {
	SessionID     string `json:"session_id,omitempty" jsonschema:"optional combat session identifier"`
	ParticipantID string `json:"participant_id,omitempty" jsonschema:"optional participant identifier"`
	Role          string `json:"role,omitempty" jsonschema:"optional caller role (GM or PLAYER)"`
	Locale        string `json:"locale,omitempty" jsonschema:"optional BCP 47 locale for messages (en-US, pt-BR)"`
}

// ContextResult is the public shape of Context.
type ContextResult struct {
	SessionID     string `json:"session_id,omitempty" jsonschema:"current combat session identifier"`
	ParticipantID string `json:"participant_id,omitempty" jsonschema:"current participant identifier"`
	Role          string `json:"role" jsonschema:"current caller role"`
	Locale        string `json:"locale,omitempty" jsonschema:"current message locale"`
}

// SetContextResult represents the MCP tool output for setting context.
type SetContextResult struct {
	Context ContextResult `json:"context" jsonschema:"current context"`
}

// SetContextTool defines the MCP tool schema for setting context.
func SetContextTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "context_set",
		Description: "Sets the current combat session, participant, role and locale for subsequent tool calls. Omitted fields keep their value. The role is self-declared and trusted as given; it is not authenticated.",
	}
}

// SetContextHandler validates and stores a context update.
func SetContextHandler(
	svc CombatService,
	setContext func(Context),
	getContext func() Context,
	notify ResourceUpdateNotifier,
) mcp.ToolHandlerFor[SetContextInput, SetContextResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SetContextInput) (*mcp.CallToolResult, SetContextResult, error) {
		current := Context{}
		if getContext != nil {
			current = getContext()
		}
		next := current

		if sessionID := strings.TrimSpace(input.SessionID); sessionID != "" {
			runCtx, cancel := context.WithTimeout(ctx, toolCallTimeout)
			_, err := svc.GetSession(runCtx, sessionID)
			cancel()
			if err != nil {
				return nil, SetContextResult{}, localizeError(err, current.Locale)
			}
			next.SessionID = sessionID
		}
		if participantID := strings.TrimSpace(input.ParticipantID); participantID != "" {
			next.ParticipantID = participantID
		}
		if value := strings.TrimSpace(input.Role); value != "" {
			role, ok := roster.ParseRole(value)
			if !ok {
				return nil, SetContextResult{}, fmt.Errorf("role %q is not supported", input.Role)
			}
			next.Role = role
		}
		if locale := strings.TrimSpace(input.Locale); locale != "" {
			next.Locale = locale
		}

		if setContext != nil {
			setContext(next)
		}
		NotifyResourceUpdates(ctx, notify, ContextResource().URI)
		return nil, SetContextResult{Context: contextResult(next)}, nil
	}
}

func contextResult(c Context) ContextResult {
	return ContextResult{
		SessionID:     c.SessionID,
		ParticipantID: c.ParticipantID,
		Role:          string(c.Caller().Role),
		Locale:        c.Locale,
	}
}

// ContextResource defines the readable current context resource.
func ContextResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "context_current",
		Title:       "Current Context",
		Description: "Readable current MCP context (session_id, participant_id, role, locale)",
		MIMEType:    "application/json",
		URI:         "context://current",
	}
}

// ContextResourceHandler returns a readable current context resource.
func ContextResourceHandler(getContext func() Context) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if getContext == nil {
			return nil, fmt.Errorf("context getter function is not configured")
		}
		uri := ContextResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		if uri != ContextResource().URI {
			return nil, fmt.Errorf("invalid URI: expected %s, got %q", ContextResource().URI, uri)
		}
		return jsonResource(uri, SetContextResult{Context: contextResult(getContext())})
	}
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
