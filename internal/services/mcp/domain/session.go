package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const sessionListURI = "combat://sessions"

func sessionURI(sessionID string) string {
	return sessionListURI + "/" + sessionID
}

// SessionCreateInput represents the MCP tool input for creating a session.
type SessionCreateInput struct {
	Name string `json:"name" jsonschema:"display name for the combat session"`
	Use  bool   `json:"use,omitempty" jsonschema:"also make the new session the current context session"`
}

// SessionRefInput addresses a session, defaulting to the context session.
type SessionRefInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session identifier (defaults to context)"`
}

// SessionListInput represents the MCP tool input for listing sessions.
type SessionListInput struct{}

// SessionListResult represents the MCP tool output for listing sessions.
type SessionListResult struct {
	Sessions []SessionResult `json:"sessions" jsonschema:"sessions oldest first"`
}

// SessionDeleteResult represents the MCP tool output for deleting a session.
type SessionDeleteResult struct {
	ID      string `json:"id" jsonschema:"deleted session identifier"`
	Deleted bool   `json:"deleted" jsonschema:"whether the session was deleted"`
}

// SessionCreateTool defines the MCP tool schema for creating a session.
func SessionCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_create",
		Description: "Creates a combat session in SETUP. GM only.",
	}
}

// SessionGetTool defines the MCP tool schema for reading a session.
func SessionGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_get",
		Description: "Returns the roster, round, phase and current turn of a combat session",
	}
}

// SessionListTool defines the MCP tool schema for listing sessions.
func SessionListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_list",
		Description: "Lists combat sessions",
	}
}

// SessionDeleteTool defines the MCP tool schema for deleting a session.
func SessionDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_delete",
		Description: "Deletes a combat session. GM only.",
	}
}

// SessionCreateHandler executes a session create request.
func SessionCreateHandler(svc CombatService, getContext func() Context, setContext func(Context), notify ResourceUpdateNotifier) mcp.ToolHandlerFor[SessionCreateInput, SessionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionCreateInput) (*mcp.CallToolResult, SessionResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		if strings.TrimSpace(input.Name) == "" {
			return nil, SessionResult{}, fmt.Errorf("name is required")
		}
		state, err := svc.CreateSession(call.RunCtx, call.MCPContext.Caller(), input.Name)
		if err != nil {
			return nil, SessionResult{}, call.fail(err)
		}
		uris := []string{sessionListURI}
		if input.Use && setContext != nil {
			next := call.MCPContext
			next.SessionID = state.ID
			setContext(next)
			uris = append(uris, ContextResource().URI)
		}
		NotifyResourceUpdates(ctx, notify, uris...)
		return nil, sessionResult(state), nil
	}
}

// SessionGetHandler executes a session read request.
func SessionGetHandler(svc CombatService, getContext func() Context) mcp.ToolHandlerFor[SessionRefInput, SessionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionRefInput) (*mcp.CallToolResult, SessionResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		sessionID, err := resolveSessionID(input.SessionID, call.MCPContext)
		if err != nil {
			return nil, SessionResult{}, err
		}
		state, err := svc.GetSession(call.RunCtx, sessionID)
		if err != nil {
			return nil, SessionResult{}, call.fail(err)
		}
		return nil, sessionResult(state), nil
	}
}

// SessionListHandler executes a session list request.
func SessionListHandler(svc CombatService) mcp.ToolHandlerFor[SessionListInput, SessionListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SessionListInput) (*mcp.CallToolResult, SessionListResult, error) {
		states := svc.ListSessions(ctx)
		result := SessionListResult{Sessions: make([]SessionResult, 0, len(states))}
		for _, state := range states {
			result.Sessions = append(result.Sessions, sessionResult(state))
		}
		return nil, result, nil
	}
}

// SessionDeleteHandler executes a session delete request. Deleting the
// context session clears it from the context.
func SessionDeleteHandler(svc CombatService, getContext func() Context, setContext func(Context), notify ResourceUpdateNotifier) mcp.ToolHandlerFor[SessionRefInput, SessionDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionRefInput) (*mcp.CallToolResult, SessionDeleteResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		sessionID, err := resolveSessionID(input.SessionID, call.MCPContext)
		if err != nil {
			return nil, SessionDeleteResult{}, err
		}
		if err := svc.DeleteSession(call.RunCtx, call.MCPContext.Caller(), sessionID); err != nil {
			return nil, SessionDeleteResult{}, call.fail(err)
		}
		uris := []string{sessionListURI, sessionURI(sessionID)}
		if call.MCPContext.SessionID == sessionID && setContext != nil {
			next := call.MCPContext
			next.SessionID = ""
			setContext(next)
			uris = append(uris, ContextResource().URI)
		}
		NotifyResourceUpdates(ctx, notify, uris...)
		return nil, SessionDeleteResult{ID: sessionID, Deleted: true}, nil
	}
}

// SessionResourceTemplate defines the readable session resource.
func SessionResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "combat_session",
		Title:       "Combat Session",
		Description: "Readable combat session. URI format: combat://sessions/{session_id}",
		MIMEType:    "application/json",
		URITemplate: sessionListURI + "/{session_id}",
	}
}

// SessionListResource defines the readable session listing.
func SessionListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "combat_sessions",
		Title:       "Combat Sessions",
		Description: "Readable listing of combat sessions",
		MIMEType:    "application/json",
		URI:         sessionListURI,
	}
}

// SessionResourceHandler reads one session by URI.
func SessionResourceHandler(svc CombatService) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("session ID is required; use URI format combat://sessions/{session_id}")
		}
		uri := req.Params.URI
		sessionID, err := parseSessionURI(uri)
		if err != nil {
			return nil, err
		}
		state, err := svc.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, sessionResult(state))
	}
}

// SessionListResourceHandler reads the session listing.
func SessionListResourceHandler(svc CombatService) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		states := svc.ListSessions(ctx)
		result := SessionListResult{Sessions: make([]SessionResult, 0, len(states))}
		for _, state := range states {
			result.Sessions = append(result.Sessions, sessionResult(state))
		}
		return jsonResource(sessionListURI, result)
	}
}

func parseSessionURI(uri string) (string, error) {
	prefix := sessionListURI + "/"
	if !strings.HasPrefix(uri, prefix) {
		return "", fmt.Errorf("URI must start with %q", prefix)
	}
	sessionID := strings.TrimPrefix(uri, prefix)
	if sessionID == "" || strings.Contains(sessionID, "/") {
		return "", fmt.Errorf("session ID is required in URI %q", uri)
	}
	return sessionID, nil
}
