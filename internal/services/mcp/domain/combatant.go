package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/phaseline/internal/services/combat/app"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CommandResult is the session after a command and the announcements it
// produced.
type CommandResult struct {
	Session SessionResult `json:"session" jsonschema:"session after the command"`
	Events  []EventResult `json:"events" jsonschema:"announcements visible to the caller"`
}

// CombatantAddInput represents the MCP tool input for adding an actor.
type CombatantAddInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session identifier (defaults to context)"`
	ActorID   string `json:"actor_id" jsonschema:"actor identifier"`
	TokenID   string `json:"token_id,omitempty" jsonschema:"optional token placed for the actor"`
}

// CombatantCreateInput represents the MCP tool input for adding a combatant
// without an actor record.
type CombatantCreateInput struct {
	SessionID      string   `json:"session_id,omitempty" jsonschema:"session identifier (defaults to context)"`
	DisplayName    string   `json:"display_name" jsonschema:"display name"`
	ActorID        string   `json:"actor_id,omitempty" jsonschema:"actor identifier (actor_id or token_id is required)"`
	TokenID        string   `json:"token_id,omitempty" jsonschema:"token identifier (actor_id or token_id is required)"`
	ImageRef       string   `json:"image_ref,omitempty" jsonschema:"portrait reference"`
	Kind           string   `json:"kind,omitempty" jsonschema:"PC or NPC (default NPC)"`
	OwnerIDs       []string `json:"owner_ids,omitempty" jsonschema:"participants controlling the combatant"`
	InitiativeDice int      `json:"initiative_dice,omitempty" jsonschema:"initiative dice (default 1)"`
	ReactionBonus  int      `json:"reaction_bonus,omitempty" jsonschema:"flat initiative bonus"`
}

// CombatantAddResult represents the MCP tool output for adding combatants.
type CombatantAddResult struct {
	CommandResult
	Combatants []CombatantResult `json:"combatants" jsonschema:"combatants added"`
	Warnings   []string          `json:"warnings,omitempty" jsonschema:"defaults applied or entries skipped"`
}

// CombatantRefInput addresses one combatant.
type CombatantRefInput struct {
	SessionID   string `json:"session_id,omitempty" jsonschema:"session identifier (defaults to context)"`
	CombatantID string `json:"combatant_id" jsonschema:"combatant identifier"`
}

// CombatantRemoveResult represents the MCP tool output for removing a
// combatant.
type CombatantRemoveResult struct {
	CommandResult
	Removed bool `json:"removed" jsonschema:"false when the combatant was not on the roster"`
}

// CombatantModifyInput represents the MCP tool input for modifying a
// combatant. Omitted fields are kept.
type CombatantModifyInput struct {
	SessionID      string  `json:"session_id,omitempty" jsonschema:"session identifier (defaults to context)"`
	CombatantID    string  `json:"combatant_id" jsonschema:"combatant identifier"`
	DisplayName    *string `json:"display_name,omitempty" jsonschema:"new display name"`
	ImageRef       *string `json:"image_ref,omitempty" jsonschema:"new portrait reference"`
	InitiativeDice *int    `json:"initiative_dice,omitempty" jsonschema:"new initiative dice"`
	ReactionBonus  *int    `json:"reaction_bonus,omitempty" jsonschema:"new flat initiative bonus"`
	RolledTotal    *int    `json:"rolled_total,omitempty" jsonschema:"override the initiative total; 0 clears the roll"`
}

// CombatantModifyResult represents the MCP tool output for modifying a
// combatant.
type CombatantModifyResult struct {
	CommandResult
	Combatant CombatantResult `json:"combatant" jsonschema:"combatant after the change"`
}

// CombatantAddTool defines the MCP tool schema for adding an actor.
func CombatantAddTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combatant_add",
		Description: "Adds an actor to the roster using its stored name, reaction and bonuses. Players may add their own tokens.",
	}
}

// CombatantCreateTool defines the MCP tool schema for adding a combatant
// by hand.
func CombatantCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combatant_create",
		Description: "Adds a combatant with explicit stats, without an actor record",
	}
}

// CombatantAddSelectedTool defines the MCP tool schema for adding the
// caller's selected tokens.
func CombatantAddSelectedTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combatant_add_selected",
		Description: "Adds every token the caller has selected; duplicates are skipped with a warning",
	}
}

// CombatantRemoveTool defines the MCP tool schema for removing a combatant.
func CombatantRemoveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combatant_remove",
		Description: "Removes a combatant from the roster",
	}
}

// CombatantModifyTool defines the MCP tool schema for modifying a combatant.
func CombatantModifyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combatant_modify",
		Description: "Changes a combatant's name, portrait, initiative dice, reaction bonus or rolled total. GM only.",
	}
}

// CombatantAddHandler executes an actor add request.
func CombatantAddHandler(svc CombatService, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[CombatantAddInput, CombatantAddResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CombatantAddInput) (*mcp.CallToolResult, CombatantAddResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		sessionID, err := resolveSessionID(input.SessionID, call.MCPContext)
		if err != nil {
			return nil, CombatantAddResult{}, err
		}
		if strings.TrimSpace(input.ActorID) == "" {
			return nil, CombatantAddResult{}, fmt.Errorf("actor_id is required")
		}
		added, err := svc.AddActor(call.RunCtx, call.MCPContext.Caller(), sessionID, roster.Ref{ActorID: input.ActorID, TokenID: input.TokenID})
		if err != nil {
			return nil, CombatantAddResult{}, call.fail(err)
		}
		NotifyResourceUpdates(ctx, notify, sessionURI(sessionID))
		return nil, addResult(added, call.MCPContext), nil
	}
}

// CombatantCreateHandler executes a manual combatant add request.
func CombatantCreateHandler(svc CombatService, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[CombatantCreateInput, CombatantAddResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CombatantCreateInput) (*mcp.CallToolResult, CombatantAddResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		sessionID, err := resolveSessionID(input.SessionID, call.MCPContext)
		if err != nil {
			return nil, CombatantAddResult{}, err
		}
		kind := roster.KindNPC
		if strings.TrimSpace(input.Kind) != "" {
			parsed, ok := roster.ParseKind(input.Kind)
			if !ok {
				return nil, CombatantAddResult{}, fmt.Errorf("kind %q is not supported", input.Kind)
			}
			kind = parsed
		}
		initiativeDice := input.InitiativeDice
		if initiativeDice == 0 {
			initiativeDice = roster.BaseInitiativeDice
		}
		added, err := svc.AddDraft(call.RunCtx, call.MCPContext.Caller(), sessionID, roster.Draft{
			DisplayName:    input.DisplayName,
			ImageRef:       input.ImageRef,
			ActorID:        strings.TrimSpace(input.ActorID),
			TokenID:        strings.TrimSpace(input.TokenID),
			Kind:           kind,
			OwnerIDs:       input.OwnerIDs,
			InitiativeDice: initiativeDice,
			ReactionBonus:  input.ReactionBonus,
		})
		if err != nil {
			return nil, CombatantAddResult{}, call.fail(err)
		}
		NotifyResourceUpdates(ctx, notify, sessionURI(sessionID))
		return nil, addResult(added, call.MCPContext), nil
	}
}

// CombatantAddSelectedHandler executes a selected-token add request.
func CombatantAddSelectedHandler(svc CombatService, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[SessionRefInput, CombatantAddResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionRefInput) (*mcp.CallToolResult, CombatantAddResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		sessionID, err := resolveSessionID(input.SessionID, call.MCPContext)
		if err != nil {
			return nil, CombatantAddResult{}, err
		}
		added, err := svc.AddSelected(call.RunCtx, call.MCPContext.Caller(), sessionID)
		if err != nil {
			return nil, CombatantAddResult{}, call.fail(err)
		}
		NotifyResourceUpdates(ctx, notify, sessionURI(sessionID))
		return nil, addResult(added, call.MCPContext), nil
	}
}

// CombatantRemoveHandler executes a combatant remove request.
func CombatantRemoveHandler(svc CombatService, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[CombatantRefInput, CombatantRemoveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CombatantRefInput) (*mcp.CallToolResult, CombatantRemoveResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		sessionID, err := resolveSessionID(input.SessionID, call.MCPContext)
		if err != nil {
			return nil, CombatantRemoveResult{}, err
		}
		if strings.TrimSpace(input.CombatantID) == "" {
			return nil, CombatantRemoveResult{}, fmt.Errorf("combatant_id is required")
		}
		outcome, removed, err := svc.RemoveCombatant(call.RunCtx, call.MCPContext.Caller(), sessionID, input.CombatantID)
		if err != nil {
			return nil, CombatantRemoveResult{}, call.fail(err)
		}
		if removed {
			NotifyResourceUpdates(ctx, notify, sessionURI(sessionID))
		}
		return nil, CombatantRemoveResult{CommandResult: outcomeResult(outcome, call.MCPContext), Removed: removed}, nil
	}
}

// CombatantModifyHandler executes a combatant modify request.
func CombatantModifyHandler(svc CombatService, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[CombatantModifyInput, CombatantModifyResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CombatantModifyInput) (*mcp.CallToolResult, CombatantModifyResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		sessionID, err := resolveSessionID(input.SessionID, call.MCPContext)
		if err != nil {
			return nil, CombatantModifyResult{}, err
		}
		if strings.TrimSpace(input.CombatantID) == "" {
			return nil, CombatantModifyResult{}, fmt.Errorf("combatant_id is required")
		}
		patch := roster.Patch{
			DisplayName:    input.DisplayName,
			ImageRef:       input.ImageRef,
			InitiativeDice: input.InitiativeDice,
			ReactionBonus:  input.ReactionBonus,
			RolledTotal:    input.RolledTotal,
		}
		if patch.Empty() {
			return nil, CombatantModifyResult{}, fmt.Errorf("at least one field to modify is required")
		}
		outcome, combatant, err := svc.ModifyCombatant(call.RunCtx, call.MCPContext.Caller(), sessionID, input.CombatantID, patch)
		if err != nil {
			return nil, CombatantModifyResult{}, call.fail(err)
		}
		NotifyResourceUpdates(ctx, notify, sessionURI(sessionID))
		return nil, CombatantModifyResult{
			CommandResult: outcomeResult(outcome, call.MCPContext),
			Combatant:     combatantResult(combatant),
		}, nil
	}
}

func addResult(added app.Added, mcpCtx Context) CombatantAddResult {
	return CombatantAddResult{
		CommandResult: outcomeResult(added.Outcome, mcpCtx),
		Combatants:    combatantResults(added.Combatants),
		Warnings:      added.Warnings,
	}
}
