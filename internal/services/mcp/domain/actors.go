package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/phaseline/internal/services/combat/actors"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ActorBonusInput is an equipment-style initiative adjustment.
type ActorBonusInput struct {
	InitiativeDice int `json:"initiative_dice,omitempty" jsonschema:"extra initiative dice"`
	Reaction       int `json:"reaction,omitempty" jsonschema:"extra reaction"`
}

// ActorPutInput represents the MCP tool input for storing an actor.
type ActorPutInput struct {
	ID       string            `json:"id" jsonschema:"actor identifier"`
	Name     string            `json:"name,omitempty" jsonschema:"display name"`
	ImageRef string            `json:"image_ref,omitempty" jsonschema:"portrait reference"`
	Reaction *int              `json:"reaction,omitempty" jsonschema:"reaction attribute; omitted means unknown"`
	Bonuses  []ActorBonusInput `json:"bonuses,omitempty" jsonschema:"initiative adjustments"`
	OwnerIDs []string          `json:"owner_ids,omitempty" jsonschema:"participants controlling the actor; none means NPC"`
}

// ActorResult is the public shape of an actor.
type ActorResult struct {
	ID       string            `json:"id" jsonschema:"actor identifier"`
	Name     string            `json:"name,omitempty" jsonschema:"display name"`
	ImageRef string            `json:"image_ref,omitempty" jsonschema:"portrait reference"`
	Reaction *int              `json:"reaction,omitempty" jsonschema:"reaction attribute"`
	Bonuses  []ActorBonusInput `json:"bonuses,omitempty" jsonschema:"initiative adjustments"`
	OwnerIDs []string          `json:"owner_ids,omitempty" jsonschema:"participants controlling the actor"`
	NPC      bool              `json:"npc" jsonschema:"whether the actor is an NPC"`
}

// ActorListInput represents the MCP tool input for listing actors.
type ActorListInput struct{}

// ActorListResult represents the MCP tool output for listing actors.
type ActorListResult struct {
	Actors []ActorResult `json:"actors" jsonschema:"actors sorted by id"`
}

// ActorDeleteInput represents the MCP tool input for deleting an actor.
type ActorDeleteInput struct {
	ID string `json:"id" jsonschema:"actor identifier"`
}

// ActorDeleteResult represents the MCP tool output for deleting an actor.
type ActorDeleteResult struct {
	ID      string `json:"id" jsonschema:"actor identifier"`
	Deleted bool   `json:"deleted" jsonschema:"false when the actor was unknown"`
}

// SelectionTokenInput is one selected token.
type SelectionTokenInput struct {
	ActorID string `json:"actor_id" jsonschema:"actor the token stands for"`
	TokenID string `json:"token_id,omitempty" jsonschema:"token identifier"`
}

// SelectionSetInput represents the MCP tool input for recording a selection.
type SelectionSetInput struct {
	ParticipantID string                `json:"participant_id,omitempty" jsonschema:"participant whose selection changes (defaults to context)"`
	Tokens        []SelectionTokenInput `json:"tokens" jsonschema:"selected tokens; empty clears the selection"`
}

// SelectionSetResult represents the MCP tool output for recording a
// selection.
type SelectionSetResult struct {
	ParticipantID string `json:"participant_id" jsonschema:"participant identifier"`
	Selected      int    `json:"selected" jsonschema:"number of selected tokens"`
}

// ActorPutTool defines the MCP tool schema for storing an actor.
func ActorPutTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "actor_put",
		Description: "Stores or replaces an actor record read when combatants are added. GM only.",
	}
}

// ActorListTool defines the MCP tool schema for listing actors.
func ActorListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "actor_list",
		Description: "Lists stored actor records",
	}
}

// ActorDeleteTool defines the MCP tool schema for deleting an actor.
func ActorDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "actor_delete",
		Description: "Deletes an actor record. Combatants already on a roster are kept. GM only.",
	}
}

// SelectionSetTool defines the MCP tool schema for recording a selection.
func SelectionSetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "selection_set",
		Description: "Records the tokens a participant has selected for combatant_add_selected",
	}
}

// ActorPutHandler executes an actor store request.
func ActorPutHandler(catalog ActorCatalog, getContext func() Context) mcp.ToolHandlerFor[ActorPutInput, ActorResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ActorPutInput) (*mcp.CallToolResult, ActorResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		if !call.MCPContext.Caller().Privileged() {
			return nil, ActorResult{}, call.fail(roster.ErrNotAuthorized)
		}
		actor := actors.Actor{
			ID:       strings.TrimSpace(input.ID),
			Name:     input.Name,
			ImageRef: input.ImageRef,
			Reaction: input.Reaction,
			OwnerIDs: input.OwnerIDs,
		}
		for _, bonus := range input.Bonuses {
			actor.Bonuses = append(actor.Bonuses, roster.Bonus{InitiativeDice: bonus.InitiativeDice, Reaction: bonus.Reaction})
		}
		if err := catalog.Put(actor); err != nil {
			return nil, ActorResult{}, fmt.Errorf("put actor: %w", err)
		}
		return nil, actorResult(actor), nil
	}
}

// ActorListHandler executes an actor list request.
func ActorListHandler(catalog ActorCatalog) mcp.ToolHandlerFor[ActorListInput, ActorListResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ActorListInput) (*mcp.CallToolResult, ActorListResult, error) {
		list := catalog.List()
		result := ActorListResult{Actors: make([]ActorResult, 0, len(list))}
		for _, actor := range list {
			result.Actors = append(result.Actors, actorResult(actor))
		}
		return nil, result, nil
	}
}

// ActorDeleteHandler executes an actor delete request.
func ActorDeleteHandler(catalog ActorCatalog, getContext func() Context) mcp.ToolHandlerFor[ActorDeleteInput, ActorDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ActorDeleteInput) (*mcp.CallToolResult, ActorDeleteResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		if !call.MCPContext.Caller().Privileged() {
			return nil, ActorDeleteResult{}, call.fail(roster.ErrNotAuthorized)
		}
		id := strings.TrimSpace(input.ID)
		if id == "" {
			return nil, ActorDeleteResult{}, fmt.Errorf("id is required")
		}
		return nil, ActorDeleteResult{ID: id, Deleted: catalog.Delete(id)}, nil
	}
}

// SelectionSetHandler executes a selection request. Players may only set
// their own selection.
func SelectionSetHandler(catalog ActorCatalog, getContext func() Context) mcp.ToolHandlerFor[SelectionSetInput, SelectionSetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SelectionSetInput) (*mcp.CallToolResult, SelectionSetResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		caller := call.MCPContext.Caller()
		participantID := strings.TrimSpace(input.ParticipantID)
		if participantID == "" {
			participantID = caller.ParticipantID
		}
		if participantID == "" {
			return nil, SelectionSetResult{}, fmt.Errorf("participant_id is required")
		}
		if participantID != caller.ParticipantID && !caller.Privileged() {
			return nil, SelectionSetResult{}, call.fail(roster.ErrNotAuthorized)
		}

		refs := make([]roster.Ref, 0, len(input.Tokens))
		for _, token := range input.Tokens {
			actorID := strings.TrimSpace(token.ActorID)
			if actorID == "" {
				return nil, SelectionSetResult{}, fmt.Errorf("actor_id is required for every token")
			}
			refs = append(refs, roster.Ref{ActorID: actorID, TokenID: strings.TrimSpace(token.TokenID)})
		}
		catalog.SetSelection(participantID, refs)
		return nil, SelectionSetResult{ParticipantID: participantID, Selected: len(refs)}, nil
	}
}

func actorResult(actor actors.Actor) ActorResult {
	result := ActorResult{
		ID:       actor.ID,
		Name:     actor.Name,
		ImageRef: actor.ImageRef,
		Reaction: actor.Reaction,
		OwnerIDs: actor.OwnerIDs,
		NPC:      len(actor.OwnerIDs) == 0,
	}
	for _, bonus := range actor.Bonuses {
		result.Bonuses = append(result.Bonuses, ActorBonusInput{InitiativeDice: bonus.InitiativeDice, Reaction: bonus.Reaction})
	}
	return result
}
