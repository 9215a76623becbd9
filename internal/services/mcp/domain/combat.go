package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/phaseline/internal/services/combat/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// InitiativeRollInput represents the MCP tool input for rolling initiative.
type InitiativeRollInput struct {
	SessionID   string      `json:"session_id,omitempty" jsonschema:"session identifier (defaults to context)"`
	CombatantID string      `json:"combatant_id" jsonschema:"combatant identifier"`
	Force       bool        `json:"force,omitempty" jsonschema:"re-roll a combatant that already rolled"`
	Rng         *RngRequest `json:"rng,omitempty" jsonschema:"optional rng configuration"`
}

// InitiativeRollResult represents the MCP tool output for rolling initiative.
type InitiativeRollResult struct {
	CommandResult
	Combatant CombatantResult `json:"combatant" jsonschema:"combatant after the roll"`
	Results   []int           `json:"results,omitempty" jsonschema:"individual die results"`
	DiceTotal int             `json:"dice_total,omitempty" jsonschema:"sum of the dice"`
	Bonus     int             `json:"bonus,omitempty" jsonschema:"reaction bonus added"`
	Total     int             `json:"total,omitempty" jsonschema:"initiative total"`
	Rng       *RngResult      `json:"rng,omitempty" jsonschema:"rng details"`
}

// InitiativeRollAllInput represents the MCP tool input for rolling every
// pending initiative.
type InitiativeRollAllInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session identifier (defaults to context)"`
	NPCOnly   bool   `json:"npc_only,omitempty" jsonschema:"only roll for NPCs"`
}

// InitiativeRollAllResult represents the MCP tool output for rolling every
// pending initiative.
type InitiativeRollAllResult struct {
	CommandResult
	Rolled []CombatantResult `json:"rolled" jsonschema:"combatants that rolled"`
}

// CombatPhaseInput represents the MCP tool input for listing a phase.
type CombatPhaseInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session identifier (defaults to context)"`
	Phase     int    `json:"phase,omitempty" jsonschema:"phase to list (defaults to the current phase)"`
}

// CombatPhaseResult represents the MCP tool output for listing a phase.
type CombatPhaseResult struct {
	Phase int          `json:"phase" jsonschema:"listed phase"`
	Turns []TurnResult `json:"turns" jsonschema:"combatants acting in the phase, highest initiative first"`
}

// InitiativeRollTool defines the MCP tool schema for rolling initiative.
func InitiativeRollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "initiative_roll",
		Description: "Rolls initiative dice plus reaction for one combatant and derives its action phases",
	}
}

// InitiativeRollAllTool defines the MCP tool schema for rolling every
// pending initiative.
func InitiativeRollAllTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "initiative_roll_all",
		Description: "Rolls initiative for every combatant that has not rolled, optionally NPCs only. GM only.",
	}
}

// CombatStartTool defines the MCP tool schema for starting combat.
func CombatStartTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_start",
		Description: "Starts round 1 once every combatant has rolled. GM only.",
	}
}

// CombatNextTurnTool defines the MCP tool schema for ending the current turn.
func CombatNextTurnTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_next_turn",
		Description: "Ends the current turn. Allowed for the GM and the owner of the acting combatant.",
	}
}

// CombatNextPhaseTool defines the MCP tool schema for skipping to the next
// phase.
func CombatNextPhaseTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_next_phase",
		Description: "Skips the rest of the current phase. GM only.",
	}
}

// CombatResetTool defines the MCP tool schema for resetting combat.
func CombatResetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_reset",
		Description: "Returns the session to SETUP and clears every initiative roll. GM only.",
	}
}

// CombatPhaseTool defines the MCP tool schema for listing a phase.
func CombatPhaseTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_phase",
		Description: "Lists who acts in a phase and with which initiative",
	}
}

// InitiativeRollHandler executes an initiative roll request.
func InitiativeRollHandler(svc CombatService, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[InitiativeRollInput, InitiativeRollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input InitiativeRollInput) (*mcp.CallToolResult, InitiativeRollResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		sessionID, err := resolveSessionID(input.SessionID, call.MCPContext)
		if err != nil {
			return nil, InitiativeRollResult{}, err
		}
		if strings.TrimSpace(input.CombatantID) == "" {
			return nil, InitiativeRollResult{}, fmt.Errorf("combatant_id is required")
		}
		rolled, err := svc.RollInitiative(call.RunCtx, call.MCPContext.Caller(), sessionID, input.CombatantID, input.Rng.seed(), input.Force)
		if err != nil {
			return nil, InitiativeRollResult{}, call.fail(err)
		}
		NotifyResourceUpdates(ctx, notify, sessionURI(sessionID))

		result := InitiativeRollResult{
			CommandResult: outcomeResult(rolled.Outcome, call.MCPContext),
			Combatant:     combatantResult(rolled.Combatant),
		}
		// NPC dice stay with the GM.
		if !rolled.Combatant.IsNPC() || call.MCPContext.Caller().Privileged() {
			result.Results = rolled.Result.Results
			result.DiceTotal = rolled.Result.DiceTotal
			result.Bonus = rolled.Result.Bonus
			result.Total = rolled.Result.Total
			result.Rng = rngResult(rolled.Seed, string(rolled.SeedSource))
		}
		return nil, result, nil
	}
}

// InitiativeRollAllHandler executes a roll-all request.
func InitiativeRollAllHandler(svc CombatService, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[InitiativeRollAllInput, InitiativeRollAllResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input InitiativeRollAllInput) (*mcp.CallToolResult, InitiativeRollAllResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		sessionID, err := resolveSessionID(input.SessionID, call.MCPContext)
		if err != nil {
			return nil, InitiativeRollAllResult{}, err
		}
		outcome, rolled, err := svc.RollAll(call.RunCtx, call.MCPContext.Caller(), sessionID, input.NPCOnly)
		if err != nil {
			return nil, InitiativeRollAllResult{}, call.fail(err)
		}
		NotifyResourceUpdates(ctx, notify, sessionURI(sessionID))
		return nil, InitiativeRollAllResult{
			CommandResult: outcomeResult(outcome, call.MCPContext),
			Rolled:        combatantResults(rolled),
		}, nil
	}
}

type sessionCommand func(ctx context.Context, caller app.Caller, sessionID string) (app.Outcome, error)

func sessionCommandHandler(run sessionCommand, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[SessionRefInput, CommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionRefInput) (*mcp.CallToolResult, CommandResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		sessionID, err := resolveSessionID(input.SessionID, call.MCPContext)
		if err != nil {
			return nil, CommandResult{}, err
		}
		outcome, err := run(call.RunCtx, call.MCPContext.Caller(), sessionID)
		if err != nil {
			return nil, CommandResult{}, call.fail(err)
		}
		NotifyResourceUpdates(ctx, notify, sessionURI(sessionID))
		return nil, outcomeResult(outcome, call.MCPContext), nil
	}
}

// CombatStartHandler executes a combat start request.
func CombatStartHandler(svc CombatService, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[SessionRefInput, CommandResult] {
	return sessionCommandHandler(svc.StartCombat, getContext, notify)
}

// CombatNextTurnHandler executes a next turn request.
func CombatNextTurnHandler(svc CombatService, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[SessionRefInput, CommandResult] {
	return sessionCommandHandler(svc.NextTurn, getContext, notify)
}

// CombatNextPhaseHandler executes a next phase request.
func CombatNextPhaseHandler(svc CombatService, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[SessionRefInput, CommandResult] {
	return sessionCommandHandler(svc.NextPhase, getContext, notify)
}

// CombatResetHandler executes a combat reset request.
func CombatResetHandler(svc CombatService, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[SessionRefInput, CommandResult] {
	return sessionCommandHandler(svc.ResetCombat, getContext, notify)
}

// CombatPhaseHandler executes a phase listing request.
func CombatPhaseHandler(svc CombatService, getContext func() Context) mcp.ToolHandlerFor[CombatPhaseInput, CombatPhaseResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CombatPhaseInput) (*mcp.CallToolResult, CombatPhaseResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		sessionID, err := resolveSessionID(input.SessionID, call.MCPContext)
		if err != nil {
			return nil, CombatPhaseResult{}, err
		}
		phase := input.Phase
		if phase == 0 {
			state, err := svc.GetSession(call.RunCtx, sessionID)
			if err != nil {
				return nil, CombatPhaseResult{}, call.fail(err)
			}
			phase = state.Phase
		}
		turns, err := svc.ActiveForPhase(call.RunCtx, sessionID, phase)
		if err != nil {
			return nil, CombatPhaseResult{}, call.fail(err)
		}
		return nil, CombatPhaseResult{Phase: phase, Turns: turnResults(turns)}, nil
	}
}
