package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/phaseline/internal/random"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/dice"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// rngAlgo names the generator behind every roll.
const rngAlgo = "math/rand"

// RngRequest represents optional RNG configuration for a roll.
type RngRequest struct {
	Seed *int64 `json:"seed,omitempty" jsonschema:"optional seed for deterministic rolls"`
}

func (r *RngRequest) seed() *int64 {
	if r == nil {
		return nil
	}
	return r.Seed
}

// RngResult represents RNG details used for a roll.
type RngResult struct {
	SeedUsed   int64  `json:"seed_used" jsonschema:"seed value used by the server"`
	RngAlgo    string `json:"rng_algo" jsonschema:"rng algorithm identifier"`
	SeedSource string `json:"seed_source" jsonschema:"seed source (CLIENT or SERVER)"`
}

func rngResult(seed int64, source string) *RngResult {
	return &RngResult{SeedUsed: seed, RngAlgo: rngAlgo, SeedSource: source}
}

// PoolRollInput represents the MCP tool input for a skill-test pool.
type PoolRollInput struct {
	SessionID string      `json:"session_id,omitempty" jsonschema:"session whose table sees the roll (defaults to context)"`
	Size      int         `json:"size" jsonschema:"number of six-sided dice in the pool"`
	Target    int         `json:"target" jsonschema:"target number each die must meet"`
	Rng       *RngRequest `json:"rng,omitempty" jsonschema:"optional rng configuration"`
}

// PoolDieResult is one die of a pool roll.
type PoolDieResult struct {
	Draws   []int `json:"draws" jsonschema:"faces drawn, more than one when the die exploded on a six"`
	Total   int   `json:"total" jsonschema:"sum of the draws"`
	Success bool  `json:"success" jsonschema:"whether the total meets the target"`
}

// PoolRollResult represents the MCP tool output for a skill-test pool.
type PoolRollResult struct {
	Size            int             `json:"size" jsonschema:"number of dice rolled"`
	Target          int             `json:"target" jsonschema:"target number"`
	Dice            []PoolDieResult `json:"dice" jsonschema:"per-die results"`
	Successes       int             `json:"successes" jsonschema:"dice meeting the target"`
	Ones            int             `json:"ones" jsonschema:"dice whose first face was a one"`
	CriticalFailure bool            `json:"critical_failure" jsonschema:"every die showed a one first and none succeeded"`
	Rng             *RngResult      `json:"rng,omitempty" jsonschema:"rng details"`
}

// RollDiceSpec represents an MCP die specification for a roll.
type RollDiceSpec struct {
	Sides int `json:"sides" jsonschema:"number of sides for the die"`
	Count int `json:"count" jsonschema:"number of dice to roll"`
}

// RollDiceInput represents the MCP tool input for rolling dice.
type RollDiceInput struct {
	Dice []RollDiceSpec `json:"dice" jsonschema:"dice specifications to roll"`
	Rng  *RngRequest    `json:"rng,omitempty" jsonschema:"optional rng configuration"`
}

// RollDiceRoll represents the results for a single dice spec.
type RollDiceRoll struct {
	Sides   int   `json:"sides" jsonschema:"number of sides for the die"`
	Results []int `json:"results" jsonschema:"individual roll results"`
	Total   int   `json:"total" jsonschema:"sum of the roll results"`
}

// RollDiceResult represents the MCP tool output for rolling dice.
type RollDiceResult struct {
	Rolls []RollDiceRoll `json:"rolls" jsonschema:"results for each dice spec"`
	Total int            `json:"total" jsonschema:"sum of all roll totals"`
	Rng   *RngResult     `json:"rng,omitempty" jsonschema:"rng details"`
}

// PoolRollTool defines the MCP tool schema for a skill-test pool.
func PoolRollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "dice_pool_roll",
		Description: "Rolls a pool of exploding six-sided dice against a target number and reports successes and critical failure",
	}
}

// RollDiceTool defines the MCP tool schema for rolling dice.
func RollDiceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_dice",
		Description: "Rolls arbitrary dice pools",
	}
}

// PoolRollHandler executes a skill-test pool roll.
func PoolRollHandler(svc CombatService, getContext func() Context) mcp.ToolHandlerFor[PoolRollInput, PoolRollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PoolRollInput) (*mcp.CallToolResult, PoolRollResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		sessionID := input.SessionID
		if sessionID == "" {
			sessionID = call.MCPContext.SessionID
		}
		roll, err := svc.RollPool(call.RunCtx, sessionID, input.Size, input.Target, input.Rng.seed())
		if err != nil {
			return nil, PoolRollResult{}, call.fail(err)
		}

		result := PoolRollResult{
			Size:            roll.Result.Size,
			Target:          roll.Result.Target,
			Dice:            make([]PoolDieResult, 0, len(roll.Result.Dice)),
			Successes:       roll.Result.Successes,
			Ones:            roll.Result.Ones,
			CriticalFailure: roll.Result.CriticalFailure,
			Rng:             rngResult(roll.Seed, string(roll.SeedSource)),
		}
		for _, die := range roll.Result.Dice {
			result.Dice = append(result.Dice, PoolDieResult{Draws: die.Draws, Total: die.Total, Success: die.Success})
		}
		return nil, result, nil
	}
}

// RollDiceHandler executes a generic dice roll.
func RollDiceHandler(getContext func() Context, newSeed func() (int64, error)) mcp.ToolHandlerFor[RollDiceInput, RollDiceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollDiceInput) (*mcp.CallToolResult, RollDiceResult, error) {
		call := newToolCall(ctx, getContext)
		defer call.Cancel()

		seed, source, err := random.ResolveSeed(input.Rng.seed(), newSeed)
		if err != nil {
			return nil, RollDiceResult{}, fmt.Errorf("generate seed: %w", err)
		}
		specs := make([]dice.DiceSpec, 0, len(input.Dice))
		for _, spec := range input.Dice {
			specs = append(specs, dice.DiceSpec{Sides: spec.Sides, Count: spec.Count})
		}
		rolled, err := dice.RollDice(dice.RollRequest{Dice: specs, Seed: seed})
		if err != nil {
			return nil, RollDiceResult{}, call.fail(err)
		}

		result := RollDiceResult{
			Rolls: make([]RollDiceRoll, 0, len(rolled.Rolls)),
			Total: rolled.Total,
			Rng:   rngResult(seed, string(source)),
		}
		for _, roll := range rolled.Rolls {
			result.Rolls = append(result.Rolls, RollDiceRoll{Sides: roll.Sides, Results: roll.Results, Total: roll.Total})
		}
		return nil, result, nil
	}
}
