// Package roster owns the combatants of a combat session: who they are, who
// may touch them, and their rolled initiative.
package roster

import (
	"slices"
	"strings"
)

// Kind separates player-controlled combatants from game-master ones.
type Kind int

const (
	// KindPC is controlled by one or more player participants.
	KindPC Kind = iota
	// KindNPC is controlled by the game master.
	KindNPC
)

func (k Kind) String() string {
	switch k {
	case KindPC:
		return "PC"
	case KindNPC:
		return "NPC"
	default:
		return "UNKNOWN"
	}
}

// ParseKind parses "pc" or "npc" in any case.
func ParseKind(value string) (Kind, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "PC":
		return KindPC, true
	case "NPC":
		return KindNPC, true
	default:
		return KindPC, false
	}
}

// Role is the capability a caller acts with.
type Role string

const (
	RoleGM     Role = "GM"
	RolePlayer Role = "PLAYER"
)

// ParseRole parses a role name in any case.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleGM:
		return RoleGM, true
	case RolePlayer:
		return RolePlayer, true
	default:
		return "", false
	}
}

// Caller identifies who issues a roster operation.
type Caller struct {
	ParticipantID string
	Role          Role
}

// Privileged reports whether the caller may act on every combatant.
func (c Caller) Privileged() bool {
	return c.Role == RoleGM
}

// Combatant is one acting entry of the roster.
//
// HasRolled is true exactly when RolledTotal > 0 and ActionPhases is non-empty.
type Combatant struct {
	ID             string   `json:"id"`
	DisplayName    string   `json:"display_name"`
	ImageRef       string   `json:"image_ref,omitempty"`
	ActorID        string   `json:"actor_id,omitempty"`
	TokenID        string   `json:"token_id,omitempty"`
	Kind           Kind     `json:"kind"`
	OwnerIDs       []string `json:"owner_ids,omitempty"`
	InitiativeDice int      `json:"initiative_dice"`
	ReactionBonus  int      `json:"reaction_bonus"`
	RolledTotal    int      `json:"rolled_total"`
	ActionPhases   []int    `json:"action_phases,omitempty"`
	HasRolled      bool     `json:"has_rolled"`
}

// IsNPC reports whether the combatant is game-master controlled.
func (c Combatant) IsNPC() bool {
	return c.Kind == KindNPC
}

// OwnedBy reports whether participantID controls the combatant.
func (c Combatant) OwnedBy(participantID string) bool {
	if participantID == "" {
		return false
	}
	return slices.Contains(c.OwnerIDs, participantID)
}

// ref is the external reference used to detect duplicates: the token when
// present, else the actor.
func (c Combatant) ref() string {
	if c.TokenID != "" {
		return "token:" + c.TokenID
	}
	return "actor:" + c.ActorID
}

func (c Combatant) clone() Combatant {
	c.OwnerIDs = slices.Clone(c.OwnerIDs)
	c.ActionPhases = slices.Clone(c.ActionPhases)
	return c
}

func (c *Combatant) clearRoll() {
	c.RolledTotal = 0
	c.ActionPhases = nil
	c.HasRolled = false
}

// Draft is the input to Registry.Add.
type Draft struct {
	DisplayName    string
	ImageRef       string
	ActorID        string
	TokenID        string
	Kind           Kind
	OwnerIDs       []string
	InitiativeDice int
	ReactionBonus  int
}

// Patch carries the fields Registry.Modify may change. Nil fields are kept.
type Patch struct {
	DisplayName    *string
	ImageRef       *string
	InitiativeDice *int
	ReactionBonus  *int
	RolledTotal    *int
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.DisplayName == nil && p.ImageRef == nil && p.InitiativeDice == nil &&
		p.ReactionBonus == nil && p.RolledTotal == nil
}
