package roster

import "fmt"

// BaseInitiativeDice is the die count every combatant starts with.
const BaseInitiativeDice = 1

// Ref points at an actor and, optionally, the token placed for it.
type Ref struct {
	ActorID string
	TokenID string
}

// Bonus is an equipment-style adjustment summed into a combatant.
type Bonus struct {
	InitiativeDice int
	Reaction       int
}

// ActorData is what an actor source knows about an actor.
type ActorData struct {
	Name     string
	ImageRef string
	Reaction *int
	Bonuses  []Bonus
}

// Ownership is what an ownership classifier decides about an actor.
type Ownership struct {
	NPC      bool
	OwnerIDs []string
}

// BuildDraft turns external actor data into a Draft. Missing data never
// blocks: defaults are substituted and reported as warnings.
func BuildDraft(ref Ref, data *ActorData, ownership Ownership) (Draft, []string) {
	var warnings []string
	label := ref.ActorID
	if label == "" {
		label = ref.TokenID
	}

	draft := Draft{
		ActorID:        ref.ActorID,
		TokenID:        ref.TokenID,
		DisplayName:    label,
		Kind:           KindPC,
		OwnerIDs:       append([]string(nil), ownership.OwnerIDs...),
		InitiativeDice: BaseInitiativeDice,
	}
	if ownership.NPC {
		draft.Kind = KindNPC
	}

	if data == nil {
		warnings = append(warnings, fmt.Sprintf("no actor data for %s; using %d initiative die and reaction 0", label, BaseInitiativeDice))
		return draft, appendTokenWarning(warnings, ref, label)
	}

	if data.Name != "" {
		draft.DisplayName = data.Name
	}
	draft.ImageRef = data.ImageRef
	if data.Reaction != nil {
		draft.ReactionBonus = *data.Reaction
	} else {
		warnings = append(warnings, fmt.Sprintf("%s has no reaction value; using 0", draft.DisplayName))
	}
	for _, bonus := range data.Bonuses {
		draft.InitiativeDice += bonus.InitiativeDice
		draft.ReactionBonus += bonus.Reaction
	}

	if draft.InitiativeDice < 1 {
		warnings = append(warnings, fmt.Sprintf("%s initiative dice %d raised to 1", draft.DisplayName, draft.InitiativeDice))
		draft.InitiativeDice = 1
	}
	if draft.ReactionBonus < 0 {
		warnings = append(warnings, fmt.Sprintf("%s reaction %d raised to 0", draft.DisplayName, draft.ReactionBonus))
		draft.ReactionBonus = 0
	}
	return draft, appendTokenWarning(warnings, ref, draft.DisplayName)
}

func appendTokenWarning(warnings []string, ref Ref, label string) []string {
	if ref.TokenID == "" && ref.ActorID != "" {
		warnings = append(warnings, fmt.Sprintf("%s has no token on the scene", label))
	}
	return warnings
}
