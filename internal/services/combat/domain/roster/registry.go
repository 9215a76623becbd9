package roster

import (
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/louisbranch/phaseline/internal/platform/errors"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/dice"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/phase"
)

var (
	// ErrNotAuthorized indicates the caller may not act on the combatant.
	ErrNotAuthorized = apperrors.New(apperrors.CodeNotAuthorized, "caller is not authorized for this combatant")
	// ErrCombatantNotFound indicates no combatant has the requested id.
	ErrCombatantNotFound = apperrors.New(apperrors.CodeNotFound, "combatant not found")
	// ErrCombatantExists indicates the actor or token is already on the roster.
	ErrCombatantExists = apperrors.New(apperrors.CodeCombatantExists, "combatant already on the roster")
	// ErrAlreadyRolled indicates a re-roll without explicit intent.
	ErrAlreadyRolled = apperrors.New(apperrors.CodeCombatantAlreadyRolled, "combatant already rolled initiative")
	// ErrInvalidCombatant indicates malformed combatant fields.
	ErrInvalidCombatant = apperrors.New(apperrors.CodeCombatantInvalid, "combatant is invalid")
)

// IDGenerator returns fresh combatant ids.
type IDGenerator func() (string, error)

// Registry holds combatants in insertion order. It is not safe for
// concurrent use; callers serialize access per session.
type Registry struct {
	combatants []Combatant
	newID      IDGenerator
}

// New returns an empty registry that assigns ids with newID.
func New(newID IDGenerator) *Registry {
	return &Registry{newID: newID}
}

// Add stores a combatant built from draft and returns it.
//
// Game masters may add any combatant, with or without a token. Players may
// only add player characters backed by a token they own.
func (r *Registry) Add(caller Caller, draft Draft) (Combatant, error) {
	if err := validateDraft(draft); err != nil {
		return Combatant{}, err
	}
	if !caller.Privileged() {
		if draft.Kind != KindPC || draft.TokenID == "" || !slices.Contains(draft.OwnerIDs, caller.ParticipantID) || caller.ParticipantID == "" {
			return Combatant{}, ErrNotAuthorized
		}
	}

	combatant := Combatant{
		DisplayName:    strings.TrimSpace(draft.DisplayName),
		ImageRef:       draft.ImageRef,
		ActorID:        draft.ActorID,
		TokenID:        draft.TokenID,
		Kind:           draft.Kind,
		OwnerIDs:       slices.Clone(draft.OwnerIDs),
		InitiativeDice: draft.InitiativeDice,
		ReactionBonus:  draft.ReactionBonus,
	}
	if combatant.DisplayName == "" {
		combatant.DisplayName = combatant.ActorID
	}
	for _, existing := range r.combatants {
		if existing.ref() == combatant.ref() {
			return Combatant{}, apperrors.WithMetadata(
				apperrors.CodeCombatantExists,
				fmt.Sprintf("%s is already on the roster", existing.DisplayName),
				map[string]string{"Name": existing.DisplayName, "ID": existing.ID},
			)
		}
	}

	id, err := r.newID()
	if err != nil {
		return Combatant{}, fmt.Errorf("generate combatant id: %w", err)
	}
	combatant.ID = id
	r.combatants = append(r.combatants, combatant)
	return combatant.clone(), nil
}

// Remove deletes a combatant. Unknown ids are reported with removed=false
// and no error.
func (r *Registry) Remove(caller Caller, id string) (Combatant, bool, error) {
	idx := r.index(id)
	if idx < 0 {
		return Combatant{}, false, nil
	}
	removed := r.combatants[idx]
	if !mayControl(caller, removed) {
		return Combatant{}, false, ErrNotAuthorized
	}
	r.combatants = slices.Delete(r.combatants, idx, idx+1)
	return removed, true, nil
}

// RollInitiative rolls InitiativeDice plain d6 plus ReactionBonus and derives
// the action phases from the total. Re-rolling needs force.
func (r *Registry) RollInitiative(caller Caller, id string, seed int64, force bool) (Combatant, dice.InitiativeResult, error) {
	idx := r.index(id)
	if idx < 0 {
		return Combatant{}, dice.InitiativeResult{}, notFound(id)
	}
	c := &r.combatants[idx]
	if !mayControl(caller, *c) {
		return Combatant{}, dice.InitiativeResult{}, ErrNotAuthorized
	}
	if c.HasRolled && !force {
		return Combatant{}, dice.InitiativeResult{}, apperrors.WithMetadata(
			apperrors.CodeCombatantAlreadyRolled,
			fmt.Sprintf("%s already rolled initiative", c.DisplayName),
			map[string]string{"Name": c.DisplayName, "ID": c.ID},
		)
	}

	roll, err := dice.RollInitiative(dice.InitiativeRequest{
		Dice:  c.InitiativeDice,
		Bonus: c.ReactionBonus,
		Seed:  seed,
	})
	if err != nil {
		return Combatant{}, dice.InitiativeResult{}, err
	}
	c.setTotal(roll.Total)
	return c.clone(), roll, nil
}

// Modify applies a game-master edit. Setting RolledTotal recomputes the
// action phases; zero clears the roll.
func (r *Registry) Modify(caller Caller, id string, patch Patch) (Combatant, error) {
	if !caller.Privileged() {
		return Combatant{}, ErrNotAuthorized
	}
	idx := r.index(id)
	if idx < 0 {
		return Combatant{}, notFound(id)
	}
	if err := validatePatch(patch); err != nil {
		return Combatant{}, err
	}

	c := &r.combatants[idx]
	if patch.DisplayName != nil {
		c.DisplayName = strings.TrimSpace(*patch.DisplayName)
	}
	if patch.ImageRef != nil {
		c.ImageRef = *patch.ImageRef
	}
	if patch.InitiativeDice != nil {
		c.InitiativeDice = *patch.InitiativeDice
	}
	if patch.ReactionBonus != nil {
		c.ReactionBonus = *patch.ReactionBonus
	}
	if patch.RolledTotal != nil {
		c.setTotal(*patch.RolledTotal)
	}
	return c.clone(), nil
}

// Reset clears every rolled total. Combatants stay on the roster.
func (r *Registry) Reset() {
	for i := range r.combatants {
		r.combatants[i].clearRoll()
	}
}

// Get returns a copy of the combatant with id.
func (r *Registry) Get(id string) (Combatant, bool) {
	idx := r.index(id)
	if idx < 0 {
		return Combatant{}, false
	}
	return r.combatants[idx].clone(), true
}

// List returns copies of every combatant in insertion order.
func (r *Registry) List() []Combatant {
	out := make([]Combatant, len(r.combatants))
	for i, c := range r.combatants {
		out[i] = c.clone()
	}
	return out
}

// Len returns the roster size.
func (r *Registry) Len() int {
	return len(r.combatants)
}

// Unrolled returns the combatants still waiting on initiative.
func (r *Registry) Unrolled() []Combatant {
	var out []Combatant
	for _, c := range r.combatants {
		if !c.HasRolled {
			out = append(out, c.clone())
		}
	}
	return out
}

// MaxRolledTotal returns the highest rolled total, 0 when nobody rolled.
func (r *Registry) MaxRolledTotal() int {
	highest := 0
	for _, c := range r.combatants {
		highest = max(highest, c.RolledTotal)
	}
	return highest
}

// Restore replaces the roster with combatants loaded from storage. Action
// phases are rederived from each rolled total.
func (r *Registry) Restore(combatants []Combatant) error {
	seen := make(map[string]struct{}, len(combatants))
	restored := make([]Combatant, 0, len(combatants))
	for _, c := range combatants {
		if strings.TrimSpace(c.ID) == "" {
			return apperrors.WithMetadata(apperrors.CodeCombatantInvalid, "restored combatant has no id", map[string]string{"Reason": "missing id"})
		}
		if _, dup := seen[c.ID]; dup {
			return apperrors.WithMetadata(apperrors.CodeCombatantInvalid, "restored combatant id repeats", map[string]string{"Reason": "duplicate id " + c.ID})
		}
		seen[c.ID] = struct{}{}
		c = c.clone()
		c.setTotal(c.RolledTotal)
		restored = append(restored, c)
	}
	r.combatants = restored
	return nil
}

func (r *Registry) index(id string) int {
	return slices.IndexFunc(r.combatants, func(c Combatant) bool { return c.ID == id })
}

// setTotal keeps RolledTotal, ActionPhases and HasRolled consistent.
func (c *Combatant) setTotal(total int) {
	if total <= 0 {
		c.clearRoll()
		return
	}
	c.RolledTotal = total
	c.ActionPhases = phase.Calculate(total)
	c.HasRolled = true
}

func mayControl(caller Caller, c Combatant) bool {
	if caller.Privileged() {
		return true
	}
	return !c.IsNPC() && c.OwnedBy(caller.ParticipantID)
}

func notFound(id string) error {
	return apperrors.WithMetadata(apperrors.CodeNotFound, "combatant "+id+" not found", map[string]string{
		"Resource": "Combatant",
		"ID":       id,
	})
}

func invalid(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeCombatantInvalid, "combatant is invalid: "+reason, map[string]string{"Reason": reason})
}

func validateDraft(draft Draft) error {
	switch {
	case draft.ActorID == "" && draft.TokenID == "":
		return invalid("an actor or token reference is required")
	case draft.Kind != KindPC && draft.Kind != KindNPC:
		return invalid("unknown kind")
	case draft.InitiativeDice < 1:
		return invalid("initiative dice must be at least 1")
	case draft.ReactionBonus < 0:
		return invalid("reaction bonus must be non-negative")
	}
	return nil
}

func validatePatch(patch Patch) error {
	switch {
	case patch.DisplayName != nil && strings.TrimSpace(*patch.DisplayName) == "":
		return invalid("display name cannot be empty")
	case patch.InitiativeDice != nil && *patch.InitiativeDice < 1:
		return invalid("initiative dice must be at least 1")
	case patch.ReactionBonus != nil && *patch.ReactionBonus < 0:
		return invalid("reaction bonus must be non-negative")
	case patch.RolledTotal != nil && *patch.RolledTotal < 0:
		return invalid("rolled total cannot be negative")
	}
	return nil
}
