package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/phaseline/internal/platform/errors"
	"github.com/louisbranch/phaseline/internal/platform/errors/i18n"
	"github.com/louisbranch/phaseline/internal/services/combat/announce"
	"github.com/louisbranch/phaseline/internal/services/combat/app"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/tracker"
)

// ToolError carries a localized message for a coded tracker error.
type ToolError struct {
	Code    apperrors.Code
	Message string
	cause   error
}

func (e *ToolError) Error() string {
	return e.Message
}

func (e *ToolError) Unwrap() error {
	return e.cause
}

// localizeError renders coded errors in the caller's locale. Other errors
// pass through.
func localizeError(err error, locale string) error {
	appErr, ok := apperrors.As(err)
	if !ok {
		return err
	}
	message := i18n.GetCatalog(locale).Format(string(appErr.Code), appErr.Metadata)
	if message == string(appErr.Code) {
		message = appErr.Message
	}
	return &ToolError{Code: appErr.Code, Message: message, cause: err}
}

func resolveSessionID(input string, mcpCtx Context) (string, error) {
	sessionID := strings.TrimSpace(input)
	if sessionID == "" {
		sessionID = mcpCtx.SessionID
	}
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return sessionID, nil
}

// CombatantResult is the public shape of a combatant.
type CombatantResult struct {
	ID             string   `json:"id" jsonschema:"combatant identifier"`
	DisplayName    string   `json:"display_name" jsonschema:"display name"`
	ImageRef       string   `json:"image_ref,omitempty" jsonschema:"portrait reference"`
	ActorID        string   `json:"actor_id,omitempty" jsonschema:"actor identifier"`
	TokenID        string   `json:"token_id,omitempty" jsonschema:"token identifier"`
	Kind           string   `json:"kind" jsonschema:"PC or NPC"`
	OwnerIDs       []string `json:"owner_ids,omitempty" jsonschema:"participants controlling the combatant"`
	InitiativeDice int      `json:"initiative_dice" jsonschema:"initiative dice rolled"`
	ReactionBonus  int      `json:"reaction_bonus" jsonschema:"flat initiative bonus"`
	RolledTotal    int      `json:"rolled_total" jsonschema:"initiative total, 0 when not rolled"`
	ActionPhases   []int    `json:"action_phases,omitempty" jsonschema:"initiative value per phase"`
	HasRolled      bool     `json:"has_rolled" jsonschema:"whether initiative was rolled"`
}

// TurnResult is one combatant acting in a phase.
type TurnResult struct {
	CombatantID   string `json:"combatant_id" jsonschema:"combatant identifier"`
	CombatantName string `json:"combatant_name" jsonschema:"combatant display name"`
	Initiative    int    `json:"initiative" jsonschema:"initiative value in this phase"`
}

// SessionResult is the public shape of a combat session.
type SessionResult struct {
	ID         string            `json:"id" jsonschema:"session identifier"`
	Name       string            `json:"name" jsonschema:"session name"`
	Status     string            `json:"status" jsonschema:"SETUP or ACTIVE"`
	Round      int               `json:"round" jsonschema:"current round, 0 before combat"`
	Phase      int               `json:"phase" jsonschema:"current phase"`
	Cursor     int               `json:"cursor" jsonschema:"index of the current turn within the phase"`
	Current    *TurnResult       `json:"current,omitempty" jsonschema:"combatant holding the turn"`
	Combatants []CombatantResult `json:"combatants" jsonschema:"roster in insertion order"`
	CreatedAt  string            `json:"created_at" jsonschema:"RFC3339 timestamp when the session was created"`
	UpdatedAt  string            `json:"updated_at" jsonschema:"RFC3339 timestamp when the session was last updated"`
}

// EventResult is an announcement visible to the caller.
type EventResult struct {
	Kind        string `json:"kind" jsonschema:"event kind"`
	Text        string `json:"text" jsonschema:"rendered announcement"`
	CombatantID string `json:"combatant_id,omitempty" jsonschema:"combatant the event is about"`
	GMOnly      bool   `json:"gm_only,omitempty" jsonschema:"whether only the GM sees the event"`
}

func combatantResult(c roster.Combatant) CombatantResult {
	return CombatantResult{
		ID:             c.ID,
		DisplayName:    c.DisplayName,
		ImageRef:       c.ImageRef,
		ActorID:        c.ActorID,
		TokenID:        c.TokenID,
		Kind:           c.Kind.String(),
		OwnerIDs:       c.OwnerIDs,
		InitiativeDice: c.InitiativeDice,
		ReactionBonus:  c.ReactionBonus,
		RolledTotal:    c.RolledTotal,
		ActionPhases:   c.ActionPhases,
		HasRolled:      c.HasRolled,
	}
}

func combatantResults(cs []roster.Combatant) []CombatantResult {
	out := make([]CombatantResult, 0, len(cs))
	for _, c := range cs {
		out = append(out, combatantResult(c))
	}
	return out
}

func turnResults(turns []tracker.Turn) []TurnResult {
	out := make([]TurnResult, 0, len(turns))
	for _, t := range turns {
		out = append(out, TurnResult{CombatantID: t.Combatant.ID, CombatantName: t.Combatant.DisplayName, Initiative: t.Initiative})
	}
	return out
}

// sessionResult maps a snapshot. The current turn is derived by restoring
// the snapshot so the ordering rules stay in one place.
func sessionResult(state tracker.State) SessionResult {
	result := SessionResult{
		ID:         state.ID,
		Name:       state.Name,
		Status:     string(state.Status),
		Round:      state.Round,
		Phase:      state.Phase,
		Cursor:     state.Cursor,
		Combatants: combatantResults(state.Combatants),
		CreatedAt:  formatTime(state.CreatedAt),
		UpdatedAt:  formatTime(state.UpdatedAt),
	}
	if state.Status != tracker.StatusActive {
		return result
	}
	session, err := tracker.Restore(state, nil, nil)
	if err != nil {
		return result
	}
	if turn, ok := session.Current(); ok {
		result.Current = &TurnResult{CombatantID: turn.Combatant.ID, CombatantName: turn.Combatant.DisplayName, Initiative: turn.Initiative}
	}
	return result
}

// visibleEvents renders the events the caller may see.
func visibleEvents(events []tracker.Event, mcpCtx Context) []EventResult {
	caller := mcpCtx.Caller()
	renderer := announce.NewRenderer(mcpCtx.Locale)
	out := make([]EventResult, 0, len(events))
	for _, ev := range events {
		if ev.GMOnly && !caller.Privileged() {
			continue
		}
		out = append(out, EventResult{
			Kind:        string(ev.Kind),
			Text:        renderer.Event(ev),
			CombatantID: ev.CombatantID,
			GMOnly:      ev.GMOnly,
		})
	}
	return out
}

func outcomeResult(outcome app.Outcome, mcpCtx Context) CommandResult {
	return CommandResult{
		Session: sessionResult(outcome.State),
		Events:  visibleEvents(outcome.Events, mcpCtx),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
