// Package announce turns combat events into human-readable text and
// delivers it to sinks: the process log and the live websocket feed.
package announce

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/phaseline/internal/services/combat/domain/dice"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/tracker"
)

var supportedTags = []language.Tag{
	language.English,
	language.BrazilianPortuguese,
}

var tagMatcher = language.NewMatcher(supportedTags)

// ResolveTag matches a locale string against the supported languages.
// Unknown or empty values fall back to English.
func ResolveTag(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return language.English
	}
	parsed, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, index, confidence := tagMatcher.Match(parsed)
	if confidence == language.No {
		return language.English
	}
	return supportedTags[index]
}

// Renderer formats events in one language.
type Renderer struct {
	printer *message.Printer
}

// NewRenderer returns a renderer for the closest supported locale.
func NewRenderer(locale string) *Renderer {
	return &Renderer{printer: message.NewPrinter(ResolveTag(locale))}
}

// Event renders a tracker event.
func (r *Renderer) Event(ev tracker.Event) string {
	p := r.printer
	switch ev.Kind {
	case tracker.EventCombatStarted:
		return p.Sprintf("combat.started", ev.SessionName, ev.Round)
	case tracker.EventCombatReset:
		return p.Sprintf("combat.reset", ev.SessionName)
	case tracker.EventRoundStarted:
		return p.Sprintf("round.started", ev.Round)
	case tracker.EventPhaseStarted:
		return p.Sprintf("phase.started", ev.Phase)
	case tracker.EventPhaseEmpty:
		return p.Sprintf("phase.empty", ev.Phase)
	case tracker.EventTurnStarted:
		return p.Sprintf("turn.started", ev.CombatantName, ev.Initiative, ev.Phase)
	case tracker.EventCombatantAdded:
		return p.Sprintf("combatant.added", ev.CombatantName)
	case tracker.EventCombatantRemoved:
		return p.Sprintf("combatant.removed", ev.CombatantName)
	case tracker.EventCombatantModified:
		return p.Sprintf("combatant.modified", ev.CombatantName, ev.Initiative)
	case tracker.EventInitiativeRolled:
		return p.Sprintf("initiative.rolled", ev.CombatantName, ev.Dice, ev.Bonus, ev.Initiative)
	case tracker.EventWarning:
		return p.Sprintf("warning", ev.Message)
	default:
		return string(ev.Kind)
	}
}

// Pool renders a skill-test pool roll.
func (r *Renderer) Pool(result dice.PoolResult) string {
	totals := make([]int, len(result.Dice))
	for i, die := range result.Dice {
		totals[i] = die.Total
	}
	if result.CriticalFailure {
		return r.printer.Sprintf("pool.critical", result.Size, result.Target, totals)
	}
	return r.printer.Sprintf("pool.rolled", result.Size, result.Target, totals, result.Successes, result.Ones)
}
