package announce

import (
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/louisbranch/phaseline/internal/services/combat/domain/dice"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/tracker"
)

func TestResolveTag(t *testing.T) {
	tcs := map[string]language.Tag{
		"":        language.English,
		"en-US":   language.English,
		"pt-BR":   language.BrazilianPortuguese,
		"pt":      language.BrazilianPortuguese,
		"klingon": language.English,
		"ja":      language.English,
	}
	for locale, want := range tcs {
		if got := ResolveTag(locale); got != want {
			t.Fatalf("ResolveTag(%q) = %v, want %v", locale, got, want)
		}
	}
}

func TestRenderEventEnglish(t *testing.T) {
	r := NewRenderer("en")
	tcs := []struct {
		event tracker.Event
		want  string
	}{
		{
			event: tracker.Event{Kind: tracker.EventTurnStarted, CombatantName: "Rook", Initiative: 17, Phase: 2},
			want:  "Rook acts (initiative 17, phase 2).",
		},
		{
			event: tracker.Event{Kind: tracker.EventRoundStarted, Round: 3},
			want:  "Round 3 begins.",
		},
		{
			event: tracker.Event{Kind: tracker.EventPhaseEmpty, Phase: 4},
			want:  "Phase 4: nobody acts.",
		},
		{
			event: tracker.Event{Kind: tracker.EventCombatStarted, SessionName: "Docks", Round: 1},
			want:  "Docks: combat begins. Round 1.",
		},
		{
			event: tracker.Event{Kind: tracker.EventInitiativeRolled, CombatantName: "Goblin", Dice: []int{3, 5}, Bonus: 4, Initiative: 12},
			want:  "Goblin rolls initiative: [3 5] + 4 = 12.",
		},
		{
			event: tracker.Event{Kind: tracker.EventWarning, Message: "no combatant with id x"},
			want:  "Warning: no combatant with id x",
		},
	}
	for _, tc := range tcs {
		if got := r.Event(tc.event); got != tc.want {
			t.Fatalf("Event(%s) = %q, want %q", tc.event.Kind, got, tc.want)
		}
	}
}

func TestRenderEventPortuguese(t *testing.T) {
	r := NewRenderer("pt-BR")
	got := r.Event(tracker.Event{Kind: tracker.EventRoundStarted, Round: 2})
	if got != "Começa a rodada 2." {
		t.Fatalf("unexpected pt-BR text %q", got)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	r := NewRenderer("en")
	if got := r.Event(tracker.Event{Kind: "mystery"}); got != "mystery" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestRenderPool(t *testing.T) {
	r := NewRenderer("en")
	got := r.Pool(dice.PoolResult{
		Size:      3,
		Target:    4,
		Dice:      []dice.PoolDie{{Total: 9}, {Total: 1}, {Total: 2}},
		Successes: 1,
		Ones:      1,
	})
	if got != "Rolled 3 dice against 4: [9 1 2]. 1 successes, 1 ones." {
		t.Fatalf("unexpected pool text %q", got)
	}

	crit := r.Pool(dice.PoolResult{Size: 1, Target: 2, Dice: []dice.PoolDie{{Total: 1}}, Ones: 1, CriticalFailure: true})
	if !strings.Contains(crit, "Critical failure") {
		t.Fatalf("expected critical failure text, got %q", crit)
	}
}
