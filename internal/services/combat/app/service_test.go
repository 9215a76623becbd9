package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	apperrors "github.com/louisbranch/phaseline/internal/platform/errors"
	"github.com/louisbranch/phaseline/internal/random"
	"github.com/louisbranch/phaseline/internal/services/combat/app/mocks"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/dice"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/tracker"
	"github.com/louisbranch/phaseline/internal/services/combat/storage/memory"
)

var (
	gm     = Caller{ParticipantID: "gm", Role: roster.RoleGM}
	player = Caller{ParticipantID: "p-1", Role: roster.RolePlayer}
	epoch  = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
)

func sequentialIDs() func() (string, error) {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n), nil
	}
}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	if cfg.Store == nil {
		cfg.Store = memory.New()
	}
	if cfg.NewID == nil {
		cfg.NewID = sequentialIDs()
	}
	if cfg.NewSeed == nil {
		cfg.NewSeed = func() (int64, error) { return 42, nil }
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return epoch }
	}
	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func mustCreate(t *testing.T, svc *Service) string {
	t.Helper()
	state, err := svc.CreateSession(context.Background(), gm, "Ambush at the docks")
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	return state.ID
}

// addWithTotal adds an NPC and pins its rolled total.
func addWithTotal(t *testing.T, svc *Service, sessionID, name string, total int) roster.Combatant {
	t.Helper()
	ctx := context.Background()
	added, err := svc.AddDraft(ctx, gm, sessionID, roster.Draft{DisplayName: name, ActorID: name, Kind: roster.KindNPC, InitiativeDice: 1})
	if err != nil {
		t.Fatalf("AddDraft(%s) returned error: %v", name, err)
	}
	c := added.Combatants[0]
	_, c, err = svc.ModifyCombatant(ctx, gm, sessionID, c.ID, roster.Patch{RolledTotal: &total})
	if err != nil {
		t.Fatalf("ModifyCombatant(%s) returned error: %v", name, err)
	}
	return c
}

func eventKinds(events []tracker.Event) []tracker.EventKind {
	kinds := make([]tracker.EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func TestNewServiceRequiresStore(t *testing.T) {
	if _, err := NewService(Config{}); err == nil {
		t.Fatal("expected error without a store")
	}
}

func TestCreateSessionRequiresGM(t *testing.T) {
	svc := newTestService(t, Config{})
	_, err := svc.CreateSession(context.Background(), player, "Ambush")
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
	if got := svc.ListSessions(context.Background()); len(got) != 0 {
		t.Fatalf("sessions = %d, want 0", len(got))
	}
}

func TestCreateSessionPersists(t *testing.T) {
	store := memory.New()
	svc := newTestService(t, Config{Store: store})
	id := mustCreate(t, svc)

	stored, err := store.GetSession(context.Background(), id)
	if err != nil {
		t.Fatalf("GetSession returned error: %v", err)
	}
	if stored.Status != tracker.StatusSetup || stored.Name != "Ambush at the docks" {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestCreateSessionRejectsEmptyName(t *testing.T) {
	svc := newTestService(t, Config{})
	_, err := svc.CreateSession(context.Background(), gm, "   ")
	if !errors.Is(err, tracker.ErrSessionNameEmpty) {
		t.Fatalf("err = %v, want ErrSessionNameEmpty", err)
	}
}

func TestUnknownSession(t *testing.T) {
	svc := newTestService(t, Config{})
	_, err := svc.GetSession(context.Background(), "missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Metadata["ID"] != "missing" {
		t.Fatalf("metadata = %+v", appErr)
	}
	if _, err := svc.StartCombat(context.Background(), gm, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("StartCombat err = %v", err)
	}
}

func TestAddActorUsesSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	actors := mocks.NewMockActorSource(ctrl)
	ownership := mocks.NewMockOwnershipClassifier(ctrl)
	announcer := mocks.NewMockAnnouncer(ctrl)

	reaction := 5
	ownership.EXPECT().Ownership(gomock.Any(), "actor-1").Return(roster.Ownership{OwnerIDs: []string{"p-1"}}, nil)
	actors.EXPECT().Actor(gomock.Any(), "actor-1").Return(roster.ActorData{
		Name:     "Kestrel",
		Reaction: &reaction,
		Bonuses:  []roster.Bonus{{InitiativeDice: 2, Reaction: 1}},
	}, true, nil)

	var announced []tracker.Event
	announcer.EXPECT().Announce(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, events []tracker.Event) error {
		announced = append(announced, events...)
		return nil
	}).AnyTimes()

	svc := newTestService(t, Config{Actors: actors, Ownership: ownership, Announcer: announcer})
	id := mustCreate(t, svc)

	added, err := svc.AddActor(context.Background(), player, id, roster.Ref{ActorID: "actor-1", TokenID: "token-1"})
	if err != nil {
		t.Fatalf("AddActor returned error: %v", err)
	}
	if len(added.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", added.Warnings)
	}
	c := added.Combatants[0]
	if c.DisplayName != "Kestrel" || c.InitiativeDice != 3 || c.ReactionBonus != 6 || c.Kind != roster.KindPC {
		t.Fatalf("combatant = %+v", c)
	}
	if len(announced) != 1 || announced[0].Kind != tracker.EventCombatantAdded {
		t.Fatalf("announced = %v", eventKinds(announced))
	}
}

func TestAddActorWithoutDataWarnsGM(t *testing.T) {
	ctrl := gomock.NewController(t)
	actors := mocks.NewMockActorSource(ctrl)
	ownership := mocks.NewMockOwnershipClassifier(ctrl)

	ownership.EXPECT().Ownership(gomock.Any(), "ghoul").Return(roster.Ownership{NPC: true}, nil)
	actors.EXPECT().Actor(gomock.Any(), "ghoul").Return(roster.ActorData{}, false, nil)

	svc := newTestService(t, Config{Actors: actors, Ownership: ownership})
	id := mustCreate(t, svc)

	added, err := svc.AddActor(context.Background(), gm, id, roster.Ref{ActorID: "ghoul"})
	if err != nil {
		t.Fatalf("AddActor returned error: %v", err)
	}
	c := added.Combatants[0]
	if c.InitiativeDice != roster.BaseInitiativeDice || c.ReactionBonus != 0 || !c.IsNPC() {
		t.Fatalf("combatant = %+v", c)
	}
	if len(added.Warnings) == 0 {
		t.Fatal("expected warnings for missing actor data")
	}
	var warned bool
	for _, ev := range added.Events {
		if ev.Kind == tracker.EventWarning {
			warned = true
			if !ev.GMOnly {
				t.Fatalf("warning event not GM only: %+v", ev)
			}
		}
	}
	if !warned {
		t.Fatalf("events = %v, want a warning", eventKinds(added.Events))
	}
}

func TestAddActorReadFailureDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	actors := mocks.NewMockActorSource(ctrl)
	ownership := mocks.NewMockOwnershipClassifier(ctrl)

	ownership.EXPECT().Ownership(gomock.Any(), "ghoul").Return(roster.Ownership{NPC: true}, nil)
	actors.EXPECT().Actor(gomock.Any(), "ghoul").Return(roster.ActorData{}, false, errors.New("actor store offline"))

	svc := newTestService(t, Config{Actors: actors, Ownership: ownership})
	id := mustCreate(t, svc)

	added, err := svc.AddActor(context.Background(), gm, id, roster.Ref{ActorID: "ghoul"})
	if err != nil {
		t.Fatalf("AddActor returned error: %v", err)
	}
	if !strings.Contains(strings.Join(added.Warnings, "\n"), "could not be read") {
		t.Fatalf("warnings = %v", added.Warnings)
	}
}

func TestAddActorOwnershipFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	ownership := mocks.NewMockOwnershipClassifier(ctrl)
	ownership.EXPECT().Ownership(gomock.Any(), "ghoul").Return(roster.Ownership{}, errors.New("boom"))

	svc := newTestService(t, Config{Ownership: ownership})
	id := mustCreate(t, svc)
	if _, err := svc.AddActor(context.Background(), gm, id, roster.Ref{ActorID: "ghoul"}); err == nil {
		t.Fatal("expected ownership error")
	}
}

func TestAddSelectedSkipsDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	selections := mocks.NewMockSelectionSource(ctrl)
	selections.EXPECT().Selection(gomock.Any(), "gm").Return([]roster.Ref{
		{ActorID: "ghoul", TokenID: "t-1"},
		{ActorID: "ghoul", TokenID: "t-2"},
		{ActorID: "ghoul", TokenID: "t-1"},
	}, nil)

	svc := newTestService(t, Config{Selections: selections})
	id := mustCreate(t, svc)

	added, err := svc.AddSelected(context.Background(), gm, id)
	if err != nil {
		t.Fatalf("AddSelected returned error: %v", err)
	}
	if len(added.Combatants) != 2 {
		t.Fatalf("added = %d, want 2", len(added.Combatants))
	}
	if !strings.Contains(strings.Join(added.Warnings, "\n"), "skipped") {
		t.Fatalf("warnings = %v, want a skipped duplicate", added.Warnings)
	}
	if len(added.State.Combatants) != 2 {
		t.Fatalf("roster = %d, want 2", len(added.State.Combatants))
	}
}

func TestAddSelectedEmptySelection(t *testing.T) {
	svc := newTestService(t, Config{})
	id := mustCreate(t, svc)
	_, err := svc.AddSelected(context.Background(), gm, id)
	if apperrors.CodeOf(err) != apperrors.CodeCombatantInvalid {
		t.Fatalf("err = %v, want invalid argument", err)
	}
}

func TestCombatFlow(t *testing.T) {
	svc := newTestService(t, Config{})
	ctx := context.Background()
	id := mustCreate(t, svc)

	hero := addWithTotal(t, svc, id, "hero", 27)
	thug := addWithTotal(t, svc, id, "thug", 15)

	out, err := svc.StartCombat(ctx, gm, id)
	if err != nil {
		t.Fatalf("StartCombat returned error: %v", err)
	}
	if out.State.Round != 1 || out.State.Phase != 1 {
		t.Fatalf("state = %+v", out.State)
	}
	if kinds := eventKinds(out.Events); kinds[0] != tracker.EventCombatStarted || kinds[len(kinds)-1] != tracker.EventTurnStarted {
		t.Fatalf("events = %v", kinds)
	}

	turns, err := svc.ActiveForPhase(ctx, id, 2)
	if err != nil {
		t.Fatalf("ActiveForPhase returned error: %v", err)
	}
	if len(turns) != 2 || turns[0].Combatant.ID != hero.ID || turns[0].Initiative != 17 || turns[1].Combatant.ID != thug.ID || turns[1].Initiative != 5 {
		t.Fatalf("phase 2 turns = %+v", turns)
	}

	out, err = svc.NextTurn(ctx, gm, id)
	if err != nil {
		t.Fatalf("NextTurn returned error: %v", err)
	}
	if out.State.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", out.State.Cursor)
	}

	out, err = svc.NextPhase(ctx, gm, id)
	if err != nil {
		t.Fatalf("NextPhase returned error: %v", err)
	}
	if out.State.Phase != 2 || out.State.Cursor != 0 {
		t.Fatalf("state = %+v", out.State)
	}

	out, err = svc.ResetCombat(ctx, gm, id)
	if err != nil {
		t.Fatalf("ResetCombat returned error: %v", err)
	}
	if out.State.Status != tracker.StatusSetup || out.State.Round != 0 || out.State.Phase != 1 {
		t.Fatalf("state = %+v", out.State)
	}
	for _, c := range out.State.Combatants {
		if c.HasRolled {
			t.Fatalf("combatant %s still rolled after reset", c.ID)
		}
	}
}

func TestGMOnlyCommands(t *testing.T) {
	svc := newTestService(t, Config{})
	ctx := context.Background()
	id := mustCreate(t, svc)
	addWithTotal(t, svc, id, "thug", 15)

	checks := map[string]func() error{
		"start": func() error { _, err := svc.StartCombat(ctx, player, id); return err },
		"phase": func() error { _, err := svc.NextPhase(ctx, player, id); return err },
		"reset": func() error { _, err := svc.ResetCombat(ctx, player, id); return err },
		"roll all": func() error {
			_, _, err := svc.RollAll(ctx, player, id, false)
			return err
		},
		"delete": func() error { return svc.DeleteSession(ctx, player, id) },
	}
	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			if err := check(); !errors.Is(err, ErrNotAuthorized) {
				t.Fatalf("err = %v, want ErrNotAuthorized", err)
			}
		})
	}
}

func TestNextTurnOwnerOnly(t *testing.T) {
	svc := newTestService(t, Config{})
	ctx := context.Background()
	id := mustCreate(t, svc)

	added, err := svc.AddDraft(ctx, gm, id, roster.Draft{
		DisplayName:    "Kestrel",
		ActorID:        "kestrel",
		TokenID:        "t-k",
		Kind:           roster.KindPC,
		OwnerIDs:       []string{player.ParticipantID},
		InitiativeDice: 1,
	})
	if err != nil {
		t.Fatalf("AddDraft returned error: %v", err)
	}
	total := 12
	if _, _, err := svc.ModifyCombatant(ctx, gm, id, added.Combatants[0].ID, roster.Patch{RolledTotal: &total}); err != nil {
		t.Fatalf("ModifyCombatant returned error: %v", err)
	}
	addWithTotal(t, svc, id, "thug", 8)
	if _, err := svc.StartCombat(ctx, gm, id); err != nil {
		t.Fatalf("StartCombat returned error: %v", err)
	}

	stranger := Caller{ParticipantID: "p-2", Role: roster.RolePlayer}
	if _, err := svc.NextTurn(ctx, stranger, id); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("stranger err = %v, want ErrNotAuthorized", err)
	}
	if _, err := svc.NextTurn(ctx, player, id); err != nil {
		t.Fatalf("owner NextTurn returned error: %v", err)
	}
	// The thug holds the turn now.
	if _, err := svc.NextTurn(ctx, player, id); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("owner on NPC turn err = %v, want ErrNotAuthorized", err)
	}
}

func TestRollInitiativeSeeds(t *testing.T) {
	svc := newTestService(t, Config{NewSeed: func() (int64, error) { return 7, nil }})
	ctx := context.Background()
	id := mustCreate(t, svc)
	added, err := svc.AddDraft(ctx, gm, id, roster.Draft{DisplayName: "thug", ActorID: "thug", Kind: roster.KindNPC, InitiativeDice: 3, ReactionBonus: 6})
	if err != nil {
		t.Fatalf("AddDraft returned error: %v", err)
	}
	c := added.Combatants[0]

	rolled, err := svc.RollInitiative(ctx, gm, id, c.ID, nil, false)
	if err != nil {
		t.Fatalf("RollInitiative returned error: %v", err)
	}
	if rolled.Seed != 7 || rolled.SeedSource != random.SeedSourceServer {
		t.Fatalf("seed = %d (%s)", rolled.Seed, rolled.SeedSource)
	}
	if rolled.Result.Total < 9 || rolled.Result.Total > 24 {
		t.Fatalf("total = %d, want 9..24", rolled.Result.Total)
	}
	if !rolled.Combatant.HasRolled || rolled.Combatant.RolledTotal != rolled.Result.Total {
		t.Fatalf("combatant = %+v", rolled.Combatant)
	}
	for _, ev := range rolled.Events {
		if ev.Kind == tracker.EventInitiativeRolled && !ev.GMOnly {
			t.Fatal("NPC initiative roll should be GM only")
		}
	}

	if _, err := svc.RollInitiative(ctx, gm, id, c.ID, nil, false); !errors.Is(err, roster.ErrAlreadyRolled) {
		t.Fatalf("re-roll err = %v, want ErrAlreadyRolled", err)
	}

	seed := int64(99)
	again, err := svc.RollInitiative(ctx, gm, id, c.ID, &seed, true)
	if err != nil {
		t.Fatalf("forced RollInitiative returned error: %v", err)
	}
	if again.SeedSource != random.SeedSourceClient || again.Seed != 99 {
		t.Fatalf("seed = %d (%s)", again.Seed, again.SeedSource)
	}
	replay, err := dice.RollInitiative(dice.InitiativeRequest{Dice: 3, Bonus: 6, Seed: 99})
	if err != nil {
		t.Fatalf("dice.RollInitiative returned error: %v", err)
	}
	if replay.Total != again.Result.Total {
		t.Fatalf("replay total = %d, want %d", replay.Total, again.Result.Total)
	}
}

func TestRollAllNPCOnly(t *testing.T) {
	svc := newTestService(t, Config{})
	ctx := context.Background()
	id := mustCreate(t, svc)

	if _, err := svc.AddDraft(ctx, gm, id, roster.Draft{DisplayName: "thug", ActorID: "thug", Kind: roster.KindNPC, InitiativeDice: 1}); err != nil {
		t.Fatalf("AddDraft returned error: %v", err)
	}
	if _, err := svc.AddDraft(ctx, gm, id, roster.Draft{DisplayName: "Kestrel", ActorID: "kestrel", Kind: roster.KindPC, InitiativeDice: 1}); err != nil {
		t.Fatalf("AddDraft returned error: %v", err)
	}

	_, rolled, err := svc.RollAll(ctx, gm, id, true)
	if err != nil {
		t.Fatalf("RollAll returned error: %v", err)
	}
	if len(rolled) != 1 || rolled[0].DisplayName != "thug" {
		t.Fatalf("rolled = %+v", rolled)
	}

	if _, err := svc.StartCombat(ctx, gm, id); !errors.Is(err, tracker.ErrNotAllRolled) {
		t.Fatalf("StartCombat err = %v, want ErrNotAllRolled", err)
	}

	_, rolled, err = svc.RollAll(ctx, gm, id, false)
	if err != nil {
		t.Fatalf("RollAll returned error: %v", err)
	}
	if len(rolled) != 1 || rolled[0].DisplayName != "Kestrel" {
		t.Fatalf("rolled = %+v", rolled)
	}
	if _, err := svc.StartCombat(ctx, gm, id); err != nil {
		t.Fatalf("StartCombat returned error: %v", err)
	}
}

func TestRemoveUnknownCombatantWarns(t *testing.T) {
	svc := newTestService(t, Config{})
	id := mustCreate(t, svc)

	out, removed, err := svc.RemoveCombatant(context.Background(), gm, id, "ghost")
	if err != nil {
		t.Fatalf("RemoveCombatant returned error: %v", err)
	}
	if removed {
		t.Fatal("removed = true for unknown combatant")
	}
	if len(out.Events) != 1 || out.Events[0].Kind != tracker.EventWarning {
		t.Fatalf("events = %v", eventKinds(out.Events))
	}
}

// flakyStore fails saves while failing is set.
type flakyStore struct {
	*memory.Store
	mu      sync.Mutex
	failing bool
}

func (f *flakyStore) SaveSession(ctx context.Context, state tracker.State) error {
	f.mu.Lock()
	failing := f.failing
	f.mu.Unlock()
	if failing {
		return errors.New("disk full")
	}
	return f.Store.SaveSession(ctx, state)
}

func (f *flakyStore) setFailing(v bool) {
	f.mu.Lock()
	f.failing = v
	f.mu.Unlock()
}

func TestSaveFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	announcer := mocks.NewMockAnnouncer(ctrl)
	announcer.EXPECT().Announce(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	store := &flakyStore{Store: memory.New()}
	svc := newTestService(t, Config{Store: store, Announcer: announcer})
	ctx := context.Background()
	id := mustCreate(t, svc)
	addWithTotal(t, svc, id, "thug", 15)

	store.setFailing(true)
	if _, err := svc.StartCombat(ctx, gm, id); err == nil {
		t.Fatal("expected save error")
	}
	state, err := svc.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession returned error: %v", err)
	}
	if state.Status != tracker.StatusSetup || state.Round != 0 {
		t.Fatalf("state after failed save = %+v", state)
	}

	store.setFailing(false)
	if _, err := svc.StartCombat(ctx, gm, id); err != nil {
		t.Fatalf("StartCombat after recovery returned error: %v", err)
	}
}

func TestCommandFailureRollsBack(t *testing.T) {
	calls := 0
	store := memory.New()
	svc := newTestService(t, Config{
		Store: store,
		NewSeed: func() (int64, error) {
			calls++
			if calls > 1 {
				return 0, errors.New("entropy gone")
			}
			return 42, nil
		},
	})
	ctx := context.Background()
	id := mustCreate(t, svc)
	for _, name := range []string{"ganger", "ghoul"} {
		if _, err := svc.AddDraft(ctx, gm, id, roster.Draft{DisplayName: name, ActorID: name, Kind: roster.KindNPC, InitiativeDice: 1}); err != nil {
			t.Fatalf("AddDraft(%s) returned error: %v", name, err)
		}
	}

	if _, _, err := svc.RollAll(ctx, gm, id, false); err == nil {
		t.Fatal("expected seed error")
	}

	state, err := svc.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession returned error: %v", err)
	}
	stored, err := store.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("store GetSession returned error: %v", err)
	}
	for i, c := range state.Combatants {
		if c.HasRolled || c.RolledTotal != 0 {
			t.Fatalf("combatant %s rolled after failed RollAll: %+v", c.DisplayName, c)
		}
		if stored.Combatants[i].HasRolled != c.HasRolled {
			t.Fatalf("memory and store disagree on %s", c.DisplayName)
		}
	}
}

func TestAnnounceFailureDoesNotUndo(t *testing.T) {
	ctrl := gomock.NewController(t)
	announcer := mocks.NewMockAnnouncer(ctrl)
	announcer.EXPECT().Announce(gomock.Any(), gomock.Any()).Return(errors.New("feed down")).AnyTimes()

	svc := newTestService(t, Config{Announcer: announcer})
	ctx := context.Background()
	id := mustCreate(t, svc)
	addWithTotal(t, svc, id, "thug", 15)

	out, err := svc.StartCombat(ctx, gm, id)
	if err != nil {
		t.Fatalf("StartCombat returned error: %v", err)
	}
	if out.State.Status != tracker.StatusActive {
		t.Fatalf("status = %s, want ACTIVE", out.State.Status)
	}
}

func TestLoadRestoresSessions(t *testing.T) {
	store := memory.New()
	first := newTestService(t, Config{Store: store})
	id := mustCreate(t, first)
	addWithTotal(t, first, id, "thug", 15)
	if _, err := first.StartCombat(context.Background(), gm, id); err != nil {
		t.Fatalf("StartCombat returned error: %v", err)
	}

	second := newTestService(t, Config{Store: store})
	if err := second.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	state, err := second.GetSession(context.Background(), id)
	if err != nil {
		t.Fatalf("GetSession returned error: %v", err)
	}
	if state.Status != tracker.StatusActive || len(state.Combatants) != 1 {
		t.Fatalf("restored = %+v", state)
	}
	if _, err := second.NextTurn(context.Background(), gm, id); err != nil {
		t.Fatalf("NextTurn on restored session returned error: %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	store := memory.New()
	svc := newTestService(t, Config{Store: store})
	ctx := context.Background()
	id := mustCreate(t, svc)

	if err := svc.DeleteSession(ctx, gm, id); err != nil {
		t.Fatalf("DeleteSession returned error: %v", err)
	}
	if _, err := svc.GetSession(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("GetSession err = %v", err)
	}
	if _, err := store.GetSession(ctx, id); err == nil {
		t.Fatal("session still stored")
	}
}

func TestRollPoolAnnounces(t *testing.T) {
	ctrl := gomock.NewController(t)
	announcer := mocks.NewMockAnnouncer(ctrl)

	svc := newTestService(t, Config{Announcer: announcer})
	id := mustCreate(t, svc)

	seed := int64(3)
	announcer.EXPECT().AnnouncePool(gomock.Any(), id, gomock.Any()).DoAndReturn(func(_ context.Context, _ string, result dice.PoolResult) error {
		if result.Size != 4 || result.Target != 5 {
			t.Errorf("announced pool = %+v", result)
		}
		return nil
	})

	roll, err := svc.RollPool(context.Background(), id, 4, 5, &seed)
	if err != nil {
		t.Fatalf("RollPool returned error: %v", err)
	}
	if roll.SeedSource != random.SeedSourceClient || len(roll.Result.Dice) != 4 {
		t.Fatalf("roll = %+v", roll)
	}
}

func TestRollPoolErrors(t *testing.T) {
	svc := newTestService(t, Config{})
	if _, err := svc.RollPool(context.Background(), "missing", 4, 5, nil); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.RollPool(context.Background(), "", 0, 5, nil); !errors.Is(err, dice.ErrInvalidPoolSize) {
		t.Fatalf("err = %v, want ErrInvalidPoolSize", err)
	}
}

func TestListSessionsOrdered(t *testing.T) {
	clock := epoch
	svc := newTestService(t, Config{Now: func() time.Time { clock = clock.Add(time.Minute); return clock }})
	ctx := context.Background()
	a, _ := svc.CreateSession(ctx, gm, "first")
	b, _ := svc.CreateSession(ctx, gm, "second")

	got := svc.ListSessions(ctx)
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("sessions = %+v", got)
	}
}
