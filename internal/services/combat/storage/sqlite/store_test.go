package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/tracker"
	"github.com/louisbranch/phaseline/internal/services/combat/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestSaveGetSessionRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC)
	input := tracker.State{
		ID:     "s1",
		Name:   "Ambush at the docks",
		Status: tracker.StatusActive,
		Round:  3,
		Phase:  2,
		Cursor: 1,
		Combatants: []roster.Combatant{
			{ID: "c1", DisplayName: "Rook", ActorID: "a1", TokenID: "t1", Kind: roster.KindPC, OwnerIDs: []string{"p-1"}, InitiativeDice: 2, ReactionBonus: 5, RolledTotal: 17, ActionPhases: []int{17, 7}, HasRolled: true},
			{ID: "c2", DisplayName: "Goblin", ActorID: "a2", Kind: roster.KindNPC, InitiativeDice: 1},
		},
		CreatedAt: now,
		UpdatedAt: now.Add(time.Minute),
	}
	if err := store.SaveSession(context.Background(), input); err != nil {
		t.Fatalf("save session: %v", err)
	}

	got, err := store.GetSession(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if !got.CreatedAt.Equal(input.CreatedAt) || !got.UpdatedAt.Equal(input.UpdatedAt) {
		t.Fatalf("timestamps = %v/%v, want %v/%v", got.CreatedAt, got.UpdatedAt, input.CreatedAt, input.UpdatedAt)
	}
	got.CreatedAt, got.UpdatedAt = input.CreatedAt, input.UpdatedAt
	if !reflect.DeepEqual(got, input) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, input)
	}
}

func TestSaveSessionUpserts(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC)
	state := tracker.State{ID: "s1", Name: "First", Status: tracker.StatusSetup, Phase: 1, CreatedAt: now, UpdatedAt: now}
	if err := store.SaveSession(context.Background(), state); err != nil {
		t.Fatalf("save session: %v", err)
	}
	state.Name = "Renamed"
	state.Status = tracker.StatusActive
	state.Round = 1
	state.UpdatedAt = now.Add(time.Hour)
	if err := store.SaveSession(context.Background(), state); err != nil {
		t.Fatalf("save session again: %v", err)
	}

	got, err := store.GetSession(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.Name != "Renamed" || got.Status != tracker.StatusActive || !got.UpdatedAt.Equal(state.UpdatedAt) {
		t.Fatalf("upsert not applied: %+v", got)
	}
	if len(got.Combatants) != 0 {
		t.Fatalf("expected no combatants, got %+v", got.Combatants)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, err := store.GetSession(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListAndDeleteSessions(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"b", "a"} {
		state := tracker.State{ID: id, Name: id, Status: tracker.StatusSetup, Phase: 1, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := store.SaveSession(context.Background(), state); err != nil {
			t.Fatalf("save session %s: %v", id, err)
		}
	}

	list, err := store.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(list) != 2 || list[0].ID != "b" || list[1].ID != "a" {
		t.Fatalf("unexpected list order: %+v", list)
	}

	if err := store.DeleteSession(context.Background(), "b"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if err := store.DeleteSession(context.Background(), "b"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	list, _ = store.ListSessions(context.Background())
	if len(list) != 1 || list[0].ID != "a" {
		t.Fatalf("unexpected list after delete: %+v", list)
	}
}

func TestListSessionsSkipsCorruptSnapshot(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"good", "bad"} {
		state := tracker.State{ID: id, Name: id, Status: tracker.StatusSetup, Phase: 1, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := store.SaveSession(ctx, state); err != nil {
			t.Fatalf("save session %s: %v", id, err)
		}
	}
	if _, err := store.sqlDB.ExecContext(ctx, `UPDATE combat_sessions SET combatants_json = '{not json' WHERE id = ?`, "bad"); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	list, err := store.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(list) != 1 || list[0].ID != "good" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if _, err := store.GetSession(ctx, "bad"); !errors.Is(err, errCorruptSnapshot) {
		t.Fatalf("expected corrupt snapshot error, got %v", err)
	}
}

func TestReopenKeepsSessions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "combat.db")
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if err := store.SaveSession(context.Background(), tracker.State{ID: "s1", Name: "Kept", Status: tracker.StatusSetup, Phase: 1, CreatedAt: now}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	got, err := reopened.GetSession(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get session after reopen: %v", err)
	}
	if got.Name != "Kept" {
		t.Fatalf("name = %q, want Kept", got.Name)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "combat.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
