package actors

import (
	"context"
	"errors"
	"testing"

	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
)

func TestPutAndActor(t *testing.T) {
	c := New()
	reaction := 5
	if err := c.Put(Actor{ID: "rook", Name: "Rook", Reaction: &reaction, Bonuses: []roster.Bonus{{InitiativeDice: 1}}, OwnerIDs: []string{"p-1"}}); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	reaction = 9

	data, ok, err := c.Actor(context.Background(), "rook")
	if err != nil || !ok {
		t.Fatalf("Actor = %v, %v", ok, err)
	}
	if data.Name != "Rook" || data.Reaction == nil || *data.Reaction != 5 || len(data.Bonuses) != 1 {
		t.Fatalf("unexpected actor data %+v", data)
	}

	own, err := c.Ownership(context.Background(), "rook")
	if err != nil {
		t.Fatalf("Ownership returned error: %v", err)
	}
	if own.NPC || len(own.OwnerIDs) != 1 {
		t.Fatalf("unexpected ownership %+v", own)
	}
}

func TestUnknownActorIsNPC(t *testing.T) {
	c := New()
	if _, ok, err := c.Actor(context.Background(), "ghost"); ok || err != nil {
		t.Fatalf("Actor = %v, %v, want not found", ok, err)
	}
	own, err := c.Ownership(context.Background(), "ghost")
	if err != nil || !own.NPC {
		t.Fatalf("Ownership = %+v, %v, want NPC", own, err)
	}
}

func TestPutRequiresID(t *testing.T) {
	if err := New().Put(Actor{Name: "nameless"}); !errors.Is(err, ErrActorIDRequired) {
		t.Fatalf("Put error = %v, want %v", err, ErrActorIDRequired)
	}
}

func TestSelection(t *testing.T) {
	c := New()
	c.SetSelection("p-1", []roster.Ref{{ActorID: "rook", TokenID: "t1"}})

	refs, err := c.Selection(context.Background(), "p-1")
	if err != nil || len(refs) != 1 || refs[0].TokenID != "t1" {
		t.Fatalf("Selection = %+v, %v", refs, err)
	}
	c.SetSelection("p-1", nil)
	if refs, _ := c.Selection(context.Background(), "p-1"); len(refs) != 0 {
		t.Fatalf("expected cleared selection, got %+v", refs)
	}
}

func TestListAndDelete(t *testing.T) {
	c := New()
	for _, id := range []string{"b", "a"} {
		if err := c.Put(Actor{ID: id}); err != nil {
			t.Fatalf("Put returned error: %v", err)
		}
	}
	list := c.List()
	if len(list) != 2 || list[0].ID != "a" {
		t.Fatalf("unexpected list %+v", list)
	}
	if !c.Delete("a") || c.Delete("a") {
		t.Fatal("unexpected delete results")
	}
}
