// Package actors keeps the actor records and token selections the combat
// service reads when building combatants.
package actors

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
)

// ErrActorIDRequired indicates a missing actor id.
var ErrActorIDRequired = errors.New("actor id is required")

// Actor is a character record as the combat service sees it.
type Actor struct {
	ID       string
	Name     string
	ImageRef string
	// Reaction is nil when the record has no reaction attribute.
	Reaction *int
	Bonuses  []roster.Bonus
	// OwnerIDs are the non-GM participants controlling the actor. An actor
	// without owners is an NPC.
	OwnerIDs []string
}

// Catalog is an in-memory actor and selection source.
type Catalog struct {
	mu         sync.RWMutex
	actors     map[string]Actor
	selections map[string][]roster.Ref
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		actors:     make(map[string]Actor),
		selections: make(map[string][]roster.Ref),
	}
}

// Put stores or replaces an actor.
func (c *Catalog) Put(actor Actor) error {
	actor.ID = strings.TrimSpace(actor.ID)
	if actor.ID == "" {
		return ErrActorIDRequired
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actors[actor.ID] = cloneActor(actor)
	return nil
}

// Delete removes an actor and reports whether it existed.
func (c *Catalog) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.actors[id]
	delete(c.actors, id)
	return ok
}

// List returns every actor sorted by id.
func (c *Catalog) List() []Actor {
	c.mu.RLock()
	out := make([]Actor, 0, len(c.actors))
	for _, actor := range c.actors {
		out = append(out, cloneActor(actor))
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Actor returns the data the roster needs for actorID.
func (c *Catalog) Actor(ctx context.Context, actorID string) (roster.ActorData, bool, error) {
	if err := ctx.Err(); err != nil {
		return roster.ActorData{}, false, err
	}
	c.mu.RLock()
	actor, ok := c.actors[actorID]
	c.mu.RUnlock()
	if !ok {
		return roster.ActorData{}, false, nil
	}
	data := roster.ActorData{
		Name:     actor.Name,
		ImageRef: actor.ImageRef,
		Bonuses:  slices.Clone(actor.Bonuses),
	}
	if actor.Reaction != nil {
		reaction := *actor.Reaction
		data.Reaction = &reaction
	}
	return data, true, nil
}

// Ownership classifies actorID. Unknown actors have no owners and so count
// as NPCs.
func (c *Catalog) Ownership(ctx context.Context, actorID string) (roster.Ownership, error) {
	if err := ctx.Err(); err != nil {
		return roster.Ownership{}, err
	}
	c.mu.RLock()
	actor := c.actors[actorID]
	c.mu.RUnlock()
	return roster.Ownership{
		NPC:      len(actor.OwnerIDs) == 0,
		OwnerIDs: slices.Clone(actor.OwnerIDs),
	}, nil
}

// SetSelection records the tokens a participant has selected.
func (c *Catalog) SetSelection(participantID string, refs []roster.Ref) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(refs) == 0 {
		delete(c.selections, participantID)
		return
	}
	c.selections[participantID] = slices.Clone(refs)
}

// Selection returns the tokens participantID has selected.
func (c *Catalog) Selection(ctx context.Context, participantID string) ([]roster.Ref, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.selections[participantID]), nil
}

func cloneActor(actor Actor) Actor {
	actor.Bonuses = slices.Clone(actor.Bonuses)
	actor.OwnerIDs = slices.Clone(actor.OwnerIDs)
	if actor.Reaction != nil {
		reaction := *actor.Reaction
		actor.Reaction = &reaction
	}
	return actor
}
