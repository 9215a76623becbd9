package announce

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/louisbranch/phaseline/internal/services/combat/domain/dice"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/tracker"
)

// KindPoolRolled marks announcements of skill-test pool rolls.
const KindPoolRolled = "pool_rolled"

// Announcement is one rendered message.
type Announcement struct {
	SessionID string         `json:"session_id,omitempty"`
	Kind      string         `json:"kind"`
	Text      string         `json:"text"`
	GMOnly    bool           `json:"gm_only,omitempty"`
	Event     *tracker.Event `json:"event,omitempty"`
}

// Sink delivers announcements somewhere.
type Sink interface {
	Publish(ctx context.Context, announcement Announcement) error
}

// Announcer renders events and hands them to every sink.
type Announcer struct {
	renderer *Renderer
	sinks    []Sink
}

// NewAnnouncer builds an announcer. A nil renderer renders in English.
func NewAnnouncer(renderer *Renderer, sinks ...Sink) *Announcer {
	if renderer == nil {
		renderer = NewRenderer("")
	}
	return &Announcer{renderer: renderer, sinks: sinks}
}

// Announce publishes events in order. Every sink sees every event even when
// another sink fails; failures are joined into the returned error.
func (a *Announcer) Announce(ctx context.Context, events []tracker.Event) error {
	var errs []error
	for i := range events {
		ev := events[i]
		errs = append(errs, a.publish(ctx, Announcement{
			SessionID: ev.SessionID,
			Kind:      string(ev.Kind),
			Text:      a.renderer.Event(ev),
			GMOnly:    ev.GMOnly,
			Event:     &ev,
		}))
	}
	return errors.Join(errs...)
}

// AnnouncePool publishes the summary of a pool roll.
func (a *Announcer) AnnouncePool(ctx context.Context, sessionID string, result dice.PoolResult) error {
	return a.publish(ctx, Announcement{
		SessionID: sessionID,
		Kind:      KindPoolRolled,
		Text:      a.renderer.Pool(result),
	})
}

func (a *Announcer) publish(ctx context.Context, announcement Announcement) error {
	var errs []error
	for _, sink := range a.sinks {
		if err := sink.Publish(ctx, announcement); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", announcement.Kind, err))
		}
	}
	return errors.Join(errs...)
}

// LogSink writes announcements to the standard logger.
type LogSink struct{}

// Publish logs the announcement text.
func (LogSink) Publish(_ context.Context, announcement Announcement) error {
	scope := "table"
	if announcement.GMOnly {
		scope = "gm"
	}
	if announcement.SessionID == "" {
		log.Printf("announce %s: %s", scope, announcement.Text)
		return nil
	}
	log.Printf("announce %s session=%s: %s", scope, announcement.SessionID, announcement.Text)
	return nil
}
