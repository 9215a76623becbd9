// Package storage defines persistence contracts for combat sessions.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/phaseline/internal/services/combat/domain/tracker"
)

// ErrNotFound indicates a requested session snapshot is missing.
var ErrNotFound = errors.New("record not found")

// SessionStore persists combat session snapshots.
type SessionStore interface {
	SaveSession(ctx context.Context, state tracker.State) error
	GetSession(ctx context.Context, id string) (tracker.State, error)
	ListSessions(ctx context.Context) ([]tracker.State, error)
	DeleteSession(ctx context.Context, id string) error
}
