// Package sqlite provides a SQLite-backed combat session store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/phaseline/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/tracker"
	"github.com/louisbranch/phaseline/internal/services/combat/storage"
	"github.com/louisbranch/phaseline/internal/services/combat/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// errCorruptSnapshot marks a row whose roster payload cannot be decoded.
var errCorruptSnapshot = errors.New("corrupt session snapshot")

// Store persists combat sessions in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite session store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveSession inserts or replaces one session snapshot.
func (s *Store) SaveSession(ctx context.Context, state tracker.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(state.ID)
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	combatants := state.Combatants
	if combatants == nil {
		combatants = []roster.Combatant{}
	}
	payload, err := json.Marshal(combatants)
	if err != nil {
		return fmt.Errorf("encode combatants: %w", err)
	}
	createdAt := state.CreatedAt.UTC()
	updatedAt := state.UpdatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO combat_sessions (
		   id, name, status, round, phase, cursor, combatants_json, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   status = excluded.status,
		   round = excluded.round,
		   phase = excluded.phase,
		   cursor = excluded.cursor,
		   combatants_json = excluded.combatants_json,
		   updated_at = excluded.updated_at`,
		id,
		state.Name,
		string(state.Status),
		state.Round,
		state.Phase,
		state.Cursor,
		string(payload),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isBusy(err) {
			return fmt.Errorf("save session %s: database busy: %w", id, err)
		}
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

// GetSession returns one session snapshot by id.
func (s *Store) GetSession(ctx context.Context, id string) (tracker.State, error) {
	if err := ctx.Err(); err != nil {
		return tracker.State{}, err
	}
	if s == nil || s.sqlDB == nil {
		return tracker.State{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return tracker.State{}, fmt.Errorf("session id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, selectSessions+` WHERE id = ?`, id)
	state, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return tracker.State{}, storage.ErrNotFound
	}
	if err != nil {
		return tracker.State{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return state, nil
}

// ListSessions returns every session snapshot, oldest first.
func (s *Store) ListSessions(ctx context.Context) ([]tracker.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, selectSessions+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []tracker.State
	for rows.Next() {
		state, err := scanSession(rows)
		if errors.Is(err, errCorruptSnapshot) {
			log.Printf("sqlite: skip session: %v", err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// DeleteSession removes one session snapshot.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("session id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM combat_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const selectSessions = `SELECT id, name, status, round, phase, cursor, combatants_json, created_at, updated_at FROM combat_sessions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (tracker.State, error) {
	var (
		state     tracker.State
		status    string
		payload   string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(
		&state.ID,
		&state.Name,
		&status,
		&state.Round,
		&state.Phase,
		&state.Cursor,
		&payload,
		&createdAt,
		&updatedAt,
	); err != nil {
		return tracker.State{}, err
	}
	if err := json.Unmarshal([]byte(payload), &state.Combatants); err != nil {
		return tracker.State{}, fmt.Errorf("%w %s: %w", errCorruptSnapshot, state.ID, err)
	}
	state.Status = tracker.Status(status)
	state.CreatedAt = fromMillis(createdAt)
	state.UpdatedAt = fromMillis(updatedAt)
	return state, nil
}

func isBusy(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
			return true
		}
	}
	return false
}
