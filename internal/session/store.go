package session

import (
	"context"
	"database/sql"
	"database/sql/driver"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"panaudit/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump on schema changes; a
// mismatched database must be deleted and rebuilt from a fresh fetch.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrStoreLocked indicates another panaudit process holds the session store.
var ErrStoreLocked = errors.New("session store is locked by another process")

// Store persists audit sessions in SQLite. One process at a time: Open takes
// a file lock beside the database and holds it until Close.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open connects to the session database, applies the schema, and acquires
// the store lock.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.SessionDBPath()

	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !locked {
		return nil, ErrStoreLocked
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	if err := store.recoverInFlightSubmissions(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// recoverInFlightSubmissions demotes sessions persisted mid-submit back to
// active. The store lock serializes processes, so a durable submitting state
// can only come from a run that died before recording the submit outcome;
// its edits are kept and the submission can be retried.
func (s *Store) recoverInFlightSubmissions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE audit_sessions SET state = ?, updated_at = ? WHERE state = ?`,
		string(StateActive), time.Now().UTC().Format(time.RFC3339Nano), string(StateSubmitting),
	)
	if err != nil {
		return fmt.Errorf("recover in-flight submissions: %w", err)
	}
	return nil
}

// Close releases the database connection and the store lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// LoadScope returns the persisted session for a restaurant/date scope, or
// nil when none exists.
func (s *Store) LoadScope(ctx context.Context, restaurantID, date string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, restaurant_id, audit_date, state, audit_start_time, COALESCE(audit_end_time, '')
         FROM audit_sessions WHERE restaurant_id = ? AND audit_date = ?`,
		restaurantID, date,
	)

	ses := &Session{}
	var state string
	err := row.Scan(&ses.ID, &ses.RestaurantID, &ses.Date, &state, &ses.AuditStartTime, &ses.AuditEndTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	ses.State = State(state)

	rows, err := s.db.QueryContext(ctx,
		`SELECT scan_id, delete_flag, COALESCE(pan_id, ''), COALESCE(menu_item_id, ''), COALESCE(menu_item_name, '')
         FROM audit_actions WHERE session_id = ? ORDER BY position`,
		ses.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("load actions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var action Action
		var deleteFlag int
		if err := rows.Scan(&action.ScanID, &deleteFlag, &action.PanID, &action.MenuItemID, &action.MenuItemName); err != nil {
			return nil, fmt.Errorf("scan action row: %w", err)
		}
		action.Delete = deleteFlag != 0
		ses.Actions = append(ses.Actions, action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action rows: %w", err)
	}

	return ses, nil
}

// Save persists the session, replacing any previous session for the same
// scope. The whole write is transactional; the store lock already serializes
// writers, so replacing rows wholesale is safe.
func (s *Store) Save(ctx context.Context, ses *Session) error {
	if ses == nil {
		return errors.New("save nil session")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM audit_sessions WHERE restaurant_id = ? AND audit_date = ? AND id != ?`,
		ses.RestaurantID, ses.Date, ses.ID,
	); err != nil {
		return fmt.Errorf("clear superseded session: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO audit_sessions (id, restaurant_id, audit_date, state, audit_start_time, audit_end_time, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT (id) DO UPDATE SET
             state = excluded.state,
             audit_end_time = excluded.audit_end_time,
             updated_at = excluded.updated_at`,
		ses.ID, ses.RestaurantID, ses.Date, string(ses.State),
		ses.AuditStartTime, nullableString(ses.AuditEndTime), now, now,
	); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM audit_actions WHERE session_id = ?`, ses.ID); err != nil {
		return fmt.Errorf("clear actions: %w", err)
	}

	for position, action := range ses.Actions {
		deleteFlag := 0
		if action.Delete {
			deleteFlag = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO audit_actions (session_id, scan_id, position, delete_flag, pan_id, menu_item_id, menu_item_name)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ses.ID, action.ScanID, position, deleteFlag,
			nullableString(action.PanID), nullableString(action.MenuItemID), nullableString(action.MenuItemName),
		); err != nil {
			return fmt.Errorf("insert action %s: %w", action.ScanID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Delete removes a session and its actions.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM audit_sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func nullableString(value string) driver.Value {
	if value == "" {
		return nil
	}
	return value
}
