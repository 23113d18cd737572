// Package storage provides the persistent snapshot time-series store.
// It records one row per (entity, timestamp) counter reading in sqlite
// and serves ordered series back to the trend analyzer, with rotation to
// keep the database bounded.
//
// Entities without recorded history are handled upstream: trend tools
// fall back to a synthetic series, so an empty result here is normal.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tubelens/tubelens/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS entities (
	id        TEXT PRIMARY KEY,
	title     TEXT NOT NULL DEFAULT '',
	last_seen INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshots (
	id        TEXT PRIMARY KEY,
	entity_id TEXT NOT NULL,
	views     INTEGER NOT NULL,
	likes     INTEGER NOT NULL,
	comments  INTEGER NOT NULL,
	ts        INTEGER NOT NULL,
	source    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_entity_ts ON snapshots(entity_id, ts);
`

// Storage is a sqlite-backed snapshot store
type Storage struct {
	db                    *sql.DB
	maxEntities           int
	maxSnapshotsPerEntity int
}

// New opens (or creates) the database at dbPath and ensures the schema.
// Pass ":memory:" for an ephemeral store in tests.
func New(maxEntities, maxSnapshotsPerEntity int, dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows a single writer; serializing through one connection
	// also keeps ":memory:" databases coherent across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Storage{
		db:                    db,
		maxEntities:           maxEntities,
		maxSnapshotsPerEntity: maxSnapshotsPerEntity,
	}, nil
}

// Close closes the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}

// TrackEntity registers an entity (or refreshes its last-seen time).
// Snapshots may only be added for tracked entities.
func (s *Storage) TrackEntity(id, title string, seenAt time.Time) error {
	if id == "" {
		return fmt.Errorf("entity ID must not be empty")
	}
	_, err := s.db.Exec(`
		INSERT INTO entities (id, title, last_seen) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, last_seen = excluded.last_seen`,
		id, title, seenAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to track entity %s: %w", id, err)
	}
	return nil
}

// TrackedEntities returns the IDs of all tracked entities.
func (s *Storage) TrackedEntities() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM entities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddSnapshot appends a snapshot for a tracked entity
func (s *Storage) AddSnapshot(snapshot *models.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	var exists int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM entities WHERE id = ?`, snapshot.EntityID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check entity %s: %w", snapshot.EntityID, err)
	}
	if exists == 0 {
		return fmt.Errorf("entity not tracked: %s", snapshot.EntityID)
	}

	_, err = s.db.Exec(`
		INSERT INTO snapshots (id, entity_id, views, likes, comments, ts, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snapshot.ID, snapshot.EntityID,
		int64(snapshot.Views), int64(snapshot.Likes), int64(snapshot.Comments),
		snapshot.Timestamp.UnixNano(), snapshot.Source)
	if err != nil {
		return fmt.Errorf("failed to add snapshot for %s: %w", snapshot.EntityID, err)
	}
	return nil
}

// GetSnapshots retrieves all snapshots for an entity, earliest first.
// An unknown entity yields an empty slice, not an error.
func (s *Storage) GetSnapshots(entityID string) ([]models.Snapshot, error) {
	return s.querySnapshots(`
		SELECT id, entity_id, views, likes, comments, ts, source
		FROM snapshots WHERE entity_id = ? ORDER BY ts ASC`, entityID)
}

// GetSnapshotsInWindow retrieves the entity's snapshots no older than
// window, earliest first.
func (s *Storage) GetSnapshotsInWindow(entityID string, window time.Duration) ([]models.Snapshot, error) {
	cutoff := time.Now().Add(-window).UnixNano()
	return s.querySnapshots(`
		SELECT id, entity_id, views, likes, comments, ts, source
		FROM snapshots WHERE entity_id = ? AND ts >= ? ORDER BY ts ASC`, entityID, cutoff)
}

func (s *Storage) querySnapshots(query string, args ...interface{}) ([]models.Snapshot, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []models.Snapshot{}
	for rows.Next() {
		var snap models.Snapshot
		var views, likes, comments, ts int64
		if err := rows.Scan(&snap.ID, &snap.EntityID, &views, &likes, &comments, &ts, &snap.Source); err != nil {
			return nil, err
		}
		snap.Views = uint64(views)
		snap.Likes = uint64(likes)
		snap.Comments = uint64(comments)
		snap.Timestamp = time.Unix(0, ts)
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// RotateSnapshots removes each entity's oldest snapshots beyond the
// per-entity maximum.
func (s *Storage) RotateSnapshots() error {
	_, err := s.db.Exec(`
		DELETE FROM snapshots WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY entity_id ORDER BY ts DESC
				) AS rn FROM snapshots
			) WHERE rn > ?
		)`, s.maxSnapshotsPerEntity)
	if err != nil {
		return fmt.Errorf("failed to rotate snapshots: %w", err)
	}
	return nil
}

// RotateEntities removes the least recently seen entities beyond the
// maximum, along with their snapshots.
func (s *Storage) RotateEntities() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM snapshots WHERE entity_id IN (
			SELECT id FROM entities ORDER BY last_seen DESC LIMIT -1 OFFSET ?
		)`, s.maxEntities)
	if err != nil {
		return fmt.Errorf("failed to rotate entity snapshots: %w", err)
	}

	_, err = tx.Exec(`
		DELETE FROM entities WHERE id IN (
			SELECT id FROM entities ORDER BY last_seen DESC LIMIT -1 OFFSET ?
		)`, s.maxEntities)
	if err != nil {
		return fmt.Errorf("failed to rotate entities: %w", err)
	}

	return tx.Commit()
}
