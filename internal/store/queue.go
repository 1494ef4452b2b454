package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// QueueRow is one persisted queue entry as read from disk. Values are
// returned unvalidated; callers decide what counts as malformed.
type QueueRow struct {
	Position int64
	ArtistID int64
	Reviewed int64
}

// LoadQueue returns the persisted queue ordered by position. built is false
// when no queue has ever been written.
func (s *Store) LoadQueue(ctx context.Context) (rows []QueueRow, built bool, err error) {
	ctx = ensureContext(ctx)
	var marker int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM queue_state WHERE id = 1").Scan(&marker)
	if err != nil {
		return nil, false, fmt.Errorf("read queue state: %w", err)
	}
	if marker == 0 {
		return nil, false, nil
	}

	result, err := s.db.QueryContext(ctx,
		"SELECT position, artist_id, reviewed FROM queue_entries ORDER BY position")
	if err != nil {
		return nil, true, fmt.Errorf("query queue entries: %w", err)
	}
	defer result.Close()

	for result.Next() {
		var row QueueRow
		if err := result.Scan(&row.Position, &row.ArtistID, &row.Reviewed); err != nil {
			return nil, true, fmt.Errorf("scan queue entry: %w", err)
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, true, fmt.Errorf("iterate queue entries: %w", err)
	}
	return rows, true, nil
}

// SaveQueue replaces the persisted queue with rows. Positions are assigned
// from slice order.
func (s *Store) SaveQueue(ctx context.Context, rows []QueueRow) error {
	ctx = ensureContext(ctx)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM queue_entries"); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO queue_entries (position, artist_id, reviewed) VALUES (?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, row := range rows {
			if _, err := stmt.ExecContext(ctx, i, row.ArtistID, row.Reviewed); err != nil {
				return err
			}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO queue_state (id, built_at) VALUES (1, ?)
			 ON CONFLICT(id) DO UPDATE SET built_at = excluded.built_at`, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("save queue: %w", err)
	}
	return nil
}

// QueueBuiltAt reports when the current queue was last rebuilt.
func (s *Store) QueueBuiltAt(ctx context.Context) (time.Time, bool, error) {
	ctx = ensureContext(ctx)
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT built_at FROM queue_state WHERE id = 1").Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read queue state: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("parse queue timestamp: %w", err)
	}
	return ts, true, nil
}
