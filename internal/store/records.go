package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetRecord returns the raw cached payload for artistID.
func (s *Store) GetRecord(ctx context.Context, artistID uint32) ([]byte, bool, error) {
	ctx = ensureContext(ctx)
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM artist_records WHERE artist_id = ?", int64(artistID)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read artist record %d: %w", artistID, err)
	}
	return []byte(payload), true, nil
}

// PutRecord stores payload for artistID, overwriting any previous entry.
func (s *Store) PutRecord(ctx context.Context, artistID uint32, payload []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := s.execWithRetry(ctx,
		`INSERT INTO artist_records (artist_id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(artist_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		int64(artistID), string(payload), now)
	if err != nil {
		return fmt.Errorf("write artist record %d: %w", artistID, err)
	}
	return nil
}

// CountRecords returns how many artist records are cached.
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM artist_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("count artist records: %w", err)
	}
	return n, nil
}

// DeleteRecords removes every cached artist record.
func (s *Store) DeleteRecords(ctx context.Context) error {
	if err := s.execWithRetry(ctx, "DELETE FROM artist_records"); err != nil {
		return fmt.Errorf("delete artist records: %w", err)
	}
	return nil
}
