package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SettingsRow mirrors the single persisted settings row.
type SettingsRow struct {
	CredentialToken string
	SearchDepth     int
	Timezone        string
}

// LoadSettings returns the committed settings. found is false when nothing
// has been saved yet.
func (s *Store) LoadSettings(ctx context.Context) (SettingsRow, bool, error) {
	ctx = ensureContext(ctx)
	var row SettingsRow
	err := s.db.QueryRowContext(ctx,
		"SELECT credential_token, search_depth, timezone FROM settings WHERE id = 1",
	).Scan(&row.CredentialToken, &row.SearchDepth, &row.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return SettingsRow{}, false, nil
	}
	if err != nil {
		return SettingsRow{}, false, fmt.Errorf("read settings: %w", err)
	}
	return row, true, nil
}

// SaveSettings writes row as the committed settings.
func (s *Store) SaveSettings(ctx context.Context, row SettingsRow) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := s.execWithRetry(ctx,
		`INSERT INTO settings (id, credential_token, search_depth, timezone, updated_at)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   credential_token = excluded.credential_token,
		   search_depth = excluded.search_depth,
		   timezone = excluded.timezone,
		   updated_at = excluded.updated_at`,
		row.CredentialToken, row.SearchDepth, row.Timezone, now)
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
