package testsupport

import (
	"context"
	"database/sql"
	"testing"

	"par/internal/config"
	"par/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedQueue persists ids as the queue, marking the first reviewed entries
// as already reviewed.
func SeedQueue(t testing.TB, st *store.Store, ids []uint32, reviewed int) {
	t.Helper()

	rows := make([]store.QueueRow, len(ids))
	for i, id := range ids {
		rows[i] = store.QueueRow{ArtistID: int64(id)}
		if i < reviewed {
			rows[i].Reviewed = 1
		}
	}
	if err := st.SaveQueue(context.Background(), rows); err != nil {
		t.Fatalf("SaveQueue: %v", err)
	}
}

// ExecRaw runs query against the store's database file through a separate
// connection. Tests use it to plant rows the store itself would never write.
func ExecRaw(t testing.TB, st *store.Store, query string, args ...any) {
	t.Helper()

	db, err := sql.Open("sqlite", st.Path())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		t.Fatalf("busy timeout: %v", err)
	}
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
