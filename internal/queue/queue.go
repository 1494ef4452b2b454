package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"par/internal/logging"
	"par/internal/services"
	"par/internal/store"
)

// ErrAbsent reports that no queue has been built yet.
var ErrAbsent = errors.New("queue absent")

// Entry is one artist in review order.
type Entry struct {
	ArtistID uint32
	Reviewed bool
}

// Queue is the in-memory view of the persisted review list.
type Queue struct {
	store   *store.Store
	entries []Entry
	logger  *slog.Logger
}

// Load reads the persisted queue. It returns ErrAbsent when none exists and
// an error wrapping services.ErrStoreCorrupt when the rows are unreadable or
// malformed: position gaps, ids outside 1..MaxUint32, repeated ids, or flags
// other than 0 and 1. Flags that break the leading-reviewed-run shape are
// accepted; the next watermark reset or forward visit repairs them.
func Load(ctx context.Context, st *store.Store, logger *slog.Logger) (*Queue, error) {
	logger = logging.NewComponentLogger(logger, "queue")
	rows, built, err := st.LoadQueue(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrStoreCorrupt, "queue", "load", "read rows", err)
	}
	if !built {
		return nil, ErrAbsent
	}
	entries, err := decodeRows(rows)
	if err != nil {
		return nil, services.Wrap(services.ErrStoreCorrupt, "queue", "load", "decode rows", err)
	}
	logger.Debug("queue loaded", logging.Int(logging.FieldQueueTotal, len(entries)))
	return &Queue{store: st, entries: entries, logger: logger}, nil
}

// ErrInvalidID reports an artist id of 0 in a list meant to become the queue.
var ErrInvalidID = errors.New("artist id 0 in list")

// CleanIDs returns ids with repeats dropped, keeping the first occurrence.
// A zero id fails with ErrInvalidID since Load would reject it later.
func CleanIDs(ids []uint32) ([]uint32, error) {
	seen := make(map[uint32]struct{}, len(ids))
	out := make([]uint32, 0, len(ids))
	for i, id := range ids {
		if id == 0 {
			return nil, fmt.Errorf("%w at position %d", ErrInvalidID, i)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// Replace persists ids as a new queue with every entry unreviewed. Repeated
// ids are dropped; a zero id is rejected with services.ErrValidation and
// nothing is written.
func Replace(ctx context.Context, st *store.Store, ids []uint32, logger *slog.Logger) (*Queue, error) {
	logger = logging.NewComponentLogger(logger, "queue")
	cleaned, err := CleanIDs(ids)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "queue", "replace", "", err)
	}
	if dropped := len(ids) - len(cleaned); dropped > 0 {
		logging.WarnWithContext(logger, "duplicate artist ids dropped", "queue_duplicates",
			logging.Int("dropped", dropped),
			logging.String(logging.FieldImpact, "each artist appears once in the queue"),
		)
	}
	ids = cleaned
	entries := make([]Entry, len(ids))
	for i, id := range ids {
		entries[i] = Entry{ArtistID: id}
	}
	q := &Queue{store: st, logger: logger}
	if err := q.persist(ctx, entries); err != nil {
		return nil, services.Wrap(services.ErrPersistFailed, "queue", "replace", "", err)
	}
	q.entries = entries
	logger.Info("queue rebuilt", logging.Int(logging.FieldQueueTotal, len(entries)))
	return q, nil
}

func decodeRows(rows []store.QueueRow) ([]Entry, error) {
	entries := make([]Entry, len(rows))
	seen := make(map[int64]int, len(rows))
	for i, row := range rows {
		if row.Position != int64(i) {
			return nil, fmt.Errorf("position %d found where %d expected", row.Position, i)
		}
		if row.ArtistID <= 0 || row.ArtistID > math.MaxUint32 {
			return nil, fmt.Errorf("artist id %d at position %d out of range", row.ArtistID, i)
		}
		if first, dup := seen[row.ArtistID]; dup {
			return nil, fmt.Errorf("artist id %d at positions %d and %d", row.ArtistID, first, i)
		}
		seen[row.ArtistID] = i
		switch row.Reviewed {
		case 0, 1:
		default:
			return nil, fmt.Errorf("reviewed flag %d at position %d", row.Reviewed, i)
		}
		entries[i] = Entry{ArtistID: uint32(row.ArtistID), Reviewed: row.Reviewed == 1}
	}
	return entries, nil
}

func (q *Queue) persist(ctx context.Context, entries []Entry) error {
	rows := make([]store.QueueRow, len(entries))
	for i, e := range entries {
		rows[i] = store.QueueRow{Position: int64(i), ArtistID: int64(e.ArtistID)}
		if e.Reviewed {
			rows[i].Reviewed = 1
		}
	}
	return q.store.SaveQueue(ctx, rows)
}

// Len returns the number of entries.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.entries)
}

// Entries returns a copy of the queue in order.
func (q *Queue) Entries() []Entry {
	if q == nil {
		return nil
	}
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// EntryAt returns the entry at index with the queue length.
func (q *Queue) EntryAt(index int) (Entry, int, error) {
	total := q.Len()
	if index < 0 || index >= total {
		return Entry{}, total, services.Wrap(services.ErrOutOfRange, "queue", "entry",
			fmt.Sprintf("index %d of %d", index, total), nil)
	}
	return q.entries[index], total, nil
}

// IndexOf returns the first position holding artistID, or -1.
func (q *Queue) IndexOf(artistID uint32) int {
	if q == nil {
		return -1
	}
	for i, e := range q.entries {
		if e.ArtistID == artistID {
			return i
		}
	}
	return -1
}

// MarkReviewed flags the entry at index as reviewed. Marking an already
// reviewed entry is a no-op and performs no write.
func (q *Queue) MarkReviewed(ctx context.Context, index int) error {
	entry, _, err := q.EntryAt(index)
	if err != nil {
		return err
	}
	if entry.Reviewed {
		return nil
	}
	next := q.Entries()
	next[index].Reviewed = true
	if err := q.persist(ctx, next); err != nil {
		return services.Wrap(services.ErrPersistFailed, "queue", "mark reviewed",
			fmt.Sprintf("index %d", index), err)
	}
	q.entries = next
	q.logger.Debug("marked reviewed",
		logging.Int(logging.FieldQueueIndex, index),
		logging.Uint64(logging.FieldArtistID, uint64(entry.ArtistID)),
	)
	return nil
}

// ResetWatermarkTo marks every entry before index reviewed and every entry
// from index on unreviewed, regardless of prior flags. index may equal Len,
// which marks everything reviewed.
func (q *Queue) ResetWatermarkTo(ctx context.Context, index int) error {
	total := q.Len()
	if index < 0 || index > total {
		return services.Wrap(services.ErrOutOfRange, "queue", "reset watermark",
			fmt.Sprintf("index %d of %d", index, total), nil)
	}
	next := q.Entries()
	for i := range next {
		next[i].Reviewed = i < index
	}
	if err := q.persist(ctx, next); err != nil {
		return services.Wrap(services.ErrPersistFailed, "queue", "reset watermark",
			fmt.Sprintf("index %d", index), err)
	}
	q.entries = next
	q.logger.Info("watermark reset",
		logging.Int(logging.FieldQueueIndex, index),
		logging.Int(logging.FieldQueueTotal, total),
	)
	return nil
}

// Counts returns how many entries are reviewed and how many remain.
func (q *Queue) Counts() (reviewed, remaining int) {
	if q == nil {
		return 0, 0
	}
	for _, e := range q.entries {
		if e.Reviewed {
			reviewed++
		}
	}
	return reviewed, len(q.entries) - reviewed
}

// Watermark returns LocateWatermark(q).
func (q *Queue) Watermark() int {
	return LocateWatermark(q)
}

// LocateWatermark returns the index right after the leading run of reviewed
// entries. When every entry is reviewed it returns the last index so the
// caller lands on a valid entry. A nil or empty queue yields 0.
func LocateWatermark(q *Queue) int {
	if q == nil || len(q.entries) == 0 {
		return 0
	}
	for i, e := range q.entries {
		if !e.Reviewed {
			return i
		}
	}
	return len(q.entries) - 1
}

// HoldsInvariant reports whether the reviewed flags form a single leading
// reviewed run followed only by unreviewed entries.
func (q *Queue) HoldsInvariant() bool {
	if q == nil {
		return true
	}
	seenUnreviewed := false
	for _, e := range q.entries {
		if !e.Reviewed {
			seenUnreviewed = true
			continue
		}
		if seenUnreviewed {
			return false
		}
	}
	return true
}
