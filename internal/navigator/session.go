package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"par/internal/artist"
	"par/internal/artistcache"
	"par/internal/logging"
	"par/internal/queue"
	"par/internal/remote"
	"par/internal/services"
	"par/internal/settings"
	"par/internal/store"
)

// Session is the state of one review session. It is not safe for
// concurrent use.
type Session struct {
	store    *store.Store
	provider remote.Provider
	settings *settings.Reconciler
	cache    *artistcache.Cache
	logger   *slog.Logger

	queue    *queue.Queue
	queueErr error

	current      int
	initRequired bool
	hasRecord    bool
	record       artist.Record
	title        string
	images       artist.Images
	jumpTarget   int
}

// New assembles a session. Call Initialize before navigating.
func New(st *store.Store, provider remote.Provider, reconciler *settings.Reconciler, cache *artistcache.Cache, logger *slog.Logger) *Session {
	return &Session{
		store:    st,
		provider: provider,
		settings: reconciler,
		cache:    cache,
		logger:   logging.NewComponentLogger(logger, "navigator"),
		queueErr: services.Wrap(services.ErrNotInitialized, "navigator", "navigate", "session not initialized", nil),
	}
}

// Initialize checks the committed credential, loads the queue, and shows the
// first unreviewed entry. Without a valid credential the session stays empty
// and InitializationRequired is set. An absent queue is built from scratch.
func (s *Session) Initialize(ctx context.Context) error {
	s.clearView()
	if !s.settings.CredentialValid(ctx) {
		s.initRequired = true
		s.logger.Info("credential missing or invalid; waiting for settings")
		return nil
	}
	s.initRequired = false

	q, err := queue.Load(ctx, s.store, s.logger)
	switch {
	case errors.Is(err, queue.ErrAbsent):
		s.logger.Info("no queue found; building from provider")
		return s.FullReset(ctx)
	case err != nil:
		s.queue = nil
		s.queueErr = err
		logging.ErrorWithContext(s.logger, "queue unreadable", "queue_corrupt",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run 'par reset' to rebuild the queue"),
		)
		return err
	}
	s.queue = q
	s.queueErr = nil
	return s.ChangeArtist(ctx, queue.LocateWatermark(q), false)
}

// ChangeArtist displays the entry at index, marking it reviewed. It is a
// no-op when the session needs a credential or index is out of range.
// The record is fetched before anything is marked, and the cursor moves
// only once the entry is on display, so a failed fetch leaves flags and
// cursor as they were.
func (s *Session) ChangeArtist(ctx context.Context, index int, forceRefresh bool) error {
	if s.initRequired {
		return nil
	}
	if s.queue == nil {
		return s.queueErr
	}
	entry, total, err := s.queue.EntryAt(index)
	if errors.Is(err, services.ErrOutOfRange) {
		s.logger.Debug("navigation past queue boundary",
			logging.Int(logging.FieldQueueIndex, index),
			logging.Int(logging.FieldQueueTotal, total),
		)
		return nil
	}
	if err != nil {
		return err
	}

	rec, err := s.cache.GetOrFetch(ctx, entry.ArtistID, forceRefresh, s.settings.Committed())
	if err != nil {
		return err
	}
	if !entry.Reviewed {
		if err := s.queue.MarkReviewed(ctx, index); err != nil {
			return err
		}
	}
	s.show(index, total, rec)
	return nil
}

// Advance moves one entry forward (delta 1) or back (delta -1). With
// nothing on display, after a failed fetch, it lands on the watermark
// instead so no entry past an unreviewed one gets marked.
func (s *Session) Advance(ctx context.Context, delta int) error {
	if delta != 1 && delta != -1 {
		return services.Wrap(services.ErrValidation, "navigator", "advance",
			fmt.Sprintf("delta %d must be 1 or -1", delta), nil)
	}
	if !s.hasRecord {
		return s.ChangeArtist(ctx, s.resumeIndex(), false)
	}
	target := s.current + delta
	if target < 0 {
		return nil
	}
	return s.ChangeArtist(ctx, target, false)
}

// Jump moves to the 1-based position target. Entries before it become
// reviewed, entries after it unreviewed, and target itself is shown and
// marked reviewed. Jumping to the current entry changes nothing.
func (s *Session) Jump(ctx context.Context, target int) error {
	if s.initRequired {
		return nil
	}
	if s.queue == nil {
		return s.queueErr
	}
	total := s.queue.Len()
	if target < 1 || target > total {
		return services.Wrap(services.ErrValidation, "navigator", "jump",
			fmt.Sprintf("target %d outside 1..%d", target, total), nil)
	}
	index := target - 1
	if s.hasRecord && index == s.current {
		s.jumpTarget = 0
		return nil
	}

	entry, _, err := s.queue.EntryAt(index)
	if err != nil {
		return err
	}
	rec, err := s.cache.GetOrFetch(ctx, entry.ArtistID, false, s.settings.Committed())
	if err != nil {
		return err
	}
	// One write covers both the watermark reset and the visit of index.
	if err := s.queue.ResetWatermarkTo(ctx, index+1); err != nil {
		return err
	}
	s.jumpTarget = 0
	s.show(index, total, rec)
	s.logger.Info("jumped",
		logging.Int(logging.FieldQueueIndex, index),
		logging.Int(logging.FieldQueueTotal, total),
	)
	return nil
}

// ReloadCurrent refetches the entry on display, or the watermark entry
// when nothing is on display.
func (s *Session) ReloadCurrent(ctx context.Context) error {
	if !s.hasRecord {
		return s.ChangeArtist(ctx, s.resumeIndex(), true)
	}
	return s.ChangeArtist(ctx, s.current, true)
}

// resumeIndex is where navigation restarts when no record is on display.
func (s *Session) resumeIndex() int {
	return queue.LocateWatermark(s.queue)
}

// FullReset replaces the queue with a fresh list from the provider, drops
// every cached record and image, and shows the first entry. The old queue
// and cache survive a failed list fetch.
func (s *Session) FullReset(ctx context.Context) error {
	if s.initRequired {
		return services.Wrap(services.ErrNotInitialized, "navigator", "full reset", "credential required", nil)
	}
	token := s.settings.Committed().CredentialToken
	ids, err := s.provider.FetchArtistList(ctx, token)
	if err != nil {
		return err
	}
	if _, err := queue.CleanIDs(ids); err != nil {
		return services.Wrap(services.ErrFetchFailed, "navigator", "full reset", "artist list", err)
	}
	if err := s.cache.Purge(ctx); err != nil {
		return err
	}
	q, err := queue.Replace(ctx, s.store, ids, s.logger)
	if err != nil {
		s.queue = nil
		s.queueErr = err
		return err
	}
	s.queue = q
	s.queueErr = nil
	s.jumpTarget = 0
	s.clearView()
	s.logger.Info("queue reset", logging.Int(logging.FieldQueueTotal, q.Len()))
	return s.ChangeArtist(ctx, 0, false)
}

// ToggleBookmark flips the bookmark on the illustration in slot.
// Empty slots and sessions with nothing on display are left alone.
// Once the provider accepts the toggle the displayed record is flipped even
// if saving it to the cache fails; that failure is returned wrapping
// services.ErrPersistFailed and the remote change stands.
func (s *Session) ToggleBookmark(ctx context.Context, slot int) error {
	if slot < 0 || slot >= artist.SlotCount {
		return services.Wrap(services.ErrValidation, "navigator", "toggle bookmark",
			fmt.Sprintf("slot %d outside 0..%d", slot, artist.SlotCount-1), nil)
	}
	if s.initRequired || !s.hasRecord {
		return nil
	}
	illust := s.record.RecentIllustrations[slot]
	if illust.Empty() {
		return nil
	}
	token := s.settings.Committed().CredentialToken
	if err := s.provider.ToggleBookmark(ctx, token, illust.ID, illust.IsBookmarked); err != nil {
		return err
	}
	s.record.RecentIllustrations[slot].IsBookmarked = !illust.IsBookmarked
	return s.cache.Update(ctx, s.record)
}

// ToggleFollow flips the follow on the artist on display. A cache write
// failure after the provider accepted the toggle is reported the same way
// as in ToggleBookmark.
func (s *Session) ToggleFollow(ctx context.Context) error {
	if s.initRequired || !s.hasRecord {
		return nil
	}
	summary := s.record.Summary
	token := s.settings.Committed().CredentialToken
	if err := s.provider.ToggleFollow(ctx, token, summary.ID, summary.IsFollowed); err != nil {
		return err
	}
	s.record.Summary.IsFollowed = !summary.IsFollowed
	return s.cache.Update(ctx, s.record)
}

// ApplySettings commits draft. An accepted credential clears
// InitializationRequired and triggers FullReset; the reset error, if any,
// is returned alongside the commit result.
func (s *Session) ApplySettings(ctx context.Context, draft settings.Draft) (settings.Result, error) {
	res, err := s.settings.Commit(ctx, draft)
	if err != nil {
		return res, err
	}
	if res.RequiresFullReset {
		s.initRequired = false
		return res, s.FullReset(ctx)
	}
	return res, nil
}

// CancelSettings discards the settings draft and any staged jump target.
func (s *Session) CancelSettings() {
	s.settings.CancelEdit()
	s.jumpTarget = 0
}

// Settings exposes the reconciler backing this session.
func (s *Session) Settings() *settings.Reconciler {
	return s.settings
}

func (s *Session) show(index, total int, rec artist.Record) {
	s.current = index
	s.record = rec
	s.hasRecord = true
	s.title = artist.Title(rec.Summary.DisplayName, index, total)
	s.images = s.cache.GetCachedImages(rec)
	s.logger.Debug("showing artist",
		logging.Int(logging.FieldQueueIndex, index),
		logging.Uint64(logging.FieldArtistID, uint64(rec.Summary.ID)),
	)
}

func (s *Session) clearView() {
	s.current = 0
	s.hasRecord = false
	s.record = artist.Record{}
	s.title = ""
	s.images = artist.Images{}
}
