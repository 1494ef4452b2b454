package navigator_test

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"par/internal/artistcache"
	"par/internal/navigator"
	"par/internal/queue"
	"par/internal/services"
	"par/internal/settings"
	"par/internal/store"
	"par/internal/testsupport"
)

type harness struct {
	session  *navigator.Session
	provider *testsupport.FakeProvider
	store    *store.Store
	cache    *artistcache.Cache
}

// newHarness seeds a queue of ids (first `reviewed` marked) and commits
// token as the credential. A nil ids slice leaves the queue absent.
func newHarness(t *testing.T, token string, ids []uint32, reviewed int) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	if token != "" {
		if err := st.SaveSettings(ctx, store.SettingsRow{CredentialToken: token, SearchDepth: 210, Timezone: "Etc/GMT-9"}); err != nil {
			t.Fatalf("SaveSettings: %v", err)
		}
	}
	if ids != nil {
		testsupport.SeedQueue(t, st, ids, reviewed)
	}
	provider := testsupport.NewFakeProvider("tok", 1, 2, 3, 4, 5)
	reconciler, err := settings.Load(ctx, st, provider, nil)
	if err != nil {
		t.Fatalf("settings.Load: %v", err)
	}
	cache := artistcache.New(st, provider, cfg.ImageDir(), nil)
	return &harness{
		session:  navigator.New(st, provider, reconciler, cache, nil),
		provider: provider,
		store:    st,
		cache:    cache,
	}
}

func (h *harness) flags(t *testing.T) []bool {
	t.Helper()
	q, err := queue.Load(context.Background(), h.store, nil)
	if err != nil {
		t.Fatalf("queue.Load: %v", err)
	}
	var out []bool
	for _, e := range q.Entries() {
		out = append(out, e.Reviewed)
	}
	return out
}

func assertFlags(t *testing.T, got, want []bool) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("flags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flags = %v, want %v", got, want)
		}
	}
}

func TestInitializeShowsFirstEntryAndMarksIt(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3}, 0)
	if err := h.session.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	v := h.session.View()
	if v.Index != 0 || v.Record == nil || v.Record.Summary.ID != 1 {
		t.Fatalf("unexpected view %+v", v)
	}
	if v.Title != "artist-1 - 1/3" {
		t.Fatalf("title = %q", v.Title)
	}
	assertFlags(t, h.flags(t), []bool{true, false, false})
}

func TestInitializeResumesAtWatermark(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3, 4}, 2)
	if err := h.session.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if v := h.session.View(); v.Index != 2 || v.Record.Summary.ID != 3 {
		t.Fatalf("expected cursor at 2, got %+v", v)
	}
	assertFlags(t, h.flags(t), []bool{true, true, true, false})
}

func TestInitializeAllReviewedLandsOnLast(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3}, 3)
	if err := h.session.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if v := h.session.View(); v.Index != 2 {
		t.Fatalf("expected cursor at last entry, got %d", v.Index)
	}
}

func TestInitializeWithoutCredential(t *testing.T) {
	for _, token := range []string{"", "stale"} {
		h := newHarness(t, token, []uint32{1, 2}, 0)
		ctx := context.Background()
		if err := h.session.Initialize(ctx); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		v := h.session.View()
		if !v.InitializationRequired || v.Record != nil || v.Title != "" {
			t.Fatalf("token %q: unexpected view %+v", token, v)
		}
		if err := h.session.Advance(ctx, 1); err != nil {
			t.Fatalf("Advance while uninitialized: %v", err)
		}
		if err := h.session.ChangeArtist(ctx, 0, false); err != nil {
			t.Fatalf("ChangeArtist while uninitialized: %v", err)
		}
		if h.provider.Calls("FetchArtistRecord") != 0 {
			t.Fatal("provider used while uninitialized")
		}
		assertFlags(t, h.flags(t), []bool{false, false})
	}
}

func TestInitializeBuildsAbsentQueue(t *testing.T) {
	h := newHarness(t, "tok", nil, 0)
	h.provider.IDs = []uint32{4, 5}
	if err := h.session.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	v := h.session.View()
	if v.Total != 2 || v.Record == nil || v.Record.Summary.ID != 4 {
		t.Fatalf("unexpected view %+v", v)
	}
	assertFlags(t, h.flags(t), []bool{true, false})
}

// Scenario A.
func TestChangeArtistMarksVisitedEntry(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := h.session.ChangeArtist(ctx, 0, false); err != nil {
		t.Fatalf("ChangeArtist: %v", err)
	}
	assertFlags(t, h.flags(t), []bool{true, false, false})
	if h.session.View().Index != 0 {
		t.Fatal("cursor moved")
	}
}

// Scenario B.
func TestJumpResetsWatermark(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := h.session.Jump(ctx, 3); err != nil {
		t.Fatalf("Jump: %v", err)
	}
	assertFlags(t, h.flags(t), []bool{true, true, true})
	v := h.session.View()
	if v.Index != 2 || v.Record.Summary.ID != 3 || v.Title != "artist-3 - 3/3" {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestJumpBackwardUnreviewsLaterEntries(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3, 4, 5}, 4)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := h.session.Jump(ctx, 2); err != nil {
		t.Fatalf("Jump: %v", err)
	}
	assertFlags(t, h.flags(t), []bool{true, true, false, false, false})
	if h.session.View().Index != 1 {
		t.Fatalf("cursor = %d", h.session.View().Index)
	}
}

func TestJumpToCurrentChangesNothing(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3, 4}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := h.session.Jump(ctx, 3); err != nil {
		t.Fatalf("Jump: %v", err)
	}
	// Walk back so earlier flags stay set while the cursor moves.
	if err := h.session.Advance(ctx, -1); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	before := h.flags(t)
	if err := h.session.Jump(ctx, 2); err != nil {
		t.Fatalf("Jump to current: %v", err)
	}
	if err := h.session.Jump(ctx, 2); err != nil {
		t.Fatalf("repeat Jump: %v", err)
	}
	assertFlags(t, h.flags(t), before)
}

func TestJumpRejectsInvalidTargets(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	for _, target := range []int{0, -1, 4} {
		if err := h.session.Jump(ctx, target); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("target %d: expected ErrValidation, got %v", target, err)
		}
	}
	assertFlags(t, h.flags(t), []bool{true, false, false})
}

// Scenario D.
func TestChangeArtistOutOfRangeIsNoop(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := h.session.Advance(ctx, 1); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	before := h.session.View()
	for _, idx := range []int{2, 3, 100} {
		if err := h.session.ChangeArtist(ctx, idx, false); err != nil {
			t.Fatalf("ChangeArtist(%d): %v", idx, err)
		}
	}
	if err := h.session.Advance(ctx, 1); err != nil {
		t.Fatalf("Advance past end: %v", err)
	}
	after := h.session.View()
	if after.Index != before.Index || after.Title != before.Title {
		t.Fatalf("view changed: %+v -> %+v", before, after)
	}
}

func TestAdvanceBackAtStartIsNoop(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := h.session.Advance(ctx, -1); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if h.session.View().Index != 0 {
		t.Fatal("cursor moved before start")
	}
	if err := h.session.Advance(ctx, 2); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for delta 2, got %v", err)
	}
}

// Scenario E.
func TestFetchFailureChangesNothing(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	cached, ok := h.cache.Lookup(ctx, 1)
	if !ok {
		t.Fatal("expected artist 1 cached")
	}
	before := h.session.View()
	h.provider.FetchErr = errors.New("offline")

	if err := h.session.Advance(ctx, 1); !errors.Is(err, services.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if err := h.session.ReloadCurrent(ctx); !errors.Is(err, services.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed on reload, got %v", err)
	}
	if err := h.session.Jump(ctx, 3); !errors.Is(err, services.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed on jump, got %v", err)
	}

	after := h.session.View()
	if after.Index != before.Index || after.Title != before.Title {
		t.Fatalf("view changed after failed fetch: %+v", after)
	}
	assertFlags(t, h.flags(t), []bool{true, false, false})
	still, ok := h.cache.Lookup(ctx, 1)
	if !ok || still.Summary != cached.Summary {
		t.Fatal("cached record changed after failed fetch")
	}
}

func TestReloadCurrentForcesFetch(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	calls := h.provider.Calls("FetchArtistRecord")
	if err := h.session.ReloadCurrent(ctx); err != nil {
		t.Fatalf("ReloadCurrent: %v", err)
	}
	if h.provider.Calls("FetchArtistRecord") != calls+1 {
		t.Fatal("reload did not hit provider")
	}
	if err := h.session.Advance(ctx, 1); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := h.session.Advance(ctx, -1); err != nil {
		t.Fatalf("Advance back: %v", err)
	}
	if h.provider.Calls("FetchArtistRecord") != calls+2 {
		t.Fatal("revisiting a cached entry fetched again")
	}
}

func TestCorruptQueueBlocksUntilReset(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3}, 0)
	testsupport.ExecRaw(t, h.store, "UPDATE queue_entries SET reviewed = 9 WHERE position = 1")
	ctx := context.Background()

	err := h.session.Initialize(ctx)
	if !services.Fatal(err) {
		t.Fatalf("expected fatal corrupt error, got %v", err)
	}
	for _, op := range []func() error{
		func() error { return h.session.Advance(ctx, 1) },
		func() error { return h.session.Jump(ctx, 2) },
		func() error { return h.session.ReloadCurrent(ctx) },
	} {
		if err := op(); !errors.Is(err, services.ErrStoreCorrupt) {
			t.Fatalf("expected ErrStoreCorrupt, got %v", err)
		}
	}

	h.provider.IDs = []uint32{5, 4}
	if err := h.session.FullReset(ctx); err != nil {
		t.Fatalf("FullReset: %v", err)
	}
	v := h.session.View()
	if v.Record == nil || v.Record.Summary.ID != 5 || v.Total != 2 {
		t.Fatalf("unexpected view after reset %+v", v)
	}
	assertFlags(t, h.flags(t), []bool{true, false})
}

func TestFullResetPurgesCacheAndSurvivesListFailure(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	h.provider.ListErr = errors.New("offline")
	if err := h.session.FullReset(ctx); !errors.Is(err, services.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if _, ok := h.cache.Lookup(ctx, 1); !ok {
		t.Fatal("cache purged despite failed list fetch")
	}
	assertFlags(t, h.flags(t), []bool{true, false})

	h.provider.ListErr = nil
	h.provider.IDs = []uint32{3}
	if err := h.session.FullReset(ctx); err != nil {
		t.Fatalf("FullReset: %v", err)
	}
	if _, ok := h.cache.Lookup(ctx, 1); ok {
		t.Fatal("stale record survived full reset")
	}
	if n, _ := h.cache.Count(ctx); n != 1 {
		t.Fatalf("expected only the new first record cached, got %d", n)
	}
}

func TestFullResetWithEmptyList(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	h.provider.IDs = nil
	if err := h.session.FullReset(ctx); err != nil {
		t.Fatalf("FullReset: %v", err)
	}
	v := h.session.View()
	if v.Total != 0 || v.Record != nil {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestApplySettingsCredentialTriggersReset(t *testing.T) {
	h := newHarness(t, "", nil, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !h.session.View().InitializationRequired {
		t.Fatal("expected initialization required")
	}
	h.provider.IDs = []uint32{2, 3}

	res, err := h.session.ApplySettings(ctx, settings.Draft{Credential: "tok", SearchDepth: "210", Timezone: "Etc/GMT-9"})
	if err != nil {
		t.Fatalf("ApplySettings: %v", err)
	}
	if !res.RequiresFullReset {
		t.Fatal("expected full reset")
	}
	v := h.session.View()
	if v.InitializationRequired || v.Record == nil || v.Record.Summary.ID != 2 {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestApplySettingsRejectedCredentialStaysUninitialized(t *testing.T) {
	h := newHarness(t, "", nil, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	res, err := h.session.ApplySettings(ctx, settings.Draft{Credential: "wrong", SearchDepth: "210", Timezone: "Etc/GMT-9"})
	if err != nil {
		t.Fatalf("ApplySettings: %v", err)
	}
	if res.RequiresFullReset || !h.session.View().InitializationRequired {
		t.Fatalf("rejected credential changed state: %+v", res)
	}
	if h.provider.Calls("FetchArtistList") != 0 {
		t.Fatal("list fetched for rejected credential")
	}
}

func TestCancelSettingsClearsJumpTarget(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3}, 0)
	if err := h.session.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	h.session.SetJumpTarget(3)
	h.session.Settings().StageEdit(settings.Draft{Credential: "x"})
	h.session.CancelSettings()
	if h.session.View().JumpTarget != 0 {
		t.Fatal("jump target not cleared")
	}
	if h.session.Settings().Draft().Credential != "tok" {
		t.Fatal("draft not reverted")
	}
}

func TestJumpToStagedTarget(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	h.session.SetJumpTarget(2)
	if err := h.session.JumpToTarget(ctx); err != nil {
		t.Fatalf("JumpToTarget: %v", err)
	}
	v := h.session.View()
	if v.Index != 1 || v.JumpTarget != 0 {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestToggleBookmarkAndFollow(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if err := h.session.ToggleBookmark(ctx, 0); err != nil {
		t.Fatalf("ToggleBookmark: %v", err)
	}
	if err := h.session.ToggleFollow(ctx); err != nil {
		t.Fatalf("ToggleFollow: %v", err)
	}
	v := h.session.View()
	if !v.Record.RecentIllustrations[0].IsBookmarked || !v.Record.Summary.IsFollowed {
		t.Fatalf("toggles not applied: %+v", v.Record)
	}
	cached, _ := h.cache.Lookup(ctx, 1)
	if !cached.RecentIllustrations[0].IsBookmarked || !cached.Summary.IsFollowed {
		t.Fatal("toggles not persisted to cache")
	}

	// Empty slot is ignored without calling the provider.
	calls := h.provider.Calls("ToggleBookmark")
	if err := h.session.ToggleBookmark(ctx, 3); err != nil {
		t.Fatalf("ToggleBookmark empty slot: %v", err)
	}
	if h.provider.Calls("ToggleBookmark") != calls {
		t.Fatal("provider called for empty slot")
	}
	if err := h.session.ToggleBookmark(ctx, 4); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for slot 4, got %v", err)
	}
}

func TestToggleFailureLeavesRecord(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	h.provider.ToggleErr = errors.New("rate limited")
	if err := h.session.ToggleBookmark(ctx, 1); !errors.Is(err, services.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if err := h.session.ToggleFollow(ctx); !errors.Is(err, services.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	v := h.session.View()
	if !v.Record.RecentIllustrations[1].IsBookmarked || v.Record.Summary.IsFollowed {
		t.Fatalf("record changed after failed toggle: %+v", v.Record)
	}
	if h.provider.Calls("ToggleBookmark") != 1 {
		t.Fatal("toggle retried")
	}
}

func TestJumpNotice(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3, 4}, 1)
	if err := h.session.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	cases := []struct {
		target int
		want   string
	}{
		{4, "before 4 as reviewed"},
		{1, "after 1 as not reviewed"},
		{2, "already on display"},
		{9, "does not exist"},
	}
	for _, tc := range cases {
		if got := h.session.JumpNotice(tc.target); !strings.Contains(got, tc.want) {
			t.Fatalf("JumpNotice(%d) = %q, want it to contain %q", tc.target, got, tc.want)
		}
	}
}

func TestRandomNavigationKeepsWatermarkInvariant(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3, 4, 5}, 0)
	ctx := context.Background()
	h.provider.FetchErr = errors.New("offline")
	if err := h.session.Initialize(ctx); !errors.Is(err, services.ErrFetchFailed) {
		t.Fatalf("Initialize while offline: %v", err)
	}
	rng := rand.New(rand.NewSource(7))
	for step := 0; step < 400; step++ {
		if rng.Intn(3) == 0 {
			h.provider.FetchErr = errors.New("offline")
		} else {
			h.provider.FetchErr = nil
		}
		var err error
		switch rng.Intn(5) {
		case 0, 1:
			err = h.session.Advance(ctx, 1)
		case 2:
			err = h.session.Advance(ctx, -1)
		case 3:
			err = h.session.Jump(ctx, rng.Intn(5)+1)
		case 4:
			if rng.Intn(4) == 0 {
				err = h.session.FullReset(ctx)
			} else {
				err = h.session.ReloadCurrent(ctx)
			}
		}
		if err != nil && !errors.Is(err, services.ErrFetchFailed) {
			t.Fatalf("step %d: %v", step, err)
		}
		q, err := queue.Load(ctx, h.store, nil)
		if err != nil {
			t.Fatalf("step %d: reload queue: %v", step, err)
		}
		if !q.HoldsInvariant() {
			t.Fatalf("step %d: invariant broken: %+v", step, q.Entries())
		}
		if idx := h.session.View().Index; idx > queue.LocateWatermark(q) {
			t.Fatalf("step %d: cursor %d past watermark %d", step, idx, queue.LocateWatermark(q))
		}
	}
}

func TestAdvanceAfterFailedInitializeResumesAtWatermark(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3}, 0)
	ctx := context.Background()
	h.provider.FetchErr = errors.New("offline")
	if err := h.session.Initialize(ctx); !errors.Is(err, services.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	assertFlags(t, h.flags(t), []bool{false, false, false})
	if h.session.View().Record != nil {
		t.Fatal("expected nothing on display after a failed fetch")
	}

	h.provider.FetchErr = nil
	if err := h.session.Advance(ctx, 1); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	assertFlags(t, h.flags(t), []bool{true, false, false})
	v := h.session.View()
	if v.Index != 0 || v.Record == nil || v.Record.Summary.ID != 1 {
		t.Fatalf("expected artist 1 at index 0, got index %d record %+v", v.Index, v.Record)
	}
}

func TestFailedFetchAfterFullResetKeepsCursorOnWatermark(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	for range 2 {
		if err := h.session.Advance(ctx, 1); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	h.provider.IDs = []uint32{4, 5, 1}
	h.provider.FetchErr = errors.New("offline")
	if err := h.session.FullReset(ctx); !errors.Is(err, services.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	assertFlags(t, h.flags(t), []bool{false, false, false})
	if v := h.session.View(); v.Index != 0 || v.Record != nil {
		t.Fatalf("expected empty view at 0, got index %d record %+v", v.Index, v.Record)
	}

	h.provider.FetchErr = nil
	if err := h.session.Advance(ctx, -1); err != nil {
		t.Fatalf("Advance back: %v", err)
	}
	assertFlags(t, h.flags(t), []bool{true, false, false})
	if err := h.session.Advance(ctx, 1); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	assertFlags(t, h.flags(t), []bool{true, true, false})
}

func TestFullResetRejectsZeroIDBeforePurging(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1, 2, 3}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	before, err := h.cache.Count(ctx)
	if err != nil || before == 0 {
		t.Fatalf("Count = %d, %v", before, err)
	}

	h.provider.IDs = []uint32{4, 0, 5}
	err = h.session.FullReset(ctx)
	if !errors.Is(err, services.ErrFetchFailed) || !errors.Is(err, queue.ErrInvalidID) {
		t.Fatalf("expected ErrFetchFailed wrapping ErrInvalidID, got %v", err)
	}
	if after, _ := h.cache.Count(ctx); after != before {
		t.Fatalf("cache purged despite rejected list: %d -> %d", before, after)
	}
	assertFlags(t, h.flags(t), []bool{true, false, false})
	if v := h.session.View(); v.Record == nil || v.Record.Summary.ID != 1 {
		t.Fatalf("display changed: %+v", v.Record)
	}
}

func TestToggleReportsCacheWriteFailureAfterRemoteChange(t *testing.T) {
	h := newHarness(t, "tok", []uint32{1}, 0)
	ctx := context.Background()
	if err := h.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := h.store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	err := h.session.ToggleFollow(ctx)
	if !errors.Is(err, services.ErrPersistFailed) {
		t.Fatalf("expected ErrPersistFailed, got %v", err)
	}
	if h.provider.Calls("ToggleFollow") != 1 {
		t.Fatal("provider toggle did not run")
	}
	if v := h.session.View(); v.Record == nil || !v.Record.Summary.IsFollowed {
		t.Fatal("display should reflect the accepted remote toggle")
	}
}
