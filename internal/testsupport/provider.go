package testsupport

import (
	"context"
	"fmt"
	"sync"

	"par/internal/artist"
	"par/internal/remote"
	"par/internal/services"
)

// FakeProvider is a scripted remote.Provider that records every call.
type FakeProvider struct {
	mu sync.Mutex

	ValidTokens map[string]bool
	ValidZones  map[string]bool
	IDs         []uint32
	Records     map[uint32]artist.Record
	Images      map[uint32]artist.Images

	// FetchErr, when set, fails every FetchArtistRecord call.
	FetchErr error
	// ListErr, when set, fails every FetchArtistList call.
	ListErr error
	// ToggleErr, when set, fails every toggle call.
	ToggleErr error

	calls map[string]int
}

var _ remote.Provider = (*FakeProvider)(nil)

// NewFakeProvider returns a provider that accepts token and serves a simple
// record for each id.
func NewFakeProvider(token string, ids ...uint32) *FakeProvider {
	p := &FakeProvider{
		ValidTokens: map[string]bool{token: true},
		ValidZones:  map[string]bool{artist.DefaultTimezone: true, "UTC": true},
		IDs:         append([]uint32(nil), ids...),
		Records:     make(map[uint32]artist.Record),
		Images:      make(map[uint32]artist.Images),
		calls:       make(map[string]int),
	}
	for _, id := range ids {
		p.Records[id] = SampleRecord(id)
	}
	return p
}

// SampleRecord builds a record for id with two populated illustration slots.
func SampleRecord(id uint32) artist.Record {
	rec := artist.Record{
		Summary: artist.Summary{
			ID:                id,
			DisplayName:       fmt.Sprintf("artist-%d", id),
			RecentUploadCount: 2,
		},
	}
	rec.RecentIllustrations[0] = artist.Illustration{ID: id*10 + 1, ViewCount: 100, BookmarkCount: 5, UploadTimestamp: "2024/01/02 03:04:05"}
	rec.RecentIllustrations[1] = artist.Illustration{ID: id*10 + 2, ViewCount: 50, BookmarkCount: 1, UploadTimestamp: "2023/12/01 00:00:00", IsBookmarked: true}
	rec.MostRecentBookmarked = rec.RecentIllustrations[1]
	return rec
}

// Calls returns how many times the named method ran.
func (p *FakeProvider) Calls(method string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[method]
}

func (p *FakeProvider) record(method string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.calls == nil {
		p.calls = make(map[string]int)
	}
	p.calls[method]++
}

// ValidateCredential implements remote.Provider.
func (p *FakeProvider) ValidateCredential(_ context.Context, token string) (bool, error) {
	p.record("ValidateCredential")
	return p.ValidTokens[token], nil
}

// ValidateTimezone implements remote.Provider.
func (p *FakeProvider) ValidateTimezone(_ context.Context, name string) (bool, error) {
	p.record("ValidateTimezone")
	return p.ValidZones[name], nil
}

// FetchArtistList implements remote.Provider.
func (p *FakeProvider) FetchArtistList(_ context.Context, token string) ([]uint32, error) {
	p.record("FetchArtistList")
	if p.ListErr != nil {
		return nil, services.Wrap(services.ErrFetchFailed, "fake", "list", "", p.ListErr)
	}
	if !p.ValidTokens[token] {
		return nil, services.Wrap(services.ErrFetchFailed, "fake", "list", "bad token", nil)
	}
	return append([]uint32(nil), p.IDs...), nil
}

// FetchArtistRecord implements remote.Provider.
func (p *FakeProvider) FetchArtistRecord(_ context.Context, settings artist.Settings, artistID uint32) (remote.FetchResult, error) {
	p.record("FetchArtistRecord")
	if p.FetchErr != nil {
		return remote.FetchResult{}, services.Wrap(services.ErrFetchFailed, "fake", "fetch", "", p.FetchErr)
	}
	if !p.ValidTokens[settings.CredentialToken] {
		return remote.FetchResult{}, services.Wrap(services.ErrFetchFailed, "fake", "fetch", "bad token", nil)
	}
	rec, ok := p.Records[artistID]
	if !ok {
		return remote.FetchResult{}, services.Wrap(services.ErrFetchFailed, "fake", "fetch",
			fmt.Sprintf("artist %d unknown", artistID), nil)
	}
	return remote.FetchResult{Record: rec, Images: p.Images[artistID]}, nil
}

// ToggleBookmark implements remote.Provider.
func (p *FakeProvider) ToggleBookmark(context.Context, string, uint32, bool) error {
	p.record("ToggleBookmark")
	if p.ToggleErr != nil {
		return services.Wrap(services.ErrFetchFailed, "fake", "toggle bookmark", "", p.ToggleErr)
	}
	return nil
}

// ToggleFollow implements remote.Provider.
func (p *FakeProvider) ToggleFollow(context.Context, string, uint32, bool) error {
	p.record("ToggleFollow")
	if p.ToggleErr != nil {
		return services.Wrap(services.ErrFetchFailed, "fake", "toggle follow", "", p.ToggleErr)
	}
	return nil
}
