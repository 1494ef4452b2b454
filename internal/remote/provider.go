package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"par/internal/artist"
	"par/internal/config"
	"par/internal/services"
)

// Command names shared by both transports.
const (
	cmdValidateToken    = "validate_token"
	cmdValidateTimezone = "validate_timezone"
	cmdArtistList       = "download_artist_list"
	cmdArtistInfo       = "download_artist_info"
	cmdToggleBookmark   = "toggle_bookmark"
	cmdToggleFollow     = "toggle_follow"
)

// Provider is the remote capability the queue and cache depend on.
type Provider interface {
	ValidateCredential(ctx context.Context, token string) (bool, error)
	ValidateTimezone(ctx context.Context, name string) (bool, error)
	FetchArtistList(ctx context.Context, token string) ([]uint32, error)
	FetchArtistRecord(ctx context.Context, settings artist.Settings, artistID uint32) (FetchResult, error)
	// ToggleBookmark flips the bookmark on illustID. bookmarked is the state
	// the caller currently believes is true.
	ToggleBookmark(ctx context.Context, token string, illustID uint32, bookmarked bool) error
	// ToggleFollow flips the follow on artistID. followed is the state the
	// caller currently believes is true.
	ToggleFollow(ctx context.Context, token string, artistID uint32, followed bool) error
}

// FetchResult is a freshly fetched record and whatever image bytes the
// provider could supply. Missing images are nil.
type FetchResult struct {
	Record artist.Record
	Images artist.Images
}

// New builds the provider selected by cfg.
func New(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfigInvalid, "remote", "new", "missing configuration", nil)
	}
	switch strings.ToLower(cfg.Provider.Kind) {
	case config.ProviderHTTP:
		return NewHTTPProvider(cfg.Provider.BaseURL, nil, logger), nil
	case config.ProviderCommand, "":
		return NewCommandProvider(cfg.Provider.Command, cfg.Provider.Args, logger), nil
	default:
		return nil, services.Wrap(services.ErrConfigInvalid, "remote", "new",
			fmt.Sprintf("unknown provider kind %q", cfg.Provider.Kind), nil)
	}
}

// decodeRecord parses a record payload and checks it belongs to artistID.
func decodeRecord(payload []byte, artistID uint32) (artist.Record, error) {
	var rec artist.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return artist.Record{}, fmt.Errorf("decode artist record: %w", err)
	}
	if err := rec.Validate(artistID); err != nil {
		return artist.Record{}, err
	}
	rec.Normalize()
	return rec, nil
}

func fetchFailed(operation, message string, err error) error {
	return services.Wrap(services.ErrFetchFailed, "remote", operation, message, err)
}
