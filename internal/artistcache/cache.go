// Package artistcache keeps fetched artist records and their images on disk
// so navigating back and forth does not hit the provider again.
//
// Records never expire. They are replaced only by a forced refresh or dropped
// by Purge during a full reset. A cached record that fails to decode is
// treated as absent and fetched again.
package artistcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"par/internal/artist"
	"par/internal/fileutil"
	"par/internal/logging"
	"par/internal/remote"
	"par/internal/services"
	"par/internal/store"
)

// Cache combines the record table in the store with the image directory.
type Cache struct {
	store    *store.Store
	provider remote.Provider
	imageDir string
	logger   *slog.Logger
}

// New returns a cache backed by st and imageDir that fetches through provider.
func New(st *store.Store, provider remote.Provider, imageDir string, logger *slog.Logger) *Cache {
	return &Cache{
		store:    st,
		provider: provider,
		imageDir: imageDir,
		logger:   logging.NewComponentLogger(logger, "artistcache"),
	}
}

// GetOrFetch returns the cached record for artistID unless forceRefresh is
// set or nothing usable is cached, in which case it fetches, persists, and
// returns a fresh record. A failed fetch leaves the cache untouched.
func (c *Cache) GetOrFetch(ctx context.Context, artistID uint32, forceRefresh bool, settings artist.Settings) (artist.Record, error) {
	ctx = services.WithArtistID(ctx, artistID)
	if !forceRefresh {
		if rec, ok := c.Lookup(ctx, artistID); ok {
			return rec, nil
		}
	}

	res, err := c.provider.FetchArtistRecord(ctx, settings, artistID)
	if err != nil {
		if !errors.Is(err, services.ErrFetchFailed) {
			err = services.Wrap(services.ErrFetchFailed, "artistcache", "fetch", fmt.Sprintf("artist %d", artistID), err)
		}
		return artist.Record{}, err
	}

	c.storeImages(ctx, res)
	if err := c.Update(ctx, res.Record); err != nil {
		return artist.Record{}, err
	}
	logging.WithContext(ctx, c.logger).Info("artist record fetched",
		logging.Bool("forced", forceRefresh),
	)
	return res.Record, nil
}

// Lookup returns the cached record without contacting the provider.
func (c *Cache) Lookup(ctx context.Context, artistID uint32) (artist.Record, bool) {
	logger := logging.WithContext(services.WithArtistID(ctx, artistID), c.logger)
	payload, found, err := c.store.GetRecord(ctx, artistID)
	if err != nil {
		logging.WarnWithContext(logger, "artist record unreadable", "cache_read_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "record will be fetched again"),
		)
		return artist.Record{}, false
	}
	if !found {
		return artist.Record{}, false
	}
	var rec artist.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		logging.WarnWithContext(logger, "artist record corrupt", "cache_corrupt",
			logging.Error(err),
			logging.String(logging.FieldImpact, "record will be fetched again"),
		)
		return artist.Record{}, false
	}
	if err := rec.Validate(artistID); err != nil {
		logging.WarnWithContext(logger, "artist record invalid", "cache_corrupt",
			logging.Error(err),
			logging.String(logging.FieldImpact, "record will be fetched again"),
		)
		return artist.Record{}, false
	}
	return rec, true
}

// Update persists rec, overwriting the cached copy. Toggles use it to keep
// the cache in step with a flag flipped in place.
func (c *Cache) Update(ctx context.Context, rec artist.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return services.Wrap(services.ErrPersistFailed, "artistcache", "encode",
			fmt.Sprintf("artist %d", rec.Summary.ID), err)
	}
	if err := c.store.PutRecord(ctx, rec.Summary.ID, payload); err != nil {
		return services.Wrap(services.ErrPersistFailed, "artistcache", "save",
			fmt.Sprintf("artist %d", rec.Summary.ID), err)
	}
	return nil
}

func (c *Cache) storeImages(ctx context.Context, res remote.FetchResult) {
	write := func(name string, data []byte) {
		if data == nil {
			return
		}
		path := filepath.Join(c.imageDir, name)
		if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, c.logger), "image not cached", "image_write_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "image will be missing until the artist is reloaded"),
			)
		}
	}
	write(remote.ProfileImageName(res.Record.Summary.ID), res.Images.Profile)
	for i, illust := range res.Record.RecentIllustrations {
		if illust.Empty() {
			continue
		}
		write(remote.IllustrationImageName(illust.ID), res.Images.Illustrations[i])
	}
}

// GetCachedImages reads whatever images for rec are on disk. It never
// fetches; missing files come back nil.
func (c *Cache) GetCachedImages(rec artist.Record) artist.Images {
	var images artist.Images
	images.Profile = c.readImage(remote.ProfileImageName(rec.Summary.ID))
	for i, illust := range rec.RecentIllustrations {
		if illust.Empty() {
			continue
		}
		images.Illustrations[i] = c.readImage(remote.IllustrationImageName(illust.ID))
	}
	return images
}

func (c *Cache) readImage(name string) []byte {
	data, err := fileutil.ReadIfExists(filepath.Join(c.imageDir, name))
	if err != nil {
		c.logger.Debug("image unreadable", logging.String("name", name), logging.Error(err))
		return nil
	}
	return data
}

// Count returns how many records are cached.
func (c *Cache) Count(ctx context.Context) (int, error) {
	return c.store.CountRecords(ctx)
}

// Purge drops every cached record and image.
func (c *Cache) Purge(ctx context.Context) error {
	if err := c.store.DeleteRecords(ctx); err != nil {
		return services.Wrap(services.ErrPersistFailed, "artistcache", "purge", "records", err)
	}
	removed, err := fileutil.RemoveWithSuffix(c.imageDir, ".jpeg")
	if err != nil {
		return services.Wrap(services.ErrPersistFailed, "artistcache", "purge", "images", err)
	}
	c.logger.Info("cache purged", logging.Int("images_removed", removed))
	return nil
}
