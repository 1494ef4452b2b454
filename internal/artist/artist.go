// Package artist defines the records the review queue caches per artist.
package artist

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// SlotCount is the number of recent illustrations kept per artist.
const SlotCount = 4

// Summary describes the artist profile shown for a queue entry.
type Summary struct {
	ID          uint32 `json:"id"`
	DisplayName string `json:"name"`
	// RecentUploadCount counts uploads in the last six months.
	RecentUploadCount int  `json:"recent_count"`
	IsFollowed        bool `json:"is_followed"`
}

// Illustration is one uploaded work. An ID of 0 marks an empty slot.
type Illustration struct {
	ID              uint32 `json:"id"`
	ViewCount       uint32 `json:"views"`
	BookmarkCount   uint32 `json:"bookmarks"`
	UploadTimestamp string `json:"upload_date"`
	IsBookmarked    bool   `json:"is_bookmarked"`
}

// Empty reports whether the slot holds no illustration.
func (i Illustration) Empty() bool {
	return i.ID == 0
}

// Record is the fully populated, cacheable view of one artist.
type Record struct {
	Summary              Summary                 `json:"artist"`
	MostRecentBookmarked Illustration            `json:"last_bookmarked"`
	RecentIllustrations  [SlotCount]Illustration `json:"illusts"`
}

// Validate rejects payloads that cannot be displayed or cached.
func (r Record) Validate(expectedID uint32) error {
	if r.Summary.ID == 0 {
		return fmt.Errorf("artist record missing id")
	}
	if expectedID != 0 && r.Summary.ID != expectedID {
		return fmt.Errorf("artist record id %d does not match requested %d", r.Summary.ID, expectedID)
	}
	return nil
}

// Normalize canonicalizes provider text so cached names compare and render
// consistently regardless of how the provider composed them.
func (r *Record) Normalize() {
	r.Summary.DisplayName = norm.NFC.String(r.Summary.DisplayName)
}

// Title renders the window/status title for the entry at index of total.
func Title(name string, index, total int) string {
	return fmt.Sprintf("%s - %d/%d", name, index+1, total)
}

// Images holds cached image bytes for a record. Nil means not on disk.
type Images struct {
	Profile       []byte
	Illustrations [SlotCount][]byte
}
