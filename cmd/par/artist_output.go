package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"par/internal/artist"
	"par/internal/navigator"
)

type illustrationJSON struct {
	Slot       int    `json:"slot"`
	ID         uint32 `json:"id"`
	Views      int64  `json:"views"`
	Bookmarks  int64  `json:"bookmarks"`
	Uploaded   string `json:"uploaded"`
	Bookmarked bool   `json:"bookmarked"`
	ImageBytes int    `json:"image_bytes"`
}

type viewJSON struct {
	Position          int                `json:"position"`
	Total             int                `json:"total"`
	Reviewed          int                `json:"reviewed"`
	Remaining         int                `json:"remaining"`
	Title             string             `json:"title"`
	ArtistID          uint32             `json:"artist_id"`
	Name              string             `json:"name"`
	Followed          bool               `json:"followed"`
	RecentUploads     int64              `json:"recent_uploads"`
	LastBookmarked    uint32             `json:"last_bookmarked,omitempty"`
	ProfileImageBytes int                `json:"profile_image_bytes"`
	Illustrations     []illustrationJSON `json:"illustrations"`
}

func viewToJSON(v navigator.View) viewJSON {
	out := viewJSON{
		Position:  v.Index + 1,
		Total:     v.Total,
		Reviewed:  v.Reviewed,
		Remaining: v.Remaining,
		Title:     v.Title,
	}
	if v.Record == nil {
		return out
	}
	rec := v.Record
	out.ArtistID = rec.Summary.ID
	out.Name = rec.Summary.DisplayName
	out.Followed = rec.Summary.IsFollowed
	out.RecentUploads = int64(rec.Summary.RecentUploadCount)
	out.LastBookmarked = rec.MostRecentBookmarked.ID
	out.ProfileImageBytes = len(v.Images.Profile)
	out.Illustrations = make([]illustrationJSON, 0, artist.SlotCount)
	for i, illust := range rec.RecentIllustrations {
		if illust.Empty() {
			continue
		}
		out.Illustrations = append(out.Illustrations, illustrationJSON{
			Slot:       i + 1,
			ID:         illust.ID,
			Views:      int64(illust.ViewCount),
			Bookmarks:  int64(illust.BookmarkCount),
			Uploaded:   illust.UploadTimestamp,
			Bookmarked: illust.IsBookmarked,
			ImageBytes: len(v.Images.Illustrations[i]),
		})
	}
	return out
}

// renderView formats the artist on display for a terminal.
func renderView(v navigator.View) string {
	if v.Record == nil {
		if v.Total == 0 {
			return "Queue is empty.\n"
		}
		return "Nothing on display.\n"
	}
	rec := v.Record
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", v.Title)
	fmt.Fprintf(&b, "Artist ID:        %d\n", rec.Summary.ID)
	fmt.Fprintf(&b, "Followed:         %s\n", yesNo(rec.Summary.IsFollowed))
	fmt.Fprintf(&b, "Recent uploads:   %d\n", rec.Summary.RecentUploadCount)
	if !rec.MostRecentBookmarked.Empty() {
		fmt.Fprintf(&b, "Last bookmarked:  %d (%s)\n", rec.MostRecentBookmarked.ID, rec.MostRecentBookmarked.UploadTimestamp)
	}
	fmt.Fprintf(&b, "Profile image:    %s\n", imageSize(v.Images.Profile))
	fmt.Fprintf(&b, "Progress:         %d reviewed, %d remaining\n", v.Reviewed, v.Remaining)

	rows := make([][]string, 0, artist.SlotCount)
	for i, illust := range rec.RecentIllustrations {
		if illust.Empty() {
			rows = append(rows, []string{strconv.Itoa(i + 1), "-", "", "", "", "", ""})
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatUint(uint64(illust.ID), 10),
			humanize.Comma(int64(illust.ViewCount)),
			humanize.Comma(int64(illust.BookmarkCount)),
			illust.UploadTimestamp,
			yesNo(illust.IsBookmarked),
			imageSize(v.Images.Illustrations[i]),
		})
	}
	b.WriteString(renderTable(
		[]string{"Slot", "Illustration", "Views", "Bookmarks", "Uploaded", "Bookmarked", "Image"},
		rows, 0, 1, 2, 3, 6,
	))
	b.WriteString("\n")
	return b.String()
}

func imageSize(data []byte) string {
	if len(data) == 0 {
		return "not cached"
	}
	return humanize.IBytes(uint64(len(data)))
}
