package remote

import "fmt"

// ProfileImageName is the file name used for an artist's profile image.
func ProfileImageName(artistID uint32) string {
	return fmt.Sprintf("u_%d.jpeg", artistID)
}

// IllustrationImageName is the file name used for an illustration thumbnail.
func IllustrationImageName(illustID uint32) string {
	return fmt.Sprintf("i_%d.jpeg", illustID)
}
