// Package media turns an uploaded file into the bytes and name that get pushed to the
// remote content store.
package media

import (
	"strings"

	"github.com/romariotrain/athlete-posts/internal/posts/models"
)

// Classify maps a declared content type to a media type by a case-sensitive prefix
// match, so "IMAGE/HEIC" is rejected.
// The second result is false for anything that is neither image/* nor video/*.
func Classify(contentType string) (models.MediaType, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.Photo, true
	case strings.HasPrefix(contentType, "video/"):
		return models.Video, true
	default:
		return "", false
	}
}
