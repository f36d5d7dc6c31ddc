package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/romariotrain/athlete-posts/internal/posts/models"
)

const (
	MaxPhotoWidth  = 1200
	MaxPhotoHeight = 1200
	PhotoQuality   = 80
)

// Prepare returns the bytes to store for the given media type.
// Photos are fitted inside MaxPhotoWidth x MaxPhotoHeight and re-encoded as JPEG;
// videos are returned as is.
func Prepare(mediaType models.MediaType, raw []byte) ([]byte, error) {
	if mediaType != models.Photo {
		return raw, nil
	}
	return ResizePhoto(raw)
}

// ResizePhoto never upscales: an image already inside the box keeps its dimensions.
func ResizePhoto(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	fitted := imaging.Fit(img, MaxPhotoWidth, MaxPhotoHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(PhotoQuality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
