package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MediaType string

const (
	Photo MediaType = "photo"
	Video MediaType = "video"
)

func (t MediaType) Valid() bool {
	return t == Photo || t == Video
}

// Post is one media post attached to an athlete. It is created once and never updated.
type Post struct {
	ID        uuid.UUID `db:"id"`
	AthleteID string    `db:"athlete_id"`
	MediaURL  string    `db:"media_url"`
	Caption   string    `db:"caption"`
	MediaType MediaType `db:"media_type"`
	CreatedAt time.Time `db:"created_at"`
}

// NewPost builds a Post and enforces its required fields and the media type enum.
func NewPost(id uuid.UUID, athleteID, mediaURL, caption string, mediaType MediaType, createdAt time.Time) (*Post, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: empty post id", ErrInvalidArgument)
	}
	if strings.TrimSpace(athleteID) == "" {
		return nil, fmt.Errorf("%w: empty athlete id", ErrInvalidArgument)
	}
	if mediaURL == "" {
		return nil, fmt.Errorf("%w: empty media url", ErrInvalidArgument)
	}
	if !mediaType.Valid() {
		return nil, fmt.Errorf("%w: media type %q", ErrInvalidArgument, mediaType)
	}

	return &Post{
		ID:        id,
		AthleteID: athleteID,
		MediaURL:  mediaURL,
		Caption:   caption,
		MediaType: mediaType,
		CreatedAt: createdAt.UTC(),
	}, nil
}
