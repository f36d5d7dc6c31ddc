package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPost_Valid(t *testing.T) {
	id := uuid.New()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3*3600))

	p, err := NewPost(id, "athlete-1", "https://cdn/x.jpg", "", Photo, at)
	require.NoError(t, err)

	assert.Equal(t, id, p.ID)
	assert.Equal(t, "athlete-1", p.AthleteID)
	assert.Equal(t, "", p.Caption)
	assert.Equal(t, Photo, p.MediaType)
	assert.Equal(t, time.UTC, p.CreatedAt.Location())
	assert.True(t, p.CreatedAt.Equal(at))
}

func TestNewPost_Rejects(t *testing.T) {
	id := uuid.New()
	now := time.Now()

	cases := []struct {
		name      string
		id        uuid.UUID
		athleteID string
		mediaURL  string
		mediaType MediaType
	}{
		{name: "nil id", id: uuid.Nil, athleteID: "a", mediaURL: "u", mediaType: Photo},
		{name: "empty athlete", id: id, athleteID: "  ", mediaURL: "u", mediaType: Photo},
		{name: "empty url", id: id, athleteID: "a", mediaURL: "", mediaType: Video},
		{name: "unknown type", id: id, athleteID: "a", mediaURL: "u", mediaType: "audio"},
		{name: "empty type", id: id, athleteID: "a", mediaURL: "u", mediaType: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewPost(tc.id, tc.athleteID, tc.mediaURL, "", tc.mediaType, now)
			require.ErrorIs(t, err, ErrInvalidArgument)
			require.Nil(t, p)
		})
	}
}

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, KindValidation, KindOf(ValidationError("bad")))
	assert.Equal(t, KindUpload, KindOf(UploadError("upload media", cause)))
	assert.Equal(t, KindPersistence, KindOf(fmt.Errorf("wrapped: %w", PersistenceError("save post", cause))))
	assert.Equal(t, KindInternal, KindOf(cause))
	assert.Equal(t, KindInternal, KindOf(InternalError("transform", cause)))
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("token missing")
	err := UploadError("upload media", cause)

	assert.Equal(t, "upload media: token missing", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Unsupported media type", ValidationError("Unsupported media type").Error())
}

func TestPostCreated_JSON(t *testing.T) {
	p, err := NewPost(uuid.New(), "athlete-7", "https://cdn/v.mov", "go", Video, time.Now())
	require.NoError(t, err)

	ev := NewPostCreated(p)
	assert.Equal(t, "PostCreated", ev.EventType())
	assert.Equal(t, p.ID, ev.AggregateID())

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, p.ID.String(), decoded["post_id"])
	assert.Equal(t, "athlete-7", decoded["athlete_id"])
	assert.Equal(t, "video", decoded["media_type"])
	assert.Equal(t, ev.EventID().String(), decoded["event_id"])
}
