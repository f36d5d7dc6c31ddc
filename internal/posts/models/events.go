package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

type PostCreated struct {
	eventID    uuid.UUID
	post       Post
	occurredAt time.Time
}

func NewPostCreated(p *Post) *PostCreated {
	return &PostCreated{
		eventID:    uuid.New(),
		post:       *p,
		occurredAt: p.CreatedAt,
	}
}

func (e *PostCreated) EventID() uuid.UUID     { return e.eventID }
func (e *PostCreated) EventType() string      { return "PostCreated" }
func (e *PostCreated) AggregateID() uuid.UUID { return e.post.ID }
func (e *PostCreated) OccurredAt() time.Time  { return e.occurredAt }

func (e *PostCreated) Post() Post { return e.post }

func (e *PostCreated) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID    uuid.UUID `json:"event_id"`
		PostID     uuid.UUID `json:"post_id"`
		AthleteID  string    `json:"athlete_id"`
		MediaType  MediaType `json:"media_type"`
		MediaURL   string    `json:"media_url"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		EventID:    e.eventID,
		PostID:     e.post.ID,
		AthleteID:  e.post.AthleteID,
		MediaType:  e.post.MediaType,
		MediaURL:   e.post.MediaURL,
		OccurredAt: e.occurredAt,
	})
}
