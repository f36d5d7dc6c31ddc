package httpapi

import (
	"github.com/google/uuid"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type CreatePostResponse struct {
	Message string    `json:"message"`
	PostID  uuid.UUID `json:"post_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
