// Package storage defines the remote content store the ingestion service pushes media to.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrTokenNotConfigured is returned when the store credential is absent at startup.
	ErrTokenNotConfigured = errors.New("remote store token is not configured")
)

// Object is one artifact to store.
type Object struct {
	Path        string // folder/name inside the store
	Content     []byte
	ContentType string
}

// Uploader stores an object and returns an address the public can resolve.
type Uploader interface {
	Upload(ctx context.Context, obj Object) (string, error)
}

// Unavailable fails every upload with Err. It stands in for a store whose
// configuration was rejected at startup so that the rest of the service can run.
type Unavailable struct {
	Err error
}

func (u Unavailable) Upload(context.Context, Object) (string, error) {
	if u.Err == nil {
		return "", ErrTokenNotConfigured
	}
	return "", u.Err
}
