package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/romariotrain/athlete-posts/internal/posts/models"
	"github.com/romariotrain/athlete-posts/internal/storage"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

type UploaderMock struct {
	mock.Mock
}

func (m *UploaderMock) Upload(ctx context.Context, obj storage.Object) (string, error) {
	args := m.Called(ctx, obj)
	return args.String(0), args.Error(1)
}
