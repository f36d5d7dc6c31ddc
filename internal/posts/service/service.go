package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/romariotrain/athlete-posts/internal/posts/media"
	"github.com/romariotrain/athlete-posts/internal/posts/models"
	"github.com/romariotrain/athlete-posts/internal/posts/repository"
	"github.com/romariotrain/athlete-posts/internal/storage"
)

const (
	MsgNoMedia          = "No media file provided"
	MsgUnsupportedMedia = "Unsupported media type"
)

// File is an uploaded file as the client declared it.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

type CreatePostInput struct {
	AthleteID string
	Caption   string
	Media     *File // nil when the request carried no file
}

type Service struct {
	repo      repository.PostRepository
	store     storage.Uploader
	folder    string
	clock     func() time.Time
	idGen     func() uuid.UUID
	transform func(models.MediaType, []byte) ([]byte, error)
}

func New(repo repository.PostRepository, store storage.Uploader, folder string) *Service {
	if folder == "" {
		folder = media.DefaultFolder
	}
	return &Service{
		repo:      repo,
		store:     store,
		folder:    folder,
		clock:     time.Now,
		idGen:     uuid.New,
		transform: media.Prepare,
	}
}

// CreatePost validates and classifies the upload, resizes photos, pushes the bytes to the
// remote store and records the post. A failed record write after a successful upload
// leaves the remote artifact orphaned; it is logged, not cleaned up.
func (s *Service) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	log := zerolog.Ctx(ctx).With().Str("athlete_id", in.AthleteID).Logger()

	if in.Media == nil {
		return nil, models.ValidationError(MsgNoMedia)
	}

	mediaType, ok := media.Classify(in.Media.ContentType)
	if !ok {
		log.Debug().Str("content_type", in.Media.ContentType).Msg("rejected media type")
		return nil, models.ValidationError(MsgUnsupportedMedia)
	}

	content, err := s.transform(mediaType, in.Media.Content)
	if err != nil {
		return nil, models.InternalError("transform media", err)
	}

	contentType := in.Media.ContentType
	if mediaType == models.Photo {
		contentType = "image/jpeg"
	}

	path := media.RemotePath(s.folder, media.RemoteName(s.idGen(), in.Media.Name))
	mediaURL, err := s.store.Upload(ctx, storage.Object{
		Path:        path,
		Content:     content,
		ContentType: contentType,
	})
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("remote upload failed")
		return nil, models.UploadError("upload media", err)
	}

	post, err := models.NewPost(s.idGen(), in.AthleteID, mediaURL, in.Caption, mediaType, s.clock())
	if err != nil {
		log.Error().Err(err).Str("orphaned_url", mediaURL).Msg("post rejected after upload")
		return nil, models.PersistenceError("create post", err)
	}

	if err := s.repo.Create(ctx, post); err != nil {
		log.Error().Err(err).Str("orphaned_url", mediaURL).Msg("post write failed after upload")
		return nil, models.PersistenceError("save post", err)
	}

	log.Info().
		Str("post_id", post.ID.String()).
		Str("media_type", string(post.MediaType)).
		Int("bytes", len(content)).
		Msg("post created")

	return post, nil
}
