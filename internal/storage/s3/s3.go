// Package s3 stores media in an S3-compatible bucket (AWS S3, MinIO, R2, Spaces).
package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/romariotrain/athlete-posts/internal/storage"
)

type Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // optional, for S3-compatible services
	PublicURL string // optional, base URL objects are served from
	Logger    zerolog.Logger
}

type Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
	logger    zerolog.Logger
}

// New validates credentials eagerly and makes sure the bucket exists.
func New(ctx context.Context, cfg Config) (*Uploader, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("s3: %w", storage.ErrTokenNotConfigured)
	}
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("s3: bucket and region are required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	u := &Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicBase(cfg),
		logger:    cfg.Logger.With().Str("component", "s3_uploader").Logger(),
	}

	if err := u.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func publicBase(cfg Config) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimSuffix(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func (u *Uploader) ensureBucket(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(u.bucket)})
	if err == nil {
		return nil
	}

	_, err = u.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(u.bucket)})
	if err != nil {
		return fmt.Errorf("s3: bucket %q does not exist and could not be created: %w", u.bucket, err)
	}
	u.logger.Info().Str("bucket", u.bucket).Msg("created bucket")
	return nil
}

func (u *Uploader) Upload(ctx context.Context, obj storage.Object) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(obj.Path),
		Body:          bytes.NewReader(obj.Content),
		ContentLength: aws.Int64(int64(len(obj.Content))),
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		u.logger.Error().Err(err).Str("key", obj.Path).Msg("s3 upload failed")
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return u.URL(obj.Path), nil
}

func (u *Uploader) URL(key string) string {
	return u.publicURL + "/" + key
}
