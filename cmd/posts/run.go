package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/romariotrain/athlete-posts/internal/config"
	"github.com/romariotrain/athlete-posts/internal/posts/httpapi"
	"github.com/romariotrain/athlete-posts/internal/posts/repository"
	"github.com/romariotrain/athlete-posts/internal/posts/service"
	"github.com/romariotrain/athlete-posts/internal/storage"
	"github.com/romariotrain/athlete-posts/internal/storage/github"
	mongostore "github.com/romariotrain/athlete-posts/internal/storage/mongo"
	"github.com/romariotrain/athlete-posts/internal/storage/s3"
	"github.com/romariotrain/athlete-posts/internal/storage/sqlstore"
)

func run(ctx context.Context, cfg *config.Config) error {
	log := zerolog.Ctx(ctx)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	repo, closeRepo, err := openRepository(ctx, cfg, *log)
	if err != nil {
		return err
	}
	defer closeRepo()

	store, err := newUploader(ctx, cfg, *log)
	if err != nil {
		return err
	}

	svc := service.New(repo, store, cfg.MediaFolder)
	h := httpapi.New(svc, httpapi.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		MaxFiles:       cfg.MaxUploadFiles,
	})
	router := httpapi.NewRouter(h, *log, cfg.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen and serve: %w", err)
	}
}

func openRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.PostRepository, func(), error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory post repository, posts are lost on restart")
		return repository.NewMemoryRepository(), func() {}, nil

	case config.DriverMongo:
		client, err := mongostore.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }

		repo := mongostore.NewPostRepo(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil

	default:
		db, err := sqlstore.Connect(ctx, cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		closeFn := func() { _ = db.Close() }

		if cfg.DBMigrate {
			if err := sqlstore.Migrate(ctx, db, cfg.DBDriver, log); err != nil {
				closeFn()
				return nil, nil, err
			}
		}
		return sqlstore.NewPostRepo(db, sqlstore.NewOutboxRepo(db)), closeFn, nil
	}
}

// newUploader builds the configured store. A missing credential keeps the service up
// with every upload failing, unless STORAGE_STRICT is set.
func newUploader(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.Uploader, error) {
	var (
		up  storage.Uploader
		err error
	)

	switch cfg.StorageBackend {
	case config.BackendS3:
		up, err = s3.New(ctx, s3.Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.S3PublicURL,
			Logger:    log,
		})
	default:
		up, err = github.New(github.Config{
			Token:         cfg.GitHubToken,
			Owner:         cfg.GitHubOwner,
			Repo:          cfg.GitHubRepo,
			Branch:        cfg.GitHubBranch,
			CommitMessage: cfg.GitHubCommitMessage,
			APIURL:        cfg.GitHubAPIURL,
			Logger:        log,
		})
	}

	switch {
	case err == nil:
		return up, nil
	case errors.Is(err, storage.ErrTokenNotConfigured) && !cfg.StorageStrict:
		log.Warn().Err(err).Str("backend", cfg.StorageBackend).Msg("media uploads will fail until a credential is configured")
		return storage.Unavailable{Err: err}, nil
	default:
		return nil, fmt.Errorf("remote store: %w", err)
	}
}
