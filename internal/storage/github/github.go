// Package github stores media in a GitHub repository through the contents API and
// serves it back through the raw download URL.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"
	"github.com/rs/zerolog"

	"github.com/romariotrain/athlete-posts/internal/storage"
)

type Config struct {
	Token         string
	Owner         string
	Repo          string
	Branch        string
	CommitMessage string
	// APIURL overrides https://api.github.com/ (GitHub Enterprise, tests).
	APIURL     string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

type Uploader struct {
	client  *gh.Client
	owner   string
	repo    string
	branch  string
	message string
	logger  zerolog.Logger
}

// New checks the configuration once; a missing token is reported here rather than on
// every upload.
func New(cfg Config) (*Uploader, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("github: %w", storage.ErrTokenNotConfigured)
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("github: owner and repo are required")
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	if cfg.CommitMessage == "" {
		cfg.CommitMessage = "Uploaded by server"
	}

	client := gh.NewClient(cfg.HTTPClient).WithAuthToken(cfg.Token)
	if cfg.APIURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github: parse api url: %w", err)
		}
		client.BaseURL = base
	}

	return &Uploader{
		client:  client,
		owner:   cfg.Owner,
		repo:    cfg.Repo,
		branch:  cfg.Branch,
		message: cfg.CommitMessage,
		logger:  cfg.Logger.With().Str("component", "github_uploader").Logger(),
	}, nil
}

// Upload commits obj.Content at obj.Path. The client base64-encodes the payload.
func (u *Uploader) Upload(ctx context.Context, obj storage.Object) (string, error) {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(u.message),
		Content: obj.Content,
		Branch:  gh.String(u.branch),
	}

	res, _, err := u.client.Repositories.CreateFile(ctx, u.owner, u.repo, obj.Path, opts)
	if err != nil {
		ev := u.logger.Error().Err(err).Str("path", obj.Path)
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) {
			ev = ev.Str("remote_message", ghErr.Message).Interface("remote_errors", ghErr.Errors)
			if ghErr.Response != nil {
				ev = ev.Int("remote_status", ghErr.Response.StatusCode)
			}
		}
		ev.Msg("github upload failed")
		return "", fmt.Errorf("github create file: %w", err)
	}

	downloadURL := res.GetContent().GetDownloadURL()
	if downloadURL == "" {
		return "", fmt.Errorf("github create file: response has no download url")
	}

	u.logger.Debug().
		Str("path", obj.Path).
		Int("bytes", len(obj.Content)).
		Msg("media committed")

	return downloadURL, nil
}
