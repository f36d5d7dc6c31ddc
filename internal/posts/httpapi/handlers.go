package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/romariotrain/athlete-posts/internal/posts/models"
	"github.com/romariotrain/athlete-posts/internal/posts/service"
)

const (
	DefaultMaxUploadBytes = 50 << 20
	DefaultMaxFiles       = 3

	multipartMemory = 32 << 20
	mediaField      = "media"
	captionField    = "caption"
)

type Options struct {
	MaxUploadBytes int64
	MaxFiles       int
}

type Handler struct {
	svc      *service.Service
	maxBytes int64
	maxFiles int
}

func New(svc *service.Service, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}
	return &Handler{svc: svc, maxBytes: opts.MaxUploadBytes, maxFiles: opts.MaxFiles}
}

func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Hello World"})
}

// POST /api/athletes/{athlete_id}/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	in := service.CreatePostInput{AthleteID: chi.URLParam(r, "athlete_id")}

	file, caption, err := h.readUpload(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	in.Media = file
	in.Caption = caption

	post, err := h.svc.CreatePost(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreatePostResponse{
		Message: "Post created successfully",
		PostID:  post.ID,
	})
}

// readUpload returns a nil file when the request has no "media" part. A body that is
// not multipart at all counts as carrying no file. Broken or oversized multipart bodies
// are internal failures; only a missing file or an unsupported type is a client error.
func (h *Handler) readUpload(r *http.Request) (*service.File, string, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, "", nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", models.InternalError(fmt.Sprintf("Upload exceeds %d bytes", tooLarge.Limit), err)
		}
		return nil, "", models.InternalError("Invalid multipart form", err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var caption string
	if v := r.MultipartForm.Value[captionField]; len(v) > 0 {
		caption = v[0]
	}

	files := 0
	for _, headers := range r.MultipartForm.File {
		files += len(headers)
	}
	if files > h.maxFiles {
		return nil, "", models.InternalError(fmt.Sprintf("Too many files: at most %d allowed", h.maxFiles), nil)
	}

	headers := r.MultipartForm.File[mediaField]
	if len(headers) == 0 {
		return nil, caption, nil
	}

	fh := headers[0]
	f, err := fh.Open()
	if err != nil {
		return nil, "", models.InternalError("open upload", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, "", models.InternalError("read upload", err)
	}

	return &service.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}, caption, nil
}

func statusFor(kind models.Kind) int {
	switch kind {
	case models.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := models.KindOf(err)
	status := statusFor(kind)

	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().
			Err(err).
			Str("kind", kind.String()).
			Msg("error creating post")
	}

	writeErrorJSON(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
