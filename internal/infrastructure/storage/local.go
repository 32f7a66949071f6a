package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Syed-Ali-7/civicfix-backend/internal/core/ports"
)

// LocalPhotoStore writes uploads beneath a directory that the HTTP layer
// serves statically under /uploads.
type LocalPhotoStore struct {
	dir     string
	baseURL string
	log     zerolog.Logger
}

// NewLocalPhotoStore ensures dir exists and returns a store whose public
// URLs are rooted at baseURL (e.g. http://localhost:8080).
func NewLocalPhotoStore(dir, baseURL string, log zerolog.Logger) (*LocalPhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalPhotoStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}, nil
}

// Save persists the upload under a collision-free name and returns both the
// local path (readable by the metadata extractor) and the public URL.
func (s *LocalPhotoStore) Save(_ context.Context, upload ports.PhotoUpload) (ports.StoredPhoto, error) {
	name := "photo-" + uuid.NewString() + extensionFor(upload)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, upload.Bytes, 0o644); err != nil {
		return ports.StoredPhoto{}, fmt.Errorf("write upload: %w", err)
	}

	s.log.Debug().Str("file", name).Int("bytes", len(upload.Bytes)).Msg("photo stored")

	return ports.StoredPhoto{
		Path: path,
		URL:  s.baseURL + "/uploads/" + name,
	}, nil
}

func extensionFor(upload ports.PhotoUpload) string {
	if ext := strings.ToLower(filepath.Ext(upload.Filename)); ext != "" {
		return ext
	}
	switch upload.ContentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	default:
		return ".jpg"
	}
}
