package ports

import (
	"context"

	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
)

// MetadataExtractor reads camera/timestamp/GPS metadata out of a stored
// image. Implementations are bounded: a call either completes within its
// timeout or fails with an error wrapping domain.ErrExtraction.
type MetadataExtractor interface {
	Extract(ctx context.Context, path string) (domain.ImageMetadata, error)
}

// Geocoder resolves a coordinate pair to a best-effort human-readable
// address. It never fails: internal errors resolve to a descriptive sentinel
// string, so callers always receive something presentable.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, point domain.Point) string
}

// StoredPhoto describes an upload persisted by a PhotoStore.
type StoredPhoto struct {
	// Path is the local filesystem location, readable by the extractor.
	Path string
	// URL is the public URL the stored file is served under.
	URL string
}

// PhotoStore persists uploaded photo bytes. Storage location and retention
// are the store's concern, not the caller's.
type PhotoStore interface {
	Save(ctx context.Context, upload PhotoUpload) (StoredPhoto, error)
}

// EvidenceVerifier runs the photo-evidence state machine for a stored upload
// against the device-reported position.
type EvidenceVerifier interface {
	Verify(ctx context.Context, photoPath string, device domain.Point) domain.Verdict
}
