package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrExtraction indicates the metadata extraction backend failed: corrupt
// file, unsupported format, backend unavailable, or timeout.
var ErrExtraction = errors.New("metadata extraction failed")

// ImageMetadata carries the capture-device tags read from an uploaded photo.
// Any subset of fields may be absent; consumers must treat each field as
// independently optional.
type ImageMetadata struct {
	Make     string
	Model    string
	Software string

	// Timestamps holds the raw capture timestamp strings collected from
	// distinct tag sources (DateTimeOriginal, CreateDate, ...). Values are
	// kept unparsed; CaptureTimes interprets them.
	Timestamps []string

	GPSLatitude     *float64
	GPSLongitude    *float64
	GPSLatitudeRef  string
	GPSLongitudeRef string
	// GPSPosition is the single-string variant some devices write instead of
	// separate latitude/longitude tags: two space-separated decimal numbers.
	GPSPosition string
}

// Empty reports whether no usable metadata was found at all: no camera
// provenance, no timestamps, and no GPS of any shape. This is the signal
// the file is not camera-originated.
func (m ImageMetadata) Empty() bool {
	return m.Make == "" && m.Model == "" && m.Software == "" &&
		len(m.Timestamps) == 0 && !m.HasGPS()
}

// HasGPS reports whether the metadata carries embedded GPS in either form,
// parseable or not.
func (m ImageMetadata) HasGPS() bool {
	return (m.GPSLatitude != nil && m.GPSLongitude != nil) || m.GPSPosition != ""
}

// Position resolves the embedded GPS tags into a coordinate pair, applying
// the hemisphere references. ok is false when GPS is absent or the values
// cannot be interpreted as numbers.
func (m ImageMetadata) Position() (Point, bool) {
	if m.GPSLatitude != nil && m.GPSLongitude != nil {
		lat, lng := *m.GPSLatitude, *m.GPSLongitude
		if strings.EqualFold(m.GPSLatitudeRef, "S") {
			lat = -lat
		}
		if strings.EqualFold(m.GPSLongitudeRef, "W") {
			lng = -lng
		}
		p := Point{Lat: lat, Lng: lng}
		return p, p.Valid()
	}

	if m.GPSPosition != "" {
		parts := strings.Fields(m.GPSPosition)
		if len(parts) != 2 {
			return Point{}, false
		}
		lat, errLat := strconv.ParseFloat(parts[0], 64)
		lng, errLng := strconv.ParseFloat(parts[1], 64)
		if errLat != nil || errLng != nil {
			return Point{}, false
		}
		p := Point{Lat: lat, Lng: lng}
		return p, p.Valid()
	}

	return Point{}, false
}

// CaptureTimes parses every timestamp tag into an absolute instant.
// Unparseable values are discarded, never fatal.
func (m ImageMetadata) CaptureTimes() []time.Time {
	var out []time.Time
	for _, raw := range m.Timestamps {
		if t, ok := parseCaptureTime(raw); ok {
			out = append(out, t)
		}
	}
	return out
}

// captureTimeLayouts covers the two tag conventions seen in the wild after
// date normalisation: ISO-like with and without zone offset.
var captureTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseCaptureTime accepts the colon-delimited EXIF date convention
// ("2006:01:02 15:04:05") as well as ISO-like strings.
func parseCaptureTime(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if len(s) >= 10 && s[4] == ':' && s[7] == ':' {
		s = s[:4] + "-" + s[5:7] + "-" + s[8:]
	}
	for _, layout := range captureTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RejectReason is a machine-readable code for a hard evidence rejection.
type RejectReason string

const (
	RejectNoMetadata       RejectReason = "no_metadata"
	RejectStalePhoto       RejectReason = "stale_photo"
	RejectLocationMismatch RejectReason = "location_mismatch"
)

// Verdict is the terminal outcome of evidence verification. Exactly one of
// the two shapes applies: accepted (optionally flagged for review) or
// rejected with a reason and a user-facing message. NeedsReview is an
// advisory accept state, never a rejection.
type Verdict struct {
	Accepted    bool
	NeedsReview bool
	Reason      RejectReason
	Message     string
}

// AcceptVerdict builds an accepting verdict.
func AcceptVerdict(needsReview bool) Verdict {
	return Verdict{Accepted: true, NeedsReview: needsReview}
}

// RejectVerdict builds a rejecting verdict with a submitter-facing message.
func RejectVerdict(reason RejectReason, message string) Verdict {
	return Verdict{Reason: reason, Message: message}
}

// EvidenceRejectedError surfaces a rejection to the HTTP boundary as a
// client-correctable error.
type EvidenceRejectedError struct {
	Reason  RejectReason
	Message string
}

func (e *EvidenceRejectedError) Error() string {
	return e.Message
}
