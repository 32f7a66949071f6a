package exif

import (
	"fmt"
	"strconv"

	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
)

// timestampTags lists the capture-time tag sources in precedence order. All
// present values are collected; the checker picks the most recent parseable
// one.
var timestampTags = []string{
	"DateTimeOriginal",
	"CreateDate",
	"ModifyDate",
	"DateTime",
	"FileModifyDate",
	"FileCreateDate",
}

// metadataFromFields maps a raw exiftool field set to the domain model.
// Every field is independently optional; a missing tag never hides the
// others.
func metadataFromFields(fields map[string]interface{}) domain.ImageMetadata {
	meta := domain.ImageMetadata{
		Make:            stringField(fields, "Make"),
		Model:           stringField(fields, "Model"),
		Software:        stringField(fields, "Software"),
		GPSLatitudeRef:  stringField(fields, "GPSLatitudeRef"),
		GPSLongitudeRef: stringField(fields, "GPSLongitudeRef"),
		GPSPosition:     stringField(fields, "GPSPosition"),
	}

	for _, tag := range timestampTags {
		if v := stringField(fields, tag); v != "" {
			meta.Timestamps = append(meta.Timestamps, v)
		}
	}

	if lat, okLat := floatField(fields, "GPSLatitude"); okLat {
		if lng, okLng := floatField(fields, "GPSLongitude"); okLng {
			meta.GPSLatitude = &lat
			meta.GPSLongitude = &lng
		}
	}

	return meta
}

func stringField(fields map[string]interface{}, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func floatField(fields map[string]interface{}, key string) (float64, bool) {
	switch v := fields[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
