package storage

import (
	"net/http"
	"strings"
)

// allowedImageTypes are the source formats the pipeline accepts. Detection
// is content-based; file extensions are advisory only.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DefaultMaxFileSize caps one original photo. Phone originals run up to a
// few tens of megabytes; anything past this is not a photo.
const DefaultMaxFileSize = 64 << 20

// ValidateImage sniffs data and reports its MIME type. It rejects empty,
// oversized and non-image payloads before any upload bandwidth is spent.
func ValidateImage(data []byte, maxSize int64) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if int64(len(data)) > maxSize {
		return "", ErrFileTooLarge
	}

	mimeType := http.DetectContentType(data)
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if _, ok := allowedImageTypes[mimeType]; !ok {
		return "", ErrInvalidMimeType
	}
	return mimeType, nil
}

// ExtensionForMime returns the canonical extension for a sniffed type, or
// empty when the type is not an accepted image format.
func ExtensionForMime(mimeType string) string {
	return allowedImageTypes[mimeType]
}
