// Package exifmeta reads capture dates out of photo metadata and moves
// whole metadata segments between JPEGs, so rendered prints keep the
// original's EXIF block.
package exifmeta

import (
	"bytes"
	"strings"
	"time"

	exif "github.com/dsoprea/go-exif/v3"
)

// headLimit bounds how much of a file the date scan reads. Cameras write
// EXIF at the very front; a quarter megabyte is more than any header.
const headLimit = 256 << 10

// exifTimeLayout is the timestamp format EXIF mandates.
const exifTimeLayout = "2006:01:02 15:04:05"

// dateTagPriority orders the tags worth trying: the moment the shutter
// fired, then digitization, then the file's own modification stamp.
var dateTagPriority = []string{"DateTimeOriginal", "DateTimeDigitized", "DateTime"}

// Extractor reads metadata from photo files. Stateless and safe for
// concurrent use.
type Extractor struct{}

// NewExtractor returns a ready Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// CaptureDate scans the head of a photo file for its capture timestamp.
// Missing, truncated or unparseable metadata simply reports false.
func (e *Extractor) CaptureDate(data []byte) (time.Time, bool) {
	head := data
	if len(head) > headLimit {
		head = head[:headLimit]
	}

	rawExif, err := exif.SearchAndExtractExifWithReader(bytes.NewReader(head))
	if err != nil {
		return time.Time{}, false
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return time.Time{}, false
	}

	values := make(map[string]string, len(entries))
	for _, entry := range entries {
		values[entry.TagName] = strings.Trim(entry.FormattedFirst, "\x00 ")
	}

	for _, tag := range dateTagPriority {
		value, ok := values[tag]
		if !ok || value == "" {
			continue
		}
		// Cameras write all-zero stamps when the clock was never set;
		// time.Parse rejects those.
		t, err := time.Parse(exifTimeLayout, value)
		if err != nil {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}
