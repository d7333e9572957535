package exifmeta

import "errors"

var (
	ErrNotJPEG    = errors.New("data is not a jpeg")
	ErrBadSegment = errors.New("malformed metadata segment")
)
