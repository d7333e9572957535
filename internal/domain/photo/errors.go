package photo

import "errors"

var (
	ErrDecode            = errors.New("image could not be decoded")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrEmptySource       = errors.New("source is empty")
)
