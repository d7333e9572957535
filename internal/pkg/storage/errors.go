package storage

import "errors"

var (
	ErrAuthorization   = errors.New("upload authorization unavailable")
	ErrRejected        = errors.New("storage rejected the upload")
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
	ErrInvalidMimeType = errors.New("file type not allowed")
)
