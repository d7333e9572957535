package storage

import "context"

// Provider stores original photo bytes and returns the public reference the
// print lab will fetch them from. Implementations must be safe for
// concurrent use: the upload queue runs several uploads at once.
type Provider interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
