package uploadqueue

import (
	"context"
	"fmt"

	"github.com/printlab/printlab-engine/internal/domain/photo"
	"github.com/printlab/printlab-engine/internal/pkg/storage"
)

// LoadFunc fetches the original bytes behind a source reference.
type LoadFunc func(ctx context.Context, sourceRef string) ([]byte, error)

// StorageUploader loads a photo's original, validates it and pushes it to
// a storage provider under a content-derived key.
type StorageUploader struct {
	provider storage.Provider
	load     LoadFunc
	maxSize  int64
}

// NewStorageUploader wires a provider to a source loader. maxSize of zero
// means the default cap.
func NewStorageUploader(provider storage.Provider, load LoadFunc, maxSize int64) *StorageUploader {
	return &StorageUploader{provider: provider, load: load, maxSize: maxSize}
}

// Upload implements Uploader.
func (u *StorageUploader) Upload(ctx context.Context, p *photo.Photo) (string, error) {
	data, err := u.load(ctx, p.SourceRef)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", p.SourceRef, err)
	}

	mimeType, err := storage.ValidateImage(data, u.maxSize)
	if err != nil {
		return "", fmt.Errorf("validate %s: %w", p.SourceRef, err)
	}

	key := storage.NewObjectKey(data, storage.ExtensionForMime(mimeType))
	url, err := u.provider.Upload(ctx, key, data, mimeType)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return url, nil
}
