package photo

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/printlab/printlab-engine/internal/domain/transform"
)

// UploadState tracks a photo's journey to remote storage.
type UploadState string

const (
	UploadPending   UploadState = "pending"
	UploadUploading UploadState = "uploading"
	UploadUploaded  UploadState = "uploaded"
	UploadFailed    UploadState = "failed"
)

// Terminal reports whether the state is final. Uploaded photos are never
// re-uploaded and failed uploads are never retried automatically.
func (s UploadState) Terminal() bool {
	return s == UploadUploaded || s == UploadFailed
}

// Preview is the downscaled stand-in for the original. Its lifetime is
// independent of the source: it can be released to reclaim memory while the
// source reference stays valid.
type Preview struct {
	Data   []byte
	Width  int
	Height int
}

// Photo is one picture in the order. Source dimensions are read once at
// ingestion and never change. The transform is written only by the open
// editor session and the upload fields only by the upload queue; the two
// writers run concurrently, so the mutable fields sit behind a mutex.
type Photo struct {
	ID           uuid.UUID
	SourceRef    string
	SourceWidth  int
	SourceHeight int
	Quantity     int
	CaptureDate  *time.Time
	AutoRotated  bool

	mu          sync.RWMutex
	preview     *Preview
	transform   *transform.Transform
	uploadState UploadState
	remoteURL   string
}

// New builds a pending photo. Callers normally go through Ingestor.Ingest,
// which fills dimensions, preview and capture date.
func New(sourceRef string) *Photo {
	return &Photo{
		ID:          uuid.New(),
		SourceRef:   sourceRef,
		Quantity:    1,
		uploadState: UploadPending,
	}
}

// Preview returns the current preview, or nil after release.
func (p *Photo) Preview() *Preview {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.preview
}

// SetPreview replaces the preview.
func (p *Photo) SetPreview(pre *Preview) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.preview = pre
}

// ReleasePreview drops the preview to reclaim memory. The source reference
// is untouched.
func (p *Photo) ReleasePreview() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.preview = nil
}

// Transform returns the stored transform, if an edit was ever committed.
func (p *Photo) Transform() (transform.Transform, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.transform == nil {
		return transform.Transform{}, false
	}
	return *p.transform, true
}

// SetTransform replaces the stored transform whole.
func (p *Photo) SetTransform(t transform.Transform) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transform = &t
}

// UploadState returns the current upload state.
func (p *Photo) UploadState() UploadState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.uploadState
}

// RemoteURL returns the remote reference recorded by a finished upload.
func (p *Photo) RemoteURL() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.remoteURL
}

// BeginUpload marks the photo in flight. Called by the upload queue only.
func (p *Photo) BeginUpload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.uploadState = UploadUploading
}

// FinishUpload records the remote reference and marks the photo uploaded.
func (p *Photo) FinishUpload(remoteURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.uploadState = UploadUploaded
	p.remoteURL = remoteURL
}

// FailUpload marks the upload terminally failed.
func (p *Photo) FailUpload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.uploadState = UploadFailed
}

// ResetUpload returns a failed photo to pending so a caller can explicitly
// resubmit it. No-op in any other state.
func (p *Photo) ResetUpload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.uploadState == UploadFailed {
		p.uploadState = UploadPending
	}
}
