package uploadqueue

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/printlab/printlab-engine/internal/domain/photo"
)

// DefaultLimit is the upload concurrency ceiling. Originals are large;
// three at a time keeps the uplink busy without starving anything else.
const DefaultLimit = 3

// Uploader pushes one photo's original to remote storage and returns its
// public reference.
type Uploader interface {
	Upload(ctx context.Context, p *photo.Photo) (string, error)
}

type task struct {
	ctx   context.Context
	photo *photo.Photo
}

// Queue runs uploads with a fixed concurrency ceiling. Each photo is
// admitted at most once; a finished slot is handed to the next pending
// task immediately. Failed uploads stay failed until a caller explicitly
// resets the photo and enqueues it again.
type Queue struct {
	uploader Uploader
	limit    int

	mu       sync.Mutex
	pending  []task
	seen     map[uuid.UUID]bool
	inflight int
	wg       sync.WaitGroup
}

// New builds a queue over the given uploader. A non-positive limit falls
// back to DefaultLimit.
func New(uploader Uploader, limit int) *Queue {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Queue{
		uploader: uploader,
		limit:    limit,
		seen:     make(map[uuid.UUID]bool),
	}
}

// Enqueue admits a photo for upload. Photos already admitted, already
// uploaded, in flight or terminally failed are skipped; the return value
// reports whether the photo was admitted.
func (q *Queue) Enqueue(ctx context.Context, p *photo.Photo) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.seen[p.ID] || p.UploadState() != photo.UploadPending {
		return false
	}
	q.seen[p.ID] = true
	q.pending = append(q.pending, task{ctx: ctx, photo: p})
	q.fill()
	return true
}

// fill starts pending tasks while slots are free. Callers hold mu.
func (q *Queue) fill() {
	for q.inflight < q.limit && len(q.pending) > 0 {
		t := q.pending[0]
		q.pending = q.pending[1:]
		q.inflight++
		q.wg.Add(1)
		go q.run(t)
	}
}

func (q *Queue) run(t task) {
	defer q.wg.Done()

	t.photo.BeginUpload()
	url, err := q.uploader.Upload(t.ctx, t.photo)

	q.mu.Lock()
	if err != nil {
		t.photo.FailUpload()
		// Forgotten here so an explicit reset and re-enqueue can work.
		delete(q.seen, t.photo.ID)
	} else {
		t.photo.FinishUpload(url)
	}
	q.inflight--
	q.fill()
	q.mu.Unlock()

	if err != nil {
		log.Error().Err(err).
			Str("photo_id", t.photo.ID.String()).
			Str("source", t.photo.SourceRef).
			Msg("upload failed")
		return
	}
	log.Debug().
		Str("photo_id", t.photo.ID.String()).
		Str("url", url).
		Msg("upload done")
}

// Wait blocks until every admitted upload has finished or failed.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// InFlight returns how many uploads are running right now.
func (q *Queue) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inflight
}

// Pending returns how many admitted uploads are waiting for a slot.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
