package audit

import (
	"context"
	"sync"
	"time"

	"github.com/apex/backoffice/internal/domain/audit"
	"go.uber.org/zap"
)

// Recorder writes audit entries asynchronously. Callers hand entries
// off and move on; a full buffer drops the entry rather than blocking
// the business operation. Audit must never take a request down with it.
type Recorder struct {
	repo   audit.EntryRepository
	logger *zap.Logger
	queue  chan *audit.Entry
	wg     sync.WaitGroup
	once   sync.Once
}

// NewRecorder creates a recorder and starts its background writer
func NewRecorder(repo audit.EntryRepository, logger *zap.Logger, bufferSize int) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	r := &Recorder{
		repo:   repo,
		logger: logger,
		queue:  make(chan *audit.Entry, bufferSize),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Record queues an entry for writing. Never blocks and never fails;
// when the buffer is full the entry is dropped with a warning.
func (r *Recorder) Record(entry *audit.Entry) {
	if entry == nil {
		return
	}
	select {
	case r.queue <- entry:
	default:
		r.logger.Warn("audit buffer full, dropping entry",
			zap.String("action", string(entry.Action)),
			zap.String("resource", string(entry.Resource)),
			zap.String("entity_id", entry.EntityID))
	}
}

// Close stops accepting entries and waits for queued ones to be written
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.queue)
	})
	r.wg.Wait()
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for entry := range r.queue {
		r.write(entry)
	}
}

// write persists one entry. A panicking repository must not take the
// writer goroutine, and with it the process, down.
func (r *Recorder) write(entry *audit.Entry) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("audit writer panicked",
				zap.String("action", string(entry.Action)),
				zap.String("resource", string(entry.Resource)),
				zap.String("entity_id", entry.EntityID),
				zap.Any("panic", rec))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.repo.Save(ctx, entry); err != nil {
		r.logger.Error("failed to write audit entry",
			zap.String("action", string(entry.Action)),
			zap.String("resource", string(entry.Resource)),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err))
	}
}
