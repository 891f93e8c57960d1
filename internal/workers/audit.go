// Package workers holds background goroutines that run for the lifetime of
// the server process.
package workers

import (
	"context"
	"sync"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/store"
	"github.com/BinGess/Ocean-backend/models"
)

// AuditWriter persists sync audit entries off the request path.
//
// Entries are enqueued fire-and-forget: a sync operation never waits for, or
// fails because of, audit persistence. When the buffer is full the entry is
// dropped with a warning instead of blocking the caller.
type AuditWriter struct {
	repository store.SyncLogRepository
	logger     *logger.Logger

	entries chan models.SyncLog
	wg      sync.WaitGroup
}

// NewAuditWriter constructs an [AuditWriter] with the given buffer size.
// Run must be called before entries are consumed.
func NewAuditWriter(repository store.SyncLogRepository, bufferSize int, log *logger.Logger) *AuditWriter {
	if bufferSize <= 0 {
		bufferSize = 256
	}

	return &AuditWriter{
		repository: repository,
		logger:     log,
		entries:    make(chan models.SyncLog, bufferSize),
	}
}

// Run consumes the queue until ctx is cancelled, then drains whatever is
// already buffered and returns.
func (w *AuditWriter) Run(ctx context.Context) {
	w.wg.Add(1)
	defer w.wg.Done()

	w.logger.Info().Str("func", "AuditWriter.Run").Msg("audit writer started")

	for {
		select {
		case entry := <-w.entries:
			w.write(entry)
		case <-ctx.Done():
			w.drain()
			w.logger.Info().Str("func", "AuditWriter.Run").Msg("audit writer stopped")
			return
		}
	}
}

// Enqueue hands an audit entry to the background writer without blocking.
// A full buffer drops the entry with a warning.
func (w *AuditWriter) Enqueue(entry models.SyncLog) {
	select {
	case w.entries <- entry:
	default:
		w.logger.Warn().
			Str("func", "AuditWriter.Enqueue").
			Str("user_id", entry.UserID).
			Str("operation", entry.Operation).
			Msg("audit buffer full, dropping entry")
	}
}

// Wait blocks until Run has returned after context cancellation.
func (w *AuditWriter) Wait() {
	w.wg.Wait()
}

func (w *AuditWriter) drain() {
	for {
		select {
		case entry := <-w.entries:
			w.write(entry)
		default:
			return
		}
	}
}

func (w *AuditWriter) write(entry models.SyncLog) {
	// background context: the originating request may already be gone
	if err := w.repository.Append(context.Background(), &entry); err != nil {
		w.logger.Err(err).
			Str("func", "AuditWriter.write").
			Str("user_id", entry.UserID).
			Str("operation", entry.Operation).
			Msg("failed to persist audit entry")
	}
}
