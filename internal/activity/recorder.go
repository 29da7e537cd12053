// Package activity keeps the append-only audit trail of transaction
// mutations.
//
// Record never blocks on the store and never returns an error: entries are
// queued and written by background workers with their own timeout, because
// the mutation that produced them has already committed and the request
// context may be gone by the time the write runs. Failures are logged and
// counted, nothing else.
package activity

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"walletwise/internal/models"
	"walletwise/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Store interface {
	Create(ctx context.Context, a *models.TransactionActivity) error
	ListByTransaction(ctx context.Context, userID, transactionID uuid.UUID) ([]*models.TransactionActivity, error)
}

type Config struct {
	QueueSize    int
	Workers      int
	WriteTimeout time.Duration
}

type Recorder struct {
	store  Store
	cfg    Config
	logger *zap.Logger
	now    func() time.Time

	queue   chan *models.TransactionActivity
	pending sync.WaitGroup
	workers sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewRecorder(store Store, cfg Config, logger *zap.Logger) *Recorder {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		queue:  make(chan *models.TransactionActivity, cfg.QueueSize),
	}

	r.workers.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go r.run()
	}

	return r
}

// Record queues an activity entry. changes is snapshotted as JSON
// immediately, so the caller may reuse it afterwards.
func (r *Recorder) Record(userID, transactionID uuid.UUID, action models.ActivityAction, changes any) {
	entry := &models.TransactionActivity{
		ID:            uuid.New(),
		UserID:        userID,
		TransactionID: transactionID,
		Action:        action,
		Changes:       r.snapshot(action, changes),
		Timestamp:     r.now().UTC(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.drop(entry, "Activity recorder closed, dropping record")
		return
	}

	r.pending.Add(1)
	select {
	case r.queue <- entry:
		metrics.ActivityQueueDepth.Inc()
	default:
		r.pending.Done()
		r.drop(entry, "Activity queue full, dropping record")
	}
}

// List returns the trail for a transaction, newest first.
func (r *Recorder) List(ctx context.Context, userID, transactionID uuid.UUID) ([]*models.TransactionActivity, error) {
	return r.store.ListByTransaction(ctx, userID, transactionID)
}

// Flush waits until every queued record has been written or has failed.
func (r *Recorder) Flush() {
	r.pending.Wait()
}

// Close stops accepting records, drains the queue and stops the workers.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	close(r.queue)
	r.workers.Wait()
}

func (r *Recorder) run() {
	defer r.workers.Done()
	for entry := range r.queue {
		metrics.ActivityQueueDepth.Dec()
		r.write(entry)
		r.pending.Done()
	}
}

func (r *Recorder) write(entry *models.TransactionActivity) {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			metrics.ActivityRecords.WithLabelValues(string(entry.Action), metrics.OutcomeFailed).Inc()
			r.logger.Error("Activity write panicked",
				zap.Any("panic", p),
				zap.String("transaction_id", entry.TransactionID.String()),
			)
		}
	}()

	if err := r.store.Create(ctx, entry); err != nil {
		metrics.ActivityRecords.WithLabelValues(string(entry.Action), metrics.OutcomeFailed).Inc()
		r.logger.Error("Failed to record transaction activity",
			zap.Error(err),
			zap.String("user_id", entry.UserID.String()),
			zap.String("transaction_id", entry.TransactionID.String()),
			zap.String("action", string(entry.Action)),
		)
		return
	}

	metrics.ActivityRecords.WithLabelValues(string(entry.Action), metrics.OutcomeWritten).Inc()
}

func (r *Recorder) snapshot(action models.ActivityAction, changes any) json.RawMessage {
	if changes == nil {
		return json.RawMessage("{}")
	}
	raw, err := json.Marshal(changes)
	if err != nil {
		r.logger.Warn("Failed to encode activity changes",
			zap.Error(err),
			zap.String("action", string(action)),
		)
		return json.RawMessage("{}")
	}
	return raw
}

func (r *Recorder) drop(entry *models.TransactionActivity, msg string) {
	metrics.ActivityRecords.WithLabelValues(string(entry.Action), metrics.OutcomeDropped).Inc()
	r.logger.Warn(msg,
		zap.String("transaction_id", entry.TransactionID.String()),
		zap.String("action", string(entry.Action)),
	)
}
