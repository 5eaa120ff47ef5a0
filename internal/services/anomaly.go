package services

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"arcade-rewards-backend/internal/models"
)

// AnomalyLogger records rejected and suspicious submissions for offline
// review. It is strictly best-effort: Log never blocks the request path, and
// a failing or unreachable backend is swallowed, never propagated. A
// legitimate accept must not depend on this component.
type AnomalyLogger struct {
	store SessionStore
	queue chan *models.AnomalyRecord

	// dropLog throttles the local line emitted when the queue overflows, so a
	// sustained backend outage doesn't flood the process log.
	dropLog *rate.Limiter

	closeOnce sync.Once
	done      chan struct{}
}

func NewAnomalyLogger(store SessionStore, queueSize int) *AnomalyLogger {
	if queueSize <= 0 {
		queueSize = 256
	}

	l := &AnomalyLogger{
		store:   store,
		queue:   make(chan *models.AnomalyRecord, queueSize),
		dropLog: rate.NewLimiter(rate.Every(10*time.Second), 1),
		done:    make(chan struct{}),
	}

	go l.run()

	return l
}

// Log enqueues a record without blocking. When the queue is full the record
// is dropped; losing review data during a backend outage is the accepted
// tradeoff for never stalling a request.
func (l *AnomalyLogger) Log(wallet string, reason models.ReasonCode, details string) {
	l.LogRecord(&models.AnomalyRecord{
		ID:        models.GenerateAnomalyID(),
		Wallet:    wallet,
		Reason:    reason,
		Details:   details,
		Timestamp: time.Now(),
	})
}

func (l *AnomalyLogger) LogRecord(record *models.AnomalyRecord) {
	if record.ID == "" {
		record.ID = models.GenerateAnomalyID()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	select {
	case l.queue <- record:
	default:
		if l.dropLog.Allow() {
			log.Printf("anomaly queue full, dropping records (wallet=%s reason=%s)",
				record.Wallet, record.Reason)
		}
	}
}

func (l *AnomalyLogger) run() {
	for record := range l.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := l.store.AppendAnomaly(ctx, record); err != nil {
			// Fail open: note it locally and move on.
			if l.dropLog.Allow() {
				log.Printf("failed to append anomaly record: %v", err)
			}
		}
		cancel()
	}
	close(l.done)
}

// Close stops accepting records and drains what is already queued.
func (l *AnomalyLogger) Close() {
	l.closeOnce.Do(func() {
		close(l.queue)
		<-l.done
	})
}
