package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/humayun7777/medicureon-backend/metrics"
	"github.com/humayun7777/medicureon-backend/models"

	"github.com/google/uuid"
)

// MetricPusher is the remote side of the manual-tracking mirror.
type MetricPusher interface {
	PushManualMetrics(ctx context.Context, userID uint, metricValues map[string]models.MetricReading) error
}

type mirrorJob struct {
	id      string
	userID  uint
	metrics map[string]models.MetricReading
}

// MirrorQueue is the fire-and-forget remote sync for manual tracking.
// Enqueue never blocks and never reports an error to the caller; the worker
// logs failures and counts them, nothing more. The local mutation has
// already succeeded by the time a job is queued.
type MirrorQueue struct {
	pusher MetricPusher
	rec    metrics.Recorder
	jobs   chan mirrorJob
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewMirrorQueue(pusher MetricPusher, rec metrics.Recorder) *MirrorQueue {
	q := &MirrorQueue{
		pusher: pusher,
		rec:    rec,
		jobs:   make(chan mirrorJob, 64),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

// Enqueue hands a mirror write to the worker. A full or stopped queue
// drops the job; the IoMT store is a convenience copy, not the source of
// truth.
func (q *MirrorQueue) Enqueue(userID uint, metricValues map[string]models.MetricReading) {
	job := mirrorJob{id: uuid.NewString(), userID: userID, metrics: metricValues}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		log.Printf("mirror queue stopped, dropping job %s for user %d", job.id, userID)
		q.rec.RecordMirrorFailure()
		return
	}
	select {
	case q.jobs <- job:
	default:
		log.Printf("mirror queue full, dropping job %s for user %d", job.id, userID)
		q.rec.RecordMirrorFailure()
	}
}

// Stop drains queued jobs and shuts the worker down. Safe to call more
// than once; Enqueue after Stop drops the job.
func (q *MirrorQueue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *MirrorQueue) run() {
	defer q.wg.Done()
	for job := range q.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := q.pusher.PushManualMetrics(ctx, job.userID, job.metrics); err != nil {
			log.Printf("mirror job %s for user %d failed: %v", job.id, job.userID, err)
			q.rec.RecordMirrorFailure()
		}
		cancel()
	}
}
