package notification

import (
	"context"
	"errors"
	"time"

	"subercraftex/logger"
)

// Worker drains a Queue and hands each job to a Sender. Delivery is
// at-most-once: a failed send is logged and the job is dropped.
type Worker struct {
	queue  Queue
	sender Sender
	// backoff is the pause after a queue read error.
	backoff time.Duration
}

func NewWorker(queue Queue, sender Sender) *Worker {
	return &Worker{queue: queue, sender: sender, backoff: time.Second}
}

// Run blocks until ctx is cancelled or the queue is closed.
func (w *Worker) Run(ctx context.Context) {
	logger.Info("notification worker started")
	defer logger.Info("notification worker stopped")

	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrQueueClosed) {
				return
			}
			logger.Error("notification dequeue failed", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.backoff):
			}
			continue
		}
		w.handle(ctx, job)
	}
}

func (w *Worker) handle(ctx context.Context, job Job) {
	if err := w.sender.Send(ctx, job); err != nil {
		logger.Error("notification send failed", err,
			"job_id", job.ID, "kind", job.Kind, "booking_number", job.BookingNumber)
		return
	}
	logger.Debug("notification sent", "job_id", job.ID, "kind", job.Kind, "booking_number", job.BookingNumber)
}

// Dispatcher enqueues jobs on behalf of committed mutations. Errors are
// logged and never returned.
type Dispatcher struct {
	queue Queue
}

func NewDispatcher(queue Queue) *Dispatcher {
	return &Dispatcher{queue: queue}
}

func (d *Dispatcher) Dispatch(ctx context.Context, job Job) {
	if d == nil || d.queue == nil {
		return
	}
	// The request may be finishing; the enqueue must not inherit its cancellation.
	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := d.queue.Enqueue(enqueueCtx, job); err != nil {
		logger.Error("notification enqueue failed", err,
			"kind", job.Kind, "booking_number", job.BookingNumber)
	}
}
