package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultQueueSize   = 256
	defaultSendTimeout = 10 * time.Second
)

type QueueObserver interface {
	ObserveAlert(channel string, result string)
	ObserveEmailDropped()
}

type emailJob struct {
	id      string
	message EmailMessage
}

// EmailQueue delivers email on a single background worker. Enqueue never
// blocks: when the buffer is full the message is dropped and logged.
type EmailQueue struct {
	sender      EmailSender
	logger      *zap.Logger
	observer    QueueObserver
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	jobs   chan emailJob
	done   chan struct{}
}

func NewEmailQueue(sender EmailSender, size int, sendTimeout time.Duration, logger *zap.Logger, observer QueueObserver) *EmailQueue {
	if size <= 0 {
		size = defaultQueueSize
	}
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	queue := &EmailQueue{
		sender:      sender,
		logger:      logger,
		observer:    observer,
		sendTimeout: sendTimeout,
		jobs:        make(chan emailJob, size),
		done:        make(chan struct{}),
	}
	go queue.worker()
	return queue
}

// Enqueue reports whether the message was accepted.
func (queue *EmailQueue) Enqueue(message EmailMessage) bool {
	queue.mu.RLock()
	defer queue.mu.RUnlock()

	if queue.closed {
		queue.logger.Warn("email queue closed, dropping message", zap.String("to", message.To))
		queue.dropped()
		return false
	}

	job := emailJob{id: uuid.NewString(), message: message}
	select {
	case queue.jobs <- job:
		queue.logger.Debug("email queued", zap.String("job_id", job.id), zap.String("to", message.To))
		return true
	default:
		queue.logger.Warn("email queue full, dropping message",
			zap.String("job_id", job.id),
			zap.String("to", message.To),
			zap.String("subject", message.Subject),
		)
		queue.dropped()
		return false
	}
}

// Shutdown stops accepting messages and waits for queued ones to be sent or
// for ctx to end.
func (queue *EmailQueue) Shutdown(ctx context.Context) error {
	queue.mu.Lock()
	if !queue.closed {
		queue.closed = true
		close(queue.jobs)
	}
	queue.mu.Unlock()

	select {
	case <-queue.done:
		return nil
	case <-ctx.Done():
		queue.logger.Warn("email queue shutdown timed out; some messages may be lost")
		return ctx.Err()
	}
}

func (queue *EmailQueue) worker() {
	defer close(queue.done)
	for job := range queue.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), queue.sendTimeout)
		err := queue.sender.Send(ctx, job.message)
		cancel()

		if err != nil {
			queue.logger.Error("email alert failed", zap.String("job_id", job.id), zap.Error(err))
			queue.observe("failed")
			continue
		}
		queue.observe("sent")
	}
}

func (queue *EmailQueue) observe(result string) {
	if queue.observer != nil {
		queue.observer.ObserveAlert(ChannelEmail, result)
	}
}

func (queue *EmailQueue) dropped() {
	if queue.observer != nil {
		queue.observer.ObserveEmailDropped()
	}
}
