// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

const (
	// popTimeout bounds each blocking pop so shutdown is noticed promptly.
	popTimeout = 2 * time.Second
	// errorBackoff is the pause after a queue failure.
	errorBackoff = time.Second
	// maxAttempts is how many times a message is tried before it is dropped.
	maxAttempts = 3
)

// Queue is the consumer side of the outbox.
type Queue interface {
	Outbox
	Dequeue(ctx context.Context, timeout time.Duration) (Message, bool, error)
}

// Worker drains a [Queue] into a [Sender].
type Worker struct {
	queue   Queue
	sender  Sender
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewWorker builds a worker sending at most perSecond messages per second.
func NewWorker(queue Queue, sender Sender, perSecond float64, logger *slog.Logger) *Worker {
	return &Worker{
		queue:   queue,
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:  logger,
	}
}

// Run processes messages until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("mail_worker_started")
	defer w.logger.Info("mail_worker_stopped")

	for ctx.Err() == nil {
		if _, err := w.ProcessOne(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("mail_worker_queue_failed", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(errorBackoff):
			}
		}
	}
}

// ProcessOne pops and sends at most one message. It reports whether a
// message was taken from the queue. Send failures are requeued up to
// maxAttempts and are not returned.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	message, ok, err := w.queue.Dequeue(ctx, popTimeout)
	if err != nil || !ok {
		return false, err
	}

	if err := w.limiter.Wait(ctx); err != nil {
		// Shutting down with a message in hand: put it back.
		w.requeue(context.WithoutCancel(ctx), message)
		return true, nil
	}

	message.Attempts++
	if err := w.sender.Send(ctx, message); err != nil {
		if ctx.Err() != nil {
			// Cut off by shutdown: the attempt does not count.
			message.Attempts--
			w.requeue(context.WithoutCancel(ctx), message)
			return true, nil
		}

		logger := w.logger.With(
			slog.String("to", message.To),
			slog.Int("attempts", message.Attempts),
			slog.Any("error", err),
		)
		if message.Attempts >= maxAttempts {
			logger.Error("mail_dropped")
			return true, nil
		}
		logger.Warn("mail_send_retry")
		w.requeue(ctx, message)
		return true, nil
	}

	w.logger.Info("mail_sent", slog.String("to", message.To), slog.String("subject", message.Subject))
	return true, nil
}

func (w *Worker) requeue(ctx context.Context, message Message) {
	if err := w.queue.Enqueue(ctx, message); err != nil {
		w.logger.Error("mail_requeue_failed", slog.String("to", message.To), slog.Any("error", err))
	}
}
