// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/mail"
)

type memoryQueue struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (q *memoryQueue) Enqueue(_ context.Context, message mail.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, message)
	return nil
}

func (q *memoryQueue) Dequeue(_ context.Context, _ time.Duration) (mail.Message, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.messages) == 0 {
		return mail.Message{}, false, nil
	}
	message := q.messages[0]
	q.messages = q.messages[1:]
	return message, true, nil
}

func (q *memoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages)
}

type recordingSender struct {
	failures int
	sent     []mail.Message
}

func (s *recordingSender) Send(_ context.Context, message mail.Message) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("provider unavailable")
	}
	s.sent = append(s.sent, message)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestWorker_ProcessOne_Delivers verifies a queued message reaches the sender.
*/
func TestWorker_ProcessOne_Delivers(t *testing.T) {
	queue := &memoryQueue{}
	sender := &recordingSender{}
	worker := mail.NewWorker(queue, sender, 1000, discardLogger())

	require.NoError(t, queue.Enqueue(context.Background(), mail.ConfirmationMessage("a@example.com", "alice", "code-1")))

	took, err := worker.ProcessOne(context.Background())
	require.NoError(t, err)
	assert.True(t, took)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "a@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Text, "code-1")

	took, err = worker.ProcessOne(context.Background())
	require.NoError(t, err)
	assert.False(t, took)
}

/*
TestWorker_ProcessOne_RetriesThenDrops verifies failed sends are retried a
bounded number of times.
*/
func TestWorker_ProcessOne_RetriesThenDrops(t *testing.T) {
	queue := &memoryQueue{}
	sender := &recordingSender{failures: 10}
	worker := mail.NewWorker(queue, sender, 1000, discardLogger())

	require.NoError(t, queue.Enqueue(context.Background(), mail.Message{To: "a@example.com"}))

	for range 3 {
		took, err := worker.ProcessOne(context.Background())
		require.NoError(t, err)
		assert.True(t, took)
	}

	assert.Equal(t, 0, queue.Len())
	assert.Empty(t, sender.sent)
}

/*
TestWorker_ProcessOne_RecoversAfterFailure verifies a transient failure is
delivered on the next attempt.
*/
func TestWorker_ProcessOne_RecoversAfterFailure(t *testing.T) {
	queue := &memoryQueue{}
	sender := &recordingSender{failures: 1}
	worker := mail.NewWorker(queue, sender, 1000, discardLogger())

	require.NoError(t, queue.Enqueue(context.Background(), mail.Message{To: "a@example.com"}))

	_, _ = worker.ProcessOne(context.Background())
	_, _ = worker.ProcessOne(context.Background())

	require.Len(t, sender.sent, 1)
	assert.Equal(t, 2, sender.sent[0].Attempts)
}

/*
TestWorker_Run_StopsOnCancel verifies Run returns once the context ends.
*/
func TestWorker_Run_StopsOnCancel(t *testing.T) {
	worker := mail.NewWorker(&memoryQueue{}, &recordingSender{}, 1000, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

// cancelingSender simulates a deploy stopping the worker mid-send.
type cancelingSender struct {
	cancel context.CancelFunc
}

func (s cancelingSender) Send(ctx context.Context, _ mail.Message) error {
	s.cancel()
	return ctx.Err()
}

/*
TestWorker_ProcessOne_RequeuesOnShutdown verifies a send interrupted by
cancellation keeps the message and its attempt budget.
*/
func TestWorker_ProcessOne_RequeuesOnShutdown(t *testing.T) {
	queue := &memoryQueue{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker := mail.NewWorker(queue, cancelingSender{cancel: cancel}, 1000, discardLogger())

	require.NoError(t, queue.Enqueue(context.Background(), mail.ConfirmationMessage("a@example.com", "alice", "code-1")))

	took, err := worker.ProcessOne(ctx)
	require.NoError(t, err)
	assert.True(t, took)

	require.Equal(t, 1, queue.Len())
	assert.Zero(t, queue.messages[0].Attempts)
}
