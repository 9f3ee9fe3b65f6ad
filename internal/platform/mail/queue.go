// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a FIFO outbox on a Redis list: LPUSH to enqueue, BRPOP to
// dequeue.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue returns a queue stored under key.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

// Enqueue implements [Outbox].
func (q *RedisQueue) Enqueue(ctx context.Context, message Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("mail queue: encode: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("mail queue: push: %w", err)
	}
	return nil
}

// Dequeue blocks for up to timeout. It returns ok=false when nothing
// arrived in time.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (Message, bool, error) {
	result, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return Message{}, false, nil
	}
	if err != nil {
		return Message{}, false, fmt.Errorf("mail queue: pop: %w", err)
	}

	// BRPOP answers [key, value].
	if len(result) != 2 {
		return Message{}, false, fmt.Errorf("mail queue: unexpected reply length %d", len(result))
	}

	var message Message
	if err := json.Unmarshal([]byte(result[1]), &message); err != nil {
		return Message{}, false, fmt.Errorf("mail queue: decode: %w", err)
	}
	return message, true, nil
}
