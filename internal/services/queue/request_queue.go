package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jwebster45206/bingo-engine/pkg/queue"
	"github.com/redis/go-redis/v9"
)

const requestsKey = "bingo-requests"

// RequestQueue is the global FIFO of board requests waiting to be processed
type RequestQueue struct {
	client *Client
}

func NewRequestQueue(client *Client) *RequestQueue {
	return &RequestQueue{
		client: client,
	}
}

// Enqueue adds a request to the end of the queue
func (q *RequestQueue) Enqueue(ctx context.Context, req *queue.Request) error {
	data, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}

	if err := q.client.rdb.RPush(ctx, requestsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue request: %w", err)
	}

	q.client.logger.Debug("Enqueued request",
		"request_id", req.RequestID,
		"type", req.Type,
		"game_id", req.GameID.String())
	return nil
}

// Requeue puts a request back at the end of the queue without touching its fields
func (q *RequestQueue) Requeue(ctx context.Context, req *queue.Request) error {
	return q.Enqueue(ctx, req)
}

// Dequeue removes and returns the next request. Returns nil if the queue is empty.
func (q *RequestQueue) Dequeue(ctx context.Context) (*queue.Request, error) {
	result, err := q.client.rdb.LPop(ctx, requestsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Queue is empty
		}
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}

	return parseRequest(result)
}

// BlockingDequeue waits up to timeout for a request. Returns nil if none arrived.
func (q *RequestQueue) BlockingDequeue(ctx context.Context, timeout time.Duration) (*queue.Request, error) {
	result, err := q.client.rdb.BLPop(ctx, timeout, requestsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Timed out
		}
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}

	return parseRequest(result[1])
}

// Depth returns the number of queued requests
func (q *RequestQueue) Depth(ctx context.Context) (int, error) {
	count, err := q.client.rdb.LLen(ctx, requestsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}

func parseRequest(data string) (*queue.Request, error) {
	req, err := queue.FromJSON([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return req, nil
}
