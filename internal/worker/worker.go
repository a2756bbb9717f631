package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/bingo-engine/internal/services/queue"
	queuePkg "github.com/jwebster45206/bingo-engine/pkg/queue"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPollTimeout = 5 * time.Second
	defaultLockTTL     = 30 * time.Second
)

// releaseLockScript deletes the lock only if this worker still owns it
var releaseLockScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Worker processes requests in the board queue
type Worker struct {
	id          string
	queue       *queue.RequestQueue
	processor   *RequestProcessor
	redisClient *redis.Client
	lockTTL     time.Duration
	pollTimeout time.Duration
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance
func New(requestQueue *queue.RequestQueue, processor *RequestProcessor, redisClient *redis.Client, log *slog.Logger, workerID string, lockTTL time.Duration) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}

	return &Worker{
		id:          workerID,
		queue:       requestQueue,
		processor:   processor,
		redisClient: redisClient,
		lockTTL:     lockTTL,
		pollTimeout: defaultPollTimeout,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// ID returns the worker's lock owner id
func (w *Worker) ID() string {
	return w.id
}

// Start begins processing requests from the queue
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextRequest(); err != nil {
				w.log.Error("Error processing request", "error", err, "worker_id", w.id)
				// Continue processing even on error
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNextRequest pulls the next request from the queue and processes it
func (w *Worker) processNextRequest() error {
	// Block waiting for next request (timeout so shutdown is noticed)
	ctx, cancel := context.WithTimeout(w.ctx, w.pollTimeout+time.Second)
	defer cancel()

	req, err := w.queue.BlockingDequeue(ctx, w.pollTimeout)
	if err != nil {
		if w.ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to dequeue request: %w", err)
	}

	if req == nil {
		// Queue is empty or timeout occurred - this is normal
		return nil
	}

	w.log.Debug("Received request from queue",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"type", req.Type,
		"game_id", req.GameID.String(),
	)

	// Presence is global, not per game
	if req.Type == queuePkg.RequestTypePresence {
		return w.processRequest(req)
	}

	locked, err := w.acquireGameLock(req.GameID)
	if err != nil {
		return fmt.Errorf("failed to acquire game lock: %w", err)
	}
	if !locked {
		// Another worker is processing this game.
		// Re-queue at the end and try next request.
		w.log.Info("Game already locked, re-queueing request",
			"worker_id", w.id,
			"request_id", req.RequestID,
			"game_id", req.GameID.String(),
		)
		if err := w.queue.Requeue(w.ctx, req); err != nil {
			return fmt.Errorf("failed to re-queue request: %w", err)
		}
		return nil
	}

	defer w.releaseGameLock(req.GameID)
	return w.processRequest(req)
}

func gameLockKey(gameID uuid.UUID) string {
	return fmt.Sprintf("game-lock:%s", gameID.String())
}

// acquireGameLock returns true if the lock was acquired, false if already locked
func (w *Worker) acquireGameLock(gameID uuid.UUID) (bool, error) {
	return w.redisClient.SetNX(w.ctx, gameLockKey(gameID), w.id, w.lockTTL).Result()
}

func (w *Worker) releaseGameLock(gameID uuid.UUID) {
	if err := releaseLockScript.Run(context.Background(), w.redisClient, []string{gameLockKey(gameID)}, w.id).Err(); err != nil {
		w.log.Error("Failed to release game lock", "error", err, "game_id", gameID.String())
	}
}

func (w *Worker) processRequest(req *queuePkg.Request) error {
	start := time.Now()

	if err := w.processor.Process(w.ctx, req); err != nil {
		w.log.Error("Failed to process request",
			"error", err,
			"worker_id", w.id,
			"request_id", req.RequestID,
			"type", req.Type,
			"game_id", req.GameID.String(),
		)
		// A bad request is dropped rather than retried
		return nil
	}

	w.log.Info("Request processed",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"type", req.Type,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
