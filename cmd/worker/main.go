package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/bingo-engine/internal/config"
	"github.com/jwebster45206/bingo-engine/internal/logger"
	"github.com/jwebster45206/bingo-engine/internal/services/events"
	"github.com/jwebster45206/bingo-engine/internal/services/queue"
	"github.com/jwebster45206/bingo-engine/internal/session"
	"github.com/jwebster45206/bingo-engine/internal/storage"
	"github.com/jwebster45206/bingo-engine/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Bingo Engine Worker",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL,
		"trigger_file", cfg.TriggerFile)

	// Initialize storage service
	storageService, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = storageService.Close()
	}()

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := storageService.WaitForConnection(storageCtx, 30, 2*time.Second); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage service initialized successfully")

	catalog, err := storageService.LoadTriggerCatalog(storageCtx, cfg.TriggerFile)
	if err != nil {
		available, _ := storageService.ListTriggerFiles(storageCtx)
		log.Error("Failed to load trigger catalog", "error", err, "file", cfg.TriggerFile, "available", available)
		os.Exit(1)
	}

	// Queue, events and game locks share the storage connection
	queueClient, err := queue.NewClient(storageCtx, storageService.Client(), log)
	if err != nil {
		log.Error("Failed to create queue client", "error", err)
		os.Exit(1)
	}

	requestQueue := queue.NewRequestQueue(queueClient)
	log.Info("Queue service initialized successfully")

	broadcaster := events.NewBroadcaster(queueClient.GetRedisClient(), log)
	sessions := session.NewManager(catalog, storageService, broadcaster, log)
	processor := worker.NewRequestProcessor(sessions, storageService.Presence(), log)

	w := worker.New(requestQueue, processor, queueClient.GetRedisClient(), log, cfg.WorkerID, cfg.GameLockTTL)

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Worker started, waiting for requests...", "worker_id", w.ID())

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// Give worker time to finish current request
	time.Sleep(2 * time.Second)

	log.Info("Worker exited")
}
