package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/jwebster45206/bingo-engine/internal/services/events"
	"github.com/jwebster45206/bingo-engine/internal/services/queue"
	"github.com/jwebster45206/bingo-engine/pkg/board"
	"github.com/jwebster45206/bingo-engine/pkg/goal"
	queuePkg "github.com/jwebster45206/bingo-engine/pkg/queue"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
)

var eventStyles = map[events.EventType]lipgloss.Style{
	events.EventTypeBoardFilled:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	events.EventTypeGoalAutoActivated: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	events.EventTypeGoalCompleted:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
}

func main() {
	defaultURL := os.Getenv("REDIS_URL")
	if defaultURL == "" {
		defaultURL = "redis://localhost:6379"
	}
	redisURL := pflag.String("redis", defaultURL, "redis URL")
	game := pflag.String("game", "00000000-0000-0000-0000-000000000001", "game id to enqueue requests for")
	wait := pflag.Duration("wait", 10*time.Second, "how long to print game events")
	pflag.Parse()

	gameID, err := uuid.Parse(*game)
	if err != nil {
		log.Fatal("Invalid game id:", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	opts, err := redis.ParseURL(*redisURL)
	if err != nil {
		log.Fatal("Invalid Redis URL:", err)
	}
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	ctx := context.Background()
	client, err := queue.NewClient(ctx, rdb, logger)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis successfully!")

	requests := queue.NewRequestQueue(client)

	alice := uuid.MustParse("00000000-0000-0000-0000-00000000a11c")

	// Listen before enqueueing so no event is missed
	sub := client.GetRedisClient().Subscribe(ctx, events.Channel(gameID))
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		log.Fatal("Failed to subscribe:", err)
	}

	goals := []goal.ConcreteGoal{
		goal.New("jm_book_quill"),
		goal.New("jm_different_edible"),
		goal.WithVars("jm_n_diamonds", map[string]int{"var": 3}),
		goal.New("jm_all_dyes"),
	}
	for i := len(goals); i < board.Size; i++ {
		goals = append(goals, goal.New(fmt.Sprintf("jm_placeholder_%02d", i)))
	}

	reqs := []*queuePkg.Request{
		queuePkg.NewPresenceRequest(gameID, alice, "Alice", true),
		queuePkg.NewItemRequest(gameID, alice, "minecraft:writable_book"),
		queuePkg.NewFillBoardRequest(gameID, queuePkg.BoardSpec{Members: []uuid.UUID{alice}, Goals: goals}),
	}
	for _, item := range []string{"minecraft:diamond", "minecraft:diamond", "minecraft:diamond", "minecraft:red_dye", "minecraft:blue_dye"} {
		reqs = append(reqs, queuePkg.NewItemRequest(gameID, alice, item))
	}
	reqs = append(reqs, queuePkg.NewEndGameRequest(gameID))

	for _, req := range reqs {
		if err := requests.Enqueue(ctx, req); err != nil {
			log.Fatal("Failed to enqueue request:", err)
		}
		fmt.Printf("Enqueued %s request: %s\n", req.Type, req.RequestID)
	}

	depth, err := requests.Depth(ctx)
	if err != nil {
		log.Fatal("Failed to get queue depth:", err)
	}
	fmt.Printf("Queue depth: %d\n", depth)

	fmt.Printf("Waiting for game events (%s)...\n", *wait)
	waitCtx, cancel := context.WithTimeout(ctx, *wait)
	defer cancel()

	ch := sub.Channel()
	for {
		select {
		case <-waitCtx.Done():
			fmt.Println("Done.")
			return
		case msg := <-ch:
			var event events.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				fmt.Printf("Unreadable event: %s\n", msg.Payload)
				continue
			}
			label := eventStyles[event.Type].Width(22).Render(string(event.Type))
			fmt.Printf("%s player=%s data=%v\n", label, event.Player, event.Data)
		}
	}
}
