package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/bingo-engine/pkg/trigger"
)

// Storage defines a unified interface for all storage operations
// Inventories live in Redis; trigger documents are read from the filesystem
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Inventory operations (Redis-backed)
	// LoadInventory returns items in acquisition order, repeats included,
	// and an empty slice for an identity with no recorded items
	RecordItem(ctx context.Context, gameID, playerID uuid.UUID, item string) error
	LoadInventory(ctx context.Context, gameID, playerID uuid.UUID) ([]string, error)
	ClearInventory(ctx context.Context, gameID, playerID uuid.UUID) error

	// Trigger operations (filesystem-backed)
	LoadTriggerCatalog(ctx context.Context, filename string) (*trigger.Catalog, error)
	ListTriggerFiles(ctx context.Context) ([]string, error)
}
