package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Identity model related methods.
	UpsertIdentity(ctx context.Context, upsert *Identity) (*Identity, error)
	ListIdentities(ctx context.Context, find *FindIdentity) ([]*Identity, error)

	// Edge model related methods.
	UpsertEdge(ctx context.Context, upsert *Edge) (*Edge, error)
	ListEdges(ctx context.Context, find *FindEdge) ([]*Edge, error)
	DeleteEdge(ctx context.Context, delete *DeleteEdge) error

	// Lens model related methods.
	UpsertLens(ctx context.Context, upsert *Lens) (*Lens, error)
	ListLenses(ctx context.Context, find *FindLens) ([]*Lens, error)
	DeleteLens(ctx context.Context, delete *DeleteLens) error

	// FeedEvent model related methods.
	CreateFeedEvent(ctx context.Context, create *FeedEvent) (*FeedEvent, error)
	ListFeedEvents(ctx context.Context, find *FindFeedEvent) ([]*FeedEvent, error)
}
