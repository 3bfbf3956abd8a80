// Package test provides store helpers for package tests.
package test

import (
	"context"
	"testing"

	"github.com/openlens/trustfeed/internal/profile"
	"github.com/openlens/trustfeed/store"
	"github.com/openlens/trustfeed/store/db/sqlite"
)

// NewTestingStore creates a store backed by an in-memory SQLite database
// with the latest schema applied.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    ":memory:",
		Data:   t.TempDir(),
	}

	driver, err := sqlite.NewDB(p)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// An in-memory SQLite database exists per connection; keep the pool at
	// one connection so every query sees the same database.
	driver.GetDB().SetMaxOpenConns(1)

	st := store.New(driver, p)
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
