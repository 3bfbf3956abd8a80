package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/openlens/trustfeed/internal/errors"
	"github.com/openlens/trustfeed/store"
)

func TestEdgeStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	edge, err := ts.UpsertEdge(ctx, &store.Edge{Src: "alice", Dst: "bob", Weight: 0.9})
	require.NoError(t, err)
	require.Equal(t, 0.9, edge.Weight)

	// Endpoints are registered implicitly.
	for _, id := range []string{"alice", "bob"} {
		identity, err := ts.GetIdentity(ctx, &store.FindIdentity{ID: &id})
		require.NoError(t, err)
		require.NotNil(t, identity)
	}

	// Re-inserting the same pair replaces, not appends.
	evidence := "bafyevidence000000000001"
	edge, err = ts.UpsertEdge(ctx, &store.Edge{Src: "alice", Dst: "bob", Weight: -0.4, EvidenceRef: &evidence})
	require.NoError(t, err)
	require.Equal(t, -0.4, edge.Weight)
	require.NotNil(t, edge.EvidenceRef)

	list, err := ts.ListEdges(ctx, &store.FindEdge{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, -0.4, list[0].Weight)
}

func TestEdgeStoreWeightValidation(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	for _, weight := range []float64{-1.5, 1.01, 42} {
		_, err := ts.UpsertEdge(ctx, &store.Edge{Src: "alice", Dst: "bob", Weight: weight})
		require.Error(t, err)
		require.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidWeight), "weight %g", weight)
	}
	// Rejection happens before any write.
	list, err := ts.ListEdges(ctx, &store.FindEdge{})
	require.NoError(t, err)
	require.Empty(t, list)

	// Boundary values are accepted.
	for _, weight := range []float64{-1, 0, 1} {
		_, err := ts.UpsertEdge(ctx, &store.Edge{Src: "alice", Dst: "bob", Weight: weight})
		require.NoError(t, err, "weight %g", weight)
	}
}

func TestEdgeStoreFilters(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	_, err := ts.UpsertEdge(ctx, &store.Edge{Src: "alice", Dst: "bob", Weight: 0.9})
	require.NoError(t, err)
	_, err = ts.UpsertEdge(ctx, &store.Edge{Src: "alice", Dst: "carol", Weight: -0.5})
	require.NoError(t, err)
	_, err = ts.UpsertEdge(ctx, &store.Edge{Src: "bob", Dst: "carol", Weight: 0.2})
	require.NoError(t, err)

	src := "alice"
	list, err := ts.ListEdges(ctx, &store.FindEdge{Src: &src})
	require.NoError(t, err)
	require.Len(t, list, 2)

	negative := -1
	list, err = ts.ListEdges(ctx, &store.FindEdge{Sign: &negative})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "carol", list[0].Dst)

	require.NoError(t, ts.DeleteEdge(ctx, &store.DeleteEdge{Src: "alice", Dst: "bob"}))
	list, err = ts.ListEdges(ctx, &store.FindEdge{})
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Deleting an already-deleted or never-existing pair is a no-op.
	require.NoError(t, ts.DeleteEdge(ctx, &store.DeleteEdge{Src: "alice", Dst: "bob"}))
	require.NoError(t, ts.DeleteEdge(ctx, &store.DeleteEdge{Src: "nobody", Dst: "noone"}))
}
