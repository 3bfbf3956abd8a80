package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/openlens/trustfeed/internal/errors"
	"github.com/openlens/trustfeed/store"
)

func TestLensStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	lens, err := ts.CreateLens(ctx, &store.Lens{
		Label:  "friends",
		Lambda: 0.7,
		Seeds:  map[string]float64{"alice": 1.0, "bob": 0.5},
	})
	require.NoError(t, err)
	require.NotEmpty(t, lens.ID, "an id is generated when absent")
	require.Equal(t, 0.7, lens.Lambda)
	require.Len(t, lens.Seeds, 2)

	got, err := ts.GetLens(ctx, &store.FindLens{ID: &lens.ID})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, lens.Seeds, got.Seeds)

	missingID := "no-such-lens"
	missing, err := ts.GetLens(ctx, &store.FindLens{ID: &missingID})
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, ts.DeleteLens(ctx, &store.DeleteLens{ID: lens.ID}))
	gone, err := ts.GetLens(ctx, &store.FindLens{ID: &lens.ID})
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestLensStoreValidation(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	_, err := ts.CreateLens(ctx, &store.Lens{
		Label: "bad",
		Seeds: map[string]float64{"alice": -0.1},
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidLens))

	// Lambda is clamped, not rejected.
	lens, err := ts.CreateLens(ctx, &store.Lens{Label: "hot", Lambda: 3})
	require.NoError(t, err)
	require.Equal(t, 1.0, lens.Lambda)

	lens, err = ts.CreateLens(ctx, &store.Lens{Label: "cold", Lambda: -3})
	require.NoError(t, err)
	require.Equal(t, 0.0, lens.Lambda)

	// Nil seeds come back as an empty map, not nil.
	require.NotNil(t, lens.Seeds)
	require.Empty(t, lens.Seeds)
}

func TestLensStoreListOrder(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	for i, id := range []string{"first", "second", "third"} {
		_, err := ts.CreateLens(ctx, &store.Lens{ID: id, Label: id, CreatedTs: int64(1000 + i)})
		require.NoError(t, err)
	}

	list, err := ts.ListLenses(ctx, &store.FindLens{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "third", list[0].ID, "newest first")
	require.Equal(t, "first", list[2].ID)
}

func TestLensStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	_, err := ts.CreateLens(ctx, &store.Lens{ID: "main", Label: "v1", Lambda: 0.2})
	require.NoError(t, err)
	_, err = ts.CreateLens(ctx, &store.Lens{ID: "main", Label: "v2", Lambda: 0.8})
	require.NoError(t, err)

	got, err := ts.GetLens(ctx, &store.FindLens{ID: func() *string { s := "main"; return &s }()})
	require.NoError(t, err)
	require.Equal(t, "v2", got.Label)
	require.Equal(t, 0.8, got.Lambda)

	list, err := ts.ListLenses(ctx, &store.FindLens{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}
