package store

import (
	"context"
	"fmt"

	"github.com/lithammer/shortuuid/v4"

	apperrors "github.com/openlens/trustfeed/internal/errors"
)

// Lens is a named personalization configuration: a restart (seed)
// distribution for trust propagation plus the lambda blend parameter
// used by the feed ranker.
type Lens struct {
	ID        string
	Label     string
	Lambda    float64
	Seeds     map[string]float64
	CreatedTs int64
}

// FindLens is the find condition for lens.
type FindLens struct {
	ID *string

	// Pagination
	Limit  *int
	Offset *int
}

// DeleteLens is the delete request for lens.
type DeleteLens struct {
	ID string
}

// CreateLens creates a lens. Lambda is clamped into [0, 1]; negative seed
// weights are rejected. Re-creating an existing id overwrites it.
func (s *Store) CreateLens(ctx context.Context, create *Lens) (*Lens, error) {
	for id, weight := range create.Seeds {
		if weight < 0 {
			return nil, apperrors.InvalidLens(fmt.Sprintf("seed weight for %q must be non-negative, got %g", id, weight))
		}
	}

	if create.Lambda < 0 {
		create.Lambda = 0
	} else if create.Lambda > 1 {
		create.Lambda = 1
	}
	if create.ID == "" {
		create.ID = shortuuid.New()
	}
	if create.Seeds == nil {
		create.Seeds = map[string]float64{}
	}

	lens, err := s.driver.UpsertLens(ctx, create)
	if err != nil {
		return nil, err
	}
	s.lensCache.Set(lens.ID, lens)
	return lens, nil
}

// GetLens gets a lens by id. Returns nil when the lens does not exist.
func (s *Store) GetLens(ctx context.Context, find *FindLens) (*Lens, error) {
	if find.ID != nil {
		if v, ok := s.lensCache.Get(*find.ID); ok {
			return v.(*Lens), nil
		}
	}

	list, err := s.driver.ListLenses(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	lens := list[0]
	s.lensCache.Set(lens.ID, lens)
	return lens, nil
}

// ListLenses lists lenses, most-recently-created first.
func (s *Store) ListLenses(ctx context.Context, find *FindLens) ([]*Lens, error) {
	return s.driver.ListLenses(ctx, find)
}

// DeleteLens deletes a lens.
func (s *Store) DeleteLens(ctx context.Context, delete *DeleteLens) error {
	if err := s.driver.DeleteLens(ctx, delete); err != nil {
		return err
	}
	s.lensCache.Delete(delete.ID)
	return nil
}
