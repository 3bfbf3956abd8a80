package store

import (
	"context"

	apperrors "github.com/openlens/trustfeed/internal/errors"
)

// Edge is a signed, weighted directed relation between two identities.
// The pair (Src, Dst) is the key: re-inserting it replaces weight,
// evidence and timestamp (last-write-wins, not append).
type Edge struct {
	Src         string
	Dst         string
	Weight      float64
	EvidenceRef *string
	CreatedTs   int64
}

// FindEdge is the find condition for edge.
type FindEdge struct {
	Src *string
	Dst *string

	// Sign filters edges by weight sign: +1 trust, -1 distrust.
	Sign *int

	// Pagination
	Limit  *int
	Offset *int
}

// DeleteEdge is the delete request for edge.
type DeleteEdge struct {
	Src string
	Dst string
}

// UpsertEdge stores an edge, replacing any prior edge for the same
// (src, dst) pair. The referenced identities are registered implicitly.
func (s *Store) UpsertEdge(ctx context.Context, upsert *Edge) (*Edge, error) {
	if upsert.Weight < -1 || upsert.Weight > 1 {
		return nil, apperrors.InvalidWeight(upsert.Weight)
	}

	// Implicit creation on first edge reference.
	for _, id := range []string{upsert.Src, upsert.Dst} {
		if _, err := s.RegisterIdentity(ctx, &Identity{ID: id}); err != nil {
			return nil, err
		}
	}

	return s.driver.UpsertEdge(ctx, upsert)
}

// ListEdges lists edges with filter.
func (s *Store) ListEdges(ctx context.Context, find *FindEdge) ([]*Edge, error) {
	return s.driver.ListEdges(ctx, find)
}

// DeleteEdge deletes an edge.
func (s *Store) DeleteEdge(ctx context.Context, delete *DeleteEdge) error {
	return s.driver.DeleteEdge(ctx, delete)
}
