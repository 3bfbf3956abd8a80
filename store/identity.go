package store

import (
	"context"
)

// Identity is a node in the trust graph, identified by a stable string id.
type Identity struct {
	ID        string
	Label     string
	CreatedTs int64
	UpdatedTs int64
}

// FindIdentity is the find condition for identity.
type FindIdentity struct {
	ID *string

	// Pagination
	Limit  *int
	Offset *int
}

// RegisterIdentity registers an identity. Registration is idempotent:
// re-registering an existing id never errors, and a non-empty label
// replaces the stored one.
func (s *Store) RegisterIdentity(ctx context.Context, upsert *Identity) (*Identity, error) {
	identity, err := s.driver.UpsertIdentity(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.identityCache.Set(identity.ID, identity)
	return identity, nil
}

// GetIdentity gets an identity by id.
func (s *Store) GetIdentity(ctx context.Context, find *FindIdentity) (*Identity, error) {
	if find.ID != nil {
		if v, ok := s.identityCache.Get(*find.ID); ok {
			return v.(*Identity), nil
		}
	}

	list, err := s.driver.ListIdentities(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	identity := list[0]
	s.identityCache.Set(identity.ID, identity)
	return identity, nil
}

// ListIdentities lists identities with filter.
func (s *Store) ListIdentities(ctx context.Context, find *FindIdentity) ([]*Identity, error) {
	return s.driver.ListIdentities(ctx, find)
}
