// Package content provides content-addressed record fetching with an
// in-process cache. Records are keyed by cid; because the identifier is a
// hash of the content, cached entries never go stale.
package content

import (
	"context"
	"time"
)

// Record is a parsed content record.
type Record struct {
	Cid       string
	Title     string
	Type      string
	Publisher string
	// Love is the declared quality/affect signal in [0, 1]; nil when the
	// record does not carry one.
	Love      *float64
	Evidence  []string
	CreatedAt time.Time
}

// Service is the content service interface. Fetch returns InvalidCid for
// malformed identifiers, FetchError when the backend is unreachable and
// ParseError for content that is not valid structured data. Callers must
// not treat any of these as fatal for a batch.
type Service interface {
	Fetch(ctx context.Context, cid string) (*Record, error)
}
