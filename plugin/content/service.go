package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/openlens/trustfeed/internal/errors"
	"github.com/openlens/trustfeed/plugin/markdown"
	"github.com/openlens/trustfeed/store/cache"
)

type wireMeta struct {
	Publisher string `json:"publisher"`
	CreatedAt string `json:"createdAt"`
}

type wireRecord struct {
	Title    string   `json:"title,omitempty"`
	Type     string   `json:"type,omitempty"`
	Content  string   `json:"content,omitempty"`
	Meta     wireMeta `json:"meta"`
	Love     *float64 `json:"love"`
	Evidence []string `json:"evidence"`
}

// CachingService fetches records through a gateway, parses them and keeps
// them in a capacity-bounded cache. Concurrent fetches of the same cid are
// coalesced into a single backend request.
type CachingService struct {
	gateway  Gateway
	cache    *cache.Cache
	group    singleflight.Group
	markdown *markdown.Service
}

// NewCachingService creates a content service over gateway. maxItems
// bounds the cache; content addressing means entries never need to
// expire, only to be evicted for space.
func NewCachingService(gateway Gateway, maxItems int) *CachingService {
	if maxItems <= 0 {
		maxItems = 4096
	}
	return &CachingService{
		gateway: gateway,
		cache: cache.New(cache.Config{
			DefaultTTL:      30 * 24 * time.Hour,
			CleanupInterval: time.Hour,
			MaxItems:        maxItems,
		}),
		markdown: markdown.NewService(),
	}
}

// Fetch returns the record for cid, from cache when possible.
func (s *CachingService) Fetch(ctx context.Context, cid string) (*Record, error) {
	if err := ValidateCid(cid); err != nil {
		return nil, err
	}
	if v, ok := s.cache.Get(cid); ok {
		return v.(*Record), nil
	}

	v, err, _ := s.group.Do(cid, func() (any, error) {
		if v, ok := s.cache.Get(cid); ok {
			return v, nil
		}
		raw, err := s.gateway.Get(ctx, cid)
		if err != nil {
			return nil, err
		}
		record, err := s.parse(cid, raw)
		if err != nil {
			return nil, err
		}
		s.cache.Set(cid, record)
		return record, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

func (s *CachingService) parse(cid string, raw []byte) (*Record, error) {
	var wire wireRecord
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, apperrors.ParseError(fmt.Sprintf("invalid record %s", cid), err)
	}

	record := &Record{
		Cid:       cid,
		Title:     wire.Title,
		Type:      wire.Type,
		Publisher: wire.Meta.Publisher,
		Love:      wire.Love,
		Evidence:  wire.Evidence,
	}
	if record.Title == "" && wire.Content != "" {
		record.Title = s.markdown.ExtractTitle(wire.Content)
	}
	if wire.Meta.CreatedAt != "" {
		ts, err := time.Parse(time.RFC3339, wire.Meta.CreatedAt)
		if err != nil {
			return nil, apperrors.ParseError(fmt.Sprintf("invalid createdAt in record %s", cid), err)
		}
		record.CreatedAt = ts
	} else {
		// A record without a timestamp ranks as brand new rather than
		// infinitely old.
		record.CreatedAt = time.Now()
	}
	return record, nil
}

// Close releases the cache's background resources.
func (s *CachingService) Close() {
	s.cache.Close()
}
