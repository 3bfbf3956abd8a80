// Package feedrank assembles the personalized feed: it blends per-lens
// trust scores with each record's declared quality, decays by age and
// boosts attested content.
package feedrank

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	apperrors "github.com/openlens/trustfeed/internal/errors"
	"github.com/openlens/trustfeed/plugin/content"
	"github.com/openlens/trustfeed/server/trustrank"
	"github.com/openlens/trustfeed/store"
)

const (
	defaultWindow      = 500
	defaultLimit       = 200
	defaultParallelism = 8
	defaultHalfLife    = 48 * time.Hour

	// Signals absent from a record rank as neutral, not as zero.
	neutralSignal = 0.5

	attestationFactor = 0.3
)

// Options tunes one ranking pass.
type Options struct {
	// Window is how many of the newest feed events are considered.
	Window int
	// Limit caps the number of returned entries.
	Limit int
	// Parallelism bounds concurrent record fetches.
	Parallelism int64
	// HalfLife is the recency decay constant.
	HalfLife time.Duration
	// Filter is an optional boolean expression over entries.
	Filter string
	// Trust tunes the underlying trust computation.
	Trust trustrank.Options
}

func (o Options) normalized() Options {
	if o.Window <= 0 {
		o.Window = defaultWindow
	}
	if o.Limit <= 0 || o.Limit > defaultLimit {
		o.Limit = defaultLimit
	}
	if o.Parallelism <= 0 {
		o.Parallelism = defaultParallelism
	}
	if o.HalfLife <= 0 {
		o.HalfLife = defaultHalfLife
	}
	return o
}

// Item is one ranked feed entry.
type Item struct {
	Cid       string    `json:"cid"`
	Title     string    `json:"title"`
	Type      string    `json:"type,omitempty"`
	Publisher string    `json:"publisher"`
	Love      float64   `json:"love"`
	Trust     float64   `json:"trust"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// Ranker computes personalized feeds from the event log.
type Ranker struct {
	store   *store.Store
	content content.Service
	engine  *trustrank.Engine
	now     func() time.Time
}

// NewRanker creates a ranker over st and the content service.
func NewRanker(st *store.Store, contentService content.Service) *Ranker {
	return &Ranker{
		store:   st,
		content: contentService,
		engine:  trustrank.NewEngine(st),
		now:     time.Now,
	}
}

// RankFeed ranks the newest events through the lens identified by lensID.
// Individual fetch or parse failures drop the affected entry; the pass
// only fails for an unknown lens, an invalid filter or a store error.
func (r *Ranker) RankFeed(ctx context.Context, lensID string, opts Options) ([]*Item, error) {
	opts = opts.normalized()

	var filter *Filter
	if opts.Filter != "" {
		var err error
		if filter, err = CompileFilter(opts.Filter); err != nil {
			return nil, err
		}
	}

	lens, err := r.store.GetLens(ctx, &store.FindLens{ID: &lensID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load lens")
	}
	if lens == nil {
		return nil, apperrors.LensNotFound(lensID)
	}

	trust, err := r.engine.ComputeForLens(ctx, lens, opts.Trust)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute trust vector")
	}

	events, err := r.store.ListFeedEvents(ctx, &store.FindFeedEvent{Limit: &opts.Window})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list feed events")
	}

	// Events arrive newest-first; keep only the newest occurrence per cid.
	seen := make(map[string]bool, len(events))
	candidates := events[:0:0]
	for _, event := range events {
		if seen[event.Cid] {
			continue
		}
		seen[event.Cid] = true
		candidates = append(candidates, event)
	}

	requestID := uuid.NewString()
	sem := semaphore.NewWeighted(opts.Parallelism)
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		items []*Item
	)
	for _, event := range candidates {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, errors.Wrap(err, "ranking pass aborted")
		}
		wg.Add(1)
		go func(event *store.FeedEvent) {
			defer sem.Release(1)
			defer wg.Done()

			record, err := r.content.Fetch(ctx, event.Cid)
			if err != nil {
				slog.Warn("dropping feed entry",
					"request_id", requestID,
					"cid", event.Cid,
					"error", err,
				)
				return
			}
			item := r.score(record, event, lens, trust, opts)
			mu.Lock()
			items = append(items, item)
			mu.Unlock()
		}(event)
	}
	wg.Wait()
	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), "ranking pass aborted")
	}

	if filter != nil {
		kept := items[:0]
		for _, item := range items {
			if filter.Match(item) {
				kept = append(kept, item)
			}
		}
		items = kept
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	return items, nil
}

func (r *Ranker) score(record *content.Record, event *store.FeedEvent, lens *store.Lens, trust map[string]float64, opts Options) *Item {
	publisher := record.Publisher
	if publisher == "" {
		publisher = event.Did
	}

	trustScore, ok := trust[publisher]
	if !ok {
		trustScore = neutralSignal
	}

	love := neutralSignal
	if record.Love != nil {
		love = clamp01(*record.Love)
	}

	age := r.now().Sub(record.CreatedAt).Seconds()
	if age < 0 {
		age = 0
	}
	recency := math.Exp(-age / opts.HalfLife.Seconds())
	boost := 1 + attestationFactor*math.Log1p(float64(len(record.Evidence)))

	return &Item{
		Cid:       record.Cid,
		Title:     record.Title,
		Type:      record.Type,
		Publisher: publisher,
		Love:      love,
		Trust:     trustScore,
		Score:     (lens.Lambda*love + (1-lens.Lambda)*trustScore) * recency * boost,
		CreatedAt: record.CreatedAt,
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
