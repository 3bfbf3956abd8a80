// Package trustrank computes per-identity trust scores over the signed
// identity graph using a fixed-iteration power method with a restart
// distribution taken from a lens's seeds.
package trustrank

import (
	"context"
	"sort"

	"github.com/openlens/trustfeed/store"
)

// Options contains tunables for a trust computation.
type Options struct {
	// Alpha is the propagation weight; (1 - Alpha) of each round's mass
	// comes from the restart distribution.
	Alpha float64
	// Beta scales how strongly distrust edges subtract score.
	Beta float64
	// Iterations is the fixed number of rounds. There is no convergence
	// check; the count is the contract.
	Iterations int
}

// DefaultOptions returns the reference tunables.
func DefaultOptions() Options {
	return Options{
		Alpha:      0.85,
		Beta:       0.5,
		Iterations: 50,
	}
}

func (o Options) normalized() Options {
	if o.Alpha <= 0 || o.Alpha >= 1 {
		o.Alpha = 0.85
	}
	if o.Beta <= 0 {
		o.Beta = 0.5
	}
	if o.Iterations <= 0 {
		o.Iterations = 50
	}
	return o
}

type arc struct {
	dst    int
	weight float64 // magnitude, > 0
}

// Compute runs the signed power iteration and returns a score in [0, 1]
// per identity. The result is relative (the most-trusted identity scores
// exactly 1.0 when any score is nonzero), not a probability distribution.
func Compute(edges []*store.Edge, seeds map[string]float64, opts Options) map[string]float64 {
	opts = opts.normalized()

	// Index every identity referenced by an edge, then every seeded
	// identity, so a seed-only graph still produces scores. Seed ids are
	// sorted for deterministic indexing.
	index := make(map[string]int)
	ids := []string{}
	add := func(id string) {
		if _, ok := index[id]; !ok {
			index[id] = len(ids)
			ids = append(ids, id)
		}
	}
	for _, e := range edges {
		add(e.Src)
		add(e.Dst)
	}
	seedIDs := make([]string, 0, len(seeds))
	for id := range seeds {
		seedIDs = append(seedIDs, id)
	}
	sort.Strings(seedIDs)
	for _, id := range seedIDs {
		add(id)
	}

	n := len(ids)
	if n == 0 {
		return map[string]float64{}
	}

	// Partition edges by sign into two adjacency lists and row-normalize
	// each by the sum of magnitudes of same-sign outgoing edges. A node
	// with no outgoing edges of a given sign contributes nothing to that
	// structure. Zero-weight edges carry no signal either way.
	pos := make([][]arc, n)
	neg := make([][]arc, n)
	posOut := make([]float64, n)
	negOut := make([]float64, n)
	for _, e := range edges {
		i, j := index[e.Src], index[e.Dst]
		switch {
		case e.Weight > 0:
			pos[i] = append(pos[i], arc{dst: j, weight: e.Weight})
			posOut[i] += e.Weight
		case e.Weight < 0:
			neg[i] = append(neg[i], arc{dst: j, weight: -e.Weight})
			negOut[i] += -e.Weight
		}
	}

	// Restart distribution from the seeds, normalized to sum to 1. When
	// the seeds carry no usable mass the restart falls back to uniform
	// rather than dumping everything on an arbitrary first-indexed node.
	restart := make([]float64, n)
	total := 0.0
	for id, weight := range seeds {
		if i, ok := index[id]; ok {
			restart[i] += weight
			total += weight
		}
	}
	if total > 0 {
		for i := range restart {
			restart[i] /= total
		}
	} else {
		for i := range restart {
			restart[i] = 1.0 / float64(n)
		}
	}

	// Iterate: t' = alpha*(P+^T t) - alpha*beta*(P-^T t) + (1-alpha)*s,
	// clipping negative components to zero after every round.
	trust := make([]float64, n)
	for i := range trust {
		trust[i] = 1.0 / float64(n)
	}
	next := make([]float64, n)
	for iter := 0; iter < opts.Iterations; iter++ {
		for i := range next {
			next[i] = (1 - opts.Alpha) * restart[i]
		}
		for i, arcs := range pos {
			if posOut[i] == 0 || trust[i] == 0 {
				continue
			}
			share := opts.Alpha * trust[i] / posOut[i]
			for _, a := range arcs {
				next[a.dst] += share * a.weight
			}
		}
		for i, arcs := range neg {
			if negOut[i] == 0 || trust[i] == 0 {
				continue
			}
			share := opts.Alpha * opts.Beta * trust[i] / negOut[i]
			for _, a := range arcs {
				next[a.dst] -= share * a.weight
			}
		}
		for i := range next {
			if next[i] < 0 {
				next[i] = 0
			}
		}
		trust, next = next, trust
	}

	// Normalize so the most-trusted identity scores exactly 1.0.
	maxScore := 0.0
	for _, v := range trust {
		if v > maxScore {
			maxScore = v
		}
	}
	scores := make(map[string]float64, n)
	for i, id := range ids {
		if maxScore > 0 {
			scores[id] = trust[i] / maxScore
		} else {
			scores[id] = 0
		}
	}
	return scores
}

// Engine computes trust vectors from the current store snapshot.
type Engine struct {
	store *store.Store
}

// NewEngine creates a new Engine.
func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}

// ComputeForLens loads the full edge set and runs Compute with the lens's
// seeds. The computation is stateless: nothing is cached between calls.
func (e *Engine) ComputeForLens(ctx context.Context, lens *store.Lens, opts Options) (map[string]float64, error) {
	edges, err := e.store.ListEdges(ctx, &store.FindEdge{})
	if err != nil {
		return nil, err
	}
	return Compute(edges, lens.Seeds, opts), nil
}
