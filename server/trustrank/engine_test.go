package trustrank

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openlens/trustfeed/store"
)

func edge(src, dst string, weight float64) *store.Edge {
	return &store.Edge{Src: src, Dst: dst, Weight: weight}
}

func TestComputeEmptyGraph(t *testing.T) {
	scores := Compute(nil, nil, DefaultOptions())
	require.Empty(t, scores)
}

func TestComputeSeedOnly(t *testing.T) {
	scores := Compute(nil, map[string]float64{"alice": 1.0}, DefaultOptions())
	require.Len(t, scores, 1)
	require.Equal(t, 1.0, scores["alice"])
}

func TestComputeBounds(t *testing.T) {
	// Random signed graphs must always produce scores in [0, 1], with the
	// top identity pinned at exactly 1.0.
	rng := rand.New(rand.NewSource(42))
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	for trial := 0; trial < 20; trial++ {
		var edges []*store.Edge
		for _, src := range ids {
			for _, dst := range ids {
				if src == dst || rng.Float64() < 0.5 {
					continue
				}
				edges = append(edges, edge(src, dst, rng.Float64()*2-1))
			}
		}
		seeds := map[string]float64{ids[rng.Intn(len(ids))]: 1.0}

		scores := Compute(edges, seeds, DefaultOptions())
		require.Len(t, scores, len(ids))
		maxScore := 0.0
		for id, v := range scores {
			require.GreaterOrEqual(t, v, 0.0, "trial %d, id %s", trial, id)
			require.LessOrEqual(t, v, 1.0, "trial %d, id %s", trial, id)
			if v > maxScore {
				maxScore = v
			}
		}
		require.Equal(t, 1.0, maxScore, "trial %d", trial)
	}
}

func TestComputeClipsEveryRound(t *testing.T) {
	// A two-node cycle with a distrust back-edge stresses the per-round
	// clipping: at no iteration count may any intermediate state surface a
	// negative or out-of-range score.
	edges := []*store.Edge{
		edge("a", "b", 1.0),
		edge("b", "a", -1.0),
	}
	seeds := map[string]float64{"a": 1.0}

	for iters := 1; iters <= 50; iters++ {
		opts := Options{Alpha: 0.85, Beta: 0.5, Iterations: iters}
		scores := Compute(edges, seeds, opts)
		for id, v := range scores {
			require.GreaterOrEqual(t, v, 0.0, "iters %d, id %s", iters, id)
			require.LessOrEqual(t, v, 1.0, "iters %d, id %s", iters, id)
		}
	}
}

func TestComputeNegativeEdgeDampens(t *testing.T) {
	positive := []*store.Edge{
		edge("a", "b", 0.9),
		edge("b", "c", 0.8),
	}
	withDistrust := append(append([]*store.Edge{}, positive...), edge("a", "c", -0.5))
	seeds := map[string]float64{"a": 1.0}

	baseline := Compute(positive, seeds, DefaultOptions())
	dampened := Compute(withDistrust, seeds, DefaultOptions())

	// The seed holds the top relative score either way, endorsement keeps b
	// above c, and the distrust edge strictly lowers c.
	require.Equal(t, 1.0, dampened["a"])
	require.Greater(t, dampened["b"], dampened["c"])
	require.Greater(t, dampened["c"], 0.0)
	require.Less(t, dampened["c"], baseline["c"])
}

func TestComputeZeroSeedsFallsBackToUniform(t *testing.T) {
	edges := []*store.Edge{
		edge("a", "b", 1.0),
		edge("b", "a", 1.0),
	}

	for name, seeds := range map[string]map[string]float64{
		"nil":       nil,
		"zero-mass": {"a": 0.0},
		"unknown":   {"nobody-here": 1.0},
	} {
		t.Run(name, func(t *testing.T) {
			scores := Compute(edges, seeds, DefaultOptions())
			// Uniform restart over a symmetric cycle keeps both nodes equal.
			require.InDelta(t, scores["a"], scores["b"], 1e-9)
			require.Equal(t, 1.0, scores["a"])
		})
	}
}

func TestComputeZeroWeightEdgeIsInert(t *testing.T) {
	base := []*store.Edge{edge("a", "b", 0.7)}
	withZero := append(append([]*store.Edge{}, base...), edge("a", "c", 0.0))
	seeds := map[string]float64{"a": 1.0}

	got := Compute(withZero, seeds, DefaultOptions())
	want := Compute(base, seeds, DefaultOptions())
	require.InDelta(t, want["b"], got["b"], 1e-12)
	// The zero-weight edge still introduces c as a node, just without signal.
	require.Equal(t, 0.0, got["c"])
}

func TestComputeDeterministic(t *testing.T) {
	edges := []*store.Edge{
		edge("a", "b", 0.9),
		edge("b", "c", 0.8),
		edge("c", "a", -0.3),
	}
	seeds := map[string]float64{"a": 0.7, "b": 0.3}

	first := Compute(edges, seeds, DefaultOptions())
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Compute(edges, seeds, DefaultOptions()), "run %d", i)
	}
}

func TestComputeSeedMassNormalized(t *testing.T) {
	edges := []*store.Edge{edge("a", "b", 1.0)}

	// Scaling all seed weights by a constant must not change the result.
	small := Compute(edges, map[string]float64{"a": 0.001}, DefaultOptions())
	large := Compute(edges, map[string]float64{"a": 1000}, DefaultOptions())
	for id := range small {
		require.InDelta(t, small[id], large[id], 1e-9, "id %s", id)
	}
}

func TestComputeZeroValueOptionsMatchDefaults(t *testing.T) {
	// A zero-value Options must behave exactly like DefaultOptions; in
	// particular the distrust edge must still dampen c.
	edges := []*store.Edge{
		edge("a", "b", 0.9),
		edge("b", "c", 0.8),
		edge("a", "c", -0.5),
	}
	seeds := map[string]float64{"a": 1.0}

	got := Compute(edges, seeds, Options{})
	want := Compute(edges, seeds, DefaultOptions())
	require.Equal(t, want, got)

	withoutDistrust := Compute(edges[:2], seeds, Options{})
	require.Less(t, got["c"], withoutDistrust["c"])
}

func TestOptionsNormalized(t *testing.T) {
	defaults := DefaultOptions()
	got := Options{}.normalized()
	require.Equal(t, defaults.Alpha, got.Alpha)
	require.Equal(t, defaults.Beta, got.Beta)
	require.Equal(t, defaults.Iterations, got.Iterations)

	kept := Options{Alpha: 0.5, Beta: 0, Iterations: 10}.normalized()
	require.Equal(t, 0.5, kept.Alpha)
	require.Equal(t, 0.5, kept.Beta)
}

func BenchmarkCompute(b *testing.B) {
	rng := rand.New(rand.NewSource(7))
	n := 500
	var edges []*store.Edge
	for i := 0; i < n*10; i++ {
		src := fmt.Sprintf("id-%d", rng.Intn(n))
		dst := fmt.Sprintf("id-%d", rng.Intn(n))
		if src == dst {
			continue
		}
		edges = append(edges, edge(src, dst, rng.Float64()*2-1))
	}
	seeds := map[string]float64{"id-0": 1.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Compute(edges, seeds, DefaultOptions())
	}
}
