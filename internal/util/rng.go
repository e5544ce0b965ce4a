package util

import (
	"math"
	"math/rand/v2"
)

// pcgStream is the fixed second PCG word. Only the seed varies between runs.
const pcgStream = 0x9e3779b97f4a7c15

// Rng is the simulation's only source of randomness. PCG output is
// specified bit-for-bit by math/rand/v2, so a seed replays identically on
// every platform.
type Rng struct {
	r    *rand.Rand
	seed int64
}

func New(seed int64) *Rng {
	return &Rng{
		r:    rand.New(rand.NewPCG(uint64(seed), pcgStream)),
		seed: seed,
	}
}

func (g *Rng) Seed() int64 { return g.seed }

// NextInt returns a value in [minInclusive, maxExclusive). An empty range
// yields minInclusive.
func (g *Rng) NextInt(minInclusive, maxExclusive int) int {
	if maxExclusive <= minInclusive {
		return minInclusive
	}
	return minInclusive + g.r.IntN(maxExclusive-minInclusive)
}

// NextFloat01 is uniform in [0,1).
func (g *Rng) NextFloat01() float64 { return g.r.Float64() }

func (g *Rng) Chance(p float64) bool { return g.NextFloat01() < p }

type Weighted[T any] struct {
	Item   T
	Weight float64
}

// PickWeighted selects an item with probability proportional to
// max(weight, 0). When every weight is non-positive the first item wins;
// rounding residue at the upper boundary resolves to the last item.
// items must not be empty.
func PickWeighted[T any](g *Rng, items []Weighted[T]) T {
	if len(items) == 0 {
		panic("util: PickWeighted on empty list")
	}
	total := 0.0
	for _, it := range items {
		total += math.Max(0, it.Weight)
	}
	if total <= 0 {
		return items[0].Item
	}
	return pickAt(items, g.NextFloat01()*total)
}

// pickAt walks the cumulative weights down from r. Zero-weight items are
// never chosen, even for a roll of exactly 0.
func pickAt[T any](items []Weighted[T], r float64) T {
	for _, it := range items {
		w := math.Max(0, it.Weight)
		if w == 0 {
			continue
		}
		r -= w
		if r <= 0 {
			return it.Item
		}
	}
	return items[len(items)-1].Item
}
