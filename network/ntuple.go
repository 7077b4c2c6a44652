// Package network implements the n-tuple evaluator/updater: for each named
// pattern, it sums and updates weights across all eight symmetric
// placements of that pattern on the board, giving the evaluation function
// D4 invariance for free (tied weights).
package network

import (
	"github.com/ntup2048/trainer/board"
	"github.com/ntup2048/trainer/pattern"
)

// entry is one base pattern's tied weight table plus its eight symmetric
// instances, expanded once at construction time.
type entry struct {
	base      pattern.Pattern
	symmetric [8]pattern.Pattern
	weights   []float64
}

// Network is a sum of per-pattern weight tables, each shared across eight
// symmetric placements of its base pattern on the board.
type Network struct {
	entries []entry
}

// New builds a Network for the given base patterns, with all weights
// initialized to zero.
func New(patterns []pattern.Pattern) *Network {
	n := &Network{entries: make([]entry, len(patterns))}
	for i, p := range patterns {
		n.entries[i] = entry{
			base:      p,
			symmetric: pattern.Expand(p),
			weights:   make([]float64, pattern.LUTSize(len(p))),
		}
	}
	return n
}

// tupleIndex computes the base-16 interpretation of the tile exponents at
// the pattern's positions, in pattern order.
func tupleIndex(b board.Board, p pattern.Pattern) int {
	idx := 0
	for _, pos := range p {
		idx = idx*16 + b.Get(pos)
	}
	return idx
}

// Evaluate returns V(b): the sum, over every base pattern and every one of
// its eight symmetric instances, of the weight at that instance's tuple
// index.
func (n *Network) Evaluate(b board.Board) float64 {
	total := 0.0
	for _, e := range n.entries {
		for _, sp := range e.symmetric {
			total += e.weights[tupleIndex(b, sp)]
		}
	}
	return total
}

// Update adds delta to each of the 8*len(patterns) table entries that
// Evaluate(b) reads, keeping all eight symmetric instances of every
// pattern consistent with each other.
func (n *Network) Update(b board.Board, delta float64) {
	for _, e := range n.entries {
		for _, sp := range e.symmetric {
			e.weights[tupleIndex(b, sp)] += delta
		}
	}
}

// InitOptimistic fills every weight with v0, encouraging early exploration
// of novel states.
func (n *Network) InitOptimistic(v0 float64) {
	for _, e := range n.entries {
		for i := range e.weights {
			e.weights[i] = v0
		}
	}
}

// Patterns returns the base patterns this network was built from.
func (n *Network) Patterns() []pattern.Pattern {
	out := make([]pattern.Pattern, len(n.entries))
	for i, e := range n.entries {
		out[i] = e.base
	}
	return out
}
