package network

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ntup2048/trainer/board"
	"github.com/ntup2048/trainer/pattern"
)

func TestEvaluationDeterminismZeroWeights(t *testing.T) {
	n := New(pattern.RowCol4Tuple)
	b := board.FromMatrix([4][4]int{
		{2, 4, 8, 16},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	require.Equal(t, 0.0, n.Evaluate(b))
}

func TestSymmetryInvarianceOfEvaluation(t *testing.T) {
	n := New(pattern.RowCol4Tuple)
	b := board.FromMatrix([4][4]int{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 0, 0, 0},
	})

	n.Update(b, 3.5)

	base := n.Evaluate(b)
	for _, tr := range pattern.Symmetries() {
		sb := applyTransform(b, tr)
		if got := n.Evaluate(sb); got != base {
			t.Errorf("V(sigma(b)) = %v, want %v", got, base)
		}
	}
}

func TestUpdateLinearity(t *testing.T) {
	n := New(pattern.RowCol4Tuple)
	b := board.FromMatrix([4][4]int{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 2, 4, 8},
	})

	before := n.Evaluate(b)
	const delta = 0.25
	n.Update(b, delta)
	after := n.Evaluate(b)

	want := before + float64(8*len(pattern.RowCol4Tuple))*delta
	require.InDelta(t, want, after, 1e-9)
}

func TestExportImportRoundTrip(t *testing.T) {
	n := New(pattern.RowCol4Tuple)
	b := board.FromMatrix([4][4]int{{2, 4, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}})
	n.Update(b, 1.5)

	exp, err := n.Export(nil)
	require.NoError(t, err)

	n2 := New(pattern.RowCol4Tuple)
	require.NoError(t, n2.LoadExport(exp))

	for _, board2 := range []board.Board{b, board.Board(0)} {
		require.Equal(t, n.Evaluate(board2), n2.Evaluate(board2))
	}
}

func TestLoadExportShapeMismatch(t *testing.T) {
	n := New(pattern.RowCol4Tuple)
	bad := Export{
		Version:  1,
		Patterns: [][]int{{0, 1, 2}},
		Weights:  [][]float64{make([]float64, 4096)},
	}
	err := n.LoadExport(bad)
	require.ErrorIs(t, err, ErrWeightShapeMismatch)
}

func TestOptimisticInit(t *testing.T) {
	n := New(pattern.RowCol4Tuple)
	n.InitOptimistic(10.0)
	b := board.Board(0)
	want := 10.0 * float64(8*len(pattern.RowCol4Tuple))
	require.InDelta(t, want, n.Evaluate(b), 1e-9)
}

// applyTransform permutes a board's tiles through a position transform,
// used only to test the network's D4 invariance.
func applyTransform(b board.Board, t pattern.Transform) board.Board {
	var out board.Board
	for p := 0; p < 16; p++ {
		out = out.Set(t[p], b.Get(p))
	}
	return out
}
