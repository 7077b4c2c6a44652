package board

import (
	"math/rand"
	"strings"
	"testing"
)

func TestMatrixRoundTrip(t *testing.T) {
	matrices := [][4][4]int{
		{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
		{{2, 4, 8, 16}, {32, 64, 128, 256}, {512, 1024, 2048, 4096}, {8192, 16384, 32768, 0}},
		{{2, 0, 2, 0}, {0, 4, 0, 4}, {0, 0, 0, 0}, {0, 0, 0, 0}},
	}

	for _, m := range matrices {
		b := FromMatrix(m)
		got := b.ToMatrix()
		if got != m {
			t.Errorf("round trip mismatch: got %v, want %v", got, m)
		}
	}
}

func TestRowTableSelfConsistency(t *testing.T) {
	for row := 0; row < 65536; row += 37 { // sample, full sweep is slow but deterministic
		want := computeRowLeft(uint16(row))
		got := leftTable()[row]
		if got != want {
			t.Fatalf("leftTable[%04x] = %+v, want %+v", row, got, want)
		}

		rev := reverseRow(uint16(row))
		lr := computeRowLeft(rev)
		wantRight := rowResult{row: reverseRow(lr.row), score: lr.score}
		gotRight := rightTable()[row]
		if gotRight != wantRight {
			t.Fatalf("rightTable[%04x] = %+v, want %+v", row, gotRight, wantRight)
		}
	}
}

func TestRowMergeLeft(t *testing.T) {
	// 0x1,0x1,0x2,0x2 -> 0x2,0x3,0x0,0x0 with score 4+8=12
	row := uint16(0x1122)
	res := leftTable()[row]
	if res.row != 0x2300 {
		t.Errorf("row = %04x, want %04x", res.row, 0x2300)
	}
	if res.score != 12 {
		t.Errorf("score = %d, want 12", res.score)
	}
}

func TestNoOpDetection(t *testing.T) {
	// Single tile at position 0 (exp 1), empty elsewhere.
	b := Board(0).Set(0, 1)

	if _, _, moved := b.TryMove(Left); moved {
		t.Error("Left should be a no-op")
	}

	result, _, moved := b.TryMove(Down)
	if !moved {
		t.Fatal("Down should move the tile")
	}
	if result.Get(12) != 1 {
		t.Errorf("expected tile at position 12, got board %v", result.ToMatrix())
	}
}

func TestTerminalBoard(t *testing.T) {
	b := FromMatrix([4][4]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	if !b.IsTerminal() {
		t.Fatal("expected board to be terminal")
	}

	// Changing one cell to match its right neighbor breaks termination.
	b2 := b.Set(0, b.Get(1))
	if b2.IsTerminal() {
		t.Fatal("expected board to be non-terminal after matching neighbors")
	}
}

func TestTerminalCorrectness(t *testing.T) {
	boards := []Board{
		FromMatrix([4][4]int{{2, 4, 2, 4}, {4, 2, 4, 2}, {2, 4, 2, 4}, {4, 2, 4, 2}}),
		FromMatrix([4][4]int{{2, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}),
		Board(0),
	}

	for _, b := range boards {
		anyMove := false
		for _, d := range Directions {
			if _, _, moved := b.TryMove(d); moved {
				anyMove = true
			}
		}
		if b.IsTerminal() == anyMove {
			t.Errorf("IsTerminal()=%v inconsistent with move availability=%v for board %v", b.IsTerminal(), anyMove, b.ToMatrix())
		}
	}
}

func TestSpawnDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	counts := map[int]int{}
	const n = 10000
	for i := 0; i < n; i++ {
		b := SpawnRandom(rng, Board(0))
		for p := 0; p < 16; p++ {
			if e := b.Get(p); e != 0 {
				counts[e]++
			}
		}
	}

	f1 := float64(counts[1]) / float64(n)
	f2 := float64(counts[2]) / float64(n)
	if f1 < 0.89 || f1 > 0.91 {
		t.Errorf("exponent-1 frequency %.4f outside [0.89, 0.91]", f1)
	}
	if f2 < 0.09 || f2 > 0.11 {
		t.Errorf("exponent-2 frequency %.4f outside [0.09, 0.11]", f2)
	}
}

func TestSpawnOnFullBoardIsNoOp(t *testing.T) {
	m := [4][4]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}
	b := FromMatrix(m)
	rng := rand.New(rand.NewSource(1))
	if got := SpawnRandom(rng, b); got != b {
		t.Errorf("spawn on full board should be a no-op")
	}
}

func TestRenderShowsTileValuesAndBlanks(t *testing.T) {
	b := FromMatrix([4][4]int{
		{2, 0, 0, 0},
		{0, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 2048},
	})

	got := b.Render()
	for _, want := range []string{"2", "4", "2048"} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing tile value %q:\n%s", want, got)
		}
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 9 {
		t.Fatalf("Render() produced %d lines, want 9 (4 rows + 5 border/separator lines)", len(lines))
	}
}

func TestCountEmptyAndMaxTile(t *testing.T) {
	b := FromMatrix([4][4]int{
		{2, 0, 0, 0},
		{0, 32768, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	if got := b.CountEmpty(); got != 14 {
		t.Errorf("CountEmpty() = %d, want 14", got)
	}
	if got := b.MaxTileValue(); got != 32768 {
		t.Errorf("MaxTileValue() = %d, want 32768", got)
	}
}
