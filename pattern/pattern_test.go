package pattern

import "testing"

func TestSymmetriesAreBijections(t *testing.T) {
	for i, tr := range Symmetries() {
		seen := map[int]bool{}
		for _, p := range tr {
			if seen[p] {
				t.Fatalf("symmetry %d is not a bijection: position %d repeated", i, p)
			}
			seen[p] = true
		}
	}
}

func TestIdentityIsFirst(t *testing.T) {
	id := Symmetries()[0]
	for p := 0; p < 16; p++ {
		if id[p] != p {
			t.Fatalf("identity[%d] = %d, want %d", p, id[p], p)
		}
	}
}

func TestRot90Corners(t *testing.T) {
	rot90 := Symmetries()[1]
	// top-left (0,0) -> (0,3)
	if got := rot90[0]; got != 3 {
		t.Errorf("rot90[0] = %d, want 3", got)
	}
	// top-right (0,3) -> (3,3)
	if got := rot90[3]; got != 15 {
		t.Errorf("rot90[3] = %d, want 15", got)
	}
}

func TestExpandProducesEightDistinctOrEqualPatterns(t *testing.T) {
	expanded := Expand(Pattern{0, 1, 2, 3})
	if len(expanded) != 8 {
		t.Fatalf("expected 8 symmetric patterns, got %d", len(expanded))
	}
	for _, p := range expanded {
		if len(p) != 4 {
			t.Errorf("expected pattern length 4, got %d", len(p))
		}
	}
}

func TestLUTSize(t *testing.T) {
	if got := LUTSize(4); got != 65536 {
		t.Errorf("LUTSize(4) = %d, want 65536", got)
	}
	if got := LUTSize(6); got != 16777216 {
		t.Errorf("LUTSize(6) = %d, want 16777216", got)
	}
}
