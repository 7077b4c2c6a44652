package board

import "math/rand"

// NewGame spawns two random tiles on an empty board, as the start of a
// fresh episode.
func NewGame(rng *rand.Rand) Board {
	var b Board
	b = SpawnRandom(rng, b)
	b = SpawnRandom(rng, b)
	return b
}

// SpawnRandom places a tile on a uniformly chosen empty cell: exponent 1
// (value 2) with probability 0.9, exponent 2 (value 4) with probability
// 0.1. If the board is full it is returned unchanged.
func SpawnRandom(rng *rand.Rand, b Board) Board {
	var empty []int
	for p := 0; p < 16; p++ {
		if b.Get(p) == 0 {
			empty = append(empty, p)
		}
	}
	if len(empty) == 0 {
		return b
	}

	pos := empty[rng.Intn(len(empty))]
	exp := 1
	if rng.Float64() >= 0.9 {
		exp = 2
	}
	return b.Set(pos, exp)
}
