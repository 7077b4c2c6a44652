package pattern

// Transform is a position-to-position lookup table for one of the eight
// D4 dihedral symmetries, collapsed to a flat array per spec.md's
// "dynamic dispatch" design note: branch-free, no polymorphism.
type Transform [16]int

func coord(pos int) (r, c int) { return pos / 4, pos % 4 }
func index(r, c int) int       { return r*4 + c }

func identityXY(r, c int) (int, int) { return r, c }
func rot90XY(r, c int) (int, int)    { return c, 3 - r }
func rot180XY(r, c int) (int, int)   { return 3 - r, 3 - c }
func rot270XY(r, c int) (int, int)   { return 3 - c, r }
func mirrorXY(r, c int) (int, int)   { return r, 3 - c }

func buildTransform(f func(r, c int) (int, int)) Transform {
	var t Transform
	for p := 0; p < 16; p++ {
		r, c := coord(p)
		nr, nc := f(r, c)
		t[p] = index(nr, nc)
	}
	return t
}

func compose(outer, inner Transform) Transform {
	var t Transform
	for p := 0; p < 16; p++ {
		t[p] = outer[inner[p]]
	}
	return t
}

// symmetries holds the eight precomputed transforms in a fixed order:
// identity, rot90, rot180, rot270, mirror, mirror∘rot90, mirror∘rot180,
// mirror∘rot270.
var symmetries = buildSymmetries()

func buildSymmetries() [8]Transform {
	identity := buildTransform(identityXY)
	rot90 := buildTransform(rot90XY)
	rot180 := buildTransform(rot180XY)
	rot270 := buildTransform(rot270XY)
	mirror := buildTransform(mirrorXY)

	return [8]Transform{
		identity,
		rot90,
		rot180,
		rot270,
		mirror,
		compose(rot90, mirror),
		compose(rot180, mirror),
		compose(rot270, mirror),
	}
}

// Symmetries returns the eight D4 position-transform lookup tables.
func Symmetries() [8]Transform {
	return symmetries
}

// Expand applies all eight symmetry transforms to a base pattern,
// producing the eight patterns that share one weight table.
func Expand(base Pattern) [8]Pattern {
	var out [8]Pattern
	for i, t := range symmetries {
		p := make(Pattern, len(base))
		for j, pos := range base {
			p[j] = t[pos]
		}
		out[i] = p
	}
	return out
}
