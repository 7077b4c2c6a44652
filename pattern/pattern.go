// Package pattern defines the fixed n-tuple patterns used by the network
// package and the D4 dihedral symmetry transforms applied to them.
//
// Board position indices (4x4):
//
//	 0  1  2  3
//	 4  5  6  7
//	 8  9 10 11
//	12 13 14 15
package pattern

// Pattern is an ordered sequence of distinct board positions; order
// matters, since it defines the base-16 encoding of the tuple index.
type Pattern []int

// RowCol4Tuple is the default training catalog: the four rows and four
// columns, each a 4-tuple.
var RowCol4Tuple = []Pattern{
	{0, 1, 2, 3}, {4, 5, 6, 7}, {8, 9, 10, 11}, {12, 13, 14, 15},
	{0, 4, 8, 12}, {1, 5, 9, 13}, {2, 6, 10, 14}, {3, 7, 11, 15},
}

// Rectangle6Tuple is the 2x3 rectangle 6-tuple catalog.
var Rectangle6Tuple = []Pattern{
	{0, 1, 2, 4, 5, 6},
	{1, 2, 3, 5, 6, 7},
	{4, 5, 6, 8, 9, 10},
	{5, 6, 7, 9, 10, 11},
	{8, 9, 10, 12, 13, 14},
	{9, 10, 11, 13, 14, 15},
}

// Corner6Tuple is the corner (2x2 plus extension) 6-tuple catalog.
var Corner6Tuple = []Pattern{
	{0, 1, 4, 5, 8, 9},
	{2, 3, 6, 7, 10, 11},
	{4, 5, 8, 9, 12, 13},
	{6, 7, 10, 11, 14, 15},
}

// Standard10Tuple is the combined rectangle+corner 10-pattern catalog
// commonly used for stronger play at a higher memory cost.
var Standard10Tuple = []Pattern{
	{0, 1, 2, 4, 5, 6},
	{4, 5, 6, 8, 9, 10},
	{1, 2, 3, 5, 6, 7},
	{5, 6, 7, 9, 10, 11},
	{8, 9, 10, 12, 13, 14},
	{9, 10, 11, 13, 14, 15},
	{0, 1, 4, 5, 8, 9},
	{2, 3, 6, 7, 10, 11},
	{4, 5, 8, 9, 12, 13},
	{6, 7, 10, 11, 14, 15},
}

// LUTSize returns the number of weight slots needed for a pattern of the
// given length (16^length).
func LUTSize(length int) int {
	size := 1
	for i := 0; i < length; i++ {
		size *= 16
	}
	return size
}
