// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cube

// Move identifies one of the 18 base transformations: 6 faces, each as a
// clockwise quarter turn, a half turn, or a counter-clockwise quarter turn.
type Move uint8

const (
	MoveU Move = iota
	MoveU2
	MoveUPrime
	MoveD
	MoveD2
	MoveDPrime
	MoveR
	MoveR2
	MoveRPrime
	MoveL
	MoveL2
	MoveLPrime
	MoveF
	MoveF2
	MoveFPrime
	MoveB
	MoveB2
	MoveBPrime

	// NumMoves is the size of the full move set.
	NumMoves = 18
)

// Face identifies a face of the cube.
type Face uint8

const (
	FaceU Face = iota
	FaceD
	FaceR
	FaceL
	FaceF
	FaceB
)

// AllMoves is the full 18-move set in canonical order.
var AllMoves = func() []Move {
	ms := make([]Move, NumMoves)
	for i := range ms {
		ms[i] = Move(i)
	}
	return ms
}()

// Face returns the face the move turns.
func (m Move) Face() Face {
	return Face(m / 3)
}

// Inverse returns the move that undoes m. Half turns are self-inverse.
func (m Move) Inverse() Move {
	face := m / 3
	return face*3 + (2 - m%3)
}

// opposite face on the same axis: U/D, R/L, F/B.
func (f Face) opposite() Face {
	return f ^ 1
}

// Redundant reports whether next is pruned after prev in a canonical
// search order. Two cases: a second turn of the same face (the pair
// collapses to a single move), and opposite-face turns applied in
// non-canonical order (U before D, F before B, L before R), which would
// enumerate both interleavings of a pair of commuting moves.
func Redundant(prev, next Move) bool {
	pf, nf := prev.Face(), next.Face()
	if pf == nf {
		return true
	}
	if pf.opposite() != nf {
		return false
	}
	switch {
	case pf == FaceD && nf == FaceU:
		return true
	case pf == FaceB && nf == FaceF:
		return true
	case pf == FaceR && nf == FaceL:
		return true
	}
	return false
}

// Base quarter-turn transformations. Each array is the standard cubie
// delta for a clockwise turn of the face: perm[i] names the slot whose
// piece moves into slot i, orient[i] the twist/flip added at slot i.
var baseMoves = [6]Cubie{
	// U: UBR -> URF -> UFL -> ULB -> UBR
	{
		CornerPerm: [8]uint8{3, 0, 1, 2, 4, 5, 6, 7},
		EdgePerm:   [12]uint8{3, 0, 1, 2, 4, 5, 6, 7, 8, 9, 10, 11},
	},
	// D: DFR -> DLF -> DBL -> DRB -> DFR
	{
		CornerPerm: [8]uint8{0, 1, 2, 3, 5, 6, 7, 4},
		EdgePerm:   [12]uint8{0, 1, 2, 3, 5, 6, 7, 4, 8, 9, 10, 11},
	},
	// R: corners twist through the R layer, edges keep orientation
	{
		CornerPerm:   [8]uint8{4, 1, 2, 0, 7, 5, 6, 3},
		CornerOrient: [8]uint8{2, 0, 0, 1, 1, 0, 0, 2},
		EdgePerm:     [12]uint8{8, 1, 2, 3, 11, 5, 6, 7, 4, 9, 10, 0},
	},
	// L
	{
		CornerPerm:   [8]uint8{0, 2, 6, 3, 4, 1, 5, 7},
		CornerOrient: [8]uint8{0, 1, 2, 0, 0, 2, 1, 0},
		EdgePerm:     [12]uint8{0, 1, 10, 3, 4, 5, 9, 7, 8, 2, 6, 11},
	},
	// F: the four moved edges flip
	{
		CornerPerm:   [8]uint8{1, 5, 2, 3, 0, 4, 6, 7},
		CornerOrient: [8]uint8{1, 2, 0, 0, 2, 1, 0, 0},
		EdgePerm:     [12]uint8{0, 9, 2, 3, 4, 8, 6, 7, 1, 5, 10, 11},
		EdgeOrient:   [12]uint8{0, 1, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0},
	},
	// B
	{
		CornerPerm:   [8]uint8{0, 1, 3, 7, 4, 5, 2, 6},
		CornerOrient: [8]uint8{0, 0, 1, 2, 0, 0, 2, 1},
		EdgePerm:     [12]uint8{0, 1, 2, 11, 4, 5, 6, 10, 8, 9, 3, 7},
		EdgeOrient:   [12]uint8{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 1, 1},
	},
}

// moveCubes holds the transformation for every Move. Half turns and
// counter-clockwise turns are derived from the base quarter turns.
var moveCubes = func() [NumMoves]Cubie {
	var out [NumMoves]Cubie
	for f := 0; f < 6; f++ {
		q := baseMoves[f]
		out[f*3] = q
		out[f*3+1] = q.Multiply(q)
		out[f*3+2] = q.Multiply(q).Multiply(q)
	}
	return out
}()
