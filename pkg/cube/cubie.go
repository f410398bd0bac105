// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package cube provides the cubie-level model of the 3x3x3 puzzle.
//
// A cube state is described by two parallel layers:
//
//   - Corner layer: a permutation of 8 corner slots plus a twist value
//     in {0,1,2} per slot.
//   - Edge layer: a permutation of 12 edge slots plus a flip value in
//     {0,1} per slot.
//
// Corner slots are numbered URF=0, UFL=1, ULB=2, UBR=3, DFR=4, DLF=5,
// DBL=6, DRB=7. Edge slots are numbered UR=0, UF=1, UL=2, UB=3, DR=4,
// DF=5, DL=6, DB=7, FR=8, FL=9, BL=10, BR=11.
//
// Cubie is a comparable value type: applying a move returns a new value
// and never mutates shared state, so states can be copied freely between
// goroutines and used directly as map keys in search closed sets.
//
// # Reachability Invariants
//
// Not every (permutation, orientation) combination is a legal cube:
// corner permutation parity must equal edge permutation parity, corner
// twists must sum to 0 mod 3, and edge flips must sum to 0 mod 2. Every
// move is a legal group element, so states built by applying moves to
// Solved() always satisfy these. Validate rejects anything else; a
// violating state is a caller error, not a recoverable condition.
package cube

// Cubie is a cubie-level cube state.
//
// CornerPerm[i] holds which corner piece occupies slot i, and
// CornerOrient[i] its clockwise twist count. EdgePerm and EdgeOrient are
// the analogous edge layer.
type Cubie struct {
	CornerPerm   [8]uint8
	CornerOrient [8]uint8
	EdgePerm     [12]uint8
	EdgeOrient   [12]uint8
}

// Solved returns the distinguished solved state: every piece in its home
// slot with zero orientation.
func Solved() Cubie {
	var c Cubie
	for i := range c.CornerPerm {
		c.CornerPerm[i] = uint8(i)
	}
	for i := range c.EdgePerm {
		c.EdgePerm[i] = uint8(i)
	}
	return c
}

// IsSolved reports whether c equals the solved state.
func (c Cubie) IsSolved() bool {
	return c == Solved()
}

// Multiply composes c with other and returns the product.
//
// The product is "c then other": other's permutation is read as slot
// sources into c, and orientations add in the slot's modulus. Moves are
// themselves Cubie values, so move application is multiplication by the
// move's transformation. Composition is associative but not commutative.
func (c Cubie) Multiply(other Cubie) Cubie {
	var out Cubie
	for i := 0; i < 8; i++ {
		src := other.CornerPerm[i]
		out.CornerPerm[i] = c.CornerPerm[src]
		out.CornerOrient[i] = (c.CornerOrient[src] + other.CornerOrient[i]) % 3
	}
	for i := 0; i < 12; i++ {
		src := other.EdgePerm[i]
		out.EdgePerm[i] = c.EdgePerm[src]
		out.EdgeOrient[i] = (c.EdgeOrient[src] + other.EdgeOrient[i]) % 2
	}
	return out
}

// Apply returns the state after applying a single move to c.
func (c Cubie) Apply(m Move) Cubie {
	return c.Multiply(moveCubes[m])
}

// ApplySequence returns the state after applying each move in order.
func (c Cubie) ApplySequence(seq []Move) Cubie {
	for _, m := range seq {
		c = c.Apply(m)
	}
	return c
}
