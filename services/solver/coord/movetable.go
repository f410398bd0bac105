// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package coord

import (
	"github.com/AleutianAI/AleutianCube/pkg/cube"
)

// MoveSet is a named, ordered subset of the eighteen face turns. Staged
// solvers restrict each phase to the generators of the target subgroup;
// the name is part of the pattern-database cache identity.
type MoveSet struct {
	Name  string
	Moves []cube.Move

	// Generating marks a set whose moves generate the whole cube
	// group. A pattern-database build under a generating set must
	// reach every coordinate; falling short means the space or the
	// transition source is broken.
	Generating bool
}

// Contains reports whether m is in the set.
func (s MoveSet) Contains(m cube.Move) bool {
	for _, v := range s.Moves {
		if v == m {
			return true
		}
	}
	return false
}

// The move sets used by the staged solvers, from least to most
// restricted. Each successive set generates a smaller subgroup.
var (
	// MovesAll is every face turn.
	MovesAll = MoveSet{Name: "all", Moves: cube.AllMoves, Generating: true}

	// MovesNoQuarterFB drops F, F', B, B'. This set preserves edge
	// orientation.
	MovesNoQuarterFB = MoveSet{Name: "no-quarter-fb", Moves: []cube.Move{
		cube.MoveU, cube.MoveU2, cube.MoveUPrime,
		cube.MoveD, cube.MoveD2, cube.MoveDPrime,
		cube.MoveR, cube.MoveR2, cube.MoveRPrime,
		cube.MoveL, cube.MoveL2, cube.MoveLPrime,
		cube.MoveF2, cube.MoveB2,
	}}

	// MovesNoQuarterFBRL additionally drops R, R', L, L'. This set
	// preserves corner orientation and the E-slice, and is the
	// second-phase set of the two-phase solver.
	MovesNoQuarterFBRL = MoveSet{Name: "no-quarter-fbrl", Moves: []cube.Move{
		cube.MoveU, cube.MoveU2, cube.MoveUPrime,
		cube.MoveD, cube.MoveD2, cube.MoveDPrime,
		cube.MoveR2, cube.MoveL2, cube.MoveF2, cube.MoveB2,
	}}

	// MovesHalfOnly is the six half turns. This set preserves every
	// piece's orbit.
	MovesHalfOnly = MoveSet{Name: "half-only", Moves: []cube.Move{
		cube.MoveU2, cube.MoveD2, cube.MoveR2,
		cube.MoveL2, cube.MoveF2, cube.MoveB2,
	}}
)

// MoveTable precomputes coordinate transitions for one space under one
// move set, so a search advances a coordinate with a single slice read.
//
// Memory is Size × len(Moves) × 4 bytes; build the table only for
// spaces small enough to afford that (the elementary spaces and their
// pairwise products, not the optimal-solver spaces).
type MoveTable struct {
	space Space
	set   MoveSet
	next  []int32
}

// BuildMoveTable computes the full transition table by unranking each
// coordinate, applying each move, and re-ranking.
func BuildMoveTable(space Space, set MoveSet) *MoveTable {
	n := space.Size()
	k := len(set.Moves)
	t := &MoveTable{
		space: space,
		set:   set,
		next:  make([]int32, n*k),
	}
	for i := 0; i < n; i++ {
		c := space.Unrank(i)
		for j, m := range set.Moves {
			t.next[i*k+j] = int32(space.Rank(c.Apply(m)))
		}
	}
	return t
}

// Space returns the coordinate space the table was built over.
func (t *MoveTable) Space() Space { return t.space }

// Set returns the move set the table was built over.
func (t *MoveTable) Set() MoveSet { return t.set }

// Next returns the coordinate reached from idx by the set's j-th move.
func (t *MoveTable) Next(idx, j int) int {
	return int(t.next[idx*len(t.set.Moves)+j])
}
