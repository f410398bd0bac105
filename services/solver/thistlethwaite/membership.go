// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package thistlethwaite solves the cube in four staged reductions,
// each moving the state into a smaller nested subgroup with a smaller
// move set:
//
//	G0 = all moves            -> G1: edges oriented
//	G1 = no F/B quarter turns -> G2: corners oriented, E-slice home
//	G2 = no R/L quarter turns -> G3: pieces confined to their orbits
//	G3 = half turns only      -> solved
//
// Each stage runs iterative-deepening A* against an exact pattern
// database over that stage's quotient space. Solutions are not globally
// optimal but arrive in well-bounded time with modest tables.
package thistlethwaite

import (
	"sync"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/services/solver/coord"
)

// InG1 reports whether every edge is oriented.
func InG1(c cube.Cubie) bool {
	for _, o := range c.EdgeOrient {
		if o != 0 {
			return false
		}
	}
	return true
}

// InG2 reports whether, additionally, every corner is oriented and the
// E-slice edges are in the E-slice.
func InG2(c cube.Cubie) bool {
	if !InG1(c) {
		return false
	}
	for _, o := range c.CornerOrient {
		if o != 0 {
			return false
		}
	}
	return coord.UDSlice.Rank(c) == 0
}

// halfTurnSets enumerates the corner and edge permutations reachable
// with half turns alone. The half-turn group factors as the direct
// product of its corner action (96 permutations) and edge action (6912
// permutations), so membership splits into two independent lookups.
type halfTurnSets struct {
	corners map[[8]uint8]struct{}
	edges   map[[12]uint8]struct{}
}

var (
	g3Once sync.Once
	g3Sets halfTurnSets
)

func loadG3Sets() halfTurnSets {
	g3Once.Do(func() {
		g3Sets.corners = enumerateCorners()
		g3Sets.edges = enumerateEdges()
	})
	return g3Sets
}

func enumerateCorners() map[[8]uint8]struct{} {
	seen := make(map[[8]uint8]struct{}, 96)
	start := cube.Solved().CornerPerm
	seen[start] = struct{}{}
	frontier := [][8]uint8{start}
	for len(frontier) > 0 {
		var next [][8]uint8
		for _, cp := range frontier {
			state := cube.Solved()
			state.CornerPerm = cp
			for _, m := range coord.MovesHalfOnly.Moves {
				np := state.Apply(m).CornerPerm
				if _, ok := seen[np]; !ok {
					seen[np] = struct{}{}
					next = append(next, np)
				}
			}
		}
		frontier = next
	}
	return seen
}

func enumerateEdges() map[[12]uint8]struct{} {
	seen := make(map[[12]uint8]struct{}, 6912)
	start := cube.Solved().EdgePerm
	seen[start] = struct{}{}
	frontier := [][12]uint8{start}
	for len(frontier) > 0 {
		var next [][12]uint8
		for _, ep := range frontier {
			state := cube.Solved()
			state.EdgePerm = ep
			for _, m := range coord.MovesHalfOnly.Moves {
				np := state.Apply(m).EdgePerm
				if _, ok := seen[np]; !ok {
					seen[np] = struct{}{}
					next = append(next, np)
				}
			}
		}
		frontier = next
	}
	return seen
}

// InG3 reports whether the state lies in the half-turn group. Piece
// orbits alone do not characterize it (the tetrad-twist obstruction
// admits orbit-respecting permutations outside the group), so the test
// checks the enumerated reachable sets instead.
func InG3(c cube.Cubie) bool {
	if !InG2(c) {
		return false
	}
	sets := loadG3Sets()
	if _, ok := sets.corners[c.CornerPerm]; !ok {
		return false
	}
	_, ok := sets.edges[c.EdgePerm]
	return ok
}
