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

// Singleton instances of the elementary coordinate spaces. All of them
// are stateless; the vars exist so callers can pass them around without
// re-constructing.
var (
	// CornerOrient encodes the twist of all eight corners. The first
	// seven twists are free base-3 digits; the eighth is fixed by the
	// twist invariant.
	CornerOrient Space = cornerOrient{}

	// EdgeOrient encodes the flip of all twelve edges. The first eleven
	// flips are free bits; the twelfth is fixed by the flip invariant.
	EdgeOrient Space = edgeOrient{}

	// UDSlice encodes which four slots hold the E-slice edges (FR, FL,
	// BL, BR). The binomial rank is reversed so the solved state maps
	// to coordinate 0.
	UDSlice Space = udSlice{}

	// CornerPerm encodes the full corner permutation.
	CornerPerm Space = cornerPerm{}

	// UDEdgePerm encodes the permutation of the eight U/D-layer edge
	// slots. It is only meaningful on states whose E-slice edges are
	// home (UDSlice coordinate 0).
	UDEdgePerm Space = udEdgePerm{}

	// SlicePerm encodes the permutation of the four E-slice slots. Like
	// UDEdgePerm it assumes the E-slice edges are home.
	SlicePerm Space = slicePerm{}

	// CornerFull encodes corner permutation and orientation jointly.
	// This is the classic 88 million entry optimal-solver corner space.
	CornerFull Space = cornerFull{}

	// TetradOrbit encodes which corner slots hold first-tetrad corners,
	// which edge slots hold U/D-middle-orbit edges, and the corner
	// permutation parity.
	TetradOrbit Space = tetradOrbit{}

	// EdgeGroupA and EdgeGroupB each track the slot and flip of six of
	// the twelve edges. Together they cover every edge once.
	EdgeGroupA = NewEdgeGroup("edge-group-a", [6]uint8{0, 1, 2, 3, 4, 5})
	EdgeGroupB = NewEdgeGroup("edge-group-b", [6]uint8{6, 7, 8, 9, 10, 11})

	// TwistSlice and FlipSlice pair an orientation coordinate with the
	// E-slice location coordinate. These are the standard two-phase
	// first-phase pruning spaces.
	TwistSlice = NewProduct("twist-slice", CornerOrient, UDSlice, mergeCornersEdges)
	FlipSlice  = NewProduct("flip-slice", EdgeOrient, UDSlice, mergeOrientPerm)

	// CornerSlicePerm and EdgeSlicePerm pair a permutation coordinate
	// with the E-slice permutation. These are the standard two-phase
	// second-phase pruning spaces.
	CornerSlicePerm = NewProduct("corner-slice-perm", CornerPerm, SlicePerm, mergeCornersEdges)
	EdgeSlicePerm   = NewProduct("edge-slice-perm", UDEdgePerm, SlicePerm, mergeEdgeSlots)
)

const (
	firstTetradMask = 1<<0 | 1<<2 | 1<<5 | 1<<7 // URF, ULB, DLF, DRB
	middleOrbitMask = 1<<1 | 1<<3 | 1<<5 | 1<<7 // UF, UB, DF, DB
)

type cornerOrient struct{}

func (cornerOrient) Name() string { return "corner-orient" }
func (cornerOrient) Size() int    { return 2187 }

func (cornerOrient) Rank(c cube.Cubie) int {
	rank := 0
	for i := 0; i < 7; i++ {
		rank = rank*3 + int(c.CornerOrient[i])
	}
	return rank
}

func (cornerOrient) Unrank(i int) cube.Cubie {
	c := cube.Solved()
	total := 0
	for k := 6; k >= 0; k-- {
		d := uint8(i % 3)
		i /= 3
		c.CornerOrient[k] = d
		total += int(d)
	}
	c.CornerOrient[7] = uint8((3 - total%3) % 3)
	return c
}

type edgeOrient struct{}

func (edgeOrient) Name() string { return "edge-orient" }
func (edgeOrient) Size() int    { return 2048 }

func (edgeOrient) Rank(c cube.Cubie) int {
	rank := 0
	for i := 0; i < 11; i++ {
		rank = rank*2 + int(c.EdgeOrient[i])
	}
	return rank
}

func (edgeOrient) Unrank(i int) cube.Cubie {
	c := cube.Solved()
	total := 0
	for k := 10; k >= 0; k-- {
		d := uint8(i % 2)
		i /= 2
		c.EdgeOrient[k] = d
		total += int(d)
	}
	c.EdgeOrient[11] = uint8(total % 2)
	return c
}

type udSlice struct{}

func (udSlice) Name() string { return "ud-slice" }
func (udSlice) Size() int    { return 495 }

func (udSlice) Rank(c cube.Cubie) int {
	var marked [12]bool
	for i := 0; i < 12; i++ {
		marked[i] = c.EdgePerm[i] >= 8
	}
	// Reverse the binomial rank so the home position (slots 8-11) is 0.
	return 494 - RankCombination(marked[:], 4)
}

func (udSlice) Unrank(i int) cube.Cubie {
	var marked [12]bool
	UnrankCombination(494-i, marked[:], 4)
	c := cube.Solved()
	slice, other := uint8(8), uint8(0)
	for s := 0; s < 12; s++ {
		if marked[s] {
			c.EdgePerm[s] = slice
			slice++
		} else {
			c.EdgePerm[s] = other
			other++
		}
	}
	return c
}

type cornerPerm struct{}

func (cornerPerm) Name() string { return "corner-perm" }
func (cornerPerm) Size() int    { return 40320 }

func (cornerPerm) Rank(c cube.Cubie) int {
	return RankPermutation(c.CornerPerm[:])
}

func (cornerPerm) Unrank(i int) cube.Cubie {
	c := cube.Solved()
	UnrankPermutation(i, c.CornerPerm[:])
	return c
}

type udEdgePerm struct{}

func (udEdgePerm) Name() string { return "ud-edge-perm" }
func (udEdgePerm) Size() int    { return 40320 }

func (udEdgePerm) Rank(c cube.Cubie) int {
	return RankPermutation(c.EdgePerm[:8])
}

func (udEdgePerm) Unrank(i int) cube.Cubie {
	c := cube.Solved()
	UnrankPermutation(i, c.EdgePerm[:8])
	return c
}

type slicePerm struct{}

func (slicePerm) Name() string { return "slice-perm" }
func (slicePerm) Size() int    { return 24 }

func (slicePerm) Rank(c cube.Cubie) int {
	var p [4]uint8
	for i := range p {
		p[i] = c.EdgePerm[8+i] - 8
	}
	return RankPermutation(p[:])
}

func (slicePerm) Unrank(i int) cube.Cubie {
	var p [4]uint8
	UnrankPermutation(i, p[:])
	c := cube.Solved()
	for k := range p {
		c.EdgePerm[8+k] = p[k] + 8
	}
	return c
}

type cornerFull struct{}

func (cornerFull) Name() string { return "corner-full" }
func (cornerFull) Size() int    { return 40320 * 2187 }

func (cornerFull) Rank(c cube.Cubie) int {
	return RankPermutation(c.CornerPerm[:])*2187 + CornerOrient.Rank(c)
}

func (cornerFull) Unrank(i int) cube.Cubie {
	c := CornerOrient.Unrank(i % 2187)
	UnrankPermutation(i/2187, c.CornerPerm[:])
	return c
}

type tetradOrbit struct{}

func (tetradOrbit) Name() string { return "tetrad-orbit" }
func (tetradOrbit) Size() int    { return 70 * 495 * 2 }

func (tetradOrbit) Rank(c cube.Cubie) int {
	var corners [8]bool
	for i := 0; i < 8; i++ {
		corners[i] = firstTetradMask&(1<<c.CornerPerm[i]) != 0
	}
	var edges [12]bool
	for i := 0; i < 12; i++ {
		edges[i] = c.EdgePerm[i] < 8 && middleOrbitMask&(1<<c.EdgePerm[i]) != 0
	}
	parity := permParity(c.CornerPerm[:])
	return (RankCombination(corners[:], 4)*495+RankCombination(edges[:], 4))*2 + parity
}

func (tetradOrbit) Unrank(i int) cube.Cubie {
	parity := i & 1
	orbitRank := (i >> 1) % 495
	tetradRank := (i >> 1) / 495

	var corners [8]bool
	UnrankCombination(tetradRank, corners[:], 4)
	var edges [12]bool
	UnrankCombination(orbitRank, edges[:], 4)

	c := cube.Solved()
	first := []uint8{0, 2, 5, 7}
	second := []uint8{1, 3, 4, 6}
	var secondSlots []int
	for s := 0; s < 8; s++ {
		if corners[s] {
			c.CornerPerm[s] = first[0]
			first = first[1:]
		} else {
			c.CornerPerm[s] = second[0]
			second = second[1:]
			secondSlots = append(secondSlots, s)
		}
	}
	// Fix up the representative's parity by swapping two same-tetrad
	// corners, which leaves both combination coordinates untouched.
	if permParity(c.CornerPerm[:]) != parity {
		a, b := secondSlots[2], secondSlots[3]
		c.CornerPerm[a], c.CornerPerm[b] = c.CornerPerm[b], c.CornerPerm[a]
	}

	orbit := []uint8{1, 3, 5, 7}
	rest := []uint8{0, 2, 4, 6, 8, 9, 10, 11}
	for s := 0; s < 12; s++ {
		if edges[s] {
			c.EdgePerm[s] = orbit[0]
			orbit = orbit[1:]
		} else {
			c.EdgePerm[s] = rest[0]
			rest = rest[1:]
		}
	}
	return c
}

// EdgeGroup tracks the slot and flip of a fixed six-edge subset. The
// coordinate is the ordered slot arrangement of the tracked edges times
// 64, plus one flip bit per tracked edge.
type EdgeGroup struct {
	name  string
	edges [6]uint8
}

// NewEdgeGroup builds an edge-subset space over the given piece ids,
// which must be distinct and sorted.
func NewEdgeGroup(name string, edges [6]uint8) *EdgeGroup {
	return &EdgeGroup{name: name, edges: edges}
}

func (g *EdgeGroup) Name() string { return g.name }
func (g *EdgeGroup) Size() int    { return 12 * 11 * 10 * 9 * 8 * 7 * 64 }

func (g *EdgeGroup) Rank(c cube.Cubie) int {
	var slots [6]uint8
	bits := 0
	for k, piece := range g.edges {
		for s := uint8(0); s < 12; s++ {
			if c.EdgePerm[s] == piece {
				slots[k] = s
				bits |= int(c.EdgeOrient[s]) << k
				break
			}
		}
	}
	return RankArrangement(slots[:], 12)*64 + bits
}

func (g *EdgeGroup) Unrank(i int) cube.Cubie {
	bits := i & 63
	var slots [6]uint8
	UnrankArrangement(i>>6, slots[:], 12)

	c := cube.Solved()
	var taken [12]bool
	for k, piece := range g.edges {
		s := slots[k]
		c.EdgePerm[s] = piece
		c.EdgeOrient[s] = uint8(bits >> k & 1)
		taken[s] = true
	}
	// Untracked edges fill the remaining slots in piece order. Any
	// filler works: the tracked projection transforms independently.
	var rest []uint8
	for p := uint8(0); p < 12; p++ {
		tracked := false
		for _, piece := range g.edges {
			if p == piece {
				tracked = true
				break
			}
		}
		if !tracked {
			rest = append(rest, p)
		}
	}
	for s := uint8(0); s < 12; s++ {
		if !taken[s] {
			c.EdgePerm[s] = rest[0]
			c.EdgeOrient[s] = 0
			rest = rest[1:]
		}
	}
	return c
}

// Product combines two spaces over disjoint projections into one index
// range of size a.Size*b.Size. The merge function builds a joint
// representative from the two part representatives.
type Product struct {
	name  string
	a, b  Space
	merge func(a, b cube.Cubie) cube.Cubie
}

// NewProduct pairs two spaces. The projections must be disjoint so that
// ranks compose and merge cannot conflict.
func NewProduct(name string, a, b Space, merge func(a, b cube.Cubie) cube.Cubie) *Product {
	return &Product{name: name, a: a, b: b, merge: merge}
}

func (p *Product) Name() string { return p.name }
func (p *Product) Size() int    { return p.a.Size() * p.b.Size() }

func (p *Product) Rank(c cube.Cubie) int {
	return p.a.Rank(c)*p.b.Size() + p.b.Rank(c)
}

func (p *Product) Unrank(i int) cube.Cubie {
	return p.merge(p.a.Unrank(i/p.b.Size()), p.b.Unrank(i%p.b.Size()))
}

// mergeCornersEdges takes the corner layer from a and the edge layer
// from b.
func mergeCornersEdges(a, b cube.Cubie) cube.Cubie {
	out := b
	out.CornerPerm = a.CornerPerm
	out.CornerOrient = a.CornerOrient
	return out
}

// mergeOrientPerm takes edge orientations from a and edge permutation
// from b.
func mergeOrientPerm(a, b cube.Cubie) cube.Cubie {
	out := b
	out.EdgeOrient = a.EdgeOrient
	return out
}

// mergeEdgeSlots takes U/D edge slots from a and E-slice slots from b.
func mergeEdgeSlots(a, b cube.Cubie) cube.Cubie {
	out := a
	for s := 8; s < 12; s++ {
		out.EdgePerm[s] = b.EdgePerm[s]
	}
	return out
}

// permParity counts inversions mod 2.
func permParity(perm []uint8) int {
	inv := 0
	for i := 0; i < len(perm); i++ {
		for j := i + 1; j < len(perm); j++ {
			if perm[i] > perm[j] {
				inv++
			}
		}
	}
	return inv % 2
}
