// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package coord maps projections of cube state onto dense integer ranges.
//
// A coordinate space is a bijection between a projection of the full
// state (for example "corner orientation only") and [0, Size). Ranking
// uses factorial-number-system (Lehmer) encoding for permutations,
// binomial ranking for piece-location combinations, and mixed-radix
// digits for orientations. Each space also supports Unrank, producing a
// representative state for an index; the representative is exact for the
// projected pieces and an arbitrary-but-fixed filler for everything the
// projection ignores, which is sufficient for generating exact move
// transitions.
//
// Move-transition tables precompute coordinate × move -> coordinate so a
// search can advance coordinates in O(1) without touching full state.
package coord

import (
	"github.com/AleutianAI/AleutianCube/pkg/cube"
)

// Space is a dense integer encoding of a projection of cube state.
//
// Implementations must guarantee Rank(Unrank(i)) == i for every
// i in [0, Size), and that Unrank's representative transforms correctly
// under every move with respect to the projection.
type Space interface {
	// Name identifies the space; it is part of the pattern-database
	// cache identity, so it must be stable across builds.
	Name() string

	// Size is the cardinality of the coordinate range.
	Size() int

	// Rank projects a state onto its coordinate.
	Rank(c cube.Cubie) int

	// Unrank returns a representative state for a coordinate.
	Unrank(i int) cube.Cubie
}

// RankPermutation returns the lexicographic (Lehmer) rank of a
// permutation of 0..n-1: each element contributes the count of later,
// smaller elements, weighted by a falling factorial.
func RankPermutation(perm []uint8) int {
	n := len(perm)
	rank := 0
	for i := 0; i < n; i++ {
		rank *= n - i
		for j := i + 1; j < n; j++ {
			if perm[i] > perm[j] {
				rank++
			}
		}
	}
	return rank
}

// UnrankPermutation writes the permutation of 0..n-1 with the given
// lexicographic rank into out.
func UnrankPermutation(rank int, out []uint8) {
	n := len(out)
	avail := make([]uint8, n)
	for i := range avail {
		avail[i] = uint8(i)
	}
	for i := 0; i < n; i++ {
		f := factorial(n - 1 - i)
		idx := rank / f
		rank %= f
		out[i] = avail[idx]
		avail = append(avail[:idx], avail[idx+1:]...)
	}
}

// RankArrangement ranks an ordered selection of k distinct slots out of
// n. Used for tracking a fixed piece subset across all slots.
func RankArrangement(slots []uint8, n int) int {
	avail := make([]uint8, n)
	for i := range avail {
		avail[i] = uint8(i)
	}
	rank := 0
	for i, s := range slots {
		idx := 0
		for avail[idx] != s {
			idx++
		}
		rank = rank*(n-i) + idx
		avail = append(avail[:idx], avail[idx+1:]...)
	}
	return rank
}

// UnrankArrangement writes the ordered selection of len(out) distinct
// slots out of n with the given rank.
func UnrankArrangement(rank int, out []uint8, n int) {
	k := len(out)
	avail := make([]uint8, n)
	for i := range avail {
		avail[i] = uint8(i)
	}
	// Falling-factorial place values.
	weights := make([]int, k)
	w := 1
	for i := k - 1; i >= 0; i-- {
		weights[i] = w
		w *= n - i
	}
	for i := 0; i < k; i++ {
		idx := rank / weights[i]
		rank %= weights[i]
		out[i] = avail[idx]
		avail = append(avail[:idx], avail[idx+1:]...)
	}
}

// RankCombination ranks a set of chosen slots, given as a marker array,
// against C(len(marked), k).
func RankCombination(marked []bool, k int) int {
	rank := 0
	count := k
	for i := len(marked) - 1; i >= 0 && count > 0; i-- {
		if marked[i] {
			rank += binomial(i, count)
			count--
		}
	}
	return rank
}

// UnrankCombination writes the marker array for the combination with the
// given rank.
func UnrankCombination(rank int, marked []bool, k int) {
	for i := range marked {
		marked[i] = false
	}
	count := k
	for i := len(marked) - 1; i >= 0 && count > 0; i-- {
		b := binomial(i, count)
		if rank >= b {
			marked[i] = true
			rank -= b
			count--
		}
	}
}

func factorial(n int) int {
	out := 1
	for i := 2; i <= n; i++ {
		out *= i
	}
	return out
}

func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	out := 1
	for i := 0; i < k; i++ {
		out = out * (n - i) / (i + 1)
	}
	return out
}
