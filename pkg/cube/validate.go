// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cube

import (
	"errors"
	"fmt"
)

// Sentinel errors for state validation. All of them wrap into
// ErrInvalidState so callers can test with a single errors.Is.
var (
	// ErrInvalidState is the umbrella error for any reachability
	// violation.
	ErrInvalidState = errors.New("invalid cube state")

	// ErrBadPermutation is returned when a permutation layer is not a
	// bijection or an orientation value is out of range.
	ErrBadPermutation = errors.New("malformed permutation or orientation")

	// ErrCornerTwist is returned when corner twists do not sum to 0 mod 3.
	ErrCornerTwist = errors.New("corner twist sum not divisible by 3")

	// ErrEdgeFlip is returned when edge flips do not sum to 0 mod 2.
	ErrEdgeFlip = errors.New("edge flip sum not divisible by 2")

	// ErrParityMismatch is returned when corner and edge permutation
	// parities differ.
	ErrParityMismatch = errors.New("corner and edge permutation parity differ")
)

// Validate checks the reachability invariants and returns a typed error
// on the first violation. It is the fail-fast gate at the solver
// boundary: states that fail here must never enter a search.
func (c Cubie) Validate() error {
	var cornerSeen [8]bool
	twist := 0
	for i := 0; i < 8; i++ {
		p, o := c.CornerPerm[i], c.CornerOrient[i]
		if p >= 8 || cornerSeen[p] || o >= 3 {
			return fmt.Errorf("%w: %w: corner slot %d", ErrInvalidState, ErrBadPermutation, i)
		}
		cornerSeen[p] = true
		twist += int(o)
	}
	if twist%3 != 0 {
		return fmt.Errorf("%w: %w", ErrInvalidState, ErrCornerTwist)
	}

	var edgeSeen [12]bool
	flip := 0
	for i := 0; i < 12; i++ {
		p, o := c.EdgePerm[i], c.EdgeOrient[i]
		if p >= 12 || edgeSeen[p] || o >= 2 {
			return fmt.Errorf("%w: %w: edge slot %d", ErrInvalidState, ErrBadPermutation, i)
		}
		edgeSeen[p] = true
		flip += int(o)
	}
	if flip%2 != 0 {
		return fmt.Errorf("%w: %w", ErrInvalidState, ErrEdgeFlip)
	}

	if cornerParity(c.CornerPerm[:]) != edgeParity(c.EdgePerm[:]) {
		return fmt.Errorf("%w: %w", ErrInvalidState, ErrParityMismatch)
	}
	return nil
}

func cornerParity(perm []uint8) int { return permParity(perm) }
func edgeParity(perm []uint8) int   { return permParity(perm) }

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
