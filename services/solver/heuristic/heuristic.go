// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package heuristic provides admissible distance estimators for search.
//
// Every estimator in this package is a lower bound on the true move
// count, so the searches that consume them keep their optimality
// guarantees. The estimators trade accuracy for cost: counting
// heuristics are free but weak, pattern-database lookups are strong but
// need tables built first, and the composite picks between them per
// state.
package heuristic

import (
	"errors"
	"fmt"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/services/solver/pdb"
)

// Variant names a heuristic family for configuration and wire use.
type Variant string

const (
	VariantZero       Variant = "zero"
	VariantHamming    Variant = "hamming"
	VariantManhattan  Variant = "manhattan"
	VariantPatternMax Variant = "pattern-max"
	VariantComposite  Variant = "composite"
)

var (
	// ErrUnknownVariant is returned for a variant name outside the
	// supported set.
	ErrUnknownVariant = errors.New("unknown heuristic variant")

	// ErrNoPatternTables is returned when a pattern-backed variant is
	// requested without any tables.
	ErrNoPatternTables = errors.New("pattern heuristic requires at least one table")
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantZero, VariantHamming, VariantManhattan, VariantPatternMax, VariantComposite:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// Heuristic estimates the minimum number of moves to solve a state.
// Implementations must be admissible (never overestimate) and safe for
// concurrent use.
type Heuristic interface {
	Name() string
	Estimate(c cube.Cubie) (int, error)
}

// New builds the named variant. Pattern-backed variants take the tables
// to consult; the counting variants ignore them.
func New(v Variant, tables ...*pdb.Table) (Heuristic, error) {
	switch v {
	case VariantZero:
		return Zero{}, nil
	case VariantHamming:
		return Hamming{}, nil
	case VariantManhattan:
		return Manhattan{}, nil
	case VariantPatternMax:
		return NewPatternMax(tables...)
	case VariantComposite:
		return NewComposite(tables...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
}

// Zero estimates zero everywhere, degrading informed search to plain
// iterative deepening. It exists as the baseline for benchmarks.
type Zero struct{}

func (Zero) Name() string { return string(VariantZero) }

func (Zero) Estimate(cube.Cubie) (int, error) { return 0, nil }

// Hamming counts pieces that are out of place or twisted in place. A
// move disturbs at most four corners and four edges, so the count
// divided by eight, rounded up, is a lower bound.
type Hamming struct{}

func (Hamming) Name() string { return string(VariantHamming) }

func (Hamming) Estimate(c cube.Cubie) (int, error) {
	corners, edges := unsolvedCounts(c)
	return (corners + edges + 7) / 8, nil
}

// Manhattan bounds corners and edges separately: a move touches at most
// four of each, so each unsolved population divided by four, rounded
// up, is a lower bound, and the max of the two bounds still is.
// Dominates Hamming at the same cost.
type Manhattan struct{}

func (Manhattan) Name() string { return string(VariantManhattan) }

func (Manhattan) Estimate(c cube.Cubie) (int, error) {
	corners, edges := unsolvedCounts(c)
	ch := (corners + 3) / 4
	eh := (edges + 3) / 4
	if ch > eh {
		return ch, nil
	}
	return eh, nil
}

// PatternMax takes the maximum over a set of pattern databases. The max
// of admissible estimates is admissible; with disjoint spaces it is the
// strongest estimator in this package.
type PatternMax struct {
	tables []*pdb.Table
}

// NewPatternMax wraps the given tables. At least one is required.
func NewPatternMax(tables ...*pdb.Table) (*PatternMax, error) {
	if len(tables) == 0 {
		return nil, ErrNoPatternTables
	}
	return &PatternMax{tables: tables}, nil
}

func (p *PatternMax) Name() string { return string(VariantPatternMax) }

func (p *PatternMax) Estimate(c cube.Cubie) (int, error) {
	best := 0
	for _, t := range p.tables {
		d, err := t.Estimate(c)
		if err != nil {
			return 0, fmt.Errorf("pattern table %s: %w", t.SpaceName, err)
		}
		if d > best {
			best = d
		}
	}
	return best, nil
}

func unsolvedCounts(c cube.Cubie) (corners, edges int) {
	for i := 0; i < 8; i++ {
		if c.CornerPerm[i] != uint8(i) || c.CornerOrient[i] != 0 {
			corners++
		}
	}
	for i := 0; i < 12; i++ {
		if c.EdgePerm[i] != uint8(i) || c.EdgeOrient[i] != 0 {
			edges++
		}
	}
	return corners, edges
}
