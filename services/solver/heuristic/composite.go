// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package heuristic

import (
	"sync/atomic"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/services/solver/pdb"
)

// Disorder thresholds for branch selection. Below the low threshold the
// state is nearly ordered and the cheap counting bound is already
// tight; above the high threshold the state is deeply scrambled and
// only the pattern tables see structure.
const (
	disorderLow  = 0.3
	disorderHigh = 0.7
)

// Composite routes each estimate by state disorder, the mean of two
// signals: entropy (fraction of pieces disturbed) and displacement
// (how far the pieces are disturbed). Nearly ordered states use the
// counting bound, deeply scrambled states use the pattern tables, and
// the middle band takes the max of both. The signals only choose which
// admissible estimator answers, so the composite is admissible.
//
// Branch counts are tracked so callers can verify the routing actually
// engages on their workload.
type Composite struct {
	manhattan Manhattan
	patterns  *PatternMax

	low  atomic.Uint64
	mid  atomic.Uint64
	high atomic.Uint64
}

// NewComposite builds a composite over the given pattern tables. With
// no tables the pattern branches fall back to the counting bound.
func NewComposite(tables ...*pdb.Table) (*Composite, error) {
	c := &Composite{}
	if len(tables) > 0 {
		p, err := NewPatternMax(tables...)
		if err != nil {
			return nil, err
		}
		c.patterns = p
	}
	return c, nil
}

func (c *Composite) Name() string { return string(VariantComposite) }

// BranchStats reports how many estimates each entropy band served.
type BranchStats struct {
	Low  uint64 `json:"low"`
	Mid  uint64 `json:"mid"`
	High uint64 `json:"high"`
}

// Branch returns a snapshot of the routing counters.
func (c *Composite) Branch() BranchStats {
	return BranchStats{
		Low:  c.low.Load(),
		Mid:  c.mid.Load(),
		High: c.high.Load(),
	}
}

func (c *Composite) Estimate(state cube.Cubie) (int, error) {
	d := Disorder(state)
	switch {
	case d < disorderLow:
		c.low.Add(1)
		return c.manhattan.Estimate(state)
	case d > disorderHigh:
		c.high.Add(1)
		if c.patterns == nil {
			return c.manhattan.Estimate(state)
		}
		return c.patterns.Estimate(state)
	default:
		c.mid.Add(1)
		m, err := c.manhattan.Estimate(state)
		if err != nil {
			return 0, err
		}
		if c.patterns == nil {
			return m, nil
		}
		p, err := c.patterns.Estimate(state)
		if err != nil {
			return 0, err
		}
		if p > m {
			return p, nil
		}
		return m, nil
	}
}

// Entropy measures state disorder as the fraction of the twenty pieces
// that are not home and oriented. 0 is solved, 1 is fully disturbed.
func Entropy(c cube.Cubie) float64 {
	corners, edges := unsolvedCounts(c)
	return float64(corners+edges) / 20
}

// Displacement measures average per-piece disturbance: a piece scores 0
// when home and oriented, 0.5 when home but misoriented, 1 when in a
// foreign slot. Entropy sees only whether pieces are disturbed;
// displacement separates a twist in place from a full relocation.
func Displacement(c cube.Cubie) float64 {
	var sum float64
	for i := 0; i < 8; i++ {
		switch {
		case c.CornerPerm[i] != uint8(i):
			sum += 1
		case c.CornerOrient[i] != 0:
			sum += 0.5
		}
	}
	for i := 0; i < 12; i++ {
		switch {
		case c.EdgePerm[i] != uint8(i):
			sum += 1
		case c.EdgeOrient[i] != 0:
			sum += 0.5
		}
	}
	return sum / 20
}

// Disorder blends the two signals into the routing scalar.
func Disorder(c cube.Cubie) float64 {
	return (Entropy(c) + Displacement(c)) / 2
}
