// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pdb builds, stores, and serves pattern databases: exhaustive
// breadth-first distance maps over coordinate spaces. A pattern database
// gives, for every coordinate, the exact minimum number of moves from
// that coordinate's projection to the solved projection, which makes it
// an admissible and consistent heuristic for the full puzzle.
//
// Tables are nibble-packed (two entries per byte), persisted to a
// binary cache file with a checksummed header, and built on demand with
// duplicate-build suppression.
package pdb

import (
	"time"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/services/solver/coord"
)

// Transitions is the expansion source for a build and the identity of
// the resulting table: a coordinate space plus a move set, with a way
// to step from one coordinate to the next. *coord.MoveTable satisfies
// it directly for spaces small enough to precompute.
type Transitions interface {
	Space() coord.Space
	Set() coord.MoveSet
	Next(idx, j int) int
}

// SpaceExpander steps coordinates by unranking, applying the move, and
// re-ranking on every expansion. Slower than a move table but needs no
// memory, which is what the 88-million-entry optimal-solver spaces
// require.
type SpaceExpander struct {
	space coord.Space
	set   coord.MoveSet
}

// NewSpaceExpander wraps a space and move set for direct expansion.
func NewSpaceExpander(space coord.Space, set coord.MoveSet) SpaceExpander {
	return SpaceExpander{space: space, set: set}
}

func (e SpaceExpander) Space() coord.Space { return e.space }
func (e SpaceExpander) Set() coord.MoveSet { return e.set }

func (e SpaceExpander) Next(idx, j int) int {
	return e.space.Rank(e.space.Unrank(idx).Apply(e.set.Moves[j]))
}

// moveTableLimit is the largest space worth a precomputed move table;
// above it the table's memory outweighs the per-expansion saving.
const moveTableLimit = 1 << 17

// AutoTransitions picks the expansion strategy by space size: a full
// move table for small spaces, rank-apply-rank stepping for the rest.
func AutoTransitions(space coord.Space, set coord.MoveSet) Transitions {
	if space.Size() <= moveTableLimit {
		return coord.BuildMoveTable(space, set)
	}
	return NewSpaceExpander(space, set)
}

// sentinel marks a cell the breadth-first build never reached. It caps
// storable distances at maxStoredDepth; deeper cells are clamped, which
// weakens the heuristic there but keeps it admissible.
const (
	sentinel       = 0xF
	maxStoredDepth = 0xE
)

// Table is a finished pattern database. All fields are written once by
// the build or the cache loader; lookups afterwards are read-only and
// safe for concurrent use.
type Table struct {
	// SpaceName and MoveSetName identify what the distances mean.
	SpaceName   string
	MoveSetName string

	// Cardinality is the size of the coordinate space.
	Cardinality int

	// MaxDepth is the deepest distance stored.
	MaxDepth uint8

	// Complete reports whether the build reached every cell. Product
	// spaces under restricted move sets legitimately leave cells
	// unreached; searches that stay inside the subgroup never look
	// them up.
	Complete bool

	// BuiltAt records when the breadth-first build finished.
	BuiltAt time.Time

	space coord.Space
	data  []byte
}

func newTable(space coord.Space, set coord.MoveSet) *Table {
	n := space.Size()
	data := make([]byte, (n+1)/2)
	for i := range data {
		data[i] = sentinel<<4 | sentinel
	}
	return &Table{
		SpaceName:   space.Name(),
		MoveSetName: set.Name,
		Cardinality: n,
		space:       space,
		data:        data,
	}
}

func (t *Table) at(i int) uint8 {
	b := t.data[i>>1]
	if i&1 == 0 {
		return b & 0xF
	}
	return b >> 4
}

func (t *Table) put(i int, v uint8) {
	b := t.data[i>>1]
	if i&1 == 0 {
		b = b&0xF0 | v
	} else {
		b = b&0x0F | v<<4
	}
	t.data[i>>1] = b
}

// Distance returns the stored distance for a coordinate.
//
// Unreached cells in an incomplete table report MaxDepth+1: any state a
// legal search actually visits maps to a reached cell, so the value
// only ever pads cells no search consults, and the heuristic stays
// admissible. Unreached cells in a complete table are a build bug and
// return ErrUnreachedEntry.
func (t *Table) Distance(idx int) (int, error) {
	v := t.at(idx)
	if v == sentinel {
		if t.Complete {
			return 0, ErrUnreachedEntry
		}
		return int(t.MaxDepth) + 1, nil
	}
	return int(v), nil
}

// Estimate ranks the state in the table's space and looks it up.
func (t *Table) Estimate(c cube.Cubie) (int, error) {
	return t.Distance(t.space.Rank(c))
}
