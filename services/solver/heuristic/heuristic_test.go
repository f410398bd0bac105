// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package heuristic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/pkg/logging"
	"github.com/AleutianAI/AleutianCube/services/solver/coord"
	"github.com/AleutianAI/AleutianCube/services/solver/pdb"
)

func testTables(t *testing.T) []*pdb.Table {
	t.Helper()
	logger := logging.New(logging.Config{Level: logging.LevelError, Quiet: true})
	var tables []*pdb.Table
	for _, space := range []coord.Space{coord.CornerOrient, coord.EdgeOrient, coord.UDSlice} {
		table, err := pdb.Build(context.Background(),
			coord.BuildMoveTable(space, coord.MovesAll), logger)
		require.NoError(t, err)
		tables = append(tables, table)
	}
	return tables
}

func allVariants(t *testing.T) []Heuristic {
	t.Helper()
	tables := testTables(t)
	var hs []Heuristic
	for _, v := range []Variant{
		VariantZero, VariantHamming, VariantManhattan, VariantPatternMax, VariantComposite,
	} {
		h, err := New(v, tables...)
		require.NoError(t, err)
		hs = append(hs, h)
	}
	return hs
}

func TestEstimate_SolvedIsZero(t *testing.T) {
	for _, h := range allVariants(t) {
		d, err := h.Estimate(cube.Solved())
		require.NoError(t, err, h.Name())
		assert.Zero(t, d, h.Name())
	}
}

// Scramble length is an upper bound on true distance, so every
// admissible estimate must stay at or below it.
func TestEstimate_AdmissibleOnShallowScrambles(t *testing.T) {
	hs := allVariants(t)
	for seed := int64(0); seed < 40; seed++ {
		n := int(seed%8) + 1
		state, _ := cube.Scramble(seed, n)
		for _, h := range hs {
			d, err := h.Estimate(state)
			require.NoError(t, err)
			assert.LessOrEqual(t, d, n, "%s seed %d", h.Name(), seed)
		}
	}
}

func TestEstimate_SingleMoveStates(t *testing.T) {
	hamming := Hamming{}
	manhattan := Manhattan{}
	for _, m := range cube.AllMoves {
		state := cube.Solved().Apply(m)
		hd, err := hamming.Estimate(state)
		require.NoError(t, err)
		md, err := manhattan.Estimate(state)
		require.NoError(t, err)
		// One move away: both bounds must be exactly 1.
		assert.Equal(t, 1, hd, "hamming after %s", m)
		assert.Equal(t, 1, md, "manhattan after %s", m)
	}
}

// Pieces twisted or flipped in place are unsolved even though the
// permutation is the identity; the counting bounds must see them.
func TestCountingBounds_SeeMisorientedHomePieces(t *testing.T) {
	twisted := cube.Solved()
	twisted.CornerOrient[0] = 1
	twisted.CornerOrient[1] = 2

	hd, err := Hamming{}.Estimate(twisted)
	require.NoError(t, err)
	assert.Equal(t, 1, hd)

	flipped := cube.Solved()
	flipped.EdgeOrient[0] = 1
	flipped.EdgeOrient[1] = 1

	hd, err = Hamming{}.Estimate(flipped)
	require.NoError(t, err)
	assert.Equal(t, 1, hd)
	md, err := Manhattan{}.Estimate(flipped)
	require.NoError(t, err)
	assert.Equal(t, 1, md)
}

func TestManhattan_DominatesHamming(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		state, _ := cube.Scramble(seed, 20)
		hd, err := Hamming{}.Estimate(state)
		require.NoError(t, err)
		md, err := Manhattan{}.Estimate(state)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, md, hd, "seed %d", seed)
	}
}

func TestPatternMax_TakesStrongestTable(t *testing.T) {
	tables := testTables(t)
	p, err := NewPatternMax(tables...)
	require.NoError(t, err)

	state, _ := cube.Scramble(3, 12)
	got, err := p.Estimate(state)
	require.NoError(t, err)

	best := 0
	for _, table := range tables {
		d, err := table.Estimate(state)
		require.NoError(t, err)
		if d > best {
			best = d
		}
	}
	assert.Equal(t, best, got)
}

func TestNewPatternMax_RequiresTables(t *testing.T) {
	_, err := NewPatternMax()
	assert.ErrorIs(t, err, ErrNoPatternTables)

	_, err = New(VariantPatternMax)
	assert.ErrorIs(t, err, ErrNoPatternTables)
}

func TestComposite_RoutesByDisorder(t *testing.T) {
	c, err := NewComposite(testTables(t)...)
	require.NoError(t, err)

	// Solved state is fully ordered.
	_, err = c.Estimate(cube.Solved())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.Branch().Low)

	// A long scramble disturbs nearly every piece.
	deep, _ := cube.Scramble(9, 40)
	assert.Greater(t, Disorder(deep), disorderHigh)
	_, err = c.Estimate(deep)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.Branch().High)
}

func TestComposite_NoTablesFallsBack(t *testing.T) {
	c, err := NewComposite()
	require.NoError(t, err)
	deep, _ := cube.Scramble(9, 40)
	got, err := c.Estimate(deep)
	require.NoError(t, err)
	want, err := Manhattan{}.Estimate(deep)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDisorderSignals_Bounds(t *testing.T) {
	assert.Zero(t, Entropy(cube.Solved()))
	assert.Zero(t, Displacement(cube.Solved()))
	assert.Zero(t, Disorder(cube.Solved()))

	deep, _ := cube.Scramble(1, 50)
	for name, f := range map[string]func(cube.Cubie) float64{
		"entropy":      Entropy,
		"displacement": Displacement,
		"disorder":     Disorder,
	} {
		v := f(deep)
		assert.Greater(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 1.0, name)
	}

	// Displacement never exceeds entropy: a disturbed piece adds at
	// most 1 to both sums, a twisted-in-place piece only 0.5 to one.
	assert.LessOrEqual(t, Displacement(deep), Entropy(deep))
}

func TestParseVariant(t *testing.T) {
	for _, s := range []string{"zero", "hamming", "manhattan", "pattern-max", "composite"} {
		v, err := ParseVariant(s)
		require.NoError(t, err)
		assert.Equal(t, Variant(s), v)
	}
	_, err := ParseVariant("dijkstra")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}
