// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package kociemba

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/pkg/logging"
	"github.com/AleutianAI/AleutianCube/services/solver/coord"
	"github.com/AleutianAI/AleutianCube/services/solver/pdb"
)

var (
	sharedStoreOnce sync.Once
	sharedStore     *pdb.Store
)

// The phase tables cover two million-entry spaces, so all tests share
// one in-memory store.
func testSolver() *Solver {
	sharedStoreOnce.Do(func() {
		sharedStore = pdb.NewStore(pdb.Config{
			Logger: logging.New(logging.Config{Level: logging.LevelError, Quiet: true}),
		})
	})
	logger := logging.New(logging.Config{Level: logging.LevelError, Quiet: true})
	return New(sharedStore, logger, DefaultConfig())
}

func TestInSubgroup(t *testing.T) {
	assert.True(t, InSubgroup(cube.Solved()))
	assert.True(t, InSubgroup(cube.Solved().Apply(cube.MoveU)))
	assert.True(t, InSubgroup(cube.Solved().Apply(cube.MoveR2)))
	assert.False(t, InSubgroup(cube.Solved().Apply(cube.MoveR)))
	assert.False(t, InSubgroup(cube.Solved().Apply(cube.MoveF)))
}

func TestSolve_SolvedInput(t *testing.T) {
	if testing.Short() {
		t.Skip("phase table builds are slow")
	}
	res, err := testSolver().Solve(context.Background(), cube.Solved())
	require.NoError(t, err)
	assert.Empty(t, res.Moves)
	assert.Empty(t, res.Phase1)
	assert.Empty(t, res.Phase2)
}

func TestSolve_RestoresScrambledState(t *testing.T) {
	if testing.Short() {
		t.Skip("phase table builds are slow")
	}
	s := testSolver()
	state, _ := cube.Scramble(8, 25)
	res, err := s.Solve(context.Background(), state)
	require.NoError(t, err)

	assert.True(t, state.ApplySequence(res.Moves).IsSolved())
	assert.LessOrEqual(t, len(res.Moves), 30)

	// The phase boundary must land in the subgroup and phase two must
	// stay inside its move set.
	mid := state.ApplySequence(res.Phase1)
	assert.True(t, InSubgroup(mid))
	for _, m := range res.Phase2 {
		assert.True(t, coord.MovesNoQuarterFBRL.Contains(m), m.String())
	}
}

func TestSolve_SubgroupInputSkipsPhase1(t *testing.T) {
	if testing.Short() {
		t.Skip("phase table builds are slow")
	}
	s := testSolver()
	state := cube.Solved().
		Apply(cube.MoveU).Apply(cube.MoveR2).Apply(cube.MoveD).Apply(cube.MoveF2)
	require.True(t, InSubgroup(state))

	res, err := s.Solve(context.Background(), state)
	require.NoError(t, err)
	assert.Empty(t, res.Phase1)
	assert.True(t, state.ApplySequence(res.Moves).IsSolved())
	// Phase two alone is optimal within the subgroup.
	assert.LessOrEqual(t, len(res.Moves), 4)
}

func TestSolve_ManyScrambles(t *testing.T) {
	if testing.Short() {
		t.Skip("two-phase batch is slow")
	}
	s := testSolver()
	for seed := int64(200); seed < 208; seed++ {
		state, _ := cube.Scramble(seed, 30)
		res, err := s.Solve(context.Background(), state)
		require.NoError(t, err, "seed %d", seed)
		assert.True(t, state.ApplySequence(res.Moves).IsSolved(), "seed %d", seed)
		assert.LessOrEqual(t, len(res.Moves), 30, "seed %d", seed)
	}
}
