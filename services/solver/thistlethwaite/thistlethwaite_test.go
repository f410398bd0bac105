// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package thistlethwaite

import (
	"context"
	"errors"
	"math/rand"
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

// The stage tables take a few seconds to build, so all tests share one
// in-memory store.
func testSolver() *Solver {
	sharedStoreOnce.Do(func() {
		sharedStore = pdb.NewStore(pdb.Config{
			Logger: logging.New(logging.Config{Level: logging.LevelError, Quiet: true}),
		})
	})
	logger := logging.New(logging.Config{Level: logging.LevelError, Quiet: true})
	return New(sharedStore, logger, DefaultConfig())
}

func TestMembership_Solved(t *testing.T) {
	s := cube.Solved()
	assert.True(t, InG1(s))
	assert.True(t, InG2(s))
	assert.True(t, InG3(s))
}

func TestMembership_QuarterTurns(t *testing.T) {
	// F flips edges: out of G1 entirely.
	f := cube.Solved().Apply(cube.MoveF)
	assert.False(t, InG1(f))

	// R keeps edges oriented but twists corners: G1, not G2.
	r := cube.Solved().Apply(cube.MoveR)
	assert.True(t, InG1(r))
	assert.False(t, InG2(r))

	// U keeps orientations and the slice but crosses tetrads: G2, not G3.
	u := cube.Solved().Apply(cube.MoveU)
	assert.True(t, InG2(u))
	assert.False(t, InG3(u))

	// Half turns stay inside the half-turn group.
	assert.True(t, InG3(cube.Solved().Apply(cube.MoveU2)))
}

func TestMembership_HalfTurnProductsStayInG3(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	state := cube.Solved()
	for i := 0; i < 50; i++ {
		m := coord.MovesHalfOnly.Moves[rng.Intn(len(coord.MovesHalfOnly.Moves))]
		state = state.Apply(m)
		require.True(t, InG3(state), "after %d half turns", i+1)
	}
}

func TestMembership_EnumeratedSetSizes(t *testing.T) {
	sets := loadG3Sets()
	assert.Len(t, sets.corners, 96)
	assert.Len(t, sets.edges, 6912)
}

func TestMembership_SubgroupGeneratorsMatchSets(t *testing.T) {
	// Every generator of the second-phase subgroup keeps G1; every
	// generator of the third-phase subgroup keeps G2.
	for _, m := range coord.MovesNoQuarterFB.Moves {
		assert.True(t, InG1(cube.Solved().Apply(m)), m.String())
	}
	for _, m := range coord.MovesNoQuarterFBRL.Moves {
		assert.True(t, InG2(cube.Solved().Apply(m)), m.String())
	}
}

func TestSolve_SolvedInput(t *testing.T) {
	res, err := testSolver().Solve(context.Background(), cube.Solved())
	require.NoError(t, err)
	assert.Empty(t, res.Moves)
	require.Len(t, res.Phases, NumPhases)
	for _, ph := range res.Phases {
		assert.Empty(t, ph.Moves, ph.Name)
	}
}

func TestSolve_RestoresScrambledState(t *testing.T) {
	s := testSolver()
	state, _ := cube.Scramble(12, 20)
	res, err := s.Solve(context.Background(), state)
	require.NoError(t, err)
	assert.True(t, state.ApplySequence(res.Moves).IsSolved())
}

// Each stage must land the intermediate state in its target subgroup
// and draw only from its move set.
func TestSolve_StagesAreMonotone(t *testing.T) {
	s := testSolver()
	state, _ := cube.Scramble(31, 25)
	res, err := s.Solve(context.Background(), state)
	require.NoError(t, err)
	require.Len(t, res.Phases, NumPhases)

	goals := []func(cube.Cubie) bool{InG1, InG2, InG3,
		func(c cube.Cubie) bool { return c.IsSolved() }}
	cur := state
	for i, ph := range res.Phases {
		for _, m := range ph.Moves {
			assert.True(t, phases[i].moves.Contains(m), "stage %s move %s", ph.Name, m)
		}
		cur = cur.ApplySequence(ph.Moves)
		assert.True(t, goals[i](cur), "stage %s subgroup", ph.Name)
	}
}

func TestSolve_ManyScrambles(t *testing.T) {
	if testing.Short() {
		t.Skip("staged solve batch is slow")
	}
	s := testSolver()
	for seed := int64(100); seed < 110; seed++ {
		state, _ := cube.Scramble(seed, 30)
		res, err := s.Solve(context.Background(), state)
		require.NoError(t, err, "seed %d", seed)
		assert.True(t, state.ApplySequence(res.Moves).IsSolved(), "seed %d", seed)
		assert.LessOrEqual(t, len(res.Moves), 45, "seed %d", seed)
	}
}

func TestSolve_CanceledContext(t *testing.T) {
	// A fresh store forces a table build, which notices cancellation.
	logger := logging.New(logging.Config{Level: logging.LevelError, Quiet: true})
	s := New(pdb.NewStore(pdb.Config{Logger: logger}), logger, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state, _ := cube.Scramble(1, 15)
	_, err := s.Solve(ctx, state)
	require.Error(t, err)

	var pe *PhaseError
	assert.True(t, errors.As(err, &pe))
	assert.ErrorIs(t, err, context.Canceled)
}
