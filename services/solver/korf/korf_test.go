// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package korf

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/pkg/logging"
	"github.com/AleutianAI/AleutianCube/services/solver/pdb"
	"github.com/AleutianAI/AleutianCube/services/solver/search"
)

var (
	sharedStoreOnce sync.Once
	sharedStore     *pdb.Store
)

func testSolver(cfg Config) *Solver {
	sharedStoreOnce.Do(func() {
		sharedStore = pdb.NewStore(pdb.Config{
			Logger: logging.New(logging.Config{Level: logging.LevelError, Quiet: true}),
		})
	})
	logger := logging.New(logging.Config{Level: logging.LevelError, Quiet: true})
	return New(sharedStore, logger, cfg)
}

func TestSolve_SolvedInput(t *testing.T) {
	res, err := testSolver(DefaultConfig()).Solve(context.Background(), cube.Solved())
	require.NoError(t, err)
	assert.Equal(t, search.StatusSolved, res.Status)
	assert.Empty(t, res.Moves)
}

func TestSolve_OptimalOnShallowScrambles(t *testing.T) {
	s := testSolver(DefaultConfig())
	for seed := int64(0); seed < 6; seed++ {
		n := int(seed%5) + 1
		state, _ := cube.Scramble(seed, n)
		res, err := s.Solve(context.Background(), state)
		require.NoError(t, err, "seed %d", seed)
		assert.True(t, state.ApplySequence(res.Moves).IsSolved(), "seed %d", seed)
		assert.LessOrEqual(t, len(res.Moves), n, "seed %d", seed)
	}
}

func TestSolve_AlgorithmsAgreeOnLength(t *testing.T) {
	ida := testSolver(Config{Algorithm: AlgorithmIDAStar})
	ast := testSolver(Config{Algorithm: AlgorithmAStar})
	for seed := int64(10); seed < 14; seed++ {
		state, _ := cube.Scramble(seed, 5)
		a, err := ida.Solve(context.Background(), state)
		require.NoError(t, err, "seed %d", seed)
		b, err := ast.Solve(context.Background(), state)
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, len(a.Moves), len(b.Moves), "seed %d", seed)
	}
}

func TestSolve_Timeout(t *testing.T) {
	s := testSolver(Config{Timeout: time.Nanosecond})
	state, _ := cube.Scramble(3, 25)
	res, err := s.Solve(context.Background(), state)
	assert.ErrorIs(t, err, search.ErrTimeout)
	assert.Equal(t, search.StatusTimeout, res.Status)
}

func TestNew_UnknownMode(t *testing.T) {
	s := testSolver(Config{Mode: Mode("everything")})
	_, err := s.Solve(context.Background(), cube.Solved())
	assert.Error(t, err)
}
