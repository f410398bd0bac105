// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/pkg/logging"
	"github.com/AleutianAI/AleutianCube/services/solver/coord"
	"github.com/AleutianAI/AleutianCube/services/solver/heuristic"
	"github.com/AleutianAI/AleutianCube/services/solver/pdb"
)

type searchFunc func(context.Context, cube.Cubie, heuristic.Heuristic, Options) (Result, error)

var searchers = map[string]searchFunc{
	"idastar": IDAStar,
	"astar":   AStar,
}

func patternHeuristic(t *testing.T) heuristic.Heuristic {
	t.Helper()
	logger := logging.New(logging.Config{Level: logging.LevelError, Quiet: true})
	var tables []*pdb.Table
	for _, space := range []coord.Space{coord.CornerOrient, coord.EdgeOrient, coord.UDSlice} {
		table, err := pdb.Build(context.Background(),
			coord.BuildMoveTable(space, coord.MovesAll), logger)
		require.NoError(t, err)
		tables = append(tables, table)
	}
	h, err := heuristic.NewPatternMax(tables...)
	require.NoError(t, err)
	return h
}

func TestSearch_SolvedRootIsEmptySolution(t *testing.T) {
	for name, search := range searchers {
		res, err := search(context.Background(), cube.Solved(), heuristic.Manhattan{}, Options{})
		require.NoError(t, err, name)
		assert.Equal(t, StatusSolved, res.Status, name)
		assert.NotNil(t, res.Moves, name)
		assert.Empty(t, res.Moves, name)
		assert.Zero(t, res.Stats.NodesExpanded, name)
	}
}

func TestSearch_SingleMoveScramble(t *testing.T) {
	root := cube.Solved().Apply(cube.MoveR)
	for name, search := range searchers {
		res, err := search(context.Background(), root, heuristic.Manhattan{}, Options{})
		require.NoError(t, err, name)
		require.Equal(t, StatusSolved, res.Status, name)
		assert.Equal(t, []cube.Move{cube.MoveRPrime}, res.Moves, name)
	}
}

func TestSearch_BothFindOptimalLengths(t *testing.T) {
	h := patternHeuristic(t)
	for seed := int64(0); seed < 8; seed++ {
		n := int(seed%6) + 1
		root, _ := cube.Scramble(seed, n)

		ida, err := IDAStar(context.Background(), root, h, Options{MaxDepth: n})
		require.NoError(t, err, "seed %d", seed)
		require.Equal(t, StatusSolved, ida.Status)

		ast, err := AStar(context.Background(), root, h, Options{MaxDepth: n})
		require.NoError(t, err, "seed %d", seed)
		require.Equal(t, StatusSolved, ast.Status)

		assert.Equal(t, len(ida.Moves), len(ast.Moves), "seed %d", seed)
		assert.LessOrEqual(t, len(ida.Moves), n, "seed %d", seed)
		assert.True(t, root.ApplySequence(ida.Moves).IsSolved(), "seed %d", seed)
		assert.True(t, root.ApplySequence(ast.Moves).IsSolved(), "seed %d", seed)
	}
}

// A state with flipped edges can never be solved without quarter turns
// of F or B, so the restricted set must exhaust.
func TestSearch_ExhaustsWhenGoalUnreachable(t *testing.T) {
	root := cube.Solved().Apply(cube.MoveF)
	for name, search := range searchers {
		res, err := search(context.Background(), root, heuristic.Zero{}, Options{
			Moves:    coord.MovesNoQuarterFB,
			MaxDepth: 4,
		})
		assert.ErrorIs(t, err, ErrNoSolution, name)
		assert.Equal(t, StatusExhausted, res.Status, name)
		assert.Nil(t, res.Moves, name)
	}
}

func TestSearch_CustomGoal(t *testing.T) {
	root := cube.Solved().Apply(cube.MoveF)
	goal := func(c cube.Cubie) bool { return coord.EdgeOrient.Rank(c) == 0 }
	for name, search := range searchers {
		res, err := search(context.Background(), root, heuristic.Zero{}, Options{Goal: goal})
		require.NoError(t, err, name)
		require.Equal(t, StatusSolved, res.Status, name)
		assert.Len(t, res.Moves, 1, name)
		assert.True(t, goal(root.ApplySequence(res.Moves)), name)
	}
}

func TestSearch_NodeBudget(t *testing.T) {
	root, _ := cube.Scramble(2, 25)
	for name, search := range searchers {
		budget := NewBudget(100, 0)
		res, err := search(context.Background(), root, heuristic.Zero{}, Options{Budget: budget})
		assert.ErrorIs(t, err, ErrNodeBudget, name)
		assert.Equal(t, StatusBudget, res.Status, name)
		assert.GreaterOrEqual(t, budget.Nodes(), uint64(100), name)
	}
}

func TestSearch_Timeout(t *testing.T) {
	root, _ := cube.Scramble(2, 25)
	for name, search := range searchers {
		budget := NewBudget(0, time.Nanosecond)
		res, err := search(context.Background(), root, heuristic.Zero{}, Options{Budget: budget})
		assert.ErrorIs(t, err, ErrTimeout, name)
		assert.Equal(t, StatusTimeout, res.Status, name)
	}
}

func TestSearch_ContextCanceled(t *testing.T) {
	root, _ := cube.Scramble(2, 25)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, search := range searchers {
		res, err := search(ctx, root, heuristic.Zero{}, Options{})
		assert.ErrorIs(t, err, context.Canceled, name)
		assert.Equal(t, StatusCanceled, res.Status, name)
	}
}

// IDA* keeps only the current path alive, so its peak structure size is
// bounded by the solution depth plus the root frame.
func TestIDAStar_MaxFrontierIsPeakStackDepth(t *testing.T) {
	root, _ := cube.Scramble(13, 6)
	res, err := IDAStar(context.Background(), root, heuristic.Manhattan{}, Options{})
	require.NoError(t, err)
	require.Equal(t, StatusSolved, res.Status)

	assert.Greater(t, res.Stats.MaxFrontier, 0)
	assert.LessOrEqual(t, res.Stats.MaxFrontier, len(res.Moves)+1)
}

func TestBudget_NilIsUnbounded(t *testing.T) {
	var b *Budget
	b.Spend(10)
	assert.Zero(t, b.Nodes())
	assert.NoError(t, b.Exceeded())
}

func TestBudget_NodeBoundBeforeClock(t *testing.T) {
	b := NewBudget(5, time.Nanosecond)
	b.Spend(5)
	assert.ErrorIs(t, b.Exceeded(), ErrNodeBudget)
}
