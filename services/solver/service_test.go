// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package solver

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/pkg/logging"
	"github.com/AleutianAI/AleutianCube/services/solver/coord"
	"github.com/AleutianAI/AleutianCube/services/solver/heuristic"
	"github.com/AleutianAI/AleutianCube/services/solver/search"
)

var (
	sharedSvcOnce sync.Once
	sharedSvc     *Service
	sharedSvcErr  error
)

// testService shares one service across the package so pattern tables
// build once.
func testService(t *testing.T) *Service {
	t.Helper()
	sharedSvcOnce.Do(func() {
		cfg := DefaultServiceConfig()
		cfg.CacheDir = ""
		cfg.JournalInMemory = true
		cfg.Logger = quietLogger()
		sharedSvc, sharedSvcErr = NewService(cfg)
	})
	require.NoError(t, sharedSvcErr)
	return sharedSvc
}

func quietLogger() *logging.Logger {
	return logging.New(logging.Config{Level: logging.LevelError, Quiet: true})
}

func TestParseAlgorithm(t *testing.T) {
	for _, name := range []string{"staged4", "staged2", "idastar", "astar"} {
		a, err := ParseAlgorithm(name)
		require.NoError(t, err)
		assert.Equal(t, Algorithm(name), a)
	}
	_, err := ParseAlgorithm("kociemba")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestSolve_Staged4(t *testing.T) {
	svc := testService(t)
	state, _ := cube.Scramble(101, 30)

	res, err := svc.Solve(context.Background(), state, SolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, AlgorithmStaged4, res.Algorithm)
	assert.Equal(t, search.StatusSolved, res.Status)
	assert.True(t, state.ApplySequence(res.Moves).IsSolved())
	assert.Len(t, res.Phases, 4)
	assert.Equal(t, res.Length, len(res.Moves))
	assert.NotEmpty(t, res.Solution)
}

func TestSolve_OptimalShallow(t *testing.T) {
	svc := testService(t)

	for _, alg := range []Algorithm{AlgorithmIDAStar, AlgorithmAStar} {
		state, scramble := cube.Scramble(7, 4)
		res, err := svc.Solve(context.Background(), state, SolveOptions{Algorithm: alg})
		require.NoError(t, err, "algorithm %s", alg)

		assert.True(t, state.ApplySequence(res.Moves).IsSolved())
		assert.LessOrEqual(t, res.Length, len(scramble),
			"%s must not beat the scramble length", alg)
	}
}

func TestSolve_UnknownAlgorithm(t *testing.T) {
	svc := testService(t)
	_, err := svc.Solve(context.Background(), cube.Solved(), SolveOptions{Algorithm: "cfop"})
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestSolve_RejectsUnsolvableState(t *testing.T) {
	svc := testService(t)
	bad := cube.Solved()
	bad.CornerOrient[0] = 1 // lone twisted corner

	_, err := svc.Solve(context.Background(), bad, SolveOptions{})
	assert.ErrorIs(t, err, cube.ErrInvalidState)
}

func TestSolve_TimeoutOnOptimal(t *testing.T) {
	svc := testService(t)
	state, _ := cube.Scramble(55, 30)

	_, err := svc.Solve(context.Background(), state, SolveOptions{
		Algorithm: AlgorithmIDAStar,
		Timeout:   time.Nanosecond,
	})
	assert.ErrorIs(t, err, search.ErrTimeout)
}

func TestSolve_TimeoutOnStaged(t *testing.T) {
	svc := testService(t)
	state, _ := cube.Scramble(55, 30)

	for _, alg := range []Algorithm{AlgorithmStaged4, AlgorithmStaged2} {
		_, err := svc.Solve(context.Background(), state, SolveOptions{
			Algorithm: alg,
			Timeout:   time.Nanosecond,
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded, "algorithm %s", alg)
	}
}

func TestSolve_JournalRoundTrip(t *testing.T) {
	svc := testService(t)
	state, moves := cube.Scramble(202, 15)

	res, err := svc.Solve(context.Background(), state, SolveOptions{
		Scramble: cube.FormatSequence(moves),
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.ID)

	rec, err := svc.Lookup(res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Solution, rec.Solution)
	assert.Equal(t, cube.FormatSequence(moves), rec.Scramble)

	history, err := svc.History(0)
	require.NoError(t, err)
	assert.NotEmpty(t, history)
}

func TestHistory_DisabledJournal(t *testing.T) {
	cfg := DefaultServiceConfig()
	cfg.CacheDir = ""
	cfg.Logger = quietLogger()
	svc, err := NewService(cfg)
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.History(0)
	assert.ErrorIs(t, err, ErrJournalDisabled)
	_, err = svc.Lookup("x")
	assert.ErrorIs(t, err, ErrJournalDisabled)
}

func TestSolve_DisablePatternDB(t *testing.T) {
	cfg := DefaultServiceConfig()
	cfg.CacheDir = ""
	cfg.DisablePatternDB = true
	cfg.Logger = quietLogger()
	svc, err := NewService(cfg)
	require.NoError(t, err)
	defer svc.Close()

	state, scramble := cube.Scramble(3, 4)
	res, err := svc.Solve(context.Background(), state, SolveOptions{Algorithm: AlgorithmIDAStar})
	require.NoError(t, err)
	assert.True(t, state.ApplySequence(res.Moves).IsSolved())
	assert.LessOrEqual(t, res.Length, len(scramble))
}

func TestEstimateDistance(t *testing.T) {
	svc := testService(t)

	for _, v := range []heuristic.Variant{
		heuristic.VariantHamming,
		heuristic.VariantManhattan,
		heuristic.VariantPatternMax,
		heuristic.VariantComposite,
	} {
		got, err := svc.EstimateDistance(context.Background(), cube.Solved(), v)
		require.NoError(t, err, "variant %s", v)
		assert.Zero(t, got, "variant %s on the solved cube", v)
	}

	state, scramble := cube.Scramble(11, 12)
	got, err := svc.EstimateDistance(context.Background(), state, heuristic.VariantPatternMax)
	require.NoError(t, err)
	assert.Greater(t, got, 0)
	assert.LessOrEqual(t, got, len(scramble), "estimate must stay admissible")
}

func TestWarm(t *testing.T) {
	svc := testService(t)
	require.NoError(t, svc.Warm(context.Background()))

	// Warm tables make a staged solve cheap; this mostly guards
	// against Warm building the wrong keys.
	state, _ := cube.Scramble(77, 25)
	_, err := svc.Solve(context.Background(), state, SolveOptions{})
	assert.NoError(t, err)
}

func TestStaged2_ShorterOnAverage(t *testing.T) {
	if testing.Short() {
		t.Skip("two-phase table builds are slow")
	}
	svc := testService(t)

	var sum2, sum4 int
	const trials = 50
	for i := 0; i < trials; i++ {
		state, _ := cube.Scramble(int64(1000+i), 30)

		r4, err := svc.Solve(context.Background(), state, SolveOptions{Algorithm: AlgorithmStaged4})
		require.NoError(t, err)
		r2, err := svc.Solve(context.Background(), state, SolveOptions{Algorithm: AlgorithmStaged2})
		require.NoError(t, err)

		sum4 += r4.Length
		sum2 += r2.Length
	}
	assert.Less(t, sum2, sum4, "two-phase solutions should be shorter on average")
}

func TestSolve_SolvedInputIsEmptySolution(t *testing.T) {
	svc := testService(t)

	for _, alg := range []Algorithm{AlgorithmStaged4, AlgorithmIDAStar} {
		res, err := svc.Solve(context.Background(), cube.Solved(), SolveOptions{Algorithm: alg})
		require.NoError(t, err, "algorithm %s", alg)
		assert.Empty(t, res.Moves)
		assert.Zero(t, res.Length)
		assert.Equal(t, search.StatusSolved, res.Status)
	}
}

func TestSolve_HeuristicOverride(t *testing.T) {
	svc := testService(t)
	state, scramble := cube.Scramble(19, 4)

	res, err := svc.Solve(context.Background(), state, SolveOptions{
		Algorithm: AlgorithmIDAStar,
		Heuristic: heuristic.VariantManhattan,
	})
	require.NoError(t, err)
	assert.True(t, state.ApplySequence(res.Moves).IsSolved())
	assert.LessOrEqual(t, res.Length, len(scramble))
}

func TestSolve_MaxDepthOverride(t *testing.T) {
	svc := testService(t)
	state, _ := cube.Scramble(91, 30)

	// A 30-move scramble has no 2-move solution.
	_, err := svc.Solve(context.Background(), state, SolveOptions{
		Algorithm: AlgorithmIDAStar,
		MaxDepth:  2,
	})
	assert.ErrorIs(t, err, search.ErrNoSolution)
}

func TestBuildPatternDatabase_Idempotent(t *testing.T) {
	svc := testService(t)

	first, err := svc.BuildPatternDatabase(context.Background(), coord.CornerOrient, coord.MovesAll)
	require.NoError(t, err)
	second, err := svc.BuildPatternDatabase(context.Background(), coord.CornerOrient, coord.MovesAll)
	require.NoError(t, err)
	assert.Same(t, first, second, "repeat builds must share the cached table")
}

func TestLoadFileConfig_Defaults(t *testing.T) {
	cfg, err := LoadFileConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, string(AlgorithmStaged4), cfg.Solver.DefaultAlgorithm)

	svc := cfg.ServiceConfig()
	assert.Equal(t, AlgorithmStaged4, svc.DefaultAlgorithm)
}

func TestLoadFileConfig_File(t *testing.T) {
	path := t.TempDir() + "/solver.yaml"
	body := []byte("server:\n  addr: \":9999\"\nsolver:\n  default_algorithm: staged2\n  staged2:\n    phase1_max_depth: 10\n")
	require.NoError(t, os.WriteFile(path, body, 0644))

	cfg, err := LoadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "staged2", cfg.Solver.DefaultAlgorithm)
	assert.Equal(t, 10, cfg.Solver.Staged2.Phase1MaxDepth)
}

func TestLoadFileConfig_BadAlgorithm(t *testing.T) {
	path := t.TempDir() + "/solver.yaml"
	require.NoError(t, os.WriteFile(path, []byte("solver:\n  default_algorithm: cfop\n"), 0644))

	_, err := LoadFileConfig(path)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}
