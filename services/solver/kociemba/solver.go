// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package kociemba solves the cube in two phases. Phase one orients
// every piece and homes the E-slice with all eighteen moves; phase two
// finishes the permutation inside the subgroup that preserves those
// properties, using only U/D turns and half turns.
//
// Two phases instead of four means far fewer stage boundaries to lose
// moves at: typical solutions run shorter than the four-stage
// reduction at the cost of bigger pruning tables.
package kociemba

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/pkg/logging"
	"github.com/AleutianAI/AleutianCube/services/solver/coord"
	"github.com/AleutianAI/AleutianCube/services/solver/heuristic"
	"github.com/AleutianAI/AleutianCube/services/solver/pdb"
	"github.com/AleutianAI/AleutianCube/services/solver/search"
)

// Config bounds the two phases. The defaults are the proven worst
// cases for each phase's quotient, so exhausting them means a bug, not
// a hard cube.
type Config struct {
	// Phase1MaxDepth caps the orientation phase. The quotient's
	// diameter is 12.
	Phase1MaxDepth int `yaml:"phase1_max_depth"`

	// Phase2MaxDepth caps the permutation phase. The subgroup's
	// diameter is 18.
	Phase2MaxDepth int `yaml:"phase2_max_depth"`

	// Phase1Timeout and Phase2Timeout bound wall time per phase.
	Phase1Timeout time.Duration `yaml:"phase1_timeout"`
	Phase2Timeout time.Duration `yaml:"phase2_timeout"`
}

// DefaultConfig returns the standard bounds.
func DefaultConfig() Config {
	return Config{
		Phase1MaxDepth: 12,
		Phase2MaxDepth: 18,
		Phase1Timeout:  30 * time.Second,
		Phase2Timeout:  60 * time.Second,
	}
}

// PhaseError wraps a failure with the phase it happened in.
type PhaseError struct {
	Phase int
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("phase %d: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// Result is a two-phase solution. Moves is Phase1 followed by Phase2.
type Result struct {
	Moves  []cube.Move  `json:"moves"`
	Phase1 []cube.Move  `json:"phase1"`
	Phase2 []cube.Move  `json:"phase2"`
	Stats  search.Stats `json:"stats"`
}

// InSubgroup reports whether the state is in the phase-two subgroup:
// all pieces oriented and the E-slice edges home.
func InSubgroup(c cube.Cubie) bool {
	return coord.CornerOrient.Rank(c) == 0 &&
		coord.EdgeOrient.Rank(c) == 0 &&
		coord.UDSlice.Rank(c) == 0
}

// Solver runs the two-phase algorithm. Safe for concurrent use;
// pattern databases are shared through the store.
type Solver struct {
	store  *pdb.Store
	logger *logging.Logger
	cfg    Config
}

// New creates a two-phase solver backed by the given pattern-database
// store.
func New(store *pdb.Store, logger *logging.Logger, cfg Config) *Solver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Solver{store: store, logger: logger, cfg: cfg}
}

// Solve returns a solution for the state: an optimal path into the
// phase-two subgroup, then an optimal finish within it.
func (s *Solver) Solve(ctx context.Context, state cube.Cubie) (Result, error) {
	p1, err := s.runPhase(ctx, 1, state, search.Options{
		Moves:    coord.MovesAll,
		Goal:     InSubgroup,
		MaxDepth: s.cfg.Phase1MaxDepth,
		Budget:   search.NewBudget(0, s.cfg.Phase1Timeout),
	}, []coord.Space{coord.TwistSlice, coord.FlipSlice})
	if err != nil {
		return Result{}, err
	}

	mid := state.ApplySequence(p1.Moves)
	if !InSubgroup(mid) {
		return Result{}, &PhaseError{Phase: 1,
			Err: errors.New("phase solution does not reach target subgroup")}
	}

	p2, err := s.runPhase(ctx, 2, mid, search.Options{
		Moves:    coord.MovesNoQuarterFBRL,
		MaxDepth: s.cfg.Phase2MaxDepth,
		Budget:   search.NewBudget(0, s.cfg.Phase2Timeout),
	}, []coord.Space{coord.CornerSlicePerm, coord.EdgeSlicePerm})
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Phase1: p1.Moves,
		Phase2: p2.Moves,
		Stats: search.Stats{
			NodesExpanded: p1.Stats.NodesExpanded + p2.Stats.NodesExpanded,
			Elapsed:       p1.Stats.Elapsed + p2.Stats.Elapsed,
		},
	}
	res.Moves = append(append([]cube.Move{}, p1.Moves...), p2.Moves...)
	return res, nil
}

func (s *Solver) runPhase(ctx context.Context, n int, state cube.Cubie, opts search.Options, spaces []coord.Space) (search.Result, error) {
	tables := make([]*pdb.Table, 0, len(spaces))
	for _, space := range spaces {
		t, err := s.store.Get(ctx, pdb.AutoTransitions(space, opts.Moves))
		if err != nil {
			return search.Result{}, &PhaseError{Phase: n, Err: err}
		}
		tables = append(tables, t)
	}
	h, err := heuristic.NewPatternMax(tables...)
	if err != nil {
		return search.Result{}, &PhaseError{Phase: n, Err: err}
	}

	res, err := search.IDAStar(ctx, state, h, opts)
	if err != nil {
		return search.Result{}, &PhaseError{Phase: n, Err: err}
	}
	s.logger.Debug("phase complete",
		"phase", n,
		"moves", len(res.Moves),
		"nodes", res.Stats.NodesExpanded,
		"elapsed", res.Stats.Elapsed.String(),
	)
	return res, nil
}
