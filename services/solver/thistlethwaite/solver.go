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
	"fmt"
	"time"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/pkg/logging"
	"github.com/AleutianAI/AleutianCube/services/solver/coord"
	"github.com/AleutianAI/AleutianCube/services/solver/heuristic"
	"github.com/AleutianAI/AleutianCube/services/solver/pdb"
	"github.com/AleutianAI/AleutianCube/services/solver/search"
)

// NumPhases is the number of staged reductions.
const NumPhases = 4

// Config bounds each phase. The default depths are the known worst
// cases for this stage split, so a phase exhausting its depth signals
// a bug rather than a hard instance; the relax margin exists as a
// recovery of last resort and is logged loudly when used.
type Config struct {
	// Depths caps solution length per phase.
	Depths [NumPhases]int `yaml:"depths"`

	// Timeouts bounds wall time per phase.
	Timeouts [NumPhases]time.Duration `yaml:"timeouts"`

	// RetryRelax is added to a phase's depth for one retry after an
	// exhausted search. Zero disables the retry.
	RetryRelax int `yaml:"retry_relax"`
}

// DefaultConfig returns the standard per-phase bounds.
func DefaultConfig() Config {
	return Config{
		Depths:     [NumPhases]int{7, 10, 13, 15},
		Timeouts:   [NumPhases]time.Duration{10 * time.Second, 30 * time.Second, 60 * time.Second, 120 * time.Second},
		RetryRelax: 3,
	}
}

// PhaseError wraps a failure with the phase it happened in.
type PhaseError struct {
	Phase int
	Name  string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("stage %d (%s): %v", e.Phase, e.Name, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// PhaseResult records one stage of a staged solve.
type PhaseResult struct {
	Name  string       `json:"name"`
	Moves []cube.Move  `json:"moves"`
	Stats search.Stats `json:"stats"`
}

// Result is a full staged solution. Moves is the concatenation of the
// phase solutions, applied left to right.
type Result struct {
	Moves  []cube.Move   `json:"moves"`
	Phases []PhaseResult `json:"phases"`
}

type phase struct {
	name   string
	moves  coord.MoveSet
	goal   func(cube.Cubie) bool
	spaces []coord.Space
}

var phases = [NumPhases]phase{
	{
		name:   "orient-edges",
		moves:  coord.MovesAll,
		goal:   InG1,
		spaces: []coord.Space{coord.EdgeOrient},
	},
	{
		name:   "orient-corners-slice",
		moves:  coord.MovesNoQuarterFB,
		goal:   InG2,
		spaces: []coord.Space{coord.TwistSlice},
	},
	{
		name:   "separate-orbits",
		moves:  coord.MovesNoQuarterFBRL,
		goal:   InG3,
		spaces: []coord.Space{coord.TetradOrbit},
	},
	{
		name:   "half-turn-finish",
		moves:  coord.MovesHalfOnly,
		goal:   func(c cube.Cubie) bool { return c.IsSolved() },
		spaces: []coord.Space{coord.CornerPerm, coord.EdgeSlicePerm},
	},
}

// Solver runs the four-stage reduction. It is safe for concurrent use;
// pattern databases are shared through the store.
type Solver struct {
	store  *pdb.Store
	logger *logging.Logger
	cfg    Config
}

// New creates a staged solver backed by the given pattern-database
// store.
func New(store *pdb.Store, logger *logging.Logger, cfg Config) *Solver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Solver{store: store, logger: logger, cfg: cfg}
}

// Solve reduces the state through the four subgroups and returns the
// concatenated move sequence. Each stage's output is verified to be in
// the next subgroup before the following stage starts.
func (s *Solver) Solve(ctx context.Context, state cube.Cubie) (Result, error) {
	var out Result
	cur := state
	for i, ph := range phases {
		pr, err := s.solvePhase(ctx, i, ph, cur)
		if err != nil {
			return Result{}, err
		}
		cur = cur.ApplySequence(pr.Moves)
		if !ph.goal(cur) {
			return Result{}, &PhaseError{Phase: i, Name: ph.name,
				Err: errors.New("stage solution does not reach target subgroup")}
		}
		out.Moves = append(out.Moves, pr.Moves...)
		out.Phases = append(out.Phases, pr)
	}
	return out, nil
}

func (s *Solver) solvePhase(ctx context.Context, i int, ph phase, cur cube.Cubie) (PhaseResult, error) {
	if ph.goal(cur) {
		return PhaseResult{Name: ph.name, Moves: []cube.Move{}}, nil
	}

	h, err := s.phaseHeuristic(ctx, ph)
	if err != nil {
		return PhaseResult{}, &PhaseError{Phase: i, Name: ph.name, Err: err}
	}

	depth := s.cfg.Depths[i]
	res, err := search.IDAStar(ctx, cur, h, search.Options{
		Moves:    ph.moves,
		Goal:     ph.goal,
		MaxDepth: depth,
		Budget:   search.NewBudget(0, s.cfg.Timeouts[i]),
	})
	if errors.Is(err, search.ErrNoSolution) && s.cfg.RetryRelax > 0 {
		s.logger.Warn("stage exhausted its depth bound, retrying relaxed",
			"stage", ph.name,
			"depth", depth,
			"relaxed_depth", depth+s.cfg.RetryRelax,
		)
		res, err = search.IDAStar(ctx, cur, h, search.Options{
			Moves:    ph.moves,
			Goal:     ph.goal,
			MaxDepth: depth + s.cfg.RetryRelax,
			Budget:   search.NewBudget(0, s.cfg.Timeouts[i]),
		})
	}
	if err != nil {
		return PhaseResult{}, &PhaseError{Phase: i, Name: ph.name, Err: err}
	}

	s.logger.Debug("stage complete",
		"stage", ph.name,
		"moves", len(res.Moves),
		"nodes", res.Stats.NodesExpanded,
		"elapsed", res.Stats.Elapsed.String(),
	)
	return PhaseResult{Name: ph.name, Moves: res.Moves, Stats: res.Stats}, nil
}

// Warm builds or loads every stage's pattern databases so the first
// solve does not pay the build cost.
func (s *Solver) Warm(ctx context.Context) error {
	for i, ph := range phases {
		if _, err := s.phaseHeuristic(ctx, ph); err != nil {
			return &PhaseError{Phase: i, Name: ph.name, Err: err}
		}
	}
	return nil
}

// phaseHeuristic assembles the max over the phase's pattern databases,
// building or loading them through the store.
func (s *Solver) phaseHeuristic(ctx context.Context, ph phase) (heuristic.Heuristic, error) {
	tables := make([]*pdb.Table, 0, len(ph.spaces))
	for _, space := range ph.spaces {
		t, err := s.store.Get(ctx, pdb.AutoTransitions(space, ph.moves))
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return heuristic.NewPatternMax(tables...)
}
