// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package korf finds move-optimal solutions with a single admissible
// search over the full state space, no stage boundaries. Optimality
// costs time: expect seconds for shallow scrambles and much longer
// near the 20-move diameter.
package korf

import (
	"context"
	"fmt"
	"time"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/pkg/logging"
	"github.com/AleutianAI/AleutianCube/services/solver/coord"
	"github.com/AleutianAI/AleutianCube/services/solver/heuristic"
	"github.com/AleutianAI/AleutianCube/services/solver/pdb"
	"github.com/AleutianAI/AleutianCube/services/solver/search"
)

// Mode selects the pattern databases backing the search.
type Mode string

const (
	// ModeLight uses the three small orientation and slice tables.
	// They build in seconds and prune enough for shallow scrambles.
	ModeLight Mode = "light"

	// ModeFull uses the 88-million-entry corner table and two six-edge
	// tables. First build takes tens of minutes and roughly 70 MB of
	// cache; lookups then prune deep searches hard.
	ModeFull Mode = "full"
)

// Algorithm selects the search strategy.
type Algorithm string

const (
	AlgorithmIDAStar Algorithm = "idastar"
	AlgorithmAStar   Algorithm = "astar"
)

// Config controls the optimal solver.
type Config struct {
	// Mode selects the pattern databases. Default ModeLight.
	Mode Mode `yaml:"mode"`

	// Algorithm selects the search. Default IDA*; A* trades memory
	// for fewer expansions and only suits shallow scrambles.
	Algorithm Algorithm `yaml:"algorithm"`

	// MaxDepth caps solution length. Default 20, the state-space
	// diameter.
	MaxDepth int `yaml:"max_depth"`

	// Timeout bounds wall time. Zero means none.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the light-table IDA* setup.
func DefaultConfig() Config {
	return Config{
		Mode:      ModeLight,
		Algorithm: AlgorithmIDAStar,
		MaxDepth:  20,
	}
}

// Solver is the optimal solver. Safe for concurrent use; pattern
// databases are shared through the store.
type Solver struct {
	store  *pdb.Store
	logger *logging.Logger
	cfg    Config
}

// New creates an optimal solver backed by the given pattern-database
// store.
func New(store *pdb.Store, logger *logging.Logger, cfg Config) *Solver {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeLight
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = AlgorithmIDAStar
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 20
	}
	return &Solver{store: store, logger: logger, cfg: cfg}
}

// Heuristic returns the pattern-max estimator for the configured mode,
// building or loading its tables through the store.
func (s *Solver) Heuristic(ctx context.Context) (heuristic.Heuristic, error) {
	var spaces []coord.Space
	switch s.cfg.Mode {
	case ModeLight:
		spaces = []coord.Space{coord.CornerOrient, coord.EdgeOrient, coord.UDSlice}
	case ModeFull:
		spaces = []coord.Space{coord.CornerFull, coord.EdgeGroupA, coord.EdgeGroupB}
	default:
		return nil, fmt.Errorf("unknown mode %q", s.cfg.Mode)
	}
	tables := make([]*pdb.Table, 0, len(spaces))
	for _, space := range spaces {
		t, err := s.store.Get(ctx, pdb.AutoTransitions(space, coord.MovesAll))
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return heuristic.NewPatternMax(tables...)
}

// Solve returns a move-optimal solution.
func (s *Solver) Solve(ctx context.Context, state cube.Cubie) (search.Result, error) {
	h, err := s.Heuristic(ctx)
	if err != nil {
		return search.Result{}, err
	}
	opts := search.Options{
		MaxDepth: s.cfg.MaxDepth,
		Budget:   search.NewBudget(0, s.cfg.Timeout),
	}
	var res search.Result
	switch s.cfg.Algorithm {
	case AlgorithmAStar:
		res, err = search.AStar(ctx, state, h, opts)
	default:
		res, err = search.IDAStar(ctx, state, h, opts)
	}
	if err != nil {
		return res, err
	}
	s.logger.Debug("optimal solve complete",
		"algorithm", string(s.cfg.Algorithm),
		"mode", string(s.cfg.Mode),
		"moves", len(res.Moves),
		"nodes", res.Stats.NodesExpanded,
		"elapsed", res.Stats.Elapsed.String(),
	)
	return res, nil
}
