// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package search implements the two optimal search strategies over cube
// states: iterative-deepening A* with an explicit stack, and classic
// A* with a binary heap and closed set.
//
// Both searches take the same options: a move set, a goal predicate, an
// admissible heuristic, a depth cap, and a budget. With an admissible
// heuristic both return move-optimal solutions; they differ only in the
// memory/time trade: IDA* holds one path, A* holds the whole frontier.
package search

import (
	"errors"
	"time"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/services/solver/coord"
	"github.com/AleutianAI/AleutianCube/services/solver/heuristic"
)

var (
	// ErrNoSolution is returned when the search space within MaxDepth
	// holds no path to the goal.
	ErrNoSolution = errors.New("no solution within depth limit")

	// ErrNodeBudget is returned when the node budget runs out before a
	// solution is found.
	ErrNodeBudget = errors.New("node budget exhausted")

	// ErrTimeout is returned when the wall-clock budget runs out
	// before a solution is found.
	ErrTimeout = errors.New("search timed out")
)

// Status describes how a search ended.
type Status string

const (
	StatusSolved    Status = "solved"
	StatusExhausted Status = "exhausted"
	StatusBudget    Status = "budget"
	StatusTimeout   Status = "timeout"
	StatusCanceled  Status = "canceled"
)

// Options configures a search run. The zero value searches with all
// eighteen moves to the solved state, unbounded except for MaxDepth.
type Options struct {
	// Moves restricts the branching set. Empty means all face turns.
	Moves coord.MoveSet

	// Goal is the success predicate. Nil means the solved state.
	Goal func(cube.Cubie) bool

	// MaxDepth caps solution length. Zero defaults to 30, beyond any
	// optimal full-cube solution.
	MaxDepth int

	// Budget bounds node expansions and wall time. Nil means
	// unbounded.
	Budget *Budget
}

func (o Options) withDefaults() Options {
	if len(o.Moves.Moves) == 0 {
		o.Moves = coord.MovesAll
	}
	if o.Goal == nil {
		o.Goal = func(c cube.Cubie) bool { return c.IsSolved() }
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 30
	}
	return o
}

// Stats carries observability counters out of a search run.
type Stats struct {
	// NodesExpanded counts states whose children were generated.
	NodesExpanded uint64 `json:"nodes_expanded"`

	// MaxFrontier is the peak size of the search's live structure:
	// the open list for A*, the path stack for IDA*.
	MaxFrontier int `json:"max_frontier"`

	// Elapsed is the wall time of the run.
	Elapsed time.Duration `json:"elapsed"`
}

// Result is the outcome of a search run. Moves is non-nil only when
// Status is StatusSolved.
type Result struct {
	Moves  []cube.Move `json:"moves"`
	Status Status      `json:"status"`
	Stats  Stats       `json:"stats"`
}

// estimate adapts heuristic errors into search aborts.
func estimate(h heuristic.Heuristic, c cube.Cubie) (int, error) {
	if h == nil {
		return 0, nil
	}
	return h.Estimate(c)
}
