// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package search

import (
	"context"
	"time"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/services/solver/heuristic"
)

const inf = 1 << 30

// checkInterval is how many expansions pass between budget and
// cancellation checks.
const checkInterval = 1 << 10

type idaFrame struct {
	state   cube.Cubie
	g       int
	next    int
	last    cube.Move
	hasLast bool
}

// IDAStar runs iterative-deepening A* from root. Memory stays
// proportional to the solution depth: the recursion is flattened into
// an explicit frame stack and each deepening pass revisits the shallow
// layers instead of storing them.
//
// With an admissible heuristic the returned solution is move-optimal
// for the configured move set and goal.
func IDAStar(ctx context.Context, root cube.Cubie, h heuristic.Heuristic, opts Options) (Result, error) {
	opts = opts.withDefaults()
	start := time.Now()
	res := Result{Status: StatusExhausted}
	peak := 0

	finish := func(status Status, expanded uint64, err error) (Result, error) {
		res.Status = status
		res.Stats.NodesExpanded = expanded
		res.Stats.MaxFrontier = peak
		res.Stats.Elapsed = time.Since(start)
		return res, err
	}

	// An already-expired context never starts expanding; without this
	// a small search could finish between interval checks and mask the
	// caller's deadline.
	if err := ctx.Err(); err != nil {
		return finish(StatusCanceled, 0, err)
	}
	if opts.Goal(root) {
		res.Moves = []cube.Move{}
		return finish(StatusSolved, 0, nil)
	}

	threshold, err := estimate(h, root)
	if err != nil {
		return finish(StatusExhausted, 0, err)
	}
	if threshold < 1 {
		threshold = 1
	}

	var expanded uint64
	nmoves := len(opts.Moves.Moves)

	for threshold <= opts.MaxDepth {
		minOver := inf
		stack := make([]idaFrame, 1, opts.MaxDepth+1)
		stack[0] = idaFrame{state: root}
		moves := make([]cube.Move, 0, opts.MaxDepth)
		if peak == 0 {
			peak = 1
		}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			if top.next == 0 {
				expanded++
				opts.Budget.Spend(1)
				if expanded%checkInterval == 0 {
					if err := ctx.Err(); err != nil {
						return finish(StatusCanceled, expanded, err)
					}
					switch err := opts.Budget.Exceeded(); err {
					case nil:
					case ErrNodeBudget:
						return finish(StatusBudget, expanded, err)
					default:
						return finish(StatusTimeout, expanded, err)
					}
				}
			}

			if top.next >= nmoves {
				stack = stack[:len(stack)-1]
				if len(moves) > 0 {
					moves = moves[:len(moves)-1]
				}
				continue
			}

			m := opts.Moves.Moves[top.next]
			top.next++
			if top.hasLast && cube.Redundant(top.last, m) {
				continue
			}

			child := top.state.Apply(m)
			hc, err := estimate(h, child)
			if err != nil {
				return finish(StatusExhausted, expanded, err)
			}
			f := top.g + 1 + hc
			if f > threshold {
				if f < minOver {
					minOver = f
				}
				continue
			}
			if opts.Goal(child) {
				res.Moves = append(append([]cube.Move{}, moves...), m)
				return finish(StatusSolved, expanded, nil)
			}
			g := top.g
			stack = append(stack, idaFrame{state: child, g: g + 1, last: m, hasLast: true})
			moves = append(moves, m)
			if len(stack) > peak {
				peak = len(stack)
			}
		}

		if minOver == inf {
			return finish(StatusExhausted, expanded, ErrNoSolution)
		}
		threshold = minOver
	}

	return finish(StatusExhausted, expanded, ErrNoSolution)
}
