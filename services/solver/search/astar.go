// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package search

import (
	"container/heap"
	"context"
	"time"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/services/solver/heuristic"
)

type astarRecord struct {
	state   cube.Cubie
	parent  int32
	move    cube.Move
	hasMove bool
}

type openItem struct {
	f, g int
	idx  int32
}

// openHeap orders by f ascending; ties prefer the deeper node, which
// drives the search toward completion instead of re-expanding shallow
// plateaus.
type openHeap []openItem

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].g > h[j].g
}
func (h openHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any)        { *h = append(*h, x.(openItem)) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// AStar runs best-first search with a binary heap and a best-cost map.
// It expands fewer states than IDA* on the same problem but holds every
// generated state in memory, so it suits shallow searches and the
// restricted phase subgroups, not deep optimal solves.
func AStar(ctx context.Context, root cube.Cubie, h heuristic.Heuristic, opts Options) (Result, error) {
	opts = opts.withDefaults()
	start := time.Now()
	res := Result{Status: StatusExhausted}

	finish := func(status Status, peak int, expanded uint64, err error) (Result, error) {
		res.Status = status
		res.Stats.NodesExpanded = expanded
		res.Stats.MaxFrontier = peak
		res.Stats.Elapsed = time.Since(start)
		return res, err
	}

	if err := ctx.Err(); err != nil {
		return finish(StatusCanceled, 0, 0, err)
	}
	if opts.Goal(root) {
		res.Moves = []cube.Move{}
		return finish(StatusSolved, 0, 0, nil)
	}

	h0, err := estimate(h, root)
	if err != nil {
		return finish(StatusExhausted, 0, 0, err)
	}

	records := []astarRecord{{state: root, parent: -1}}
	bestG := map[cube.Cubie]int{root: 0}
	open := openHeap{{f: h0, g: 0, idx: 0}}
	peak := 1

	var expanded uint64
	for open.Len() > 0 {
		item := heap.Pop(&open).(openItem)
		rec := records[item.idx]
		if g, ok := bestG[rec.state]; ok && item.g > g {
			continue // stale queue entry, a cheaper path got there first
		}
		// Goal test happens at pop, not at generation: only then is the
		// popped path known to be the cheapest one to this state.
		if opts.Goal(rec.state) {
			res.Moves = reconstruct(records, item.idx)
			return finish(StatusSolved, peak, expanded, nil)
		}

		expanded++
		opts.Budget.Spend(1)
		if expanded%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return finish(StatusCanceled, peak, expanded, err)
			}
			switch err := opts.Budget.Exceeded(); err {
			case nil:
			case ErrNodeBudget:
				return finish(StatusBudget, peak, expanded, err)
			default:
				return finish(StatusTimeout, peak, expanded, err)
			}
		}

		if item.g >= opts.MaxDepth {
			continue
		}
		for _, m := range opts.Moves.Moves {
			if rec.hasMove && cube.Redundant(rec.move, m) {
				continue
			}
			child := rec.state.Apply(m)
			g := item.g + 1
			if prev, ok := bestG[child]; ok && prev <= g {
				continue
			}
			hc, err := estimate(h, child)
			if err != nil {
				return finish(StatusExhausted, peak, expanded, err)
			}
			bestG[child] = g
			records = append(records, astarRecord{
				state: child, parent: item.idx, move: m, hasMove: true,
			})
			heap.Push(&open, openItem{f: g + hc, g: g, idx: int32(len(records) - 1)})
		}
		if open.Len() > peak {
			peak = open.Len()
		}
	}

	return finish(StatusExhausted, peak, expanded, ErrNoSolution)
}

func reconstruct(records []astarRecord, idx int32) []cube.Move {
	var rev []cube.Move
	for idx >= 0 {
		rec := records[idx]
		if rec.hasMove {
			rev = append(rev, rec.move)
		}
		idx = rec.parent
	}
	out := make([]cube.Move, len(rev))
	for i, m := range rev {
		out[len(rev)-1-i] = m
	}
	return out
}
