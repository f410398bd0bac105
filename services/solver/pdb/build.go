// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pdb

import (
	"context"
	"fmt"
	"time"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/pkg/logging"
)

// buildProgressInterval is how many expanded coordinates pass between
// Info-level progress reports. The big optimal-solver builds run for
// minutes; without periodic output they look hung. A variable so tests
// can shrink it.
var buildProgressInterval = 1 << 22

// Build runs a breadth-first sweep from the solved coordinate and
// records the depth at which each coordinate is first reached.
//
// The frontier is held as raw uint32 indices and swapped per layer, so
// peak memory is one layer of the space, not the whole queue history.
// Cancellation is checked between layers and periodically inside them;
// a canceled build returns ErrBuildCanceled and no table.
//
// Depths beyond 14 are clamped to 14 to fit the nibble packing. The
// clamp loses precision, never admissibility.
func Build(ctx context.Context, tr Transitions, logger *logging.Logger) (*Table, error) {
	if logger == nil {
		logger = logging.Default()
	}
	space, set := tr.Space(), tr.Set()
	start := time.Now()
	logger.Info("pattern database build started",
		"space", space.Name(),
		"cardinality", space.Size(),
		"move_set", set.Name,
	)

	t := newTable(space, set)
	solved := space.Rank(cube.Solved())
	t.put(solved, 0)

	frontier := []uint32{uint32(solved)}
	filled := 1
	depth := uint8(0)
	nmoves := len(set.Moves)
	processed := 0

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildCanceled, err)
		}
		stored := depth + 1
		if stored > maxStoredDepth {
			stored = maxStoredDepth
		}
		var next []uint32
		for n, idx := range frontier {
			if n&0xFFFF == 0xFFFF {
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("%w: %w", ErrBuildCanceled, err)
				}
			}
			for j := 0; j < nmoves; j++ {
				to := tr.Next(int(idx), j)
				if t.at(to) == sentinel {
					t.put(to, stored)
					next = append(next, uint32(to))
				}
			}
			processed++
			if processed%buildProgressInterval == 0 {
				logger.Info("pattern database build progress",
					"space", space.Name(),
					"processed", processed,
					"filled", filled+len(next),
					"cardinality", space.Size(),
					"depth", stored,
				)
			}
		}
		if len(next) > 0 {
			depth = stored
			filled += len(next)
			logger.Debug("pattern database layer complete",
				"space", space.Name(),
				"depth", depth,
				"layer_size", len(next),
				"filled", filled,
			)
		}
		frontier = next
	}

	t.MaxDepth = depth
	t.Complete = filled == space.Size()
	t.BuiltAt = time.Now()

	if !t.Complete {
		// A generating set reaches the whole group, so any gap means
		// the space or the transition source is broken. Restricted
		// sets leave the out-of-subgroup cells unreached by design.
		if set.Generating {
			return nil, fmt.Errorf("%w: %s under %s left %d cells unreached",
				ErrUnreachedEntry, space.Name(), set.Name, space.Size()-filled)
		}
		logger.Info("pattern database has unreached cells",
			"space", space.Name(),
			"move_set", set.Name,
			"unreached", space.Size()-filled,
		)
	}
	logger.Info("pattern database build finished",
		"space", space.Name(),
		"max_depth", t.MaxDepth,
		"complete", t.Complete,
		"elapsed", time.Since(start).String(),
	)
	return t, nil
}
