// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianCube/pkg/ux"
	"github.com/AleutianAI/AleutianCube/services/solver/coord"
	"github.com/AleutianAI/AleutianCube/services/solver/pdb"
)

var (
	pdbStaged4 bool
	pdbStaged2 bool
	pdbOptimal bool
	pdbFull    bool
	pdbAll     bool

	pdbCmd = &cobra.Command{
		Use:   "pdb",
		Short: "Manage pattern database caches",
	}

	pdbBuildCmd = &cobra.Command{
		Use:   "build",
		Short: "Build pattern databases ahead of time",
		Long: `Builds the selected pattern databases and writes them to the
cache directory, so servers and solves start without a build pause.
With no selection flags the staged solver tables are built.`,
		Args: cobra.NoArgs,
		RunE: runPdbBuild,
	}
)

// pdbTarget is one (space, move set) pair to build.
type pdbTarget struct {
	space coord.Space
	set   coord.MoveSet
}

func init() {
	pdbBuildCmd.Flags().BoolVar(&pdbStaged4, "staged4", false, "Four-stage solver tables")
	pdbBuildCmd.Flags().BoolVar(&pdbStaged2, "staged2", false, "Two-phase solver tables")
	pdbBuildCmd.Flags().BoolVar(&pdbOptimal, "optimal", false, "Optimal solver tables (light mode)")
	pdbBuildCmd.Flags().BoolVar(&pdbFull, "full", false, "Optimal solver tables (full mode, tens of GB of scratch)")
	pdbBuildCmd.Flags().BoolVar(&pdbAll, "all", false, "Everything except --full")
	pdbCmd.AddCommand(pdbBuildCmd)
	rootCmd.AddCommand(pdbCmd)
}

func runPdbBuild(cmd *cobra.Command, args []string) error {
	if !pdbStaged4 && !pdbStaged2 && !pdbOptimal && !pdbFull && !pdbAll {
		pdbStaged4 = true
	}
	if pdbAll {
		pdbStaged4, pdbStaged2, pdbOptimal = true, true, true
	}

	var targets []pdbTarget
	if pdbStaged4 {
		targets = append(targets,
			pdbTarget{coord.EdgeOrient, coord.MovesAll},
			pdbTarget{coord.TwistSlice, coord.MovesNoQuarterFB},
			pdbTarget{coord.TetradOrbit, coord.MovesNoQuarterFBRL},
			pdbTarget{coord.CornerPerm, coord.MovesHalfOnly},
			pdbTarget{coord.EdgeSlicePerm, coord.MovesHalfOnly},
		)
	}
	if pdbStaged2 {
		targets = append(targets,
			pdbTarget{coord.TwistSlice, coord.MovesAll},
			pdbTarget{coord.FlipSlice, coord.MovesAll},
			pdbTarget{coord.CornerSlicePerm, coord.MovesNoQuarterFBRL},
			pdbTarget{coord.EdgeSlicePerm, coord.MovesNoQuarterFBRL},
		)
	}
	if pdbOptimal {
		targets = append(targets,
			pdbTarget{coord.CornerOrient, coord.MovesAll},
			pdbTarget{coord.EdgeOrient, coord.MovesAll},
			pdbTarget{coord.UDSlice, coord.MovesAll},
		)
	}
	if pdbFull {
		targets = append(targets,
			pdbTarget{coord.CornerFull, coord.MovesAll},
			pdbTarget{coord.EdgeGroupA, coord.MovesAll},
			pdbTarget{coord.EdgeGroupB, coord.MovesAll},
		)
	}

	logger := newLogger()
	defer logger.Close()
	store := pdb.NewStore(pdb.Config{Dir: fileConfig.Solver.CacheDir, Logger: logger})

	ctx := context.Background()
	for i, tgt := range targets {
		spin := ux.NewSpinner(fmt.Sprintf("building %s over %s [%d/%d]",
			tgt.space.Name(), tgt.set.Name, i+1, len(targets)))
		spin.Start()
		start := time.Now()
		table, err := store.Get(ctx, pdb.AutoTransitions(tgt.space, tgt.set))
		if err != nil {
			spin.StopWithError(fmt.Sprintf("build %s over %s: %v", tgt.space.Name(), tgt.set.Name, err))
			return err
		}
		spin.StopWithSuccess(fmt.Sprintf("%-20s %-16s %12d entries  depth %2d  %s",
			table.SpaceName, table.MoveSetName, table.Cardinality,
			table.MaxDepth, time.Since(start).Round(time.Millisecond)))
	}
	return nil
}
