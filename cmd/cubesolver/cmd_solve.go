// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/pkg/ux"
	"github.com/AleutianAI/AleutianCube/services/solver"
)

var (
	solveAlgorithm string
	solveTimeout   time.Duration
	solveMaxNodes  uint64
	solveMaxDepth  int
	solveJSON      bool

	solveCmd = &cobra.Command{
		Use:   "solve [scramble...]",
		Short: "Solve a scrambled cube",
		Long: `Applies the scramble to the solved cube and prints a solving
sequence. The scramble may be given as one quoted argument or as
separate move tokens.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSolve,
	}
)

func init() {
	solveCmd.Flags().StringVarP(&solveAlgorithm, "algorithm", "a", "",
		"Solver: staged4, staged2, idastar, or astar (default from config)")
	solveCmd.Flags().DurationVar(&solveTimeout, "timeout", 0,
		"Wall-time bound for the optimal solvers")
	solveCmd.Flags().Uint64Var(&solveMaxNodes, "max-nodes", 0,
		"Node-expansion bound for the optimal solvers")
	solveCmd.Flags().IntVar(&solveMaxDepth, "max-depth", 0,
		"Solution-length bound for the optimal solvers")
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "Print the full result as JSON")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	scramble := strings.Join(args, " ")
	moves, err := cube.ParseSequence(scramble)
	if err != nil {
		return err
	}
	state := cube.Solved().ApplySequence(moves)

	logger := newLogger()
	defer logger.Close()
	svc, err := newService(logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	spin := ux.NewSpinner("solving")
	spin.Start()
	res, err := svc.Solve(context.Background(), state, solver.SolveOptions{
		Algorithm: solver.Algorithm(solveAlgorithm),
		Timeout:   solveTimeout,
		MaxNodes:  solveMaxNodes,
		MaxDepth:  solveMaxDepth,
		Scramble:  scramble,
	})
	if err != nil {
		spin.StopWithError(fmt.Sprintf("solve failed: %v", err))
		return err
	}
	spin.Stop()

	if solveJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Printf("Scramble:  %s\n", scramble)
	fmt.Printf("Solution:  %s\n", res.Solution)
	fmt.Printf("Length:    %d moves (%s, %s)\n", res.Length, res.Algorithm, res.Elapsed.Round(time.Millisecond))
	for _, ph := range res.Phases {
		fmt.Printf("  %-22s %2d  %s\n", ph.Name, ph.Length, ph.Solution)
	}
	return nil
}
