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
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/services/solver/heuristic"
)

var (
	estimateHeuristic string

	estimateCmd = &cobra.Command{
		Use:   "estimate [scramble...]",
		Short: "Lower-bound the distance of a scrambled cube",
		Long: `Applies the scramble to the solved cube and prints an admissible
lower bound on the number of moves needed to solve it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runEstimate,
	}
)

func init() {
	estimateCmd.Flags().StringVar(&estimateHeuristic, "heuristic", string(heuristic.VariantPatternMax),
		"Estimator: zero, hamming, manhattan, pattern-max, or composite")
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	moves, err := cube.ParseSequence(strings.Join(args, " "))
	if err != nil {
		return err
	}
	variant, err := heuristic.ParseVariant(estimateHeuristic)
	if err != nil {
		return err
	}

	logger := newLogger()
	defer logger.Close()
	svc, err := newService(logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	state := cube.Solved().ApplySequence(moves)
	estimate, err := svc.EstimateDistance(context.Background(), state, variant)
	if err != nil {
		return err
	}
	fmt.Printf("At least %d moves (%s)\n", estimate, variant)
	return nil
}
