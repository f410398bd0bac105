// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
)

var (
	scrambleLength int
	scrambleSeed   int64

	scrambleCmd = &cobra.Command{
		Use:   "scramble",
		Short: "Generate a random scramble",
		Long: `Prints a random scramble sequence. A fixed seed reproduces the
same sequence, useful for sharing test cases.`,
		Args: cobra.NoArgs,
		RunE: runScramble,
	}
)

func init() {
	scrambleCmd.Flags().IntVarP(&scrambleLength, "length", "n", 25, "Number of scramble moves")
	scrambleCmd.Flags().Int64Var(&scrambleSeed, "seed", 0, "Random seed, 0 draws a fresh one")
	rootCmd.AddCommand(scrambleCmd)
}

func runScramble(cmd *cobra.Command, args []string) error {
	if scrambleLength <= 0 {
		return fmt.Errorf("scramble length must be positive, got %d", scrambleLength)
	}
	seed := scrambleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	_, moves := cube.Scramble(seed, scrambleLength)
	fmt.Println(cube.FormatSequence(moves))
	return nil
}
