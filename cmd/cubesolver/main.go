// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command cubesolver solves, scrambles, and analyzes 3x3x3 cube states.
//
// Usage:
//
//	cubesolver solve "R U2 F' D L2 B"
//	cubesolver solve --algorithm staged2 "R U2 F' D L2 B"
//	cubesolver scramble --length 25
//	cubesolver estimate "R U2 F'" --heuristic manhattan
//	cubesolver pdb build --all
//	cubesolver serve --addr :8080
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianCube/pkg/logging"
	"github.com/AleutianAI/AleutianCube/pkg/ux"
	"github.com/AleutianAI/AleutianCube/services/solver"
)

var (
	configPath  string
	cacheDir    string
	verbose     bool
	plainOutput bool

	fileConfig solver.FileConfig

	rootCmd = &cobra.Command{
		Use:   "cubesolver",
		Short: "A 3x3x3 cube solving engine",
		Long: `Cubesolver finds move sequences for scrambled 3x3x3 cubes with a
choice of engines: a four-stage reduction, a two-phase reduction, and
optimal pattern-database search.`,
		SilenceUsage: true,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a yaml config file")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Pattern database cache directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false, "Unstyled single-line output for scripts")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		ux.SetPlain(plainOutput)
		cfg, err := solver.LoadFileConfig(configPath)
		if err != nil {
			return err
		}
		if cacheDir != "" {
			cfg.Solver.CacheDir = cacheDir
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		fileConfig = cfg
		return nil
	}
}

// newLogger builds the process logger from the loaded config.
func newLogger() *logging.Logger {
	level := logging.LevelInfo
	switch fileConfig.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	return logging.New(logging.Config{
		Level:   level,
		LogDir:  fileConfig.Logging.Dir,
		JSON:    fileConfig.Logging.JSON,
		Service: "cubesolver",
	})
}

// newService builds the solver service from the loaded config.
func newService(logger *logging.Logger) (*solver.Service, error) {
	cfg := fileConfig.ServiceConfig()
	cfg.Logger = logger
	return solver.NewService(cfg)
}
