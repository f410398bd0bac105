// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package solver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianCube/services/solver/kociemba"
	"github.com/AleutianAI/AleutianCube/services/solver/korf"
	"github.com/AleutianAI/AleutianCube/services/solver/thistlethwaite"
)

// FileConfig is the on-disk configuration for the solver server.
type FileConfig struct {
	Server struct {
		// Addr is the listen address, host:port.
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Logging struct {
		// Level is one of debug, info, warn, error.
		Level string `yaml:"level"`

		// Dir enables file logging when set.
		Dir string `yaml:"dir"`

		// JSON switches console output to JSON lines.
		JSON bool `yaml:"json"`
	} `yaml:"logging"`

	Solver struct {
		CacheDir         string                `yaml:"cache_dir"`
		DefaultAlgorithm string                `yaml:"default_algorithm"`
		DisablePatternDB bool                  `yaml:"disable_pattern_db"`
		JournalPath      string                `yaml:"journal_path"`
		Staged4          thistlethwaite.Config `yaml:"staged4"`
		Staged2          kociemba.Config       `yaml:"staged2"`
		Optimal          korf.Config           `yaml:"optimal"`
	} `yaml:"solver"`
}

// DefaultFileConfig returns the configuration used when no file is
// given.
func DefaultFileConfig() FileConfig {
	var cfg FileConfig
	cfg.Server.Addr = ":8080"
	cfg.Logging.Level = "info"
	svc := DefaultServiceConfig()
	cfg.Solver.CacheDir = svc.CacheDir
	cfg.Solver.DefaultAlgorithm = string(svc.DefaultAlgorithm)
	cfg.Solver.Staged4 = svc.Staged4
	cfg.Solver.Staged2 = svc.Staged2
	cfg.Solver.Optimal = svc.Optimal
	return cfg
}

// LoadFileConfig reads a yaml config, filling unset fields with
// defaults. An empty path returns the defaults unchanged.
func LoadFileConfig(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := ParseAlgorithm(cfg.Solver.DefaultAlgorithm); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ServiceConfig converts the file form into the runtime configuration.
func (c FileConfig) ServiceConfig() ServiceConfig {
	return ServiceConfig{
		CacheDir:         c.Solver.CacheDir,
		DefaultAlgorithm: Algorithm(c.Solver.DefaultAlgorithm),
		DisablePatternDB: c.Solver.DisablePatternDB,
		Staged4:          c.Solver.Staged4,
		Staged2:          c.Solver.Staged2,
		Optimal:          c.Solver.Optimal,
		JournalPath:      c.Solver.JournalPath,
	}
}
