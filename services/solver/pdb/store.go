// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pdb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/AleutianAI/AleutianCube/pkg/logging"
)

// Config controls where a Store keeps cache files.
type Config struct {
	// Dir is the cache directory. Empty disables persistence: tables
	// are built in memory and rebuilt on every process start.
	Dir string

	// Logger receives build progress and cache diagnostics. Nil uses
	// the default stderr logger.
	Logger *logging.Logger

	// OnBuild, when set, is called after every build attempt with the
	// space name and "ok" or "failed". Cache loads do not count as
	// builds.
	OnBuild func(space, outcome string)
}

// DefaultConfig persists caches under the user cache directory.
func DefaultConfig() Config {
	dir, err := os.UserCacheDir()
	if err != nil {
		return Config{}
	}
	return Config{Dir: filepath.Join(dir, "aleutiancube", "pdb")}
}

// InMemoryConfig disables persistence. Intended for tests and one-shot
// runs that should not touch the filesystem.
func InMemoryConfig() Config {
	return Config{}
}

// Store hands out pattern databases, building them at most once per
// process and reusing disk caches across processes.
//
// Concurrent Get calls for the same table share one build; callers
// waiting on a shared build all receive the same *Table or the same
// error. Tables are immutable once returned.
type Store struct {
	cfg    Config
	logger *logging.Logger

	group singleflight.Group

	mu     sync.RWMutex
	tables map[string]*Table
}

// NewStore creates a store. The cache directory is created lazily on
// first save.
func NewStore(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		cfg:    cfg,
		logger: logger,
		tables: make(map[string]*Table),
	}
}

// Get returns the table for the given transitions, loading it from the
// disk cache if a valid file exists and building it otherwise. A
// corrupt or mismatched cache file is discarded and rebuilt, never
// trusted.
func (s *Store) Get(ctx context.Context, tr Transitions) (*Table, error) {
	key := tr.Space().Name() + "@" + tr.Set().Name

	s.mu.RLock()
	t, ok := s.tables[key]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		t, err := s.loadOrBuild(ctx, tr)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.tables[key] = t
		s.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

func (s *Store) loadOrBuild(ctx context.Context, tr Transitions) (*Table, error) {
	var path string
	if s.cfg.Dir != "" {
		path = CachePath(s.cfg.Dir, tr.Space().Name(), tr.Set().Name)
		t, err := Load(path, tr)
		switch {
		case err == nil:
			s.logger.Info("pattern database loaded from cache",
				"space", tr.Space().Name(),
				"move_set", tr.Set().Name,
				"path", path,
			)
			return t, nil
		case errors.Is(err, ErrCacheCorrupt) || errors.Is(err, ErrCacheMismatch):
			s.logger.Warn("discarding unusable pattern database cache",
				"path", path,
				"error", err.Error(),
			)
			_ = os.Remove(path)
		case !errors.Is(err, os.ErrNotExist):
			s.logger.Warn("pattern database cache unreadable",
				"path", path,
				"error", err.Error(),
			)
		}
	}

	t, err := Build(ctx, tr, s.logger)
	if s.cfg.OnBuild != nil {
		outcome := "ok"
		if err != nil {
			outcome = "failed"
		}
		s.cfg.OnBuild(tr.Space().Name(), outcome)
	}
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := Save(t, path); err != nil {
			// A failed save costs a rebuild next process, nothing more.
			s.logger.Warn("pattern database cache save failed",
				"path", path,
				"error", err.Error(),
			)
		}
	}
	return t, nil
}
