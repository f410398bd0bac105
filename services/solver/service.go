// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package solver is the facade over the solving engines. It validates
// input states, dispatches to the selected algorithm, persists solve
// records, and exposes the HTTP API.
//
// Four algorithms are served:
//
//   - staged4: four-stage subgroup reduction, small tables, fast
//   - staged2: two-phase reduction, bigger tables, shorter solutions
//   - idastar: optimal iterative-deepening search
//   - astar:   optimal best-first search, shallow scrambles only
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/pkg/logging"
	"github.com/AleutianAI/AleutianCube/services/solver/coord"
	"github.com/AleutianAI/AleutianCube/services/solver/heuristic"
	"github.com/AleutianAI/AleutianCube/services/solver/journal"
	"github.com/AleutianAI/AleutianCube/services/solver/kociemba"
	"github.com/AleutianAI/AleutianCube/services/solver/korf"
	"github.com/AleutianAI/AleutianCube/services/solver/pdb"
	"github.com/AleutianAI/AleutianCube/services/solver/search"
	"github.com/AleutianAI/AleutianCube/services/solver/telemetry"
	"github.com/AleutianAI/AleutianCube/services/solver/thistlethwaite"
)

// Algorithm selects a solving strategy.
type Algorithm string

const (
	AlgorithmStaged4 Algorithm = "staged4"
	AlgorithmStaged2 Algorithm = "staged2"
	AlgorithmIDAStar Algorithm = "idastar"
	AlgorithmAStar   Algorithm = "astar"
)

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(s); a {
	case AlgorithmStaged4, AlgorithmStaged2, AlgorithmIDAStar, AlgorithmAStar:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// ServiceConfig configures the solver service.
type ServiceConfig struct {
	// CacheDir is where pattern databases persist. Empty keeps them
	// in memory only.
	CacheDir string

	// DefaultAlgorithm is used when a request names none.
	// Default: staged4.
	DefaultAlgorithm Algorithm

	// DisablePatternDB makes the optimal algorithms fall back to the
	// counting heuristic, so nothing is built or loaded from disk for
	// them. The staged algorithms are defined by their phase tables
	// and ignore this setting.
	DisablePatternDB bool

	// Staged4, Staged2 and Optimal tune the individual engines.
	Staged4 thistlethwaite.Config
	Staged2 kociemba.Config
	Optimal korf.Config

	// JournalPath enables persistent solve history. Empty with
	// JournalInMemory false disables the journal.
	JournalPath     string
	JournalInMemory bool

	// Logger and Metrics default to a stderr logger and a fresh
	// metric set.
	Logger  *logging.Logger
	Metrics *telemetry.Metrics
}

// DefaultServiceConfig returns production defaults: staged4 solves,
// pattern caches in the user cache dir, no journal.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		CacheDir:         pdb.DefaultConfig().Dir,
		DefaultAlgorithm: AlgorithmStaged4,
		Staged4:          thistlethwaite.DefaultConfig(),
		Staged2:          kociemba.DefaultConfig(),
		Optimal:          korf.DefaultConfig(),
	}
}

// SolveOptions tunes one solve request.
type SolveOptions struct {
	// Algorithm overrides the service default.
	Algorithm Algorithm

	// Timeout bounds the whole solve. The optimal algorithms check it
	// in-search; the staged algorithms run under a deadline context on
	// top of their per-phase budgets. Zero keeps the configured
	// defaults.
	Timeout time.Duration

	// MaxNodes bounds node expansions for the optimal algorithms.
	MaxNodes uint64

	// MaxDepth overrides the configured depth bound for the optimal
	// algorithms. Zero keeps the default.
	MaxDepth int

	// Heuristic overrides the optimal algorithms' estimator. Empty
	// keeps the configured pattern databases.
	Heuristic heuristic.Variant

	// Scramble is the scramble that produced the state, recorded in
	// the journal when present. It does not affect the solve.
	Scramble string
}

// SolveResult is a finished solve.
type SolveResult struct {
	ID        string          `json:"id,omitempty"`
	Algorithm Algorithm       `json:"algorithm"`
	Moves     []cube.Move     `json:"-"`
	Solution  string          `json:"solution"`
	Length    int             `json:"length"`
	Status    search.Status   `json:"status"`
	Phases    []PhaseSummary  `json:"phases,omitempty"`
	Nodes     uint64          `json:"nodes"`
	Elapsed   time.Duration   `json:"elapsed"`
}

// PhaseSummary is the per-stage breakdown of a staged solve.
type PhaseSummary struct {
	Name     string `json:"name"`
	Solution string `json:"solution"`
	Length   int    `json:"length"`
}

// Service dispatches solve requests. Safe for concurrent use.
type Service struct {
	cfg     ServiceConfig
	logger  *logging.Logger
	metrics *telemetry.Metrics
	store   *pdb.Store

	staged4 *thistlethwaite.Solver
	staged2 *kociemba.Solver
	optimal map[Algorithm]*korf.Solver

	journal *journal.Journal
}

// NewService wires the engines around a shared pattern-database store.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.DefaultAlgorithm == "" {
		cfg.DefaultAlgorithm = AlgorithmStaged4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.New()
	}

	store := pdb.NewStore(pdb.Config{
		Dir:     cfg.CacheDir,
		Logger:  logger,
		OnBuild: metrics.ObserveTableBuild,
	})

	s := &Service{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		store:   store,
		staged4: thistlethwaite.New(store, logger, cfg.Staged4),
		staged2: kociemba.New(store, logger, cfg.Staged2),
		optimal: make(map[Algorithm]*korf.Solver, 2),
	}

	ida := cfg.Optimal
	ida.Algorithm = korf.AlgorithmIDAStar
	s.optimal[AlgorithmIDAStar] = korf.New(store, logger, ida)
	ast := cfg.Optimal
	ast.Algorithm = korf.AlgorithmAStar
	s.optimal[AlgorithmAStar] = korf.New(store, logger, ast)

	if cfg.JournalPath != "" || cfg.JournalInMemory {
		jcfg := journal.DefaultConfig(cfg.JournalPath)
		jcfg.InMemory = cfg.JournalInMemory
		j, err := journal.Open(jcfg)
		if err != nil {
			return nil, fmt.Errorf("open solve journal: %w", err)
		}
		s.journal = j
	}
	return s, nil
}

// Close releases the journal storage.
func (s *Service) Close() error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Close()
}

// Solve validates the state and runs the selected algorithm. The
// returned moves always solve the input state when Status is solved;
// that is re-checked here, not assumed.
func (s *Service) Solve(ctx context.Context, state cube.Cubie, opts SolveOptions) (SolveResult, error) {
	if err := state.Validate(); err != nil {
		return SolveResult{}, err
	}
	alg := opts.Algorithm
	if alg == "" {
		alg = s.cfg.DefaultAlgorithm
	}
	if _, err := ParseAlgorithm(string(alg)); err != nil {
		return SolveResult{}, err
	}

	start := time.Now()
	res, err := s.dispatch(ctx, alg, state, opts)
	elapsed := time.Since(start)

	status := res.Status
	if err != nil && status == "" {
		status = search.StatusExhausted
	}
	s.metrics.ObserveSolve(string(alg), string(status), elapsed.Seconds(), len(res.Moves), res.Nodes)
	if err != nil {
		return SolveResult{}, err
	}

	if !state.ApplySequence(res.Moves).IsSolved() {
		return SolveResult{}, fmt.Errorf("algorithm %s produced a non-solution", alg)
	}

	res.Algorithm = alg
	res.Solution = cube.FormatSequence(res.Moves)
	res.Length = len(res.Moves)
	res.Elapsed = elapsed
	s.record(&res, opts.Scramble)

	s.logger.Info("solve complete",
		"algorithm", string(alg),
		"length", res.Length,
		"nodes", res.Nodes,
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return res, nil
}

func (s *Service) dispatch(ctx context.Context, alg Algorithm, state cube.Cubie, opts SolveOptions) (SolveResult, error) {
	switch alg {
	case AlgorithmStaged4:
		ctx, cancel := stagedContext(ctx, opts.Timeout)
		defer cancel()
		r, err := s.staged4.Solve(ctx, state)
		if err != nil {
			return SolveResult{}, err
		}
		out := SolveResult{Moves: r.Moves, Status: search.StatusSolved}
		for _, ph := range r.Phases {
			out.Nodes += ph.Stats.NodesExpanded
			out.Phases = append(out.Phases, PhaseSummary{
				Name:     ph.Name,
				Solution: cube.FormatSequence(ph.Moves),
				Length:   len(ph.Moves),
			})
		}
		return out, nil

	case AlgorithmStaged2:
		ctx, cancel := stagedContext(ctx, opts.Timeout)
		defer cancel()
		r, err := s.staged2.Solve(ctx, state)
		if err != nil {
			return SolveResult{}, err
		}
		return SolveResult{
			Moves:  r.Moves,
			Status: search.StatusSolved,
			Nodes:  r.Stats.NodesExpanded,
			Phases: []PhaseSummary{
				{Name: "orient", Solution: cube.FormatSequence(r.Phase1), Length: len(r.Phase1)},
				{Name: "permute", Solution: cube.FormatSequence(r.Phase2), Length: len(r.Phase2)},
			},
		}, nil

	default:
		return s.solveOptimal(ctx, alg, state, opts)
	}
}

func (s *Service) solveOptimal(ctx context.Context, alg Algorithm, state cube.Cubie, opts SolveOptions) (SolveResult, error) {
	plain := opts.Timeout == 0 && opts.MaxNodes == 0 &&
		opts.MaxDepth == 0 && opts.Heuristic == ""
	if plain && !s.cfg.DisablePatternDB {
		res, err := s.optimal[alg].Solve(ctx, state)
		if err != nil {
			return SolveResult{Status: res.Status}, err
		}
		return SolveResult{
			Moves:  res.Moves,
			Status: res.Status,
			Nodes:  res.Stats.NodesExpanded,
		}, nil
	}

	var (
		h   heuristic.Heuristic
		err error
	)
	switch {
	case opts.Heuristic != "":
		h, err = s.heuristicFor(ctx, opts.Heuristic)
	case s.cfg.DisablePatternDB:
		h = heuristic.Manhattan{}
	default:
		h, err = s.optimal[alg].Heuristic(ctx)
	}
	if err != nil {
		return SolveResult{}, err
	}

	maxDepth := opts.MaxDepth
	if maxDepth == 0 {
		maxDepth = s.cfg.Optimal.MaxDepth
	}
	sopts := search.Options{
		MaxDepth: maxDepth,
		Budget:   search.NewBudget(opts.MaxNodes, opts.Timeout),
	}
	var res search.Result
	if alg == AlgorithmAStar {
		res, err = search.AStar(ctx, state, h, sopts)
	} else {
		res, err = search.IDAStar(ctx, state, h, sopts)
	}
	if err != nil {
		return SolveResult{Status: res.Status}, err
	}
	return SolveResult{
		Moves:  res.Moves,
		Status: res.Status,
		Nodes:  res.Stats.NodesExpanded,
	}, nil
}

// stagedContext applies the caller's timeout to a staged solve. The
// staged engines budget per phase; this caps the run as a whole.
func stagedContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// record appends the result to the journal, best effort.
func (s *Service) record(res *SolveResult, scramble string) {
	if s.journal == nil {
		return
	}
	rec, err := s.journal.Append(journal.Record{
		Scramble:  scramble,
		Algorithm: string(res.Algorithm),
		Solution:  res.Solution,
		Length:    res.Length,
		Status:    string(res.Status),
		Nodes:     res.Nodes,
		Elapsed:   res.Elapsed,
	})
	if err != nil {
		s.logger.Warn("journal append failed", "error", err.Error())
		return
	}
	res.ID = rec.ID
}

// EstimateDistance runs the named heuristic once against the state.
// Pattern-backed variants consult the light optimal-solver tables.
func (s *Service) EstimateDistance(ctx context.Context, state cube.Cubie, variant heuristic.Variant) (int, error) {
	if err := state.Validate(); err != nil {
		return 0, err
	}
	h, err := s.heuristicFor(ctx, variant)
	if err != nil {
		return 0, err
	}
	return h.Estimate(state)
}

func (s *Service) heuristicFor(ctx context.Context, variant heuristic.Variant) (heuristic.Heuristic, error) {
	switch variant {
	case heuristic.VariantPatternMax, heuristic.VariantComposite:
		if s.cfg.DisablePatternDB {
			return heuristic.New(heuristic.VariantManhattan)
		}
		tables, err := s.lightTables(ctx)
		if err != nil {
			return nil, err
		}
		return heuristic.New(variant, tables...)
	default:
		return heuristic.New(variant)
	}
}

// BuildPatternDatabase builds or loads one pattern database through the
// shared store. Idempotent: concurrent and repeat calls for the same
// space and move set share one build and one cache file.
func (s *Service) BuildPatternDatabase(ctx context.Context, space coord.Space, set coord.MoveSet) (*pdb.Table, error) {
	return s.store.Get(ctx, pdb.AutoTransitions(space, set))
}

// lightTables loads the three small full-move-set tables shared by the
// estimate endpoint and the composite heuristic.
func (s *Service) lightTables(ctx context.Context) ([]*pdb.Table, error) {
	spaces := []coord.Space{coord.CornerOrient, coord.EdgeOrient, coord.UDSlice}
	tables := make([]*pdb.Table, 0, len(spaces))
	for _, space := range spaces {
		t, err := s.BuildPatternDatabase(ctx, space, coord.MovesAll)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// History returns recent solve records.
func (s *Service) History(limit int) ([]journal.Record, error) {
	if s.journal == nil {
		return nil, ErrJournalDisabled
	}
	return s.journal.List(limit)
}

// Lookup fetches one solve record by id.
func (s *Service) Lookup(id string) (journal.Record, error) {
	if s.journal == nil {
		return journal.Record{}, ErrJournalDisabled
	}
	return s.journal.Get(id)
}

// Warm builds or loads the staged tables ahead of traffic so the first
// request does not pay the build cost.
func (s *Service) Warm(ctx context.Context) error {
	return s.staged4.Warm(ctx)
}
