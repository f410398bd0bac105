// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package solver

import (
	"errors"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
)

// SolveRequest is the request body for POST /v1/solver/solve.
//
// The cube to solve is given either as a scramble sequence applied to
// the solved cube, or as an explicit state. Exactly one of the two must
// be present.
type SolveRequest struct {
	// Scramble is a move sequence in face-turn notation, e.g.
	// "R U2 F' D L2".
	Scramble string `json:"scramble,omitempty"`

	// State is the explicit cube state.
	State *StateSpec `json:"state,omitempty"`

	// Algorithm selects the solver. One of staged4, staged2, idastar,
	// astar. Default: the service default (staged4).
	Algorithm string `json:"algorithm,omitempty"`

	// TimeoutMs bounds wall time for the optimal algorithms.
	TimeoutMs int64 `json:"timeout_ms,omitempty"`

	// MaxNodes bounds node expansions for the optimal algorithms.
	MaxNodes uint64 `json:"max_nodes,omitempty"`

	// MaxDepth caps solution length for the optimal algorithms.
	MaxDepth int `json:"max_depth,omitempty"`

	// Heuristic overrides the optimal algorithms' estimator.
	Heuristic string `json:"heuristic,omitempty"`
}

// StateSpec is the wire form of a cube state. Corner and edge
// permutations are home-slot indices; orientations are twist counts
// (0-2 for corners, 0-1 for edges) per slot.
type StateSpec struct {
	CornerPerm   []uint8 `json:"corner_perm" binding:"required"`
	CornerOrient []uint8 `json:"corner_orient" binding:"required"`
	EdgePerm     []uint8 `json:"edge_perm" binding:"required"`
	EdgeOrient   []uint8 `json:"edge_orient" binding:"required"`
}

var errStateShape = errors.New("state needs 8 corner and 12 edge entries")

// Cubie converts the wire form into a cube state. The state is shape
// checked here; solvability is checked by the service.
func (s *StateSpec) Cubie() (cube.Cubie, error) {
	var c cube.Cubie
	if len(s.CornerPerm) != 8 || len(s.CornerOrient) != 8 ||
		len(s.EdgePerm) != 12 || len(s.EdgeOrient) != 12 {
		return c, errStateShape
	}
	copy(c.CornerPerm[:], s.CornerPerm)
	copy(c.CornerOrient[:], s.CornerOrient)
	copy(c.EdgePerm[:], s.EdgePerm)
	copy(c.EdgeOrient[:], s.EdgeOrient)
	return c, nil
}

// SolveResponse is the response for POST /v1/solver/solve.
type SolveResponse struct {
	// ID is the journal record id, when the journal is enabled.
	ID string `json:"id,omitempty"`

	// Algorithm is the solver that produced the solution.
	Algorithm string `json:"algorithm"`

	// Solution is the move sequence in face-turn notation.
	Solution string `json:"solution"`

	// Length is the solution length in moves.
	Length int `json:"length"`

	// Status is the terminal search status, "solved" on success.
	Status string `json:"status"`

	// Phases breaks a staged solution down per stage.
	Phases []PhaseSummary `json:"phases,omitempty"`

	// Nodes is the number of search nodes expanded.
	Nodes uint64 `json:"nodes"`

	// ElapsedMs is the solve wall time in milliseconds.
	ElapsedMs int64 `json:"elapsed_ms"`
}

// EstimateRequest is the request body for POST /v1/solver/estimate.
type EstimateRequest struct {
	// Scramble is a move sequence applied to the solved cube.
	Scramble string `json:"scramble,omitempty"`

	// State is the explicit cube state.
	State *StateSpec `json:"state,omitempty"`

	// Heuristic names the estimator. One of zero, hamming, manhattan,
	// pattern-max, composite. Default: pattern-max.
	Heuristic string `json:"heuristic,omitempty"`
}

// EstimateResponse is the response for POST /v1/solver/estimate.
type EstimateResponse struct {
	// Heuristic is the estimator that was used.
	Heuristic string `json:"heuristic"`

	// Estimate is the lower bound on moves to solve.
	Estimate int `json:"estimate"`
}

// ScrambleRequest is the request body for POST /v1/solver/scramble.
type ScrambleRequest struct {
	// Length is the number of scramble moves. Default: 25.
	Length int `json:"length,omitempty"`

	// Seed fixes the random sequence for reproducible scrambles.
	// Zero draws a fresh seed.
	Seed int64 `json:"seed,omitempty"`
}

// ScrambleResponse is the response for POST /v1/solver/scramble.
type ScrambleResponse struct {
	// Scramble is the generated sequence in face-turn notation.
	Scramble string `json:"scramble"`

	// Length is the number of moves.
	Length int `json:"length"`

	// Seed is the seed that generated the sequence.
	Seed int64 `json:"seed"`

	// State is the scrambled cube state.
	State StateSpec `json:"state"`
}

// HistoryResponse is the response for GET /v1/solver/solves.
type HistoryResponse struct {
	// Solves lists recent journal records, newest first.
	Solves []RecordResponse `json:"solves"`
}

// RecordResponse is one journaled solve on the wire.
type RecordResponse struct {
	ID        string `json:"id"`
	Scramble  string `json:"scramble,omitempty"`
	Algorithm string `json:"algorithm"`
	Solution  string `json:"solution"`
	Length    int    `json:"length"`
	Status    string `json:"status"`
	Nodes     uint64 `json:"nodes"`
	ElapsedMs int64  `json:"elapsed_ms"`
	CreatedAt string `json:"created_at"`
}

// HealthResponse is the response for GET /v1/solver/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code (optional).
	Code string `json:"code,omitempty"`
}

func stateSpecOf(c cube.Cubie) StateSpec {
	return StateSpec{
		CornerPerm:   append([]uint8(nil), c.CornerPerm[:]...),
		CornerOrient: append([]uint8(nil), c.CornerOrient[:]...),
		EdgePerm:     append([]uint8(nil), c.EdgePerm[:]...),
		EdgeOrient:   append([]uint8(nil), c.EdgeOrient[:]...),
	}
}
