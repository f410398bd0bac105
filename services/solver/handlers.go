// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package solver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianCube/pkg/cube"
	"github.com/AleutianAI/AleutianCube/pkg/logging"
	"github.com/AleutianAI/AleutianCube/services/solver/heuristic"
	"github.com/AleutianAI/AleutianCube/services/solver/journal"
	"github.com/AleutianAI/AleutianCube/services/solver/search"
)

// ServiceVersion is the solver service version.
const ServiceVersion = "0.1.0"

// defaultScrambleLength is used when a scramble request names no length.
const defaultScrambleLength = 25

// Handlers contains the HTTP handlers for the solver service.
//
// Thread Safety: Handlers is safe for concurrent use.
type Handlers struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handlers{svc: svc, logger: logger}
}

// HandleSolve handles POST /v1/solver/solve.
//
// Request Body:
//
//	SolveRequest
//
// Response:
//
//	200 OK: SolveResponse
//	400 Bad Request: Malformed body, scramble, state, or algorithm
//	422 Unprocessable Entity: No solution within the configured bounds
//	504 Gateway Timeout: Solve exceeded its time budget
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleSolve(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandleSolve")

	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err.Error())
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	state, err := stateFromRequest(req.Scramble, req.State)
	if err != nil {
		logger.Warn("invalid cube input", "error", err.Error())
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_STATE",
		})
		return
	}

	opts := SolveOptions{
		Algorithm: Algorithm(req.Algorithm),
		Timeout:   time.Duration(req.TimeoutMs) * time.Millisecond,
		MaxNodes:  req.MaxNodes,
		MaxDepth:  req.MaxDepth,
		Scramble:  req.Scramble,
	}
	if req.Heuristic != "" {
		variant, err := heuristic.ParseVariant(req.Heuristic)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: err.Error(),
				Code:  "UNKNOWN_HEURISTIC",
			})
			return
		}
		opts.Heuristic = variant
	}
	res, err := h.svc.Solve(c.Request.Context(), state, opts)
	if err != nil {
		status, code := solveErrorStatus(err)
		logger.Warn("solve failed", "error", err.Error(), "code", code)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	logger.Info("solve served",
		"algorithm", string(res.Algorithm),
		"length", res.Length,
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	c.JSON(http.StatusOK, SolveResponse{
		ID:        res.ID,
		Algorithm: string(res.Algorithm),
		Solution:  res.Solution,
		Length:    res.Length,
		Status:    string(res.Status),
		Phases:    res.Phases,
		Nodes:     res.Nodes,
		ElapsedMs: res.Elapsed.Milliseconds(),
	})
}

// HandleEstimate handles POST /v1/solver/estimate.
//
// Response:
//
//	200 OK: EstimateResponse
//	400 Bad Request: Malformed body, state, or heuristic name
//	500 Internal Server Error: Pattern table failure
func (h *Handlers) HandleEstimate(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandleEstimate")

	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err.Error())
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	state, err := stateFromRequest(req.Scramble, req.State)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_STATE",
		})
		return
	}

	name := req.Heuristic
	if name == "" {
		name = string(heuristic.VariantPatternMax)
	}
	variant, err := heuristic.ParseVariant(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "UNKNOWN_HEURISTIC",
		})
		return
	}

	estimate, err := h.svc.EstimateDistance(c.Request.Context(), state, variant)
	if err != nil {
		if errors.Is(err, cube.ErrInvalidState) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_STATE",
			})
			return
		}
		logger.Error("estimate failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "ESTIMATE_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, EstimateResponse{
		Heuristic: string(variant),
		Estimate:  estimate,
	})
}

// HandleScramble handles POST /v1/solver/scramble.
//
// Response:
//
//	200 OK: ScrambleResponse
//	400 Bad Request: Malformed body or non-positive length
func (h *Handlers) HandleScramble(c *gin.Context) {
	var req ScrambleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	length := req.Length
	if length == 0 {
		length = defaultScrambleLength
	}
	if length < 0 || length > 1000 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "scramble length must be between 1 and 1000",
			Code:  "INVALID_LENGTH",
		})
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	state, moves := cube.Scramble(seed, length)

	c.JSON(http.StatusOK, ScrambleResponse{
		Scramble: cube.FormatSequence(moves),
		Length:   len(moves),
		Seed:     seed,
		State:    stateSpecOf(state),
	})
}

// HandleLookup handles GET /v1/solver/solves/:id.
//
// Response:
//
//	200 OK: RecordResponse
//	404 Not Found: No record with that id, or journal disabled
func (h *Handlers) HandleLookup(c *gin.Context) {
	rec, err := h.svc.Lookup(c.Param("id"))
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) || errors.Is(err, ErrJournalDisabled) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: err.Error(),
				Code:  "NOT_FOUND",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "LOOKUP_FAILED",
		})
		return
	}
	c.JSON(http.StatusOK, recordResponseOf(rec))
}

// HandleHistory handles GET /v1/solver/solves.
//
// Query Params:
//
//	limit - maximum records to return, 0 for all. Default: 50.
//
// Response:
//
//	200 OK: HistoryResponse
//	404 Not Found: Journal disabled
func (h *Handlers) HandleHistory(c *gin.Context) {
	var q struct {
		Limit int `form:"limit"`
	}
	q.Limit = 50
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	recs, err := h.svc.History(q.Limit)
	if err != nil {
		if errors.Is(err, ErrJournalDisabled) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: err.Error(),
				Code:  "JOURNAL_DISABLED",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "HISTORY_FAILED",
		})
		return
	}

	out := HistoryResponse{Solves: make([]RecordResponse, 0, len(recs))}
	for _, rec := range recs {
		out.Solves = append(out.Solves, recordResponseOf(rec))
	}
	c.JSON(http.StatusOK, out)
}

// HandleHealth handles GET /v1/solver/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: ServiceVersion,
	})
}

// stateFromRequest resolves the two input forms. Exactly one of
// scramble and state must be set.
func stateFromRequest(scramble string, spec *StateSpec) (cube.Cubie, error) {
	if scramble != "" && spec != nil {
		return cube.Cubie{}, errors.New("give either a scramble or a state, not both")
	}
	if spec != nil {
		return spec.Cubie()
	}
	if scramble == "" {
		return cube.Cubie{}, errors.New("a scramble or a state is required")
	}
	moves, err := cube.ParseSequence(scramble)
	if err != nil {
		return cube.Cubie{}, err
	}
	return cube.Solved().ApplySequence(moves), nil
}

// solveErrorStatus maps engine failures onto HTTP status codes.
func solveErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnknownAlgorithm):
		return http.StatusBadRequest, "UNKNOWN_ALGORITHM"
	case errors.Is(err, cube.ErrInvalidState):
		return http.StatusBadRequest, "INVALID_STATE"
	case errors.Is(err, search.ErrNoSolution):
		return http.StatusUnprocessableEntity, "NO_SOLUTION"
	case errors.Is(err, search.ErrNodeBudget):
		return http.StatusUnprocessableEntity, "NODE_BUDGET_EXHAUSTED"
	case errors.Is(err, search.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "SOLVE_TIMEOUT"
	default:
		return http.StatusInternalServerError, "SOLVE_FAILED"
	}
}

func recordResponseOf(rec journal.Record) RecordResponse {
	return RecordResponse{
		ID:        rec.ID,
		Scramble:  rec.Scramble,
		Algorithm: rec.Algorithm,
		Solution:  rec.Solution,
		Length:    rec.Length,
		Status:    rec.Status,
		Nodes:     rec.Nodes,
		ElapsedMs: rec.Elapsed.Milliseconds(),
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
