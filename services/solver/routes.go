// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package solver

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all solver routes with the router.
//
// Description:
//
//	Registers all /v1/solver/* endpoints with the given Gin router
//	group. The router group should already have any required
//	middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /v1/solver/solve - Solve a cube state
//	POST /v1/solver/estimate - Lower-bound distance estimate
//	POST /v1/solver/scramble - Generate a random scramble
//	GET  /v1/solver/solves - List journaled solves
//	GET  /v1/solver/solves/:id - Fetch one journaled solve
//	GET  /v1/solver/health - Health check
//
// Example:
//
//	service, _ := solver.NewService(solver.DefaultServiceConfig())
//	handlers := solver.NewHandlers(service, logger)
//
//	v1 := router.Group("/v1")
//	solver.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	sv := rg.Group("/solver")
	{
		// Solving
		sv.POST("/solve", handlers.HandleSolve)
		sv.POST("/estimate", handlers.HandleEstimate)
		sv.POST("/scramble", handlers.HandleScramble)

		// Solve history
		sv.GET("/solves", handlers.HandleHistory)
		sv.GET("/solves/:id", handlers.HandleLookup)

		// Health checks
		sv.GET("/health", handlers.HandleHealth)
	}
}
