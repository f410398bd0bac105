// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package telemetry exposes Prometheus metrics for the solver service.
//
// Metrics are registered on a dedicated registry rather than the global
// default so tests and embedders control exactly what they export.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the solver's instrument set.
type Metrics struct {
	registry *prometheus.Registry

	SolvesTotal    *prometheus.CounterVec
	SolveDuration  *prometheus.HistogramVec
	SolutionLength *prometheus.HistogramVec
	NodesExpanded  *prometheus.HistogramVec
	TableBuilds    *prometheus.CounterVec
}

// New creates the instrument set on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		SolvesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aleutiancube",
			Name:      "solves_total",
			Help:      "Completed solve requests by algorithm and outcome.",
		}, []string{"algorithm", "status"}),
		SolveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aleutiancube",
			Name:      "solve_duration_seconds",
			Help:      "Wall time per solve request.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"algorithm"}),
		SolutionLength: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aleutiancube",
			Name:      "solution_length_moves",
			Help:      "Solution length in moves.",
			Buckets:   prometheus.LinearBuckets(0, 5, 11),
		}, []string{"algorithm"}),
		NodesExpanded: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aleutiancube",
			Name:      "search_nodes_expanded",
			Help:      "Search nodes expanded per solve.",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		}, []string{"algorithm"}),
		TableBuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aleutiancube",
			Name:      "pattern_table_builds_total",
			Help:      "Pattern database builds by coordinate space and outcome.",
		}, []string{"space", "outcome"}),
	}
}

// Registry returns the backing registry for export handlers.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveTableBuild records one pattern database build attempt.
// Outcome is "ok" or "failed"; cache loads are not builds and are not
// counted.
func (m *Metrics) ObserveTableBuild(space, outcome string) {
	m.TableBuilds.WithLabelValues(space, outcome).Inc()
}

// ObserveSolve records one finished solve request.
func (m *Metrics) ObserveSolve(algorithm, status string, seconds float64, length int, nodes uint64) {
	m.SolvesTotal.WithLabelValues(algorithm, status).Inc()
	m.SolveDuration.WithLabelValues(algorithm).Observe(seconds)
	if status == "solved" {
		m.SolutionLength.WithLabelValues(algorithm).Observe(float64(length))
	}
	m.NodesExpanded.WithLabelValues(algorithm).Observe(float64(nodes))
}
