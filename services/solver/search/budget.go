// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package search

import (
	"sync/atomic"
	"time"
)

// Budget bounds a search by node expansions and wall clock. The node
// counter is atomic so concurrent searches can share one budget; the
// deadline is fixed at construction.
//
// A nil *Budget is valid and means unbounded; all methods tolerate it.
type Budget struct {
	maxNodes uint64
	deadline time.Time
	nodes    atomic.Uint64
}

// NewBudget creates a budget. Zero maxNodes means unlimited nodes;
// zero timeout means no deadline.
func NewBudget(maxNodes uint64, timeout time.Duration) *Budget {
	b := &Budget{maxNodes: maxNodes}
	if timeout > 0 {
		b.deadline = time.Now().Add(timeout)
	}
	return b
}

// Spend records n node expansions.
func (b *Budget) Spend(n uint64) {
	if b != nil {
		b.nodes.Add(n)
	}
}

// Nodes returns the expansions recorded so far.
func (b *Budget) Nodes() uint64 {
	if b == nil {
		return 0
	}
	return b.nodes.Load()
}

// Exceeded reports whether a bound has been crossed and which error
// describes it. The node bound is checked before the clock so the
// reported reason is deterministic under test.
func (b *Budget) Exceeded() error {
	if b == nil {
		return nil
	}
	if b.maxNodes > 0 && b.nodes.Load() >= b.maxNodes {
		return ErrNodeBudget
	}
	if !b.deadline.IsZero() && time.Now().After(b.deadline) {
		return ErrTimeout
	}
	return nil
}
