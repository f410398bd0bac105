// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinner_StartStop(t *testing.T) {
	spin := NewSpinner("working")
	spin.Start()
	spin.Stop()

	// Stop twice must not panic or block.
	spin.Stop()
}

func TestSpinner_PlainMode(t *testing.T) {
	t.Cleanup(func() { SetPlain(false) })
	SetPlain(true)

	spin := NewSpinner("working")
	spin.Start()
	spin.Stop()
}

func TestWithSpinner_PropagatesError(t *testing.T) {
	t.Cleanup(func() { SetPlain(false) })
	SetPlain(true)

	sentinel := errors.New("boom")
	err := WithSpinner("task", func() error { return sentinel })
	assert.ErrorIs(t, err, sentinel)

	require.NoError(t, WithSpinner("task", func() error { return nil }))
}

func TestProgressSpinner_TracksCount(t *testing.T) {
	p := NewProgressSpinner("building", 3)
	p.Increment()
	p.Increment()
	p.mu.Lock()
	msg := p.message
	current := p.current
	p.mu.Unlock()

	assert.Equal(t, 2, current)
	assert.Contains(t, msg, "[2/3]")

	p.SetProgress(3)
	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Contains(t, p.message, "[3/3]")
}
