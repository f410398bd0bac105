// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pdb

import "errors"

var (
	// ErrCacheCorrupt is returned when a cache file fails structural or
	// checksum validation. Callers should discard the file and rebuild.
	ErrCacheCorrupt = errors.New("pattern database cache corrupt")

	// ErrCacheMismatch is returned when a cache file is structurally
	// valid but was built for a different space or move set than
	// requested.
	ErrCacheMismatch = errors.New("pattern database cache mismatch")

	// ErrUnreachedEntry is returned when a build under a generating
	// move set fails to reach every cell, or when a lookup hits an
	// unreached cell in a table that claims full coverage. Either way
	// it indicates a bug in the space or the transition source, never
	// normal operation.
	ErrUnreachedEntry = errors.New("pattern database has unreached entries")

	// ErrBuildCanceled is returned when a build is abandoned because
	// its context was canceled.
	ErrBuildCanceled = errors.New("pattern database build canceled")
)
