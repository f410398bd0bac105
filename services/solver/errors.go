// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package solver

import "errors"

var (
	// ErrUnknownAlgorithm is returned for an algorithm name outside
	// the supported set.
	ErrUnknownAlgorithm = errors.New("unknown solver algorithm")

	// ErrJournalDisabled is returned when solve history is requested
	// but the journal is not configured.
	ErrJournalDisabled = errors.New("solve journal is disabled")
)
