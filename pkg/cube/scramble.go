// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cube

import "math/rand"

// Scramble applies n random legal moves to the solved state and returns
// the resulting state together with the applied sequence. The same seed
// always yields the same scramble.
//
// Consecutive turns of the same face are filtered so every move in the
// returned sequence actually changes the state relative to its
// predecessor. Only legal moves are applied, so the result always
// satisfies the reachability invariants.
func Scramble(seed int64, n int) (Cubie, []Move) {
	rng := rand.New(rand.NewSource(seed))
	state := Solved()
	seq := make([]Move, 0, n)
	for len(seq) < n {
		m := Move(rng.Intn(NumMoves))
		if len(seq) > 0 && m.Face() == seq[len(seq)-1].Face() {
			continue
		}
		state = state.Apply(m)
		seq = append(seq, m)
	}
	return state, seq
}
