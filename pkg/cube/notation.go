// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cube

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadMove is returned when a token is not a valid move in Singmaster
// notation.
var ErrBadMove = errors.New("invalid move notation")

var faceLetters = [6]string{"U", "D", "R", "L", "F", "B"}

// String renders the move in Singmaster notation: a face letter,
// optionally suffixed by 2 (half turn) or ' (counter-clockwise quarter
// turn). This is the sole human-readable interchange format crossing the
// solver boundary.
func (m Move) String() string {
	letter := faceLetters[m.Face()]
	switch m % 3 {
	case 1:
		return letter + "2"
	case 2:
		return letter + "'"
	default:
		return letter
	}
}

// ParseMove parses a single move token.
func ParseMove(s string) (Move, error) {
	if len(s) == 0 || len(s) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	face := -1
	for i, letter := range faceLetters {
		if letter == s[:1] {
			face = i
			break
		}
	}
	if face < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	offset := 0
	if len(s) == 2 {
		switch s[1] {
		case '2':
			offset = 1
		case '\'':
			offset = 2
		default:
			return 0, fmt.Errorf("%w: %q", ErrBadMove, s)
		}
	}
	return Move(face*3 + offset), nil
}

// ParseSequence parses a space-separated move sequence. An empty or
// all-whitespace string parses to an empty sequence.
func ParseSequence(s string) ([]Move, error) {
	fields := strings.Fields(s)
	seq := make([]Move, 0, len(fields))
	for _, tok := range fields {
		m, err := ParseMove(tok)
		if err != nil {
			return nil, err
		}
		seq = append(seq, m)
	}
	return seq, nil
}

// FormatSequence renders a move sequence as a space-separated string.
func FormatSequence(seq []Move) string {
	parts := make([]string, len(seq))
	for i, m := range seq {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// InverseSequence returns the sequence that undoes seq: each move
// inverted, in reverse order.
func InverseSequence(seq []Move) []Move {
	out := make([]Move, len(seq))
	for i, m := range seq {
		out[len(seq)-1-i] = m.Inverse()
	}
	return out
}
