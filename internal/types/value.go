/*
 * Mantis - a UCI chess engine written in Go
 *
 * MIT License
 *
 * Copyright (c) 2023-2024 The Mantis authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package types

import (
	"strconv"
	"strings"

	"github.com/mantis-chess/mantis/internal/util"
)

// Value represents the value of a chess position in centipawns
type Value int16

// Value constants
const (
	ValueZero Value = 0
	ValueDraw Value = 0

	// ValueInf is used for initial alpha/beta windows - outside any
	// reachable search value
	ValueInf Value = 32_000

	// ValueNA marks an unset value
	ValueNA Value = -ValueInf - 1

	// ValueCheckMate is the score of a mate at the root. Mate in N
	// plies is scored ValueCheckMate - N so shallower mates outrank
	// deeper ones.
	ValueCheckMate Value = 30_000

	// ValueCheckMateThreshold separates mate scores from evaluation
	// scores. All static evaluations are below this threshold.
	ValueCheckMateThreshold Value = ValueCheckMate - Value(MaxPly) - 1

	ValueMax Value = ValueCheckMate
	ValueMin Value = -ValueCheckMate
)

// IsValid checks if the value is within the valid range
func (v Value) IsValid() bool {
	return v >= ValueMin && v <= ValueMax
}

// IsCheckMateValue returns true if the value encodes a mate distance
func (v Value) IsCheckMateValue() bool {
	abs := Value(util.Abs16(int16(v)))
	return abs > ValueCheckMateThreshold && abs <= ValueCheckMate
}

// MateIn returns the number of full moves until mate for a mate
// value. Must only be called when IsCheckMateValue is true.
func (v Value) MateIn() int {
	plies := int(ValueCheckMate) - util.Abs(int(v))
	moves := (plies + 1) / 2
	if v < 0 {
		return -moves
	}
	return moves
}

// String returns the UCI score string of the value - either
// "cp <centipawns>" or "mate <moves>", or "N/A" for ValueNA.
func (v Value) String() string {
	var os strings.Builder
	switch {
	case v.IsCheckMateValue():
		os.WriteString("mate ")
		os.WriteString(strconv.Itoa(v.MateIn()))
	case v == ValueNA:
		os.WriteString("N/A")
	default:
		os.WriteString("cp ")
		os.WriteString(strconv.Itoa(int(v)))
	}
	return os.String()
}
