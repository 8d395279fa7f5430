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

// Package history holds the history heuristic tables updated by the
// search and consulted by the move generator for quiet move
// ordering.
package history

import (
	. "github.com/mantis-chess/mantis/internal/types"
)

// History counts beta cutoffs per color, from- and to-square.
// The tables are plain contiguous arrays indexed by the dense square
// integers.
type History struct {
	historyCount [ColorLength][SqLength][SqLength]int64
}

// NewHistory creates a new empty History instance
func NewHistory() *History {
	return &History{}
}

// Inc raises the counter for the given move. The increment grows
// with the depth so cutoffs of deeper searches weigh more.
func (h *History) Inc(c Color, from Square, to Square, depth int) {
	h.historyCount[c][from][to] += int64(1) << capDepth(depth)
}

// Dec lowers the counter for a move that did not produce a cutoff.
// Never drops below zero.
func (h *History) Dec(c Color, from Square, to Square, depth int) {
	h.historyCount[c][from][to] -= int64(1) << capDepth(depth)
	if h.historyCount[c][from][to] < 0 {
		h.historyCount[c][from][to] = 0
	}
}

// capDepth bounds the shift so very deep searches cannot overflow
// the counters
func capDepth(depth int) int {
	if depth > 30 {
		return 30
	}
	if depth < 0 {
		return 0
	}
	return depth
}

// Count returns the current counter for the given move
func (h *History) Count(c Color, from Square, to Square) int64 {
	return h.historyCount[c][from][to]
}

// Clear resets all counters
func (h *History) Clear() {
	*h = History{}
}
