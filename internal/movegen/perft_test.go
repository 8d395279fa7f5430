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

package movegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mantis-chess/mantis/internal/position"
)

// standard perft results for the initial position
var startPosResults = []uint64{1, 20, 400, 8_902, 197_281, 4_865_609, 119_060_324}

// perft results for the kiwipete position
var kiwipeteResults = []uint64{1, 48, 2_039, 97_862, 4_085_603, 193_690_690}

func TestPerftStartPosition(t *testing.T) {
	pf := NewPerft()
	maxDepth := 5
	for d := 1; d <= maxDepth; d++ {
		assert.Equal(t, startPosResults[d], pf.Perft(position.StartFen, d), "depth %d", d)
	}
}

func TestPerftStartPositionDepth6(t *testing.T) {
	if testing.Short() {
		t.Skip("perft depth 6 in short mode")
	}
	pf := NewPerft()
	assert.Equal(t, startPosResults[6], pf.PerftParallel(position.StartFen, 6))
}

func TestPerftKiwipete(t *testing.T) {
	pf := NewPerft()
	for d := 1; d <= 4; d++ {
		assert.Equal(t, kiwipeteResults[d], pf.Perft(kiwipeteFen, d), "depth %d", d)
	}
}

func TestPerftKiwipeteDepth5(t *testing.T) {
	if testing.Short() {
		t.Skip("kiwipete depth 5 in short mode")
	}
	pf := NewPerft()
	assert.Equal(t, kiwipeteResults[5], pf.PerftParallel(kiwipeteFen, 5))
}

// further well known perft positions covering promotions, en
// passant and castling edge cases
func TestPerftSpecialPositions(t *testing.T) {
	tests := []struct {
		fen   string
		depth int
		nodes uint64
	}{
		// en passant discovered check
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4, 43_238},
		// promotions
		{"n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1", 4, 182_838},
		// castling rights
		{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 3, 9_467},
	}
	pf := NewPerft()
	for _, tc := range tests {
		assert.Equal(t, tc.nodes, pf.Perft(tc.fen, tc.depth), tc.fen)
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	pf := NewPerft()
	divide := pf.Divide(position.StartFen, 3)
	assert.Equal(t, 20, len(divide))
	var sum uint64
	for _, n := range divide {
		sum += n
	}
	assert.Equal(t, startPosResults[3], sum)
	// a few known subtree counts
	assert.Equal(t, uint64(560), divide["d2d4"])
	assert.Equal(t, uint64(440), divide["g1f3"])
}

func TestPerftParallelEqualsSerial(t *testing.T) {
	pf := NewPerft()
	serial := pf.Perft(kiwipeteFen, 3)
	parallel := pf.PerftParallel(kiwipeteFen, 3)
	assert.Equal(t, serial, parallel)
	assert.Equal(t, kiwipeteResults[3], parallel)
}

func TestPerftInvalidFen(t *testing.T) {
	pf := NewPerft()
	assert.Equal(t, uint64(0), pf.Perft("not a fen", 3))
}
