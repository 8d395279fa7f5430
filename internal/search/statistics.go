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

package search

import (
	"fmt"

	. "github.com/mantis-chess/mantis/internal/types"
)

// Statistics collects counters about a search run. Not essential
// for the search itself but valuable for logs and tests.
type Statistics struct {
	BetaCuts    uint64
	BetaCuts1st uint64

	TTHit      uint64
	TTMiss     uint64
	TTCuts     uint64
	TTNoCuts   uint64
	TTMoveUsed uint64

	Evaluations  uint64
	StandpatCuts uint64
	Mdp          uint64

	Checkmates uint64
	Stalemates uint64
	Draws      uint64

	BookMoves uint64

	CurrentIterationDepth   int
	CurrentSearchDepth      int
	CurrentExtraSearchDepth int
	CurrentBestRootMove     Move
	CurrentBestRootValue    Value
}

func (s *Statistics) String() string {
	return fmt.Sprintf("%+v", *s)
}
