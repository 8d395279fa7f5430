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
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mantis-chess/mantis/internal/position"
)

var out = message.NewPrinter(language.English)

// Perft is the node counting self test of move generation and
// make/unmake. It never consults a transposition table and never
// enters quiescence - it counts exactly.
type Perft struct {
	Nodes    uint64
	stopFlag bool
}

// NewPerft creates a new Perft instance
func NewPerft() *Perft {
	return &Perft{}
}

// Stop aborts a perft run started in a goroutine
func (pf *Perft) Stop() {
	pf.stopFlag = true
}

// Perft counts the number of leaf positions at the given depth from
// the position given as FEN. Returns 0 when the fen is invalid.
func (pf *Perft) Perft(fen string, depth int) uint64 {
	pf.stopFlag = false
	pf.Nodes = 0
	p, err := position.NewPositionFen(fen)
	if err != nil {
		return 0
	}
	mgList := newMovegenList(depth)
	pf.Nodes = pf.countNodes(p, depth, mgList)
	return pf.Nodes
}

// Divide counts the subtree of each root move separately and returns
// a map from UCI move string to its node count. The sum over the map
// equals Perft(fen, depth).
func (pf *Perft) Divide(fen string, depth int) map[string]uint64 {
	pf.stopFlag = false
	result := make(map[string]uint64)
	p, err := position.NewPositionFen(fen)
	if err != nil {
		return result
	}
	mgList := newMovegenList(depth)
	rootMoves := mgList[depth].GenerateLegalMoves(p, GenAll).Clone()
	for _, m := range *rootMoves {
		p.DoMove(m)
		var nodes uint64 = 1
		if depth > 1 {
			nodes = pf.countNodes(p, depth-1, mgList)
		}
		p.UndoMove()
		result[m.StringUci()] = nodes
	}
	return result
}

// PerftParallel distributes the root moves over worker goroutines.
// Each worker owns its own Position clone and move generators so no
// shared state is mutated; the subtotal of each root move is summed
// at the end. Result is identical to the serial Perft.
func (pf *Perft) PerftParallel(fen string, depth int) uint64 {
	pf.stopFlag = false
	pf.Nodes = 0
	p, err := position.NewPositionFen(fen)
	if err != nil {
		return 0
	}
	if depth <= 1 {
		return pf.Perft(fen, depth)
	}

	rootMg := NewMoveGen()
	rootMoves := rootMg.GenerateLegalMoves(p, GenAll).Clone()

	subTotals := make([]uint64, rootMoves.Len())
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i := 0; i < rootMoves.Len(); i++ {
		i := i
		move := rootMoves.At(i)
		g.Go(func() error {
			// per worker position and generator stack
			wp, err := position.NewPositionFen(fen)
			if err != nil {
				return err
			}
			mgList := newMovegenList(depth)
			wp.DoMove(move)
			subTotals[i] = pf.countNodes(wp, depth-1, mgList)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0
	}

	var total uint64
	for _, n := range subTotals {
		total += n
	}
	pf.Nodes = total
	return total
}

// StartPerft runs perft on the given fen and depth and prints a
// small report. Used by the command line and the uci "perft"
// convenience command.
func (pf *Perft) StartPerft(fen string, depth int, parallel bool) {
	out.Printf("Performing perft for depth %d\n", depth)
	out.Printf("FEN: %s\n", fen)
	start := time.Now()
	var nodes uint64
	if parallel {
		nodes = pf.PerftParallel(fen, depth)
	} else {
		nodes = pf.Perft(fen, depth)
	}
	elapsed := time.Since(start)
	out.Printf("Nodes: %d Time: %s NPS: %d\n", nodes, elapsed,
		(nodes*uint64(time.Second.Nanoseconds()))/uint64(elapsed.Nanoseconds()+1))
}

// StartDivide runs divide on the given fen and depth and prints the
// per-move counts sorted alphabetically by UCI move string.
func (pf *Perft) StartDivide(fen string, depth int) {
	result := pf.Divide(fen, depth)
	moves := make([]string, 0, len(result))
	for m := range result {
		moves = append(moves, m)
	}
	sort.Strings(moves)
	var total uint64
	for _, m := range moves {
		out.Printf("%s: %d\n", m, result[m])
		total += result[m]
	}
	out.Printf("Total: %d\n", total)
}

// countNodes is the recursive node counter. Uses bulk counting at
// the horizon: the number of legal moves one ply above the leaves is
// the number of leaves.
func (pf *Perft) countNodes(p *position.Position, depth int, mgList []*Movegen) uint64 {
	if pf.stopFlag {
		return 0
	}
	moves := mgList[depth].GenerateLegalMoves(p, GenAll)
	if depth <= 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for _, m := range *moves {
		p.DoMove(m)
		nodes += pf.countNodes(p, depth-1, mgList)
		p.UndoMove()
	}
	return nodes
}

// newMovegenList creates one move generator per depth so the
// recursion does not overwrite the move buffers of its callers.
func newMovegenList(depth int) []*Movegen {
	mgList := make([]*Movegen, depth+1)
	for i := 0; i <= depth; i++ {
		mgList[i] = NewMoveGen()
	}
	return mgList
}
