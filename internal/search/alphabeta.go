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
	"github.com/mantis-chess/mantis/internal/config"
	"github.com/mantis-chess/mantis/internal/movegen"
	"github.com/mantis-chess/mantis/internal/moveslice"
	"github.com/mantis-chess/mantis/internal/position"
	. "github.com/mantis-chess/mantis/internal/types"
)

// rootSearch searches all root moves at the given depth with the
// full alpha-beta window. Root moves are treated separately from the
// recursive search: every searched move stores its value back into
// the root move list for the re-sort between iterations, and pv[0]
// is only updated after a move has been searched completely, so a
// stopped iteration never leaves a half-searched best move behind.
// Returns the best value of this iteration or ValueNA when stopped.
func (s *Search) rootSearch(p *position.Position, depth int) Value {
	alpha := -ValueInf
	beta := ValueInf
	bestNodeValue := ValueNA

	for i := 0; i < s.rootMoves.Len(); i++ {
		m := s.rootMoves.At(i)

		p.DoMove(m)
		s.nodesVisited++

		var value Value
		if s.isDraw(p, s.mg[1]) {
			s.statistics.Draws++
			s.pv[1].Clear()
			value = ValueDraw
		} else {
			value = -s.search(p, depth-1, 1, -beta, -alpha)
		}

		p.UndoMove()

		// the first iteration (depth 1) always completes so a best
		// move exists even when the search is stopped very early
		if s.stopConditions() && depth > 1 {
			return ValueNA
		}

		// store the value into the root move for sorting
		s.rootMoves.Set(i, m.SetValue(value))

		if value > bestNodeValue {
			bestNodeValue = value
			savePV(m.MoveOf(), s.pv[1], s.pv[0])
			if value > alpha {
				alpha = value
			}
		}
	}
	return bestNodeValue
}

// search is the recursive negamax alpha-beta search below the root.
// alpha and beta are in centipawns from the view of the side to
// move; the returned value refines the window: Exact when alpha was
// raised without a cutoff, otherwise a bound.
func (s *Search) search(p *position.Position, depth int, ply int, alpha Value, beta Value) Value {
	// clear this ply's pv first so early returns never leave a
	// stale continuation behind for the parent to pick up
	s.pv[ply].Clear()

	// draws by repetition, the 50-move rule or insufficient
	// material score zero. Inside the tree a single repetition is
	// counted as draw already - there is no gain in searching a
	// position twice.
	if s.isDraw(p, s.mg[ply]) {
		s.statistics.Draws++
		return ValueDraw
	}

	if s.stopConditions() {
		return ValueNA
	}

	// low frequency time check
	if s.nodesVisited&0xFFF == 0 {
		s.checkTime()
	}

	// drop into quiescence at the horizon
	if depth <= 0 || ply >= MaxPly {
		return s.qsearch(p, ply, alpha, beta)
	}

	// mate distance pruning - a shorter mate was already found
	if config.Settings.Search.UseMDP {
		if alpha < -ValueCheckMate+Value(ply) {
			alpha = -ValueCheckMate + Value(ply)
		}
		if beta > ValueCheckMate-Value(ply) {
			beta = ValueCheckMate - Value(ply)
		}
		if alpha >= beta {
			s.statistics.Mdp++
			return alpha
		}
	}

	us := p.NextPlayer()
	bestNodeValue := ValueNA
	bestNodeMove := MoveNone
	ttMove := MoveNone
	ttType := ALPHA

	// transposition table lookup. A stored result from an equal or
	// deeper search can cut this node; otherwise the stored move is
	// still the best guess to search first.
	if s.tt != nil {
		if ttEntry := s.tt.Probe(p.ZobristKey()); ttEntry != nil {
			s.statistics.TTHit++
			ttMove = ttEntry.Move()
			if ttEntry.Depth() >= depth {
				ttValue := valueFromTT(ttEntry.Value(), ply)
				cut := false
				switch {
				case !ttValue.IsValid():
					cut = false
				case ttEntry.Vtype() == EXACT:
					cut = true
				case ttEntry.Vtype() == ALPHA && ttValue <= alpha:
					cut = true
				case ttEntry.Vtype() == BETA && ttValue >= beta:
					cut = true
				}
				if cut && config.Settings.Search.UseTTValue {
					s.statistics.TTCuts++
					return ttValue
				}
				s.statistics.TTNoCuts++
			}
		} else {
			s.statistics.TTMiss++
		}
	}

	myMg := s.mg[ply]

	if config.Settings.Search.UseTTMove && ttMove != MoveNone {
		s.statistics.TTMoveUsed++
		myMg.SetPvMove(ttMove)
	} else {
		myMg.SetPvMove(MoveNone)
	}

	moves := myMg.GenerateLegalMoves(p, movegen.GenAll)

	// mate or stalemate
	if moves.Len() == 0 {
		if p.HasCheck() {
			s.statistics.Checkmates++
			bestNodeValue = -ValueCheckMate + Value(ply)
		} else {
			s.statistics.Stalemates++
			bestNodeValue = ValueDraw
		}
		if s.tt != nil {
			s.storeTT(p, depth, ply, MoveNone, bestNodeValue, EXACT)
		}
		return bestNodeValue
	}

	movesSearched := 0
	for i := 0; i < moves.Len(); i++ {
		move := moves.At(i)
		from := move.From()
		to := move.To()
		quiet := !p.IsCapturingMove(move)

		p.DoMove(move)
		s.nodesVisited++
		s.sendSearchUpdateToUci()

		value := -s.search(p, depth-1, ply+1, -beta, -alpha)

		p.UndoMove()
		movesSearched++

		if s.stopConditions() {
			return ValueNA
		}

		if value > bestNodeValue {
			bestNodeValue = value
			bestNodeMove = move
			if value > alpha {
				savePV(move.MoveOf(), s.pv[ply+1], s.pv[ply])
				if value >= beta {
					// beta cutoff - remember the move as killer and
					// in the history counters so it is tried early
					// in sibling nodes
					s.statistics.BetaCuts++
					if movesSearched == 1 {
						s.statistics.BetaCuts1st++
					}
					if quiet {
						if config.Settings.Search.UseKiller {
							myMg.StoreKiller(move)
						}
						if config.Settings.Search.UseHistory {
							s.history.Inc(us, from, to, depth)
						}
					}
					ttType = BETA
					break
				}
				alpha = value
				ttType = EXACT
			}
		}
		// no cutoff from this quiet move - lower its history count
		if quiet && config.Settings.Search.UseHistory && ttType != BETA {
			s.history.Dec(us, from, to, 1)
		}
	}

	if s.tt != nil {
		s.storeTT(p, depth, ply, bestNodeMove, bestNodeValue, ttType)
	}

	return bestNodeValue
}

// qsearch resolves captures (and promotions) at the horizon to
// mitigate the horizon effect. Stand-pat with the static evaluation
// bounds the search; when in check all moves are searched as check
// evasions. Terminates because the supply of captures is finite.
func (s *Search) qsearch(p *position.Position, ply int, alpha Value, beta Value) Value {
	s.pv[ply].Clear()

	if s.statistics.CurrentExtraSearchDepth < ply {
		s.statistics.CurrentExtraSearchDepth = ply
	}

	if !config.Settings.Search.UseQuiescence || ply >= MaxPly {
		return s.evaluate(p)
	}

	hasCheck := p.HasCheck()
	bestNodeValue := ValueNA
	bestNodeMove := MoveNone
	ttMove := MoveNone
	ttType := ALPHA

	// when not in check the static evaluation is a lower bound - we
	// can always decline all captures
	if !hasCheck {
		standPat := s.evaluate(p)
		bestNodeValue = standPat
		if config.Settings.Search.UseQSStandpat {
			if standPat >= beta {
				s.statistics.StandpatCuts++
				return standPat
			}
			if standPat > alpha {
				alpha = standPat
			}
		}
	}

	if s.tt != nil && config.Settings.Search.UseQSTT {
		if ttEntry := s.tt.Probe(p.ZobristKey()); ttEntry != nil {
			s.statistics.TTHit++
			ttMove = ttEntry.Move()
			ttValue := valueFromTT(ttEntry.Value(), ply)
			cut := false
			switch {
			case !ttValue.IsValid():
				cut = false
			case ttEntry.Vtype() == EXACT:
				cut = true
			case ttEntry.Vtype() == ALPHA && ttValue <= alpha:
				cut = true
			case ttEntry.Vtype() == BETA && ttValue >= beta:
				cut = true
			}
			if cut && config.Settings.Search.UseTTValue {
				s.statistics.TTCuts++
				return ttValue
			}
		}
	}

	myMg := s.mg[ply]
	if ttMove != MoveNone {
		myMg.SetPvMove(ttMove)
	} else {
		myMg.SetPvMove(MoveNone)
	}

	// in check all evasions are searched, otherwise only captures
	// and promotions
	mode := movegen.GenNonQuiet
	if hasCheck {
		mode = movegen.GenAll
	}
	moves := myMg.GenerateLegalMoves(p, mode)

	// with check and no evasions this is mate; without check an
	// empty capture list just returns the stand-pat value
	if moves.Len() == 0 {
		if hasCheck {
			s.statistics.Checkmates++
			return -ValueCheckMate + Value(ply)
		}
		return bestNodeValue
	}

	for i := 0; i < moves.Len(); i++ {
		move := moves.At(i)

		p.DoMove(move)
		s.nodesVisited++
		s.sendSearchUpdateToUci()

		var value Value
		// draw checks matter only for evasions - captures reset
		// the repetition and 50-move state anyway
		if hasCheck && s.isDraw(p, s.mg[ply+1]) {
			value = ValueDraw
		} else {
			value = -s.qsearch(p, ply+1, -beta, -alpha)
		}

		p.UndoMove()

		if s.stopConditions() {
			return ValueNA
		}

		if value > bestNodeValue {
			bestNodeValue = value
			bestNodeMove = move
			if value > alpha {
				savePV(move.MoveOf(), s.pv[ply+1], s.pv[ply])
				if value >= beta {
					s.statistics.BetaCuts++
					ttType = BETA
					break
				}
				alpha = value
				ttType = EXACT
			}
		}
	}

	if s.tt != nil && config.Settings.Search.UseQSTT {
		s.storeTT(p, 0, ply, bestNodeMove, bestNodeValue, ttType)
	}

	return bestNodeValue
}

// isDraw checks for draws by twofold repetition, insufficient
// material or the 50-move rule. A position where the 100th half move
// delivered mate is not a draw - the mate takes precedence.
func (s *Search) isDraw(p *position.Position, mg *movegen.Movegen) bool {
	if p.CheckRepetitions(1) || p.HasInsufficientMaterial() {
		return true
	}
	if p.HalfMoveClock() >= 100 {
		if p.HasCheck() && !mg.HasLegalMove(p) {
			return false
		}
		return true
	}
	return false
}

// evaluate calls the static evaluation on the position
func (s *Search) evaluate(p *position.Position) Value {
	s.statistics.Evaluations++
	return s.eval.Evaluate(p)
}

// savePV sets dest to move followed by the src continuation
func savePV(move Move, src *moveslice.MoveSlice, dest *moveslice.MoveSlice) {
	dest.Clear()
	dest.PushBack(move)
	*dest = append(*dest, *src...)
}

// storeTT stores a search result adjusting mate values to be ply
// independent.
func (s *Search) storeTT(p *position.Position, depth int, ply int, move Move, value Value, valueType ValueType) {
	if !value.IsValid() {
		return
	}
	s.tt.Put(p.ZobristKey(), move, depth, valueToTT(value, ply), valueType)
}

// valueToTT adjusts a mate value relative to the current ply so the
// stored value is independent of where in the tree it was found.
func valueToTT(value Value, ply int) Value {
	if value.IsCheckMateValue() {
		if value > 0 {
			return value + Value(ply)
		}
		return value - Value(ply)
	}
	return value
}

// valueFromTT reverses the valueToTT adjustment on probing
func valueFromTT(value Value, ply int) Value {
	if value.IsCheckMateValue() {
		if value > 0 {
			return value - Value(ply)
		}
		return value + Value(ply)
	}
	return value
}
