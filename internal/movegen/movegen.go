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

// Package movegen generates moves on a chess position. Pseudo-legal
// moves are generated category by category with encoded sort values
// and then filtered to fully legal moves using a pin mask and a
// check-evasion mask so no make/unmake round trip is needed for
// legality (except for the en passant geometry which is simulated on
// the occupancy).
package movegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/op/go-logging"

	"github.com/mantis-chess/mantis/internal/history"
	myLogging "github.com/mantis-chess/mantis/internal/logging"
	"github.com/mantis-chess/mantis/internal/moveslice"
	"github.com/mantis-chess/mantis/internal/position"
	. "github.com/mantis-chess/mantis/internal/types"
)

var log *logging.Logger

// GenMode selects which move categories are generated
type GenMode int

// GenMode constants. GenNonQuiet covers captures, en passant and all
// promotions and is the mode used by quiescence search.
const (
	GenAll      GenMode = 0
	GenNonQuiet GenMode = 1
)

// Movegen holds the reusable buffers and the ordering hints (pv
// move, killer moves, history tables) for one search ply.
// Create instances with NewMoveGen().
type Movegen struct {
	pseudoLegalMoves *moveslice.MoveSlice
	legalMoves       *moveslice.MoveSlice
	killerMoves      [2]Move
	pvMove           Move
	historyData      *history.History
}

// NewMoveGen creates a new move generator instance with pre-sized
// move buffers.
func NewMoveGen() *Movegen {
	if log == nil {
		log = myLogging.GetLog()
	}
	return &Movegen{
		pseudoLegalMoves: moveslice.NewMoveSlice(MaxGenMoves),
		legalMoves:       moveslice.NewMoveSlice(MaxGenMoves),
		killerMoves:      [2]Move{MoveNone, MoveNone},
		pvMove:           MoveNone,
	}
}

// SetPvMove sets a pv move which will be sorted first in the next
// generation.
func (mg *Movegen) SetPvMove(move Move) {
	mg.pvMove = move.MoveOf()
}

// StoreKiller stores a quiet move which caused a beta cutoff in the
// current ply. Two killer slots are kept, most recent first.
func (mg *Movegen) StoreKiller(move Move) {
	moveOf := move.MoveOf()
	if mg.killerMoves[0] == moveOf {
		return
	}
	mg.killerMoves[1] = mg.killerMoves[0]
	mg.killerMoves[0] = moveOf
}

// KillerMoves returns the current killer moves of this generator
func (mg *Movegen) KillerMoves() [2]Move {
	return mg.killerMoves
}

// SetHistoryData gives the generator access to the history heuristic
// tables maintained by the search.
func (mg *Movegen) SetHistoryData(h *history.History) {
	mg.historyData = h
}

// Reset clears pv move and killers (e.g. for a new search)
func (mg *Movegen) Reset() {
	mg.pvMove = MoveNone
	mg.killerMoves[0] = MoveNone
	mg.killerMoves[1] = MoveNone
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves of the
// requested mode for the side to move, sorted by their encoded sort
// values (pv first, then captures by MVV-LVA, killers, quiet moves
// by piece-square and history values).
func (mg *Movegen) GeneratePseudoLegalMoves(p *position.Position, mode GenMode) *moveslice.MoveSlice {
	mg.pseudoLegalMoves.Clear()
	mg.generatePawnMoves(p, mode, mg.pseudoLegalMoves)
	if mode == GenAll {
		mg.generateCastling(p, mg.pseudoLegalMoves)
	}
	mg.generatePieceMoves(p, mode, mg.pseudoLegalMoves)
	mg.generateKingMoves(p, mode, mg.pseudoLegalMoves)

	// pv, killer and history handling on the raw sort values
	us := p.NextPlayer()
	for i := 0; i < mg.pseudoLegalMoves.Len(); i++ {
		m := mg.pseudoLegalMoves.At(i)
		switch {
		case m.MoveOf() == mg.pvMove:
			mg.pseudoLegalMoves.Set(i, m.SetValue(ValueInf))
		case m.MoveOf() == mg.killerMoves[0] && !p.IsCapturingMove(m):
			mg.pseudoLegalMoves.Set(i, m.SetValue(killerValue))
		case m.MoveOf() == mg.killerMoves[1] && !p.IsCapturingMove(m):
			mg.pseudoLegalMoves.Set(i, m.SetValue(killerValue-1))
		default:
			if mg.historyData != nil && !p.IsCapturingMove(m) {
				bonus := mg.historyData.Count(us, m.From(), m.To()) >> historyShift
				if bonus > int64(historyMaxBonus) {
					bonus = int64(historyMaxBonus)
				}
				if bonus > 0 {
					mg.pseudoLegalMoves.Set(i, m.SetValue(m.ValueOf()+Value(bonus)))
				}
			}
		}
	}
	mg.pseudoLegalMoves.Sort()

	// strip the sort values - order is kept
	for i := 0; i < mg.pseudoLegalMoves.Len(); i++ {
		mg.pseudoLegalMoves.Set(i, mg.pseudoLegalMoves.At(i).MoveOf())
	}
	return mg.pseudoLegalMoves
}

// GenerateLegalMoves generates all legal moves of the requested mode
// for the side to move. Generates pseudo-legal moves first and
// filters them through the pin and check-evasion masks.
func (mg *Movegen) GenerateLegalMoves(p *position.Position, mode GenMode) *moveslice.MoveSlice {
	mg.legalMoves.Clear()
	mg.GeneratePseudoLegalMoves(p, mode)

	us := p.NextPlayer()
	them := us.Flip()
	kingSq := p.KingSquare(us)
	checkers := p.Checkers()
	doubleCheck := checkers.PopCount() > 1
	pinned := pinnedPieces(p, us)

	// in single check a non-king move must capture the checker or
	// interpose on the check ray
	evasionTargets := BbAll
	if checkers.PopCount() == 1 {
		evasionTargets = checkers | Intermediate(kingSq, checkers.Lsb())
	}

	for _, m := range *mg.pseudoLegalMoves {
		if mg.isLegal(p, m, us, them, kingSq, checkers, doubleCheck, pinned, evasionTargets) {
			mg.legalMoves.PushBack(m)
		}
	}
	return mg.legalMoves
}

// HasLegalMove determines if the side to move has at least one legal
// move.
func (mg *Movegen) HasLegalMove(p *position.Position) bool {
	return mg.GenerateLegalMoves(p, GenAll).Len() > 0
}

// isLegal implements the legality filter:
//   - king moves only to unattacked squares (tested with the king
//     lifted off the occupancy so backward slider attacks count)
//   - castling not out of, through or into check
//   - in double check only king moves
//   - in single check only king moves, captures of the checker or
//     interpositions
//   - pinned pieces only along the line through king and pinner
//   - en passant verified on a simulated occupancy as two pawns
//     leave their rank at once
func (mg *Movegen) isLegal(p *position.Position, m Move, us Color, them Color, kingSq Square,
	checkers Bitboard, doubleCheck bool, pinned Bitboard, evasionTargets Bitboard) bool {

	from := m.From()
	to := m.To()

	if from == kingSq {
		if m.MoveType() == Castling {
			if checkers != BbZero {
				return false
			}
			var crossing Square
			switch to {
			case SqG1:
				crossing = SqF1
			case SqC1:
				crossing = SqD1
			case SqG8:
				crossing = SqF8
			case SqC8:
				crossing = SqD8
			}
			return !p.IsAttacked(crossing, them) && !p.IsAttacked(to, them)
		}
		occ := p.OccupiedAll()
		occ.PopSquare(from)
		return p.AttacksTo(to, them, occ) == BbZero
	}

	if doubleCheck {
		return false
	}

	if m.MoveType() == EnPassant {
		return mg.isLegalEnPassant(p, from, to, us, them, kingSq)
	}

	if pinned.Has(from) && !LineBb(kingSq, from).Has(to) {
		return false
	}

	if checkers != BbZero && !evasionTargets.Has(to) {
		return false
	}

	return true
}

// isLegalEnPassant simulates the en passant capture on the occupancy
// and verifies the own king is not attacked afterwards. This covers
// the horizontal double-discovery where both pawns leave the rank.
func (mg *Movegen) isLegalEnPassant(p *position.Position, from Square, to Square, us Color, them Color, kingSq Square) bool {
	capSq := to.To(them.PawnDir())
	occ := p.OccupiedAll()
	occ.PopSquare(from)
	occ.PopSquare(capSq)
	occ.PushSquare(to)

	if GetAttacksBb(Bishop, kingSq, occ)&(p.PiecesBb(them, Bishop)|p.PiecesBb(them, Queen)) != BbZero {
		return false
	}
	if GetAttacksBb(Rook, kingSq, occ)&(p.PiecesBb(them, Rook)|p.PiecesBb(them, Queen)) != BbZero {
		return false
	}
	if GetAttacksBb(Knight, kingSq, occ)&p.PiecesBb(them, Knight) != BbZero {
		return false
	}
	if GetPawnAttacks(us, kingSq)&(p.PiecesBb(them, Pawn)&^capSq.Bb()) != BbZero {
		return false
	}
	return true
}

// pinnedPieces returns all pieces of the given color which are
// absolutely pinned against their king.
func pinnedPieces(p *position.Position, us Color) Bitboard {
	them := us.Flip()
	kingSq := p.KingSquare(us)
	occ := p.OccupiedAll()

	pinners := (GetPseudoAttacks(Bishop, kingSq) & (p.PiecesBb(them, Bishop) | p.PiecesBb(them, Queen))) |
		(GetPseudoAttacks(Rook, kingSq) & (p.PiecesBb(them, Rook) | p.PiecesBb(them, Queen)))

	pinned := BbZero
	for pinners != BbZero {
		sq := pinners.PopLsb()
		between := Intermediate(kingSq, sq) & occ
		if between.PopCount() == 1 && between&p.OccupiedBb(us) != BbZero {
			pinned |= between
		}
	}
	return pinned
}

// regex for UCI moves
var regexUciMove = regexp.MustCompile("^([a-h][1-8][a-h][1-8])([NBRQnbrq])?$")

// GetMoveFromUci generates all legal moves and matches the given UCI
// move string against them. Returns the matched move or MoveNone.
// Uses string comparison and is not meant for performance critical
// paths.
func (mg *Movegen) GetMoveFromUci(p *position.Position, uciMove string) Move {
	matches := regexUciMove.FindStringSubmatch(uciMove)
	if matches == nil {
		return MoveNone
	}
	movePart := matches[1]
	promotionPart := strings.ToLower(matches[2])

	legals := mg.GenerateLegalMoves(p, GenAll).Clone()
	for _, m := range *legals {
		if m.StringUci() == movePart+promotionPart {
			return m
		}
	}
	return MoveNone
}

// String returns a debug representation of the generator state
func (mg *Movegen) String() string {
	return fmt.Sprintf("Movegen: { pv: %s killer1: %s killer2: %s }",
		mg.pvMove.StringUci(), mg.killerMoves[0].StringUci(), mg.killerMoves[1].StringUci())
}

// //////////////////////////////////////////////////////
// Private generation phases
// //////////////////////////////////////////////////////

// sort value scheme: captures score victim - attacker plus the
// positional value of the target square; quiet moves are shifted
// down by quietBase so all captures sort before all quiet moves;
// killers slot in between.
const (
	quietBase        Value = -10_000
	castlingValue    Value = -5_000
	killerValue      Value = -4_000
	underPromoPenal  Value = 2_000
	historyShift           = 8
	historyMaxBonus  Value = 2_000
)

func (mg *Movegen) generatePawnMoves(p *position.Position, mode GenMode, ml *moveslice.MoveSlice) {
	us := p.NextPlayer()
	myPawns := p.PiecesBb(us, Pawn)
	oppPieces := p.OccupiedBb(us.Flip())
	gamePhase := p.GamePhase()
	piece := MakePiece(us, Pawn)
	forward := Direction(us.Direction()) * North

	// captures - shift the pawn set towards both capture directions
	// and AND with the opponent pieces; the backward shift yields
	// the from-square
	for _, dir := range []Direction{West, East} {
		tmpCaptures := ShiftBitboard(myPawns, forward+dir) & oppPieces
		promCaptures := tmpCaptures & us.PromotionRankBb()
		tmpCaptures &^= us.PromotionRankBb()

		for promCaptures != BbZero {
			toSq := promCaptures.PopLsb()
			fromSq := toSq.To(-forward - dir)
			value := p.GetPiece(toSq).ValueOf() - p.GetPiece(fromSq).ValueOf() + PosValue(piece, toSq, gamePhase)
			ml.PushBack(CreateMoveValue(fromSq, toSq, Promotion, Queen, value+Queen.ValueOf()))
			ml.PushBack(CreateMoveValue(fromSq, toSq, Promotion, Knight, value+Knight.ValueOf()))
			// rook and bishop promotions are almost always covered
			// by the queen promotion - sort them far down
			ml.PushBack(CreateMoveValue(fromSq, toSq, Promotion, Rook, value+Rook.ValueOf()-underPromoPenal))
			ml.PushBack(CreateMoveValue(fromSq, toSq, Promotion, Bishop, value+Bishop.ValueOf()-underPromoPenal))
		}
		for tmpCaptures != BbZero {
			toSq := tmpCaptures.PopLsb()
			fromSq := toSq.To(-forward - dir)
			value := p.GetPiece(toSq).ValueOf() - p.GetPiece(fromSq).ValueOf() + PosValue(piece, toSq, gamePhase)
			ml.PushBack(CreateMoveValue(fromSq, toSq, Normal, PtNone, value))
		}
	}

	// en passant captures
	if epSq := p.GetEnPassantSquare(); epSq != SqNone {
		for _, dir := range []Direction{West, East} {
			attackers := ShiftBitboard(epSq.Bb(), -forward+dir) & myPawns
			if attackers != BbZero {
				fromSq := attackers.PopLsb()
				value := Pawn.ValueOf() + PosValue(piece, epSq, gamePhase)
				ml.PushBack(CreateMoveValue(fromSq, epSq, EnPassant, PtNone, value))
			}
		}
	}

	if mode == GenNonQuiet {
		// quiescence still wants quiet promotions (all four piece
		// types) - they are as forcing as captures
		tmpMoves := ShiftBitboard(myPawns, forward) & ^p.OccupiedAll() & us.PromotionRankBb()
		for tmpMoves != BbZero {
			toSq := tmpMoves.PopLsb()
			fromSq := toSq.To(-forward)
			ml.PushBack(CreateMoveValue(fromSq, toSq, Promotion, Queen, Queen.ValueOf()))
			ml.PushBack(CreateMoveValue(fromSq, toSq, Promotion, Knight, Knight.ValueOf()))
			ml.PushBack(CreateMoveValue(fromSq, toSq, Promotion, Rook, Rook.ValueOf()-underPromoPenal))
			ml.PushBack(CreateMoveValue(fromSq, toSq, Promotion, Bishop, Bishop.ValueOf()-underPromoPenal))
		}
		return
	}

	// single pawn pushes to unoccupied squares; pawns which landed
	// on their double-push rank may step again
	tmpMoves := ShiftBitboard(myPawns, forward) & ^p.OccupiedAll()
	tmpMovesDouble := ShiftBitboard(tmpMoves&us.PawnDoubleRankBb(), forward) & ^p.OccupiedAll()

	promMoves := tmpMoves & us.PromotionRankBb()
	tmpMoves &^= us.PromotionRankBb()

	for promMoves != BbZero {
		toSq := promMoves.PopLsb()
		fromSq := toSq.To(-forward)
		ml.PushBack(CreateMoveValue(fromSq, toSq, Promotion, Queen, Queen.ValueOf()))
		ml.PushBack(CreateMoveValue(fromSq, toSq, Promotion, Knight, Knight.ValueOf()))
		ml.PushBack(CreateMoveValue(fromSq, toSq, Promotion, Rook, Rook.ValueOf()-underPromoPenal))
		ml.PushBack(CreateMoveValue(fromSq, toSq, Promotion, Bishop, Bishop.ValueOf()-underPromoPenal))
	}
	for tmpMovesDouble != BbZero {
		toSq := tmpMovesDouble.PopLsb()
		fromSq := toSq.To(-forward).To(-forward)
		value := quietBase + PosValue(piece, toSq, gamePhase)
		ml.PushBack(CreateMoveValue(fromSq, toSq, Normal, PtNone, value))
	}
	for tmpMoves != BbZero {
		toSq := tmpMoves.PopLsb()
		fromSq := toSq.To(-forward)
		value := quietBase + PosValue(piece, toSq, gamePhase)
		ml.PushBack(CreateMoveValue(fromSq, toSq, Normal, PtNone, value))
	}
}

// generateCastling emits pseudo castling moves - the rights must be
// available and the squares between king and rook empty. The checks
// against attacked squares happen in the legality filter.
func (mg *Movegen) generateCastling(p *position.Position, ml *moveslice.MoveSlice) {
	cr := p.CastlingRights()
	if cr == CastlingNone {
		return
	}
	occ := p.OccupiedAll()
	if p.NextPlayer() == White {
		if cr.Has(CastlingWhiteOO) && Intermediate(SqE1, SqH1)&occ == BbZero {
			ml.PushBack(CreateMoveValue(SqE1, SqG1, Castling, PtNone, castlingValue))
		}
		if cr.Has(CastlingWhiteOOO) && Intermediate(SqE1, SqA1)&occ == BbZero {
			ml.PushBack(CreateMoveValue(SqE1, SqC1, Castling, PtNone, castlingValue))
		}
	} else {
		if cr.Has(CastlingBlackOO) && Intermediate(SqE8, SqH8)&occ == BbZero {
			ml.PushBack(CreateMoveValue(SqE8, SqG8, Castling, PtNone, castlingValue))
		}
		if cr.Has(CastlingBlackOOO) && Intermediate(SqE8, SqA8)&occ == BbZero {
			ml.PushBack(CreateMoveValue(SqE8, SqC8, Castling, PtNone, castlingValue))
		}
	}
}

func (mg *Movegen) generateKingMoves(p *position.Position, mode GenMode, ml *moveslice.MoveSlice) {
	us := p.NextPlayer()
	piece := MakePiece(us, King)
	gamePhase := p.GamePhase()
	fromSq := p.KingSquare(us)
	pseudoMoves := GetPseudoAttacks(King, fromSq)

	captures := pseudoMoves & p.OccupiedBb(us.Flip())
	for captures != BbZero {
		toSq := captures.PopLsb()
		value := p.GetPiece(toSq).ValueOf() - p.GetPiece(fromSq).ValueOf() + PosValue(piece, toSq, gamePhase)
		ml.PushBack(CreateMoveValue(fromSq, toSq, Normal, PtNone, value))
	}

	if mode == GenAll {
		nonCaptures := pseudoMoves &^ p.OccupiedAll()
		for nonCaptures != BbZero {
			toSq := nonCaptures.PopLsb()
			value := quietBase + PosValue(piece, toSq, gamePhase)
			ml.PushBack(CreateMoveValue(fromSq, toSq, Normal, PtNone, value))
		}
	}
}

// generatePieceMoves generates knight, bishop, rook and queen moves
// using the magic bitboard attack lookups.
func (mg *Movegen) generatePieceMoves(p *position.Position, mode GenMode, ml *moveslice.MoveSlice) {
	us := p.NextPlayer()
	gamePhase := p.GamePhase()
	occ := p.OccupiedAll()

	for pt := Knight; pt <= Queen; pt++ {
		pieces := p.PiecesBb(us, pt)
		piece := MakePiece(us, pt)

		for pieces != BbZero {
			fromSq := pieces.PopLsb()
			moves := GetAttacksBb(pt, fromSq, occ)

			captures := moves & p.OccupiedBb(us.Flip())
			for captures != BbZero {
				toSq := captures.PopLsb()
				value := p.GetPiece(toSq).ValueOf() - p.GetPiece(fromSq).ValueOf() + PosValue(piece, toSq, gamePhase)
				ml.PushBack(CreateMoveValue(fromSq, toSq, Normal, PtNone, value))
			}

			if mode == GenAll {
				nonCaptures := moves &^ occ
				for nonCaptures != BbZero {
					toSq := nonCaptures.PopLsb()
					value := quietBase + PosValue(piece, toSq, gamePhase)
					ml.PushBack(CreateMoveValue(fromSq, toSq, Normal, PtNone, value))
				}
			}
		}
	}
}
