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
	"github.com/stretchr/testify/require"

	"github.com/mantis-chess/mantis/internal/position"
	. "github.com/mantis-chess/mantis/internal/types"
)

const kiwipeteFen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestStartPositionMoves(t *testing.T) {
	mg := NewMoveGen()
	p := position.NewPosition()
	moves := mg.GenerateLegalMoves(p, GenAll)
	assert.Equal(t, 20, moves.Len())
}

func TestKiwipeteMoves(t *testing.T) {
	mg := NewMoveGen()
	p, err := position.NewPositionFen(kiwipeteFen)
	require.NoError(t, err)
	moves := mg.GenerateLegalMoves(p, GenAll)
	assert.Equal(t, 48, moves.Len())
}

func TestNoDuplicatesAndAllLegal(t *testing.T) {
	mg := NewMoveGen()
	p, _ := position.NewPositionFen(kiwipeteFen)
	moves := mg.GenerateLegalMoves(p, GenAll).Clone()

	seen := map[Move]bool{}
	for _, m := range *moves {
		assert.False(t, seen[m.MoveOf()], "duplicate move %s", m.StringUci())
		seen[m.MoveOf()] = true

		// a legal move never leaves the own king attacked
		us := p.NextPlayer()
		p.DoMove(m)
		assert.False(t, p.IsAttacked(p.KingSquare(us), p.NextPlayer()),
			"move %s leaves king in check", m.StringUci())
		p.UndoMove()
	}
}

func TestGenerationIsStable(t *testing.T) {
	mg := NewMoveGen()
	p, _ := position.NewPositionFen(kiwipeteFen)
	first := mg.GenerateLegalMoves(p, GenAll).Clone()
	second := mg.GenerateLegalMoves(p, GenAll).Clone()
	assert.True(t, first.Equals(second))
}

func TestStalematePosition(t *testing.T) {
	mg := NewMoveGen()
	p, err := position.NewPositionFen("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	moves := mg.GenerateLegalMoves(p, GenAll)
	assert.Equal(t, 0, moves.Len())
	assert.False(t, p.HasCheck())
	assert.False(t, mg.HasLegalMove(p))
}

func TestCheckmatePosition(t *testing.T) {
	// back rank mate
	mg := NewMoveGen()
	p, err := position.NewPositionFen("R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	require.NoError(t, err)
	assert.True(t, p.HasCheck())
	assert.Equal(t, 0, mg.GenerateLegalMoves(p, GenAll).Len())
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// knight f6 and rook e1 give double check - only king moves
	mg := NewMoveGen()
	p, err := position.NewPositionFen("4k3/8/5N2/8/8/8/8/4RK2 b - - 0 1")
	require.NoError(t, err)
	require.Equal(t, 2, p.Checkers().PopCount())
	moves := mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *moves {
		assert.Equal(t, p.KingSquare(Black), m.From())
	}
	assert.True(t, moves.Len() > 0)
}

func TestSingleCheckEvasions(t *testing.T) {
	// rook e8 checks the white king on e1; legal answers are king
	// steps off the e-file, blocks on the e-file and no others
	mg := NewMoveGen()
	p, err := position.NewPositionFen("4r2k/8/8/8/8/8/3B4/R3K3 w Q - 0 1")
	require.NoError(t, err)
	require.True(t, p.HasCheck())
	moves := mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *moves {
		if m.From() != SqE1 {
			// non-king moves must block on the e-file
			assert.Equal(t, FileE, m.To().FileOf(), m.StringUci())
		} else {
			// castling out of check is never legal
			assert.NotEqual(t, Castling, m.MoveType(), m.StringUci())
		}
	}
	// Be2 blocks? no - d2 bishop reaches e3 and e1 is king: block on e3
	assert.True(t, moves.Contains(CreateMove(SqD2, SqE3, Normal, PtNone)))
	assert.True(t, moves.Contains(CreateMove(SqE1, SqD1, Normal, PtNone)))
	assert.True(t, moves.Contains(CreateMove(SqE1, SqF1, Normal, PtNone)))
}

func TestPinnedPieceMoves(t *testing.T) {
	// the white rook on e4 is pinned by the rook on e8 and may only
	// move along the e-file
	mg := NewMoveGen()
	p, err := position.NewPositionFen("4r2k/8/8/8/4R3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	moves := mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *moves {
		if m.From() == SqE4 {
			assert.Equal(t, FileE, m.To().FileOf(), m.StringUci())
		}
	}
	assert.True(t, moves.Contains(CreateMove(SqE4, SqE8, Normal, PtNone)))
	assert.False(t, moves.Contains(CreateMove(SqE4, SqA4, Normal, PtNone)))
}

func TestEnPassantGeneration(t *testing.T) {
	mg := NewMoveGen()
	p, err := position.NewPositionFen("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	require.NoError(t, err)
	moves := mg.GenerateLegalMoves(p, GenAll)
	assert.True(t, moves.Contains(CreateMove(SqE5, SqD6, EnPassant, PtNone)))
}

func TestEnPassantHorizontalPin(t *testing.T) {
	// the classic trap: capturing en passant would expose the king
	// to the rook along the 5th rank as both pawns leave it
	// black rook a5, black pawn d5 (just pushed d7d5), white pawn
	// e5 and white king h5: e5xd6 would clear the whole rank and
	// expose the king to the rook
	mg := NewMoveGen()
	p, err := position.NewPositionFen("4k3/8/8/r2pP2K/8/8/8/8 w - d6 0 2")
	require.NoError(t, err)
	moves := mg.GenerateLegalMoves(p, GenAll)
	assert.False(t, moves.Contains(CreateMove(SqE5, SqD6, EnPassant, PtNone)))
}

func TestPromotionFanOut(t *testing.T) {
	mg := NewMoveGen()
	p, err := position.NewPositionFen("5k2/P7/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	moves := mg.GenerateLegalMoves(p, GenAll)
	promotions := 0
	for _, m := range *moves {
		if m.MoveType() == Promotion {
			promotions++
		}
	}
	assert.Equal(t, 4, promotions)
}

func TestNonQuietMode(t *testing.T) {
	mg := NewMoveGen()
	p, err := position.NewPositionFen("5k2/P7/8/3p4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	moves := mg.GenerateLegalMoves(p, GenNonQuiet)
	// exd5 capture and four promotions - no quiet pawn pushes, no
	// king moves
	assert.True(t, moves.Contains(CreateMove(SqE4, SqD5, Normal, PtNone)))
	assert.True(t, moves.Contains(CreateMove(SqA7, SqA8, Promotion, Queen)))
	assert.True(t, moves.Contains(CreateMove(SqA7, SqA8, Promotion, Knight)))
	for _, m := range *moves {
		assert.True(t, p.IsCapturingMove(m) || m.MoveType() == Promotion, m.StringUci())
	}
}

func TestCastlingGeneration(t *testing.T) {
	mg := NewMoveGen()
	p, _ := position.NewPositionFen("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	moves := mg.GenerateLegalMoves(p, GenAll)
	assert.True(t, moves.Contains(CreateMove(SqE1, SqG1, Castling, PtNone)))
	assert.True(t, moves.Contains(CreateMove(SqE1, SqC1, Castling, PtNone)))

	// king may not castle through an attacked square
	p2, _ := position.NewPositionFen("r3k2r/8/8/8/8/5q2/8/R3K2R w KQkq - 0 1")
	moves2 := mg.GenerateLegalMoves(p2, GenAll)
	// f3 queen attacks f1 - king side castling crosses f1
	assert.False(t, moves2.Contains(CreateMove(SqE1, SqG1, Castling, PtNone)))
}

func TestOrderingCapturesFirst(t *testing.T) {
	mg := NewMoveGen()
	p, _ := position.NewPositionFen(kiwipeteFen)
	moves := mg.GenerateLegalMoves(p, GenAll)
	// once the first quiet move appears no capture may follow
	seenQuiet := false
	for _, m := range *moves {
		if p.IsCapturingMove(m) {
			assert.False(t, seenQuiet, "capture %s sorted after quiet move", m.StringUci())
		} else if m.MoveType() != Promotion {
			seenQuiet = true
		}
	}
}

func TestPvMoveSortedFirst(t *testing.T) {
	mg := NewMoveGen()
	p := position.NewPosition()
	pv := CreateMove(SqG1, SqF3, Normal, PtNone)
	mg.SetPvMove(pv)
	moves := mg.GenerateLegalMoves(p, GenAll)
	assert.Equal(t, pv, moves.At(0).MoveOf())
}

func TestKillerSortedBeforeQuietMoves(t *testing.T) {
	mg := NewMoveGen()
	p := position.NewPosition()
	killer := CreateMove(SqB2, SqB3, Normal, PtNone)
	mg.StoreKiller(killer)
	moves := mg.GenerateLegalMoves(p, GenAll)
	// b2b3 is a bad quiet move by piece-square values but must be
	// first now (no captures and no pv in the start position)
	assert.Equal(t, killer, moves.At(0).MoveOf())
}

func TestGetMoveFromUci(t *testing.T) {
	mg := NewMoveGen()
	p := position.NewPosition()
	assert.Equal(t, CreateMove(SqE2, SqE4, Normal, PtNone), mg.GetMoveFromUci(p, "e2e4").MoveOf())
	assert.Equal(t, MoveNone, mg.GetMoveFromUci(p, "e2e5"))
	assert.Equal(t, MoveNone, mg.GetMoveFromUci(p, "xx99"))

	pProm, _ := position.NewPositionFen("5k2/P7/8/8/8/8/8/4K3 w - - 0 1")
	m := mg.GetMoveFromUci(pProm, "a7a8q")
	assert.Equal(t, Promotion, m.MoveType())
	assert.Equal(t, Queen, m.PromotionType())

	pCastle, _ := position.NewPositionFen("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	mc := mg.GetMoveFromUci(pCastle, "e1g1")
	assert.Equal(t, Castling, mc.MoveType())
}
