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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakePiece(t *testing.T) {
	assert.Equal(t, WhiteKing, MakePiece(White, King))
	assert.Equal(t, WhiteQueen, MakePiece(White, Queen))
	assert.Equal(t, BlackPawn, MakePiece(Black, Pawn))
	assert.Equal(t, BlackRook, MakePiece(Black, Rook))
}

func TestPieceParts(t *testing.T) {
	assert.Equal(t, White, WhiteKnight.ColorOf())
	assert.Equal(t, Knight, WhiteKnight.TypeOf())
	assert.Equal(t, Black, BlackQueen.ColorOf())
	assert.Equal(t, Queen, BlackQueen.TypeOf())
}

func TestPieceFromChar(t *testing.T) {
	assert.Equal(t, WhiteKing, PieceFromChar("K"))
	assert.Equal(t, BlackPawn, PieceFromChar("p"))
	assert.Equal(t, WhiteQueen, PieceFromChar("Q"))
	assert.Equal(t, PieceNone, PieceFromChar("x"))
	assert.Equal(t, PieceNone, PieceFromChar(""))
	assert.Equal(t, PieceNone, PieceFromChar("-"))
}

func TestPieceString(t *testing.T) {
	assert.Equal(t, "K", WhiteKing.String())
	assert.Equal(t, "q", BlackQueen.String())
	assert.Equal(t, "P", WhitePawn.String())
}

func TestPieceTypeValues(t *testing.T) {
	assert.Equal(t, Value(100), Pawn.ValueOf())
	assert.Equal(t, Value(320), Knight.ValueOf())
	assert.Equal(t, Value(330), Bishop.ValueOf())
	assert.Equal(t, Value(500), Rook.ValueOf())
	assert.Equal(t, Value(900), Queen.ValueOf())
	assert.Equal(t, Value(0), King.ValueOf())
}

func TestGamePhaseValues(t *testing.T) {
	// start position has 4 minor pieces per side (4*1), 2 rooks
	// (2*2) and one queen (4) per side = 24 total
	total := 2 * (2*Knight.GamePhaseValue() + 2*Bishop.GamePhaseValue() +
		2*Rook.GamePhaseValue() + Queen.GamePhaseValue())
	assert.Equal(t, GamePhaseMax, total)
}

func TestPromoChar(t *testing.T) {
	assert.Equal(t, Queen, PieceTypeFromPromoChar('q'))
	assert.Equal(t, Knight, PieceTypeFromPromoChar('N'))
	assert.Equal(t, PtNone, PieceTypeFromPromoChar('k'))
}
