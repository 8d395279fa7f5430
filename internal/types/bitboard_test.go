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

func TestBitboardBasics(t *testing.T) {
	b := BbZero
	b.PushSquare(SqA1)
	b.PushSquare(SqH8)
	assert.True(t, b.Has(SqA1))
	assert.True(t, b.Has(SqH8))
	assert.False(t, b.Has(SqE4))
	assert.Equal(t, 2, b.PopCount())

	b.PopSquare(SqA1)
	assert.False(t, b.Has(SqA1))
	assert.Equal(t, 1, b.PopCount())
}

func TestLsbPopLsb(t *testing.T) {
	b := SqC3.Bb() | SqG7.Bb()
	assert.Equal(t, SqC3, b.Lsb())
	assert.Equal(t, SqC3, b.PopLsb())
	assert.Equal(t, SqG7, b.PopLsb())
	assert.Equal(t, SqNone, b.PopLsb())
}

func TestShiftBitboard(t *testing.T) {
	assert.Equal(t, SqE5.Bb(), ShiftBitboard(SqE4.Bb(), North))
	assert.Equal(t, SqE3.Bb(), ShiftBitboard(SqE4.Bb(), South))
	assert.Equal(t, SqF4.Bb(), ShiftBitboard(SqE4.Bb(), East))
	assert.Equal(t, SqD4.Bb(), ShiftBitboard(SqE4.Bb(), West))
	assert.Equal(t, SqF5.Bb(), ShiftBitboard(SqE4.Bb(), Northeast))

	// shifts off the board vanish instead of wrapping
	assert.Equal(t, BbZero, ShiftBitboard(SqH4.Bb(), East))
	assert.Equal(t, BbZero, ShiftBitboard(SqA4.Bb(), West))
	assert.Equal(t, BbZero, ShiftBitboard(SqE8.Bb(), North))
	assert.Equal(t, BbZero, ShiftBitboard(SqE1.Bb(), South))
	assert.Equal(t, BbZero, ShiftBitboard(SqH8.Bb(), Northeast))
}

func TestDistances(t *testing.T) {
	assert.Equal(t, 7, FileDistance(FileA, FileH))
	assert.Equal(t, 1, RankDistance(Rank2, Rank3))
	assert.Equal(t, 7, SquareDistance(SqA1, SqH8))
	assert.Equal(t, 1, SquareDistance(SqE4, SqF5))
	assert.Equal(t, 0, SquareDistance(SqE4, SqE4))
}

func TestNonSliderAttacks(t *testing.T) {
	// knight on b1 reaches a3, c3 and d2
	knight := GetAttacksBb(Knight, SqB1, BbZero)
	assert.Equal(t, SqA3.Bb()|SqC3.Bb()|SqD2.Bb(), knight)
	// knight in the center has all 8 targets
	assert.Equal(t, 8, GetAttacksBb(Knight, SqE4, BbZero).PopCount())

	// king in the center and in the corner
	assert.Equal(t, 8, GetAttacksBb(King, SqE4, BbZero).PopCount())
	assert.Equal(t, 3, GetAttacksBb(King, SqA1, BbZero).PopCount())
}

func TestPawnAttacks(t *testing.T) {
	assert.Equal(t, SqD5.Bb()|SqF5.Bb(), GetPawnAttacks(White, SqE4))
	assert.Equal(t, SqD3.Bb()|SqF3.Bb(), GetPawnAttacks(Black, SqE4))
	assert.Equal(t, SqB3.Bb(), GetPawnAttacks(White, SqA2))
	assert.Equal(t, SqG6.Bb(), GetPawnAttacks(Black, SqH7))
}

func TestSliderAttacksEmptyBoard(t *testing.T) {
	assert.Equal(t, 14, GetAttacksBb(Rook, SqE4, BbZero).PopCount())
	assert.Equal(t, 7, GetAttacksBb(Bishop, SqA1, BbZero).PopCount())
	assert.Equal(t, 13, GetAttacksBb(Bishop, SqE4, BbZero).PopCount())
	assert.Equal(t, 27, GetAttacksBb(Queen, SqE4, BbZero).PopCount())
}

func TestSliderAttacksBlockers(t *testing.T) {
	// rook on a1 with blocker on a3: reaches a2, a3 and the first rank
	occ := SqA3.Bb()
	attacks := GetAttacksBb(Rook, SqA1, occ)
	assert.True(t, attacks.Has(SqA2))
	assert.True(t, attacks.Has(SqA3))
	assert.False(t, attacks.Has(SqA4))
	assert.True(t, attacks.Has(SqH1))

	// bishop c1 with blocker on e3
	occ = SqE3.Bb()
	attacks = GetAttacksBb(Bishop, SqC1, occ)
	assert.True(t, attacks.Has(SqD2))
	assert.True(t, attacks.Has(SqE3))
	assert.False(t, attacks.Has(SqF4))
}

func TestIntermediate(t *testing.T) {
	assert.Equal(t, SqB1.Bb()|SqC1.Bb()|SqD1.Bb(), Intermediate(SqA1, SqE1))
	assert.Equal(t, SqB2.Bb()|SqC3.Bb(), Intermediate(SqA1, SqD4))
	assert.Equal(t, BbZero, Intermediate(SqA1, SqB3))
	assert.Equal(t, Intermediate(SqA1, SqE1), Intermediate(SqE1, SqA1))
}

func TestLineBb(t *testing.T) {
	line := LineBb(SqA1, SqD4)
	assert.True(t, line.Has(SqA1))
	assert.True(t, line.Has(SqD4))
	assert.True(t, line.Has(SqH8))
	assert.False(t, line.Has(SqA2))
	// squares not sharing a line
	assert.Equal(t, BbZero, LineBb(SqA1, SqB3))
}

func TestCastlingRightsLost(t *testing.T) {
	assert.Equal(t, CastlingWhite, GetCastlingRights(SqE1))
	assert.Equal(t, CastlingWhiteOO, GetCastlingRights(SqH1))
	assert.Equal(t, CastlingBlackOOO, GetCastlingRights(SqA8))
	assert.Equal(t, CastlingNone, GetCastlingRights(SqE4))
}

func TestSquaresBb(t *testing.T) {
	assert.Equal(t, 32, SquaresBb(White).PopCount())
	assert.Equal(t, 32, SquaresBb(Black).PopCount())
	assert.True(t, SquaresBb(Black).Has(SqA1))
	assert.True(t, SquaresBb(White).Has(SqB1))
	assert.Equal(t, BbAll, SquaresBb(White)|SquaresBb(Black))
}
