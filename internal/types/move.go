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
	"fmt"
	"strings"
)

// MoveType classifies a move. Together with the board context this
// is sufficient to make and unmake any chess move.
type MoveType uint8

// MoveType constants
const (
	Normal    MoveType = 0
	Promotion MoveType = 1
	EnPassant MoveType = 2
	Castling  MoveType = 3
)

// IsValid checks mt for a valid move type
func (mt MoveType) IsValid() bool {
	return mt < 4
}

var moveTypeToChar = "npec"

// String returns a single char representation of the move type
func (mt MoveType) String() string {
	return string(moveTypeToChar[mt])
}

// Move is a 32-bit encoding of a chess move plus a sort value:
//
//	bits  0-5   to square
//	bits  6-11  from square
//	bits 12-13  promotion piece type (0-3 for N,B,R,Q)
//	bits 14-15  move type
//	bits 16-31  sort value (shifted by ValueNA to stay positive)
//
// The sort value is only used for move ordering and is stripped with
// MoveOf() before moves are compared or stored.
type Move uint32

// MoveNone is the empty, invalid move
const MoveNone Move = 0

const (
	fromShift     uint = 6
	promTypeShift uint = 12
	typeShift     uint = 14
	valueShift    uint = 16

	squareMask   Move = 0x3F
	toMask            = squareMask
	fromMask          = squareMask << fromShift
	promTypeMask Move = 3 << promTypeShift
	moveTypeMask Move = 3 << typeShift
	moveMask     Move = 0xFFFF
	valueMask    Move = 0xFFFF << valueShift
)

// CreateMove returns an encoded Move without a sort value
func CreateMove(from Square, to Square, t MoveType, promType PieceType) Move {
	if promType < Knight {
		promType = Knight
	}
	return Move(to) |
		Move(from)<<fromShift |
		Move(promType-Knight)<<promTypeShift |
		Move(t)<<typeShift
}

// CreateMoveValue returns an encoded Move including a sort value
func CreateMoveValue(from Square, to Square, t MoveType, promType PieceType, value Value) Move {
	if promType < Knight {
		promType = Knight
	}
	return Move(value-ValueNA)<<valueShift |
		Move(to) |
		Move(from)<<fromShift |
		Move(promType-Knight)<<promTypeShift |
		Move(t)<<typeShift
}

// From returns the from-square of the move
func (m Move) From() Square {
	return Square((m & fromMask) >> fromShift)
}

// To returns the to-square of the move
func (m Move) To() Square {
	return Square(m & toMask)
}

// MoveType returns the type of the move
func (m Move) MoveType() MoveType {
	return MoveType((m & moveTypeMask) >> typeShift)
}

// PromotionType returns the piece type promoted to. Only meaningful
// when the move type is Promotion.
func (m Move) PromotionType() PieceType {
	return PieceType((m&promTypeMask)>>promTypeShift) + Knight
}

// MoveOf returns the move stripped of its sort value (low 16 bits)
func (m Move) MoveOf() Move {
	return m & moveMask
}

// ValueOf returns the sort value encoded in the move
func (m Move) ValueOf() Value {
	return Value((m&valueMask)>>valueShift) + ValueNA
}

// SetValue encodes the given sort value into the move and returns
// the changed move.
func (m *Move) SetValue(v Value) Move {
	if *m == MoveNone {
		return *m
	}
	*m = (*m & moveMask) | Move(v-ValueNA)<<valueShift
	return *m
}

// IsValid checks if the move has valid squares and a valid move and
// promotion type. MoveNone is not valid.
func (m Move) IsValid() bool {
	return m != MoveNone &&
		m.From().IsValid() &&
		m.To().IsValid() &&
		m.PromotionType().IsValid() &&
		m.MoveType().IsValid()
}

// StringUci returns the move in UCI long algebraic notation
// (e.g. e2e4, e7e8q, e1g1 for castling).
func (m Move) StringUci() string {
	if m == MoveNone {
		return "0000"
	}
	var os strings.Builder
	os.WriteString(m.From().String())
	os.WriteString(m.To().String())
	if m.MoveType() == Promotion {
		os.WriteString(strings.ToLower(m.PromotionType().Char()))
	}
	return os.String()
}

// String returns a detailed representation of the move for debugging
func (m Move) String() string {
	if m == MoveNone {
		return "Move: { MoveNone }"
	}
	return fmt.Sprintf("Move: { %-5s type:%s prom:%s value:%d }",
		m.StringUci(), m.MoveType().String(), m.PromotionType().Char(), m.ValueOf())
}
