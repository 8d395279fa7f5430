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

func TestCreateMove(t *testing.T) {
	m := CreateMove(SqE2, SqE4, Normal, PtNone)
	assert.Equal(t, SqE2, m.From())
	assert.Equal(t, SqE4, m.To())
	assert.Equal(t, Normal, m.MoveType())
	assert.True(t, m.IsValid())
	assert.Equal(t, "e2e4", m.StringUci())
}

func TestCreateMovePromotion(t *testing.T) {
	m := CreateMove(SqE7, SqE8, Promotion, Queen)
	assert.Equal(t, Queen, m.PromotionType())
	assert.Equal(t, "e7e8q", m.StringUci())

	m = CreateMove(SqA2, SqA1, Promotion, Knight)
	assert.Equal(t, Knight, m.PromotionType())
	assert.Equal(t, "a2a1n", m.StringUci())
}

func TestCastlingMoveNotation(t *testing.T) {
	m := CreateMove(SqE1, SqG1, Castling, PtNone)
	assert.Equal(t, "e1g1", m.StringUci())
	m = CreateMove(SqE8, SqC8, Castling, PtNone)
	assert.Equal(t, "e8c8", m.StringUci())
}

func TestMoveValue(t *testing.T) {
	m := CreateMoveValue(SqE2, SqE4, Normal, PtNone, 999)
	assert.Equal(t, Value(999), m.ValueOf())
	assert.Equal(t, SqE2, m.From())
	assert.Equal(t, SqE4, m.To())

	// stripping the value keeps the move
	stripped := m.MoveOf()
	assert.Equal(t, CreateMove(SqE2, SqE4, Normal, PtNone), stripped)

	// setting a new value
	m.SetValue(-500)
	assert.Equal(t, Value(-500), m.ValueOf())
	assert.Equal(t, SqE4, m.To())

	// negative and extreme values survive the encoding
	m = CreateMoveValue(SqA1, SqH8, Normal, PtNone, ValueInf)
	assert.Equal(t, ValueInf, m.ValueOf())
	m = CreateMoveValue(SqA1, SqH8, Normal, PtNone, -ValueInf)
	assert.Equal(t, -ValueInf, m.ValueOf())
}

func TestMoveNone(t *testing.T) {
	assert.False(t, MoveNone.IsValid())
	assert.Equal(t, "0000", MoveNone.StringUci())
}
