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

func TestValueString(t *testing.T) {
	assert.Equal(t, "cp 100", Value(100).String())
	assert.Equal(t, "cp -50", Value(-50).String())
	assert.Equal(t, "cp 0", ValueDraw.String())
}

func TestMateValues(t *testing.T) {
	// mate in 1 ply = mate in 1 move
	v := ValueCheckMate - 1
	assert.True(t, v.IsCheckMateValue())
	assert.Equal(t, 1, v.MateIn())
	assert.Equal(t, "mate 1", v.String())

	// mate in 5 plies = mate in 3 moves
	v = ValueCheckMate - 5
	assert.Equal(t, 3, v.MateIn())
	assert.Equal(t, "mate 3", v.String())

	// getting mated in 2 plies = mate -1
	v = -ValueCheckMate + 2
	assert.True(t, v.IsCheckMateValue())
	assert.Equal(t, "mate -1", v.String())

	// a shallower mate has the higher value
	assert.Greater(t, ValueCheckMate-1, ValueCheckMate-3)
}

func TestValueRanges(t *testing.T) {
	assert.True(t, Value(0).IsValid())
	assert.True(t, ValueCheckMate.IsValid())
	assert.False(t, ValueNA.IsValid())
	assert.False(t, Value(100).IsCheckMateValue())
	assert.False(t, ValueCheckMateThreshold.IsCheckMateValue())
	assert.True(t, (ValueCheckMateThreshold + 1).IsCheckMateValue())
}

func TestCastlingRightsOps(t *testing.T) {
	cr := CastlingAny
	assert.True(t, cr.Has(CastlingWhiteOO))
	cr.Remove(CastlingWhite)
	assert.False(t, cr.Has(CastlingWhiteOO))
	assert.False(t, cr.Has(CastlingWhiteOOO))
	assert.True(t, cr.Has(CastlingBlackOO))
	assert.Equal(t, "kq", cr.String())
	cr.Add(CastlingWhiteOO)
	assert.Equal(t, "Kkq", cr.String())
	assert.Equal(t, "-", CastlingNone.String())
}
