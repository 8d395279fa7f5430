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

package history

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/mantis-chess/mantis/internal/types"
)

func TestIncDec(t *testing.T) {
	h := NewHistory()
	assert.EqualValues(t, 0, h.Count(White, SqE2, SqE4))

	h.Inc(White, SqE2, SqE4, 3)
	assert.EqualValues(t, 8, h.Count(White, SqE2, SqE4))
	h.Inc(White, SqE2, SqE4, 2)
	assert.EqualValues(t, 12, h.Count(White, SqE2, SqE4))

	// independent per color
	assert.EqualValues(t, 0, h.Count(Black, SqE2, SqE4))

	h.Dec(White, SqE2, SqE4, 2)
	assert.EqualValues(t, 8, h.Count(White, SqE2, SqE4))

	// never drops below zero
	h.Dec(White, SqE2, SqE4, 10)
	assert.EqualValues(t, 0, h.Count(White, SqE2, SqE4))
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Inc(Black, SqG8, SqF6, 4)
	h.Clear()
	assert.EqualValues(t, 0, h.Count(Black, SqG8, SqF6))
}
