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

package transpositiontable

import (
	. "github.com/mantis-chess/mantis/internal/types"
)

// TtEntry is the data structure for one slot of the transposition
// table. 16 bytes per entry.
type TtEntry struct {
	key   uint64 // zobrist key of the stored position
	move  uint16 // move part of a Move - convert with Move(e.move)
	value int16  // search value (mate values ply-adjusted on store)
	depth int8   // remaining search depth of the stored result
	vtype int8   // bound type: EXACT, ALPHA (upper) or BETA (lower)
	age   uint8  // generations since the entry was written
	_     uint8  // padding
}

// TtEntrySize is the size in bytes of one TtEntry
const TtEntrySize = 16

// Key returns the zobrist key of the entry
func (e *TtEntry) Key() uint64 {
	return e.key
}

// Move returns the stored best move (without sort value)
func (e *TtEntry) Move() Move {
	return Move(e.move)
}

// Value returns the stored search value
func (e *TtEntry) Value() Value {
	return Value(e.value)
}

// Depth returns the remaining depth the value was searched with
func (e *TtEntry) Depth() int {
	return int(e.depth)
}

// Vtype returns the bound type of the stored value
func (e *TtEntry) Vtype() ValueType {
	return ValueType(e.vtype)
}

// Age returns the age of the entry - 0 means written or refreshed
// during the current search generation.
func (e *TtEntry) Age() int {
	return int(e.age)
}
