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

// Package moveslice provides a pre-sized slice type for chess moves
// with the small helpers the move generator and search need.
package moveslice

import (
	"fmt"
	"strings"

	. "github.com/mantis-chess/mantis/internal/types"
)

// MoveSlice represents a slice of moves
type MoveSlice []Move

// NewMoveSlice creates a new move slice with the given capacity and
// zero elements.
func NewMoveSlice(cap int) *MoveSlice {
	moves := make([]Move, 0, cap)
	return (*MoveSlice)(&moves)
}

// Len returns the number of moves currently stored in the slice
func (ms *MoveSlice) Len() int {
	return len(*ms)
}

// Cap returns the capacity of the slice
func (ms *MoveSlice) Cap() int {
	return cap(*ms)
}

// PushBack appends a move at the end of the slice
func (ms *MoveSlice) PushBack(m Move) {
	*ms = append(*ms, m)
}

// PopBack removes and returns the move from the back of the slice.
// Panics when called on an empty slice.
func (ms *MoveSlice) PopBack() Move {
	if len(*ms) == 0 {
		panic("MoveSlice: PopBack() called on empty slice")
	}
	back := (*ms)[len(*ms)-1]
	*ms = (*ms)[:len(*ms)-1]
	return back
}

// At returns the move at index i without removing it
func (ms *MoveSlice) At(i int) Move {
	return (*ms)[i]
}

// Set puts a move at index i
func (ms *MoveSlice) Set(i int, move Move) {
	(*ms)[i] = move
}

// Clear removes all moves from the slice retaining the capacity.
// Avoids re-allocation when the slice is reused at high frequency.
func (ms *MoveSlice) Clear() {
	*ms = (*ms)[:0]
}

// Clone copies the MoveSlice into a newly created MoveSlice
func (ms *MoveSlice) Clone() *MoveSlice {
	dest := make([]Move, ms.Len(), ms.Cap())
	copy(dest, *ms)
	return (*MoveSlice)(&dest)
}

// Equals returns true if both slices hold the same moves in the
// same order.
func (ms *MoveSlice) Equals(other *MoveSlice) bool {
	if ms.Len() != other.Len() {
		return false
	}
	for i, m := range *ms {
		if m != (*other)[i] {
			return false
		}
	}
	return true
}

// Contains reports whether the slice holds the given move ignoring
// sort values.
func (ms *MoveSlice) Contains(move Move) bool {
	m16 := move.MoveOf()
	for _, m := range *ms {
		if m.MoveOf() == m16 {
			return true
		}
	}
	return false
}

// Sort sorts the moves from the highest to the lowest sort value.
// Uses a stable insertion sort as move lists are small and mostly
// pre-sorted; only the encoded sort value is compared.
func (ms *MoveSlice) Sort() {
	l := len(*ms)
	for i := 1; i < l; i++ {
		tmp := (*ms)[i]
		j := i
		for j > 0 && (tmp&0xFFFF0000) > ((*ms)[j-1]&0xFFFF0000) {
			(*ms)[j] = (*ms)[j-1]
			j--
		}
		(*ms)[j] = tmp
	}
}

// String returns a debug representation of the move list
func (ms *MoveSlice) String() string {
	var os strings.Builder
	os.WriteString(fmt.Sprintf("MoveList: [%d] { ", len(*ms)))
	for i, m := range *ms {
		if i > 0 {
			os.WriteString(", ")
		}
		os.WriteString(m.String())
	}
	os.WriteString(" }")
	return os.String()
}

// StringUci returns a space separated list of all moves in UCI
// notation - the format used in pv output.
func (ms *MoveSlice) StringUci() string {
	var os strings.Builder
	for i, m := range *ms {
		if i > 0 {
			os.WriteString(" ")
		}
		os.WriteString(m.StringUci())
	}
	return os.String()
}
