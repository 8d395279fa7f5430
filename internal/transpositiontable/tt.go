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

// Package transpositiontable implements the shared hash-keyed cache
// of search results. The table is a flat slice of fixed-size entries
// with a power-of-two length so the zobrist key can be mapped to an
// index with a simple mask. Not thread safe - the single search
// thread is the only writer.
package transpositiontable

import (
	"math"
	"sync"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	myLogging "github.com/mantis-chess/mantis/internal/logging"
	"github.com/mantis-chess/mantis/internal/position"
	. "github.com/mantis-chess/mantis/internal/types"
)

var out = message.NewPrinter(language.English)

const (
	// MaxSizeInMB maximal memory usage of the table
	MaxSizeInMB = 4_096
	// maxAge caps the age counter of entries
	maxAge = 7
)

// TtTable is the transposition table.
// Create instances with NewTtTable().
type TtTable struct {
	log                *logging.Logger
	data               []TtEntry
	sizeInByte         uint64
	hashKeyMask        uint64
	maxNumberOfEntries uint64
	numberOfEntries    uint64

	// statistics
	numberOfPuts       uint64
	numberOfCollisions uint64
	numberOfOverwrites uint64
	numberOfUpdates    uint64
	numberOfProbes     uint64
	numberOfHits       uint64
	numberOfMisses     uint64
}

// NewTtTable creates a new transposition table with the given size
// in megabytes. The number of entries is rounded down to a power of
// two.
func NewTtTable(sizeInMByte int) *TtTable {
	tt := &TtTable{
		log: myLogging.GetLog(),
	}
	tt.Resize(sizeInMByte)
	return tt
}

// Resize resizes the table and clears all entries. Must not be
// called while a search is running.
func (tt *TtTable) Resize(sizeInMByte int) {
	if sizeInMByte > MaxSizeInMB {
		tt.log.Error(out.Sprintf("Requested TT size of %d MB reduced to max of %d MB", sizeInMByte, MaxSizeInMB))
		sizeInMByte = MaxSizeInMB
	}
	tt.sizeInByte = uint64(sizeInMByte) * MB
	if tt.sizeInByte == 0 {
		tt.maxNumberOfEntries = 0
		tt.hashKeyMask = 0
	} else {
		tt.maxNumberOfEntries = 1 << uint64(math.Floor(math.Log2(float64(tt.sizeInByte/TtEntrySize))))
		tt.hashKeyMask = tt.maxNumberOfEntries - 1
	}
	tt.sizeInByte = tt.maxNumberOfEntries * TtEntrySize
	tt.data = make([]TtEntry, tt.maxNumberOfEntries)
	tt.numberOfEntries = 0
	tt.log.Info(out.Sprintf("TT size %d MB - capacity %d entries of %d bytes",
		tt.sizeInByte/MB, tt.maxNumberOfEntries, TtEntrySize))
}

// Probe returns a pointer to the entry for the given key or nil when
// the slot holds a different position. A hit refreshes the entry's
// age.
func (tt *TtTable) Probe(key position.Key) *TtEntry {
	if tt.maxNumberOfEntries == 0 {
		return nil
	}
	tt.numberOfProbes++
	e := &tt.data[uint64(key)&tt.hashKeyMask]
	if e.key == uint64(key) {
		e.age = 0
		tt.numberOfHits++
		return e
	}
	tt.numberOfMisses++
	return nil
}

// GetEntry returns the entry for the key without changing statistics
// or ages. Used to walk the pv chain.
func (tt *TtTable) GetEntry(key position.Key) *TtEntry {
	if tt.maxNumberOfEntries == 0 {
		return nil
	}
	e := &tt.data[uint64(key)&tt.hashKeyMask]
	if e.key == uint64(key) {
		return e
	}
	return nil
}

// Put stores a search result. Replacement policy: empty slots are
// always filled; a different position in the slot is overwritten
// when it is from an older generation or not deeper; the same
// position is always updated (preserving an existing move when the
// new one is empty).
func (tt *TtTable) Put(key position.Key, move Move, depth int, value Value, valueType ValueType) {
	if tt.maxNumberOfEntries == 0 {
		return
	}
	tt.numberOfPuts++
	e := &tt.data[uint64(key)&tt.hashKeyMask]

	switch {
	case e.key == 0: // empty slot
		tt.numberOfEntries++
		tt.writeEntry(e, key, move, depth, value, valueType)

	case e.key != uint64(key): // collision - different position
		tt.numberOfCollisions++
		// never overwrite a deeper entry from the current
		// generation with a shallower one
		if e.age > 0 || depth >= int(e.depth) {
			tt.numberOfOverwrites++
			tt.writeEntry(e, key, move, depth, value, valueType)
		}

	default: // same position - update
		tt.numberOfUpdates++
		if move == MoveNone {
			move = Move(e.move)
		}
		tt.writeEntry(e, key, move, depth, value, valueType)
	}
}

func (tt *TtTable) writeEntry(e *TtEntry, key position.Key, move Move, depth int, value Value, valueType ValueType) {
	e.key = uint64(key)
	e.move = uint16(move.MoveOf())
	e.value = int16(value)
	e.depth = int8(depth)
	e.vtype = int8(valueType)
	e.age = 0
}

// Clear removes all entries and resets the statistics
func (tt *TtTable) Clear() {
	tt.data = make([]TtEntry, tt.maxNumberOfEntries)
	tt.numberOfEntries = 0
	tt.numberOfPuts = 0
	tt.numberOfCollisions = 0
	tt.numberOfOverwrites = 0
	tt.numberOfUpdates = 0
	tt.numberOfProbes = 0
	tt.numberOfHits = 0
	tt.numberOfMisses = 0
}

// AgeEntries increments the age of all used entries. Called once at
// every search start so entries from earlier searches are preferred
// for replacement. Work is spread over several goroutines as the
// table can be large.
func (tt *TtTable) AgeEntries() {
	if tt.numberOfEntries == 0 {
		return
	}
	numWorkers := uint64(8)
	var wg sync.WaitGroup
	wg.Add(int(numWorkers))
	slice := tt.maxNumberOfEntries / numWorkers
	for w := uint64(0); w < numWorkers; w++ {
		go func(w uint64) {
			defer wg.Done()
			start := w * slice
			end := start + slice
			if w == numWorkers-1 {
				end = tt.maxNumberOfEntries
			}
			for i := start; i < end; i++ {
				if tt.data[i].key != 0 && tt.data[i].age < maxAge {
					tt.data[i].age++
				}
			}
		}(w)
	}
	wg.Wait()
}

// Hashfull returns how full the table is in permill as required by
// the UCI protocol.
func (tt *TtTable) Hashfull() int {
	if tt.maxNumberOfEntries == 0 {
		return 0
	}
	return int((1000 * tt.numberOfEntries) / tt.maxNumberOfEntries)
}

// Len returns the number of used entries
func (tt *TtTable) Len() uint64 {
	return tt.numberOfEntries
}

// SizeInMB returns the current size of the table in megabytes
func (tt *TtTable) SizeInMB() int {
	return int(tt.sizeInByte / MB)
}

// String returns a string with size and usage statistics
func (tt *TtTable) String() string {
	return out.Sprintf("TT: size %d MB entries %d/%d puts %d updates %d collisions %d overwrites %d "+
		"probes %d hits %d misses %d",
		tt.sizeInByte/MB, tt.numberOfEntries, tt.maxNumberOfEntries,
		tt.numberOfPuts, tt.numberOfUpdates, tt.numberOfCollisions, tt.numberOfOverwrites,
		tt.numberOfProbes, tt.numberOfHits, tt.numberOfMisses)
}
