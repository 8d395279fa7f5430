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

// Package openingbook implements the opening book of the engine as
// a persistent key value store: position zobrist key to the moves
// played from this position in the book games. The store is backed
// by badger so a once imported book is available instantly on the
// next start.
//
// Book games are imported from a plain text format with one game per
// line, moves in UCI notation separated by whitespace.
package openingbook

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/op/go-logging"

	myLogging "github.com/mantis-chess/mantis/internal/logging"
	"github.com/mantis-chess/mantis/internal/movegen"
	"github.com/mantis-chess/mantis/internal/position"
	. "github.com/mantis-chess/mantis/internal/types"
)

// Book is the persistent opening book.
// Create instances with NewBook() and call Open before use.
type Book struct {
	log  *logging.Logger
	db   *badger.DB
	open bool
}

// bookEntry is the stored value per position: the moves played from
// this position with their frequency.
type bookEntry struct {
	Moves map[string]int `json:"moves"`
}

// NewBook creates a new unopened Book instance
func NewBook() *Book {
	return &Book{
		log: myLogging.GetLog(),
	}
}

// Open opens (or creates) the book database in the given directory.
func (b *Book) Open(dir string) error {
	if b.open {
		return nil
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return err
	}
	b.db = db
	b.open = true
	return nil
}

// Close closes the book database
func (b *Book) Close() error {
	if !b.open {
		return nil
	}
	b.open = false
	return b.db.Close()
}

// IsOpen returns true when the book database is usable
func (b *Book) IsOpen() bool {
	return b.open
}

// Len returns the number of positions stored in the book
func (b *Book) Len() int {
	if !b.open {
		return 0
	}
	count := 0
	_ = b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// Lookup returns the most frequent book move for the position key in
// UCI notation, or false when the position is not in the book.
func (b *Book) Lookup(key position.Key) (string, bool) {
	if !b.open {
		return "", false
	}
	var entry bookEntry
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyBytes(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil || len(entry.Moves) == 0 {
		return "", false
	}
	best := ""
	bestCount := -1
	for move, count := range entry.Moves {
		// tie break on the move string keeps the result stable
		if count > bestCount || (count == bestCount && move < best) {
			best = move
			bestCount = count
		}
	}
	return best, true
}

// put registers a move for a position key incrementing its counter
func (b *Book) put(txn *badger.Txn, key position.Key, uciMove string) error {
	entry := bookEntry{Moves: map[string]int{}}
	item, err := txn.Get(keyBytes(key))
	if err == nil {
		_ = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}
	if entry.Moves == nil {
		entry.Moves = map[string]int{}
	}
	entry.Moves[uciMove]++
	val, err := json.Marshal(&entry)
	if err != nil {
		return err
	}
	return txn.Set(keyBytes(key), val)
}

// BuildFromFile imports book games from the given text file. Each
// line holds the moves of one game in UCI notation; each game is
// replayed from the start position up to maxPlies plies and every
// (position, move) pair is stored. Returns the number of games
// imported.
func (b *Book) BuildFromFile(path string, maxPlies int) (int, error) {
	if !b.open {
		return 0, errors.New("book not open")
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	mg := movegen.NewMoveGen()
	games := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		moves := strings.Fields(line)
		p := position.NewPosition()
		err := b.db.Update(func(txn *badger.Txn) error {
			for i, uciMove := range moves {
				if i >= maxPlies {
					break
				}
				move := mg.GetMoveFromUci(p, uciMove)
				if move == MoveNone {
					// ignore the rest of the game on the first
					// unparsable or illegal move
					break
				}
				if err := b.put(txn, p.ZobristKey(), move.StringUci()); err != nil {
					return err
				}
				p.DoMove(move)
			}
			return nil
		})
		if err != nil {
			return games, err
		}
		games++
	}
	if err := scanner.Err(); err != nil {
		return games, err
	}
	b.log.Infof("Opening book: imported %d games from %s", games, path)
	return games, nil
}

func keyBytes(key position.Key) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(key))
	return buf[:]
}
