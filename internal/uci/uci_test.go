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

package uci

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantis-chess/mantis/internal/config"
	"github.com/mantis-chess/mantis/internal/movegen"
	"github.com/mantis-chess/mantis/internal/position"
	. "github.com/mantis-chess/mantis/internal/types"
)

func newTestHandler() *UciHandler {
	config.Settings.Search.UseBook = false
	config.Settings.Search.TTSize = 16
	return NewUciHandler()
}

func TestUciCommand(t *testing.T) {
	u := newTestHandler()
	response := u.Command("uci")
	assert.Contains(t, response, "id name Mantis")
	assert.Contains(t, response, "id author")
	assert.Contains(t, response, "option name Hash type spin")
	assert.Contains(t, response, "option name OwnBook type check default false")
	assert.Contains(t, response, "option name BookDepth type spin default 10")
	assert.Contains(t, response, "option name Clear Hash type button")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(response), "uciok"))
}

func TestIsReadyCommand(t *testing.T) {
	u := newTestHandler()
	response := u.Command("isready")
	assert.Contains(t, response, "readyok")
}

func TestUnknownCommandIsIgnored(t *testing.T) {
	u := newTestHandler()
	response := u.Command("gibberish")
	assert.NotContains(t, response, "bestmove")
	// the handler is still responsive
	assert.Contains(t, u.Command("isready"), "readyok")
}

func TestPositionCommandStartpos(t *testing.T) {
	u := newTestHandler()
	u.Command("position startpos")
	assert.Equal(t, position.StartFen, u.CurrentPosition().StringFen())
}

func TestPositionCommandWithMoves(t *testing.T) {
	u := newTestHandler()
	u.Command("position startpos moves e2e4 e7e5 g1f3")
	p := u.CurrentPosition()
	assert.Equal(t, WhitePawn, p.GetPiece(SqE4))
	assert.Equal(t, BlackPawn, p.GetPiece(SqE5))
	assert.Equal(t, WhiteKnight, p.GetPiece(SqF3))
	assert.Equal(t, Black, p.NextPlayer())
}

func TestPositionCommandFen(t *testing.T) {
	u := newTestHandler()
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	u.Command("position fen " + fen)
	assert.Equal(t, fen, u.CurrentPosition().StringFen())
}

func TestPositionCommandIllegalMoveKeepsPrefixState(t *testing.T) {
	u := newTestHandler()
	// e7e6 is illegal for white after e2e4 e7e5 - the sequence is
	// abandoned there and the state up to e7e5 retained
	response := u.Command("position startpos moves e2e4 e7e5 e7e6 g1f3")
	assert.Contains(t, response, "not legal")
	p := u.CurrentPosition()
	assert.Equal(t, WhitePawn, p.GetPiece(SqE4))
	assert.Equal(t, BlackPawn, p.GetPiece(SqE5))
	assert.Equal(t, PieceNone, p.GetPiece(SqF3))
	assert.Equal(t, White, p.NextPlayer())
}

func TestPositionCommandEnPassant(t *testing.T) {
	u := newTestHandler()
	u.Command("position fen rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3 moves e5d6")
	p := u.CurrentPosition()
	assert.Equal(t, WhitePawn, p.GetPiece(SqD6))
	assert.Equal(t, PieceNone, p.GetPiece(SqD5))
}

func TestSetOptionHashRejectsNonPowerOfTwo(t *testing.T) {
	u := newTestHandler()
	before := config.Settings.Search.TTSize
	response := u.Command("setoption name Hash value 100")
	assert.Contains(t, response, "rejected")
	assert.Equal(t, before, config.Settings.Search.TTSize)
}

func TestSetOptionHashAcceptsPowerOfTwo(t *testing.T) {
	u := newTestHandler()
	u.Command("setoption name Hash value 32")
	assert.Equal(t, 32, config.Settings.Search.TTSize)
	// restore the test default
	u.Command("setoption name Hash value 16")
	assert.Equal(t, 16, config.Settings.Search.TTSize)
}

func TestSetOptionUnknownName(t *testing.T) {
	u := newTestHandler()
	response := u.Command("setoption name NoSuchOption value 1")
	assert.Contains(t, response, "no such option")
}

func TestSetOptionBook(t *testing.T) {
	u := newTestHandler()
	u.Command("setoption name BookDepth value 14")
	assert.Equal(t, 14, config.Settings.Search.BookDepth)
	u.Command("setoption name BookDepth value 10")

	u.Command("setoption name OwnBook value true")
	assert.True(t, config.Settings.Search.UseBook)
	u.Command("setoption name OwnBook value false")
	assert.False(t, config.Settings.Search.UseBook)
}

func TestGoDepthProducesLegalBestMove(t *testing.T) {
	u := newTestHandler()
	u.Command("position startpos")
	u.Command("go depth 1")
	u.Search().WaitWhileSearching()

	result := u.Search().LastSearchResult()
	require.True(t, result.BestMove.IsValid())
	mg := movegen.NewMoveGen()
	legal := mg.GenerateLegalMoves(position.NewPosition(), movegen.GenAll)
	assert.True(t, legal.Contains(result.BestMove))
}

func TestGoOnStalematePosition(t *testing.T) {
	u := newTestHandler()
	u.Command("position fen 7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	u.Command("go depth 1")
	u.Search().WaitWhileSearching()

	result := u.Search().LastSearchResult()
	assert.Equal(t, MoveNone, result.BestMove)
	assert.Equal(t, "0000", result.BestMove.StringUci())
	assert.Equal(t, ValueDraw, result.BestValue)
}

func TestGoMalformed(t *testing.T) {
	u := newTestHandler()
	u.Command("position startpos")
	response := u.Command("go depth x")
	assert.Contains(t, response, "not a number")
	assert.False(t, u.Search().IsSearching())
}

func TestStopWithoutSearch(t *testing.T) {
	u := newTestHandler()
	// must not hang or crash
	u.Command("stop")
	assert.Contains(t, u.Command("isready"), "readyok")
}

func TestUciNewGameResets(t *testing.T) {
	u := newTestHandler()
	u.Command("position startpos moves e2e4")
	u.Command("ucinewgame")
	assert.Equal(t, position.StartFen, u.CurrentPosition().StringFen())
}

func TestBestMoveIsSentExactlyOnce(t *testing.T) {
	u := newTestHandler()
	u.Command("position startpos")
	u.Command("go depth 1")
	u.Search().WaitWhileSearching()
	// a second stop must not produce a second result
	assert.NotContains(t, u.Command("stop"), "bestmove")
	assert.True(t, u.Search().LastSearchResult().BestMove.IsValid())
}
