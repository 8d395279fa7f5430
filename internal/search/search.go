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

// Package search implements the search driver of the engine:
// iterative deepening over a negamax alpha-beta search with
// quiescence, transposition table, move ordering heuristics and a
// soft/hard time manager. The search runs in its own goroutine; the
// caller controls it through StartSearch/StopSearch and receives
// results via the uciInterface callback.
package search

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mantis-chess/mantis/internal/config"
	"github.com/mantis-chess/mantis/internal/evaluator"
	"github.com/mantis-chess/mantis/internal/history"
	myLogging "github.com/mantis-chess/mantis/internal/logging"
	"github.com/mantis-chess/mantis/internal/movegen"
	"github.com/mantis-chess/mantis/internal/moveslice"
	"github.com/mantis-chess/mantis/internal/openingbook"
	"github.com/mantis-chess/mantis/internal/position"
	"github.com/mantis-chess/mantis/internal/transpositiontable"
	. "github.com/mantis-chess/mantis/internal/types"
	"github.com/mantis-chess/mantis/internal/uciInterface"
	"github.com/mantis-chess/mantis/internal/util"
)

var out = message.NewPrinter(language.English)

// Search holds the state of the search.
// Create instances with NewSearch().
type Search struct {
	log  *logging.Logger
	slog *logging.Logger

	uciHandlerPtr uciInterface.UciDriver
	initSemaphore *semaphore.Weighted
	isRunning     *semaphore.Weighted

	book *openingbook.Book
	tt   *transpositiontable.TtTable
	eval *evaluator.Evaluator

	// history heuristic shared over all plies
	history *history.History

	// previous search
	lastSearchResult *Result
	hasResult        bool

	// current search state
	stopFlag          atomic.Bool
	startTime         time.Time
	currentPosition   *position.Position
	searchLimits      *Limits
	softTimeLimit     time.Duration
	hardTimeLimit     time.Duration
	nodesVisited      uint64
	mg                []*movegen.Movegen
	pv                []*moveslice.MoveSlice
	rootMoves         *moveslice.MoveSlice
	hadBookMove       bool
	lastUciUpdateTime time.Time
	statistics        Statistics
}

// NewSearch creates a new Search instance. When no uci handler is
// set all output goes to the logs only.
func NewSearch() *Search {
	return &Search{
		log:           myLogging.GetLog(),
		slog:          myLogging.GetSearchLog(),
		initSemaphore: semaphore.NewWeighted(1),
		isRunning:     semaphore.NewWeighted(1),
		eval:          evaluator.NewEvaluator(),
		history:       history.NewHistory(),
	}
}

// NewGame stops a running search and resets all state kept across
// searches (transposition table, history counters).
func (s *Search) NewGame() {
	s.StopSearch()
	if s.tt != nil {
		s.tt.Clear()
	}
	s.history.Clear()
	s.hasResult = false
}

// StartSearch starts the search on the given position with the
// given limits in a separate goroutine. Returns as soon as the
// search is initialized; stop with StopSearch.
// Position and limits are taken by value.
func (s *Search) StartSearch(p position.Position, sl Limits) {
	_ = s.initSemaphore.Acquire(context.TODO(), 1)
	s.currentPosition = &p
	s.searchLimits = &sl
	go s.run(&p, &sl)
	// wait until the search goroutine finished initializing
	_ = s.initSemaphore.Acquire(context.TODO(), 1)
	s.initSemaphore.Release(1)
}

// StopSearch stops a running search as soon as possible. The search
// sends its result (best so far) before returning. Blocks until the
// search goroutine has finished.
func (s *Search) StopSearch() {
	s.stopFlag.Store(true)
	s.WaitWhileSearching()
}

// IsSearching checks if the search is currently running
func (s *Search) IsSearching() bool {
	if !s.isRunning.TryAcquire(1) {
		return true
	}
	s.isRunning.Release(1)
	return false
}

// WaitWhileSearching blocks until a running search has stopped
func (s *Search) WaitWhileSearching() {
	_ = s.isRunning.Acquire(context.TODO(), 1)
	s.isRunning.Release(1)
}

// SetUciHandler sets the UCI handler used to communicate with the
// UCI user interface.
func (s *Search) SetUciHandler(uciHandler uciInterface.UciDriver) {
	s.uciHandlerPtr = uciHandler
}

// IsReady initializes the search (book, transposition table) and
// signals readyok to the uci handler. Part of the UCI handshake.
func (s *Search) IsReady() {
	s.initialize()
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendReadyOk()
	} else {
		s.log.Debug("uci >> readyok")
	}
}

// ClearHash clears the transposition table. Rejected with a warning
// while a search is running.
func (s *Search) ClearHash() {
	if s.IsSearching() {
		msg := "Can't clear hash while searching."
		s.sendInfoStringToUci(msg)
		s.log.Warning(msg)
		return
	}
	if s.tt != nil {
		s.tt.Clear()
		s.sendInfoStringToUci("Hash cleared")
	}
}

// ResizeCache resizes and clears the transposition table. Rejected
// with a warning while a search is running.
func (s *Search) ResizeCache() {
	if s.IsSearching() {
		msg := "Can't resize hash while searching."
		s.sendInfoStringToUci(msg)
		s.log.Warning(msg)
		return
	}
	s.tt = nil
	s.initialize()
	if s.tt != nil {
		s.sendInfoStringToUci(out.Sprintf("Hash resized to %d MB", s.tt.SizeInMB()))
	}
}

// LastSearchResult returns a copy of the last search result
func (s *Search) LastSearchResult() Result {
	if s.lastSearchResult == nil {
		return Result{}
	}
	return *s.lastSearchResult
}

// HasResult returns true when a search has produced a result since
// the last NewGame.
func (s *Search) HasResult() bool {
	return s.hasResult
}

// NodesVisited returns the number of nodes visited in the last search
func (s *Search) NodesVisited() uint64 {
	return s.nodesVisited
}

// Statistics returns a pointer to the statistics of the last search
func (s *Search) Statistics() *Statistics {
	return &s.statistics
}

// //////////////////////////////////////////////////////
// Private
// //////////////////////////////////////////////////////

// run is the entry point of the search goroutine
func (s *Search) run(p *position.Position, sl *Limits) {
	if !s.isRunning.TryAcquire(1) {
		s.log.Error("Search already running")
		s.initSemaphore.Release(1)
		return
	}
	defer s.isRunning.Release(1)

	s.startTime = time.Now()
	s.stopFlag.Store(false)
	s.hasResult = false
	s.softTimeLimit = 0
	s.hardTimeLimit = 0
	s.nodesVisited = 0
	s.statistics = Statistics{}
	s.lastUciUpdateTime = s.startTime
	s.initialize()

	s.log.Infof("Searching: %s", p.StringFen())

	// guard against engine bugs - a corrupted position would make
	// every search result meaningless
	if err := p.Validate(); err != nil {
		s.log.Criticalf("Position invariant violated: %s", err)
		s.sendInfoStringToUci(out.Sprintf("invariant violation: %s", err))
		s.initSemaphore.Release(1)
		s.sendResult(&Result{BestMove: MoveNone})
		return
	}

	s.setupTimeControl(p, sl)
	if sl.TimeControl {
		s.startTimer()
	}

	// opening book probe - only in the opening phase (full move
	// number up to the book depth) and only when enabled
	bookMove := MoveNone
	if s.book != nil && s.book.IsOpen() && config.Settings.Search.UseBook &&
		p.FullMoveNumber() <= config.Settings.Search.BookDepth {
		if uciMove, found := s.book.Lookup(p.ZobristKey()); found {
			mg := movegen.NewMoveGen()
			bookMove = mg.GetMoveFromUci(p, uciMove)
			if bookMove != MoveNone {
				s.statistics.BookMoves++
				s.log.Debugf("Opening book: playing book move %s", bookMove.StringUci())
			}
		}
	}

	// age TT entries once per search
	if s.tt != nil {
		s.tt.AgeEntries()
	}

	// ply based data
	s.mg = make([]*movegen.Movegen, 0, MaxPly+1)
	s.pv = make([]*moveslice.MoveSlice, 0, MaxPly+1)
	for i := 0; i <= MaxPly; i++ {
		mg := movegen.NewMoveGen()
		if config.Settings.Search.UseHistory {
			mg.SetHistoryData(s.history)
		}
		s.mg = append(s.mg, mg)
		s.pv = append(s.pv, moveslice.NewMoveSlice(MaxPly+1))
	}

	// signal StartSearch that initialization is done
	s.initSemaphore.Release(1)

	var searchResult *Result
	if bookMove == MoveNone {
		searchResult = s.iterativeDeepening(p)
		s.hadBookMove = false
	} else {
		searchResult = &Result{BestMove: bookMove, BookMove: true}
		s.hadBookMove = true
	}

	// in infinite mode we hold the result until a stop arrives
	if s.searchLimits.Infinite && !s.stopFlag.Load() {
		for !s.stopFlag.Load() {
			time.Sleep(5 * time.Millisecond)
		}
	}

	searchResult.SearchTime = time.Since(s.startTime)
	if len(s.pv) > 0 {
		searchResult.Pv = *s.pv[0].Clone()
	}

	s.log.Info(out.Sprintf("Search finished after %s with depth %d(%d), %d nodes (%d nps)",
		searchResult.SearchTime, s.statistics.CurrentSearchDepth, s.statistics.CurrentExtraSearchDepth,
		s.nodesVisited, util.Nps(s.nodesVisited, searchResult.SearchTime)))
	s.slog.Debugf("Search stats: %s", s.statistics.String())

	s.lastSearchResult = searchResult
	s.hasResult = true
	s.stopFlag.Store(true)

	s.sendResult(searchResult)
}

// iterativeDeepening searches the position with increasing depth
// until a limit stops it. Root moves are re-sorted between the
// iterations so the best move of the last iteration is searched
// first in the next one.
func (s *Search) iterativeDeepening(p *position.Position) *Result {
	// draw by repetition or 50-move rule already on the board - a
	// side to move which is mated is not saved by the 50-move rule
	if p.CheckRepetitions(2) ||
		(p.HalfMoveClock() >= 100 && !(p.HasCheck() && !s.mg[0].HasLegalMove(p))) {
		msg := "Search called on a position which is a draw by repetition or the 50-move rule"
		s.sendInfoStringToUci(msg)
		s.log.Warning(msg)
		return &Result{BestMove: MoveNone, BestValue: ValueDraw}
	}

	s.rootMoves = s.mg[0].GenerateLegalMoves(p, movegen.GenAll).Clone()

	// no legal moves - mate or stalemate
	if s.rootMoves.Len() == 0 {
		result := &Result{BestMove: MoveNone}
		if p.HasCheck() {
			s.statistics.Checkmates++
			result.BestValue = -ValueCheckMate
		} else {
			s.statistics.Stalemates++
			result.BestValue = ValueDraw
		}
		return result
	}

	maxDepth := MaxPly - 1
	if s.searchLimits.Depth > 0 && s.searchLimits.Depth < maxDepth {
		maxDepth = s.searchLimits.Depth
	}

	bestValue := ValueNA

	for iterationDepth := 1; iterationDepth <= maxDepth; iterationDepth++ {
		s.statistics.CurrentIterationDepth = iterationDepth
		s.statistics.CurrentSearchDepth = iterationDepth
		if s.statistics.CurrentExtraSearchDepth < iterationDepth {
			s.statistics.CurrentExtraSearchDepth = iterationDepth
		}

		value := s.rootSearch(p, iterationDepth)

		// a partial iteration only counts when its root best move
		// was searched completely - rootSearch guarantees this by
		// only updating pv[0] after a full move search
		if !s.stopFlag.Load() && value != ValueNA {
			bestValue = value
		}

		if s.stopConditions() {
			break
		}

		// sort root moves for the next iteration
		s.rootMoves.Sort()
		s.statistics.CurrentBestRootMove = s.pv[0].At(0).MoveOf()
		s.statistics.CurrentBestRootValue = bestValue
		s.sendIterationEndInfoToUci()

		// with only one reply there is nothing to ponder about
		if s.rootMoves.Len() == 1 && s.searchLimits.TimeControl {
			break
		}

		// mate found in a "go mate" search - stop deepening; other
		// searches continue to their limits
		if bestValue.IsCheckMateValue() && s.searchLimits.Mate > 0 {
			break
		}
	}

	result := &Result{
		BestMove:    s.pv[0].At(0).MoveOf(),
		BestValue:   bestValue,
		PonderMove:  MoveNone,
		SearchDepth: s.statistics.CurrentSearchDepth,
		ExtraDepth:  s.statistics.CurrentExtraSearchDepth,
	}
	if s.pv[0].Len() > 1 {
		result.PonderMove = s.pv[0].At(1).MoveOf()
	}
	return result
}

// initialize sets up opening book and transposition table. Can be
// called repeatedly - only missing parts are created.
func (s *Search) initialize() {
	if config.Settings.Search.UseBook && s.book == nil {
		s.book = openingbook.NewBook()
		if err := s.book.Open(config.Settings.Search.BookPath); err != nil {
			s.log.Warningf("Opening book could not be opened: %s (%s)", config.Settings.Search.BookPath, err)
			s.book = nil
		}
	}
	if config.Settings.Search.UseTT {
		if s.tt == nil {
			sizeInMByte := config.Settings.Search.TTSize
			if sizeInMByte == 0 {
				sizeInMByte = 64
			}
			s.tt = transpositiontable.NewTtTable(sizeInMByte)
		}
	} else {
		s.tt = nil
	}
}

// stopConditions checks the stop flag and the node limit
func (s *Search) stopConditions() bool {
	if s.stopFlag.Load() {
		return true
	}
	if s.searchLimits.Nodes > 0 && s.nodesVisited >= s.searchLimits.Nodes {
		s.stopFlag.Store(true)
	}
	return s.stopFlag.Load()
}

// checkTime is called at a low frequency from the search (every
// 4096 nodes) and stops the search when the hard time budget is
// exhausted.
func (s *Search) checkTime() {
	if s.searchLimits.TimeControl && s.hardTimeLimit > 0 &&
		time.Since(s.startTime) >= s.hardTimeLimit {
		s.stopFlag.Store(true)
	}
}

// setupTimeControl computes the soft and hard time budget for the
// move from the remaining time, the increment and the estimated
// number of moves to go.
func (s *Search) setupTimeControl(p *position.Position, sl *Limits) {
	if !sl.TimeControl {
		return
	}
	if sl.MoveTime > 0 {
		// leave a little room for protocol overhead
		soft := sl.MoveTime - 20*time.Millisecond
		if soft < 0 {
			soft = sl.MoveTime
		}
		s.softTimeLimit = soft
		s.hardTimeLimit = soft
		return
	}

	movesToGo := int64(sl.MovesToGo)
	if movesToGo == 0 {
		// estimate 15 remaining moves in the endgame growing up to
		// 40 in the opening
		movesToGo = int64(15 + 25*p.GamePhaseFactor())
	}
	var timeLeft, inc time.Duration
	switch p.NextPlayer() {
	case White:
		timeLeft, inc = sl.WhiteTime, sl.WhiteInc
	case Black:
		timeLeft, inc = sl.BlackTime, sl.BlackInc
	}
	timeLeft += time.Duration(movesToGo * inc.Nanoseconds())

	soft := time.Duration(timeLeft.Nanoseconds() / movesToGo)
	// reserve a safety margin for our own overhead
	if soft.Milliseconds() < 100 {
		soft = time.Duration(int64(0.8 * float64(soft.Nanoseconds())))
	} else {
		soft = time.Duration(int64(0.9 * float64(soft.Nanoseconds())))
	}
	s.softTimeLimit = soft

	// the hard budget allows finishing a promising iteration but
	// never burns more than a fixed multiple of the soft budget or
	// half the remaining time
	hard := 3 * soft
	if limit := timeLeft / 2; hard > limit {
		hard = limit
	}
	s.hardTimeLimit = hard

	s.log.Debug(out.Sprintf("Time control: soft %s hard %s (time left %s, moves to go %d)",
		s.softTimeLimit, s.hardTimeLimit, timeLeft, movesToGo))
}

// startTimer starts a goroutine which stops the search when the soft
// time budget is reached.
func (s *Search) startTimer() {
	go func() {
		timerStart := time.Now()
		for time.Since(timerStart) < s.softTimeLimit && !s.stopFlag.Load() {
			time.Sleep(5 * time.Millisecond)
		}
		if !s.stopFlag.Load() {
			s.log.Debugf("Soft time limit reached after %s", time.Since(timerStart))
			s.stopFlag.Store(true)
		}
	}()
}

// sendResult sends the search result to the uci handler
func (s *Search) sendResult(searchResult *Result) {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendResult(searchResult.BestMove, searchResult.PonderMove)
	}
}

func (s *Search) sendInfoStringToUci(msg string) {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendInfoString(msg)
	}
}

// sendSearchUpdateToUci sends a periodic info line (about once per
// second)
func (s *Search) sendSearchUpdateToUci() {
	if time.Since(s.lastUciUpdateTime) <= time.Second {
		return
	}
	s.lastUciUpdateTime = time.Now()
	hashfull := 0
	if s.tt != nil {
		hashfull = s.tt.Hashfull()
	}
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendSearchUpdate(
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime),
			hashfull)
	}
}

// sendIterationEndInfoToUci sends the info line after each finished
// iteration
func (s *Search) sendIterationEndInfoToUci() {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendIterationEndInfo(
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.statistics.CurrentBestRootValue,
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime),
			*s.pv[0])
	} else {
		s.slog.Info(out.Sprintf("depth %d seldepth %d score %s nodes %d nps %d time %d pv %s",
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.statistics.CurrentBestRootValue.String(),
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime).Milliseconds(),
			s.pv[0].StringUci()))
	}
}

// getNps returns the current nodes per second, zeroed for
// unrealistically small time spans.
func (s *Search) getNps() uint64 {
	nps := util.Nps(s.nodesVisited, time.Since(s.startTime)+100)
	if nps > 100_000_000 {
		nps = 0
	}
	return nps
}
