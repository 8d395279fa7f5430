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

// Package uci implements the UCI protocol handler: a stateless
// translator between the line based protocol spoken by chess user
// interfaces and the engine's position, search and perft components.
package uci

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	myLogging "github.com/mantis-chess/mantis/internal/logging"
	"github.com/mantis-chess/mantis/internal/movegen"
	"github.com/mantis-chess/mantis/internal/moveslice"
	"github.com/mantis-chess/mantis/internal/position"
	"github.com/mantis-chess/mantis/internal/search"
	. "github.com/mantis-chess/mantis/internal/types"
	"github.com/mantis-chess/mantis/internal/uciInterface"
	"github.com/mantis-chess/mantis/internal/version"
)

var out = message.NewPrinter(language.English)
var log *logging.Logger

// UciHandler handles all communication with the chess user
// interface via UCI and controls options, search and perft.
// Create instances with NewUciHandler().
type UciHandler struct {
	InIo       *bufio.Scanner
	OutIo      *bufio.Writer
	myMoveGen  *movegen.Movegen
	mySearch   *search.Search
	myPosition *position.Position
	myPerft    *movegen.Perft
	uciLog     *logging.Logger
}

// NewUciHandler creates a new UciHandler instance reading from
// stdin and writing to stdout. The io members can be replaced for
// testing.
func NewUciHandler() *UciHandler {
	if log == nil {
		log = myLogging.GetLog()
	}
	u := &UciHandler{
		InIo:       bufio.NewScanner(os.Stdin),
		OutIo:      bufio.NewWriter(os.Stdout),
		myMoveGen:  movegen.NewMoveGen(),
		mySearch:   search.NewSearch(),
		myPosition: position.NewPosition(),
		myPerft:    movegen.NewPerft(),
		uciLog:     myLogging.GetUciLog(),
	}
	var uciDriver uciInterface.UciDriver = u
	u.mySearch.SetUciHandler(uciDriver)
	return u
}

// Loop runs the protocol main loop until "quit" is received or the
// input stream closes.
func (u *UciHandler) Loop() {
	for u.InIo.Scan() {
		if u.handleReceivedCommand(u.InIo.Text()) {
			break
		}
	}
	// make sure a running search is terminated before exiting
	u.mySearch.StopSearch()
}

// Command handles a single UCI command line and returns the
// response output as a string. Used for unit testing.
func (u *UciHandler) Command(cmd string) string {
	tmp := u.OutIo
	buffer := new(bytes.Buffer)
	u.OutIo = bufio.NewWriter(buffer)
	u.handleReceivedCommand(cmd)
	_ = u.OutIo.Flush()
	u.OutIo = tmp
	return buffer.String()
}

// CurrentPosition returns the handler's current position - mostly
// for tests.
func (u *UciHandler) CurrentPosition() *position.Position {
	return u.myPosition
}

// Search returns the handler's search instance - mostly for tests.
func (u *UciHandler) Search() *search.Search {
	return u.mySearch
}

// ///////////////////////////////////////////////////////////
// uciInterface.UciDriver implementation
// ///////////////////////////////////////////////////////////

// SendReadyOk sends "readyok" to the user interface
func (u *UciHandler) SendReadyOk() {
	u.send("readyok")
}

// SendInfoString sends an arbitrary info string to the user
// interface.
func (u *UciHandler) SendInfoString(info string) {
	u.send(out.Sprintf("info string %s", info))
}

// SendIterationEndInfo sends the search information after a depth
// iteration has finished.
func (u *UciHandler) SendIterationEndInfo(depth int, seldepth int, value Value, nodes uint64,
	nps uint64, t time.Duration, pv moveslice.MoveSlice) {
	u.send(fmt.Sprintf("info depth %d seldepth %d score %s nodes %d nps %d time %d pv %s",
		depth, seldepth, value.String(), nodes, nps, t.Milliseconds(), pv.StringUci()))
}

// SendSearchUpdate sends a periodic update about the search
func (u *UciHandler) SendSearchUpdate(depth int, seldepth int, nodes uint64, nps uint64,
	t time.Duration, hashfull int) {
	u.send(fmt.Sprintf("info depth %d seldepth %d nodes %d nps %d time %d hashfull %d",
		depth, seldepth, nodes, nps, t.Milliseconds(), hashfull))
}

// SendResult sends the best move (and ponder move if available)
// after the search has ended.
func (u *UciHandler) SendResult(bestMove Move, ponderMove Move) {
	var resultStr strings.Builder
	resultStr.WriteString("bestmove ")
	resultStr.WriteString(bestMove.StringUci())
	if ponderMove != MoveNone {
		resultStr.WriteString(" ponder ")
		resultStr.WriteString(ponderMove.StringUci())
	}
	u.send(resultStr.String())
}

// ///////////////////////////////////////////////////////////
// Private
// ///////////////////////////////////////////////////////////

var regexWhiteSpace = regexp.MustCompile(`\s+`)

// handleReceivedCommand dispatches one command line. Returns true
// when the engine shall quit.
func (u *UciHandler) handleReceivedCommand(cmd string) bool {
	cmd = strings.TrimSpace(cmd)
	if len(cmd) == 0 {
		return false
	}
	u.uciLog.Infof("<< %s", cmd)
	tokens := regexWhiteSpace.Split(cmd, -1)
	switch tokens[0] {
	case "quit":
		return true
	case "uci":
		u.uciCommand()
	case "setoption":
		u.setOptionCommand(tokens)
	case "isready":
		u.isReadyCommand()
	case "ucinewgame":
		u.uciNewGameCommand()
	case "position":
		u.positionCommand(tokens)
	case "go":
		u.goCommand(tokens)
	case "stop":
		u.stopCommand()
	case "ponderhit":
		// pondering is not supported - acknowledged and ignored
		log.Debug("ponderhit received - pondering not supported")
	case "perft":
		u.perftCommand(tokens)
	default:
		log.Warningf("Unknown command: %s", cmd)
	}
	return false
}

// uciCommand answers the "uci" handshake with id, options and uciok
func (u *UciHandler) uciCommand() {
	u.send("id name Mantis " + version.Version())
	u.send("id author The Mantis authors")
	for _, o := range uciOptions.GetOptions() {
		u.send(o)
	}
	u.send("uciok")
}

// setOptionCommand reads the option name and value and calls the
// option's handler. Unknown options or invalid values are rejected
// with a message; the prior value is retained.
func (u *UciHandler) setOptionCommand(tokens []string) {
	name := ""
	value := ""
	if len(tokens) > 1 && tokens[1] == "name" {
		i := 2
		for i < len(tokens) && tokens[i] != "value" {
			name += tokens[i] + " "
			i++
		}
		name = strings.TrimSpace(name)
		if i < len(tokens) && tokens[i] == "value" && i+1 < len(tokens) {
			value = tokens[i+1]
		}
	} else {
		msg := "Command 'setoption' is malformed"
		u.SendInfoString(msg)
		log.Warning(msg)
		return
	}
	o, found := uciOptions[name]
	if !found {
		msg := out.Sprintf("Command 'setoption': no such option '%s'", name)
		u.SendInfoString(msg)
		log.Warning(msg)
		return
	}
	if err := o.HandlerFunc(u, o, value); err != nil {
		msg := out.Sprintf("Command 'setoption': option '%s' rejected: %s", name, err)
		u.SendInfoString(msg)
		log.Warning(msg)
		return
	}
	o.CurrentValue = value
}

func (u *UciHandler) isReadyCommand() {
	u.mySearch.IsReady()
}

func (u *UciHandler) stopCommand() {
	u.mySearch.StopSearch()
	u.myPerft.Stop()
}

// uciNewGameCommand resets position, game history and all caches
func (u *UciHandler) uciNewGameCommand() {
	u.mySearch.StopSearch()
	u.myPosition = position.NewPosition()
	u.mySearch.NewGame()
}

// positionCommand sets up the position from "startpos" or a fen and
// applies the given moves. An illegal or malformed move aborts the
// move sequence; the state up to the last legal move is retained.
func (u *UciHandler) positionCommand(tokens []string) {
	if len(tokens) < 2 {
		msg := out.Sprintf("Command 'position' malformed: %s", tokens)
		u.SendInfoString(msg)
		log.Warning(msg)
		return
	}

	fen := position.StartFen
	i := 1
	switch tokens[i] {
	case "startpos":
		i++
	case "fen":
		i++
		var fenb strings.Builder
		for i < len(tokens) && tokens[i] != "moves" {
			fenb.WriteString(tokens[i])
			fenb.WriteString(" ")
			i++
		}
		fen = strings.TrimSpace(fenb.String())
	default:
		msg := out.Sprintf("Command 'position' malformed: %s", tokens)
		u.SendInfoString(msg)
		log.Warning(msg)
		return
	}

	newPosition, err := position.NewPositionFen(fen)
	if err != nil {
		msg := out.Sprintf("Command 'position' invalid fen: %s", fen)
		u.SendInfoString(msg)
		log.Warning(msg)
		return
	}
	u.myPosition = newPosition

	if i < len(tokens) {
		if tokens[i] != "moves" {
			msg := out.Sprintf("Command 'position' malformed moves: %s", tokens)
			u.SendInfoString(msg)
			log.Warning(msg)
			return
		}
		i++
		for i < len(tokens) {
			move := u.myMoveGen.GetMoveFromUci(u.myPosition, tokens[i])
			if move == MoveNone {
				msg := out.Sprintf("Command 'position': move '%s' is not legal - ignoring rest of moves", tokens[i])
				u.SendInfoString(msg)
				log.Warning(msg)
				return
			}
			u.myPosition.DoMove(move)
			i++
		}
	}
	log.Debugf("New position: %s", u.myPosition.StringFen())
}

// goCommand starts a search with the given limits
func (u *UciHandler) goCommand(tokens []string) {
	searchLimits, err := u.readSearchLimits(tokens)
	if err {
		return
	}
	u.mySearch.StartSearch(*u.myPosition, *searchLimits)
}

// perftCommand starts a perft on the current position
func (u *UciHandler) perftCommand(tokens []string) {
	depth := 4
	if len(tokens) > 1 {
		if d, err := strconv.Atoi(tokens[1]); err == nil {
			depth = d
		} else {
			log.Warningf("Can't run perft with depth '%s'", tokens[1])
			return
		}
	}
	fen := u.myPosition.StringFen()
	go u.myPerft.StartPerft(fen, depth, true)
}

// readSearchLimits parses the arguments of the "go" command.
// Returns the limits and true on a parsing error.
func (u *UciHandler) readSearchLimits(tokens []string) (*search.Limits, bool) {
	searchLimits := search.NewSearchLimits()
	i := 1
	for i < len(tokens) {
		var err error
		switch tokens[i] {
		case "searchmoves":
			i++
			for i < len(tokens) {
				move := u.myMoveGen.GetMoveFromUci(u.myPosition, tokens[i])
				if move == MoveNone {
					break
				}
				searchLimits.Moves.PushBack(move)
				i++
			}
		case "infinite":
			i++
			searchLimits.Infinite = true
		case "ponder":
			// pondering is not supported - treat as infinite so a
			// stop will deliver the result
			i++
			searchLimits.Infinite = true
		case "depth":
			i++
			if searchLimits.Depth, err = u.intToken(tokens, i, "depth"); err != nil {
				return nil, true
			}
			i++
		case "nodes":
			i++
			var parsed int64
			if parsed, err = u.int64Token(tokens, i, "nodes"); err != nil {
				return nil, true
			}
			searchLimits.Nodes = uint64(parsed)
			i++
		case "mate":
			i++
			if searchLimits.Mate, err = u.intToken(tokens, i, "mate"); err != nil {
				return nil, true
			}
			i++
		case "movetime":
			i++
			var parsed int64
			if parsed, err = u.int64Token(tokens, i, "movetime"); err != nil {
				return nil, true
			}
			searchLimits.MoveTime = time.Duration(parsed) * time.Millisecond
			searchLimits.TimeControl = true
			i++
		case "wtime":
			i++
			var parsed int64
			if parsed, err = u.int64Token(tokens, i, "wtime"); err != nil {
				return nil, true
			}
			searchLimits.WhiteTime = time.Duration(parsed) * time.Millisecond
			searchLimits.TimeControl = true
			i++
		case "btime":
			i++
			var parsed int64
			if parsed, err = u.int64Token(tokens, i, "btime"); err != nil {
				return nil, true
			}
			searchLimits.BlackTime = time.Duration(parsed) * time.Millisecond
			searchLimits.TimeControl = true
			i++
		case "winc":
			i++
			var parsed int64
			if parsed, err = u.int64Token(tokens, i, "winc"); err != nil {
				return nil, true
			}
			searchLimits.WhiteInc = time.Duration(parsed) * time.Millisecond
			i++
		case "binc":
			i++
			var parsed int64
			if parsed, err = u.int64Token(tokens, i, "binc"); err != nil {
				return nil, true
			}
			searchLimits.BlackInc = time.Duration(parsed) * time.Millisecond
			i++
		case "movestogo":
			i++
			if searchLimits.MovesToGo, err = u.intToken(tokens, i, "movestogo"); err != nil {
				return nil, true
			}
			i++
		default:
			msg := out.Sprintf("Command 'go' malformed: invalid subcommand %s", tokens[i])
			u.SendInfoString(msg)
			log.Warning(msg)
			return nil, true
		}
	}

	// a plain "go" without any limit searches until stopped
	if !(searchLimits.Infinite ||
		searchLimits.Depth > 0 ||
		searchLimits.Nodes > 0 ||
		searchLimits.Mate > 0 ||
		searchLimits.TimeControl) {
		searchLimits.Infinite = true
	}

	// sanity check time control
	if searchLimits.TimeControl && searchLimits.MoveTime == 0 {
		if u.myPosition.NextPlayer() == White && searchLimits.WhiteTime == 0 {
			msg := "Command 'go' invalid: white to move but wtime is zero"
			u.SendInfoString(msg)
			log.Warning(msg)
			return nil, true
		} else if u.myPosition.NextPlayer() == Black && searchLimits.BlackTime == 0 {
			msg := "Command 'go' invalid: black to move but btime is zero"
			u.SendInfoString(msg)
			log.Warning(msg)
			return nil, true
		}
	}
	return searchLimits, false
}

func (u *UciHandler) intToken(tokens []string, i int, name string) (int, error) {
	if i >= len(tokens) {
		err := fmt.Errorf("missing value for %s", name)
		u.SendInfoString(err.Error())
		log.Warning(err.Error())
		return 0, err
	}
	v, err := strconv.Atoi(tokens[i])
	if err != nil {
		msg := out.Sprintf("Command 'go' malformed: %s value not a number: %s", name, tokens[i])
		u.SendInfoString(msg)
		log.Warning(msg)
		return 0, err
	}
	return v, nil
}

func (u *UciHandler) int64Token(tokens []string, i int, name string) (int64, error) {
	if i >= len(tokens) {
		err := fmt.Errorf("missing value for %s", name)
		u.SendInfoString(err.Error())
		log.Warning(err.Error())
		return 0, err
	}
	v, err := strconv.ParseInt(tokens[i], 10, 64)
	if err != nil {
		msg := out.Sprintf("Command 'go' malformed: %s value not a number: %s", name, tokens[i])
		u.SendInfoString(msg)
		log.Warning(msg)
		return 0, err
	}
	return v, nil
}

// send writes a line to the output stream and the uci log
func (u *UciHandler) send(s string) {
	u.uciLog.Infof(">> %s", s)
	_, _ = u.OutIo.WriteString(s + "\n")
	_ = u.OutIo.Flush()
}
