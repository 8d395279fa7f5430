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

// Package position implements the authoritative game state of a
// chess position: piece placement as an 8x8 board plus bitboards,
// incremental zobrist hashing, make/unmake with an undo stack which
// doubles as the repetition history, and FEN import/export.
//
// Create instances with NewPosition() (start position) or
// NewPositionFen(fen).
package position

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/op/go-logging"

	myLogging "github.com/mantis-chess/mantis/internal/logging"
	. "github.com/mantis-chess/mantis/internal/types"
)

var log *logging.Logger

func init() {
	initZobrist()
}

// StartFen is the FEN of the standard chess start position
const StartFen string = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position represents the chess board and its complete state.
// Mutation happens exclusively through DoMove/UndoMove (and the null
// move pair); every mutation keeps the zobrist key, the aggregated
// bitboards and the material/positional counters incrementally
// up to date.
type Position struct {
	// zobrist key of the position, updated incrementally
	zobristKey Key

	// primary state - defines the position uniquely (modulo history)
	board           [SqLength]Piece
	castlingRights  CastlingRights
	enPassantSquare Square
	halfMoveClock   int
	nextPlayer      Color

	// redundant state derived from the board
	kingSquare [ColorLength]Square
	piecesBb   [ColorLength][PtLength]Bitboard
	occupiedBb [ColorLength]Bitboard

	// the next half move number (ply count since game start + 1),
	// used to derive the full move number
	nextHalfMoveNumber int

	// undo stack - also serves repetition detection
	historyCounter int
	history        [MaxMoves]undoRecord

	// incrementally updated counters used by evaluation
	material        [ColorLength]Value
	materialNonPawn [ColorLength]Value
	psqMidValue     [ColorLength]Value
	psqEndValue     [ColorLength]Value
	gamePhase       int

	// cached check flag for the current position
	hasCheckFlag int
}

// undoRecord stores everything needed to restore the position state
// which cannot be recomputed by reversing the move itself.
type undoRecord struct {
	zobristKey      Key
	move            Move
	capturedPiece   Piece
	castlingRights  CastlingRights
	enPassantSquare Square
	halfMoveClock   int
	hasCheckFlag    int
}

// states for the cached check flag
const (
	flagTBD   int = 0
	flagFalse int = 1
	flagTrue  int = 2
)

// NewPosition creates a new position with the standard chess start
// position.
func NewPosition() *Position {
	p, _ := NewPositionFen(StartFen)
	return p
}

// NewPositionFen creates a new position from the given FEN string.
// Returns nil and an error when the FEN is invalid.
func NewPositionFen(fen string) (*Position, error) {
	if log == nil {
		log = myLogging.GetLog()
	}
	p := &Position{}
	if err := p.setupBoard(fen); err != nil {
		log.Warningf("invalid fen - position can't be created: %s", err)
		return nil, err
	}
	return p, nil
}

// DoMove commits a move to the board. For performance reasons there
// is no check that the move is legal - the caller has to guarantee
// pseudo-legality at minimum; a fully legal move generator
// guarantees legality.
func (p *Position) DoMove(m Move) {
	fromSq := m.From()
	toSq := m.To()
	fromPc := p.board[fromSq]
	myColor := fromPc.ColorOf()
	targetPc := p.board[toSq]

	// save state for undo before any mutation - the entry is reused
	// to avoid allocations
	h := &p.history[p.historyCounter]
	h.zobristKey = p.zobristKey
	h.move = m
	h.capturedPiece = targetPc
	h.castlingRights = p.castlingRights
	h.enPassantSquare = p.enPassantSquare
	h.halfMoveClock = p.halfMoveClock
	h.hasCheckFlag = p.hasCheckFlag
	p.historyCounter++

	switch m.MoveType() {
	case Normal:
		p.doNormalMove(fromSq, toSq, fromPc, targetPc, myColor)
	case Promotion:
		p.doPromotionMove(fromSq, toSq, targetPc, myColor, m.PromotionType())
	case EnPassant:
		p.doEnPassantMove(fromSq, toSq, myColor)
	case Castling:
		p.doCastlingMove(fromSq, toSq, myColor)
	}

	p.hasCheckFlag = flagTBD
	p.nextHalfMoveNumber++
	p.nextPlayer = p.nextPlayer.Flip()
	p.zobristKey ^= zobristBase.nextPlayer
}

// UndoMove restores the position to the state before the last move.
func (p *Position) UndoMove() {
	p.historyCounter--
	p.nextHalfMoveNumber--
	p.nextPlayer = p.nextPlayer.Flip()
	h := &p.history[p.historyCounter]
	move := h.move

	switch move.MoveType() {
	case Normal:
		p.movePiece(move.To(), move.From())
		if h.capturedPiece != PieceNone {
			p.putPiece(h.capturedPiece, move.To())
		}
	case Promotion:
		p.removePiece(move.To())
		p.putPiece(MakePiece(p.nextPlayer, Pawn), move.From())
		if h.capturedPiece != PieceNone {
			p.putPiece(h.capturedPiece, move.To())
		}
	case EnPassant:
		p.movePiece(move.To(), move.From())
		p.putPiece(MakePiece(p.nextPlayer.Flip(), Pawn), move.To().To(p.nextPlayer.Flip().PawnDir()))
	case Castling:
		p.movePiece(move.To(), move.From()) // king
		switch move.To() {
		case SqG1:
			p.movePiece(SqF1, SqH1)
		case SqC1:
			p.movePiece(SqD1, SqA1)
		case SqG8:
			p.movePiece(SqF8, SqH8)
		case SqC8:
			p.movePiece(SqD8, SqA8)
		default:
			panic("invalid castling move")
		}
	}

	// restore remaining state directly from the history record -
	// this also restores the zobrist key exactly
	p.castlingRights = h.castlingRights
	p.enPassantSquare = h.enPassantSquare
	p.halfMoveClock = h.halfMoveClock
	p.hasCheckFlag = h.hasCheckFlag
	p.zobristKey = h.zobristKey
}

// DoNullMove switches the side to move without making a move, as
// null move based search heuristics need (the search of this engine
// does not call it). State is saved like in DoMove so UndoNullMove
// restores it exactly.
func (p *Position) DoNullMove() {
	h := &p.history[p.historyCounter]
	h.zobristKey = p.zobristKey
	h.move = MoveNone
	h.capturedPiece = PieceNone
	h.castlingRights = p.castlingRights
	h.enPassantSquare = p.enPassantSquare
	h.halfMoveClock = p.halfMoveClock
	h.hasCheckFlag = p.hasCheckFlag
	p.historyCounter++

	p.hasCheckFlag = flagTBD
	p.clearEnPassant()
	p.nextHalfMoveNumber++
	p.nextPlayer = p.nextPlayer.Flip()
	p.zobristKey ^= zobristBase.nextPlayer
}

// UndoNullMove restores the state before the DoNullMove call.
func (p *Position) UndoNullMove() {
	p.historyCounter--
	p.nextHalfMoveNumber--
	p.nextPlayer = p.nextPlayer.Flip()
	h := &p.history[p.historyCounter]
	p.castlingRights = h.castlingRights
	p.enPassantSquare = h.enPassantSquare
	p.halfMoveClock = h.halfMoveClock
	p.hasCheckFlag = h.hasCheckFlag
	p.zobristKey = h.zobristKey
}

// AttacksTo returns all pieces of the given color attacking the
// given square on the given occupancy. The occupancy parameter
// allows testing squares with pieces lifted off the board (e.g. the
// moving king).
func (p *Position) AttacksTo(sq Square, by Color, occupied Bitboard) Bitboard {
	return (GetPawnAttacks(by.Flip(), sq) & p.piecesBb[by][Pawn]) |
		(GetAttacksBb(Knight, sq, occupied) & p.piecesBb[by][Knight]) |
		(GetAttacksBb(King, sq, occupied) & p.piecesBb[by][King]) |
		(GetAttacksBb(Bishop, sq, occupied) & (p.piecesBb[by][Bishop] | p.piecesBb[by][Queen])) |
		(GetAttacksBb(Rook, sq, occupied) & (p.piecesBb[by][Rook] | p.piecesBb[by][Queen]))
}

// IsAttacked checks if the given square is attacked by any piece of
// the given color.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	return p.AttacksTo(sq, by, p.OccupiedAll()) != BbZero
}

// Checkers returns all pieces of the opponent currently giving check
// to the king of the side to move.
func (p *Position) Checkers() Bitboard {
	return p.AttacksTo(p.kingSquare[p.nextPlayer], p.nextPlayer.Flip(), p.OccupiedAll())
}

// HasCheck returns true if the side to move is in check. The result
// is cached until the next (un)make.
func (p *Position) HasCheck() bool {
	if p.hasCheckFlag != flagTBD {
		return p.hasCheckFlag == flagTrue
	}
	check := p.IsAttacked(p.kingSquare[p.nextPlayer], p.nextPlayer.Flip())
	if check {
		p.hasCheckFlag = flagTrue
	} else {
		p.hasCheckFlag = flagFalse
	}
	return check
}

// IsCapturingMove determines if a move on this position captures
// a piece (including en passant).
func (p *Position) IsCapturingMove(move Move) bool {
	return p.occupiedBb[p.nextPlayer.Flip()].Has(move.To()) || move.MoveType() == EnPassant
}

// CheckRepetitions returns true when the current position occurred
// at least the given number of times before in the game history.
// The scan stops at the last move which reset the half move clock
// (pawn move or capture) as no repetition can reach beyond it.
func (p *Position) CheckRepetitions(reps int) bool {
	counter := 0
	i := p.historyCounter - 2
	lastHalfMove := p.halfMoveClock
	for i >= 0 {
		if p.history[i].halfMoveClock >= lastHalfMove {
			break
		}
		lastHalfMove = p.history[i].halfMoveClock
		if p.zobristKey == p.history[i].zobristKey {
			counter++
		}
		if counter >= reps {
			return true
		}
		i -= 2
	}
	return false
}

// HasInsufficientMaterial returns true if neither side has enough
// material to force a mate: bare kings, king and minor vs king, and
// king and bishop vs king and bishop with both bishops on squares of
// the same color.
func (p *Position) HasInsufficientMaterial() bool {
	// any pawn, rook or queen on the board is sufficient
	if p.piecesBb[White][Pawn]|p.piecesBb[Black][Pawn] != BbZero ||
		p.piecesBb[White][Rook]|p.piecesBb[Black][Rook] != BbZero ||
		p.piecesBb[White][Queen]|p.piecesBb[Black][Queen] != BbZero {
		return false
	}

	whiteMinors := p.piecesBb[White][Knight].PopCount() + p.piecesBb[White][Bishop].PopCount()
	blackMinors := p.piecesBb[Black][Knight].PopCount() + p.piecesBb[Black][Bishop].PopCount()

	// K vs K, K+minor vs K
	if whiteMinors+blackMinors <= 1 {
		return true
	}

	// K+B vs K+B with same colored bishops
	if whiteMinors == 1 && blackMinors == 1 &&
		p.piecesBb[White][Bishop] != BbZero && p.piecesBb[Black][Bishop] != BbZero {
		bishops := p.piecesBb[White][Bishop] | p.piecesBb[Black][Bishop]
		if bishops&SquaresBb(White) == bishops || bishops&SquaresBb(Black) == bishops {
			return true
		}
	}

	return false
}

// Validate re-checks the structural invariants of the position and
// returns an error describing the first violation found. A violation
// indicates an engine bug, never a user error.
func (p *Position) Validate() error {
	for c := White; c <= Black; c++ {
		if p.piecesBb[c][King].PopCount() != 1 {
			return fmt.Errorf("color %s has %d kings", c.String(), p.piecesBb[c][King].PopCount())
		}
		if !p.piecesBb[c][King].Has(p.kingSquare[c]) {
			return fmt.Errorf("king square cache out of sync for %s", c.String())
		}
	}
	if p.IsAttacked(p.kingSquare[p.nextPlayer.Flip()], p.nextPlayer) {
		return errors.New("side not to move is in check")
	}
	pawns := p.piecesBb[White][Pawn] | p.piecesBb[Black][Pawn]
	if pawns&(Rank1Bb|Rank8Bb) != BbZero {
		return errors.New("pawn on rank 1 or 8")
	}
	var union Bitboard
	for c := White; c <= Black; c++ {
		var colorUnion Bitboard
		for pt := King; pt <= Queen; pt++ {
			if colorUnion&p.piecesBb[c][pt] != BbZero || union&p.piecesBb[c][pt] != BbZero {
				return errors.New("piece bitboards are not disjoint")
			}
			colorUnion |= p.piecesBb[c][pt]
		}
		if colorUnion != p.occupiedBb[c] {
			return fmt.Errorf("occupancy aggregate out of sync for %s", c.String())
		}
		union |= colorUnion
	}
	if union != p.OccupiedAll() {
		return errors.New("overall occupancy out of sync")
	}
	if p.zobristKey != p.zobristFromScratch() {
		return errors.New("zobrist key out of sync with board state")
	}
	if p.enPassantSquare != SqNone {
		r := p.enPassantSquare.RankOf()
		if r != Rank3 && r != Rank6 {
			return fmt.Errorf("en passant square %s not on rank 3 or 6", p.enPassantSquare.String())
		}
	}
	return nil
}

// zobristFromScratch recomputes the zobrist key from the board
// state. Used by Validate and tests to verify the incremental key.
func (p *Position) zobristFromScratch() Key {
	var key Key
	for sq := SqA1; sq <= SqH8; sq++ {
		if p.board[sq] != PieceNone {
			key ^= zobristBase.pieces[p.board[sq]][sq]
		}
	}
	if p.nextPlayer == Black {
		key ^= zobristBase.nextPlayer
	}
	key ^= zobristBase.castlingRights[p.castlingRights]
	if p.enPassantSquare != SqNone {
		key ^= zobristBase.enPassantFile[p.enPassantSquare.FileOf()]
	}
	return key
}

// String returns a multi line representation of the position for
// debugging: fen, board matrix and state counters.
func (p *Position) String() string {
	var os strings.Builder
	os.WriteString(p.StringFen())
	os.WriteString("\n")
	os.WriteString(p.StringBoard())
	os.WriteString(fmt.Sprintf("Next Player    : %s\n", p.nextPlayer.String()))
	os.WriteString(fmt.Sprintf("Game Phase     : %d\n", p.gamePhase))
	os.WriteString(fmt.Sprintf("Material W/B   : %d/%d\n", p.material[White], p.material[Black]))
	return os.String()
}

// StringFen returns the FEN of the current position
func (p *Position) StringFen() string {
	return p.fen()
}

// StringBoard returns a visual matrix of the board and pieces
func (p *Position) StringBoard() string {
	var os strings.Builder
	os.WriteString("+---+---+---+---+---+---+---+---+\n")
	for r := Rank1; r <= Rank8; r++ {
		for f := FileA; f <= FileH; f++ {
			os.WriteString("| ")
			os.WriteString(p.board[SquareOf(f, Rank8-r)].String())
			os.WriteString(" ")
		}
		os.WriteString("|\n+---+---+---+---+---+---+---+---+\n")
	}
	return os.String()
}

// //////////////////////////////////////////////////////
// Private move execution
// //////////////////////////////////////////////////////

func (p *Position) doNormalMove(fromSq Square, toSq Square, fromPc Piece, targetPc Piece, myColor Color) {
	// moving from or to a castling square invalidates the
	// corresponding right
	if p.castlingRights != CastlingNone {
		cr := GetCastlingRights(fromSq) | GetCastlingRights(toSq)
		if cr != CastlingNone {
			p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]
			p.castlingRights.Remove(cr)
			p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]
		}
	}
	p.clearEnPassant()
	if targetPc != PieceNone {
		p.removePiece(toSq)
		p.halfMoveClock = 0
	} else if fromPc.TypeOf() == Pawn {
		p.halfMoveClock = 0
		if SquareDistance(fromSq, toSq) == 2 {
			// double push - en passant square is the skipped square
			p.enPassantSquare = toSq.To(myColor.Flip().PawnDir())
			p.zobristKey ^= zobristBase.enPassantFile[p.enPassantSquare.FileOf()]
		}
	} else {
		p.halfMoveClock++
	}
	p.movePiece(fromSq, toSq)
}

func (p *Position) doPromotionMove(fromSq Square, toSq Square, targetPc Piece, myColor Color, promType PieceType) {
	if targetPc != PieceNone {
		p.removePiece(toSq)
	}
	if p.castlingRights != CastlingNone {
		cr := GetCastlingRights(fromSq) | GetCastlingRights(toSq)
		if cr != CastlingNone {
			p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]
			p.castlingRights.Remove(cr)
			p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]
		}
	}
	p.removePiece(fromSq)
	p.putPiece(MakePiece(myColor, promType), toSq)
	p.clearEnPassant()
	p.halfMoveClock = 0
}

func (p *Position) doEnPassantMove(fromSq Square, toSq Square, myColor Color) {
	capSq := toSq.To(myColor.Flip().PawnDir())
	p.removePiece(capSq)
	p.movePiece(fromSq, toSq)
	p.clearEnPassant()
	p.halfMoveClock = 0
}

func (p *Position) doCastlingMove(fromSq Square, toSq Square, myColor Color) {
	p.movePiece(fromSq, toSq) // king
	switch toSq {
	case SqG1:
		p.movePiece(SqH1, SqF1)
	case SqC1:
		p.movePiece(SqA1, SqD1)
	case SqG8:
		p.movePiece(SqH8, SqF8)
	case SqC8:
		p.movePiece(SqA8, SqD8)
	default:
		panic("invalid castling move")
	}
	p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]
	if myColor == White {
		p.castlingRights.Remove(CastlingWhite)
	} else {
		p.castlingRights.Remove(CastlingBlack)
	}
	p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]
	p.clearEnPassant()
	p.halfMoveClock++
}

func (p *Position) movePiece(fromSq Square, toSq Square) {
	p.putPiece(p.removePiece(fromSq), toSq)
}

func (p *Position) putPiece(piece Piece, square Square) {
	color := piece.ColorOf()
	pieceType := piece.TypeOf()

	p.board[square] = piece
	if pieceType == King {
		p.kingSquare[color] = square
	}
	p.piecesBb[color][pieceType].PushSquare(square)
	p.occupiedBb[color].PushSquare(square)
	p.zobristKey ^= zobristBase.pieces[piece][square]
	p.gamePhase += pieceType.GamePhaseValue()
	if p.gamePhase > GamePhaseMax {
		p.gamePhase = GamePhaseMax
	}
	p.material[color] += pieceType.ValueOf()
	if pieceType > Pawn {
		p.materialNonPawn[color] += pieceType.ValueOf()
	}
	p.psqMidValue[color] += PosMidValue(piece, square)
	p.psqEndValue[color] += PosEndValue(piece, square)
}

func (p *Position) removePiece(square Square) Piece {
	removed := p.board[square]
	color := removed.ColorOf()
	pieceType := removed.TypeOf()

	p.board[square] = PieceNone
	p.piecesBb[color][pieceType].PopSquare(square)
	p.occupiedBb[color].PopSquare(square)
	p.zobristKey ^= zobristBase.pieces[removed][square]
	p.gamePhase -= pieceType.GamePhaseValue()
	if p.gamePhase < 0 {
		p.gamePhase = 0
	}
	p.material[color] -= pieceType.ValueOf()
	if pieceType > Pawn {
		p.materialNonPawn[color] -= pieceType.ValueOf()
	}
	p.psqMidValue[color] -= PosMidValue(removed, square)
	p.psqEndValue[color] -= PosEndValue(removed, square)
	return removed
}

func (p *Position) clearEnPassant() {
	if p.enPassantSquare != SqNone {
		p.zobristKey ^= zobristBase.enPassantFile[p.enPassantSquare.FileOf()]
		p.enPassantSquare = SqNone
	}
}

// //////////////////////////////////////////////////////
// FEN import / export
// //////////////////////////////////////////////////////

func (p *Position) fen() string {
	var fen strings.Builder
	for r := Rank1; r <= Rank8; r++ {
		emptySquares := 0
		for f := FileA; f <= FileH; f++ {
			pc := p.board[SquareOf(f, Rank8-r)]
			if pc == PieceNone {
				emptySquares++
			} else {
				if emptySquares > 0 {
					fen.WriteString(strconv.Itoa(emptySquares))
					emptySquares = 0
				}
				fen.WriteString(pc.String())
			}
		}
		if emptySquares > 0 {
			fen.WriteString(strconv.Itoa(emptySquares))
		}
		if r < Rank8 {
			fen.WriteString("/")
		}
	}
	fen.WriteString(" ")
	fen.WriteString(p.nextPlayer.String())
	fen.WriteString(" ")
	fen.WriteString(p.castlingRights.String())
	fen.WriteString(" ")
	fen.WriteString(p.enPassantSquare.String())
	fen.WriteString(" ")
	fen.WriteString(strconv.Itoa(p.halfMoveClock))
	fen.WriteString(" ")
	fen.WriteString(strconv.Itoa((p.nextHalfMoveNumber + 1) / 2))
	return fen.String()
}

var (
	regexFenPos          = regexp.MustCompile("^[0-8pPnNbBrRqQkK/]+$")
	regexWorB            = regexp.MustCompile("^[w|b]$")
	regexCastlingRights  = regexp.MustCompile("^(K?Q?k?q?|-)$")
	regexEnPassantSquare = regexp.MustCompile("^([a-h][36]|-)$")
)

// setupBoard sets up the position from a FEN string. Only the board
// layout part is mandatory; all other fields fall back to defaults.
func (p *Position) setupBoard(fen string) error {
	fen = strings.TrimSpace(fen)
	fenParts := strings.Fields(fen)

	if len(fenParts) == 0 {
		return errors.New("fen must not be empty")
	}
	if !regexFenPos.MatchString(fenParts[0]) {
		return errors.New("fen position contains invalid characters")
	}

	// the fen starts at a8 and runs to h1, ranks separated by "/"
	currentSquare := SqA8
	for _, c := range fenParts[0] {
		if number, e := strconv.Atoi(string(c)); e == nil {
			currentSquare = Square(int(currentSquare) + number)
		} else if c == '/' {
			currentSquare = Square(int(currentSquare) - 16)
		} else {
			piece := PieceFromChar(string(c))
			if piece == PieceNone {
				return fmt.Errorf("invalid piece character: %s", string(c))
			}
			if !currentSquare.IsValid() {
				return errors.New("fen position has too many squares")
			}
			p.putPiece(piece, currentSquare)
			currentSquare++
		}
	}
	// after the h1 square was filled the index wraps to a2
	if currentSquare != SqA2 {
		return errors.New("fen position does not cover all 64 squares")
	}

	p.nextHalfMoveNumber = 1
	p.enPassantSquare = SqNone

	// next player
	if len(fenParts) >= 2 {
		if !regexWorB.MatchString(fenParts[1]) {
			return errors.New("fen next player field invalid")
		}
		if fenParts[1] == "b" {
			p.nextPlayer = Black
			p.zobristKey ^= zobristBase.nextPlayer
			p.nextHalfMoveNumber++
		}
	}

	// castling rights
	if len(fenParts) >= 3 {
		if !regexCastlingRights.MatchString(fenParts[2]) {
			return errors.New("fen castling rights field invalid")
		}
		if fenParts[2] != "-" {
			for _, c := range fenParts[2] {
				switch c {
				case 'K':
					p.castlingRights.Add(CastlingWhiteOO)
				case 'Q':
					p.castlingRights.Add(CastlingWhiteOOO)
				case 'k':
					p.castlingRights.Add(CastlingBlackOO)
				case 'q':
					p.castlingRights.Add(CastlingBlackOOO)
				}
			}
		}
	}
	p.zobristKey ^= zobristBase.castlingRights[p.castlingRights]

	// en passant square
	if len(fenParts) >= 4 {
		if !regexEnPassantSquare.MatchString(fenParts[3]) {
			return errors.New("fen en passant field invalid")
		}
		if fenParts[3] != "-" {
			p.enPassantSquare = MakeSquare(fenParts[3])
			p.zobristKey ^= zobristBase.enPassantFile[p.enPassantSquare.FileOf()]
		}
	}

	// half move clock
	if len(fenParts) >= 5 {
		number, e := strconv.Atoi(fenParts[4])
		if e != nil {
			return e
		}
		p.halfMoveClock = number
	}

	// full move number, converted to next half move number
	if len(fenParts) >= 6 {
		moveNumber, e := strconv.Atoi(fenParts[5])
		if e != nil {
			return e
		}
		if moveNumber == 0 {
			moveNumber = 1
		}
		p.nextHalfMoveNumber = 2*moveNumber - (1 - int(p.nextPlayer))
	}

	// both kings must exist
	if p.piecesBb[White][King].PopCount() != 1 || p.piecesBb[Black][King].PopCount() != 1 {
		return errors.New("fen position must have exactly one king per side")
	}

	return nil
}

// //////////////////////////////////////////////////////
// Getters
// //////////////////////////////////////////////////////

// ZobristKey returns the current zobrist key of the position
func (p *Position) ZobristKey() Key {
	return p.zobristKey
}

// NextPlayer returns the side to move
func (p *Position) NextPlayer() Color {
	return p.nextPlayer
}

// GetPiece returns the piece on the given square or PieceNone
func (p *Position) GetPiece(sq Square) Piece {
	return p.board[sq]
}

// PiecesBb returns the bitboard for the given color and piece type
func (p *Position) PiecesBb(c Color, pt PieceType) Bitboard {
	return p.piecesBb[c][pt]
}

// OccupiedAll returns a bitboard of all pieces on the board
func (p *Position) OccupiedAll() Bitboard {
	return p.occupiedBb[White] | p.occupiedBb[Black]
}

// OccupiedBb returns a bitboard of all pieces of the given color
func (p *Position) OccupiedBb(c Color) Bitboard {
	return p.occupiedBb[c]
}

// KingSquare returns the square of the king of the given color
func (p *Position) KingSquare(c Color) Square {
	return p.kingSquare[c]
}

// GetEnPassantSquare returns the en passant square or SqNone
func (p *Position) GetEnPassantSquare() Square {
	return p.enPassantSquare
}

// CastlingRights returns the castling rights of the position
func (p *Position) CastlingRights() CastlingRights {
	return p.castlingRights
}

// HalfMoveClock returns the half move clock (50-move rule counter)
func (p *Position) HalfMoveClock() int {
	return p.halfMoveClock
}

// FullMoveNumber returns the full move number of the game, starting
// at 1 and incremented after each Black move.
func (p *Position) FullMoveNumber() int {
	return (p.nextHalfMoveNumber + 1) / 2
}

// GamePhase returns the current game phase (GamePhaseMax at game
// start, 0 when no officers are left).
func (p *Position) GamePhase() int {
	return p.gamePhase
}

// GamePhaseFactor returns the game phase as a factor between 0 and 1
func (p *Position) GamePhaseFactor() float64 {
	return float64(p.gamePhase) / GamePhaseMax
}

// Material returns the material value of the given color
func (p *Position) Material(c Color) Value {
	return p.material[c]
}

// MaterialNonPawn returns the non-pawn material value of the color
func (p *Position) MaterialNonPawn(c Color) Value {
	return p.materialNonPawn[c]
}

// PsqMidValue returns the aggregated mid game piece-square value
func (p *Position) PsqMidValue(c Color) Value {
	return p.psqMidValue[c]
}

// PsqEndValue returns the aggregated end game piece-square value
func (p *Position) PsqEndValue(c Color) Value {
	return p.psqEndValue[c]
}

// LastMove returns the last move made or MoveNone when the position
// has no move history.
func (p *Position) LastMove() Move {
	if p.historyCounter <= 0 {
		return MoveNone
	}
	return p.history[p.historyCounter-1].move
}

// LastCapturedPiece returns the piece captured by the last move or
// PieceNone.
func (p *Position) LastCapturedPiece() Piece {
	if p.historyCounter <= 0 {
		return PieceNone
	}
	return p.history[p.historyCounter-1].capturedPiece
}
