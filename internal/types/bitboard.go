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
	"math/bits"
	"strconv"
	"strings"

	"github.com/mantis-chess/mantis/internal/util"
)

// Bitboard is a 64-bit mask with one bit for each square on the
// board. Bit i corresponds to square i (a1 = bit 0).
type Bitboard uint64

// Various constant bitboards
const (
	BbZero Bitboard = 0
	BbAll  Bitboard = ^BbZero
	BbOne  Bitboard = 1

	FileABb Bitboard = 0x0101010101010101
	FileBBb          = FileABb << 1
	FileCBb          = FileABb << 2
	FileDBb          = FileABb << 3
	FileEBb          = FileABb << 4
	FileFBb          = FileABb << 5
	FileGBb          = FileABb << 6
	FileHBb          = FileABb << 7

	Rank1Bb Bitboard = 0xFF
	Rank2Bb          = Rank1Bb << (8 * 1)
	Rank3Bb          = Rank1Bb << (8 * 2)
	Rank4Bb          = Rank1Bb << (8 * 3)
	Rank5Bb          = Rank1Bb << (8 * 4)
	Rank6Bb          = Rank1Bb << (8 * 5)
	Rank7Bb          = Rank1Bb << (8 * 6)
	Rank8Bb          = Rank1Bb << (8 * 7)

	msbMask   = ^(BbOne << 63)
	rank8Mask = ^Rank8Bb
	fileAMask = ^FileABb
	fileHMask = ^FileHBb
)

// Bb returns a Bitboard with only the bit of the square set
func (sq Square) Bb() Bitboard {
	return sqBb[sq]
}

// Bb returns a Bitboard of the given file
func (f File) Bb() Bitboard {
	return fileBb[f]
}

// Bb returns a Bitboard of the given rank
func (r Rank) Bb() Bitboard {
	return rankBb[r]
}

// Has tests if the bit for the square is set
func (b Bitboard) Has(sq Square) bool {
	return b&sqBb[sq] != 0
}

// PushSquare sets the bit for the square
func (b *Bitboard) PushSquare(sq Square) Bitboard {
	*b |= sqBb[sq]
	return *b
}

// PopSquare clears the bit for the square
func (b *Bitboard) PopSquare(sq Square) Bitboard {
	*b &^= sqBb[sq]
	return *b
}

// ShiftBitboard shifts all bits of a bitboard by one square in the
// given direction. Bits would wrap around the A/H file edges and are
// masked out after the shift.
func ShiftBitboard(b Bitboard, d Direction) Bitboard {
	switch d {
	case North:
		return (rank8Mask & b) << 8
	case East:
		return (msbMask & b) << 1 & fileAMask
	case South:
		return b >> 8
	case West:
		return (b >> 1) & fileHMask
	case Northeast:
		return (rank8Mask & b) << 9 & fileAMask
	case Southeast:
		return (b >> 7) & fileAMask
	case Southwest:
		return (b >> 9) & fileHMask
	case Northwest:
		return (b << 7) & fileHMask
	}
	return b
}

// Lsb returns the square of the least significant set bit.
// Returns SqNone (64) for an empty bitboard.
func (b Bitboard) Lsb() Square {
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLsb returns the Lsb square and removes it from the bitboard.
func (b *Bitboard) PopLsb() Square {
	if *b == BbZero {
		return SqNone
	}
	lsb := b.Lsb()
	*b &= *b - 1
	return lsb
}

// PopCount returns the number of set bits (population count)
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// FileDistance returns the absolute distance between two files
func FileDistance(f1 File, f2 File) int {
	return util.Abs(int(f2) - int(f1))
}

// RankDistance returns the absolute distance between two ranks
func RankDistance(r1 Rank, r2 Rank) int {
	return util.Abs(int(r2) - int(r1))
}

// SquareDistance returns the Chebyshev distance between two squares
func SquareDistance(s1 Square, s2 Square) int {
	if !s1.IsValid() || !s2.IsValid() || s1 == s2 {
		return 0
	}
	return squareDistance[s1][s2]
}

// GetAttacksBb returns a bitboard with all squares attacked by a
// piece of the given type (not pawn) on the given square. Sliding
// piece attacks use the pre-computed magic bitboard tables, knight
// and king attacks ignore the occupancy.
func GetAttacksBb(pt PieceType, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Bishop:
		return bishopMagics[sq].Attacks[bishopMagics[sq].index(occupied)]
	case Rook:
		return rookMagics[sq].Attacks[rookMagics[sq].index(occupied)]
	case Queen:
		return bishopMagics[sq].Attacks[bishopMagics[sq].index(occupied)] |
			rookMagics[sq].Attacks[rookMagics[sq].index(occupied)]
	case Knight, King:
		return nonSliderAttacks[pt][sq]
	}
	panic("GetAttacksBb called with unsupported piece type")
}

// GetPseudoAttacks returns the attacks of the piece type on an
// otherwise empty board.
func GetPseudoAttacks(pt PieceType, sq Square) Bitboard {
	return pseudoAttacks[pt][sq]
}

// GetPawnAttacks returns the squares a pawn of the given color on
// the given square attacks.
func GetPawnAttacks(c Color, sq Square) Bitboard {
	return pawnAttacks[c][sq]
}

// Ray returns the squares outgoing from the square in the direction
// of the orientation.
func (sq Square) Ray(o Orientation) Bitboard {
	return rays[o][sq]
}

// Intermediate returns the squares between the two given squares or
// BbZero when they do not share a line.
func Intermediate(sq1 Square, sq2 Square) Bitboard {
	return intermediate[sq1][sq2]
}

// LineBb returns the full line (rank, file or diagonal) through the
// two squares including both squares, or BbZero when the squares do
// not share a line. Used for pin handling.
func LineBb(sq1 Square, sq2 Square) Bitboard {
	return lines[sq1][sq2]
}

// NeighbourFilesMask returns the files east and west of the square's
// file. Used for isolated pawn detection.
func (sq Square) NeighbourFilesMask() Bitboard {
	return neighbourFilesMask[sq]
}

// GetCastlingRights returns the castling rights which are lost when
// a piece moves from or to this square.
func GetCastlingRights(sq Square) CastlingRights {
	return castlingRightsLost[sq]
}

// SquaresBb returns all squares of the given color. Used to detect
// same-colored bishops for draw detection.
func SquaresBb(c Color) Bitboard {
	return squaresBb[c]
}

// String returns a string representation of the 64 bits
func (b Bitboard) String() string {
	return strconv.FormatUint(uint64(b), 2)
}

// StringBoard returns an 8x8 board representation of the bitboard
func (b Bitboard) StringBoard() string {
	var os strings.Builder
	os.WriteString("+---+---+---+---+---+---+---+---+\n")
	for r := Rank1; r <= Rank8; r++ {
		for f := FileA; f <= FileH; f++ {
			if b.Has(SquareOf(f, Rank8-r)) {
				os.WriteString("| X ")
			} else {
				os.WriteString("|   ")
			}
		}
		os.WriteString("|\n+---+---+---+---+---+---+---+---+\n")
	}
	return os.String()
}

// ////////////////////
// Pre-computed tables
// ////////////////////

var (
	sqBb   [SqLength]Bitboard
	rankBb [8]Bitboard
	fileBb [8]Bitboard

	squareDistance [SqLength][SqLength]int

	// pawn attacks per color and square
	pawnAttacks [2][SqLength]Bitboard

	// knight and king attacks per square
	nonSliderAttacks [PtLength][SqLength]Bitboard

	// attacks on an empty board for all piece types but pawns
	pseudoAttacks [PtLength][SqLength]Bitboard

	// magic bitboards for sliding piece attacks
	rookTable    []Bitboard
	rookMagics   [SqLength]Magic
	bishopTable  []Bitboard
	bishopMagics [SqLength]Magic

	// masks for rays relative to a square
	filesWestMask      [SqLength]Bitboard
	filesEastMask      [SqLength]Bitboard
	ranksNorthMask     [SqLength]Bitboard
	ranksSouthMask     [SqLength]Bitboard
	neighbourFilesMask [SqLength]Bitboard

	// rays per orientation and square
	rays [8][SqLength]Bitboard

	// squares between two squares
	intermediate [SqLength][SqLength]Bitboard

	// full line through two squares
	lines [SqLength][SqLength]Bitboard

	// castling right lost when a move touches the square
	castlingRightsLost [SqLength]CastlingRights

	// all white and all black squares
	squaresBb [2]Bitboard
)

// initBb pre-computes the various bitboards. The order matters as
// some tables are derived from others.
func initBb() {
	rankFileBbPreCompute()
	squareBitboardsPreCompute()
	squareDistancePreCompute()
	nonSlidingAttacksPreCompute()
	initMagicBitboards()
	neighbourMasksPreCompute()
	raysPreCompute()
	pseudoAttacksPreCompute()
	intermediatePreCompute()
	linesPreCompute()
	castlingRightsPreCompute()
	squareColorsPreCompute()
}

func rankFileBbPreCompute() {
	for r := Rank1; r <= Rank8; r++ {
		rankBb[r] = Rank1Bb << (8 * r)
	}
	for f := FileA; f <= FileH; f++ {
		fileBb[f] = FileABb << f
	}
}

func squareBitboardsPreCompute() {
	for sq := SqA1; sq < SqNone; sq++ {
		sqBb[sq] = BbOne << sq
	}
}

func squareDistancePreCompute() {
	for sq1 := SqA1; sq1 <= SqH8; sq1++ {
		for sq2 := SqA1; sq2 <= SqH8; sq2++ {
			if sq1 != sq2 {
				squareDistance[sq1][sq2] =
					util.Max(FileDistance(sq1.FileOf(), sq2.FileOf()), RankDistance(sq1.RankOf(), sq2.RankOf()))
			}
		}
	}
}

// pre-computes attacks for kings, knights and pawns. Steps are
// defined from the white perspective; the black pass negates them
// which also fills in the symmetric halves of the king and knight
// attack sets.
func nonSlidingAttacksPreCompute() {
	var steps = [PtLength][]Direction{
		King:   {Northwest, North, Northeast, East},
		Pawn:   {Northwest, Northeast},
		Knight: {West + Northwest, East + Northeast, North + Northwest, North + Northeast},
	}
	for c := White; c <= Black; c++ {
		for _, pt := range []PieceType{King, Pawn, Knight} {
			for sq := SqA1; sq <= SqH8; sq++ {
				for _, step := range steps[pt] {
					to := int(sq) + c.Direction()*int(step)
					if to < 0 || to >= SqLength {
						continue
					}
					// reject steps wrapping around the board edges
					if squareDistance[sq][Square(to)] > 2 {
						continue
					}
					if pt == Pawn {
						pawnAttacks[c][sq] |= sqBb[to]
					} else {
						nonSliderAttacks[pt][sq] |= sqBb[to]
					}
				}
			}
		}
	}
}

func initMagicBitboards() {
	rookDirections := [4]Direction{North, East, South, West}
	bishopDirections := [4]Direction{Northeast, Southeast, Southwest, Northwest}

	rookTable = make([]Bitboard, 0x19000)
	bishopTable = make([]Bitboard, 0x1480)

	initMagics(rookTable, &rookMagics, &rookDirections)
	initMagics(bishopTable, &bishopMagics, &bishopDirections)
}

// masks for files and ranks west/east/north/south of each square
func neighbourMasksPreCompute() {
	for sq := SqA1; sq <= SqH8; sq++ {
		f := int(sq.FileOf())
		r := int(sq.RankOf())
		for j := 0; j <= 7; j++ {
			if j < f {
				filesWestMask[sq] |= FileABb << j
			}
			if j > f {
				filesEastMask[sq] |= FileABb << j
			}
			if j > r {
				ranksNorthMask[sq] |= Rank1Bb << (8 * j)
			}
			if j < r {
				ranksSouthMask[sq] |= Rank1Bb << (8 * j)
			}
		}
		if f > 0 {
			neighbourFilesMask[sq] |= FileABb << (f - 1)
		}
		if f < 7 {
			neighbourFilesMask[sq] |= FileABb << (f + 1)
		}
	}
}

func raysPreCompute() {
	for sq := SqA1; sq <= SqH8; sq++ {
		rays[N][sq] = GetAttacksBb(Rook, sq, BbZero) & ranksNorthMask[sq]
		rays[E][sq] = GetAttacksBb(Rook, sq, BbZero) & filesEastMask[sq]
		rays[S][sq] = GetAttacksBb(Rook, sq, BbZero) & ranksSouthMask[sq]
		rays[W][sq] = GetAttacksBb(Rook, sq, BbZero) & filesWestMask[sq]
		rays[NW][sq] = GetAttacksBb(Bishop, sq, BbZero) & filesWestMask[sq] & ranksNorthMask[sq]
		rays[NE][sq] = GetAttacksBb(Bishop, sq, BbZero) & filesEastMask[sq] & ranksNorthMask[sq]
		rays[SE][sq] = GetAttacksBb(Bishop, sq, BbZero) & filesEastMask[sq] & ranksSouthMask[sq]
		rays[SW][sq] = GetAttacksBb(Bishop, sq, BbZero) & filesWestMask[sq] & ranksSouthMask[sq]
	}
}

func pseudoAttacksPreCompute() {
	for sq := SqA1; sq <= SqH8; sq++ {
		pseudoAttacks[Knight][sq] = nonSliderAttacks[Knight][sq]
		pseudoAttacks[King][sq] = nonSliderAttacks[King][sq]
		pseudoAttacks[Bishop][sq] = GetAttacksBb(Bishop, sq, BbZero)
		pseudoAttacks[Rook][sq] = GetAttacksBb(Rook, sq, BbZero)
		pseudoAttacks[Queen][sq] = pseudoAttacks[Bishop][sq] | pseudoAttacks[Rook][sq]
	}
}

// squares strictly between two squares which share a line
func intermediatePreCompute() {
	for from := SqA1; from <= SqH8; from++ {
		for to := SqA1; to <= SqH8; to++ {
			toBb := sqBb[to]
			for o := NW; o <= W; o++ {
				if rays[o][from]&toBb != BbZero {
					intermediate[from][to] |= rays[o][from] &^ rays[o][to] &^ toBb
				}
			}
		}
	}
}

// full line through two squares which share a line
func linesPreCompute() {
	for from := SqA1; from <= SqH8; from++ {
		for to := SqA1; to <= SqH8; to++ {
			if from == to {
				continue
			}
			for o := NW; o <= W; o++ {
				if rays[o][from].Has(to) {
					lines[from][to] = rays[o][from] | rays[opposite(o)][from] | sqBb[from]
				}
			}
		}
	}
}

func opposite(o Orientation) Orientation {
	switch o {
	case NW:
		return SE
	case N:
		return S
	case NE:
		return SW
	case E:
		return W
	case SE:
		return NW
	case S:
		return N
	case SW:
		return NE
	case W:
		return E
	}
	panic("invalid orientation")
}

func castlingRightsPreCompute() {
	castlingRightsLost[SqE1] = CastlingWhite
	castlingRightsLost[SqA1] = CastlingWhiteOOO
	castlingRightsLost[SqH1] = CastlingWhiteOO
	castlingRightsLost[SqE8] = CastlingBlack
	castlingRightsLost[SqA8] = CastlingBlackOOO
	castlingRightsLost[SqH8] = CastlingBlackOO
}

func squareColorsPreCompute() {
	for sq := SqA1; sq <= SqH8; sq++ {
		if (int(sq.FileOf())+int(sq.RankOf()))%2 == 0 {
			squaresBb[Black] |= sqBb[sq]
		} else {
			squaresBb[White] |= sqBb[sq]
		}
	}
}
