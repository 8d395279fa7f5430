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

// Package evaluator computes a static value for a chess position
// from material, piece-square values and a small set of positional
// terms. The value is always relative to the side to move.
package evaluator

import (
	"github.com/op/go-logging"

	"github.com/mantis-chess/mantis/internal/config"
	myLogging "github.com/mantis-chess/mantis/internal/logging"
	"github.com/mantis-chess/mantis/internal/position"
	. "github.com/mantis-chess/mantis/internal/types"
)

// Evaluator evaluates chess positions.
// Create instances with NewEvaluator().
type Evaluator struct {
	log *logging.Logger
}

// NewEvaluator creates a new Evaluator instance
func NewEvaluator() *Evaluator {
	return &Evaluator{
		log: myLogging.GetLog(),
	}
}

// Evaluate returns the static value of the position in centipawns
// from the view of the side to move. Pure and deterministic; the
// result is always strictly below the mate threshold.
func (e *Evaluator) Evaluate(p *position.Position) Value {
	// without mating material the position is a draw no matter what
	// the counters say
	if p.HasInsufficientMaterial() {
		return ValueDraw
	}

	us := p.NextPlayer()
	them := us.Flip()
	gamePhase := p.GamePhase()

	// material and piece-square values are kept incrementally by
	// the position
	value := p.Material(us) - p.Material(them)
	value += interpolate(
		p.PsqMidValue(us)-p.PsqMidValue(them),
		p.PsqEndValue(us)-p.PsqEndValue(them),
		gamePhase)

	if config.Settings.Eval.UseBishopPair {
		value += e.bishopPair(p, us) - e.bishopPair(p, them)
	}

	if config.Settings.Eval.UsePawnEval {
		value += e.pawnStructure(p, us, gamePhase) - e.pawnStructure(p, them, gamePhase)
	}

	// small bonus for having the move
	value += Value(config.Settings.Eval.Tempo)

	return value
}

// bishopPair returns the bonus when the color still has both bishops
func (e *Evaluator) bishopPair(p *position.Position, c Color) Value {
	if p.PiecesBb(c, Bishop).PopCount() >= 2 {
		return Value(config.Settings.Eval.BishopPairBonus)
	}
	return 0
}

// pawnStructure scores doubled and isolated pawns of the given color
func (e *Evaluator) pawnStructure(p *position.Position, c Color, gamePhase int) Value {
	pawns := p.PiecesBb(c, Pawn)
	cfg := &config.Settings.Eval

	var doubled, isolated int
	for f := FileA; f <= FileH; f++ {
		onFile := (pawns & f.Bb()).PopCount()
		if onFile > 1 {
			doubled += onFile - 1
		}
	}
	remaining := pawns
	for remaining != BbZero {
		sq := remaining.PopLsb()
		if pawns&sq.NeighbourFilesMask() == BbZero {
			isolated++
		}
	}

	value := Value(doubled) * interpolate(Value(cfg.PawnDoubledMidMalus), Value(cfg.PawnDoubledEndMalus), gamePhase)
	value += Value(isolated) * interpolate(Value(cfg.PawnIsolatedMidMalus), Value(cfg.PawnIsolatedEndMalus), gamePhase)
	return value
}

// interpolate blends a mid game and an end game value by the game
// phase (GamePhaseMax = pure mid game).
func interpolate(mid Value, end Value, gamePhase int) Value {
	return (Value(gamePhase)*mid + Value(GamePhaseMax-gamePhase)*end) / GamePhaseMax
}
