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

package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantis-chess/mantis/internal/config"
	"github.com/mantis-chess/mantis/internal/position"
	. "github.com/mantis-chess/mantis/internal/types"
)

func TestStartPositionIsTempo(t *testing.T) {
	// the start position is fully symmetric - only the tempo bonus
	// remains for the side to move
	e := NewEvaluator()
	p := position.NewPosition()
	assert.Equal(t, Value(config.Settings.Eval.Tempo), e.Evaluate(p))

	// same from black's perspective
	pb, err := position.NewPositionFen("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	require.NoError(t, err)
	assert.Equal(t, Value(config.Settings.Eval.Tempo), e.Evaluate(pb))
}

func TestEvaluationIsDeterministic(t *testing.T) {
	e := NewEvaluator()
	p, _ := position.NewPositionFen("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	v1 := e.Evaluate(p)
	v2 := e.Evaluate(p)
	assert.Equal(t, v1, v2)
}

func TestEvaluationBounds(t *testing.T) {
	e := NewEvaluator()
	fens := []string{
		position.StartFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"4k3/8/8/8/8/8/8/QQQQK3 w - - 0 1",
		"4k3/8/8/8/8/8/8/QQQQK3 b - - 0 1",
	}
	for _, fen := range fens {
		p, err := position.NewPositionFen(fen)
		require.NoError(t, err)
		v := e.Evaluate(p)
		assert.Less(t, v, ValueCheckMateThreshold, fen)
		assert.Greater(t, v, -ValueCheckMateThreshold, fen)
	}
}

func TestMaterialAdvantage(t *testing.T) {
	e := NewEvaluator()
	// white has an extra queen
	p, _ := position.NewPositionFen("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	assert.Greater(t, e.Evaluate(p), Value(700))
	// same position from black's view is lost
	p2, _ := position.NewPositionFen("4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	assert.Less(t, e.Evaluate(p2), Value(-700))
}

func TestInsufficientMaterialIsDraw(t *testing.T) {
	e := NewEvaluator()
	p, _ := position.NewPositionFen("4k3/8/8/8/8/8/8/3BK3 w - - 0 1")
	assert.Equal(t, ValueDraw, e.Evaluate(p))
}

func TestBishopPair(t *testing.T) {
	e := NewEvaluator()
	// equal material - white with bishop pair, black with bishop
	// and knight
	pair, _ := position.NewPositionFen("1nb1k3/8/8/8/8/8/8/1BB1K3 w - - 0 1")
	v := e.Evaluate(pair)
	// the pair bonus plus the minor piece value difference
	assert.Greater(t, v, Value(0))
}

func TestDoubledAndIsolatedPawnsArePenalized(t *testing.T) {
	e := NewEvaluator()
	// white pawns doubled and isolated on the e-file vs healthy
	// connected pawns on e2/f2 - same material in both positions
	weak, err := position.NewPositionFen("4k3/4pp2/8/8/8/4P3/4P3/4K3 w - - 0 1")
	require.NoError(t, err)
	healthy, err := position.NewPositionFen("4k3/4pp2/8/8/8/8/4PP2/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.Less(t, e.Evaluate(weak), e.Evaluate(healthy))
}
