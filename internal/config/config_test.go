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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	Setup()
	assert.True(t, Settings.Search.UseTT)
	assert.Equal(t, 256, Settings.Search.TTSize)
	assert.False(t, Settings.Search.UseBook)
	assert.Equal(t, 10, Settings.Search.BookDepth)
	assert.True(t, Settings.Search.UseQuiescence)
}

func TestSetupIdempotent(t *testing.T) {
	Setup()
	ttSize := Settings.Search.TTSize
	Setup()
	assert.Equal(t, ttSize, Settings.Search.TTSize)
}

func TestLogLevels(t *testing.T) {
	assert.Equal(t, 5, LogLevels["debug"])
	assert.Equal(t, 0, LogLevels["critical"])
	_, found := LogLevels["verbose"]
	assert.False(t, found)
}

func TestString(t *testing.T) {
	s := Settings.String()
	assert.Contains(t, s, "UseTT")
	assert.Contains(t, s, "Tempo")
}
