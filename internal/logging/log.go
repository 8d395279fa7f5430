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

// Package logging is a helper around the "github.com/op/go-logging"
// package to reduce the setup code within each engine package to a
// single line. The functions return Logger instances which are
// configured with the necessary backends and formatters.
package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/op/go-logging"

	"github.com/mantis-chess/mantis/internal/config"
)

var (
	standardLog *logging.Logger
	searchLog   *logging.Logger
	uciLog      *logging.Logger

	standardFormat = logging.MustStringFormatter(
		`%{time:15:04:05.000} %{shortpkg:-8.8s}:%{shortfile:-14.14s} %{level:-7.7s}:  %{message}`)
	uciFormat = logging.MustStringFormatter(`%{time:15:04:05.000} UCI %{message}`)
)

func init() {
	standardLog = logging.MustGetLogger("standard")
	searchLog = logging.MustGetLogger("search")
	uciLog = logging.MustGetLogger("UCI")
}

// GetLog returns the standard Logger preconfigured with an os.Stdout
// backend and the standard format (time - package - file - level).
func GetLog() *logging.Logger {
	backend := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatted := logging.NewBackendFormatter(backend, standardFormat)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.Level(config.LogLevel), "")
	standardLog.SetBackend(leveled)
	return standardLog
}

// GetSearchLog returns the Logger used by the search. Same backend
// as the standard log but with its own configurable level.
func GetSearchLog() *logging.Logger {
	backend := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatted := logging.NewBackendFormatter(backend, standardFormat)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.Level(config.SearchLogLevel), "")
	searchLog.SetBackend(leveled)
	return searchLog
}

// GetUciLog returns a Logger preconfigured for logging all UCI
// protocol communication. Writes to stderr (stdout belongs to the
// protocol itself) and, when a log file is configured, to this file
// as well.
func GetUciLog() *logging.Logger {
	backend1 := logging.NewLogBackend(os.Stderr, "", log.Lmsgprefix)
	formatted1 := logging.NewBackendFormatter(backend1, uciFormat)
	leveled1 := logging.AddModuleLevel(formatted1)
	leveled1.SetLevel(logging.Level(config.LogLevel), "")

	logFilePath := config.Settings.Log.UciLogFile
	if logFilePath == "" {
		uciLog.SetBackend(leveled1)
		return uciLog
	}

	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Println("UCI logfile could not be created:", err)
		uciLog.SetBackend(leveled1)
		return uciLog
	}
	backend2 := logging.NewLogBackend(logFile, "", log.Lmsgprefix)
	formatted2 := logging.NewBackendFormatter(backend2, uciFormat)
	leveled2 := logging.AddModuleLevel(formatted2)
	leveled2.SetLevel(logging.DEBUG, "")
	uciLog.SetBackend(logging.MultiLogger(leveled1, leveled2))
	return uciLog
}

// UciLogFileName derives a default uci log file name from the
// executable name and the configured log path.
func UciLogFileName() string {
	programName, _ := os.Executable()
	exeName := strings.TrimSuffix(filepath.Base(programName), ".exe")
	return filepath.Join(config.Settings.Log.LogPath, exeName+"_uci.log")
}
