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

// Mantis is a UCI chess engine. Started without arguments it speaks
// the UCI protocol on stdin/stdout. Command line options provide a
// perft/divide harness and an nps benchmark.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mantis-chess/mantis/internal/config"
	"github.com/mantis-chess/mantis/internal/logging"
	"github.com/mantis-chess/mantis/internal/movegen"
	"github.com/mantis-chess/mantis/internal/position"
	"github.com/mantis-chess/mantis/internal/search"
	"github.com/mantis-chess/mantis/internal/uci"
	"github.com/mantis-chess/mantis/internal/util"
	"github.com/mantis-chess/mantis/internal/version"
)

var out = message.NewPrinter(language.English)

func main() {
	versionInfo := flag.Bool("version", false, "prints version and exits")
	configFile := flag.String("config", "./config.toml", "path to configuration file")
	logLvl := flag.String("loglvl", "", "log level (off|critical|error|warning|notice|info|debug)")
	logPath := flag.String("logpath", "", "path where log files are written to")
	bookPath := flag.String("bookpath", "", "path to the opening book database")
	ownBook := flag.Bool("ownbook", false, "use the own opening book")
	bookDepth := flag.Int("bookdepth", 0, "max full move number for book probes")
	hashSize := flag.Int("hash", 0, "transposition table size in MB (power of two)")
	perftDepth := flag.Int("perft", 0, "run perft to the given depth and exit")
	divideDepth := flag.Int("divide", 0, "run perft divide to the given depth and exit")
	serial := flag.Bool("serial", false, "run perft single threaded")
	fen := flag.String("fen", position.StartFen, "position for perft and nps test")
	npsSeconds := flag.Int("nps", 0, "run a nodes-per-second benchmark for the given seconds and exit")
	cpuProfile := flag.Bool("cpuprofile", false, "write a cpu profile to the working directory")
	flag.Parse()

	if *versionInfo {
		printVersionInfo()
		return
	}

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	// read config file, then apply command line overrides
	config.ConfFile = *configFile
	config.Setup()
	if lvl, found := config.LogLevels[*logLvl]; found {
		config.LogLevel = lvl
		config.SearchLogLevel = lvl
	}
	if *logPath != "" {
		config.Settings.Log.LogPath = *logPath
	}
	if *bookPath != "" {
		config.Settings.Search.BookPath = *bookPath
	}
	if *ownBook {
		config.Settings.Search.UseBook = true
	}
	if *bookDepth > 0 {
		config.Settings.Search.BookDepth = *bookDepth
	}
	if *hashSize > 0 {
		config.Settings.Search.TTSize = *hashSize
	}

	// loggers pick up the final log level
	logging.GetLog()

	switch {
	case *perftDepth > 0:
		pf := movegen.NewPerft()
		for d := 1; d <= *perftDepth; d++ {
			pf.StartPerft(*fen, d, !*serial)
		}
	case *divideDepth > 0:
		pf := movegen.NewPerft()
		pf.StartDivide(*fen, *divideDepth)
	case *npsSeconds > 0:
		npsTest(*fen, *npsSeconds)
	default:
		u := uci.NewUciHandler()
		u.Loop()
	}
}

// npsTest searches the given position for the given number of
// seconds and reports the nodes per second.
func npsTest(fen string, seconds int) {
	config.Settings.Search.UseBook = false
	s := search.NewSearch()
	p, err := position.NewPositionFen(fen)
	if err != nil {
		fmt.Println("invalid fen:", fen)
		return
	}
	sl := search.NewSearchLimits()
	sl.TimeControl = true
	sl.MoveTime = time.Duration(seconds) * time.Second
	s.StartSearch(*p, *sl)
	s.WaitWhileSearching()
	result := s.LastSearchResult()
	out.Printf("Nodes: %d Time: %s NPS: %d\n",
		s.NodesVisited(), result.SearchTime, util.Nps(s.NodesVisited(), result.SearchTime))
}

func printVersionInfo() {
	out.Printf("Mantis %s\n", version.Version())
	out.Printf("  %s on %s/%s, %d CPUs\n", runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	cwd, _ := os.Getwd()
	out.Printf("  Working directory: %s\n", cwd)
}
