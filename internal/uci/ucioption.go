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
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/mantis-chess/mantis/internal/config"
	myLogging "github.com/mantis-chess/mantis/internal/logging"
)

// uciOptionType enumerates the UCI option types
type uciOptionType int

const (
	checkType  uciOptionType = 0
	spinType   uciOptionType = 1
	buttonType uciOptionType = 3
	stringType uciOptionType = 4
)

// optionHandler is called when the "setoption" command changes an
// option. A returned error rejects the new value; the prior value is
// retained.
type optionHandler func(*UciHandler, *uciOption, string) error

// uciOption defines a UCI option as described in the protocol
type uciOption struct {
	NameID       string
	HandlerFunc  optionHandler
	OptionType   uciOptionType
	DefaultValue string
	MinValue     string
	MaxValue     string
	CurrentValue string
}

type optionMap map[string]*uciOption

// uciOptions holds all options of the engine
var uciOptions optionMap

// sortOrderUciOptions controls the order options are reported in
var sortOrderUciOptions []string

func init() {
	uciOptions = optionMap{
		"Hash": {NameID: "Hash", HandlerFunc: setHashSize, OptionType: spinType,
			DefaultValue: strconv.Itoa(config.Settings.Search.TTSize), MinValue: "1", MaxValue: "4096"},
		"Clear Hash": {NameID: "Clear Hash", HandlerFunc: clearHash, OptionType: buttonType},
		"OwnBook": {NameID: "OwnBook", HandlerFunc: setOwnBook, OptionType: checkType,
			DefaultValue: strconv.FormatBool(config.Settings.Search.UseBook)},
		"BookDepth": {NameID: "BookDepth", HandlerFunc: setBookDepth, OptionType: spinType,
			DefaultValue: strconv.Itoa(config.Settings.Search.BookDepth), MinValue: "0", MaxValue: "50"},
		"EnableLog": {NameID: "EnableLog", HandlerFunc: setEnableLog, OptionType: checkType,
			DefaultValue: "true"},
		"Debug Log File": {NameID: "Debug Log File", HandlerFunc: setDebugLogFile, OptionType: stringType,
			DefaultValue: ""},
	}
	sortOrderUciOptions = []string{
		"Hash",
		"Clear Hash",
		"OwnBook",
		"BookDepth",
		"EnableLog",
		"Debug Log File",
	}
}

// GetOptions returns all options formatted as "option ..." lines for
// the uci handshake.
func (o *optionMap) GetOptions() []string {
	var options []string
	for _, opt := range sortOrderUciOptions {
		options = append(options, uciOptions[opt].String())
	}
	return options
}

// String formats the option as required by the UCI protocol
func (o *uciOption) String() string {
	var os strings.Builder
	os.WriteString("option name ")
	os.WriteString(o.NameID)
	os.WriteString(" type ")
	switch o.OptionType {
	case checkType:
		os.WriteString("check default ")
		os.WriteString(o.DefaultValue)
	case spinType:
		os.WriteString("spin default ")
		os.WriteString(o.DefaultValue)
		os.WriteString(" min ")
		os.WriteString(o.MinValue)
		os.WriteString(" max ")
		os.WriteString(o.MaxValue)
	case buttonType:
		os.WriteString("button")
	case stringType:
		os.WriteString("string default ")
		os.WriteString(o.DefaultValue)
	}
	return os.String()
}

// ////////////////////////////////////////////////////////////////
// Option handlers
// ////////////////////////////////////////////////////////////////

// setHashSize resizes the transposition table. The size in MB must
// be a power of two; other values are rejected and the prior size
// kept.
func setHashSize(u *UciHandler, o *uciOption, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("not a number: %s", value)
	}
	if v < 1 || bits.OnesCount(uint(v)) != 1 {
		return fmt.Errorf("hash size must be a power of two: %d", v)
	}
	config.Settings.Search.TTSize = v
	u.mySearch.ResizeCache()
	return nil
}

func clearHash(u *UciHandler, o *uciOption, value string) error {
	u.mySearch.ClearHash()
	return nil
}

func setOwnBook(u *UciHandler, o *uciOption, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("not a boolean: %s", value)
	}
	config.Settings.Search.UseBook = v
	log.Debugf("Set OwnBook to %v", v)
	return nil
}

func setBookDepth(u *UciHandler, o *uciOption, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("not a number: %s", value)
	}
	if v < 0 {
		return fmt.Errorf("book depth must not be negative: %d", v)
	}
	config.Settings.Search.BookDepth = v
	log.Debugf("Set BookDepth to %d", v)
	return nil
}

// previous log level while logging is disabled via EnableLog
var disabledLogLevel = -1

func setEnableLog(u *UciHandler, o *uciOption, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("not a boolean: %s", value)
	}
	if v {
		if disabledLogLevel >= 0 {
			config.LogLevel = disabledLogLevel
			disabledLogLevel = -1
		}
	} else if disabledLogLevel < 0 {
		disabledLogLevel = config.LogLevel
		config.LogLevel = config.LogLevels["off"]
	}
	log = myLogging.GetLog()
	return nil
}

func setDebugLogFile(u *UciHandler, o *uciOption, value string) error {
	config.Settings.Log.UciLogFile = value
	u.uciLog = myLogging.GetUciLog()
	return nil
}
