// go-addone
// Copyright (c) 2026 The OpenAccel Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log is the leveled logger of the addone command line tool.
package log

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
)

// Level is a log verbosity level.
type Level int

const (
	LogPrefix     = "[addone] "
	ErrorPrefix   = "[error] "
	WarningPrefix = "[warn] "
	InfoPrefix    = "[info] "
	DebugPrefix   = "[debug] "
	HelpLevels    = "Must be one of: error, warning, info, debug."
)

const (
	ErrorLevel Level = iota
	WarningLevel
	InfoLevel
	DebugLevel
)

type logger struct {
	level Level
	*log.Logger
}

var std = &logger{
	level:  InfoLevel,
	Logger: log.New(os.Stderr, LogPrefix, log.LstdFlags),
}

// SetLevel sets the verbosity from its string name.
func SetLevel(strLevel string) error {
	levels := map[string]Level{
		"error":   ErrorLevel,
		"warning": WarningLevel,
		"info":    InfoLevel,
		"debug":   DebugLevel,
	}
	level, ok := levels[strLevel]
	if !ok {
		return errors.New("wrong log level. " + HelpLevels)
	}
	std.level = level
	return nil
}

// Init points the logger at out and sets the verbosity.
func Init(out io.Writer, strLevel string) error {
	std.SetOutput(out)
	return SetLevel(strLevel)
}

// Error logs at error level.
func Error(format string, v ...any) {
	if std.level >= ErrorLevel {
		std.Println(fmt.Sprintf(ErrorPrefix+format, v...))
	}
}

// Warning logs at warning level.
func Warning(format string, v ...any) {
	if std.level >= WarningLevel {
		std.Println(fmt.Sprintf(WarningPrefix+format, v...))
	}
}

// Info logs at info level.
func Info(format string, v ...any) {
	if std.level >= InfoLevel {
		std.Println(fmt.Sprintf(InfoPrefix+format, v...))
	}
}

// Debug logs at debug level.
func Debug(format string, v ...any) {
	if std.level >= DebugLevel {
		std.Println(fmt.Sprintf(DebugPrefix+format, v...))
	}
}
