// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package internal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var logMutex  sync.Mutex
var logTarget io.Writer = os.Stdout

// Redirect log output, e.g. to capture processing logs per request.
// Returns the previous target.
func SetLogTarget(w io.Writer) io.Writer {
	logMutex.Lock()
	defer logMutex.Unlock()
	prev:=logTarget
	logTarget=w
	return prev
}

// The current log target
func LogTarget() io.Writer {
	logMutex.Lock()
	defer logMutex.Unlock()
	return logTarget
}

func LogPrintf(format string, args ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()
	fmt.Fprintf(logTarget, format, args...)
}

func LogPrintln(args ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()
	fmt.Fprintln(logTarget, args...)
}

func LogPrint(args ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()
	fmt.Fprint(logTarget, args...)
}

func LogFatal(args ...interface{}) {
	LogPrintln(args...)
	os.Exit(1)
}

func LogFatalf(format string, args ...interface{}) {
	LogPrintf(format, args...)
	os.Exit(1)
}
