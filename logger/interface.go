/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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
 *
 *
 */

// Package logger wraps logrus with level-gated helpers and a set of
// output hooks (stdout, stderr, file, syslog) that can be combined on
// a single logger instance, following the event server's need to
// split access logs from error logs without running two processes.
package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	loglvl "github.com/nabbar/webserv/logger/level"
)

// Fields carries structured context attached to a single log entry.
type Fields map[string]interface{}

// Logger is the main structured logging façade used across the server.
type Logger interface {
	io.Closer

	SetLevel(lvl loglvl.Level)
	GetLevel() loglvl.Level

	SetFields(f Fields)
	GetFields() Fields

	AddHook(h Hook) error

	Debug(message string, f Fields)
	Info(message string, f Fields)
	Warning(message string, f Fields)
	Error(message string, f Fields)
	Fatal(message string, f Fields)

	// Access logs one completed HTTP transaction at InfoLevel using a
	// fixed field set (remote address, method, path, status, bytes sent,
	// latency), mirroring a combined-log-format access line.
	Access(remoteAddr, method, path, proto string, status int, bytes int64, latency int64)

	// CheckError logs err at lvlKO when non-nil, or at lvlOK (unless
	// loglvl.NilLevel) when nil; returns true when err was nil.
	CheckError(lvlKO, lvlOK loglvl.Level, message string, err error) bool

	// Clone returns a logger with its own copy of the field set, for
	// per-connection loggers. It shares the underlying logrus logger,
	// so hooks and the effective level are shared: SetLevel on the
	// clone also changes what the original emits.
	Clone() Logger
}

// Hook is satisfied by logrus.Hook; re-exported so callers configuring
// this package never need to import logrus directly.
type Hook = logrus.Hook

// New returns a Logger at InfoLevel with no hooks attached. Hooks must
// be added with AddHook before any output is produced.
func New() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.InfoLevel)

	return &lgr{
		log: l,
		lvl: loglvl.InfoLevel,
		fld: make(Fields),
		mtx: sync.RWMutex{},
	}
}
