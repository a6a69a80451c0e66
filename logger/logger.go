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

package logger

import (
	"sync"

	"github.com/sirupsen/logrus"

	loglvl "github.com/nabbar/webserv/logger/level"
)

type lgr struct {
	mtx sync.RWMutex
	log *logrus.Logger
	lvl loglvl.Level
	fld Fields
}

func (l *lgr) SetLevel(lvl loglvl.Level) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.lvl = lvl
	l.log.SetLevel(lvl.Logrus())
}

func (l *lgr) GetLevel() loglvl.Level {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.lvl
}

func (l *lgr) SetFields(f Fields) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.fld = f
}

func (l *lgr) GetFields() Fields {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.fld
}

func (l *lgr) AddHook(h Hook) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.log.AddHook(h)
	return nil
}

func (l *lgr) entry(f Fields) *logrus.Entry {
	l.mtx.RLock()
	base := l.fld
	e := l.log
	l.mtx.RUnlock()

	merged := make(logrus.Fields, len(base)+len(f))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range f {
		merged[k] = v
	}

	return e.WithFields(merged)
}

func (l *lgr) Debug(message string, f Fields)   { l.entry(f).Debug(message) }
func (l *lgr) Info(message string, f Fields)    { l.entry(f).Info(message) }
func (l *lgr) Warning(message string, f Fields) { l.entry(f).Warning(message) }
func (l *lgr) Error(message string, f Fields)   { l.entry(f).Error(message) }
func (l *lgr) Fatal(message string, f Fields)   { l.entry(f).Fatal(message) }

func (l *lgr) Access(remoteAddr, method, path, proto string, status int, bytes int64, latency int64) {
	l.entry(Fields{
		"remote_addr": remoteAddr,
		"method":      method,
		"path":        path,
		"proto":       proto,
		"status":      status,
		"bytes_sent":  bytes,
		"latency_us":  latency,
	}).Info("access")
}

func (l *lgr) CheckError(lvlKO, lvlOK loglvl.Level, message string, err error) bool {
	if err != nil {
		l.log.WithField("level", lvlKO.String()).Log(lvlKO.Logrus(), message+": "+err.Error())
		return false
	}

	if lvlOK != loglvl.NilLevel {
		l.log.Log(lvlOK.Logrus(), message+": ok")
	}

	return true
}

func (l *lgr) Clone() Logger {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	fld := make(Fields, len(l.fld))
	for k, v := range l.fld {
		fld[k] = v
	}

	return &lgr{
		log: l.log,
		lvl: l.lvl,
		fld: fld,
		mtx: sync.RWMutex{},
	}
}

func (l *lgr) Close() error {
	return nil
}
