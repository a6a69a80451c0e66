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
	"io"
	"log/syslog"
	"os"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	loglvl "github.com/nabbar/webserv/logger/level"
)

// writerHook ships every entry at or below its level threshold to a
// single io.Writer using logrus's text formatter.
type writerHook struct {
	w   io.Writer
	lvl loglvl.Level
	fmt logrus.Formatter
}

// NewWriterHook wraps an arbitrary writer (file, pipe, buffer) as a hook.
func NewWriterHook(w io.Writer, lvl loglvl.Level) Hook {
	return &writerHook{w: w, lvl: lvl, fmt: &logrus.TextFormatter{FullTimestamp: true}}
}

// NewStdoutHook mirrors entries at or below lvl to the process stdout.
func NewStdoutHook(lvl loglvl.Level) Hook {
	return NewWriterHook(os.Stdout, lvl)
}

// NewStderrHook mirrors entries at or below lvl to the process stderr.
func NewStderrHook(lvl loglvl.Level) Hook {
	return NewWriterHook(os.Stderr, lvl)
}

// NewFileHook rotates log output through lumberjack, keeping the last
// maxBackups files capped at maxSizeMB each.
func NewFileHook(path string, lvl loglvl.Level, maxSizeMB, maxBackups int) Hook {
	return NewWriterHook(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}, lvl)
}

func (h *writerHook) Levels() []logrus.Level {
	return logrus.AllLevels[:h.lvl.Logrus()+1]
}

func (h *writerHook) Fire(e *logrus.Entry) error {
	b, err := h.fmt.Format(e)
	if err != nil {
		return err
	}

	_, err = h.w.Write(b)
	return err
}

// syslogHook forwards entries to the local syslog daemon, used for the
// "error_log syslog:tag" directive form.
type syslogHook struct {
	w   *syslog.Writer
	fmt logrus.Formatter
}

// NewSyslogHook dials the local syslog daemon under the given tag.
func NewSyslogHook(tag string, lvl loglvl.Level) (Hook, error) {
	w, err := syslog.New(priorityFor(lvl), tag)
	if err != nil {
		return nil, err
	}

	return &syslogHook{w: w, fmt: &logrus.TextFormatter{DisableTimestamp: true}}, nil
}

func priorityFor(lvl loglvl.Level) syslog.Priority {
	switch lvl {
	case loglvl.DebugLevel:
		return syslog.LOG_DEBUG
	case loglvl.InfoLevel:
		return syslog.LOG_INFO
	case loglvl.WarnLevel:
		return syslog.LOG_WARNING
	case loglvl.ErrorLevel:
		return syslog.LOG_ERR
	case loglvl.FatalLevel, loglvl.PanicLevel:
		return syslog.LOG_CRIT
	default:
		return syslog.LOG_INFO
	}
}

func (h *syslogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *syslogHook) Fire(e *logrus.Entry) error {
	b, err := h.fmt.Format(e)
	if err != nil {
		return err
	}

	switch e.Level {
	case logrus.DebugLevel:
		return h.w.Debug(string(b))
	case logrus.WarnLevel:
		return h.w.Warning(string(b))
	case logrus.ErrorLevel:
		return h.w.Err(string(b))
	case logrus.FatalLevel, logrus.PanicLevel:
		return h.w.Crit(string(b))
	default:
		return h.w.Info(string(b))
	}
}
