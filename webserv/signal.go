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

package webserv

import (
	"os"
	"os/signal"
	"syscall"

	liberr "github.com/nabbar/webserv/errors"
	"github.com/nabbar/webserv/fd"
	"github.com/nabbar/webserv/poller"
)

// WatchSignals implements the pipe-to-self design note: os/signal
// delivers SIGINT/SIGTERM/SIGQUIT to a background goroutine, which
// writes one byte into a pipe whose read end is registered with the
// same poller every other descriptor goes through, so the signal is
// observed on the event loop's own thread instead of racing it.
func (s *Server) WatchSignals() error {
	r, w, err := os.Pipe()
	if err != nil {
		return liberr.New(uint16(ErrListen), message(ErrListen), err)
	}

	if err := fd.SetNonBlocking(int(r.Fd())); err != nil {
		return err
	}

	readable := fd.NewReadable(int(r.Fd()), 1)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		for range ch {
			_, _ = w.Write([]byte{0})
		}
	}()

	return s.RegisterReadable(int(r.Fd()), poller.Readable, func(poller.Mask) {
		readable.Read()
		readable.ExtractAll()
		s.RequestQuit()
	})
}
