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

package poller

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	liberr "github.com/nabbar/webserv/errors"
)

const (
	ErrCreate = liberr.MinPkgPoller + iota
	ErrCtl
	ErrWait
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgPoller, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case ErrCreate:
		return "epoll_create1 failed"
	case ErrCtl:
		return "epoll_ctl failed"
	case ErrWait:
		return "epoll_wait failed"
	}

	return liberr.NullMessage
}

type epoll struct {
	mtx sync.Mutex
	fd  int
}

// New creates a level-triggered epoll instance (EPOLL_CLOEXEC set so
// forked CGI children never inherit it).
func New() (Poller, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, liberr.New(uint16(ErrCreate), message(ErrCreate), err)
	}

	return &epoll{fd: fd}, nil
}

func toKernel(m Mask) uint32 {
	var k uint32

	if m.Has(Readable) {
		k |= unix.EPOLLIN
	}
	if m.Has(Writable) {
		k |= unix.EPOLLOUT
	}

	return k
}

func fromKernel(k uint32) Mask {
	var m Mask

	if k&unix.EPOLLIN != 0 {
		m |= Readable
	}
	if k&unix.EPOLLOUT != 0 {
		m |= Writable
	}
	if k&unix.EPOLLHUP != 0 || k&unix.EPOLLRDHUP != 0 {
		m |= Hangup
	}
	if k&unix.EPOLLERR != 0 {
		m |= Error
	}

	return m
}

func (p *epoll) ctl(op int, fd int, mask Mask) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	ev := &unix.EpollEvent{Events: toKernel(mask), Fd: int32(fd)}

	if err := unix.EpollCtl(p.fd, op, fd, ev); err != nil {
		return liberr.New(uint16(ErrCtl), message(ErrCtl), err)
	}

	return nil
}

func (p *epoll) Add(fd int, mask Mask) error    { return p.ctl(unix.EPOLL_CTL_ADD, fd, mask) }
func (p *epoll) Modify(fd int, mask Mask) error { return p.ctl(unix.EPOLL_CTL_MOD, fd, mask) }

func (p *epoll) Remove(fd int) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	// Errors here are routinely ENOENT (fd already closed, which
	// implicitly drops it from the epoll set) and are not reported.
	_ = unix.EpollCtl(p.fd, unix.EPOLL_CTL_DEL, fd, nil)
	return nil
}

func (p *epoll) Wait(timeout time.Duration) ([]Event, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
	}

	buf := make([]unix.EpollEvent, 128)

	n, err := unix.EpollWait(p.fd, buf, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, liberr.New(uint16(ErrWait), message(ErrWait), err)
	}

	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Event{Fd: int(buf[i].Fd), Mask: fromKernel(buf[i].Events)})
	}

	return out, nil
}

func (p *epoll) Close() error {
	return unix.Close(p.fd)
}
