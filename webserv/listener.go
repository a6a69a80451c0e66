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
	"fmt"

	"golang.org/x/sys/unix"

	liberr "github.com/nabbar/webserv/errors"
	"github.com/nabbar/webserv/fd"
	"github.com/nabbar/webserv/poller"
)

// Listen opens a non-blocking TCP listening socket on port and
// registers it for Readable (connection-ready) events.
func (s *Server) Listen(port uint16) error {
	sockFd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return liberr.New(uint16(ErrListen), message(ErrListen), err)
	}

	_ = unix.SetsockoptInt(sockFd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)

	addr := &unix.SockaddrInet4{Port: int(port)}
	if err := unix.Bind(sockFd, addr); err != nil {
		_ = unix.Close(sockFd)
		return liberr.New(uint16(ErrListen), message(ErrListen), err)
	}

	if err := unix.Listen(sockFd, 1024); err != nil {
		_ = unix.Close(sockFd)
		return liberr.New(uint16(ErrListen), message(ErrListen), err)
	}

	_ = fd.SetNonBlocking(sockFd)

	s.listeners[sockFd] = fd.NewSocket(sockFd, 0, "", 0)
	s.ports[sockFd] = port

	return s.poll.Add(sockFd, poller.Readable)
}

// acceptOne accepts a single pending connection on listenFd. ok is
// false once accept(2) would block, the caller's cue to stop looping.
func acceptOne(listenFd int) (connFd int, peerIP string, peerPort int, ok bool) {
	nfd, sa, err := unix.Accept(listenFd)
	if err != nil {
		return 0, "", 0, false
	}

	switch addr := sa.(type) {
	case *unix.SockaddrInet4:
		peerPort = addr.Port
		peerIP = ipv4String(addr.Addr)
	case *unix.SockaddrInet6:
		peerPort = addr.Port
	}

	return nfd, peerIP, peerPort, true
}

func ipv4String(b [4]byte) string {
	return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3])
}
