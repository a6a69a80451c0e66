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

package fd

import (
	"strconv"

	"golang.org/x/sys/unix"
)

// Socket is a bidirectional fd: a Readable for ingress framed by a
// Writable for egress, sharing one kernel descriptor.
type Socket struct {
	*Readable
	peerIP   string
	peerPort int
}

// NewSocket takes ownership of fdnum, already set non-blocking by the
// caller (accept() or a CGI pipe end reused as a socket-like object).
func NewSocket(fdnum int, maxChunk int, peerIP string, peerPort int) *Socket {
	return &Socket{
		Readable: NewReadable(fdnum, maxChunk),
		peerIP:   peerIP,
		peerPort: peerPort,
	}
}

func (s *Socket) PeerIP() string { return s.peerIP }
func (s *Socket) PeerPort() int  { return s.peerPort }

// WriteAsString writes p directly to the socket fd.
func (s *Socket) WriteAsString(p []byte) int {
	if len(p) == 0 {
		return 0
	}

	n, err := unix.Write(s.fd, p)
	switch {
	case n > 0:
		s.touch()
		return n
	case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
		return 0
	default:
		s.state = Closed
		return 0
	}
}

// WriteAsChunk writes p to the socket fd framed as a single HTTP
// chunk, mirroring Writable.WriteAsChunk for callers that only hold a
// Writer interface value. On a partial write the frame bytes already
// on the wire are not tracked here; BodyWriter.SendBodyAsHTTPChunk
// builds and retries the frame itself instead of calling this method.
func (s *Socket) WriteAsChunk(p []byte) int {
	frame := make([]byte, 0, len(p)+16)
	frame = append(frame, strconv.FormatInt(int64(len(p)), 16)...)
	frame = append(frame, '\r', '\n')
	frame = append(frame, p...)
	frame = append(frame, '\r', '\n')

	n, err := unix.Write(s.fd, frame)
	switch {
	case n == len(frame):
		s.touch()
		return len(p)
	case n > 0:
		s.touch()
		return 0
	case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
		return 0
	default:
		s.state = Closed
		return 0
	}
}

func (s *Socket) Close() error {
	s.state = Closed
	return unix.Close(s.fd)
}

// SetNonBlocking marks fdnum O_NONBLOCK, required before it is handed
// to a Readable/Writable/Socket wrapper.
func SetNonBlocking(fdnum int) error {
	return unix.SetNonblock(fdnum, true)
}
