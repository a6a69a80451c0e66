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
	"fmt"

	"golang.org/x/sys/unix"
)

// Writable wraps a write-only or bidirectional fd.
type Writable struct {
	base
}

func NewWritable(fdnum int) *Writable {
	return &Writable{base: base{fd: fdnum, state: Ready}}
}

// WriteAsString writes p directly. Returns bytes actually written;
// state becomes Awaiting on would-block, Closed on EPIPE or a
// zero-length successful write of non-empty input.
func (w *Writable) WriteAsString(p []byte) int {
	if len(p) == 0 {
		return 0
	}

	n, err := unix.Write(w.fd, p)
	switch {
	case n > 0:
		w.touch()
		w.state = Ready
		return n
	case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
		w.state = Awaiting
		return 0
	default:
		w.state = Closed
		return 0
	}
}

// WriteAsChunk prefixes p with its hex size and CRLF framing, then
// writes the whole frame via WriteAsString. It returns the number of
// *payload* bytes acknowledged as written: len(p) only when the whole
// frame reached the kernel in one call, 0 on any partial write (the
// partial bytes are already on the wire and not reported as pending
// here; callers streaming a body should build and retry the frame
// themselves, as BodyWriter.SendBodyAsHTTPChunk does, rather than
// relying on this method's partial-write behavior).
func (w *Writable) WriteAsChunk(p []byte) int {
	frame := []byte(fmt.Sprintf("%x\r\n", len(p)))
	frame = append(frame, p...)
	frame = append(frame, '\r', '\n')

	n := w.WriteAsString(frame)
	if n == len(frame) {
		return len(p)
	}

	return 0
}

func (w *Writable) Close() error {
	w.state = Closed
	return unix.Close(w.fd)
}
