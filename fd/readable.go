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
	"bytes"
	"strconv"

	"golang.org/x/sys/unix"
)

// ChunkStatus classifies a partially-buffered chunked body without
// consuming it from the buffer.
type ChunkStatus uint8

const (
	Ongoing ChunkStatus = iota
	Complete
	TooLarge
	ChunkError
)

// Readable wraps a read-only or bidirectional fd (socket, pipe-read
// end, regular file) with a capped inbound buffer.
type Readable struct {
	base
	buf        bytes.Buffer
	maxChunk   int
}

// NewReadable takes ownership of fd. maxChunk bounds a single chunked
// payload; 0 uses MaxReadBuffer.
func NewReadable(fdnum int, maxChunk int) *Readable {
	if maxChunk <= 0 {
		maxChunk = MaxReadBuffer
	}

	return &Readable{base: base{fd: fdnum, state: Ready}, maxChunk: maxChunk}
}

// Read fills the internal buffer from the kernel. Returns the number
// of bytes read, 0 on EOF (state becomes Closed), and a negative
// value when the call would have blocked (state untouched).
func (r *Readable) Read() int {
	if r.state == Closed || r.state == Invalid {
		return 0
	}

	if r.buf.Len()+ReadChunkSize > MaxReadBuffer {
		// Backpressure: let the consumer drain before reading more.
		return -1
	}

	tmp := make([]byte, ReadChunkSize)

	n, err := unix.Read(r.fd, tmp)
	switch {
	case n > 0:
		r.buf.Write(tmp[:n])
		r.bodyBytes += int64(n)
		r.touch()
		return n
	case n == 0:
		r.state = Closed
		return 0
	case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
		return -1
	default:
		r.state = Closed
		return 0
	}
}

// Len reports how many unread bytes are currently buffered.
func (r *Readable) Len() int { return r.buf.Len() }

// Close marks r Closed and releases the underlying fd.
func (r *Readable) Close() error {
	r.state = Closed
	return unix.Close(r.fd)
}

// ExtractHeaders returns the bytes before the first "\r\n\r\n"
// (delimiter consumed but excluded from the result), or
// nil if the terminator has not yet been buffered.
func (r *Readable) ExtractHeaders() []byte {
	const sep = "\r\n\r\n"

	b := r.buf.Bytes()
	idx := bytes.Index(b, []byte(sep))
	if idx < 0 {
		return nil
	}

	head := make([]byte, idx)
	copy(head, b[:idx])

	r.buf.Next(idx + len(sep))
	return head
}

// ExtractN consumes and returns up to n buffered bytes.
func (r *Readable) ExtractN(n int) []byte {
	if n > r.buf.Len() {
		n = r.buf.Len()
	}

	out := make([]byte, n)
	copy(out, r.buf.Next(n))
	return out
}

// ExtractAll consumes and returns every buffered byte.
func (r *Readable) ExtractAll() []byte {
	return r.ExtractN(r.buf.Len())
}

// chunkHeader locates "SIZE\r\n" at the start of the buffer and
// reports the declared payload size and header length, or ok=false
// if the line is not fully buffered yet.
func chunkHeader(b []byte) (size int, headerLen int, ok bool) {
	idx := bytes.Index(b, []byte("\r\n"))
	if idx < 0 {
		return 0, 0, false
	}

	line := bytes.TrimSpace(b[:idx])
	if semi := bytes.IndexByte(line, ';'); semi >= 0 {
		line = line[:semi]
	}

	n, err := strconv.ParseInt(string(line), 16, 64)
	if err != nil || n < 0 {
		return -1, idx + 2, true
	}

	return int(n), idx + 2, true
}

// ExtractHTTPChunk parses one "SIZE\r\nPAYLOAD\r\n" unit. ok is false
// when the buffer does not yet hold a complete chunk; size is -1 on a
// malformed size line.
func (r *Readable) ExtractHTTPChunk() (data []byte, size int, ok bool) {
	b := r.buf.Bytes()

	sz, hdrLen, have := chunkHeader(b)
	if !have {
		return nil, 0, false
	}

	if sz < 0 {
		return nil, -1, true
	}

	if sz > r.maxChunk {
		return nil, sz, true
	}

	need := hdrLen + sz + 2
	if len(b) < need {
		return nil, 0, false
	}

	if b[hdrLen+sz] != '\r' || b[hdrLen+sz+1] != '\n' {
		return nil, -1, true
	}

	payload := make([]byte, sz)
	copy(payload, b[hdrLen:hdrLen+sz])

	r.buf.Next(need)

	return payload, sz, true
}

// ChunkStatus reports Ongoing/Complete/TooLarge/ChunkError for the
// chunked stream currently buffered, without consuming it. It scans
// successive chunk headers until it either finds the terminating
// zero-length chunk, runs out of buffered data, or detects a
// violation.
func (r *Readable) ChunkStatus() ChunkStatus {
	b := r.buf.Bytes()

	for {
		sz, hdrLen, have := chunkHeader(b)
		if !have {
			return Ongoing
		}

		if sz < 0 {
			return ChunkError
		}

		if sz > r.maxChunk {
			return TooLarge
		}

		need := hdrLen + sz + 2
		if len(b) < need {
			return Ongoing
		}

		if b[hdrLen+sz] != '\r' || b[hdrLen+sz+1] != '\n' {
			return ChunkError
		}

		if sz == 0 {
			return Complete
		}

		b = b[need:]
	}
}
