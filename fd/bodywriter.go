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

import "strconv"

// Writer is satisfied by Writable and Socket.
type Writer interface {
	WriteAsString(p []byte) int
	WriteAsChunk(p []byte) int
}

// BodyWriter holds whatever a previous write could not drain and
// re-emits it before any new data is produced. At most
// DefaultChunkSize bytes of *new* body are read per tick; a non-empty
// pending buffer is retried exclusively until it drains.
type BodyWriter struct {
	pending []byte
}

func (b *BodyWriter) IsEmpty() bool { return len(b.pending) == 0 }

// Tick retries the pending buffer against w as a plain write. Returns
// true once the pending buffer has fully drained.
func (b *BodyWriter) Tick(w Writer) bool {
	if len(b.pending) == 0 {
		return true
	}

	n := w.WriteAsString(b.pending)
	b.pending = b.pending[n:]

	return len(b.pending) == 0
}

// SendBodyAsString pulls up to DefaultChunkSize fresh bytes from
// source (draining any pending leftovers first) and writes them
// directly to w. Returns the number of fresh body bytes consumed from
// source this tick.
func (b *BodyWriter) SendBodyAsString(source *Readable, w Writer) int {
	if !b.IsEmpty() {
		b.Tick(w)
		return 0
	}

	n := source.Len()
	if n > DefaultChunkSize {
		n = DefaultChunkSize
	}
	if n == 0 {
		return 0
	}

	chunk := source.ExtractN(n)
	written := w.WriteAsString(chunk)

	if written < len(chunk) {
		b.pending = append(b.pending, chunk[written:]...)
	}

	return len(chunk)
}

// SendBodyAsHTTPChunk is SendBodyAsString's chunked-framing sibling:
// fresh bytes are wrapped in "SIZE\r\n...\r\n" before being written. The
// frame is built once and handed to WriteAsString directly (never
// WriteAsChunk) so that a partial kernel write leaves the exact
// unwritten tail of the *framed* bytes in pending: Tick retries that
// tail byte-for-byte, completing the chunk instead of re-emitting the
// raw payload unframed on top of whatever already reached the wire.
func (b *BodyWriter) SendBodyAsHTTPChunk(source *Readable, w Writer) int {
	if !b.IsEmpty() {
		b.Tick(w)
		return 0
	}

	n := source.Len()
	if n > DefaultChunkSize {
		n = DefaultChunkSize
	}
	if n == 0 {
		return 0
	}

	chunk := source.ExtractN(n)
	frame := make([]byte, 0, len(chunk)+16)
	frame = append(frame, strconv.FormatInt(int64(len(chunk)), 16)...)
	frame = append(frame, '\r', '\n')
	frame = append(frame, chunk...)
	frame = append(frame, '\r', '\n')

	written := w.WriteAsString(frame)
	if written < len(frame) {
		b.pending = append(b.pending, frame[written:]...)
	}

	return len(chunk)
}

// SendStringAsString is the in-memory-body overload of
// SendBodyAsString: src is a caller-owned byte slice rather than a
// Readable, consumed in place via the offset parameter. Returns the
// number of bytes of src consumed this tick; the caller advances
// offset by it.
func (b *BodyWriter) SendStringAsString(src []byte, offset int, w Writer) int {
	if !b.IsEmpty() {
		b.Tick(w)
		return 0
	}

	if offset >= len(src) {
		return 0
	}

	end := offset + DefaultChunkSize
	if end > len(src) {
		end = len(src)
	}

	chunk := src[offset:end]
	written := w.WriteAsString(chunk)

	if written < len(chunk) {
		b.pending = append(b.pending, chunk[written:]...)
	}

	return len(chunk)
}
