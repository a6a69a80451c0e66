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

import "testing"

func readableWithBuffer(s string) *Readable {
	r := NewReadable(-1, 0)
	fill(r, []byte(s))
	return r
}

// stingyWriter accepts at most maxPerCall bytes of any write, forcing
// every caller through the partial-write path.
type stingyWriter struct {
	maxPerCall int
	written    []byte
}

func (w *stingyWriter) WriteAsString(p []byte) int {
	n := len(p)
	if n > w.maxPerCall {
		n = w.maxPerCall
	}
	w.written = append(w.written, p[:n]...)
	return n
}

func (w *stingyWriter) WriteAsChunk(p []byte) int {
	panic("SendBodyAsHTTPChunk must not call WriteAsChunk")
}

func TestSendBodyAsHTTPChunkResumesPartialFrameVerbatim(t *testing.T) {
	r := readableWithBuffer("payload")

	sink := &stingyWriter{maxPerCall: 3}
	bw := &BodyWriter{}

	for i := 0; i < 20 && string(sink.written) != "7\r\npayload\r\n"; i++ {
		bw.SendBodyAsHTTPChunk(r, sink)
	}

	if got := string(sink.written); got != "7\r\npayload\r\n" {
		t.Fatalf("expected a correctly framed chunk to reach the writer byte-for-byte, got %q", got)
	}
}

func TestSendBodyAsHTTPChunkWaitsForFrameToDrainBeforeNewBody(t *testing.T) {
	r := readableWithBuffer("ab")

	sink := &stingyWriter{maxPerCall: 1}
	bw := &BodyWriter{}

	bw.SendBodyAsHTTPChunk(r, sink)
	if bw.IsEmpty() {
		t.Fatal("expected a partially written frame to remain pending")
	}

	bw.SendBodyAsHTTPChunk(r, sink)
	want := "2\r\nab\r\n"[:len(sink.written)]
	if string(sink.written) != want {
		t.Fatalf("expected the pending frame tail to be retried, not new body, got %q", sink.written)
	}
}
