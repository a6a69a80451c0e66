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

// Package fd wraps raw, non-blocking file descriptors (sockets, pipe
// ends, regular files) with a capped read buffer, chunk/header
// extraction helpers and a small state machine, so the event loop and
// response variants never call read(2)/write(2) directly.
package fd

import "time"

// State tracks what a descriptor is currently good for.
type State uint8

const (
	Ready State = iota
	Awaiting
	Closed
	OtherFunctionality
	Invalid
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Awaiting:
		return "awaiting"
	case Closed:
		return "closed"
	case OtherFunctionality:
		return "other"
	default:
		return "invalid"
	}
}

// MaxReadBuffer is the hard cap on a Readable's internal buffer, the
// engine's sole backpressure mechanism.
const MaxReadBuffer = 256 * 1024

// ReadChunkSize is the size of a single read(2) call into the buffer.
const ReadChunkSize = 16 * 1024

// DefaultChunkSize bounds how much new body a BodyWriter emits per tick.
const DefaultChunkSize = 8 * 1024

// base is embedded by Readable/Writable/Socket for the shared bits:
// ownership of an fd, its state, and last-activity tracking.
type base struct {
	fd        int
	state     State
	lastSeen  time.Time
	bodyBytes int64
}

func (b *base) Fd() int            { return b.fd }
func (b *base) State() State       { return b.state }
func (b *base) LastSeen() time.Time { return b.lastSeen }
func (b *base) BodyBytes() int64   { return b.bodyBytes }

func (b *base) touch() { b.lastSeen = time.Now() }
