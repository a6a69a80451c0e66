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

// Package poller wraps a level-triggered epoll instance behind a
// minimal add/modify/remove/wait surface so the event loop never
// touches golang.org/x/sys/unix directly.
package poller

import "time"

// Mask is a bitset of readiness interests/events.
type Mask uint32

const (
	Readable Mask = 1 << iota
	Writable
	Hangup
	Error
)

func (m Mask) Has(f Mask) bool { return m&f != 0 }

// Event reports one descriptor's readiness at a given wait cycle.
type Event struct {
	Fd   int
	Mask Mask
}

// Poller is the abstraction the Server drives its single suspension
// point through.
type Poller interface {
	// Add registers fd for the given interest mask.
	Add(fd int, mask Mask) error

	// Modify changes the interest mask for an already-registered fd.
	Modify(fd int, mask Mask) error

	// Remove unregisters fd. It is not an error to remove an fd that
	// was already closed out from under the poller.
	Remove(fd int) error

	// Wait blocks for up to timeout (or indefinitely when timeout < 0)
	// and returns every descriptor whose enabled interest intersects
	// its current readiness.
	Wait(timeout time.Duration) ([]Event, error)

	// Close releases the underlying kernel object.
	Close() error
}
