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

// Package response implements the three response variants a bound
// location can produce — Static, File, CGI — behind one tick protocol
// the Client state machine drives without knowing which variant it
// holds.
package response

import (
	"time"

	"github.com/nabbar/webserv/fd"
)

// Signal is a back-reference-free way for a tick to ask the owning
// Client/Server to change poller or timer state, avoiding a borrowed
// pointer from the response back into Server.
type Signal uint8

const (
	NoSignal Signal = iota
	NeedsWritable
	ScheduleTimer
	CancelTimer
)

// TickResult carries a Signal plus whatever arguments it needs.
type TickResult struct {
	Signal   Signal
	Delay    time.Duration
	Tag      string
	Recurring bool
}

// Response is implemented by StaticResponse, FileResponse and
// CGIResponse. Every method must make bounded progress and return —
// no method blocks.
type Response interface {
	// HandleRequestBody consumes any remaining request-body bytes
	// still sitting in socket's read buffer that this variant does
	// not need, keeping chunk framing aligned.
	HandleRequestBody(socket *fd.Socket) TickResult

	// HandleSocketWriteTick emits at most one chunk of progress,
	// sending headers first if they have not been sent yet.
	HandleSocketWriteTick(socket *fd.Socket) TickResult

	// IsFullResponseSent is true only once headers, every body byte,
	// and (in chunked mode) the terminating zero-chunk are written.
	IsFullResponseSent() bool

	// Terminate releases any owned resource: open file fd, CGI pipes,
	// child process.
	Terminate()

	// ShouldDirectlySendResponse reports whether Writable interest
	// should be registered immediately, without waiting for the
	// request body to be read first.
	ShouldDirectlySendResponse() bool

	// StatusCode is the HTTP status line's numeric code.
	StatusCode() int
}
