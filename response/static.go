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

package response

import (
	"strconv"

	"github.com/nabbar/webserv/fd"
	"github.com/nabbar/webserv/httpmsg"
)

// StaticResponse serves an in-memory body: error pages, redirects,
// directory listings.
type StaticResponse struct {
	status      int
	headers     *httpmsg.Headers
	body        []byte
	isHead      bool
	closeConn   bool
	headersSent []byte
	headOffset  int
	bodyOffset  int
	bw          fd.BodyWriter
	done        bool
}

// NewStaticResponse builds a StaticResponse with the given status and
// body. Content-Length is the body length, except for HEAD requests
// where it is reported as 0 and no body is ever written.
func NewStaticResponse(status int, body []byte, isHead bool, closeConn bool) *StaticResponse {
	h := baseHeaders(closeConn)

	length := len(body)
	if isHead {
		length = 0
	}
	h.Set(httpmsg.ContentLength.String(), strconv.Itoa(length))

	return &StaticResponse{
		status:    status,
		headers:   h,
		body:      body,
		isHead:    isHead,
		closeConn: closeConn,
	}
}

// Headers exposes the mutable header set so callers (error-page
// construction, redirect Location header) can add to it before the
// first write tick.
func (s *StaticResponse) Headers() *httpmsg.Headers { return s.headers }

func (s *StaticResponse) StatusCode() int { return s.status }

func (s *StaticResponse) ShouldDirectlySendResponse() bool { return true }

func (s *StaticResponse) HandleRequestBody(socket *fd.Socket) TickResult {
	socket.ExtractAll()
	return TickResult{}
}

func (s *StaticResponse) HandleSocketWriteTick(socket *fd.Socket) TickResult {
	if s.headersSent == nil {
		s.headersSent = renderHeaderBlock(s.status, s.headers)
	}

	if s.headOffset < len(s.headersSent) {
		n := socket.WriteAsString(s.headersSent[s.headOffset:])
		s.headOffset += n
		return TickResult{}
	}

	if s.isHead || len(s.body) == 0 {
		s.done = true
		return TickResult{}
	}

	written := s.bw.SendStringAsString(s.body, s.bodyOffset, socket)
	s.bodyOffset += written

	if s.bodyOffset >= len(s.body) && s.bw.IsEmpty() {
		s.done = true
	}

	return TickResult{}
}

func (s *StaticResponse) IsFullResponseSent() bool { return s.done }

func (s *StaticResponse) Terminate() {}
